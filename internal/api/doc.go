// Package api содержит HTTP API сервер.
//
// Структура:
//   - handler.go           — Handler с DI (репозитории, report service, logger)
//   - routes.go            — регистрация маршрутов
//   - middleware.go        — middleware (logging, recovery)
//   - response.go          — унифицированные JSON-ответы и обработка ошибок
//   - dto.go               — Data Transfer Objects (request/response)
//   - report_handler.go    — генерация, preview, download, история выполнений
//   - job_handler.go       — обработчики для /jobs
//   - email_handler.go     — обработчики для /emails
//   - dashboard_handler.go — метрики и состояние сервисов
//
// API предоставляет REST endpoints для генерации отчётов и управления
// расписаниями и получателями.
package api
