// Package report реализует pipeline генерации и рассылки отчётов.
//
// Центральная точка — Orchestrator.GenerateAndSend: аутентификация
// во внешнем tracker API, полная постраничная выборка, фильтрация по
// датам, проекция, рендеринг артефакта, рассылка и запись итога
// в журнал выполнений с инкрементом метрик дашборда.
//
// Read-only пути (RenderReport, Preview) проходят те же шаги выборки
// и рендеринга, но не оставляют записей и ничего не отправляют.
package report
