// Package tracker реализует клиент внешнего tracker API.
//
// Структура:
//   - client.go — аутентификация и запрос одной страницы occurrences
//   - fetch.go  — полная выборка batch'ами параллельных запросов
//
// Клиент отдаёт сырые записи domain.Occurrence; проекция на поля отчёта
// выполняется выше, в report pipeline.
package tracker
