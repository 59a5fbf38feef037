// Package mq предоставляет инфраструктуру для работы с RabbitMQ.
//
// Структура:
//   - connection.go — управление соединением (reconnect, graceful shutdown)
//   - topology.go   — объявление exchanges, queues, bindings
//   - publisher.go  — публикация событий
//   - consumer.go   — потребление событий
//
// Типы сообщений:
//   - execution.finished — выполнение отчёта завершено (success или failed)
//
// Exchanges:
//   - reporta.executions — события выполнений отчётов
//   - reporta.dlq        — dead letter queue
//
// Публикация идёт fire-and-forget: состояние выполнения уже в БД,
// событие — только сигнал для monitor.
package mq
