// Package cli реализует инструмент командной строки Reporta.
//
// # Обзор
//
// CLI — клиентская утилита для взаимодействия с Reporta API.
// Работает через HTTP, не импортирует внутренние пакеты системы.
// CLI используется для генерации отчётов, управления расписаниями
// и списком получателей.
//
// # Ключевые компоненты
//
// ## Client
//
// HTTP-клиент для Reporta API. Инкапсулирует все HTTP-запросы,
// парсинг ответов (DataResponse, ListResponse, ErrorResponse)
// и обработку ошибок.
//
//	client := cli.NewClient("http://localhost:8080")
//	jobs, err := client.ListJobs()
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON (json.MarshalIndent) — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr.
// Это позволяет использовать pipe: reporta job list --json | jq .
//
// ## Commands
//
// Cobra-команды организованы по ресурсам:
//   - report: generate, preview, download, executions
//   - job: list, create, show, update, delete, enable, disable
//   - email: list, add, update, remove, enable, disable
//   - dashboard: stats, status
//
// Каждая группа создаётся через фабричную функцию (NewReportCmd и т.д.),
// принимающую clientFn и outputFn — замыкания для ленивого создания
// Client и Output после парсинга PersistentFlags.
package cli
