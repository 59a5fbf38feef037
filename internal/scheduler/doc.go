// Package scheduler реализует планировщик scheduled jobs.
//
// Планировщик периодически (раз в минуту) проверяет таблицу jobs,
// находит те, у кого next_run подошёл, и последовательно запускает
// для них генерацию отчёта через report.Orchestrator.
//
// Вычисление следующего запуска (nextrun.go) — чистая функция от
// (job, now): daily, weekly по дню недели, monthly с прижатием дня
// к последнему дню короткого месяца.
package scheduler
