package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Типы метрик дашборда.
const (
	MetricReportsGenerated   = "reports_generated"
	MetricEmailsSent         = "emails_sent"
	MetricOccurrencesFetched = "occurrences_fetched"
)

// DashboardMetric — счётчик метрики за один период.
//
// Период — календарный месяц, ключ "YYYY-MM". PreviousValue — значение
// той же метрики за предыдущий период, фиксируется при первом инкременте
// в новом периоде и используется для вычисления тренда.
type DashboardMetric struct {
	// ID — уникальный идентификатор записи.
	ID uuid.UUID `json:"id"`

	// MetricType — тип метрики (MetricReportsGenerated и т.д.).
	MetricType string `json:"metric_type"`

	// Period — ключ периода, формат "YYYY-MM".
	Period string `json:"period"`

	// Value — накопленное значение за период.
	Value int64 `json:"value"`

	// PreviousValue — значение за предыдущий период.
	PreviousValue int64 `json:"previous_value"`

	// RecordedAt — время первой записи в периоде.
	RecordedAt time.Time `json:"recorded_at"`
}

// PeriodKey возвращает ключ периода для момента времени.
func PeriodKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// PreviousPeriodKey возвращает ключ предыдущего периода.
func PreviousPeriodKey(t time.Time) string {
	// Первое число месяца, чтобы AddDate не перескочил через короткий месяц.
	firstOfMonth := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return PeriodKey(firstOfMonth.AddDate(0, -1, 0))
}

// Trend возвращает изменение метрики в процентах относительно
// предыдущего периода. При previous=0: 100% если current>0, иначе 0%.
func Trend(current, previous int64) int {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return int(math.Round(float64(current-previous) / float64(previous) * 100))
}
