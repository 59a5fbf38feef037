package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Frequency — частота выполнения scheduled job.
type Frequency string

const (
	// FrequencyDaily — каждый день в заданное время.
	FrequencyDaily Frequency = "daily"

	// FrequencyWeekly — раз в неделю в заданный день недели.
	FrequencyWeekly Frequency = "weekly"

	// FrequencyMonthly — раз в месяц в заданный день месяца.
	FrequencyMonthly Frequency = "monthly"
)

// IsValid проверяет, что частота известна.
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	default:
		return false
	}
}

// ReportFormat — формат артефакта отчёта.
type ReportFormat string

const (
	// FormatExcel — XLSX файл.
	FormatExcel ReportFormat = "excel"

	// FormatCSV — CSV файл с разделителем ";".
	FormatCSV ReportFormat = "csv"
)

// IsValid проверяет, что формат известен.
func (f ReportFormat) IsValid() bool {
	return f == FormatExcel || f == FormatCSV
}

// JobFilters — фильтры, применяемые к отчёту при выполнении job.
type JobFilters struct {
	// Limit — максимальное количество записей в отчёте (0 = без ограничения).
	Limit int `json:"limit,omitempty"`

	// StartDate — нижняя граница createdDate, формат "2006-01-02".
	StartDate string `json:"start_date,omitempty"`

	// EndDate — верхняя граница createdDate, формат "2006-01-02".
	EndDate string `json:"end_date,omitempty"`
}

// ScheduledJob — расписание автоматической генерации и рассылки отчёта.
//
// Job задаёт частоту (daily/weekly/monthly), время суток и фильтры.
// Scheduler проверяет NextRun и запускает генерацию, когда время подошло.
type ScheduledJob struct {
	// ID — уникальный идентификатор job.
	ID uuid.UUID `json:"id"`

	// Name — имя job для удобства.
	Name string `json:"name"`

	// ReportType — тип отчёта ("occurrences").
	ReportType string `json:"report_type"`

	// Frequency — частота выполнения.
	Frequency Frequency `json:"frequency"`

	// TimeOfDay — время суток запуска, формат "HH:mm".
	TimeOfDay string `json:"time_of_day"`

	// DayOfWeek — день недели (0=воскресенье .. 6=суббота).
	// Обязателен только для weekly.
	DayOfWeek *int `json:"day_of_week,omitempty"`

	// DayOfMonth — день месяца (1-31). Обязателен только для monthly.
	// Для коротких месяцев день прижимается к последнему дню месяца.
	DayOfMonth *int `json:"day_of_month,omitempty"`

	// IsActive — флаг активности. Неактивные jobs scheduler игнорирует.
	IsActive bool `json:"is_active"`

	// Filters — фильтры отчёта.
	Filters JobFilters `json:"filters"`

	// Format — формат артефакта.
	Format ReportFormat `json:"format"`

	// SendToFixedEmails — отправлять ли на фиксированные адреса.
	SendToFixedEmails bool `json:"send_to_fixed_emails"`

	// LastRun — время последней попытки выполнения.
	LastRun *time.Time `json:"last_run,omitempty"`

	// NextRun — время следующего запуска. Пока job активен, всегда в будущем
	// (кроме окна, когда выполнение уже идёт).
	NextRun *time.Time `json:"next_run,omitempty"`

	// CreatedAt — время создания.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt — время последнего обновления.
	UpdatedAt time.Time `json:"updated_at"`
}

// IsDue проверяет, пора ли запускать.
func (j *ScheduledJob) IsDue(now time.Time) bool {
	if !j.IsActive {
		return false
	}
	if j.NextRun == nil {
		return false
	}
	return !now.Before(*j.NextRun)
}

// RecordRun записывает попытку выполнения и новое время запуска.
// Вызывается после каждой попытки, успешной или нет.
func (j *ScheduledJob) RecordRun(now, nextRun time.Time) {
	j.LastRun = &now
	j.NextRun = &nextRun
	j.UpdatedAt = now
}

// Validate проверяет консистентность полей job.
func (j *ScheduledJob) Validate() error {
	if j.Name == "" {
		return fmt.Errorf("name is required")
	}
	if j.ReportType == "" {
		return fmt.Errorf("report_type is required")
	}
	if !j.Frequency.IsValid() {
		return fmt.Errorf("invalid frequency %q", j.Frequency)
	}
	if _, _, err := ParseTimeOfDay(j.TimeOfDay); err != nil {
		return err
	}
	if !j.Format.IsValid() {
		return fmt.Errorf("invalid format %q", j.Format)
	}

	switch j.Frequency {
	case FrequencyWeekly:
		if j.DayOfWeek == nil {
			return fmt.Errorf("day_of_week is required for weekly frequency")
		}
		if *j.DayOfWeek < 0 || *j.DayOfWeek > 6 {
			return fmt.Errorf("day_of_week must be in 0..6, got %d", *j.DayOfWeek)
		}
	case FrequencyMonthly:
		if j.DayOfMonth == nil {
			return fmt.Errorf("day_of_month is required for monthly frequency")
		}
		if *j.DayOfMonth < 1 || *j.DayOfMonth > 31 {
			return fmt.Errorf("day_of_month must be in 1..31, got %d", *j.DayOfMonth)
		}
	}

	return nil
}

// ParseTimeOfDay парсит время суток в формате "HH:mm".
func ParseTimeOfDay(s string) (hour, minute int, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time of day %q, expected HH:mm", s)
	}

	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}

	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}

	return hour, minute, nil
}
