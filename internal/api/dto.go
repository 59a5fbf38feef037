package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Reporta/internal/domain"
)

// Report DTOs

// GenerateReportRequest — запрос на генерацию и рассылку отчёта.
type GenerateReportRequest struct {
	DestinationEmail string `json:"destination_email,omitempty"`
	Format           string `json:"format,omitempty"`
	UseFixedEmails   bool   `json:"use_fixed_emails,omitempty"`
	Status           string `json:"status,omitempty"`
	Limit            int    `json:"limit,omitempty"`
	StartDate        string `json:"start_date,omitempty"`
	EndDate          string `json:"end_date,omitempty"`
	ExecutedBy       string `json:"executed_by,omitempty"`
}

// Job DTOs

// CreateJobRequest — запрос на создание scheduled job.
type CreateJobRequest struct {
	Name              string             `json:"name"`
	Frequency         string             `json:"frequency"`
	TimeOfDay         string             `json:"time_of_day"`
	DayOfWeek         *int               `json:"day_of_week,omitempty"`
	DayOfMonth        *int               `json:"day_of_month,omitempty"`
	Format            string             `json:"format,omitempty"`
	Filters           domain.JobFilters  `json:"filters,omitempty"`
	SendToFixedEmails *bool              `json:"send_to_fixed_emails,omitempty"`
	IsActive          *bool              `json:"is_active,omitempty"`
}

// UpdateJobRequest — запрос на обновление job.
// Обновляются только явно переданные поля.
type UpdateJobRequest struct {
	Name              *string            `json:"name,omitempty"`
	Frequency         *string            `json:"frequency,omitempty"`
	TimeOfDay         *string            `json:"time_of_day,omitempty"`
	DayOfWeek         *int               `json:"day_of_week,omitempty"`
	DayOfMonth        *int               `json:"day_of_month,omitempty"`
	Format            *string            `json:"format,omitempty"`
	Filters           *domain.JobFilters `json:"filters,omitempty"`
	SendToFixedEmails *bool              `json:"send_to_fixed_emails,omitempty"`
}

// SetActiveRequest — запрос на включение/выключение job или email.
type SetActiveRequest struct {
	IsActive bool `json:"is_active"`
}

// JobResponse — ответ с job.
type JobResponse struct {
	ID                uuid.UUID         `json:"id"`
	Name              string            `json:"name"`
	ReportType        string            `json:"report_type"`
	Frequency         domain.Frequency  `json:"frequency"`
	TimeOfDay         string            `json:"time_of_day"`
	DayOfWeek         *int              `json:"day_of_week,omitempty"`
	DayOfMonth        *int              `json:"day_of_month,omitempty"`
	IsActive          bool              `json:"is_active"`
	Filters           domain.JobFilters `json:"filters"`
	Format            domain.ReportFormat `json:"format"`
	SendToFixedEmails bool              `json:"send_to_fixed_emails"`
	LastRun           *time.Time        `json:"last_run,omitempty"`
	NextRun           *time.Time        `json:"next_run,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// JobFromDomain конвертирует domain.ScheduledJob в JobResponse.
func JobFromDomain(j *domain.ScheduledJob) JobResponse {
	return JobResponse{
		ID:                j.ID,
		Name:              j.Name,
		ReportType:        j.ReportType,
		Frequency:         j.Frequency,
		TimeOfDay:         j.TimeOfDay,
		DayOfWeek:         j.DayOfWeek,
		DayOfMonth:        j.DayOfMonth,
		IsActive:          j.IsActive,
		Filters:           j.Filters,
		Format:            j.Format,
		SendToFixedEmails: j.SendToFixedEmails,
		LastRun:           j.LastRun,
		NextRun:           j.NextRun,
		CreatedAt:         j.CreatedAt,
		UpdatedAt:         j.UpdatedAt,
	}
}

// Email DTOs

// CreateEmailRequest — запрос на добавление фиксированного получателя.
type CreateEmailRequest struct {
	Email      string `json:"email"`
	Name       string `json:"name,omitempty"`
	ReportType string `json:"report_type,omitempty"`
	IsActive   *bool  `json:"is_active,omitempty"`
}

// UpdateEmailRequest — запрос на обновление получателя.
type UpdateEmailRequest struct {
	Email *string `json:"email,omitempty"`
	Name  *string `json:"name,omitempty"`
}

// EmailResponse — ответ с получателем.
type EmailResponse struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name,omitempty"`
	ReportType string    `json:"report_type"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// EmailFromDomain конвертирует domain.ReportEmail в EmailResponse.
func EmailFromDomain(e *domain.ReportEmail) EmailResponse {
	return EmailResponse{
		ID:         e.ID,
		Email:      e.Email,
		Name:       e.Name,
		ReportType: e.ReportType,
		IsActive:   e.IsActive,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

// Execution DTOs

// ExecutionResponse — ответ с выполнением.
type ExecutionResponse struct {
	ID               uuid.UUID              `json:"id"`
	ReportID         *uuid.UUID             `json:"report_id,omitempty"`
	Status           domain.ExecutionStatus `json:"status"`
	RecordsProcessed int                    `json:"records_processed"`
	EmailsSentTo     []string               `json:"emails_sent_to,omitempty"`
	ErrorMessage     string                 `json:"error_message,omitempty"`
	ExecutedByID     *uuid.UUID             `json:"executed_by_id,omitempty"`
	ExecutedAt       time.Time              `json:"executed_at"`
	CompletedAt      *time.Time             `json:"completed_at,omitempty"`
	DurationMs       *int64                 `json:"duration_ms,omitempty"`
}

// ExecutionFromDomain конвертирует domain.ReportExecution в ExecutionResponse.
func ExecutionFromDomain(e *domain.ReportExecution) ExecutionResponse {
	return ExecutionResponse{
		ID:               e.ID,
		ReportID:         e.ReportID,
		Status:           e.Status,
		RecordsProcessed: e.RecordsProcessed,
		EmailsSentTo:     e.EmailsSentTo,
		ErrorMessage:     e.ErrorMessage,
		ExecutedByID:     e.ExecutedByID,
		ExecutedAt:       e.ExecutedAt,
		CompletedAt:      e.CompletedAt,
		DurationMs:       e.DurationMs,
	}
}

// Dashboard DTOs

// MetricStat — одна метрика дашборда с трендом.
type MetricStat struct {
	Value         int64 `json:"value"`
	PreviousValue int64 `json:"previous_value"`
	TrendPercent  int   `json:"trend_percent"`
}

// DashboardStatsResponse — сводка метрик за текущий период.
type DashboardStatsResponse struct {
	Period             string     `json:"period"`
	ReportsGenerated   MetricStat `json:"reports_generated"`
	EmailsSent         MetricStat `json:"emails_sent"`
	OccurrencesFetched MetricStat `json:"occurrences_fetched"`
}

// ServiceStatus — состояние одного сервиса по последней проверке.
type ServiceStatus struct {
	Service   string     `json:"service"`
	Status    string     `json:"status"`
	LatencyMs *int64     `json:"latency_ms,omitempty"`
	Message   string     `json:"message,omitempty"`
	CheckedAt *time.Time `json:"checked_at,omitempty"`
}

// SystemStatusResponse — состояние всех отслеживаемых сервисов.
type SystemStatusResponse struct {
	Services []ServiceStatus `json:"services"`
}
