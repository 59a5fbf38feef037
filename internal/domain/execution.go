package domain

import (
	"time"

	"github.com/google/uuid"
)

// ExecutionStatus — статус выполнения отчёта.
//
// Жизненный цикл:
//
//	processing → success
//	           ↘ failed
//
// Оба конечных статуса терминальны: запись больше не изменяется.
type ExecutionStatus string

const (
	// ExecutionStatusProcessing — отчёт генерируется.
	ExecutionStatusProcessing ExecutionStatus = "processing"

	// ExecutionStatusSuccess — отчёт сгенерирован и разослан.
	ExecutionStatusSuccess ExecutionStatus = "success"

	// ExecutionStatusFailed — выполнение завершилось с ошибкой.
	ExecutionStatusFailed ExecutionStatus = "failed"
)

// IsTerminal возвращает true, если статус финальный.
func (s ExecutionStatus) IsTerminal() bool {
	return s == ExecutionStatusSuccess || s == ExecutionStatusFailed
}

// ReportExecution — одна попытка генерации и рассылки отчёта.
//
// Запись создаётся оркестратором со статусом processing в самом начале
// pipeline и ровно один раз переводится в терминальный статус.
// При частичном сбое RecordsProcessed и EmailsSentTo отражают только то,
// что реально успело завершиться.
type ReportExecution struct {
	// ID — уникальный идентификатор выполнения.
	ID uuid.UUID `json:"id"`

	// ReportID — ссылка на сохранённый отчёт, если есть.
	ReportID *uuid.UUID `json:"report_id,omitempty"`

	// Status — текущий статус.
	Status ExecutionStatus `json:"status"`

	// RecordsProcessed — количество записей в итоговом отчёте.
	RecordsProcessed int `json:"records_processed"`

	// EmailsSentTo — адреса, на которые отчёт был отправлен, в порядке отправки.
	EmailsSentTo []string `json:"emails_sent_to,omitempty"`

	// ErrorMessage — текст ошибки для статуса failed.
	ErrorMessage string `json:"error_message,omitempty"`

	// ExecutedByID — оператор, инициировавший выполнение (nil для scheduler).
	ExecutedByID *uuid.UUID `json:"executed_by_id,omitempty"`

	// ExecutedAt — время начала выполнения.
	ExecutedAt time.Time `json:"executed_at"`

	// CompletedAt — время завершения.
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// DurationMs — длительность выполнения в миллисекундах.
	DurationMs *int64 `json:"duration_ms,omitempty"`
}

// NewExecution создаёт запись выполнения в статусе processing.
func NewExecution(executedBy *uuid.UUID) *ReportExecution {
	return &ReportExecution{
		ID:           uuid.New(),
		Status:       ExecutionStatusProcessing,
		ExecutedByID: executedBy,
		ExecutedAt:   time.Now(),
	}
}

// MarkSuccess переводит выполнение в статус success.
func (e *ReportExecution) MarkSuccess(recordsProcessed int, sentTo []string) {
	now := time.Now()
	duration := now.Sub(e.ExecutedAt).Milliseconds()

	e.Status = ExecutionStatusSuccess
	e.RecordsProcessed = recordsProcessed
	e.EmailsSentTo = sentTo
	e.CompletedAt = &now
	e.DurationMs = &duration
}

// MarkFailed переводит выполнение в статус failed.
// recordsProcessed и sentTo — то, что успело завершиться до сбоя.
func (e *ReportExecution) MarkFailed(errMsg string, recordsProcessed int, sentTo []string) {
	now := time.Now()
	duration := now.Sub(e.ExecutedAt).Milliseconds()

	e.Status = ExecutionStatusFailed
	e.ErrorMessage = errMsg
	e.RecordsProcessed = recordsProcessed
	e.EmailsSentTo = sentTo
	e.CompletedAt = &now
	e.DurationMs = &duration
}
