package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReportTypeOccurrences — единственный тип отчёта на сегодня.
const ReportTypeOccurrences = "occurrences"

// ReportEmail — фиксированный получатель отчётов определённого типа.
//
// Список ведётся администраторами. При рассылке без явного адресата
// отчёт уходит на все активные адреса своего типа.
type ReportEmail struct {
	// ID — уникальный идентификатор записи.
	ID uuid.UUID `json:"id"`

	// Email — адрес получателя.
	Email string `json:"email"`

	// Name — имя получателя для удобства.
	Name string `json:"name,omitempty"`

	// ReportType — тип отчёта, который получает этот адрес.
	ReportType string `json:"report_type"`

	// IsActive — флаг активности. Неактивные адреса в рассылку не попадают.
	IsActive bool `json:"is_active"`

	// CreatedAt — время создания.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt — время последнего обновления.
	UpdatedAt time.Time `json:"updated_at"`
}
