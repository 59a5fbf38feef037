package domain

import (
	"time"

	"github.com/google/uuid"
)

// Имена сервисов, состояние которых отслеживает monitor.
const (
	ServiceAPIBackend  = "api_backend"
	ServiceDatabase    = "database"
	ServiceTrackerAPI  = "tracker_api"
	ServiceEmailServer = "email_server"
)

// Статусы сервисов.
const (
	ServiceStatusOnline  = "online"
	ServiceStatusWarning = "warning"
	ServiceStatusOffline = "offline"
)

// SystemLog — одна проверка состояния сервиса.
type SystemLog struct {
	// ID — уникальный идентификатор записи.
	ID uuid.UUID `json:"id"`

	// Service — имя сервиса (ServiceDatabase и т.д.).
	Service string `json:"service"`

	// Status — результат проверки (online/warning/offline).
	Status string `json:"status"`

	// LatencyMs — задержка проверки в миллисекундах.
	LatencyMs *int64 `json:"latency_ms,omitempty"`

	// Message — дополнительное сообщение (текст ошибки и т.п.).
	Message string `json:"message,omitempty"`

	// CheckedAt — время проверки.
	CheckedAt time.Time `json:"checked_at"`
}
