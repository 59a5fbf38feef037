package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Reporta/internal/domain"
)

// SystemLogRepo — репозиторий для журнала состояния сервисов.
type SystemLogRepo struct {
	pool *pgxpool.Pool
}

// NewSystemLogRepo создаёт новый SystemLogRepo.
func NewSystemLogRepo(pool *pgxpool.Pool) *SystemLogRepo {
	return &SystemLogRepo{pool: pool}
}

// Insert добавляет запись проверки.
func (r *SystemLogRepo) Insert(ctx context.Context, log *domain.SystemLog) error {
	query := `
		INSERT INTO system_logs (id, service, status, latency_ms, message, checked_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		log.ID,
		log.Service,
		log.Status,
		log.LatencyMs,
		nullString(log.Message),
		log.CheckedAt,
	)
	if err != nil {
		return fmt.Errorf("insert system log: %w", err)
	}
	return nil
}

// LatestByService возвращает последнюю проверку сервиса.
func (r *SystemLogRepo) LatestByService(ctx context.Context, service string) (*domain.SystemLog, error) {
	query := `
		SELECT id, service, status, latency_ms, message, checked_at
		FROM system_logs
		WHERE service = $1
		ORDER BY checked_at DESC
		LIMIT 1
	`
	var l domain.SystemLog
	var message *string
	err := r.pool.QueryRow(ctx, query, service).Scan(
		&l.ID,
		&l.Service,
		&l.Status,
		&l.LatencyMs,
		&message,
		&l.CheckedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get latest system log: %w", err)
	}

	if message != nil {
		l.Message = *message
	}

	return &l, nil
}
