package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Reporta/internal/domain"
)

// ExecutionRepo — репозиторий для работы с report executions.
type ExecutionRepo struct {
	pool *pgxpool.Pool
}

// NewExecutionRepo создаёт новый ExecutionRepo.
func NewExecutionRepo(pool *pgxpool.Pool) *ExecutionRepo {
	return &ExecutionRepo{pool: pool}
}

// Create создаёт новую запись выполнения.
func (r *ExecutionRepo) Create(ctx context.Context, exec *domain.ReportExecution) error {
	query := `
		INSERT INTO report_executions (id, report_id, status, records_processed,
		                               emails_sent_to, error_message, executed_by_id,
		                               executed_at, completed_at, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.pool.Exec(ctx, query,
		exec.ID,
		exec.ReportID,
		exec.Status,
		exec.RecordsProcessed,
		exec.EmailsSentTo,
		nullString(exec.ErrorMessage),
		exec.ExecutedByID,
		exec.ExecutedAt,
		exec.CompletedAt,
		exec.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("insert execution: %w", err)
	}
	return nil
}

// Update обновляет запись выполнения.
func (r *ExecutionRepo) Update(ctx context.Context, exec *domain.ReportExecution) error {
	query := `
		UPDATE report_executions
		SET status = $2, records_processed = $3, emails_sent_to = $4,
		    error_message = $5, completed_at = $6, duration_ms = $7
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query,
		exec.ID,
		exec.Status,
		exec.RecordsProcessed,
		exec.EmailsSentTo,
		nullString(exec.ErrorMessage),
		exec.CompletedAt,
		exec.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("update execution: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID возвращает выполнение по ID.
func (r *ExecutionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ReportExecution, error) {
	query := `
		SELECT id, report_id, status, records_processed, emails_sent_to,
		       error_message, executed_by_id, executed_at, completed_at, duration_ms
		FROM report_executions
		WHERE id = $1
	`
	exec, err := scanExecution(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return exec, err
}

// ExecutionFilter — параметры выборки executions.
type ExecutionFilter struct {
	ReportID *uuid.UUID
	Limit    int
}

// List возвращает выполнения, новые первыми.
func (r *ExecutionRepo) List(ctx context.Context, filter ExecutionFilter) ([]domain.ReportExecution, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, report_id, status, records_processed, emails_sent_to,
		       error_message, executed_by_id, executed_at, completed_at, duration_ms
		FROM report_executions
		WHERE ($1::uuid IS NULL OR report_id = $1)
		ORDER BY executed_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, nullUUID(filter.ReportID), limit)
	if err != nil {
		return nil, fmt.Errorf("list executions: %w", err)
	}
	defer rows.Close()

	var execs []domain.ReportExecution
	for rows.Next() {
		exec, err := scanExecution(rows)
		if err != nil {
			return nil, err
		}
		execs = append(execs, *exec)
	}
	return execs, rows.Err()
}

// ListRecent возвращает последние выполнения для дашборда.
func (r *ExecutionRepo) ListRecent(ctx context.Context, limit int) ([]domain.ReportExecution, error) {
	if limit <= 0 {
		limit = 5
	}
	return r.List(ctx, ExecutionFilter{Limit: limit})
}

// --- Helpers ---

func scanExecution(row pgx.Row) (*domain.ReportExecution, error) {
	var e domain.ReportExecution
	var errorMessage *string

	err := row.Scan(
		&e.ID,
		&e.ReportID,
		&e.Status,
		&e.RecordsProcessed,
		&e.EmailsSentTo,
		&errorMessage,
		&e.ExecutedByID,
		&e.ExecutedAt,
		&e.CompletedAt,
		&e.DurationMs,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan execution: %w", err)
	}

	if errorMessage != nil {
		e.ErrorMessage = *errorMessage
	}

	return &e, nil
}

// nullString возвращает nil для пустой строки (для NULL в БД).
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// nullUUID возвращает nil для пустого UUID.
func nullUUID(id *uuid.UUID) *uuid.UUID {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	return id
}
