package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Reporta/internal/domain"
)

// EmailRepo — репозиторий для работы с фиксированными получателями отчётов.
type EmailRepo struct {
	pool *pgxpool.Pool
}

// NewEmailRepo создаёт новый EmailRepo.
func NewEmailRepo(pool *pgxpool.Pool) *EmailRepo {
	return &EmailRepo{pool: pool}
}

// Create создаёт нового получателя.
func (r *EmailRepo) Create(ctx context.Context, email *domain.ReportEmail) error {
	query := `
		INSERT INTO report_emails (id, email, name, report_type, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		email.ID,
		email.Email,
		nullString(email.Name),
		email.ReportType,
		email.IsActive,
		email.CreatedAt,
		email.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert report email: %w", err)
	}
	return nil
}

// GetByID возвращает получателя по ID.
func (r *EmailRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ReportEmail, error) {
	query := `
		SELECT id, email, name, report_type, is_active, created_at, updated_at
		FROM report_emails
		WHERE id = $1
	`
	email, err := scanEmail(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return email, err
}

// List возвращает получателей, опционально по типу отчёта.
func (r *EmailRepo) List(ctx context.Context, reportType string) ([]domain.ReportEmail, error) {
	query := `
		SELECT id, email, name, report_type, is_active, created_at, updated_at
		FROM report_emails
		WHERE ($1::text IS NULL OR report_type = $1)
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, nullString(reportType))
	if err != nil {
		return nil, fmt.Errorf("list report emails: %w", err)
	}
	defer rows.Close()

	return collectEmails(rows)
}

// ListActive возвращает активных получателей для типа отчёта.
func (r *EmailRepo) ListActive(ctx context.Context, reportType string) ([]domain.ReportEmail, error) {
	query := `
		SELECT id, email, name, report_type, is_active, created_at, updated_at
		FROM report_emails
		WHERE report_type = $1 AND is_active = true
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, reportType)
	if err != nil {
		return nil, fmt.Errorf("list active report emails: %w", err)
	}
	defer rows.Close()

	return collectEmails(rows)
}

// Update обновляет получателя.
func (r *EmailRepo) Update(ctx context.Context, email *domain.ReportEmail) error {
	query := `
		UPDATE report_emails
		SET email = $2, name = $3, report_type = $4, is_active = $5, updated_at = $6
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query,
		email.ID,
		email.Email,
		nullString(email.Name),
		email.ReportType,
		email.IsActive,
		email.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update report email: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete удаляет получателя.
func (r *EmailRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM report_emails WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete report email: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Helpers ---

func scanEmail(row pgx.Row) (*domain.ReportEmail, error) {
	var e domain.ReportEmail
	var name *string

	err := row.Scan(
		&e.ID,
		&e.Email,
		&name,
		&e.ReportType,
		&e.IsActive,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan report email: %w", err)
	}

	if name != nil {
		e.Name = *name
	}

	return &e, nil
}

func collectEmails(rows pgx.Rows) ([]domain.ReportEmail, error) {
	var emails []domain.ReportEmail
	for rows.Next() {
		email, err := scanEmail(rows)
		if err != nil {
			return nil, err
		}
		emails = append(emails, *email)
	}
	return emails, rows.Err()
}
