package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Reporta/internal/domain"
)

// JobRepo — репозиторий для работы со scheduled jobs.
type JobRepo struct {
	pool *pgxpool.Pool
}

// NewJobRepo создаёт новый JobRepo.
func NewJobRepo(pool *pgxpool.Pool) *JobRepo {
	return &JobRepo{pool: pool}
}

// Create создаёт новый job.
func (r *JobRepo) Create(ctx context.Context, job *domain.ScheduledJob) error {
	filtersJSON, err := json.Marshal(job.Filters)
	if err != nil {
		return fmt.Errorf("marshal filters: %w", err)
	}

	query := `
		INSERT INTO scheduled_jobs (id, name, report_type, frequency, time_of_day,
		                            day_of_week, day_of_month, is_active, filters, format,
		                            send_to_fixed_emails, last_run, next_run, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err = r.pool.Exec(ctx, query,
		job.ID,
		job.Name,
		job.ReportType,
		job.Frequency,
		job.TimeOfDay,
		job.DayOfWeek,
		job.DayOfMonth,
		job.IsActive,
		filtersJSON,
		job.Format,
		job.SendToFixedEmails,
		job.LastRun,
		job.NextRun,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// GetByID возвращает job по ID.
func (r *JobRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ScheduledJob, error) {
	query := `
		SELECT id, name, report_type, frequency, time_of_day, day_of_week, day_of_month,
		       is_active, filters, format, send_to_fixed_emails, last_run, next_run,
		       created_at, updated_at
		FROM scheduled_jobs
		WHERE id = $1
	`
	return scanJob(r.pool.QueryRow(ctx, query, id))
}

// List возвращает все jobs, новые первыми.
func (r *JobRepo) List(ctx context.Context) ([]domain.ScheduledJob, error) {
	query := `
		SELECT id, name, report_type, frequency, time_of_day, day_of_week, day_of_month,
		       is_active, filters, format, send_to_fixed_emails, last_run, next_run,
		       created_at, updated_at
		FROM scheduled_jobs
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	return collectJobs(rows)
}

// ListDue возвращает активные jobs с подошедшим next_run.
func (r *JobRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]domain.ScheduledJob, error) {
	query := `
		SELECT id, name, report_type, frequency, time_of_day, day_of_week, day_of_month,
		       is_active, filters, format, send_to_fixed_emails, last_run, next_run,
		       created_at, updated_at
		FROM scheduled_jobs
		WHERE is_active = true
		  AND next_run IS NOT NULL
		  AND next_run <= $1
		ORDER BY next_run ASC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list due jobs: %w", err)
	}
	defer rows.Close()

	return collectJobs(rows)
}

// Update обновляет job.
func (r *JobRepo) Update(ctx context.Context, job *domain.ScheduledJob) error {
	filtersJSON, err := json.Marshal(job.Filters)
	if err != nil {
		return fmt.Errorf("marshal filters: %w", err)
	}

	query := `
		UPDATE scheduled_jobs
		SET name = $2, report_type = $3, frequency = $4, time_of_day = $5,
		    day_of_week = $6, day_of_month = $7, is_active = $8, filters = $9,
		    format = $10, send_to_fixed_emails = $11, last_run = $12, next_run = $13,
		    updated_at = $14
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query,
		job.ID,
		job.Name,
		job.ReportType,
		job.Frequency,
		job.TimeOfDay,
		job.DayOfWeek,
		job.DayOfMonth,
		job.IsActive,
		filtersJSON,
		job.Format,
		job.SendToFixedEmails,
		job.LastRun,
		job.NextRun,
		job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete удаляет job.
func (r *JobRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM scheduled_jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Helpers ---

func scanJob(row pgx.Row) (*domain.ScheduledJob, error) {
	job, err := scanJobFrom(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return job, err
}

func scanJobFrom(row pgx.Row) (*domain.ScheduledJob, error) {
	var j domain.ScheduledJob
	var filtersJSON []byte

	err := row.Scan(
		&j.ID,
		&j.Name,
		&j.ReportType,
		&j.Frequency,
		&j.TimeOfDay,
		&j.DayOfWeek,
		&j.DayOfMonth,
		&j.IsActive,
		&filtersJSON,
		&j.Format,
		&j.SendToFixedEmails,
		&j.LastRun,
		&j.NextRun,
		&j.CreatedAt,
		&j.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan job: %w", err)
	}

	if filtersJSON != nil {
		if err := json.Unmarshal(filtersJSON, &j.Filters); err != nil {
			return nil, fmt.Errorf("unmarshal filters: %w", err)
		}
	}

	return &j, nil
}

func collectJobs(rows pgx.Rows) ([]domain.ScheduledJob, error) {
	var jobs []domain.ScheduledJob
	for rows.Next() {
		job, err := scanJobFrom(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}
