package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Reporta/internal/domain"
)

// MetricRepo — репозиторий для счётчиков метрик дашборда.
type MetricRepo struct {
	pool *pgxpool.Pool
}

// NewMetricRepo создаёт новый MetricRepo.
func NewMetricRepo(pool *pgxpool.Pool) *MetricRepo {
	return &MetricRepo{pool: pool}
}

// Increment атомарно увеличивает счётчик метрики текущего периода.
//
// Выполняется одним INSERT ... ON CONFLICT, поэтому два конкурирующих
// инкремента по ещё не существующей строке периода не теряют друг друга.
// При создании строки previous_value заполняется значением метрики
// за предыдущий период (0, если его не было).
func (r *MetricRepo) Increment(ctx context.Context, metricType string, amount int64, now time.Time) error {
	period := domain.PeriodKey(now)
	prevPeriod := domain.PreviousPeriodKey(now)

	query := `
		INSERT INTO dashboard_metrics (id, metric_type, period, value, previous_value, recorded_at)
		VALUES ($1, $2, $3, $4,
		        COALESCE((SELECT value FROM dashboard_metrics
		                  WHERE metric_type = $2 AND period = $5), 0),
		        $6)
		ON CONFLICT (metric_type, period)
		DO UPDATE SET value = dashboard_metrics.value + EXCLUDED.value
	`
	_, err := r.pool.Exec(ctx, query, uuid.New(), metricType, period, amount, prevPeriod, now)
	if err != nil {
		return fmt.Errorf("increment metric %s: %w", metricType, err)
	}
	return nil
}

// Get возвращает метрику за период.
func (r *MetricRepo) Get(ctx context.Context, metricType, period string) (*domain.DashboardMetric, error) {
	query := `
		SELECT id, metric_type, period, value, previous_value, recorded_at
		FROM dashboard_metrics
		WHERE metric_type = $1 AND period = $2
	`
	var m domain.DashboardMetric
	err := r.pool.QueryRow(ctx, query, metricType, period).Scan(
		&m.ID,
		&m.MetricType,
		&m.Period,
		&m.Value,
		&m.PreviousValue,
		&m.RecordedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get metric: %w", err)
	}
	return &m, nil
}

// ListForPeriod возвращает все метрики периода.
func (r *MetricRepo) ListForPeriod(ctx context.Context, period string) ([]domain.DashboardMetric, error) {
	query := `
		SELECT id, metric_type, period, value, previous_value, recorded_at
		FROM dashboard_metrics
		WHERE period = $1
	`
	rows, err := r.pool.Query(ctx, query, period)
	if err != nil {
		return nil, fmt.Errorf("list metrics: %w", err)
	}
	defer rows.Close()

	var metrics []domain.DashboardMetric
	for rows.Next() {
		var m domain.DashboardMetric
		err := rows.Scan(&m.ID, &m.MetricType, &m.Period, &m.Value, &m.PreviousValue, &m.RecordedAt)
		if err != nil {
			return nil, fmt.Errorf("scan metric: %w", err)
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}
