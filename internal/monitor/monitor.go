// Package monitor отслеживает состояние компонентов системы.
//
// Каждую минуту по cron выполняются probes (БД, tracker API, SMTP,
// API backend), результат пишется в system_logs. Дополнительно
// потребляются события execution.finished из RabbitMQ — по ним
// ведутся Prometheus счётчики выполнений.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/shaiso/Reporta/internal/domain"
)

// warningLatency — задержка, после которой живой сервис считается degraded.
const warningLatency = 2 * time.Second

// Probe проверяет доступность одного сервиса.
type Probe func(ctx context.Context) error

// Check — именованная проверка сервиса.
type Check struct {
	Service string
	Probe   Probe
}

// LogStore — запись результатов проверок.
type LogStore interface {
	Insert(ctx context.Context, log *domain.SystemLog) error
}

// Monitor периодически прогоняет проверки и сохраняет результаты.
type Monitor struct {
	store  LogStore
	checks []Check
	logger *slog.Logger

	cron *cron.Cron
}

// Config — конфигурация Monitor.
type Config struct {
	Store  LogStore
	Checks []Check
	Logger *slog.Logger
}

// New создаёт новый Monitor.
func New(cfg Config) *Monitor {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Monitor{
		store:  cfg.Store,
		checks: cfg.Checks,
		logger: logger,
		cron:   cron.New(),
	}
}

// Start запускает периодические проверки. Первый прогон выполняется
// сразу, дальше — раз в минуту.
func (m *Monitor) Start(ctx context.Context) error {
	m.RunChecks(ctx)

	_, err := m.cron.AddFunc("@every 1m", func() {
		m.RunChecks(ctx)
	})
	if err != nil {
		return fmt.Errorf("schedule health checks: %w", err)
	}

	m.cron.Start()
	m.logger.Info("monitor started", "checks", len(m.checks))
	return nil
}

// Stop останавливает проверки, дожидаясь текущего прогона.
func (m *Monitor) Stop() {
	<-m.cron.Stop().Done()
	m.logger.Info("monitor stopped")
}

// RunChecks прогоняет все проверки один раз.
// Сбой одной проверки не мешает остальным.
func (m *Monitor) RunChecks(ctx context.Context) {
	for _, check := range m.checks {
		entry := m.runCheck(ctx, check)

		if err := m.store.Insert(ctx, entry); err != nil {
			m.logger.Error("failed to store health check",
				"service", check.Service,
				"error", err,
			)
		}
	}
}

// runCheck выполняет одну проверку и строит запись результата.
func (m *Monitor) runCheck(ctx context.Context, check Check) *domain.SystemLog {
	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	started := time.Now()
	err := check.Probe(checkCtx)
	latency := time.Since(started).Milliseconds()

	entry := &domain.SystemLog{
		ID:        uuid.New(),
		Service:   check.Service,
		LatencyMs: &latency,
		CheckedAt: started,
	}

	switch {
	case err != nil:
		entry.Status = domain.ServiceStatusOffline
		entry.Message = err.Error()
		m.logger.Warn("service offline",
			"service", check.Service,
			"error", err,
		)
	case latency > warningLatency.Milliseconds():
		entry.Status = domain.ServiceStatusWarning
		entry.Message = fmt.Sprintf("slow response: %dms", latency)
	default:
		entry.Status = domain.ServiceStatusOnline
	}

	return entry
}
