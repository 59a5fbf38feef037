package api

import (
	"context"
	"log/slog"

	"github.com/shaiso/Reporta/internal/domain"
	"github.com/shaiso/Reporta/internal/report"
	"github.com/shaiso/Reporta/internal/repo"
)

// ReportService — операции генерации отчётов, нужные API.
// Реализуется report.Orchestrator.
type ReportService interface {
	GenerateAndSend(ctx context.Context, req report.GenerateRequest) (*report.GenerateResult, error)
	Preview(ctx context.Context, f report.FilterOptions, page, size int) (*report.PreviewResult, error)
	RenderReport(ctx context.Context, format domain.ReportFormat, f report.FilterOptions) ([]byte, error)
}

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	reports    ReportService
	jobRepo    *repo.JobRepo
	execRepo   *repo.ExecutionRepo
	emailRepo  *repo.EmailRepo
	metricRepo *repo.MetricRepo
	syslogRepo *repo.SystemLogRepo
	logger     *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	Reports    ReportService
	JobRepo    *repo.JobRepo
	ExecRepo   *repo.ExecutionRepo
	EmailRepo  *repo.EmailRepo
	MetricRepo *repo.MetricRepo
	SyslogRepo *repo.SystemLogRepo
	Logger     *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		reports:    cfg.Reports,
		jobRepo:    cfg.JobRepo,
		execRepo:   cfg.ExecRepo,
		emailRepo:  cfg.EmailRepo,
		metricRepo: cfg.MetricRepo,
		syslogRepo: cfg.SyslogRepo,
		logger:     cfg.Logger,
	}
}
