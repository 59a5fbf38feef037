package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shaiso/Reporta/internal/domain"
	"github.com/shaiso/Reporta/internal/repo"
)

// Runner запускает генерацию и рассылку отчёта для одного job.
// Реализуется report.Orchestrator.
type Runner interface {
	RunScheduled(ctx context.Context, job *domain.ScheduledJob) error
}

// JobStore — операции над scheduled jobs, нужные планировщику.
type JobStore interface {
	ListDue(ctx context.Context, now time.Time, limit int) ([]domain.ScheduledJob, error)
	Update(ctx context.Context, job *domain.ScheduledJob) error
}

// Scheduler — планировщик, выполняющий due jobs.
type Scheduler struct {
	jobRepo   JobStore
	runner    Runner
	logger    *slog.Logger
	batchSize int
}

// Config — конфигурация Scheduler.
type Config struct {
	JobRepo   JobStore
	Runner    Runner
	Logger    *slog.Logger
	BatchSize int // количество jobs за один тик (default: 50)
}

// New создаёт новый Scheduler.
func New(cfg Config) *Scheduler {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 50
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		jobRepo:   cfg.JobRepo,
		runner:    cfg.Runner,
		logger:    logger,
		batchSize: batchSize,
	}
}

// Tick выполняет один тик планировщика.
//
// 1. Находит due jobs (is_active=true, next_run <= now)
// 2. Для каждого job запускает генерацию отчёта
// 3. Записывает попытку и переносит next_run — независимо от исхода,
//    чтобы упавший job не молотил на каждом тике
//
// Jobs выполняются последовательно: генерация отчёта тяжёлая, и два
// отчёта одновременно друг другу только мешают. Ошибка одного job
// не блокирует обработку остальных.
func (s *Scheduler) Tick(ctx context.Context) error {
	now := time.Now()

	jobs, err := s.jobRepo.ListDue(ctx, now, s.batchSize)
	if err != nil {
		return fmt.Errorf("list due jobs: %w", err)
	}

	if len(jobs) == 0 {
		return nil
	}

	s.logger.Debug("found due jobs", "count", len(jobs))

	var succeeded, failed int
	for i := range jobs {
		job := &jobs[i]

		if err := s.processJob(ctx, job, now); err != nil {
			failed++
			s.logger.Error("failed to process job",
				"job_id", job.ID,
				"job_name", job.Name,
				"error", err,
			)
			continue
		}
		succeeded++
	}

	s.logger.Info("scheduler tick completed",
		"due", len(jobs),
		"succeeded", succeeded,
		"failed", failed,
	)

	return nil
}

// processJob выполняет один job и переносит его next_run.
func (s *Scheduler) processJob(ctx context.Context, job *domain.ScheduledJob, now time.Time) error {
	s.logger.Info("running scheduled job",
		"job_id", job.ID,
		"job_name", job.Name,
		"frequency", job.Frequency,
	)

	runErr := s.runner.RunScheduled(ctx, job)

	// Next_run переносится даже после ошибки: факт попытки и партиальные
	// сбои фиксируются в execution ledger, а расписание едет дальше.
	job.RecordRun(now, NextRun(job, now))
	if err := s.jobRepo.Update(ctx, job); err != nil {
		if runErr != nil {
			s.logger.Error("job run failed", "job_id", job.ID, "error", runErr)
		}
		return fmt.Errorf("update job: %w", err)
	}

	if runErr != nil {
		return fmt.Errorf("run job: %w", runErr)
	}
	return nil
}

// Run крутит тики с заданным интервалом до отмены контекста.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	s.logger.Info("scheduler started", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		case <-ticker.C:
			if err := s.Tick(ctx); err != nil {
				s.logger.Error("scheduler tick failed", "error", err)
			}
		}
	}
}

var _ JobStore = (*repo.JobRepo)(nil)
