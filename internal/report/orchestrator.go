package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Reporta/internal/domain"
	"github.com/shaiso/Reporta/internal/render"
)

// TrackerClient — внешний tracker API: аутентификация и полная выборка.
type TrackerClient interface {
	Authenticate(ctx context.Context) (string, error)
	GetAll(ctx context.Context, token, statusFilter string) ([]domain.Occurrence, error)
}

// Sender отправляет артефакт отчёта одному получателю.
type Sender interface {
	SendReport(ctx context.Context, recipient string, artifact []byte, format domain.ReportFormat, generatedAt time.Time) error
}

// ExecutionStore — хранилище записей выполнений.
type ExecutionStore interface {
	Create(ctx context.Context, exec *domain.ReportExecution) error
	Update(ctx context.Context, exec *domain.ReportExecution) error
}

// EmailStore — чтение фиксированных получателей.
type EmailStore interface {
	ListActive(ctx context.Context, reportType string) ([]domain.ReportEmail, error)
}

// MetricStore — счётчики метрик дашборда.
type MetricStore interface {
	Increment(ctx context.Context, metricType string, amount int64, now time.Time) error
}

// EventPublisher публикует событие о завершённом выполнении.
type EventPublisher interface {
	PublishExecutionFinished(ctx context.Context, exec *domain.ReportExecution) error
}

// DistributionPolicy — поведение рассылки при сбое отправки.
type DistributionPolicy string

const (
	// PolicyAbortOnFailure — первый сбой прерывает оставшиеся отправки.
	PolicyAbortOnFailure DistributionPolicy = "abort"

	// PolicyBestEffort — рассылка продолжается по оставшимся получателям,
	// итоговая ошибка собирает все сбои.
	PolicyBestEffort DistributionPolicy = "best_effort"
)

// Orchestrator — pipeline генерации и рассылки отчёта.
//
// Один вызов GenerateAndSend: auth → fetch → filter → project → render →
// resolve recipients → distribute → ledger → metrics. Каждая попытка
// оставляет ровно одну запись ReportExecution; при сбое запись получает
// статус failed с тем, что реально успело завершиться.
type Orchestrator struct {
	tracker    TrackerClient
	sender     Sender
	executions ExecutionStore
	emails     EmailStore
	metrics    MetricStore
	publisher  EventPublisher
	policy     DistributionPolicy
	logger     *slog.Logger
}

// Config — конфигурация Orchestrator.
type Config struct {
	Tracker    TrackerClient
	Sender     Sender
	Executions ExecutionStore
	Emails     EmailStore
	Metrics    MetricStore
	Publisher  EventPublisher // опционально
	Policy     DistributionPolicy // default: PolicyAbortOnFailure
	Logger     *slog.Logger
}

// New создаёт новый Orchestrator.
func New(cfg Config) *Orchestrator {
	policy := cfg.Policy
	if policy == "" {
		policy = PolicyAbortOnFailure
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		tracker:    cfg.Tracker,
		sender:     cfg.Sender,
		executions: cfg.Executions,
		emails:     cfg.Emails,
		metrics:    cfg.Metrics,
		publisher:  cfg.Publisher,
		policy:     policy,
		logger:     logger,
	}
}

// GenerateRequest — параметры генерации и рассылки.
type GenerateRequest struct {
	// DestinationEmail — ad hoc получатель (пустая строка = нет).
	DestinationEmail string

	// Format — формат артефакта. Пустой = excel.
	Format domain.ReportFormat

	// UseFixedEmails — добавить активных фиксированных получателей.
	UseFixedEmails bool

	// ReportID — ссылка на job, породивший выполнение (nil для ad hoc).
	ReportID *uuid.UUID

	// ExecutedBy — оператор, инициировавший выполнение (nil для scheduler).
	ExecutedBy *uuid.UUID

	// Filters — фильтры выборки.
	Filters FilterOptions
}

// GenerateResult — итог успешной генерации.
type GenerateResult struct {
	ExecutionID  uuid.UUID `json:"execution_id"`
	TotalRecords int       `json:"total_records"`
	SentTo       []string  `json:"sent_to"`
	GeneratedAt  time.Time `json:"generated_at"`
	DurationMs   int64     `json:"duration_ms"`
}

// GenerateAndSend выполняет полный pipeline отчёта.
//
// Запись выполнения создаётся в статусе processing до первого внешнего
// вызова; любой сбой дальше переводит её в failed с сообщением ошибки,
// а сама ошибка возвращается вызывающему без изменений.
func (o *Orchestrator) GenerateAndSend(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	format := req.Format
	if !format.IsValid() {
		format = domain.FormatExcel
	}

	exec := domain.NewExecution(req.ExecutedBy)
	exec.ReportID = req.ReportID
	if err := o.executions.Create(ctx, exec); err != nil {
		return nil, fmt.Errorf("create execution: %w", err)
	}

	occurrences, err := o.fetchFiltered(ctx, req.Filters)
	if err != nil {
		return nil, o.fail(ctx, exec, 0, nil, err)
	}
	occurrences = applyLimit(occurrences, req.Filters.Limit)

	rows := domain.ProjectOccurrences(occurrences)

	artifact, err := render.Render(format, rows)
	if err != nil {
		return nil, o.fail(ctx, exec, len(rows), nil, err)
	}

	recipients, err := o.resolveRecipients(ctx, req.DestinationEmail, req.UseFixedEmails)
	if err != nil {
		return nil, o.fail(ctx, exec, len(rows), nil, err)
	}

	sentTo, err := o.distribute(ctx, recipients, artifact, format, exec.ExecutedAt)
	if err != nil {
		return nil, o.fail(ctx, exec, len(rows), sentTo, err)
	}

	exec.MarkSuccess(len(rows), sentTo)
	if err := o.executions.Update(ctx, exec); err != nil {
		return nil, fmt.Errorf("update execution: %w", err)
	}
	o.publishFinished(ctx, exec)
	o.recordMetrics(ctx, len(rows), len(sentTo))

	o.logger.Info("report generated and sent",
		"execution_id", exec.ID,
		"records", len(rows),
		"recipients", len(sentTo),
		"format", format,
		"duration_ms", *exec.DurationMs,
	)

	return &GenerateResult{
		ExecutionID:  exec.ID,
		TotalRecords: len(rows),
		SentTo:       sentTo,
		GeneratedAt:  *exec.CompletedAt,
		DurationMs:   *exec.DurationMs,
	}, nil
}

// RunScheduled выполняет pipeline для scheduled job.
// Реализует scheduler.Runner.
func (o *Orchestrator) RunScheduled(ctx context.Context, job *domain.ScheduledJob) error {
	jobID := job.ID
	_, err := o.GenerateAndSend(ctx, GenerateRequest{
		Format:         job.Format,
		UseFixedEmails: job.SendToFixedEmails,
		ReportID:       &jobID,
		Filters: FilterOptions{
			Limit:     job.Filters.Limit,
			StartDate: job.Filters.StartDate,
			EndDate:   job.Filters.EndDate,
		},
	})
	return err
}

// RenderReport — read-only путь: auth → fetch → filter → render.
// Без записи выполнения, без получателей, без отправки.
func (o *Orchestrator) RenderReport(ctx context.Context, format domain.ReportFormat, f FilterOptions) ([]byte, error) {
	occurrences, err := o.fetchFiltered(ctx, f)
	if err != nil {
		return nil, err
	}
	occurrences = applyLimit(occurrences, f.Limit)

	return render.Render(format, domain.ProjectOccurrences(occurrences))
}

// Pagination — параметры страницы preview.
type Pagination struct {
	Page       int `json:"page"`
	Size       int `json:"size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// PreviewResult — страница отчёта без генерации артефакта.
type PreviewResult struct {
	Data        []domain.OccurrenceRow `json:"data"`
	Pagination  Pagination             `json:"pagination"`
	GeneratedAt time.Time              `json:"generated_at"`
}

// Preview возвращает страницу отфильтрованного набора.
// Read-only: побочных эффектов нет. Limit фильтра не применяется,
// пагинация идёт по полному отфильтрованному набору.
func (o *Orchestrator) Preview(ctx context.Context, f FilterOptions, page, size int) (*PreviewResult, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = 10
	}

	occurrences, err := o.fetchFiltered(ctx, f)
	if err != nil {
		return nil, err
	}

	total := len(occurrences)
	pageRows := domain.ProjectOccurrences(paginate(occurrences, page, size))

	totalPages := (total + size - 1) / size

	return &PreviewResult{
		Data: pageRows,
		Pagination: Pagination{
			Page:       page,
			Size:       size,
			Total:      total,
			TotalPages: totalPages,
		},
		GeneratedAt: time.Now(),
	}, nil
}

// fetchFiltered — общая часть всех путей: auth → fetch → date filter.
func (o *Orchestrator) fetchFiltered(ctx context.Context, f FilterOptions) ([]domain.Occurrence, error) {
	token, err := o.tracker.Authenticate(ctx)
	if err != nil {
		return nil, err
	}

	occurrences, err := o.tracker.GetAll(ctx, token, f.StatusFilter)
	if err != nil {
		return nil, fmt.Errorf("fetch occurrences: %w", err)
	}

	return filterByDateRange(occurrences, f.StartDate, f.EndDate)
}

// resolveRecipients собирает набор получателей: ad hoc адрес плюс,
// по флагу, активные фиксированные получатели типа "occurrences".
// Дубликаты убираются по точному совпадению строки, порядок сохраняется.
func (o *Orchestrator) resolveRecipients(ctx context.Context, destination string, useFixed bool) ([]string, error) {
	var recipients []string
	if destination != "" {
		recipients = append(recipients, destination)
	}

	if useFixed {
		fixed, err := o.emails.ListActive(ctx, domain.ReportTypeOccurrences)
		if err != nil {
			return nil, fmt.Errorf("list fixed recipients: %w", err)
		}
		for _, e := range fixed {
			recipients = append(recipients, e.Email)
		}
	}

	seen := make(map[string]struct{}, len(recipients))
	unique := recipients[:0]
	for _, r := range recipients {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		unique = append(unique, r)
	}

	if len(unique) == 0 {
		return nil, ErrNoRecipients
	}
	return unique, nil
}

// distribute последовательно отправляет артефакт получателям.
//
// Возвращает адреса, на которые отправка удалась, и ошибку рассылки.
// При PolicyAbortOnFailure первый сбой прерывает оставшиеся отправки;
// при PolicyBestEffort рассылка доходит до конца, сбои собираются
// в одну ошибку.
func (o *Orchestrator) distribute(ctx context.Context, recipients []string, artifact []byte, format domain.ReportFormat, generatedAt time.Time) ([]string, error) {
	sentTo := make([]string, 0, len(recipients))
	var sendErrs []error

	for _, recipient := range recipients {
		if err := o.sender.SendReport(ctx, recipient, artifact, format, generatedAt); err != nil {
			o.logger.Error("report send failed",
				"recipient", recipient,
				"error", err,
			)
			if o.policy == PolicyAbortOnFailure {
				return sentTo, err
			}
			sendErrs = append(sendErrs, fmt.Errorf("send to %s: %w", recipient, err))
			continue
		}
		sentTo = append(sentTo, recipient)
	}

	if len(sendErrs) > 0 {
		return sentTo, errors.Join(sendErrs...)
	}
	return sentTo, nil
}

// fail переводит выполнение в failed и возвращает исходную ошибку.
// recordsProcessed и sentTo — то, что успело завершиться до сбоя.
func (o *Orchestrator) fail(ctx context.Context, exec *domain.ReportExecution, recordsProcessed int, sentTo []string, cause error) error {
	exec.MarkFailed(cause.Error(), recordsProcessed, sentTo)
	if err := o.executions.Update(ctx, exec); err != nil {
		o.logger.Error("failed to persist failed execution",
			"execution_id", exec.ID,
			"error", err,
		)
	}
	o.publishFinished(ctx, exec)

	o.logger.Error("report generation failed",
		"execution_id", exec.ID,
		"error", cause,
	)
	return cause
}

// recordMetrics увеличивает счётчики дашборда после успешной рассылки.
// Сбой метрик не отменяет уже разосланный отчёт — только логируется.
func (o *Orchestrator) recordMetrics(ctx context.Context, records, recipients int) {
	now := time.Now()
	for _, m := range []struct {
		metricType string
		amount     int64
	}{
		{domain.MetricReportsGenerated, 1},
		{domain.MetricEmailsSent, int64(recipients)},
		{domain.MetricOccurrencesFetched, int64(records)},
	} {
		if err := o.metrics.Increment(ctx, m.metricType, m.amount, now); err != nil {
			o.logger.Error("failed to increment metric",
				"metric_type", m.metricType,
				"error", err,
			)
		}
	}
}

// publishFinished публикует событие завершения, если publisher настроен.
// Сбой публикации не фатален: состояние уже в БД.
func (o *Orchestrator) publishFinished(ctx context.Context, exec *domain.ReportExecution) {
	if o.publisher == nil {
		return
	}
	if err := o.publisher.PublishExecutionFinished(ctx, exec); err != nil {
		o.logger.Warn("failed to publish execution event",
			"execution_id", exec.ID,
			"error", err,
		)
	}
}
