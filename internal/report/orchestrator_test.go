package report

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Reporta/internal/domain"
)

type fakeTracker struct {
	occurrences []domain.Occurrence
	authErr     error
	fetchErr    error

	authCalls  int
	fetchCalls int
}

func (f *fakeTracker) Authenticate(ctx context.Context) (string, error) {
	f.authCalls++
	if f.authErr != nil {
		return "", f.authErr
	}
	return "test-token", nil
}

func (f *fakeTracker) GetAll(ctx context.Context, token, statusFilter string) ([]domain.Occurrence, error) {
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.occurrences, nil
}

type fakeSender struct {
	sent   []string
	failOn map[string]error
}

func (f *fakeSender) SendReport(ctx context.Context, recipient string, artifact []byte, format domain.ReportFormat, generatedAt time.Time) error {
	if err, ok := f.failOn[recipient]; ok {
		return err
	}
	f.sent = append(f.sent, recipient)
	return nil
}

type fakeExecStore struct {
	created []*domain.ReportExecution
	updated []domain.ReportExecution
}

func (f *fakeExecStore) Create(ctx context.Context, exec *domain.ReportExecution) error {
	f.created = append(f.created, exec)
	return nil
}

func (f *fakeExecStore) Update(ctx context.Context, exec *domain.ReportExecution) error {
	f.updated = append(f.updated, *exec)
	return nil
}

func (f *fakeExecStore) last(t *testing.T) domain.ReportExecution {
	t.Helper()
	if len(f.updated) == 0 {
		t.Fatal("execution was never updated")
	}
	return f.updated[len(f.updated)-1]
}

type fakeEmailStore struct {
	active []domain.ReportEmail
	err    error
}

func (f *fakeEmailStore) ListActive(ctx context.Context, reportType string) ([]domain.ReportEmail, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.active, nil
}

type fakeMetricStore struct {
	increments map[string]int64
}

func (f *fakeMetricStore) Increment(ctx context.Context, metricType string, amount int64, now time.Time) error {
	if f.increments == nil {
		f.increments = make(map[string]int64)
	}
	f.increments[metricType] += amount
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discard{}, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func sampleOccurrences(n int) []domain.Occurrence {
	occurrences := make([]domain.Occurrence, n)
	for i := range occurrences {
		occurrences[i] = domain.Occurrence{
			ID:          int64(i + 1),
			Number:      int64(100 + i),
			Title:       "occurrence",
			Status:      "OPEN",
			CreatedDate: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		}
	}
	return occurrences
}

type fixture struct {
	tracker *fakeTracker
	sender  *fakeSender
	execs   *fakeExecStore
	emails  *fakeEmailStore
	metrics *fakeMetricStore
}

func newFixture(occurrences []domain.Occurrence, fixed ...string) *fixture {
	f := &fixture{
		tracker: &fakeTracker{occurrences: occurrences},
		sender:  &fakeSender{},
		execs:   &fakeExecStore{},
		emails:  &fakeEmailStore{},
		metrics: &fakeMetricStore{},
	}
	for _, email := range fixed {
		f.emails.active = append(f.emails.active, domain.ReportEmail{
			ID:         uuid.New(),
			Email:      email,
			ReportType: domain.ReportTypeOccurrences,
			IsActive:   true,
		})
	}
	return f
}

func (f *fixture) orchestrator(policy DistributionPolicy) *Orchestrator {
	return New(Config{
		Tracker:    f.tracker,
		Sender:     f.sender,
		Executions: f.execs,
		Emails:     f.emails,
		Metrics:    f.metrics,
		Policy:     policy,
		Logger:     testLogger(),
	})
}

func TestGenerateAndSendSuccess(t *testing.T) {
	f := newFixture(sampleOccurrences(7), "a@example.com", "b@example.com")
	o := f.orchestrator("")

	result, err := o.GenerateAndSend(context.Background(), GenerateRequest{
		Format:         domain.FormatCSV,
		UseFixedEmails: true,
	})
	if err != nil {
		t.Fatalf("GenerateAndSend() error = %v", err)
	}

	if result.TotalRecords != 7 {
		t.Errorf("TotalRecords = %d, want 7", result.TotalRecords)
	}
	if len(result.SentTo) != 2 {
		t.Errorf("SentTo = %v, want 2 recipients", result.SentTo)
	}
	if result.DurationMs < 0 {
		t.Errorf("DurationMs = %d, want >= 0", result.DurationMs)
	}

	exec := f.execs.last(t)
	if exec.Status != domain.ExecutionStatusSuccess {
		t.Errorf("execution status = %s, want success", exec.Status)
	}
	if exec.RecordsProcessed != 7 {
		t.Errorf("RecordsProcessed = %d, want 7", exec.RecordsProcessed)
	}
	if exec.CompletedAt == nil || exec.DurationMs == nil {
		t.Error("completion fields not set")
	}

	if f.metrics.increments[domain.MetricReportsGenerated] != 1 {
		t.Errorf("reports_generated = %d, want 1", f.metrics.increments[domain.MetricReportsGenerated])
	}
	if f.metrics.increments[domain.MetricEmailsSent] != 2 {
		t.Errorf("emails_sent = %d, want 2", f.metrics.increments[domain.MetricEmailsSent])
	}
	if f.metrics.increments[domain.MetricOccurrencesFetched] != 7 {
		t.Errorf("occurrences_fetched = %d, want 7", f.metrics.increments[domain.MetricOccurrencesFetched])
	}
}

func TestGenerateAndSendNoRecipients(t *testing.T) {
	f := newFixture(sampleOccurrences(3))
	o := f.orchestrator("")

	_, err := o.GenerateAndSend(context.Background(), GenerateRequest{
		UseFixedEmails: false,
	})
	if !errors.Is(err, ErrNoRecipients) {
		t.Fatalf("error = %v, want ErrNoRecipients", err)
	}

	if len(f.sender.sent) != 0 {
		t.Errorf("sends attempted: %v, want none", f.sender.sent)
	}

	exec := f.execs.last(t)
	if exec.Status != domain.ExecutionStatusFailed {
		t.Errorf("execution status = %s, want failed", exec.Status)
	}
	if exec.ErrorMessage == "" {
		t.Error("error message not recorded")
	}
}

// Ad hoc адрес, совпадающий с фиксированным получателем, даёт ровно
// одну отправку на этот адрес.
func TestGenerateAndSendDeduplicatesRecipients(t *testing.T) {
	f := newFixture(sampleOccurrences(1), "dup@example.com")
	o := f.orchestrator("")

	result, err := o.GenerateAndSend(context.Background(), GenerateRequest{
		DestinationEmail: "dup@example.com",
		UseFixedEmails:   true,
	})
	if err != nil {
		t.Fatalf("GenerateAndSend() error = %v", err)
	}

	if len(result.SentTo) != 1 || result.SentTo[0] != "dup@example.com" {
		t.Errorf("SentTo = %v, want exactly one dup@example.com", result.SentTo)
	}
	if len(f.sender.sent) != 1 {
		t.Errorf("sends = %v, want exactly one", f.sender.sent)
	}
}

func TestGenerateAndSendAuthFailure(t *testing.T) {
	f := newFixture(nil, "a@example.com")
	f.tracker.authErr = errors.New("bad credentials")
	o := f.orchestrator("")

	_, err := o.GenerateAndSend(context.Background(), GenerateRequest{UseFixedEmails: true})
	if err == nil || !errors.Is(err, f.tracker.authErr) {
		t.Fatalf("error = %v, want auth error", err)
	}

	if f.tracker.fetchCalls != 0 {
		t.Errorf("fetch called %d times after auth failure", f.tracker.fetchCalls)
	}
	if len(f.sender.sent) != 0 {
		t.Errorf("sends attempted after auth failure: %v", f.sender.sent)
	}

	exec := f.execs.last(t)
	if exec.Status != domain.ExecutionStatusFailed {
		t.Errorf("execution status = %s, want failed", exec.Status)
	}
	if len(f.metrics.increments) != 0 {
		t.Errorf("metrics incremented on failure: %v", f.metrics.increments)
	}
}

// Первый сбой отправки прерывает оставшиеся; журнал отражает
// только реально отправленное.
func TestGenerateAndSendAbortOnSendFailure(t *testing.T) {
	f := newFixture(sampleOccurrences(2), "ok@example.com", "bad@example.com", "never@example.com")
	sendErr := errors.New("smtp rejected")
	f.sender.failOn = map[string]error{"bad@example.com": sendErr}
	o := f.orchestrator(PolicyAbortOnFailure)

	_, err := o.GenerateAndSend(context.Background(), GenerateRequest{UseFixedEmails: true})
	if !errors.Is(err, sendErr) {
		t.Fatalf("error = %v, want send error", err)
	}

	if len(f.sender.sent) != 1 || f.sender.sent[0] != "ok@example.com" {
		t.Errorf("sent = %v, want only ok@example.com", f.sender.sent)
	}

	exec := f.execs.last(t)
	if exec.Status != domain.ExecutionStatusFailed {
		t.Errorf("execution status = %s, want failed", exec.Status)
	}
	if len(exec.EmailsSentTo) != 1 || exec.EmailsSentTo[0] != "ok@example.com" {
		t.Errorf("ledger EmailsSentTo = %v, want partial progress", exec.EmailsSentTo)
	}
	if exec.RecordsProcessed != 2 {
		t.Errorf("RecordsProcessed = %d, want 2", exec.RecordsProcessed)
	}
	if len(f.metrics.increments) != 0 {
		t.Errorf("metrics incremented on failure: %v", f.metrics.increments)
	}
}

func TestGenerateAndSendBestEffortPolicy(t *testing.T) {
	f := newFixture(sampleOccurrences(1), "bad@example.com", "ok@example.com")
	sendErr := errors.New("smtp rejected")
	f.sender.failOn = map[string]error{"bad@example.com": sendErr}
	o := f.orchestrator(PolicyBestEffort)

	_, err := o.GenerateAndSend(context.Background(), GenerateRequest{UseFixedEmails: true})
	if !errors.Is(err, sendErr) {
		t.Fatalf("error = %v, want send error", err)
	}

	// Рассылка дошла до второго получателя несмотря на сбой первого.
	if len(f.sender.sent) != 1 || f.sender.sent[0] != "ok@example.com" {
		t.Errorf("sent = %v, want ok@example.com", f.sender.sent)
	}

	exec := f.execs.last(t)
	if exec.Status != domain.ExecutionStatusFailed {
		t.Errorf("execution status = %s, want failed", exec.Status)
	}
	if len(exec.EmailsSentTo) != 1 {
		t.Errorf("ledger EmailsSentTo = %v, want the successful recipient", exec.EmailsSentTo)
	}
}

func TestGenerateAndSendAppliesFilters(t *testing.T) {
	occurrences := []domain.Occurrence{
		{Number: 1, CreatedDate: time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)},
		{Number: 2, CreatedDate: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)},
		{Number: 3, CreatedDate: time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)},
		{Number: 4, CreatedDate: time.Date(2026, 3, 12, 12, 0, 0, 0, time.UTC)},
	}
	f := newFixture(occurrences, "a@example.com")
	o := f.orchestrator("")

	result, err := o.GenerateAndSend(context.Background(), GenerateRequest{
		UseFixedEmails: true,
		Format:         domain.FormatCSV,
		Filters: FilterOptions{
			StartDate: "2026-03-10",
			EndDate:   "2026-03-12",
			Limit:     2, // применяется после фильтра по датам
		},
	})
	if err != nil {
		t.Fatalf("GenerateAndSend() error = %v", err)
	}

	if result.TotalRecords != 2 {
		t.Errorf("TotalRecords = %d, want 2 (date filter then limit)", result.TotalRecords)
	}
}

func TestRunScheduledLinksExecutionToJob(t *testing.T) {
	f := newFixture(sampleOccurrences(1), "a@example.com")
	o := f.orchestrator("")

	job := &domain.ScheduledJob{
		ID:                uuid.New(),
		Name:              "daily",
		Format:            domain.FormatExcel,
		SendToFixedEmails: true,
	}

	if err := o.RunScheduled(context.Background(), job); err != nil {
		t.Fatalf("RunScheduled() error = %v", err)
	}

	exec := f.execs.last(t)
	if exec.ReportID == nil || *exec.ReportID != job.ID {
		t.Errorf("execution not linked to job: %v", exec.ReportID)
	}
	if exec.ExecutedByID != nil {
		t.Errorf("scheduled run must have no operator: %v", exec.ExecutedByID)
	}
}

func TestPreviewPaginatesWithoutSideEffects(t *testing.T) {
	f := newFixture(sampleOccurrences(25), "a@example.com")
	o := f.orchestrator("")

	result, err := o.Preview(context.Background(), FilterOptions{}, 2, 10)
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}

	if len(result.Data) != 5 {
		t.Errorf("page data = %d rows, want 5", len(result.Data))
	}
	if result.Pagination.Total != 25 || result.Pagination.TotalPages != 3 {
		t.Errorf("pagination = %+v, want total 25, pages 3", result.Pagination)
	}

	if len(f.execs.created) != 0 {
		t.Error("preview created a ledger row")
	}
	if len(f.sender.sent) != 0 {
		t.Error("preview attempted a send")
	}
}

func TestRenderReportIsReadOnly(t *testing.T) {
	f := newFixture(sampleOccurrences(3), "a@example.com")
	o := f.orchestrator("")

	artifact, err := o.RenderReport(context.Background(), domain.FormatCSV, FilterOptions{})
	if err != nil {
		t.Fatalf("RenderReport() error = %v", err)
	}
	if len(artifact) == 0 {
		t.Error("empty artifact")
	}

	if len(f.execs.created) != 0 {
		t.Error("render created a ledger row")
	}
	if len(f.metrics.increments) != 0 {
		t.Error("render incremented metrics")
	}
}
