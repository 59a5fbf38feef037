package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Reporta/internal/domain"
)

type fakeJobStore struct {
	due     []domain.ScheduledJob
	listErr error

	updated []domain.ScheduledJob
}

func (f *fakeJobStore) ListDue(ctx context.Context, now time.Time, limit int) ([]domain.ScheduledJob, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if limit < len(f.due) {
		return f.due[:limit], nil
	}
	return f.due, nil
}

func (f *fakeJobStore) Update(ctx context.Context, job *domain.ScheduledJob) error {
	f.updated = append(f.updated, *job)
	return nil
}

type fakeRunner struct {
	ran    []uuid.UUID
	failOn map[uuid.UUID]error
}

func (f *fakeRunner) RunScheduled(ctx context.Context, job *domain.ScheduledJob) error {
	f.ran = append(f.ran, job.ID)
	if err, ok := f.failOn[job.ID]; ok {
		return err
	}
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discard{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func dueJob(name string) domain.ScheduledJob {
	past := time.Now().Add(-time.Minute)
	return domain.ScheduledJob{
		ID:        uuid.New(),
		Name:      name,
		Frequency: domain.FrequencyDaily,
		TimeOfDay: "08:00",
		IsActive:  true,
		NextRun:   &past,
	}
}

func TestTickRunsDueJobs(t *testing.T) {
	jobs := []domain.ScheduledJob{dueJob("a"), dueJob("b")}
	store := &fakeJobStore{due: jobs}
	runner := &fakeRunner{}

	s := New(Config{JobRepo: store, Runner: runner, Logger: testLogger()})

	if err := s.Tick(context.Background()); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}

	if len(runner.ran) != 2 {
		t.Fatalf("runner called %d times, want 2", len(runner.ran))
	}
	if len(store.updated) != 2 {
		t.Fatalf("store updated %d times, want 2", len(store.updated))
	}
	for _, job := range store.updated {
		if job.NextRun == nil || !job.NextRun.After(time.Now().Add(-time.Second)) {
			t.Errorf("job %s: next_run not advanced: %v", job.Name, job.NextRun)
		}
		if job.LastRun == nil {
			t.Errorf("job %s: last_run not recorded", job.Name)
		}
	}
}

func TestTickNoDueJobs(t *testing.T) {
	store := &fakeJobStore{}
	runner := &fakeRunner{}

	s := New(Config{JobRepo: store, Runner: runner, Logger: testLogger()})

	if err := s.Tick(context.Background()); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if len(runner.ran) != 0 {
		t.Errorf("runner called %d times, want 0", len(runner.ran))
	}
}

func TestTickListError(t *testing.T) {
	store := &fakeJobStore{listErr: errors.New("db down")}
	s := New(Config{JobRepo: store, Runner: &fakeRunner{}, Logger: testLogger()})

	if err := s.Tick(context.Background()); err == nil {
		t.Fatal("Tick() error = nil, want list error")
	}
}

// Ошибка одного job не блокирует остальные, и next_run упавшего
// всё равно переносится.
func TestTickJobFailureDoesNotBlockOthers(t *testing.T) {
	jobs := []domain.ScheduledJob{dueJob("bad"), dueJob("good")}
	store := &fakeJobStore{due: jobs}
	runner := &fakeRunner{
		failOn: map[uuid.UUID]error{jobs[0].ID: errors.New("smtp unreachable")},
	}

	s := New(Config{JobRepo: store, Runner: runner, Logger: testLogger()})

	if err := s.Tick(context.Background()); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}

	if len(runner.ran) != 2 {
		t.Fatalf("runner called %d times, want 2", len(runner.ran))
	}
	if len(store.updated) != 2 {
		t.Fatalf("store updated %d times, want 2: failed job must reschedule too", len(store.updated))
	}
}

func TestTickRespectsBatchSize(t *testing.T) {
	jobs := []domain.ScheduledJob{dueJob("a"), dueJob("b"), dueJob("c")}
	store := &fakeJobStore{due: jobs}
	runner := &fakeRunner{}

	s := New(Config{JobRepo: store, Runner: runner, Logger: testLogger(), BatchSize: 2})

	if err := s.Tick(context.Background()); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if len(runner.ran) != 2 {
		t.Errorf("runner called %d times, want 2", len(runner.ran))
	}
}
