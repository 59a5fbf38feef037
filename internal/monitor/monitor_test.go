package monitor

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/shaiso/Reporta/internal/domain"
)

type fakeLogStore struct {
	entries []domain.SystemLog
}

func (f *fakeLogStore) Insert(ctx context.Context, log *domain.SystemLog) error {
	f.entries = append(f.entries, *log)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discard{}, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestRunChecksRecordsEveryService(t *testing.T) {
	store := &fakeLogStore{}
	probeErr := errors.New("connection refused")

	m := New(Config{
		Store: store,
		Checks: []Check{
			{Service: domain.ServiceDatabase, Probe: func(ctx context.Context) error { return nil }},
			{Service: domain.ServiceTrackerAPI, Probe: func(ctx context.Context) error { return probeErr }},
		},
		Logger: testLogger(),
	})

	m.RunChecks(context.Background())

	if len(store.entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(store.entries))
	}

	db := store.entries[0]
	if db.Service != domain.ServiceDatabase || db.Status != domain.ServiceStatusOnline {
		t.Errorf("database entry = %s/%s, want online", db.Service, db.Status)
	}
	if db.LatencyMs == nil {
		t.Error("latency not recorded")
	}

	tr := store.entries[1]
	if tr.Status != domain.ServiceStatusOffline {
		t.Errorf("tracker status = %s, want offline", tr.Status)
	}
	if tr.Message != probeErr.Error() {
		t.Errorf("tracker message = %q", tr.Message)
	}
}

// Сбойная проверка не мешает следующей записаться.
func TestRunChecksFailureIsolated(t *testing.T) {
	store := &fakeLogStore{}

	m := New(Config{
		Store: store,
		Checks: []Check{
			{Service: domain.ServiceEmailServer, Probe: func(ctx context.Context) error { return errors.New("down") }},
			{Service: domain.ServiceDatabase, Probe: func(ctx context.Context) error { return nil }},
		},
		Logger: testLogger(),
	})

	m.RunChecks(context.Background())

	if len(store.entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(store.entries))
	}
	if store.entries[1].Status != domain.ServiceStatusOnline {
		t.Errorf("second check status = %s, want online", store.entries[1].Status)
	}
}
