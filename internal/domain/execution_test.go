package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewExecution(t *testing.T) {
	operator := uuid.New()
	exec := NewExecution(&operator)

	if exec.Status != ExecutionStatusProcessing {
		t.Errorf("status = %s, want processing", exec.Status)
	}
	if exec.Status.IsTerminal() {
		t.Error("processing must not be terminal")
	}
	if exec.ExecutedByID == nil || *exec.ExecutedByID != operator {
		t.Error("executed_by not recorded")
	}
	if exec.ExecutedAt.IsZero() {
		t.Error("executed_at not set")
	}
	if exec.CompletedAt != nil {
		t.Error("completed_at must be nil until terminal")
	}
}

func TestMarkSuccess(t *testing.T) {
	exec := NewExecution(nil)
	exec.MarkSuccess(42, []string{"a@example.com", "b@example.com"})

	if exec.Status != ExecutionStatusSuccess {
		t.Errorf("status = %s, want success", exec.Status)
	}
	if !exec.Status.IsTerminal() {
		t.Error("success must be terminal")
	}
	if exec.RecordsProcessed != 42 {
		t.Errorf("records_processed = %d, want 42", exec.RecordsProcessed)
	}
	if len(exec.EmailsSentTo) != 2 {
		t.Errorf("emails_sent_to = %v", exec.EmailsSentTo)
	}
	if exec.CompletedAt == nil || exec.DurationMs == nil {
		t.Fatal("completed_at and duration_ms must be set")
	}
	if *exec.DurationMs < 0 {
		t.Errorf("duration_ms = %d, want >= 0", *exec.DurationMs)
	}
}

func TestMarkFailedKeepsPartialProgress(t *testing.T) {
	exec := NewExecution(nil)
	exec.MarkFailed("smtp: connection refused", 10, []string{"a@example.com"})

	if exec.Status != ExecutionStatusFailed {
		t.Errorf("status = %s, want failed", exec.Status)
	}
	if !exec.Status.IsTerminal() {
		t.Error("failed must be terminal")
	}
	if exec.ErrorMessage != "smtp: connection refused" {
		t.Errorf("error_message = %q", exec.ErrorMessage)
	}
	// Частичный прогресс сохраняется: что успело отправиться — в записи.
	if exec.RecordsProcessed != 10 || len(exec.EmailsSentTo) != 1 {
		t.Errorf("partial progress lost: records=%d sent=%v", exec.RecordsProcessed, exec.EmailsSentTo)
	}
	if exec.CompletedAt == nil || exec.DurationMs == nil {
		t.Fatal("completed_at and duration_ms must be set")
	}
}
