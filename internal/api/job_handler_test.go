package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestCreateJobRejectsDisabledFixedRecipients(t *testing.T) {
	h := testHandler(&fakeReportService{})

	body := `{"name": "daily", "frequency": "daily", "time_of_day": "08:00", "send_to_fixed_emails": false}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.CreateJob(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "send_to_fixed_emails") {
		t.Errorf("body = %s, want send_to_fixed_emails rejection", rec.Body.String())
	}
}

func TestUpdateJobRejectsDisabledFixedRecipients(t *testing.T) {
	h := testHandler(&fakeReportService{})

	body := `{"send_to_fixed_emails": false}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/jobs/"+uuid.NewString(), strings.NewReader(body))
	req.SetPathValue("id", uuid.NewString())
	rec := httptest.NewRecorder()

	h.UpdateJob(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "send_to_fixed_emails") {
		t.Errorf("body = %s, want send_to_fixed_emails rejection", rec.Body.String())
	}
}
