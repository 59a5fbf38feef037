package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Reporta/internal/domain"
	"github.com/shaiso/Reporta/internal/render"
	"github.com/shaiso/Reporta/internal/report"
	"github.com/shaiso/Reporta/internal/repo"
)

// GenerateReport генерирует отчёт и рассылает его получателям.
// POST /api/v1/report/generate-and-send
func (h *Handler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	var req GenerateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.DestinationEmail == "" && !req.UseFixedEmails {
		BadRequest(w, "destination_email or use_fixed_emails is required")
		return
	}
	if req.DestinationEmail != "" {
		if _, err := mail.ParseAddress(req.DestinationEmail); err != nil {
			BadRequest(w, "invalid destination_email")
			return
		}
	}

	format := domain.ReportFormat(req.Format)
	if req.Format != "" && !format.IsValid() {
		BadRequest(w, fmt.Sprintf("invalid format %q", req.Format))
		return
	}

	var executedBy *uuid.UUID
	if req.ExecutedBy != "" {
		id, err := uuid.Parse(req.ExecutedBy)
		if err != nil {
			BadRequest(w, "invalid executed_by id")
			return
		}
		executedBy = &id
	}

	result, err := h.reports.GenerateAndSend(r.Context(), report.GenerateRequest{
		DestinationEmail: req.DestinationEmail,
		Format:           format,
		UseFixedEmails:   req.UseFixedEmails,
		ExecutedBy:       executedBy,
		Filters: report.FilterOptions{
			StatusFilter: req.Status,
			Limit:        req.Limit,
			StartDate:    req.StartDate,
			EndDate:      req.EndDate,
		},
	})
	if err != nil {
		if errors.Is(err, report.ErrNoRecipients) {
			BadRequest(w, err.Error())
			return
		}
		// Причина сбоя уходит клиенту: генерация ad hoc, оператор
		// должен видеть, что именно не сработало.
		UpstreamError(w, h.logger, err)
		return
	}

	Success(w, result)
}

// PreviewReport возвращает страницу отчёта без генерации артефакта.
// GET /api/v1/report/preview
func (h *Handler) PreviewReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))

	result, err := h.reports.Preview(r.Context(), report.FilterOptions{
		StatusFilter: q.Get("status"),
		StartDate:    q.Get("start_date"),
		EndDate:      q.Get("end_date"),
	}, page, size)
	if err != nil {
		UpstreamError(w, h.logger, err)
		return
	}

	Success(w, result)
}

// DownloadReport отдаёт артефакт отчёта файлом.
// GET /api/v1/report/download?format=csv|excel
func (h *Handler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	format := domain.ReportFormat(q.Get("format"))
	if format == "" {
		format = domain.FormatExcel
	}
	if !format.IsValid() {
		BadRequest(w, fmt.Sprintf("invalid format %q", q.Get("format")))
		return
	}

	limit, _ := strconv.Atoi(q.Get("limit"))

	artifact, err := h.reports.RenderReport(r.Context(), format, report.FilterOptions{
		StatusFilter: q.Get("status"),
		Limit:        limit,
		StartDate:    q.Get("start_date"),
		EndDate:      q.Get("end_date"),
	})
	if err != nil {
		UpstreamError(w, h.logger, err)
		return
	}

	fileName := render.FileName(format, time.Now())
	w.Header().Set("Content-Type", render.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.Write(artifact)
}

// ListExecutions возвращает историю выполнений, новые первыми.
// GET /api/v1/report/executions
func (h *Handler) ListExecutions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repo.ExecutionFilter{}
	if v := q.Get("report_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			BadRequest(w, "invalid report_id")
			return
		}
		filter.ReportID = &id
	}
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))

	executions, err := h.execRepo.List(r.Context(), filter)
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}

	responses := make([]ExecutionResponse, len(executions))
	for i := range executions {
		responses[i] = ExecutionFromDomain(&executions[i])
	}

	List(w, responses, len(responses))
}

// RecentExecutions возвращает последние выполнения для дашборда.
// GET /api/v1/report/executions/recent
func (h *Handler) RecentExecutions(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	executions, err := h.execRepo.ListRecent(r.Context(), limit)
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}

	responses := make([]ExecutionResponse, len(executions))
	for i := range executions {
		responses[i] = ExecutionFromDomain(&executions[i])
	}

	List(w, responses, len(responses))
}

// GetExecution возвращает одно выполнение по ID.
// GET /api/v1/report/executions/{id}
func (h *Handler) GetExecution(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid execution id")
		return
	}

	exec, err := h.execRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "execution not found") {
		return
	}

	Success(w, ExecutionFromDomain(exec))
}
