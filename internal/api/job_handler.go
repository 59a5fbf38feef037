package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Reporta/internal/domain"
	"github.com/shaiso/Reporta/internal/scheduler"
)

// ListJobs возвращает все scheduled jobs.
// GET /api/v1/jobs
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.jobRepo.List(r.Context())
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}

	responses := make([]JobResponse, len(jobs))
	for i := range jobs {
		responses[i] = JobFromDomain(&jobs[i])
	}

	List(w, responses, len(responses))
}

// CreateJob создаёт новый scheduled job.
// POST /api/v1/jobs
//
// Job без получателей бессмыслен: scheduled job всегда шлёт на
// фиксированный список, и хотя бы один активный адрес его типа отчёта
// обязан существовать на момент создания.
func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.SendToFixedEmails != nil && !*req.SendToFixedEmails {
		BadRequest(w, "send_to_fixed_emails cannot be disabled: scheduled jobs have no other recipient source")
		return
	}

	now := time.Now()
	job := &domain.ScheduledJob{
		ID:                uuid.New(),
		Name:              req.Name,
		ReportType:        domain.ReportTypeOccurrences,
		Frequency:         domain.Frequency(req.Frequency),
		TimeOfDay:         req.TimeOfDay,
		DayOfWeek:         req.DayOfWeek,
		DayOfMonth:        req.DayOfMonth,
		IsActive:          true,
		Filters:           req.Filters,
		Format:            domain.FormatExcel,
		SendToFixedEmails: true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if req.Format != "" {
		job.Format = domain.ReportFormat(req.Format)
	}
	if req.IsActive != nil {
		job.IsActive = *req.IsActive
	}

	if err := job.Validate(); err != nil {
		BadRequest(w, err.Error())
		return
	}

	active, err := h.emailRepo.ListActive(r.Context(), job.ReportType)
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}
	if len(active) == 0 {
		BadRequest(w, "no active fixed recipients for report type "+job.ReportType)
		return
	}

	next := scheduler.NextRun(job, now)
	job.NextRun = &next

	if err := h.jobRepo.Create(r.Context(), job); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Created(w, JobFromDomain(job))
}

// GetJob возвращает job по ID.
// GET /api/v1/jobs/{id}
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid job id")
		return
	}

	job, err := h.jobRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "job not found") {
		return
	}

	Success(w, JobFromDomain(job))
}

// UpdateJob обновляет job.
// PUT /api/v1/jobs/{id}
//
// Обновляются только явно переданные поля; изменение полей расписания
// пересчитывает next_run.
func (h *Handler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid job id")
		return
	}

	var req UpdateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.SendToFixedEmails != nil && !*req.SendToFixedEmails {
		BadRequest(w, "send_to_fixed_emails cannot be disabled: scheduled jobs have no other recipient source")
		return
	}

	job, err := h.jobRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "job not found") {
		return
	}

	scheduleChanged := false

	if req.Name != nil {
		job.Name = *req.Name
	}
	if req.Frequency != nil {
		job.Frequency = domain.Frequency(*req.Frequency)
		scheduleChanged = true
	}
	if req.TimeOfDay != nil {
		job.TimeOfDay = *req.TimeOfDay
		scheduleChanged = true
	}
	if req.DayOfWeek != nil {
		job.DayOfWeek = req.DayOfWeek
		scheduleChanged = true
	}
	if req.DayOfMonth != nil {
		job.DayOfMonth = req.DayOfMonth
		scheduleChanged = true
	}
	if req.Format != nil {
		job.Format = domain.ReportFormat(*req.Format)
	}
	if req.Filters != nil {
		job.Filters = *req.Filters
	}

	if err := job.Validate(); err != nil {
		BadRequest(w, err.Error())
		return
	}

	now := time.Now()
	if scheduleChanged {
		next := scheduler.NextRun(job, now)
		job.NextRun = &next
	}
	job.UpdatedAt = now

	if err := h.jobRepo.Update(r.Context(), job); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Success(w, JobFromDomain(job))
}

// DeleteJob удаляет job.
// DELETE /api/v1/jobs/{id}
func (h *Handler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid job id")
		return
	}

	if err := h.jobRepo.Delete(r.Context(), id); err != nil {
		if HandleRepoError(w, h.logger, err, "job not found") {
			return
		}
	}

	NoContent(w)
}

// SetJobActive включает или выключает job.
// PUT /api/v1/jobs/{id}/active
//
// Включение пересчитывает next_run от текущего момента: пока job
// стоял, его старый next_run мог остаться в прошлом.
func (h *Handler) SetJobActive(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid job id")
		return
	}

	var req SetActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	job, err := h.jobRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "job not found") {
		return
	}

	now := time.Now()
	job.IsActive = req.IsActive
	job.UpdatedAt = now

	if req.IsActive {
		next := scheduler.NextRun(job, now)
		job.NextRun = &next
	}

	if err := h.jobRepo.Update(r.Context(), job); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Success(w, JobFromDomain(job))
}
