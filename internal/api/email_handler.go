package api

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Reporta/internal/domain"
)

// ListEmails возвращает всех фиксированных получателей.
// GET /api/v1/emails?report_type=occurrences
func (h *Handler) ListEmails(w http.ResponseWriter, r *http.Request) {
	emails, err := h.emailRepo.List(r.Context(), r.URL.Query().Get("report_type"))
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}

	responses := make([]EmailResponse, len(emails))
	for i := range emails {
		responses[i] = EmailFromDomain(&emails[i])
	}

	List(w, responses, len(responses))
}

// ListActiveEmails возвращает активных получателей.
// GET /api/v1/emails/active?report_type=occurrences
func (h *Handler) ListActiveEmails(w http.ResponseWriter, r *http.Request) {
	reportType := r.URL.Query().Get("report_type")
	if reportType == "" {
		reportType = domain.ReportTypeOccurrences
	}

	emails, err := h.emailRepo.ListActive(r.Context(), reportType)
	if err != nil {
		InternalError(w, h.logger, err)
		return
	}

	responses := make([]EmailResponse, len(emails))
	for i := range emails {
		responses[i] = EmailFromDomain(&emails[i])
	}

	List(w, responses, len(responses))
}

// CreateEmail добавляет фиксированного получателя.
// POST /api/v1/emails
func (h *Handler) CreateEmail(w http.ResponseWriter, r *http.Request) {
	var req CreateEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if _, err := mail.ParseAddress(req.Email); err != nil {
		BadRequest(w, "invalid email address")
		return
	}

	now := time.Now()
	email := &domain.ReportEmail{
		ID:         uuid.New(),
		Email:      req.Email,
		Name:       req.Name,
		ReportType: domain.ReportTypeOccurrences,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if req.ReportType != "" {
		email.ReportType = req.ReportType
	}
	if req.IsActive != nil {
		email.IsActive = *req.IsActive
	}

	if err := h.emailRepo.Create(r.Context(), email); err != nil {
		if HandleRepoError(w, h.logger, err, "") {
			return
		}
	}

	Created(w, EmailFromDomain(email))
}

// GetEmail возвращает получателя по ID.
// GET /api/v1/emails/{id}
func (h *Handler) GetEmail(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid email id")
		return
	}

	email, err := h.emailRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "email not found") {
		return
	}

	Success(w, EmailFromDomain(email))
}

// UpdateEmail обновляет получателя. Меняются только адрес и имя.
// PUT /api/v1/emails/{id}
func (h *Handler) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid email id")
		return
	}

	var req UpdateEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	email, err := h.emailRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "email not found") {
		return
	}

	if req.Email != nil {
		if _, err := mail.ParseAddress(*req.Email); err != nil {
			BadRequest(w, "invalid email address")
			return
		}
		email.Email = *req.Email
	}
	if req.Name != nil {
		email.Name = *req.Name
	}
	email.UpdatedAt = time.Now()

	if err := h.emailRepo.Update(r.Context(), email); err != nil {
		if HandleRepoError(w, h.logger, err, "email not found") {
			return
		}
	}

	Success(w, EmailFromDomain(email))
}

// DeleteEmail удаляет получателя.
// DELETE /api/v1/emails/{id}
func (h *Handler) DeleteEmail(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid email id")
		return
	}

	if err := h.emailRepo.Delete(r.Context(), id); err != nil {
		if HandleRepoError(w, h.logger, err, "email not found") {
			return
		}
	}

	NoContent(w)
}

// SetEmailActive включает или выключает получателя.
// PUT /api/v1/emails/{id}/active
func (h *Handler) SetEmailActive(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid email id")
		return
	}

	var req SetActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	email, err := h.emailRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "email not found") {
		return
	}

	email.IsActive = req.IsActive
	email.UpdatedAt = time.Now()

	if err := h.emailRepo.Update(r.Context(), email); err != nil {
		if HandleRepoError(w, h.logger, err, "email not found") {
			return
		}
	}

	Success(w, EmailFromDomain(email))
}
