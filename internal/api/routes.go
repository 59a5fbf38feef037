package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Middleware chain
	chain := Chain(
		Recovery(h.logger),
		Logging(h.logger),
	)

	// Report
	mux.Handle("POST /api/v1/report/generate-and-send", chain(http.HandlerFunc(h.GenerateReport)))
	mux.Handle("GET /api/v1/report/preview", chain(http.HandlerFunc(h.PreviewReport)))
	mux.Handle("GET /api/v1/report/download", chain(http.HandlerFunc(h.DownloadReport)))
	mux.Handle("GET /api/v1/report/executions", chain(http.HandlerFunc(h.ListExecutions)))
	mux.Handle("GET /api/v1/report/executions/recent", chain(http.HandlerFunc(h.RecentExecutions)))
	mux.Handle("GET /api/v1/report/executions/{id}", chain(http.HandlerFunc(h.GetExecution)))

	// Scheduled jobs
	mux.Handle("GET /api/v1/jobs", chain(http.HandlerFunc(h.ListJobs)))
	mux.Handle("POST /api/v1/jobs", chain(http.HandlerFunc(h.CreateJob)))
	mux.Handle("GET /api/v1/jobs/{id}", chain(http.HandlerFunc(h.GetJob)))
	mux.Handle("PUT /api/v1/jobs/{id}", chain(http.HandlerFunc(h.UpdateJob)))
	mux.Handle("DELETE /api/v1/jobs/{id}", chain(http.HandlerFunc(h.DeleteJob)))
	mux.Handle("PUT /api/v1/jobs/{id}/active", chain(http.HandlerFunc(h.SetJobActive)))

	// Fixed recipients
	mux.Handle("GET /api/v1/emails", chain(http.HandlerFunc(h.ListEmails)))
	mux.Handle("GET /api/v1/emails/active", chain(http.HandlerFunc(h.ListActiveEmails)))
	mux.Handle("POST /api/v1/emails", chain(http.HandlerFunc(h.CreateEmail)))
	mux.Handle("GET /api/v1/emails/{id}", chain(http.HandlerFunc(h.GetEmail)))
	mux.Handle("PUT /api/v1/emails/{id}", chain(http.HandlerFunc(h.UpdateEmail)))
	mux.Handle("DELETE /api/v1/emails/{id}", chain(http.HandlerFunc(h.DeleteEmail)))
	mux.Handle("PUT /api/v1/emails/{id}/active", chain(http.HandlerFunc(h.SetEmailActive)))

	// Dashboard
	mux.Handle("GET /api/v1/dashboard/stats", chain(http.HandlerFunc(h.DashboardStats)))
	mux.Handle("GET /api/v1/dashboard/status", chain(http.HandlerFunc(h.SystemStatus)))
}
