package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/shaiso/Reporta/internal/domain"
	"github.com/shaiso/Reporta/internal/repo"
)

// DashboardStats возвращает метрики текущего периода с трендами.
// GET /api/v1/dashboard/stats
func (h *Handler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	period := domain.PeriodKey(time.Now())

	stats := DashboardStatsResponse{Period: period}

	for _, m := range []struct {
		metricType string
		target     *MetricStat
	}{
		{domain.MetricReportsGenerated, &stats.ReportsGenerated},
		{domain.MetricEmailsSent, &stats.EmailsSent},
		{domain.MetricOccurrencesFetched, &stats.OccurrencesFetched},
	} {
		metric, err := h.metricRepo.Get(r.Context(), m.metricType, period)
		if errors.Is(err, repo.ErrNotFound) {
			// В этом периоде метрика ещё не писалась: нули.
			continue
		}
		if err != nil {
			InternalError(w, h.logger, err)
			return
		}

		m.target.Value = metric.Value
		m.target.PreviousValue = metric.PreviousValue
		m.target.TrendPercent = domain.Trend(metric.Value, metric.PreviousValue)
	}

	Success(w, stats)
}

// SystemStatus возвращает состояние сервисов по последним проверкам monitor.
// GET /api/v1/dashboard/status
func (h *Handler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	services := []string{
		domain.ServiceAPIBackend,
		domain.ServiceDatabase,
		domain.ServiceTrackerAPI,
		domain.ServiceEmailServer,
	}

	resp := SystemStatusResponse{Services: make([]ServiceStatus, 0, len(services))}

	for _, service := range services {
		last, err := h.syslogRepo.LatestByService(r.Context(), service)
		if errors.Is(err, repo.ErrNotFound) {
			resp.Services = append(resp.Services, ServiceStatus{
				Service: service,
				Status:  domain.ServiceStatusOffline,
				Message: "no checks recorded yet",
			})
			continue
		}
		if err != nil {
			InternalError(w, h.logger, err)
			return
		}

		checkedAt := last.CheckedAt
		resp.Services = append(resp.Services, ServiceStatus{
			Service:   service,
			Status:    last.Status,
			LatencyMs: last.LatencyMs,
			Message:   last.Message,
			CheckedAt: &checkedAt,
		})
	}

	Success(w, resp)
}
