package monitor

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/shaiso/Reporta/internal/mq"
)

var (
	executionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reporta_executions_total",
		Help: "Report executions observed by the monitor, by status",
	}, []string{"status"})

	executionRecords = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reporta_execution_records_total",
		Help: "Total records included in finished report executions",
	})

	executionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "reporta_execution_duration_seconds",
		Help:    "Duration of finished report executions",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	})
)

// ExecutionEventHandler возвращает mq.Handler для событий
// execution.finished: логирует исход и обновляет Prometheus счётчики.
func ExecutionEventHandler(logger *slog.Logger) mq.Handler {
	return func(ctx context.Context, msg *mq.Delivery) error {
		if msg.Message.Type != mq.MessageTypeExecutionFinished {
			// Чужой тип сообщения в нашей очереди: подтверждаем и
			// пропускаем, retry не поможет.
			logger.Warn("unexpected message type", "type", msg.Message.Type)
			return nil
		}

		payload, err := mq.ParsePayload[mq.ExecutionFinishedPayload](&msg.Message)
		if err != nil {
			// Битый payload при валидном конверте: retry не поможет.
			logger.Error("bad execution payload", "message_id", msg.Message.ID, "error", err)
			return nil
		}

		executionsTotal.WithLabelValues(payload.Status).Inc()
		executionRecords.Add(float64(payload.RecordsProcessed))
		if payload.DurationMs != nil {
			executionDuration.Observe(float64(*payload.DurationMs) / 1000)
		}

		logger.Info("execution finished",
			"execution_id", payload.ExecutionID,
			"status", payload.Status,
			"records", payload.RecordsProcessed,
			"recipients", payload.Recipients,
		)
		return nil
	}
}
