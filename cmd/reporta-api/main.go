package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Reporta/internal/api"
	"github.com/shaiso/Reporta/internal/config"
	"github.com/shaiso/Reporta/internal/mailer"
	"github.com/shaiso/Reporta/internal/mq"
	"github.com/shaiso/Reporta/internal/report"
	"github.com/shaiso/Reporta/internal/repo"
	"github.com/shaiso/Reporta/internal/telemetry"
	"github.com/shaiso/Reporta/internal/tracker"
)

var (
	startTime = time.Now()
	reqTotal  = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reporta_api_http_requests_total",
		Help: "Total HTTP requests handled by reporta_api",
	})
)

func main() {
	// .env опционален: в контейнерах конфигурация приходит из окружения.
	_ = godotenv.Load()

	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting reporta-api")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.ValidateTracker(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}
	if err := cfg.ValidateSMTP(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	// Подключаемся к базе данных
	pool, err := repo.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	// Создаём репозитории
	jobRepo := repo.NewJobRepo(pool)
	execRepo := repo.NewExecutionRepo(pool)
	emailRepo := repo.NewEmailRepo(pool)
	metricRepo := repo.NewMetricRepo(pool)
	syslogRepo := repo.NewSystemLogRepo(pool)

	// Внешние клиенты: tracker и SMTP
	trackerClient := tracker.New(tracker.Config{
		AuthURL:  cfg.Tracker.AuthURL,
		APIURL:   cfg.Tracker.APIURL,
		APIKey:   cfg.Tracker.APIKey,
		Email:    cfg.Tracker.Email,
		Password: cfg.Tracker.Password,
		Logger:   logger,
	})

	sender, err := mailer.New(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("failed to create mailer", "error", err)
		os.Exit(1)
	}

	// RabbitMQ опционален: без него события выполнений не публикуются.
	var publisher report.EventPublisher
	if cfg.AMQPURL != "" {
		conn, err := mq.NewConnection(cfg.AMQPURL, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer conn.Close()

		if err := mq.SetupTopology(context.Background(), conn); err != nil {
			logger.Error("failed to setup mq topology", "error", err)
			os.Exit(1)
		}

		publisher = mq.NewPublisher(conn, logger)
		logger.Info("connected to rabbitmq")
	}

	orchestrator := report.New(report.Config{
		Tracker:    trackerClient,
		Sender:     sender,
		Executions: execRepo,
		Emails:     emailRepo,
		Metrics:    metricRepo,
		Publisher:  publisher,
		Logger:     logger,
	})

	// Создаём API handler
	handler := api.NewHandler(api.Config{
		Reports:    orchestrator,
		JobRepo:    jobRepo,
		ExecRepo:   execRepo,
		EmailRepo:  emailRepo,
		MetricRepo: metricRepo,
		SyslogRepo: syslogRepo,
		Logger:     logger,
	})

	mux := http.NewServeMux()

	// Health и metrics
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		reqTotal.Inc()
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok %s", time.Since(startTime))
	})
	mux.Handle("/metrics", promhttp.Handler())

	// Регистрируем API маршруты
	handler.RegisterRoutes(mux)

	addr := ":8080"
	if v := os.Getenv("API_PORT"); v != "" {
		addr = ":" + v
	}

	// Создаём HTTP сервер с возможностью graceful shutdown
	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Запускаем сервер в горутине
	go func() {
		logger.Info("listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Ожидаем сигнал завершения
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	<-ctx.Done()
	logger.Info("shutting down")

	// Graceful shutdown с таймаутом 10 секунд
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("stopped")
}
