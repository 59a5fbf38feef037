package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Reporta/internal/config"
	"github.com/shaiso/Reporta/internal/mailer"
	"github.com/shaiso/Reporta/internal/mq"
	"github.com/shaiso/Reporta/internal/report"
	"github.com/shaiso/Reporta/internal/repo"
	"github.com/shaiso/Reporta/internal/scheduler"
	"github.com/shaiso/Reporta/internal/telemetry"
	"github.com/shaiso/Reporta/internal/tracker"
)

// schedLockKey — ключ pg advisory lock для выбора лидера.
// При нескольких репликах тикает только одна.
const schedLockKey int64 = 727270

const tickInterval = 60 * time.Second

func main() {
	_ = godotenv.Load()

	logger := telemetry.SetupLogger()
	logger.Info("starting reporta-scheduler")

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

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := repo.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	jobRepo := repo.NewJobRepo(pool)
	execRepo := repo.NewExecutionRepo(pool)
	emailRepo := repo.NewEmailRepo(pool)
	metricRepo := repo.NewMetricRepo(pool)

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

	var publisher report.EventPublisher
	if cfg.AMQPURL != "" {
		conn, err := mq.NewConnection(cfg.AMQPURL, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer conn.Close()

		if err := mq.SetupTopology(ctx, conn); err != nil {
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

	sched := scheduler.New(scheduler.Config{
		JobRepo: jobRepo,
		Runner:  orchestrator,
		Logger:  logger,
	})

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	// scheduler loop
	go func() {
		tk := time.NewTicker(tickInterval)
		defer tk.Stop()

		var hasLock bool
		defer func() {
			if hasLock {
				_, _ = pool.Exec(context.Background(), "select pg_advisory_unlock($1)", schedLockKey)
			}
		}()

		for {
			select {
			case <-tk.C:
				// пытаемся стать лидером (или подтвердить лидерство)
				if !hasLock {
					var ok bool
					if err := pool.QueryRow(ctx, "select pg_try_advisory_lock($1)", schedLockKey).Scan(&ok); err != nil {
						logger.Error("leader lock failed", "error", err)
						continue
					}
					hasLock = ok
				}

				if !hasLock {
					// не лидер — пропускаем тик
					continue
				}

				if err := sched.Tick(ctx); err != nil {
					logger.Error("tick failed", "error", err)
				}

			case <-ctx.Done():
				return
			}
		}
	}()

	// serve
	addr := ":8081"
	if v := os.Getenv("SCHED_PORT"); v != "" {
		addr = ":" + v
	}

	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		logger.Info("listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("stopped")
}
