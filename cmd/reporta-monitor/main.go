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
	"github.com/shaiso/Reporta/internal/domain"
	"github.com/shaiso/Reporta/internal/monitor"
	"github.com/shaiso/Reporta/internal/mq"
	"github.com/shaiso/Reporta/internal/repo"
	"github.com/shaiso/Reporta/internal/telemetry"
	"github.com/shaiso/Reporta/internal/tracker"
)

func main() {
	_ = godotenv.Load()

	logger := telemetry.SetupLogger()
	logger.Info("starting reporta-monitor")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := repo.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	syslogRepo := repo.NewSystemLogRepo(pool)

	trackerClient := tracker.New(tracker.Config{
		AuthURL:  cfg.Tracker.AuthURL,
		APIURL:   cfg.Tracker.APIURL,
		APIKey:   cfg.Tracker.APIKey,
		Email:    cfg.Tracker.Email,
		Password: cfg.Tracker.Password,
		Logger:   logger,
	})

	apiHealthURL := "http://localhost:8080/healthz"
	if v := os.Getenv("API_HEALTH_URL"); v != "" {
		apiHealthURL = v
	}

	mon := monitor.New(monitor.Config{
		Store: syslogRepo,
		Checks: []monitor.Check{
			{Service: domain.ServiceAPIBackend, Probe: monitor.HTTPProbe(apiHealthURL)},
			{Service: domain.ServiceDatabase, Probe: monitor.DatabaseProbe(pool)},
			{Service: domain.ServiceTrackerAPI, Probe: monitor.TrackerProbe(trackerClient)},
			{Service: domain.ServiceEmailServer, Probe: monitor.SMTPProbe(cfg.SMTP.Host, cfg.SMTP.Port)},
		},
		Logger: logger,
	})

	if err := mon.Start(ctx); err != nil {
		logger.Error("failed to start monitor", "error", err)
		os.Exit(1)
	}
	defer mon.Stop()

	// Consumer событий выполнений: ведёт prometheus-счётчики.
	// Без RabbitMQ monitor ограничивается health-проверками.
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

		consumer := mq.NewConsumer(conn, logger, mq.ConsumerConfig{
			Queue:   mq.QueueExecutionsFinished,
			Handler: monitor.ExecutionEventHandler(logger),
		})
		defer consumer.Stop()

		go func() {
			if err := consumer.Start(ctx); err != nil {
				logger.Error("consumer stopped", "error", err)
			}
		}()
		logger.Info("consuming execution events", "queue", mq.QueueExecutionsFinished)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	addr := ":8082"
	if v := os.Getenv("MONITOR_PORT"); v != "" {
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
