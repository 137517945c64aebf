package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"maintenance-orchestrator/config"
	"maintenance-orchestrator/internal/api"
	"maintenance-orchestrator/internal/db"
	"maintenance-orchestrator/internal/notification"
	"maintenance-orchestrator/internal/orchestrator"
	"maintenance-orchestrator/internal/scheduler"
	"maintenance-orchestrator/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.WithError(err).Warn("failed to read .env file")
	}

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.WithError(err).Fatalf("failed to load configuration from %s", configPath)
	}
	cfg.Log.SetupLogging()
	log.WithField("path", configPath).Info("configuration loaded")

	var webpushOptions *webpush.Options
	if cfg.Push.Enabled() {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
	} else {
		log.Warn("VAPID keys are not configured; technician push notifications are disabled")
	}

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize database")
	}
	appStore := store.NewGormStore(gormDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := notification.NewWorkerPool(cfg.WorkerPool.Size, cfg.WorkerPool.QueueSize, appStore, webpushOptions)
	pool.Start(ctx)

	orch := orchestrator.New(appStore, orchestrator.Options{
		Location:      cfg.Scheduler.Location(),
		LookaheadDays: cfg.Assignment.LookaheadDays,
		Notifier:      pool,
	})

	runner := scheduler.NewRunner(cfg.Scheduler, orch)
	go runner.Run(ctx)

	router := api.NewRouter(orch, webpushOptions, cfg.Server)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Server.Port).Info("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("HTTP server stopped unexpectedly")
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	log.Info("shutdown signal received, stopping services")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Fatal("HTTP server shutdown failed")
	}

	log.Info("server gracefully stopped")
}
