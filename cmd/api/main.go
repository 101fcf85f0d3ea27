package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/obaidullah11/DentalClinicManagement-clientportal/internal/api/router"
	"github.com/obaidullah11/DentalClinicManagement-clientportal/internal/clinicapi"
	appconfig "github.com/obaidullah11/DentalClinicManagement-clientportal/internal/config"
	"github.com/obaidullah11/DentalClinicManagement-clientportal/internal/http/handlers"
	"github.com/obaidullah11/DentalClinicManagement-clientportal/internal/observability/metrics"
	"github.com/obaidullah11/DentalClinicManagement-clientportal/pkg/logging"
)

func main() {
	// Load .env when present; real environments set variables directly.
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting booking wizard API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"clinic_api", cfg.ClinicAPIBaseURL,
	)

	registry := prometheus.NewRegistry()
	bookingMetrics := metrics.NewBookingMetrics(registry)

	backend := clinicapi.NewClient(logger,
		clinicapi.WithBaseURL(cfg.ClinicAPIBaseURL),
		clinicapi.WithTimeout(cfg.ClinicAPITimeout),
	)

	wizardHandler := handlers.NewWizardHandler(
		backend,
		bookingMetrics,
		cfg.ClinicName,
		cfg.SessionTTL,
		cfg.MaxSessions,
		logger,
	)

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	wizardHandler.StartJanitor(janitorCtx)

	r := router.New(&router.Config{
		Logger:             logger,
		WizardHandler:      wizardHandler,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	stopJanitor()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
