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

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/smart-hospital/cmd/mainconfig"
	"github.com/wolfman30/smart-hospital/internal/api/router"
	"github.com/wolfman30/smart-hospital/internal/app/bootstrap"
	"github.com/wolfman30/smart-hospital/internal/appointments"
	"github.com/wolfman30/smart-hospital/internal/auth"
	appconfig "github.com/wolfman30/smart-hospital/internal/config"
	httpmiddleware "github.com/wolfman30/smart-hospital/internal/http/middleware"
	"github.com/wolfman30/smart-hospital/internal/inventory"
	"github.com/wolfman30/smart-hospital/internal/notify"
	"github.com/wolfman30/smart-hospital/internal/observability/metrics"
	"github.com/wolfman30/smart-hospital/internal/patients"
	"github.com/wolfman30/smart-hospital/internal/staff"
	"github.com/wolfman30/smart-hospital/internal/treatment"
	"github.com/wolfman30/smart-hospital/pkg/logging"
)

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting smart-hospital API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"store_backend", cfg.StoreBackend,
	)

	ctx := context.Background()
	handler, cleanup, err := setupApp(ctx, cfg, logger, mainconfig.AWSLoader(cfg))
	if err != nil {
		logger.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// setupApp builds every repository, service and handler and returns the
// router. cleanup releases the store and LLM connections.
func setupApp(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, loadAWS bootstrap.AWSLoader) (http.Handler, func(), error) {
	st, closeStore, err := bootstrap.BuildStore(ctx, cfg, loadAWS, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := st.EnsureDocuments(ctx); err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("ensure documents: %w", err)
	}

	staffRepo := staff.NewDocumentRepository(st)
	seedAdmin(ctx, staffRepo, cfg.AdminSeedPassword, logger)
	patientRepo := patients.NewDocumentRepository(st)
	apptRepo := appointments.NewDocumentRepository(st, patientRepo, staffRepo)

	metricsHandler, invMetrics, notifyMetrics := setupMetrics()

	sender, provider, err := bootstrap.BuildEmailSender(ctx, cfg, loadAWS, logger)
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	logger.Info("email sender configured", "provider", provider)
	notifier := notify.NewService(sender, notify.ServiceConfig{
		HospitalName:    cfg.HospitalName,
		AlertRecipients: cfg.AlertRecipients,
		Metrics:         notifyMetrics,
	}, logger)

	inv := inventory.NewHandler(st, inventory.Config{
		Threshold:    &cfg.LowStockThreshold,
		DefaultUnits: &cfg.DefaultUnits,
		Logger:       logger,
		Metrics:      invMetrics,
	}, notifier)

	llm, closeLLM, err := bootstrap.BuildLLMClient(ctx, cfg, loadAWS, logger)
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	suggester := treatment.NewSuggester(llm, treatment.SuggesterConfig{
		Model:   cfg.BedrockModelID,
		Timeout: cfg.LLMTimeout,
		Logger:  logger,
	})

	authService := auth.NewService(staffRepo, cfg.SessionJWTSecret, cfg.SessionTTL, logger)
	if cfg.SessionJWTSecret == "" {
		logger.Warn("SESSION_JWT_SECRET not set, login is disabled")
	}

	handler := router.New(&router.Config{
		Logger:         logger,
		Auth:           auth.NewHandler(authService, logger),
		Sessions:       authService,
		Staff:          staff.NewHandler(staffRepo, logger),
		Patients:       patients.NewHandler(patientRepo, logger),
		Appointments:   appointments.NewHandler(apptRepo, logger),
		Inventory:      inv,
		BloodAlerts:    notify.NewHandler(notifier, inv, patientRepo, logger),
		Cabin:          treatment.NewCabinHandler(apptRepo, patientRepo, suggester, logger),
		MetricsHandler: metricsHandler,
		LoginLimiter:   httpmiddleware.NewRateLimiter(1, 5),
	})

	cleanup := func() {
		closeLLM()
		closeStore()
	}
	return handler, cleanup, nil
}

func seedAdmin(ctx context.Context, repo *staff.DocumentRepository, password string, logger *logging.Logger) {
	created, err := repo.SeedAdmin(ctx, password)
	switch {
	case errors.Is(err, staff.ErrMissingCredentials):
		logger.Warn("ADMIN_SEED_PASSWORD not set, administrator account not seeded")
	case err != nil:
		logger.Error("failed to seed administrator", "error", err)
	case created:
		logger.Info("administrator account seeded", "email", staff.AdminEmail)
	}
}

func setupMetrics() (http.Handler, *metrics.InventoryMetrics, *metrics.NotificationMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	handler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	return handler, metrics.NewInventoryMetrics(reg), metrics.NewNotificationMetrics(reg)
}
