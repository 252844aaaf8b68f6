package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/salary-tracker/internal/config"
	appHTTP "github.com/cmlabs-hris/salary-tracker/internal/handler/http"
	"github.com/cmlabs-hris/salary-tracker/internal/pkg/cron"
	"github.com/cmlabs-hris/salary-tracker/internal/pkg/database"
	"github.com/cmlabs-hris/salary-tracker/internal/pkg/jwt"
	"github.com/cmlabs-hris/salary-tracker/internal/pkg/sse"
	"github.com/cmlabs-hris/salary-tracker/internal/pkg/storage"
	"github.com/cmlabs-hris/salary-tracker/internal/repository/kvstore"
	dashboardService "github.com/cmlabs-hris/salary-tracker/internal/service/dashboard"
	employeeService "github.com/cmlabs-hris/salary-tracker/internal/service/employee"
	receiptService "github.com/cmlabs-hris/salary-tracker/internal/service/receipt"
	settingsService "github.com/cmlabs-hris/salary-tracker/internal/service/settings"
)

const (
	appName = "salary-tracker"
	version = "v1.0.0"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateServer(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DatabaseOptions())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	migrated, err := kvstore.Migrate(ctx, db)
	if err != nil {
		return fmt.Errorf("migrate stored data: %w", err)
	}
	if migrated.EmployeesChanged || migrated.SettingsChanged {
		logger.Info("Stored data migrated",
			"employees", migrated.Employees,
			"employees_changed", migrated.EmployeesChanged,
			"settings_changed", migrated.SettingsChanged)
	}

	employeeRepo := kvstore.NewEmployeeRepository(db)
	settingsRepo := kvstore.NewSettingsRepository(db)

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.Path, cfg.Storage.BaseURL)
	if err != nil {
		return fmt.Errorf("initialize file storage: %w", err)
	}

	hub := sse.NewHub()
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.UnlockExpiration)

	settingsSvc := settingsService.NewSettingsService(settingsRepo, employeeRepo, JWTService, hub, logger)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, settingsRepo, hub, logger, nil)
	dashboardSvc := dashboardService.NewDashboardService(employeeRepo, settingsRepo, logger, nil)
	receiptSvc := receiptService.NewReceiptService(employeeRepo, settingsRepo, fileStorage, logger, nil)

	scheduler := cron.NewScheduler(logger)
	cron.NewSalaryReminderJobs(employeeRepo, hub, logger, nil).RegisterJobs(scheduler, cfg.Reminder.Interval)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	router := appHTTP.NewRouter(appHTTP.RouterOptions{
		AllowedOrigins: cfg.App.AllowedOrigins,
		AppName:        appName,
		Version:        version,
		Env:            cfg.App.Env,
		LogLevel:       cfg.SlogLevel(),
		FilesDir:       fileStorage.BasePath(),
	}, JWTService, settingsSvc, appHTTP.Handlers{
		Settings:  appHTTP.NewSettingsHandler(settingsSvc),
		Employee:  appHTTP.NewEmployeeHandler(employeeSvc, receiptSvc),
		Dashboard: appHTTP.NewDashboardHandler(dashboardSvc),
		Events:    appHTTP.NewEventsHandler(hub),
		Health:    appHTTP.NewHealthHandler(db, hub),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		// event streams end when the signal context is cancelled
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server running", "addr", server.Addr, "storage_driver", cfg.Database.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown", "error", err)
		return err
	}
	logger.Info("Server exited gracefully")
	return nil
}
