package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/config"
	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/domain/payroll"
	appHTTP "github.com/cmlabs-hris/ph-payroll-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/pkg/ratetable"
	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/ph-payroll-backend-go/internal/repository/postgresql"
	employeeService "github.com/cmlabs-hris/ph-payroll-backend-go/internal/service/employee"
	payrollService "github.com/cmlabs-hris/ph-payroll-backend-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})).With(
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("env", cfg.App.Env),
	))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		employeeRepo employee.EmployeeRepository
		payrollRepo  payroll.PayrollRepository
		pinger       appHTTP.Pinger
	)
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
		if err != nil {
			slog.Error("Error connecting to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if cfg.Database.AutoMigrate {
			if err := db.MigrateUp(ctx); err != nil {
				slog.Error("Failed to apply migrations", "error", err)
				os.Exit(1)
			}
		}
		employeeRepo = postgresql.NewEmployeeRepository(db)
		payrollRepo = postgresql.NewPayrollRepository(db)
		pinger = db
	case config.StorageDriverMemory:
		slog.Warn("Using in-memory storage; data is lost on restart")
		memEmployees := memory.NewEmployeeRepository()
		employeeRepo = memEmployees
		payrollRepo = memory.NewPayrollRepository(memEmployees)
	}

	rates := ratetable.Default()
	if cfg.Payroll.RateTablePath != "" {
		rates, err = ratetable.Load(cfg.Payroll.RateTablePath)
		if err != nil {
			slog.Error("Failed to load rate table", "path", cfg.Payroll.RateTablePath, "error", err)
			os.Exit(1)
		}
	}
	slog.Info("Rate table loaded", "name", rates.Name, "brackets", len(rates.TaxBrackets))

	if cfg.QA.Any() {
		slog.Warn("QA defect toggles enabled",
			"tax_boundary_bug", cfg.QA.TaxBoundaryBug,
			"allow_negative_override", cfg.QA.AllowNegativeOverride,
			"missing_employee_ok", cfg.QA.MissingEmployeeOK,
		)
	}

	employeeSvc := employeeService.NewEmployeeService(employeeRepo)
	payrollSvc := payrollService.NewPayrollService(payrollRepo, employeeRepo, rates, payrollService.Options{
		LegacyTaxBoundary:     cfg.QA.TaxBoundaryBug,
		AllowNegativeOverride: cfg.QA.AllowNegativeOverride,
	})

	routerCfg := appHTTP.RouterConfig{
		AppName:        cfg.App.Name,
		Version:        cfg.App.Version,
		Env:            cfg.App.Env,
		LogLevel:       cfg.SlogLevel(),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}
	if cfg.JWT.Secret != "" {
		routerCfg.JWTAuth = jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration).JWTAuth()
		slog.Info("Write protection enabled")
	}

	router := appHTTP.NewRouter(
		routerCfg,
		appHTTP.NewEmployeeHandler(employeeSvc),
		appHTTP.NewPayrollHandler(payrollSvc, cfg.QA.MissingEmployeeOK),
		appHTTP.NewHealthHandler(pinger),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", fmt.Sprintf("http://localhost%s", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("Server error", "error", err)
		}
	case <-ctx.Done():
		slog.Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
