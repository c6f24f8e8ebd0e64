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

	"github.com/cmlabs-hris/dashpro-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/dashpro-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/i18n"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/logger"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/repository"
	attendanceService "github.com/cmlabs-hris/dashpro-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/dashpro-backend-go/internal/service/auth"
	dashboardService "github.com/cmlabs-hris/dashpro-backend-go/internal/service/dashboard"
	financeService "github.com/cmlabs-hris/dashpro-backend-go/internal/service/finance"
	leaveService "github.com/cmlabs-hris/dashpro-backend-go/internal/service/leave"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Server error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(os.Stdout, logger.Options{
		App:     cfg.App.Name,
		Version: cfg.App.Version,
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
	})
	slog.SetDefault(log)

	if err := i18n.Init(cfg.App.DefaultLocale); err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := repository.Open(ctx, cfg, loc)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := repos.Close(closeCtx); err != nil {
			slog.Error("failed to close storage", slog.Any("error", err))
		}
	}()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	authService := serviceAuth.NewAuthService(repos.Users, JWTService)
	attendanceSvc := attendanceService.NewAttendanceService(repos.Attendance, loc, cfg.Attendance.StoreLocation)
	leaveSvc := leaveService.NewLeaveService(repos.Leaves, loc)
	financeSvc := financeService.NewFinanceService(repos.Finance, loc)
	dashboardSvc := dashboardService.NewDashboardService(repos.Attendance, repos.Leaves, repos.Finance, loc)

	router := appHTTP.NewRouter(log, cfg.App.AllowedOrigins, JWTService, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(authService),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Leave:      appHTTP.NewLeaveHandler(leaveSvc),
		Finance:    appHTTP.NewFinanceHandler(financeSvc),
		Dashboard:  appHTTP.NewDashboardHandler(dashboardSvc),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server running", slog.String("addr", server.Addr), slog.String("driver", cfg.Database.Driver), slog.String("timezone", loc.String()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
