package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"soa-backend/internal/config"
	"soa-backend/internal/handlers"
	"soa-backend/internal/health"
	httprouter "soa-backend/internal/http"
	"soa-backend/internal/jobs"
	"soa-backend/internal/layout"
	"soa-backend/internal/logger"
	"soa-backend/internal/middleware"
	"soa-backend/internal/services"
	"soa-backend/internal/timeutil"
	"soa-backend/internal/workspace"
)

// newServer wires services, handlers and middleware into an http.Server.
// The returned janitor has already swept once but is not scheduled yet.
func newServer(cfg *config.Config, zlog *zap.Logger) (*http.Server, *jobs.Janitor, error) {
	if err := timeutil.SetLocation(cfg.Report.Timezone); err != nil {
		zlog.Warn("unknown timezone", zap.String("timezone", cfg.Report.Timezone), zap.String("using", timeutil.Local.String()), zap.Error(err))
	}

	ws, err := workspace.New(cfg.Workspace.Root, zlog)
	if err != nil {
		return nil, nil, err
	}
	zlog.Info("workspace ready", zap.String("root", ws.Root()))

	// Remove leftovers from previous runs before accepting traffic
	janitor := jobs.NewJanitor(ws, jobs.JanitorConfig{
		Schedule: cfg.Workspace.SweepSchedule,
		MaxAge:   cfg.Workspace.MaxAge,
	}, zlog)
	janitor.RunOnce()

	builder := layout.NewBuilder(layout.Options{
		Company: cfg.Report.Company,
		Footer:  cfg.Report.Footer,
	})

	// Initialize services
	reportService := services.NewReportService(ws, builder, services.ReportServiceConfig{
		ReferenceFile: cfg.Report.ReferenceFile,
	}, zlog)
	renewalService := services.NewRenewalService(ws, zlog)

	// Initialize handlers
	reportHandler := handlers.NewReportHandler(reportService, renewalService, handlers.UploadLimits{
		MaxRequestBytes: cfg.MaxRequestBytes(),
		MaxFileBytes:    cfg.MaxFileBytes(),
		Timeout:         cfg.Server.RequestTimeout,
	}, zlog)
	healthHandler := handlers.NewHealthHandler(health.NewHealthChecker(ws.Root()))

	router := httprouter.NewRouter(reportHandler, healthHandler)

	// Wrap with panic recovery, request logging and CORS
	handler := middleware.PanicRecovery(zlog)(
		middleware.RequestLogger(zlog)(
			middleware.NewCORS(cfg)(router)))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv, janitor, nil
}

func main() {
	// Parse command-line flags
	configPath := flag.String("config", config.DefaultPath, "Path to config.yaml")
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	cfg := config.Load(*configPath)
	if *port != 0 {
		cfg.Server.Port = *port
	}

	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		log.Fatalf("[Logger] %v", err)
	}
	defer zlog.Sync()

	srv, janitor, err := newServer(cfg, zlog)
	if err != nil {
		zlog.Fatal("server setup failed", zap.Error(err))
	}
	if err := janitor.Start(); err != nil {
		zlog.Fatal("janitor schedule rejected", zap.Error(err))
	}
	defer janitor.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		zlog.Info("server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.RequestTimeout+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("shutdown failed", zap.Error(err))
	}
}
