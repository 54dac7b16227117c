package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GoSim-25-26J-441/go-impact-backend/config"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/bootstrap"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/logging"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/reevaluation"
)

const serviceName = "go-impact-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := logging.Base()
		l.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Init(cfg.App.LogLevel, cfg.App.LogFormat)
	logger := logging.NewLogger(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.NewApp(ctx, cfg)
	if err != nil {
		logger.LogErrorf("startup", "failed to start: %v", err)
		os.Exit(1)
	}
	defer app.Close()
	logger.LogInfof("startup", "impact provider %s", app.Engine.Resolve())

	var scheduler *reevaluation.Scheduler
	if cfg.Schedule.ReevaluateCron != "" {
		scheduler = reevaluation.NewScheduler(app.Service, cfg.Schedule.ReevaluateCron)
		if err := scheduler.Start(ctx); err != nil {
			logger.LogErrorf("startup", "invalid REEVALUATE_CRON %q: %v", cfg.Schedule.ReevaluateCron, err)
			os.Exit(1)
		}
	}

	bootstrap.SetGinMode(cfg.App.Environment)
	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Projects:       app.Service,
		StorePing:      app.Store.Ping,
		ProviderState:  func() string { return app.Engine.State().String() },
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.LogInfof("startup", "listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.LogErrorf("server", "server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.LogInfof("shutdown", "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.LogErrorf("shutdown", "graceful shutdown failed: %v", err)
	}
	if scheduler != nil {
		select {
		case <-scheduler.Stop().Done():
		case <-shutdownCtx.Done():
		}
	}
}
