package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dreschagin/support-dashboard/internal/app"
	"github.com/dreschagin/support-dashboard/internal/reporter"

	// Interfaces
	httpInterface "github.com/dreschagin/support-dashboard/internal/interfaces/http"
	"github.com/dreschagin/support-dashboard/internal/interfaces/http/handler"

	// Shared
	"github.com/dreschagin/support-dashboard/pkg/config"
	"github.com/dreschagin/support-dashboard/pkg/logger"
)

func main() {
	// 1. Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Инициализируем logger
	log := logger.NewWithFormat(cfg.Log.Level, cfg.Log.Format, os.Stdout)
	log.Info("Starting Support Dashboard",
		"cache_backend", cfg.Cache.Backend,
		"timezone", cfg.Dashboard.Timezone)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Dependency Injection
	deps, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to initialize dependencies", err)
		os.Exit(1)
	}

	// 4. Фоновый reporter: gauges в CloudWatch, события в NATS, состояние для /readyz
	var reporterHandler *reporter.Handler
	if cfg.Reporter.Enabled {
		runner := reporter.NewRunner(
			reporter.NewService(deps.Dashboard, deps.Gauges, deps.Events, log),
			log,
			cfg.Reporter.Interval,
		)
		reporterHandler = reporter.NewHandler(runner)

		go func() {
			if _, err := runner.RunOnce(ctx); err != nil {
				log.Warn("Initial reporter cycle failed", "error", err.Error())
			}
			runner.Start(ctx)
		}()
		log.Info("Reporter started", "interval", cfg.Reporter.Interval.String())
	}

	// 5. HTTP
	router := httpInterface.NewRouter(
		handler.NewDashboardHandler(deps.Dashboard, log),
		handler.NewMonthlyReviewHandler(deps.Monthly, log),
		reporterHandler,
		deps.Metrics,
		deps.Registry,
		cfg.Security,
		cfg.RateLimit,
		log,
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Канал для получения сигналов ОС
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("HTTP server starting", "port", cfg.Server.Port)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", err)
			os.Exit(1)
		}
	}()

	// 6. Graceful shutdown
	<-sigChan
	log.Info("Shutdown signal received, starting graceful shutdown...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", err)
	}

	// Publishers сбрасывают буферы последними
	deps.Close(shutdownCtx)

	log.Info("Server stopped gracefully")
}
