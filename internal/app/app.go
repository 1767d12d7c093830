// Package app собирает зависимости сервиса из конфигурации.
// Используется и HTTP сервером, и CLI.
package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	// Application
	"github.com/dreschagin/support-dashboard/internal/application/port"
	"github.com/dreschagin/support-dashboard/internal/application/usecase"

	// Domain
	"github.com/dreschagin/support-dashboard/internal/domain/service"

	// Infrastructure
	"github.com/dreschagin/support-dashboard/internal/infrastructure/atera"
	"github.com/dreschagin/support-dashboard/internal/infrastructure/awsconfig"
	"github.com/dreschagin/support-dashboard/internal/infrastructure/cache/memory"
	rediscache "github.com/dreschagin/support-dashboard/internal/infrastructure/cache/redis"
	"github.com/dreschagin/support-dashboard/internal/infrastructure/fixture"
	natsInfra "github.com/dreschagin/support-dashboard/internal/infrastructure/messaging/nats"
	"github.com/dreschagin/support-dashboard/internal/infrastructure/metrics"
	"github.com/dreschagin/support-dashboard/internal/infrastructure/observability/cloudwatch"

	// Shared
	"github.com/dreschagin/support-dashboard/pkg/config"
	"github.com/dreschagin/support-dashboard/pkg/logger"
)

// App содержит собранный граф зависимостей
type App struct {
	Config   *config.Config
	Logger   *logger.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics

	Cache  port.Cache
	Events port.EventPublisher   // nil, если NATS выключен
	Gauges port.MetricsPublisher // nil, если CloudWatch metrics выключен

	Dashboard *usecase.GetDashboardMetricsUseCase
	Monthly   *usecase.GetMonthlyReviewUseCase

	closers []func(context.Context) error
}

// New создает все зависимости. Ошибки опциональных интеграций (NATS, CloudWatch) логируются
// и отключают интеграцию; ошибки кеша фатальны.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	a := &App{
		Config:   cfg,
		Logger:   log,
		Registry: prometheus.NewRegistry(),
	}
	a.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.Metrics = metrics.New(a.Registry)

	awsOpts := awsconfig.Options{
		Region:          cfg.AWS.Region,
		Endpoint:        cfg.AWS.Endpoint,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
	}

	// 1. CloudWatch Logs подключается первым, чтобы получить логи инициализации
	if cfg.CloudWatch.LogsEnabled {
		logsPublisher, err := cloudwatch.NewLogsPublisher(ctx, cloudwatch.LogsPublisherConfig{
			LogGroupName:  cfg.CloudWatch.LogGroup,
			LogStreamName: cfg.CloudWatch.LogStream,
			AWS:           awsOpts,
			AutoCreate:    true,
		})
		if err != nil {
			log.Error("Failed to initialize CloudWatch Logs, continuing without it", err)
		} else {
			log.SetLogPublisher(logsPublisher)
			a.closers = append(a.closers, logsPublisher.Close)
			log.Info("CloudWatch Logs publisher attached", "log_group", cfg.CloudWatch.LogGroup)
		}
	}

	// 2. Кеш
	cache, err := a.newCache(ctx)
	if err != nil {
		return nil, err
	}
	a.Cache = cache
	a.closers = append(a.closers, func(context.Context) error { return cache.Close() })

	// 3. Фикстуры: локальные пути и s3://
	fixtureOpts := make([]fixture.Option, 0, 1)
	if usesObjectStorage(cfg.Dashboard.FixturePath, cfg.Monthly.FixturePath) {
		s3Source, err := fixture.NewS3Source(ctx, fixture.S3Config{AWS: awsOpts, UsePathStyle: cfg.AWS.S3UsePathStyle})
		if err != nil {
			log.Error("Failed to initialize S3 fixture source", err)
		} else {
			fixtureOpts = append(fixtureOpts, fixture.WithObjectReader(s3Source))
		}
	}
	fixtures := fixture.NewLoader(fixtureOpts...)

	// 4. NATS
	if cfg.NATS.Enabled {
		publisher, err := natsInfra.NewNATSPublisher(cfg.NATS.URL, log)
		if err != nil {
			log.Error("Failed to connect to NATS, report events disabled", err)
		} else {
			a.Events = publisher
			a.closers = append(a.closers, func(context.Context) error { return publisher.Close() })
		}
	}

	// 5. CloudWatch Metrics
	if cfg.CloudWatch.MetricsEnabled {
		gauges, err := cloudwatch.NewMetricsPublisher(ctx, cloudwatch.MetricsPublisherConfig{
			Namespace:         cfg.CloudWatch.Namespace,
			AWS:               awsOpts,
			DefaultDimensions: map[string]string{"Service": "support-dashboard"},
		}, log)
		if err != nil {
			log.Error("Failed to initialize CloudWatch Metrics, gauges disabled", err)
		} else {
			a.Gauges = gauges
			a.closers = append(a.closers, gauges.Close)
		}
	}

	// 6. Upstream и use cases
	client := atera.NewClient(atera.Config{
		BaseURL:            cfg.Atera.BaseURL,
		APIKey:             cfg.Atera.APIKey,
		Timeout:            cfg.Atera.RequestTimeout,
		RateLimitPerMinute: cfg.Atera.RateLimitPerMinute,
	}, a.Metrics, log)
	loader := usecase.NewCollectionLoader(atera.NewSource(client), a.Cache, a.Metrics, log)
	classifier := service.NewStatusClassifier(cfg.Classifier.ClosedKeywords, cfg.Classifier.PendingKeywords)

	dashboardOpts := []usecase.DashboardOption{}
	if cfg.Dashboard.FixturePath != "" {
		dashboardOpts = append(dashboardOpts, usecase.WithDashboardFixture(fixtures, cfg.Dashboard.FixturePath))
	}
	a.Dashboard = usecase.NewGetDashboardMetricsUseCase(
		loader,
		service.NewDashboardAggregator(classifier, cfg.Dashboard.Location()),
		a.Metrics,
		log,
		dashboardOpts...,
	)

	monthlyOpts := []usecase.MonthlyOption{}
	if a.Events != nil {
		monthlyOpts = append(monthlyOpts, usecase.WithMonthlyEvents(a.Events))
	}
	a.Monthly = usecase.NewGetMonthlyReviewUseCase(
		loader,
		service.NewMonthlyAggregator(),
		a.Cache,
		fixtures,
		usecase.MonthlyReviewConfig{
			CacheTTL:            cfg.Monthly.CacheTTL,
			FixturePath:         cfg.Monthly.FixturePath,
			BillableConcurrency: cfg.Monthly.BillableConcurrency,
		},
		a.Metrics,
		log,
		monthlyOpts...,
	)

	return a, nil
}

func (a *App) newCache(ctx context.Context) (port.Cache, error) {
	if a.Config.Cache.Backend != config.CacheBackendRedis {
		a.Logger.Info("Using in-memory cache")
		return memory.New(), nil
	}

	cache, err := rediscache.NewRedisCache(ctx, rediscache.Options{
		Host:     a.Config.Cache.RedisHost,
		Port:     a.Config.Cache.RedisPort,
		Password: a.Config.Cache.RedisPassword,
		DB:       a.Config.Cache.RedisDB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	a.Logger.Info("Using redis cache", "addr", a.Config.Cache.RedisAddr())
	return cache, nil
}

// Close освобождает ресурсы в обратном порядке создания
func (a *App) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.Logger.Warn("Failed to close dependency", "error", err.Error())
		}
	}
}

func usesObjectStorage(paths ...string) bool {
	for _, path := range paths {
		if _, _, ok := fixture.ParseS3URL(path); ok {
			return true
		}
	}
	return false
}
