package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dreschagin/support-dashboard/internal/infrastructure/metrics"
	"github.com/dreschagin/support-dashboard/internal/interfaces/http/handler"
	"github.com/dreschagin/support-dashboard/internal/interfaces/http/middleware"
	"github.com/dreschagin/support-dashboard/internal/reporter"
	"github.com/dreschagin/support-dashboard/pkg/config"
	"github.com/dreschagin/support-dashboard/pkg/logger"
)

// Router настраивает маршруты приложения
type Router struct {
	mux                  *http.ServeMux
	dashboardHandler     *handler.DashboardHandler
	monthlyReviewHandler *handler.MonthlyReviewHandler
	reporterHandler      *reporter.Handler
	metrics              *metrics.Metrics
	gatherer             prometheus.Gatherer
	security             config.SecurityConfig
	rateLimit            config.RateLimitConfig
	logger               *logger.Logger
}

// NewRouter создает новый router; reporterHandler и gatherer могут быть nil
func NewRouter(
	dashboardHandler *handler.DashboardHandler,
	monthlyReviewHandler *handler.MonthlyReviewHandler,
	reporterHandler *reporter.Handler,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
	security config.SecurityConfig,
	rateLimit config.RateLimitConfig,
	logger *logger.Logger,
) *Router {
	return &Router{
		mux:                  http.NewServeMux(),
		dashboardHandler:     dashboardHandler,
		monthlyReviewHandler: monthlyReviewHandler,
		reporterHandler:      reporterHandler,
		metrics:              m,
		gatherer:             gatherer,
		security:             security,
		rateLimit:            rateLimit,
		logger:               logger,
	}
}

// Setup настраивает все маршруты
func (rt *Router) Setup() http.Handler {
	// Health endpoints без авторизации для probes
	rt.mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if rt.reporterHandler != nil {
		rt.reporterHandler.Register(rt.mux)
	} else {
		rt.mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
		})
	}
	if rt.gatherer != nil {
		rt.mux.Handle("/metrics", metrics.Handler(rt.gatherer))
	}

	authMiddleware := middleware.Auth(middleware.AuthConfig{
		Enabled:     rt.security.AuthEnabled,
		BearerToken: rt.security.AuthToken,
	}, rt.logger)

	// API endpoints
	rt.mux.Handle("/api/v1/dashboard", authMiddleware(http.HandlerFunc(rt.dashboardHandler.GetDashboard)))
	rt.mux.Handle("/api/v1/monthly-review", authMiddleware(http.HandlerFunc(rt.monthlyReviewHandler.GetMonthlyReview)))

	// Применяем middleware
	var handler http.Handler = rt.mux
	handler = middleware.Compression(handler)
	handler = middleware.Recovery(rt.logger)(handler)
	handler = middleware.Logger(rt.logger)(handler)
	handler = rt.metrics.Middleware(handler)
	if rt.rateLimit.RPS > 0 {
		limiter := middleware.NewIPRateLimiter(rt.rateLimit.RPS, rt.rateLimit.Burst)
		handler = middleware.RateLimit(limiter, rt.metrics.RateLimited)(handler)
	}

	return handler
}
