package handler

import (
	"errors"
	"net/http"

	"github.com/dreschagin/support-dashboard/internal/application/dto"
	"github.com/dreschagin/support-dashboard/internal/application/usecase"
	"github.com/dreschagin/support-dashboard/internal/interfaces/http/middleware"
	"github.com/dreschagin/support-dashboard/pkg/logger"
)

var errDashboardUnavailable = errors.New("failed to load dashboard metrics")

// DashboardHandler обрабатывает запросы к оперативному срезу
type DashboardHandler struct {
	getDashboardUC *usecase.GetDashboardMetricsUseCase
	logger         *logger.Logger
}

// NewDashboardHandler создает новый handler
func NewDashboardHandler(
	getDashboardUC *usecase.GetDashboardMetricsUseCase,
	logger *logger.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		getDashboardUC: getDashboardUC,
		logger:         logger,
	}
}

// GetDashboard отдает {ok:true, metrics} или 500 {ok:false, error}
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	metrics, err := h.getDashboardUC.Execute(r.Context())
	if err != nil {
		h.logger.Error("Failed to build dashboard", err, "request_id", middleware.RequestID(r.Context()))
		middleware.WriteJSON(w, http.StatusInternalServerError, dto.NewDashboardError(errDashboardUnavailable))
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.NewDashboardResponse(metrics))
}
