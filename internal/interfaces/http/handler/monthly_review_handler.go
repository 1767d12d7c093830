package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dreschagin/support-dashboard/internal/application/dto"
	"github.com/dreschagin/support-dashboard/internal/application/usecase"
	"github.com/dreschagin/support-dashboard/internal/domain/valueobject"
	"github.com/dreschagin/support-dashboard/internal/interfaces/http/middleware"
	"github.com/dreschagin/support-dashboard/pkg/logger"
)

// MonthlyReviewHandler обрабатывает запросы к месячному отчету
type MonthlyReviewHandler struct {
	getMonthlyReviewUC *usecase.GetMonthlyReviewUseCase
	logger             *logger.Logger
}

// NewMonthlyReviewHandler создает новый handler
func NewMonthlyReviewHandler(
	getMonthlyReviewUC *usecase.GetMonthlyReviewUseCase,
	logger *logger.Logger,
) *MonthlyReviewHandler {
	return &MonthlyReviewHandler{
		getMonthlyReviewUC: getMonthlyReviewUC,
		logger:             logger,
	}
}

// GetMonthlyReview отдает страницу отчета: ?month=YYYY-MM&page=N&refresh=1
func (h *MonthlyReviewHandler) GetMonthlyReview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := parseMonthlyQuery(r)
	if query.Month != "" {
		if _, err := valueobject.ParseMonth(query.Month); err != nil {
			middleware.WriteJSON(w, http.StatusBadRequest, map[string]interface{}{
				"ok":    false,
				"error": err.Error(),
			})
			return
		}
	}

	page, err := h.getMonthlyReviewUC.ExecutePage(r.Context(), query)
	if err != nil {
		h.logger.Error("Failed to build monthly review", err,
			"month", query.Month,
			"request_id", middleware.RequestID(r.Context()))
		middleware.WriteJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"ok":    false,
			"error": "failed to load monthly review",
		})
		return
	}

	middleware.WriteJSON(w, http.StatusOK, page)
}

// parseMonthlyQuery: нечисловая страница трактуется как 1
func parseMonthlyQuery(r *http.Request) dto.MonthlyReviewQuery {
	values := r.URL.Query()

	page, err := strconv.Atoi(values.Get("page"))
	if err != nil {
		page = 1
	}

	refresh := strings.ToLower(values.Get("refresh"))

	return dto.MonthlyReviewQuery{
		Month:        strings.TrimSpace(values.Get("month")),
		Page:         page,
		ForceRefresh: refresh == "1" || refresh == "true",
	}
}
