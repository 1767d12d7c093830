package reporter

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Handler отдает состояние runner по HTTP
type Handler struct {
	runner *Runner
}

func NewHandler(runner *Runner) *Handler {
	return &Handler{runner: runner}
}

// Register добавляет маршруты reporter в mux
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/readyz", h.Readyz)
	mux.HandleFunc("/api/v1/reporter/summary", h.summary)
	mux.HandleFunc("/api/v1/reporter/run", h.runNow)
}

// Readyz готов, когда последний цикл прошел успешно и не устарел
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snapshot := h.runner.Snapshot()
	if snapshot.LastRunAt.IsZero() {
		http.Error(w, "not ready: no reporter cycle yet", http.StatusServiceUnavailable)
		return
	}
	if time.Since(snapshot.LastRunAt) > snapshot.Interval*3 {
		http.Error(w, "not ready: stale reporter cycle", http.StatusServiceUnavailable)
		return
	}
	if snapshot.LastError != "" {
		http.Error(w, "not ready: last cycle failed", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, h.runner.Snapshot())
}

func (h *Handler) runNow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	summary, err := h.runner.RunOnce(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status": "error",
			"error":  err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(data)
}
