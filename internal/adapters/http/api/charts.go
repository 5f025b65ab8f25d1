package api

import (
	"context"
	"net/http"

	"github.com/okian/melodex/internal/domain/types"
)

// ChartDependencies defines the interface for rating chart queries.
type ChartDependencies interface {
	Charts(ctx context.Context) ([]types.ChartEntry, error)
	TopRated(ctx context.Context) ([]types.ChartEntry, error)
}

// ChartsHandler handles rating chart requests.
type ChartsHandler struct {
	deps ChartDependencies
}

// NewChartsHandler creates a new charts handler.
func NewChartsHandler(deps ChartDependencies) *ChartsHandler {
	return &ChartsHandler{deps: deps}
}

// HandleGetCharts handles GET /charts requests.
func (h *ChartsHandler) HandleGetCharts(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_charts"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	entries, err := h.deps.Charts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleGetTopRated handles GET /charts/top requests.
func (h *ChartsHandler) HandleGetTopRated(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_top_rated"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	entries, err := h.deps.TopRated(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
