package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/melodex/internal/domain/recommend"
	"github.com/okian/melodex/internal/domain/types"
)

// RecommendationDependencies defines the interface for song selection.
type RecommendationDependencies interface {
	Recommend(ctx context.Context, userID, strategy, arg string) (types.Recommendation, error)
}

// RecommendationHandler handles recommendation requests.
type RecommendationHandler struct {
	deps RecommendationDependencies
}

// NewRecommendationHandler creates a new recommendation handler.
func NewRecommendationHandler(deps RecommendationDependencies) *RecommendationHandler {
	return &RecommendationHandler{deps: deps}
}

// HandleGetRecommendation handles GET /recommendation?user=&strategy=&q= requests.
func (h *RecommendationHandler) HandleGetRecommendation(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_recommendation"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	user := userID(r)
	if user == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrMissingUser))
		return
	}
	strategy := r.URL.Query().Get("strategy")
	arg := r.URL.Query().Get("q")

	rec, err := h.deps.Recommend(r.Context(), user, strategy, arg)
	if err != nil {
		switch {
		case errors.Is(err, recommend.ErrNoEligible), errors.Is(err, recommend.ErrNoMatch):
			writeError(w, http.StatusNotFound, "not_found", err)
		case errors.Is(err, recommend.ErrUnknownStrategy):
			writeError(w, http.StatusBadRequest, "bad_request", err)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		}
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
