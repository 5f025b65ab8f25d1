package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/melodex/internal/domain/model"
	"github.com/okian/melodex/internal/domain/similarity"
)

// SimilarDependencies defines the interface for similarity queries.
type SimilarDependencies interface {
	Similar(ctx context.Context, userID string) ([]model.Song, error)
}

// SimilarHandler handles similarity requests.
type SimilarHandler struct {
	deps SimilarDependencies
}

// NewSimilarHandler creates a new similar handler.
func NewSimilarHandler(deps SimilarDependencies) *SimilarHandler {
	return &SimilarHandler{deps: deps}
}

// HandleGetSimilar handles GET /similar?user= requests. The reference
// song is the user's last recommendation.
func (h *SimilarHandler) HandleGetSimilar(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_similar"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	user := userID(r)
	if user == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrMissingUser))
		return
	}
	songs, err := h.deps.Similar(r.Context(), user)
	if err != nil {
		if errors.Is(err, similarity.ErrNoReference) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, songs)
}
