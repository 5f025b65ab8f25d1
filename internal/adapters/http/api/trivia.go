package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/melodex/internal/domain/trivia"
)

// TriviaDependencies defines the interface for quiz generation.
type TriviaDependencies interface {
	Trivia(ctx context.Context) (trivia.Question, error)
}

// TriviaHandler handles quiz requests.
type TriviaHandler struct {
	deps TriviaDependencies
}

// NewTriviaHandler creates a new trivia handler.
func NewTriviaHandler(deps TriviaDependencies) *TriviaHandler {
	return &TriviaHandler{deps: deps}
}

// HandleGetTrivia handles GET /trivia requests.
func (h *TriviaHandler) HandleGetTrivia(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_trivia"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q, err := h.deps.Trivia(r.Context())
	if err != nil {
		if errors.Is(err, trivia.ErrNotEnoughSongs) {
			writeError(w, http.StatusConflict, "not_enough_songs", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, q)
}
