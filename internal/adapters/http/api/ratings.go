package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/okian/melodex/internal/domain/dedupe"
	"github.com/okian/melodex/internal/domain/model"
)

// RatingDependencies defines the interface for rating ingestion.
type RatingDependencies interface {
	dedupe.Deduper
	Enqueue(ctx context.Context, e model.RatingEvent) bool
}

// RatingsHandler handles rating submissions.
type RatingsHandler struct {
	deps RatingDependencies
}

// NewRatingsHandler creates a new ratings handler.
func NewRatingsHandler(deps RatingDependencies) *RatingsHandler {
	return &RatingsHandler{deps: deps}
}

// ratingRequest mirrors the request schema for POST /ratings.
type ratingRequest struct {
	EventID string `json:"event_id"`
	UserID  string `json:"user_id"`
	SongID  int    `json:"song_id"`
	Score   int    `json:"score"`
	TS      string `json:"ts"`
}

func (e ratingRequest) validate() error {
	switch {
	case strings.TrimSpace(e.EventID) == "":
		return errors.New("missing event_id")
	case strings.TrimSpace(e.UserID) == "":
		return errors.New("missing user_id")
	case e.SongID <= 0:
		return errors.New("missing song_id")
	case !model.ValidScore(e.Score):
		return errors.New("score must be between 1 and 10")
	case strings.TrimSpace(e.TS) == "":
		return errors.New("missing ts")
	}
	if _, err := time.Parse(time.RFC3339, e.TS); err != nil {
		return errors.New("invalid ts; must be RFC3339")
	}
	return nil
}

// HandlePostRating handles POST /ratings requests.
func (h *RatingsHandler) HandlePostRating(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_rating"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req ratingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	// Idempotency check - mark as seen first
	if h.deps.SeenAndRecord(r.Context(), req.EventID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}

	ts, _ := time.Parse(time.RFC3339, req.TS)
	event := model.RatingEvent{
		EventID: req.EventID,
		UserID:  req.UserID,
		SongID:  req.SongID,
		Score:   req.Score,
		TS:      ts,
	}
	if ok := h.deps.Enqueue(r.Context(), event); !ok {
		// Rollback the "seen" status since enqueue failed
		h.deps.Unrecord(r.Context(), req.EventID)
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
}
