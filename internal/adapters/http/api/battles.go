package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/okian/melodex/internal/domain/battle"
	"github.com/okian/melodex/internal/domain/types"
)

// BattleDependencies defines the interface for battle operations.
type BattleDependencies interface {
	ProposeBattle(ctx context.Context, userID string) (types.BattleView, error)
	VoteBattle(ctx context.Context, battleID string, winnerID int) (types.BattleView, error)
	BattleLeaderboard(ctx context.Context) ([]types.LeaderboardEntry, error)
}

// BattlesHandler handles battle requests.
type BattlesHandler struct {
	deps BattleDependencies
}

// NewBattlesHandler creates a new battles handler.
func NewBattlesHandler(deps BattleDependencies) *BattlesHandler {
	return &BattlesHandler{deps: deps}
}

// HandlePostBattle handles POST /battles?user= requests.
func (h *BattlesHandler) HandlePostBattle(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_battle"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	user := userID(r)
	if user == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrMissingUser))
		return
	}
	view, err := h.deps.ProposeBattle(r.Context(), user)
	if err != nil {
		if errors.Is(err, battle.ErrInsufficientCandidates) {
			writeError(w, http.StatusConflict, "not_enough_songs", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// voteRequest mirrors the request schema for POST /battles/{id}/vote.
type voteRequest struct {
	WinnerID int `json:"winner_id"`
}

// HandlePostVote handles POST /battles/{id}/vote requests.
func (h *BattlesHandler) HandlePostVote(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_vote"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/battles/")
	battleID, ok := strings.CutSuffix(path, "/vote")
	if !ok || battleID == "" || strings.Contains(battleID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	view, err := h.deps.VoteBattle(r.Context(), battleID, req.WinnerID)
	if err != nil {
		switch {
		case errors.Is(err, battle.ErrNotFound):
			writeError(w, http.StatusNotFound, "not_found", err)
		case errors.Is(err, battle.ErrInvalidVote):
			writeError(w, http.StatusBadRequest, "invalid_vote", err)
		case errors.Is(err, battle.ErrAlreadyResolved):
			writeError(w, http.StatusConflict, "already_resolved", err)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		}
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleGetLeaderboard handles GET /battles/leaderboard requests.
func (h *BattlesHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_battle_leaderboard"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	entries, err := h.deps.BattleLeaderboard(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
