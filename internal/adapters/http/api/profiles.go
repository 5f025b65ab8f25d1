package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/okian/melodex/internal/adapters/catalog"
	"github.com/okian/melodex/internal/domain/model"
	"github.com/okian/melodex/internal/domain/types"
)

// ProfileDependencies defines the interface for per-user ledger access.
type ProfileDependencies interface {
	Favorites(ctx context.Context, userID string) ([]model.Song, error)
	RatingsOf(ctx context.Context, userID string) ([]types.UserRating, error)
	MarkFavorite(ctx context.Context, userID string, songID int) (bool, error)
	Blacklist(ctx context.Context, userID string, songID int) (bool, error)
	Unblacklist(ctx context.Context, userID string, songID int) (bool, error)
}

// ProfilesHandler handles per-user profile requests.
type ProfilesHandler struct {
	deps ProfileDependencies
}

// NewProfilesHandler creates a new profiles handler.
func NewProfilesHandler(deps ProfileDependencies) *ProfilesHandler {
	return &ProfilesHandler{deps: deps}
}

// favoriteRequest mirrors the request schema for POST /profiles/{user}/favorite.
type favoriteRequest struct {
	SongID int `json:"song_id"`
}

type changeResponse struct {
	Status  string `json:"status"`
	Changed bool   `json:"changed"`
}

// HandleProfile dispatches requests under /profiles/{user}/...
//
// Routes:
//
//	GET    /profiles/{user}/favorites
//	GET    /profiles/{user}/ratings
//	POST   /profiles/{user}/favorite
//	POST   /profiles/{user}/blacklist/{songID}
//	DELETE /profiles/{user}/blacklist/{songID}
func (h *ProfilesHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	const op = "api.profile"
	rest := strings.TrimPrefix(r.URL.Path, "/profiles/")
	user, action, found := strings.Cut(rest, "/")
	if !found || user == "" || action == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	switch {
	case action == "favorites" && r.Method == http.MethodGet:
		h.handleFavorites(w, r, user)
	case action == "ratings" && r.Method == http.MethodGet:
		h.handleRatings(w, r, user)
	case action == "favorite" && r.Method == http.MethodPost:
		h.handleMarkFavorite(w, r, user)
	case strings.HasPrefix(action, "blacklist/"):
		h.handleBlacklist(w, r, user, strings.TrimPrefix(action, "blacklist/"))
	default:
		http.NotFound(w, r)
	}
}

func (h *ProfilesHandler) handleFavorites(w http.ResponseWriter, r *http.Request, user string) {
	const op = "api.get_favorites"
	songs, err := h.deps.Favorites(r.Context(), user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

func (h *ProfilesHandler) handleRatings(w http.ResponseWriter, r *http.Request, user string) {
	const op = "api.get_ratings"
	ratings, err := h.deps.RatingsOf(r.Context(), user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, ratings)
}

func (h *ProfilesHandler) handleMarkFavorite(w http.ResponseWriter, r *http.Request, user string) {
	const op = "api.mark_favorite"
	var req favoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.SongID < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	added, err := h.deps.MarkFavorite(r.Context(), user, req.SongID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, changeResponse{Status: "favorite", Changed: added})
}

func (h *ProfilesHandler) handleBlacklist(w http.ResponseWriter, r *http.Request, user, idPart string) {
	const op = "api.blacklist"
	id, err := strconv.Atoi(idPart)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	var changed bool
	var status string
	switch r.Method {
	case http.MethodPost:
		status = "blacklisted"
		changed, err = h.deps.Blacklist(r.Context(), user, id)
	case http.MethodDelete:
		status = "unblacklisted"
		changed, err = h.deps.Unblacklist(r.Context(), user, id)
	default:
		http.NotFound(w, r)
		return
	}
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, changeResponse{Status: status, Changed: changed})
}
