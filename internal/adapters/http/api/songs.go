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
)

// SongDependencies defines the interface for catalog reads and admin writes.
type SongDependencies interface {
	ListSongs(ctx context.Context, genre, artist, keyword string) ([]model.Song, error)
	IsAdmin(userID string) bool
	AddSong(ctx context.Context, song model.Song) (model.Song, error)
	RemoveSong(ctx context.Context, songID int) error
	ReloadCatalog(ctx context.Context) error
}

// SongsHandler handles catalog requests.
type SongsHandler struct {
	deps SongDependencies
}

// NewSongsHandler creates a new songs handler.
func NewSongsHandler(deps SongDependencies) *SongsHandler {
	return &SongsHandler{deps: deps}
}

// songRequest mirrors the request schema for POST /songs.
type songRequest struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	URL    string `json:"url"`
	Genre  string `json:"genre"`
	Year   int    `json:"year"`
}

func (s songRequest) validate() error {
	switch {
	case strings.TrimSpace(s.Title) == "":
		return errors.New("missing title")
	case strings.TrimSpace(s.Artist) == "":
		return errors.New("missing artist")
	}
	return nil
}

// HandleSongs handles GET /songs?genre=&artist=&q= and admin POST /songs.
func (h *SongsHandler) HandleSongs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleList(w, r)
	case http.MethodPost:
		h.handleAdd(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *SongsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_songs"
	q := r.URL.Query()
	songs, err := h.deps.ListSongs(r.Context(), q.Get("genre"), q.Get("artist"), q.Get("q"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

func (h *SongsHandler) handleAdd(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_song"
	if !h.deps.IsAdmin(userID(r)) {
		writeError(w, http.StatusForbidden, "forbidden", NewKind(op, ErrForbidden))
		return
	}
	var req songRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	song, err := h.deps.AddSong(r.Context(), model.Song{
		Title:  req.Title,
		Artist: req.Artist,
		URL:    req.URL,
		Genre:  req.Genre,
		Year:   req.Year,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, song)
}

// HandleReload handles admin POST /songs/reload, re-reading the catalog
// from its backing file.
func (h *SongsHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	const op = "api.reload_catalog"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if !h.deps.IsAdmin(userID(r)) {
		writeError(w, http.StatusForbidden, "forbidden", NewKind(op, ErrForbidden))
		return
	}
	if err := h.deps.ReloadCatalog(r.Context()); err != nil {
		if errors.Is(err, catalog.ErrNotReloadable) {
			writeError(w, http.StatusConflict, "not_reloadable", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reloaded"})
}

// HandleSongByID handles admin DELETE /songs/{id}.
func (h *SongsHandler) HandleSongByID(w http.ResponseWriter, r *http.Request) {
	const op = "api.remove_song"
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	if !h.deps.IsAdmin(userID(r)) {
		writeError(w, http.StatusForbidden, "forbidden", NewKind(op, ErrForbidden))
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/songs/")
	id, err := strconv.Atoi(path)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if err := h.deps.RemoveSong(r.Context(), id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
