// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/okian/melodex/internal/domain/dedupe"
	"github.com/okian/melodex/internal/domain/model"
	"github.com/okian/melodex/internal/domain/trivia"
	"github.com/okian/melodex/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Enqueue pushes a rating event for async processing.
	// Returns false on backpressure.
	Enqueue(ctx context.Context, e model.RatingEvent) bool

	// Selection and catalog reads.
	Recommend(ctx context.Context, userID, strategy, arg string) (types.Recommendation, error)
	ListSongs(ctx context.Context, genre, artist, keyword string) ([]model.Song, error)
	Similar(ctx context.Context, userID string) ([]model.Song, error)

	// Battles.
	ProposeBattle(ctx context.Context, userID string) (types.BattleView, error)
	VoteBattle(ctx context.Context, battleID string, winnerID int) (types.BattleView, error)
	BattleLeaderboard(ctx context.Context) ([]types.LeaderboardEntry, error)

	// Charts.
	Charts(ctx context.Context) ([]types.ChartEntry, error)
	TopRated(ctx context.Context) ([]types.ChartEntry, error)

	// Per-user ledger reads and writes.
	Favorites(ctx context.Context, userID string) ([]model.Song, error)
	RatingsOf(ctx context.Context, userID string) ([]types.UserRating, error)
	MarkFavorite(ctx context.Context, userID string, songID int) (bool, error)
	Blacklist(ctx context.Context, userID string, songID int) (bool, error)
	Unblacklist(ctx context.Context, userID string, songID int) (bool, error)

	// Trivia.
	Trivia(ctx context.Context) (trivia.Question, error)

	// Catalog administration.
	IsAdmin(userID string) bool
	AddSong(ctx context.Context, song model.Song) (model.Song, error)
	RemoveSong(ctx context.Context, songID int) error
	ReloadCatalog(ctx context.Context) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	ratingsHandler  *RatingsHandler
	recoHandler     *RecommendationHandler
	songsHandler    *SongsHandler
	similarHandler  *SimilarHandler
	battlesHandler  *BattlesHandler
	chartsHandler   *ChartsHandler
	profilesHandler *ProfilesHandler
	triviaHandler   *TriviaHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		ratingsHandler:  NewRatingsHandler(deps),
		recoHandler:     NewRecommendationHandler(deps),
		songsHandler:    NewSongsHandler(deps),
		similarHandler:  NewSimilarHandler(deps),
		battlesHandler:  NewBattlesHandler(deps),
		chartsHandler:   NewChartsHandler(deps),
		profilesHandler: NewProfilesHandler(deps),
		triviaHandler:   NewTriviaHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/ratings", MetricsMiddleware(s.ratingsHandler.HandlePostRating, "ratings"))
	mux.HandleFunc("/recommendation", MetricsMiddleware(s.recoHandler.HandleGetRecommendation, "recommendation"))
	mux.HandleFunc("/songs", MetricsMiddleware(s.songsHandler.HandleSongs, "songs"))
	mux.HandleFunc("/songs/reload", MetricsMiddleware(s.songsHandler.HandleReload, "songs_reload"))
	mux.HandleFunc("/songs/", MetricsMiddleware(s.songsHandler.HandleSongByID, "songs"))
	mux.HandleFunc("/similar", MetricsMiddleware(s.similarHandler.HandleGetSimilar, "similar"))
	mux.HandleFunc("/battles", MetricsMiddleware(s.battlesHandler.HandlePostBattle, "battles"))
	mux.HandleFunc("/battles/leaderboard", MetricsMiddleware(s.battlesHandler.HandleGetLeaderboard, "battles_leaderboard"))
	mux.HandleFunc("/battles/", MetricsMiddleware(s.battlesHandler.HandlePostVote, "battles_vote"))
	mux.HandleFunc("/charts", MetricsMiddleware(s.chartsHandler.HandleGetCharts, "charts"))
	mux.HandleFunc("/charts/top", MetricsMiddleware(s.chartsHandler.HandleGetTopRated, "charts_top"))
	mux.HandleFunc("/profiles/", MetricsMiddleware(s.profilesHandler.HandleProfile, "profiles"))
	mux.HandleFunc("/trivia", MetricsMiddleware(s.triviaHandler.HandleGetTrivia, "trivia"))
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// userID pulls the acting user from the query string, falling back to the
// X-User-ID header.
func userID(r *http.Request) string {
	if u := strings.TrimSpace(r.URL.Query().Get("user")); u != "" {
		return u
	}
	return strings.TrimSpace(r.Header.Get("X-User-ID"))
}
