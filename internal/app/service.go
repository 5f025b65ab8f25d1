// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/okian/melodex/internal/adapters/catalog"
	eventqueue "github.com/okian/melodex/internal/adapters/mq/queue"
	workerpool "github.com/okian/melodex/internal/adapters/mq/worker"
	"github.com/okian/melodex/internal/adapters/repository"
	"github.com/okian/melodex/internal/domain/battle"
	"github.com/okian/melodex/internal/domain/dedupe"
	"github.com/okian/melodex/internal/domain/model"
	"github.com/okian/melodex/internal/domain/recommend"
	"github.com/okian/melodex/internal/domain/similarity"
	"github.com/okian/melodex/internal/domain/stats"
	"github.com/okian/melodex/internal/domain/trivia"
	"github.com/okian/melodex/internal/domain/types"
	"github.com/okian/melodex/pkg/logger"
	"github.com/okian/melodex/pkg/metrics"
)

// Recommendation strategy names accepted by Recommend.
const (
	StrategyDaily    = "daily"
	StrategyRandom   = "random"
	StrategyDiscover = "discover"
	StrategyGenre    = "genre"
	StrategyArtist   = "artist"
	StrategySearch   = "search"
)

const battleRegistrySize = 1024

// ErrUnknownSong reports a rating against a song id the catalog lacks.
var ErrUnknownSong = errors.New("unknown song")

// ErrInvalidScore reports a rating score outside the accepted range.
var ErrInvalidScore = errors.New("invalid score")

// Service implements the API dependencies for the recommendation system.
type Service struct {
	mu sync.RWMutex

	// Core components
	catalog    catalog.Provider
	store      repository.Store
	deduper    dedupe.Deduper
	eventQueue eventqueue.Queue
	workerPool *workerpool.Pool
	selector   *recommend.Selector
	battles    *battle.Registry

	// Randomness shared by battles and trivia. Guarded by rngMu.
	rngMu sync.Mutex
	rng   *rand.Rand

	// Configuration
	workerCount       int
	queueSize         int
	dedupeSize        int
	favoriteThreshold int
	minVotes          int
	minMean           float64
	similarLimit      int
	chartLimit        int
	adminUsers        map[string]bool
	clock             recommend.Clock

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithCatalog sets the song catalog.
func WithCatalog(c catalog.Provider) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithStore sets the profile store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the event queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock sets the day source used by the daily strategy.
func WithClock(clock recommend.Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithRand sets the random source driving battles and trivia; the
// selector is seeded from it at Start.
func WithRand(rng *rand.Rand) Option {
	return func(s *Service) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithFavoriteThreshold sets the score at which a rating counts as an
// implicit favorite.
func WithFavoriteThreshold(threshold int) Option {
	return func(s *Service) {
		if threshold > 0 {
			s.favoriteThreshold = threshold
		}
	}
}

// WithTopRatedThresholds sets the vote and mean gates for the top chart.
func WithTopRatedThresholds(minVotes int, minMean float64) Option {
	return func(s *Service) {
		if minVotes >= 0 {
			s.minVotes = minVotes
		}
		if minMean >= 0 {
			s.minMean = minMean
		}
	}
}

// WithSimilarLimit caps the number of similar songs returned.
// Zero means unlimited.
func WithSimilarLimit(limit int) Option {
	return func(s *Service) {
		if limit >= 0 {
			s.similarLimit = limit
		}
	}
}

// WithChartLimit caps chart and leaderboard lengths. Zero means unlimited.
func WithChartLimit(limit int) Option {
	return func(s *Service) {
		if limit >= 0 {
			s.chartLimit = limit
		}
	}
}

// WithAdminUsers sets the user ids allowed to mutate the catalog.
func WithAdminUsers(users []string) Option {
	return func(s *Service) {
		s.adminUsers = make(map[string]bool, len(users))
		for _, u := range users {
			s.adminUsers[u] = true
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:       runtime.NumCPU() * 2,
		queueSize:         10000,
		dedupeSize:        50000,
		favoriteThreshold: stats.DefaultFavoriteThreshold,
		minVotes:          stats.DefaultMinVotes,
		minMean:           stats.DefaultMinMean,
		similarLimit:      0,
		chartLimit:        0,
		clock:             recommend.SystemClock{},
		stopCh:            make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting recommendation service...")

	if s.catalog == nil {
		s.catalog = catalog.NewMemory()
		s.logger.Info(ctx, "using empty in-memory catalog")
	}
	if s.store == nil {
		s.store = repository.NewMemStore()
		s.logger.Info(ctx, "using in-memory profile store")
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // selection, not crypto
	}
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.eventQueue = eventqueue.NewInMemoryQueue(
		eventqueue.WithCapacity(s.queueSize),
	)
	// The selector serializes its own source internally, so it gets an
	// independent rand seeded from s.rng rather than sharing the one
	// rngMu guards for battles and trivia.
	s.selector = recommend.New(
		recommend.WithClock(s.clock),
		recommend.WithRand(rand.New(rand.NewSource(s.rng.Int63()))), //nolint:gosec // selection, not crypto
	)
	s.battles = battle.NewRegistry(battleRegistrySize)

	s.workerPool = workerpool.NewPool(s.workerCount, s.eventQueue, s)
	s.workerPool.Start(ctx)
	metrics.UpdateWorkerCount(s.workerCount)

	s.started = true
	s.logger.Info(ctx, "recommendation service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping recommendation service...")

	if s.eventQueue != nil {
		_ = s.eventQueue.Close()
	}
	if s.workerPool != nil {
		s.workerPool.Stop()
	}
	if closer, ok := s.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "recommendation service stopped")
}

// SeenAndRecord atomically checks if an event id was seen and records it
// if not. Returns true if the event was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordRatingDuplicate()
	}
	return seen
}

// Unrecord removes an event ID from the seen list, allowing it to be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Enqueue submits a rating event for asynchronous processing.
// Returns false when the queue is full or closed.
func (s *Service) Enqueue(ctx context.Context, e model.RatingEvent) bool {
	ok := s.eventQueue.Enqueue(ctx, e)
	if !ok {
		s.logger.Warn(ctx, "rating event dropped",
			logger.String("eventID", e.EventID),
			logger.String("userID", e.UserID),
		)
	}
	return ok
}

// ApplyRating validates a rating event and writes it to the user's ledger.
// Re-rating a song overwrites the previous score.
func (s *Service) ApplyRating(ctx context.Context, e model.RatingEvent) error {
	if !model.ValidScore(e.Score) {
		metrics.RecordRatingRejected()
		return fmt.Errorf("%w: %d", ErrInvalidScore, e.Score)
	}
	if _, err := s.catalog.Get(ctx, e.SongID); err != nil {
		metrics.RecordRatingRejected()
		return fmt.Errorf("%w: id %d", ErrUnknownSong, e.SongID)
	}
	return s.store.UpdateProfile(ctx, e.UserID, func(p *model.Profile) {
		p.SetRating(e.SongID, e.Score)
	})
}

// Recommend picks a song for userID using the named strategy. The arg
// carries the genre, artist, or keyword for the filter strategies. The
// picked song id is remembered as the user's last recommendation.
func (s *Service) Recommend(ctx context.Context, userID, strategy, arg string) (types.Recommendation, error) {
	songs, err := s.catalog.List(ctx)
	if err != nil {
		return types.Recommendation{}, err
	}
	profile, err := s.store.LoadProfile(ctx, userID)
	if err != nil {
		return types.Recommendation{}, err
	}

	var song model.Song
	switch strings.ToLower(strategy) {
	case StrategyDaily:
		song, err = s.selector.Daily(songs, profile)
	case StrategyRandom, "":
		strategy = StrategyRandom
		song, err = s.selector.Random(songs, profile)
	case StrategyDiscover:
		song, err = s.selector.Discover(songs, profile)
	case StrategyGenre:
		song, err = s.pickFiltered(recommend.ByGenre(songs, profile, arg))
	case StrategyArtist:
		song, err = s.pickFiltered(recommend.ByArtist(songs, profile, arg))
	case StrategySearch:
		song, err = s.pickFiltered(recommend.BySearch(songs, profile, arg))
	default:
		return types.Recommendation{}, fmt.Errorf("%w: %q", recommend.ErrUnknownStrategy, strategy)
	}
	if err != nil {
		return types.Recommendation{}, err
	}

	if uerr := s.store.UpdateProfile(ctx, userID, func(p *model.Profile) {
		p.LastSongID = song.ID
	}); uerr != nil {
		s.logger.Warn(ctx, "failed to remember last recommendation",
			logger.String("userID", userID),
			logger.Error(uerr),
		)
	}

	metrics.RecordRecommendation(strategy)
	return types.Recommendation{Strategy: strings.ToLower(strategy), Song: song}, nil
}

func (s *Service) pickFiltered(matches []model.Song, err error) (model.Song, error) {
	if err != nil {
		return model.Song{}, err
	}
	return s.selector.PickOne(matches)
}

// ListSongs returns catalog songs matching the optional filters, ordered
// by id. Empty filters return the whole catalog.
func (s *Service) ListSongs(ctx context.Context, genre, artist, keyword string) ([]model.Song, error) {
	songs, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Song, 0, len(songs))
	lower := strings.ToLower(keyword)
	for _, song := range songs {
		if genre != "" && !song.GenreEquals(genre) {
			continue
		}
		if artist != "" && !strings.Contains(strings.ToLower(song.Artist), strings.ToLower(artist)) {
			continue
		}
		if keyword != "" &&
			!strings.Contains(strings.ToLower(song.Title), lower) &&
			!strings.Contains(strings.ToLower(song.Artist), lower) {
			continue
		}
		out = append(out, song)
	}
	return out, nil
}

// Similar ranks catalog songs by similarity to the user's last
// recommendation. The reference song itself and blacklisted songs are
// excluded.
func (s *Service) Similar(ctx context.Context, userID string) ([]model.Song, error) {
	profile, err := s.store.LoadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile.LastSongID == 0 {
		return nil, similarity.ErrNoReference
	}
	ref, err := s.catalog.Get(ctx, profile.LastSongID)
	if err != nil {
		return nil, similarity.ErrNoReference
	}
	songs, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	ranked := similarity.Rank(ref, songs, profile.Blacklist)
	if s.similarLimit > 0 && len(ranked) > s.similarLimit {
		ranked = ranked[:s.similarLimit]
	}
	return ranked, nil
}

// ProposeBattle starts a battle between two distinct eligible songs for
// userID. The battle stays open until VoteBattle resolves it.
func (s *Service) ProposeBattle(ctx context.Context, userID string) (types.BattleView, error) {
	songs, err := s.catalog.List(ctx)
	if err != nil {
		return types.BattleView{}, err
	}
	profile, err := s.store.LoadProfile(ctx, userID)
	if err != nil {
		return types.BattleView{}, err
	}
	eligible := recommend.Eligible(songs, profile)

	s.rngMu.Lock()
	b, err := battle.Propose(userID, eligible, s.rng)
	s.rngMu.Unlock()
	if err != nil {
		return types.BattleView{}, err
	}

	s.battles.Add(b)
	metrics.RecordBattleProposed()

	first, second := b.Pair()
	return types.BattleView{ID: b.ID(), First: first, Second: second}, nil
}

// VoteBattle resolves a pending battle in winnerID's favor and records
// the win and loss in the proposing user's ledger.
func (s *Service) VoteBattle(ctx context.Context, battleID string, winnerID int) (types.BattleView, error) {
	b, err := s.battles.Get(battleID)
	if err != nil {
		metrics.RecordBattleVoteError()
		return types.BattleView{}, err
	}
	outcome, err := b.Vote(winnerID)
	if err != nil {
		metrics.RecordBattleVoteError()
		return types.BattleView{}, err
	}

	if uerr := s.store.UpdateProfile(ctx, b.UserID(), func(p *model.Profile) {
		p.RecordWin(outcome.Winner.ID)
		p.RecordLoss(outcome.Loser.ID)
	}); uerr != nil {
		// The tally never reached the ledger, so the vote must stay
		// retryable rather than resolved and uncounted.
		b.Reopen()
		metrics.RecordBattleVoteError()
		return types.BattleView{}, uerr
	}

	metrics.RecordBattleVote()
	return types.BattleView{ID: b.ID(), First: outcome.Winner, Second: outcome.Loser}, nil
}

// BattleLeaderboard aggregates battle tallies across every user and
// returns ranked rows for songs still present in the catalog.
func (s *Service) BattleLeaderboard(ctx context.Context) ([]types.LeaderboardEntry, error) {
	songs, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	profiles, err := s.store.Profiles(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[int]model.Song, len(songs))
	for _, song := range songs {
		index[song.ID] = song
	}

	records := battle.Leaderboard(profiles)
	entries := make([]types.LeaderboardEntry, 0, len(records))
	for _, rec := range records {
		song, ok := index[rec.SongID]
		if !ok {
			continue
		}
		entries = append(entries, types.LeaderboardEntry{
			Rank:    len(entries) + 1,
			Song:    song,
			Wins:    rec.Wins,
			Losses:  rec.Losses,
			WinRate: rec.WinRate(),
		})
	}
	if s.chartLimit > 0 && len(entries) > s.chartLimit {
		entries = entries[:s.chartLimit]
	}
	return entries, nil
}

// Charts returns every rated song ordered by mean score.
func (s *Service) Charts(ctx context.Context) ([]types.ChartEntry, error) {
	songs, profiles, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.chartEntries(stats.Ranked(songs, profiles)), nil
}

// TopRated returns the chart restricted to songs with enough votes and a
// high enough mean.
func (s *Service) TopRated(ctx context.Context) ([]types.ChartEntry, error) {
	songs, profiles, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.chartEntries(stats.TopRated(songs, profiles, s.minVotes, s.minMean)), nil
}

func (s *Service) chartEntries(rated []stats.RatedSong) []types.ChartEntry {
	if s.chartLimit > 0 && len(rated) > s.chartLimit {
		rated = rated[:s.chartLimit]
	}
	entries := make([]types.ChartEntry, len(rated))
	for i, r := range rated {
		entries[i] = types.ChartEntry{
			Rank:  i + 1,
			Song:  r.Song,
			Votes: r.Stats.Votes,
			Mean:  r.Stats.Mean,
		}
	}
	return entries
}

// Favorites returns userID's favorites: explicit marks plus songs rated
// at or above the favorite threshold, ordered by id.
func (s *Service) Favorites(ctx context.Context, userID string) ([]model.Song, error) {
	songs, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	profile, err := s.store.LoadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return stats.FavoritesOf(profile, songs, s.favoriteThreshold), nil
}

// RatingsOf returns userID's ratings ordered by score, highest first.
func (s *Service) RatingsOf(ctx context.Context, userID string) ([]types.UserRating, error) {
	songs, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	profile, err := s.store.LoadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	rated := stats.RatingsOf(profile, songs)
	out := make([]types.UserRating, len(rated))
	for i, r := range rated {
		out[i] = types.UserRating{Song: r.Song, Score: r.Score}
	}
	return out, nil
}

// MarkFavorite adds songID to userID's explicit favorites.
// Returns false if it was already marked.
func (s *Service) MarkFavorite(ctx context.Context, userID string, songID int) (bool, error) {
	if _, err := s.catalog.Get(ctx, songID); err != nil {
		return false, err
	}
	var added bool
	err := s.store.UpdateProfile(ctx, userID, func(p *model.Profile) {
		added = p.AddFavorite(songID)
	})
	return added, err
}

// Blacklist hides songID from userID's future selections.
// Returns false if it was already blacklisted.
func (s *Service) Blacklist(ctx context.Context, userID string, songID int) (bool, error) {
	if _, err := s.catalog.Get(ctx, songID); err != nil {
		return false, err
	}
	var added bool
	err := s.store.UpdateProfile(ctx, userID, func(p *model.Profile) {
		added = p.AddBlacklist(songID)
	})
	return added, err
}

// Unblacklist removes songID from userID's blacklist.
// Returns false if it was not blacklisted.
func (s *Service) Unblacklist(ctx context.Context, userID string, songID int) (bool, error) {
	var removed bool
	err := s.store.UpdateProfile(ctx, userID, func(p *model.Profile) {
		removed = p.RemoveBlacklist(songID)
	})
	return removed, err
}

// Trivia generates a multiple-choice question from the catalog.
func (s *Service) Trivia(ctx context.Context) (trivia.Question, error) {
	songs, err := s.catalog.List(ctx)
	if err != nil {
		return trivia.Question{}, err
	}
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return trivia.Generate(songs, s.rng)
}

// IsAdmin reports whether userID may mutate the catalog.
func (s *Service) IsAdmin(userID string) bool {
	return userID != "" && s.adminUsers[userID]
}

// AddSong inserts a song into the catalog and returns it with its
// assigned id. Fails when the catalog backend is read-only.
func (s *Service) AddSong(ctx context.Context, song model.Song) (model.Song, error) {
	mut, ok := s.catalog.(catalog.Mutator)
	if !ok {
		return model.Song{}, catalog.ErrReadOnly
	}
	added, err := mut.Add(ctx, song)
	if err != nil {
		return model.Song{}, err
	}
	if songs, lerr := s.catalog.List(ctx); lerr == nil {
		metrics.UpdateCatalogSize(len(songs))
	}
	return added, nil
}

// RemoveSong deletes a song from the catalog.
func (s *Service) RemoveSong(ctx context.Context, songID int) error {
	mut, ok := s.catalog.(catalog.Mutator)
	if !ok {
		return catalog.ErrReadOnly
	}
	if err := mut.Remove(ctx, songID); err != nil {
		return err
	}
	if songs, lerr := s.catalog.List(ctx); lerr == nil {
		metrics.UpdateCatalogSize(len(songs))
	}
	return nil
}

// ReloadCatalog re-reads the catalog from its backing source. Fails when
// the catalog has no external source to reload from.
func (s *Service) ReloadCatalog(ctx context.Context) error {
	rel, ok := s.catalog.(catalog.Reloader)
	if !ok {
		return catalog.ErrNotReloadable
	}
	if err := rel.Reload(ctx); err != nil {
		return err
	}
	if songs, lerr := s.catalog.List(ctx); lerr == nil {
		metrics.UpdateCatalogSize(len(songs))
		s.logger.Info(ctx, "catalog reloaded", logger.Int("songs", len(songs)))
	}
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	out := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		queueLen := s.eventQueue.Len(ctx)
		profileCount := s.store.Count(ctx)

		out["queueLength"] = queueLen
		out["profiles"] = profileCount
		out["pendingBattles"] = s.battles.Len()
		if songs, err := s.catalog.List(ctx); err == nil {
			out["catalogSize"] = len(songs)
			metrics.UpdateCatalogSize(len(songs))
		}

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateProfileCount(profileCount)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return out
}

func (s *Service) snapshot(ctx context.Context) ([]model.Song, []model.Profile, error) {
	songs, err := s.catalog.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	profiles, err := s.store.Profiles(ctx)
	if err != nil {
		return nil, nil, err
	}
	return songs, profiles, nil
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}
