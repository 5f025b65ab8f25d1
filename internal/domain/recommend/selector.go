// Package recommend implements the selection strategies: the
// deterministic daily pick, uniform random, personalized discovery, and
// the genre/artist/title filters.
//
// Every strategy works on the user's eligible set (catalog minus
// blacklist) and returns the chosen song; the caller owns the side
// effect of updating the profile's last-recommended pointer.
package recommend

import (
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/okian/melodex/internal/domain/model"
)

// Selector picks songs for a user. Safe for concurrent use; the random
// source is serialized internally.
type Selector struct {
	mu    sync.Mutex
	clock Clock
	rng   *rand.Rand
}

// New constructs a Selector with the system clock and a time-seeded
// random source unless options override them.
func New(opts ...Option) *Selector {
	s := &Selector{
		clock: SystemClock{},
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // selection does not need crypto randomness
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Eligible returns the catalog songs not blacklisted by the profile.
func Eligible(songs []model.Song, p model.Profile) []model.Song {
	out := make([]model.Song, 0, len(songs))
	for _, s := range songs {
		if !p.IsBlacklisted(s.ID) {
			out = append(out, s)
		}
	}
	return out
}

// Daily returns the deterministic pick for the current day: the eligible
// set sorted by id, indexed by the day ordinal modulo its size. The same
// day and the same eligible set always yield the same song.
func (s *Selector) Daily(songs []model.Song, p model.Profile) (model.Song, error) {
	eligible := Eligible(songs, p)
	if len(eligible) == 0 {
		return model.Song{}, ErrNoEligible
	}
	sort.Slice(eligible, func(i, j int) bool { return eligible[i].ID < eligible[j].ID })
	idx := s.clock.Today() % len(eligible)
	if idx < 0 {
		idx += len(eligible)
	}
	return eligible[idx], nil
}

// Random returns a uniformly random eligible song.
func (s *Selector) Random(songs []model.Song, p model.Profile) (model.Song, error) {
	eligible := Eligible(songs, p)
	if len(eligible) == 0 {
		return model.Song{}, ErrNoEligible
	}
	return s.pick(eligible), nil
}

// Discover returns a personalized pick. Each genre and artist carries the
// accumulated rating scores of the user's rated songs; an eligible song
// scores the sum of its genre and artist weights, and the winner is drawn
// uniformly from the top-scoring tier. A user without ratings gets a
// uniform random pick.
func (s *Selector) Discover(songs []model.Song, p model.Profile) (model.Song, error) {
	eligible := Eligible(songs, p)
	if len(eligible) == 0 {
		return model.Song{}, ErrNoEligible
	}
	if len(p.Ratings) == 0 {
		return s.pick(eligible), nil
	}

	byID := make(map[int]model.Song, len(songs))
	for _, song := range songs {
		byID[song.ID] = song
	}

	genreWeight := make(map[string]int)
	artistWeight := make(map[string]int)
	for songID, score := range p.Ratings {
		rated, ok := byID[songID]
		if !ok {
			continue
		}
		if g := strings.ToLower(rated.Genre); g != "" {
			genreWeight[g] += score
		}
		if a := strings.ToLower(rated.Artist); a != "" {
			artistWeight[a] += score
		}
	}

	best := -1
	var tier []model.Song
	for _, song := range eligible {
		score := genreWeight[strings.ToLower(song.Genre)] + artistWeight[strings.ToLower(song.Artist)]
		switch {
		case score > best:
			best = score
			tier = tier[:0]
			tier = append(tier, song)
		case score == best:
			tier = append(tier, song)
		}
	}
	return s.pick(tier), nil
}

// ByGenre returns the eligible songs whose genre matches tag exactly,
// case-insensitively.
func ByGenre(songs []model.Song, p model.Profile, tag string) ([]model.Song, error) {
	return filter(songs, p, func(song model.Song) bool {
		return song.GenreEquals(tag)
	})
}

// ByArtist returns the eligible songs whose artist contains the query,
// case-insensitively.
func ByArtist(songs []model.Song, p model.Profile, query string) ([]model.Song, error) {
	q := strings.ToLower(query)
	return filter(songs, p, func(song model.Song) bool {
		return strings.Contains(strings.ToLower(song.Artist), q)
	})
}

// BySearch returns the eligible songs whose title contains the keyword,
// case-insensitively.
func BySearch(songs []model.Song, p model.Profile, keyword string) ([]model.Song, error) {
	q := strings.ToLower(keyword)
	return filter(songs, p, func(song model.Song) bool {
		return strings.Contains(strings.ToLower(song.Title), q)
	})
}

// PickOne draws a uniformly random song from a non-empty filtered set.
func (s *Selector) PickOne(songs []model.Song) (model.Song, error) {
	if len(songs) == 0 {
		return model.Song{}, ErrNoMatch
	}
	return s.pick(songs), nil
}

func filter(songs []model.Song, p model.Profile, keep func(model.Song) bool) ([]model.Song, error) {
	eligible := Eligible(songs, p)
	if len(eligible) == 0 {
		return nil, ErrNoEligible
	}
	out := eligible[:0:0]
	for _, song := range eligible {
		if keep(song) {
			out = append(out, song)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoMatch
	}
	return out, nil
}

func (s *Selector) pick(songs []model.Song) model.Song {
	s.mu.Lock()
	defer s.mu.Unlock()
	return songs[s.rng.Intn(len(songs))]
}
