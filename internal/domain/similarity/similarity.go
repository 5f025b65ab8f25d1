// Package similarity scores catalog songs against a reference song.
package similarity

import (
	"errors"
	"sort"

	"github.com/okian/melodex/internal/domain/model"
)

// ErrNoReference means the user has no last-recommended song to compare
// against.
var ErrNoReference = errors.New("no reference song")

// Match weights. A shared artist signals similarity more strongly than a
// shared genre; both are additive.
const (
	genreWeight  = 1
	artistWeight = 2
)

// Score returns the similarity weight between a candidate and the
// reference song.
func Score(ref, candidate model.Song) int {
	score := 0
	if ref.Genre != "" && candidate.GenreEquals(ref.Genre) {
		score += genreWeight
	}
	if ref.Artist != "" && candidate.ArtistEquals(ref.Artist) {
		score += artistWeight
	}
	return score
}

// Rank returns catalog songs similar to ref, best match first. The
// reference itself and blacklisted songs are excluded; candidates with no
// genre or artist overlap are dropped. Ties break on ascending song id.
// An empty result means no similar songs exist; it is not an error.
func Rank(ref model.Song, songs []model.Song, blacklist map[int]bool) []model.Song {
	type scored struct {
		song  model.Song
		score int
	}
	candidates := make([]scored, 0, len(songs))
	for _, song := range songs {
		if song.ID == ref.ID || blacklist[song.ID] {
			continue
		}
		if w := Score(ref, song); w > 0 {
			candidates = append(candidates, scored{song: song, score: w})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].song.ID < candidates[j].song.ID
	})

	out := make([]model.Song, len(candidates))
	for i, c := range candidates {
		out[i] = c.song
	}
	return out
}
