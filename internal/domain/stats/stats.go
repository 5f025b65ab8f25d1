// Package stats aggregates ratings into per-song statistics and charts.
//
// Everything here is a pure function of the current profiles: nothing is
// cached or persisted, and empty input yields empty output rather than an
// error.
package stats

import (
	"sort"

	"github.com/okian/melodex/internal/domain/model"
)

// Default chart thresholds.
const (
	DefaultMinVotes          = 2
	DefaultMinMean           = 7.0
	DefaultFavoriteThreshold = 8
)

// SongStats captures the aggregate rating state of one song.
type SongStats struct {
	SongID int
	Votes  int
	Mean   float64
}

// RatedSong pairs a catalog song with its aggregate stats.
type RatedSong struct {
	Song  model.Song
	Stats SongStats
}

// Compute derives per-song statistics from every profile's ratings.
// Songs with no ratings are omitted. Means are not rounded; presentation
// decides precision.
func Compute(songs []model.Song, profiles []model.Profile) map[int]SongStats {
	known := make(map[int]bool, len(songs))
	for _, s := range songs {
		known[s.ID] = true
	}

	sums := make(map[int]int)
	counts := make(map[int]int)
	for _, p := range profiles {
		for songID, score := range p.Ratings {
			if !known[songID] {
				continue
			}
			sums[songID] += score
			counts[songID]++
		}
	}

	out := make(map[int]SongStats, len(counts))
	for songID, n := range counts {
		out[songID] = SongStats{
			SongID: songID,
			Votes:  n,
			Mean:   float64(sums[songID]) / float64(n),
		}
	}
	return out
}

// Ranked returns every rated song ordered by mean desc, votes desc, then
// song id asc.
func Ranked(songs []model.Song, profiles []model.Profile) []RatedSong {
	byID := songIndex(songs)
	computed := Compute(songs, profiles)

	out := make([]RatedSong, 0, len(computed))
	for songID, st := range computed {
		out = append(out, RatedSong{Song: byID[songID], Stats: st})
	}
	sortRated(out)
	return out
}

// TopRated filters the chart down to songs with at least minVotes votes
// and a mean of at least minMean. An empty result is a normal outcome,
// not an error.
func TopRated(songs []model.Song, profiles []model.Profile, minVotes int, minMean float64) []RatedSong {
	ranked := Ranked(songs, profiles)
	out := ranked[:0:0]
	for _, r := range ranked {
		if r.Stats.Votes >= minVotes && r.Stats.Mean >= minMean {
			out = append(out, r)
		}
	}
	return out
}

// FavoritesOf returns the union of a user's explicit favorites and the
// songs they rated at or above threshold, ordered by song id.
//
// The blacklist is deliberately not applied here: a user may keep a song
// out of recommendations and still see it among past favorites.
func FavoritesOf(p model.Profile, songs []model.Song, threshold int) []model.Song {
	ids := make(map[int]bool, len(p.Favorites))
	for songID := range p.Favorites {
		ids[songID] = true
	}
	for songID, score := range p.Ratings {
		if score >= threshold {
			ids[songID] = true
		}
	}

	out := make([]model.Song, 0, len(ids))
	for _, s := range songs {
		if ids[s.ID] {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// UserRating pairs a song with the score one user gave it.
type UserRating struct {
	Song  model.Song
	Score int
}

// RatingsOf returns the user's own rated songs, highest score first and
// song id ascending within equal scores.
func RatingsOf(p model.Profile, songs []model.Song) []UserRating {
	out := make([]UserRating, 0, len(p.Ratings))
	for _, s := range songs {
		if score, ok := p.Ratings[s.ID]; ok {
			out = append(out, UserRating{Song: s, Score: score})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Song.ID < out[j].Song.ID
	})
	return out
}

func songIndex(songs []model.Song) map[int]model.Song {
	byID := make(map[int]model.Song, len(songs))
	for _, s := range songs {
		byID[s.ID] = s
	}
	return byID
}

func sortRated(entries []RatedSong) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i].Stats, entries[j].Stats
		if a.Mean != b.Mean {
			return a.Mean > b.Mean
		}
		if a.Votes != b.Votes {
			return a.Votes > b.Votes
		}
		return a.SongID < b.SongID
	})
}
