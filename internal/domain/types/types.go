// Package types contains common types used across the application
package types

import "github.com/okian/melodex/internal/domain/model"

// Recommendation is the read shape returned by selection endpoints.
type Recommendation struct {
	Strategy string     `json:"strategy"`
	Song     model.Song `json:"song"`
}

// ChartEntry is one row of the rating charts.
type ChartEntry struct {
	Rank  int        `json:"rank"`
	Song  model.Song `json:"song"`
	Votes int        `json:"votes"`
	Mean  float64    `json:"mean"`
}

// LeaderboardEntry is one row of the battle leaderboard.
type LeaderboardEntry struct {
	Rank    int        `json:"rank"`
	Song    model.Song `json:"song"`
	Wins    int        `json:"wins"`
	Losses  int        `json:"losses"`
	WinRate float64    `json:"win_rate"`
}

// UserRating pairs a song with the score one user gave it.
type UserRating struct {
	Song  model.Song `json:"song"`
	Score int        `json:"score"`
}

// BattleView mirrors a proposed battle awaiting its vote.
type BattleView struct {
	ID     string     `json:"id"`
	First  model.Song `json:"first"`
	Second model.Song `json:"second"`
}
