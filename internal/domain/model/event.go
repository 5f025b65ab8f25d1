package model

import "time"

// RatingEvent is a rating submission flowing through the ingestion
// queue. EventID makes resubmissions idempotent.
type RatingEvent struct {
	EventID string    // unique id for idempotency
	UserID  string    // voting user
	SongID  int       // rated song
	Score   int       // 1..10
	TS      time.Time // submission timestamp
}

// Rating score bounds.
const (
	MinScore = 1
	MaxScore = 10
)

// ValidScore reports whether a score is within the 1..10 rating scale.
func ValidScore(score int) bool {
	return score >= MinScore && score <= MaxScore
}
