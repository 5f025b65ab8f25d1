package battle

import "errors"

// Sentinel kinds for battle protocol errors.
var (
	// ErrInsufficientCandidates means fewer than two eligible songs exist.
	ErrInsufficientCandidates = errors.New("not enough songs for a battle")
	// ErrInvalidVote means the vote named a song outside the proposed pair.
	ErrInvalidVote = errors.New("vote is not for a song in this battle")
	// ErrAlreadyResolved means the battle already received its vote.
	ErrAlreadyResolved = errors.New("battle already resolved")
	// ErrNotFound means the battle id is unknown.
	ErrNotFound = errors.New("battle not found")
)
