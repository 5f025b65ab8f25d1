package recommend

import "errors"

// Sentinel kinds for selection errors.
var (
	// ErrNoEligible means the user has blacklisted the whole catalog.
	ErrNoEligible = errors.New("no eligible songs")
	// ErrNoMatch means a genre/artist/title filter produced an empty set.
	ErrNoMatch = errors.New("no songs match the filter")
	// ErrUnknownStrategy means the caller named a strategy that does not exist.
	ErrUnknownStrategy = errors.New("unknown strategy")
)
