package repository

import "errors"

// Sentinel kinds for ledger store errors.
var (
	// ErrPersistence wraps failures of the backing storage medium. The
	// engine performs no retries; callers decide retry policy.
	ErrPersistence = errors.New("ledger store failure")
)
