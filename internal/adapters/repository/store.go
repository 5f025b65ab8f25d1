// Package repository defines the user ledger store interface and errors.
package repository

import (
	"context"

	"github.com/okian/melodex/internal/domain/model"
)

// Store provides read/write access to user profiles. The store is the
// serialization point for profile mutations: UpdateProfile applies its
// closure atomically per user, so concurrent writers to the same profile
// never clobber each other's fields.
type Store interface {
	// LoadProfile returns the profile for userID, or an empty default
	// profile if none exists. A missing profile is never an error;
	// failures of the backing medium wrap ErrPersistence.
	LoadProfile(ctx context.Context, userID string) (model.Profile, error)

	// SaveProfile stores a full profile for userID, replacing any prior
	// state.
	SaveProfile(ctx context.Context, userID string, p model.Profile) error

	// UpdateProfile loads the profile, applies fn, and stores the result
	// as one atomic step.
	UpdateProfile(ctx context.Context, userID string, fn func(*model.Profile)) error

	// Profiles returns a snapshot of every stored profile, for
	// cross-user aggregation.
	Profiles(ctx context.Context) ([]model.Profile, error)

	// Count returns the number of stored profiles.
	Count(ctx context.Context) int
}
