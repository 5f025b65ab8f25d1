// Package catalog provides the song catalog the engine reads from.
package catalog

import (
	"context"

	"github.com/okian/melodex/internal/domain/model"
)

// Provider exposes read access to the catalog. The engine never mutates
// songs through this interface.
type Provider interface {
	// List returns all songs, ordered by id.
	List(ctx context.Context) ([]model.Song, error)

	// Get returns the song with the given id.
	// Returns ErrNotFound if the id is unknown.
	Get(ctx context.Context, id int) (model.Song, error)
}

// Reloader is the optional surface for re-reading the catalog from its
// backing source, picking up edits made outside the engine.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Mutator is the optional admin surface for adding and removing songs.
// Implemented by catalogs backed by an editable source.
type Mutator interface {
	// Add inserts a song, assigning the next free id, and returns it.
	Add(ctx context.Context, song model.Song) (model.Song, error)

	// Remove deletes the song with the given id.
	// Returns ErrNotFound if the id is unknown.
	Remove(ctx context.Context, id int) error
}
