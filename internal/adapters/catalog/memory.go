package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/okian/melodex/internal/domain/model"
)

// Memory is an in-memory Provider, used for tests and for deployments
// that seed the catalog at startup.
type Memory struct {
	mu    sync.RWMutex
	songs map[int]model.Song
}

// NewMemory creates a Memory catalog seeded with songs.
func NewMemory(songs ...model.Song) *Memory {
	m := &Memory{songs: make(map[int]model.Song, len(songs))}
	for _, s := range songs {
		m.songs[s.ID] = s
	}
	return m
}

// List returns all songs ordered by id.
func (m *Memory) List(ctx context.Context) ([]model.Song, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Song, 0, len(m.songs))
	for _, s := range m.songs {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Get returns the song with the given id.
func (m *Memory) Get(ctx context.Context, id int) (model.Song, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.songs[id]
	if !ok {
		return model.Song{}, ErrNotFound
	}
	return s, nil
}

// Add inserts a song, assigning the next free id.
func (m *Memory) Add(ctx context.Context, song model.Song) (model.Song, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	song.ID = m.nextID()
	m.songs[song.ID] = song
	return song, nil
}

// Remove deletes the song with the given id.
func (m *Memory) Remove(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.songs[id]; !ok {
		return ErrNotFound
	}
	delete(m.songs, id)
	return nil
}

// nextID must be called with m.mu held.
func (m *Memory) nextID() int {
	next := 1
	for id := range m.songs {
		if id >= next {
			next = id + 1
		}
	}
	return next
}
