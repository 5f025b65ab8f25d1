package catalog

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/goccy/go-json"

	"github.com/okian/melodex/internal/domain/model"
)

// File is a Provider backed by a JSON file holding an array of songs.
// The whole catalog is kept in memory; admin mutations rewrite the file.
type File struct {
	mu    sync.RWMutex
	path  string
	songs []model.Song
}

// NewFile loads the catalog from path. A missing file yields an empty
// catalog rather than an error so a fresh deployment can start clean.
func NewFile(path string) (*File, error) {
	f := &File{path: path}
	if err := f.load(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File) load() error {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		f.songs = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLoad, err)
	}
	var songs []model.Song
	if err := json.Unmarshal(data, &songs); err != nil {
		return fmt.Errorf("%w: %v", ErrLoad, err)
	}
	sort.Slice(songs, func(i, j int) bool { return songs[i].ID < songs[j].ID })
	f.songs = songs
	return nil
}

// flush must be called with f.mu held for writing.
func (f *File) flush() error {
	data, err := json.MarshalIndent(f.songs, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSave, err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("%w: %v", ErrSave, err)
	}
	return nil
}

// Reload re-reads the catalog file, replacing the in-memory copy.
func (f *File) Reload(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load()
}

// List returns all songs ordered by id.
func (f *File) List(ctx context.Context) ([]model.Song, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]model.Song, len(f.songs))
	copy(out, f.songs)
	return out, nil
}

// Get returns the song with the given id.
func (f *File) Get(ctx context.Context, id int) (model.Song, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, s := range f.songs {
		if s.ID == id {
			return s, nil
		}
	}
	return model.Song{}, ErrNotFound
}

// Add inserts a song with the next free id and rewrites the file.
func (f *File) Add(ctx context.Context, song model.Song) (model.Song, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := 1
	for _, s := range f.songs {
		if s.ID >= next {
			next = s.ID + 1
		}
	}
	song.ID = next
	f.songs = append(f.songs, song)
	if err := f.flush(); err != nil {
		f.songs = f.songs[:len(f.songs)-1]
		return model.Song{}, err
	}
	return song, nil
}

// Remove deletes the song with the given id and rewrites the file.
func (f *File) Remove(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, s := range f.songs {
		if s.ID == id {
			removed := s
			f.songs = append(f.songs[:i], f.songs[i+1:]...)
			if err := f.flush(); err != nil {
				f.songs = append(f.songs, removed)
				sort.Slice(f.songs, func(a, b int) bool { return f.songs[a].ID < f.songs[b].ID })
				return err
			}
			return nil
		}
	}
	return ErrNotFound
}

// Len returns the number of songs currently loaded.
func (f *File) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.songs)
}
