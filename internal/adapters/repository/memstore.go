package repository

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/okian/melodex/internal/domain/model"
	"github.com/okian/melodex/pkg/metrics"
)

const defaultShardCount = 8

// MemStore is a sharded in-memory Store. Profiles are sharded by user id
// hash; each shard serializes its own mutations, so updates to one user
// never block readers of another.
type MemStore struct {
	shards []*memShard
}

type memShard struct {
	mu       sync.RWMutex
	profiles map[string]model.Profile
}

// NewMemStore creates a MemStore with configuration options.
func NewMemStore(opts ...Option) *MemStore {
	cfg := storeConfig{shardCount: defaultShardCount}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &MemStore{shards: make([]*memShard, cfg.shardCount)}
	for i := range s.shards {
		s.shards[i] = &memShard{profiles: make(map[string]model.Profile)}
	}
	metrics.UpdateStoreShardCount(cfg.shardCount)
	return s
}

func (s *MemStore) shard(userID string) *memShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return s.shards[int(h.Sum32())%len(s.shards)]
}

// LoadProfile returns a clone of the stored profile, or an empty default.
func (s *MemStore) LoadProfile(ctx context.Context, userID string) (model.Profile, error) {
	sh := s.shard(userID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	p, ok := sh.profiles[userID]
	if !ok {
		return model.NewProfile(), nil
	}
	return p.Clone(), nil
}

// SaveProfile stores a full profile, replacing prior state.
func (s *MemStore) SaveProfile(ctx context.Context, userID string, p model.Profile) error {
	sh := s.shard(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	sh.profiles[userID] = p.Clone()
	return nil
}

// UpdateProfile applies fn under the shard write lock, making the
// read-modify-write atomic per user.
func (s *MemStore) UpdateProfile(ctx context.Context, userID string, fn func(*model.Profile)) error {
	sh := s.shard(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	p, ok := sh.profiles[userID]
	if !ok {
		p = model.NewProfile()
	} else {
		p = p.Clone()
	}
	fn(&p)
	sh.profiles[userID] = p
	return nil
}

// Profiles returns a snapshot of every stored profile.
func (s *MemStore) Profiles(ctx context.Context) ([]model.Profile, error) {
	var out []model.Profile
	for _, sh := range s.shards {
		sh.mu.RLock()
		for _, p := range sh.profiles {
			out = append(out, p.Clone())
		}
		sh.mu.RUnlock()
	}
	return out, nil
}

// Count returns the number of stored profiles.
func (s *MemStore) Count(ctx context.Context) int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		n += len(sh.profiles)
		sh.mu.RUnlock()
	}
	return n
}
