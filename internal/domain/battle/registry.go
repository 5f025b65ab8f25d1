package battle

import "sync"

// Registry tracks open battles by id so votes can find their instance.
// Resolved battles are kept until evicted by the size bound, preserving
// the double-vote error for late voters.
type Registry struct {
	mu      sync.Mutex
	battles map[string]*Battle
	order   []string
	maxSize int
}

const defaultRegistrySize = 1024

// NewRegistry creates a Registry bounded to maxSize battles; oldest
// entries are evicted first. A non-positive size uses the default bound.
func NewRegistry(maxSize int) *Registry {
	if maxSize <= 0 {
		maxSize = defaultRegistrySize
	}
	return &Registry{
		battles: make(map[string]*Battle),
		maxSize: maxSize,
	}
}

// Add registers a battle and marks it as awaiting its vote.
func (r *Registry) Add(b *Battle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for len(r.order) >= r.maxSize {
		oldest := r.order[0]
		r.order = r.order[1:]
		delete(r.battles, oldest)
	}
	r.battles[b.ID()] = b
	r.order = append(r.order, b.ID())
	b.Await()
}

// Get returns the battle for id, or ErrNotFound.
func (r *Registry) Get(id string) (*Battle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.battles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return b, nil
}

// Len returns the number of tracked battles.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.battles)
}
