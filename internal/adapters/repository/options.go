package repository

// storeConfig carries shared construction settings for store
// implementations.
type storeConfig struct {
	shardCount int
}

// Option applies a configuration option to a store.
type Option func(*storeConfig)

// WithShardCount sets the number of shards in the in-memory store.
func WithShardCount(count int) Option {
	return func(c *storeConfig) {
		if count > 0 {
			c.shardCount = count
		}
	}
}
