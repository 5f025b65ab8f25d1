package recommend

import "math/rand"

// Option applies a configuration option to the Selector.
type Option func(*Selector)

// WithClock sets the clock used by the daily pick.
func WithClock(clock Clock) Option {
	return func(s *Selector) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithRand sets the random source used by the random, discover, and
// filtered single-pick strategies.
func WithRand(rng *rand.Rand) Option {
	return func(s *Selector) {
		if rng != nil {
			s.rng = rng
		}
	}
}
