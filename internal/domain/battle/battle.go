// Package battle pairs two songs, records the vote, and derives the
// cross-user win-rate leaderboard.
package battle

import (
	"math/rand"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/okian/melodex/internal/domain/model"
)

// State tracks a battle instance through its lifecycle.
type State int

// Battle lifecycle states.
const (
	StateProposed State = iota
	StateAwaitingVote
	StateResolved
)

// Battle is a single two-song voting round proposed for one user.
type Battle struct {
	mu       sync.Mutex
	id       string
	userID   string
	first    model.Song
	second   model.Song
	state    State
	winnerID int
}

// Outcome names the winner and loser of a resolved battle.
type Outcome struct {
	Winner model.Song
	Loser  model.Song
}

// Propose draws two distinct songs from the eligible set. The rng is
// injectable so proposals are deterministic under test.
func Propose(userID string, eligible []model.Song, rng *rand.Rand) (*Battle, error) {
	if len(eligible) < 2 {
		return nil, ErrInsufficientCandidates
	}
	i := rng.Intn(len(eligible))
	j := rng.Intn(len(eligible) - 1)
	if j >= i {
		j++
	}
	return &Battle{
		id:     uuid.NewString(),
		userID: userID,
		first:  eligible[i],
		second: eligible[j],
		state:  StateProposed,
	}, nil
}

// ID returns the battle's unique id.
func (b *Battle) ID() string { return b.id }

// UserID returns the user the battle was proposed for.
func (b *Battle) UserID() string { return b.userID }

// Pair returns the two contending songs.
func (b *Battle) Pair() (model.Song, model.Song) { return b.first, b.second }

// State returns the current lifecycle state.
func (b *Battle) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Await marks the battle as presented and waiting for its vote.
func (b *Battle) Await() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateProposed {
		b.state = StateAwaitingVote
	}
}

// Vote resolves the battle in favor of winnerID. A vote for a song
// outside the pair fails with ErrInvalidVote; a second vote fails with
// ErrAlreadyResolved and leaves the first outcome untouched.
func (b *Battle) Vote(winnerID int) (Outcome, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateResolved {
		return Outcome{}, ErrAlreadyResolved
	}
	switch winnerID {
	case b.first.ID:
		b.state = StateResolved
		b.winnerID = winnerID
		return Outcome{Winner: b.first, Loser: b.second}, nil
	case b.second.ID:
		b.state = StateResolved
		b.winnerID = winnerID
		return Outcome{Winner: b.second, Loser: b.first}, nil
	default:
		return Outcome{}, ErrInvalidVote
	}
}

// Reopen reverts a resolved battle to awaiting its vote, so the vote can
// be retried after the outcome failed to persist.
func (b *Battle) Reopen() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateResolved {
		b.state = StateAwaitingVote
		b.winnerID = 0
	}
}

// Record is one aggregated leaderboard row.
type Record struct {
	SongID int
	Wins   int
	Losses int
}

// Total returns the number of votes the song has participated in.
func (r Record) Total() int { return r.Wins + r.Losses }

// WinRate returns wins over total votes, with no votes defined as 0.
func (r Record) WinRate() float64 {
	total := r.Total()
	if total == 0 {
		return 0
	}
	return float64(r.Wins) / float64(total)
}

// Leaderboard sums every user's tallies per song and orders the result by
// win rate desc, total votes desc, then song id asc.
func Leaderboard(profiles []model.Profile) []Record {
	byID := make(map[int]Record)
	for _, p := range profiles {
		for songID, t := range p.Battles {
			r := byID[songID]
			r.SongID = songID
			r.Wins += t.Wins
			r.Losses += t.Losses
			byID[songID] = r
		}
	}

	out := make([]Record, 0, len(byID))
	for _, r := range byID {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.WinRate() != b.WinRate() {
			return a.WinRate() > b.WinRate()
		}
		if a.Total() != b.Total() {
			return a.Total() > b.Total()
		}
		return a.SongID < b.SongID
	})
	return out
}
