package model

// Tally is a per-song win/loss record accumulated from battle votes.
type Tally struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// Profile aggregates everything the engine tracks for one user.
// LastSongID is 0 when the user has never received a recommendation;
// song ids are always positive.
type Profile struct {
	Ratings    map[int]int   `json:"ratings,omitempty"`
	Favorites  map[int]bool  `json:"favorites,omitempty"`
	Blacklist  map[int]bool  `json:"blacklist,omitempty"`
	LastSongID int           `json:"last_song_id,omitempty"`
	Battles    map[int]Tally `json:"battles,omitempty"`
}

// NewProfile returns an empty profile with all maps initialized.
func NewProfile() Profile {
	return Profile{
		Ratings:   make(map[int]int),
		Favorites: make(map[int]bool),
		Blacklist: make(map[int]bool),
		Battles:   make(map[int]Tally),
	}
}

// ensureMaps lazily initializes nil maps so that profiles decoded from
// storage can be mutated safely.
func (p *Profile) ensureMaps() {
	if p.Ratings == nil {
		p.Ratings = make(map[int]int)
	}
	if p.Favorites == nil {
		p.Favorites = make(map[int]bool)
	}
	if p.Blacklist == nil {
		p.Blacklist = make(map[int]bool)
	}
	if p.Battles == nil {
		p.Battles = make(map[int]Tally)
	}
}

// SetRating records a score for a song, replacing any prior score for
// the same song.
func (p *Profile) SetRating(songID, score int) {
	p.ensureMaps()
	p.Ratings[songID] = score
}

// AddFavorite marks a song as an explicit favorite. Returns false if it
// was already marked.
func (p *Profile) AddFavorite(songID int) bool {
	p.ensureMaps()
	if p.Favorites[songID] {
		return false
	}
	p.Favorites[songID] = true
	return true
}

// AddBlacklist adds a song to the blacklist. Returns false if it was
// already present.
func (p *Profile) AddBlacklist(songID int) bool {
	p.ensureMaps()
	if p.Blacklist[songID] {
		return false
	}
	p.Blacklist[songID] = true
	return true
}

// RemoveBlacklist removes a song from the blacklist. Returns false if it
// was not present.
func (p *Profile) RemoveBlacklist(songID int) bool {
	if !p.Blacklist[songID] {
		return false
	}
	delete(p.Blacklist, songID)
	return true
}

// IsBlacklisted reports whether a song is excluded for this user.
func (p Profile) IsBlacklisted(songID int) bool {
	return p.Blacklist[songID]
}

// RecordWin increments the win tally for a song.
func (p *Profile) RecordWin(songID int) {
	p.ensureMaps()
	t := p.Battles[songID]
	t.Wins++
	p.Battles[songID] = t
}

// RecordLoss increments the loss tally for a song.
func (p *Profile) RecordLoss(songID int) {
	p.ensureMaps()
	t := p.Battles[songID]
	t.Losses++
	p.Battles[songID] = t
}

// Clone returns a deep copy. Stores hand out clones so callers can never
// mutate shared state outside UpdateProfile.
func (p Profile) Clone() Profile {
	c := Profile{LastSongID: p.LastSongID}
	if p.Ratings != nil {
		c.Ratings = make(map[int]int, len(p.Ratings))
		for k, v := range p.Ratings {
			c.Ratings[k] = v
		}
	}
	if p.Favorites != nil {
		c.Favorites = make(map[int]bool, len(p.Favorites))
		for k, v := range p.Favorites {
			c.Favorites[k] = v
		}
	}
	if p.Blacklist != nil {
		c.Blacklist = make(map[int]bool, len(p.Blacklist))
		for k, v := range p.Blacklist {
			c.Blacklist[k] = v
		}
	}
	if p.Battles != nil {
		c.Battles = make(map[int]Tally, len(p.Battles))
		for k, v := range p.Battles {
			c.Battles[k] = v
		}
	}
	return c
}
