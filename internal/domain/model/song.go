// Package model contains domain records passed between layers.
package model

import "strings"

// Song is a catalog entry. The engine treats songs as read-only; the
// catalog adapter owns creation and removal.
type Song struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
	URL    string `json:"url,omitempty"`
	Genre  string `json:"genre"`
	Year   int    `json:"year,omitempty"`
}

// GenreEquals compares genres case-insensitively.
func (s Song) GenreEquals(genre string) bool {
	return strings.EqualFold(s.Genre, genre)
}

// ArtistEquals compares artists case-insensitively.
func (s Song) ArtistEquals(artist string) bool {
	return strings.EqualFold(s.Artist, artist)
}
