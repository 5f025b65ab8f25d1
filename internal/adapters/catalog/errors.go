package catalog

import "errors"

// Sentinel kinds for catalog errors.
var (
	ErrNotFound = errors.New("song not found")
	ErrLoad     = errors.New("catalog load failed")
	ErrSave     = errors.New("catalog save failed")
	ErrReadOnly = errors.New("catalog is read-only")

	ErrNotReloadable = errors.New("catalog has no backing source to reload")
)
