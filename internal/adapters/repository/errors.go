package repository

import "errors"

// Sentinel kinds for standings errors.
var (
	ErrNotFound     = errors.New("team not on standings")
	ErrInvalidLimit = errors.New("invalid standings limit")
)
