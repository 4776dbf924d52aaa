package forest

import "errors"

// Sentinel kinds for forest errors.
var (
	ErrArenaFull = errors.New("node arena full")
)
