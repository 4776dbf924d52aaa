package league

import "errors"

// Sentinel kinds matching the non-success statuses. These allow errors.Is
// from callers that handle league results as errors.
var (
	ErrFailure      = errors.New("league operation failed")
	ErrInvalidInput = errors.New("invalid input")
	ErrAllocation   = errors.New("allocation error")
	ErrCorrupt      = errors.New("league state inconsistent")
)
