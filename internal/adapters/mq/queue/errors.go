package queue

import "errors"

// Sentinel kinds for queue errors.
var (
	ErrFull   = errors.New("report queue full")
	ErrClosed = errors.New("report queue closed")
)
