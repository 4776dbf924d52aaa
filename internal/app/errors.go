package service

import "errors"

var (
	// ErrNotStarted is returned by operations called before Start or after Stop.
	ErrNotStarted = errors.New("service not started")
	// ErrInvalidReport is returned for reports whose jockey ids cannot be valid.
	ErrInvalidReport = errors.New("invalid match report")
)
