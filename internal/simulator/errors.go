package simulator

import "errors"

// Sentinel errors.
var (
	ErrSyntax      = errors.New("script syntax error")
	ErrUnknownOp   = errors.New("unknown command")
	ErrUnhealthy   = errors.New("service unhealthy")
	ErrDirtyServer = errors.New("server league is not empty")
	ErrMismatch    = errors.New("server diverged from local league")
)
