package league

// Change describes a team whose record changed or that was retired by a
// successful operation.
type Change struct {
	TeamID  int
	Record  int
	Retired bool
}

// Observer receives the changes of each successful mutation once the league
// is consistent again.
type Observer func(Change)

// Option applies a configuration option to the League.
type Option func(*League)

// WithMaxNodes caps the number of jockeys plus teams that can ever be added.
// Additions past the cap return AllocationError.
func WithMaxNodes(n int) Option {
	return func(l *League) {
		if n > 0 {
			l.maxNodes = n
		}
	}
}

// WithObserver registers a change observer.
func WithObserver(fn Observer) Option {
	return func(l *League) {
		if fn != nil {
			l.observer = fn
		}
	}
}
