package forest

// defaultPrealloc bounds the up-front arena allocation for capped forests.
const defaultPrealloc = 1 << 12

// Option applies a configuration option to the Forest.
type Option func(*Forest)

// WithMaxNodes caps the arena. Allocations beyond the cap fail with
// ErrArenaFull. Zero or negative means unbounded.
func WithMaxNodes(n int) Option {
	return func(f *Forest) {
		if n > 0 {
			f.maxNodes = n
		}
	}
}
