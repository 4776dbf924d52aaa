package registry

type options struct {
	jockeyCapacity int
	teamCapacity   int
}

// Option applies a configuration option to the Registry.
type Option func(*options)

// WithCapacity pre-sizes both namespaces.
func WithCapacity(jockeys, teams int) Option {
	return func(o *options) {
		if jockeys > 0 {
			o.jockeyCapacity = jockeys
		}
		if teams > 0 {
			o.teamCapacity = teams
		}
	}
}
