package repository

const defaultShardCount = 32

// Option applies a configuration option to the Registry.
type Option func(*Registry)

// WithShardCount sets the number of model lock shards. Values below 1 are ignored.
func WithShardCount(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.shardCount = n
		}
	}
}
