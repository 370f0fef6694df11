package registry

import "github.com/cheminfo/filelist"

// defaultMaxLayerSize bounds downloaded containers.
const defaultMaxLayerSize = 1 << 30

// PullOption configures a pull.
type PullOption func(*pullConfig)

type pullConfig struct {
	skipCache bool
	// maxSize <= 0 disables the limit.
	maxSize  int64
	fromOpts []filelist.FromIumOption
}

func newPullConfig(opts []PullOption) pullConfig {
	cfg := pullConfig{maxSize: defaultMaxLayerSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithMaxLayerSize bounds the size of the downloaded container. Use a
// value <= 0 to disable the limit.
func WithMaxLayerSize(n int64) PullOption {
	return func(cfg *pullConfig) {
		cfg.maxSize = n
	}
}

// WithPullSkipCache ignores the layer cache. The downloaded layer is not
// stored either.
func WithPullSkipCache() PullOption {
	return func(cfg *pullConfig) {
		cfg.skipCache = true
	}
}

// WithFromIumOptions passes options to filelist.FromIum.
func WithFromIumOptions(opts ...filelist.FromIumOption) PullOption {
	return func(cfg *pullConfig) {
		cfg.fromOpts = append(cfg.fromOpts, opts...)
	}
}
