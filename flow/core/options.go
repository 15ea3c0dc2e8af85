package core

// Config defines the shared processing settings of a signal graph.
// SampleRate is the rate every unit is configured for; MaxBlock is the
// largest number of frames a single Process call may carry. Composite
// units size their routing scratch from MaxBlock once, at construction.
type Config struct {
	SampleRate float64
	MaxBlock   int
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns sensible defaults for offline and streaming use.
func DefaultConfig() Config {
	return Config{
		SampleRate: 48000,
		MaxBlock:   1024,
	}
}

// WithSampleRate sets the graph sample rate.
func WithSampleRate(sampleRate float64) Option {
	return func(cfg *Config) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithMaxBlock sets the maximum block length in frames.
func WithMaxBlock(frames int) Option {
	return func(cfg *Config) {
		if frames > 0 {
			cfg.MaxBlock = frames
		}
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
