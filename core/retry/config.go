package retry

// Config holds retry behaviour for fallible remote operations.
// It is threaded explicitly into every retrying call site; there is no
// package-level default state.
type Config struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int `mapstructure:"max_attempts" default:"3"`
	// InitialBackoffMs is the backoff before the second attempt, in milliseconds.
	InitialBackoffMs int `mapstructure:"initial_backoff_ms" default:"100"`
	// MaxBackoffMs caps the computed backoff, in milliseconds.
	MaxBackoffMs int `mapstructure:"max_backoff_ms" default:"10000"`
}

// DefaultConfig returns the retry configuration used when no explicit
// configuration is loaded.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:      3,
		InitialBackoffMs: 100,
		MaxBackoffMs:     10000,
	}
}
