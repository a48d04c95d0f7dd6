package logger

// Config holds configuration for the logger.
type Config struct {
	// Level is the minimum level to emit (debug, info, warn, error).
	Level string `mapstructure:"level" default:"info"`
	// Format selects the encoding: console for humans, json for machines.
	Format string `mapstructure:"format" default:"console"`
}
