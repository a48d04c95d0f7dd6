package config

import (
	"reflect"
	"strings"

	"storectl/core/logger"
	"storectl/core/retry"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// TransferConfig tunes listing and execution behavior.
type TransferConfig struct {
	// Parallel is the number of concurrent copy workers.
	Parallel int `mapstructure:"parallel" default:"4"`
	// ListPageSize is the maximum number of keys requested per listing page.
	ListPageSize int `mapstructure:"list_page_size" default:"1000"`
}

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Retry holds configuration for retrying transient storage failures.
	Retry retry.Config `mapstructure:"retry"`
	// Transfer holds tuning knobs for listing and mirroring.
	Transfer TransferConfig `mapstructure:"transfer"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. RETRY_MAX_ATTEMPTS -> retry.max_attempts)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
