// Package config provides configuration management for storectl.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all settings, divided into
// subsections:
//   - Log: logging level and format
//   - Retry: attempt count and backoff window for transient storage failures
//   - Transfer: copy parallelism and listing page size
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Transfer.Parallel)
package config
