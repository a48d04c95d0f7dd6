package storage

// Config holds connection settings for one S3-compatible endpoint.
// It is usually resolved from a named alias rather than written by hand.
type Config struct {
	// Endpoint is the URL of the storage service. A bare host:port is
	// accepted; the scheme is then derived from UseSSL.
	Endpoint string `mapstructure:"endpoint" default:""`
	// AccessKey is the access key ID for authentication.
	AccessKey string `mapstructure:"access_key" default:""`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" default:""`
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" default:"true"`
	// Region is the bucket location (e.g., us-east-1).
	Region string `mapstructure:"region" default:"us-east-1"`
	// PathStyle forces path-style bucket addressing, required by most
	// self-hosted S3-compatible services.
	PathStyle bool `mapstructure:"path_style" default:"true"`
	// TimeoutSeconds bounds each individual remote call. Zero disables
	// the per-call deadline.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
