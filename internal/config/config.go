// Package config loads process configuration from the environment, keeping
// runtime knobs out of code.
package config

import "github.com/kelseyhightower/envconfig"

// Config is the process-wide configuration for the document store.
type Config struct {
	// LogLevel is parsed by zerolog ("debug", "info", "warn", "error").
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	// MaxDocumentBytes caps the size of a single insert's JSON payload; zero
	// means unbounded.
	MaxDocumentBytes int `envconfig:"MAX_DOCUMENT_BYTES" default:"0"`
}

// Load reads configuration from environment variables prefixed DOCDB_.
func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process("docdb", &c); err != nil {
		return nil, err
	}
	return &c, nil
}
