// Package config assembles the server configuration from the
// environment.
package config

import (
	"os"

	"github.com/kcitlyn/Astrarium1/internal/llm"
)

const (
	// DefaultAddr is the default HTTP listen address.
	DefaultAddr = ":8000"
)

// Config holds everything the serve command needs to boot.
type Config struct {
	// Addr is the HTTP listen address, from ASTRARIUM_ADDR.
	Addr string

	// DBPath is the SQLite database path, from ASTRARIUM_DB_PATH.
	// Empty means the per-user default location.
	DBPath string

	// LLM configures the oracle provider.
	LLM llm.Config
}

// FromEnv reads the configuration from ASTRARIUM_* environment
// variables, with the LLM provider discovered from whichever API key
// is present when none is named explicitly.
func FromEnv() Config {
	cfg := Config{
		Addr:   envOr("ASTRARIUM_ADDR", DefaultAddr),
		DBPath: os.Getenv("ASTRARIUM_DB_PATH"),
		LLM:    llm.ConfigFromEnv(),
	}
	// When the ASTRARIUM_* variables name no usable provider, probe
	// the vendors' conventional key variables instead.
	if cfg.LLM.Validate() != nil {
		if discovered, ok := llm.DiscoverConfig(); ok {
			cfg.LLM = discovered
		}
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
