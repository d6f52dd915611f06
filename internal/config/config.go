// Package config provides configuration loading for the OpenAPI playground.
package config

import (
	"fmt"
	"os"
	"time"

	configloader "github.com/GabrielNunesIT/go-libs/config-loader"
)

// EnvPrefix is the prefix of environment variables overriding configuration keys,
// e.g. PLAYGROUND_SPEC_DIR.
const EnvPrefix = "PLAYGROUND_"

const defaultListenAddr = ":5001"

// Config holds the application configuration.
type Config struct {
	// SpecDir is scanned for *.yaml, *.yml and *.json spec documents.
	SpecDir string `koanf:"spec_dir"`
	// SpecURLs are fetched in addition to SpecDir.
	SpecURLs []string `koanf:"spec_urls"`
	// ListenAddr is the address of the HTTP API.
	ListenAddr string `koanf:"listen_addr"`
	// Validate rejects documents that are not valid OpenAPI.
	Validate bool `koanf:"validate"`
	// FetchTimeout bounds remote spec fetches and real backend calls.
	FetchTimeout time.Duration `koanf:"fetch_timeout"`
	// TargetURL is the real backend requests are sent to when not mocked.
	TargetURL string `koanf:"target_url"`
	// ArrayTruncate caps the number of items shown from array responses.
	ArrayTruncate int `koanf:"array_truncate"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		SpecDir:       "openapi",
		ListenAddr:    defaultListenAddr,
		FetchTimeout:  30 * time.Second,
		ArrayTruncate: 25,
	}
}

// Load returns the application configuration using go-libs config-loader.
// Defaults are overridden by file (when set) and then by PLAYGROUND_* variables.
func Load(file string) (*Config, error) {
	defaults := Default()

	var loader interface{ Load() (Config, error) }

	if file != "" {
		if _, err := os.Stat(file); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}

		loader = configloader.NewConfigLoader(
			configloader.WithDefaults(defaults),
			configloader.WithFile[Config](file),
			configloader.WithEnv[Config](EnvPrefix),
		)
	} else {
		loader = configloader.NewConfigLoader(
			configloader.WithDefaults(defaults),
			configloader.WithEnv[Config](EnvPrefix),
		)
	}

	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}

	// PORT is honoured when no address was configured explicitly.
	if port := os.Getenv("PORT"); port != "" && cfg.ListenAddr == defaultListenAddr {
		cfg.ListenAddr = ":" + port
	}

	return &cfg, nil
}
