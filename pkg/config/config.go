// Package config resolves server configuration once at process entry.
// Components receive the resulting struct by parameter; nothing reads the
// environment after startup.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variable names.
const (
	EnvAPIKey    = "TWELVEDATA_API_KEY"
	EnvTransport = "MCP_TRANSPORT"
	EnvHTTPPort  = "MCP_HTTP_PORT"
	EnvLogLevel  = "LOG_LEVEL"
)

// Config holds all server settings.
type Config struct {
	APIKey    string
	Transport string
	HTTPPort  int
	LogLevel  string
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Transport: "stdio",
		HTTPPort:  3000,
		LogLevel:  "info",
	}
}

// Load resolves configuration from the environment on top of defaults.
// The API key is deliberately not validated here: its absence is surfaced
// as a fatal configuration error by the upstream client constructor.
func Load() (Config, error) {
	cfg := Default()

	cfg.APIKey = os.Getenv(EnvAPIKey)
	if v := os.Getenv(EnvTransport); v != "" {
		cfg.Transport = v
	}
	if v := os.Getenv(EnvHTTPPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return cfg, fmt.Errorf("invalid %s: %q", EnvHTTPPort, v)
		}
		cfg.HTTPPort = port
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}

	if cfg.Transport != "stdio" && cfg.Transport != "http" {
		return cfg, fmt.Errorf("invalid %s: %q (want stdio or http)", EnvTransport, cfg.Transport)
	}
	return cfg, nil
}
