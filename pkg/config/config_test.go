package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvTransport, "")
	t.Setenv(EnvHTTPPort, "")
	t.Setenv(EnvLogLevel, "")

	cfg, err := Load()

	require.NoError(t, err)
	require.Equal(t, "stdio", cfg.Transport)
	require.Equal(t, 3000, cfg.HTTPPort)
	require.Equal(t, "info", cfg.LogLevel)
	require.Empty(t, cfg.APIKey)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv(EnvAPIKey, "secret")
	t.Setenv(EnvTransport, "http")
	t.Setenv(EnvHTTPPort, "8081")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load()

	require.NoError(t, err)
	require.Equal(t, "secret", cfg.APIKey)
	require.Equal(t, "http", cfg.Transport)
	require.Equal(t, 8081, cfg.HTTPPort)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv(EnvHTTPPort, "not-a-port")

	_, err := Load()

	require.Error(t, err)
	require.Contains(t, err.Error(), EnvHTTPPort)
}

func TestLoad_InvalidTransport(t *testing.T) {
	t.Setenv(EnvTransport, "carrier-pigeon")

	_, err := Load()

	require.Error(t, err)
	require.Contains(t, err.Error(), EnvTransport)
}
