package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FLIGHTS_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, DefaultVendorURL, cfg.VendorURL)
	require.Equal(t, time.Duration(0), cfg.RequestTimeout)
	require.Equal(t, 30*time.Second, cfg.StreamInterval)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flights.yaml")
	err := os.WriteFile(path, []byte("vendor_url: http://localhost:9999/vacancy.php\nrequest_timeout: 15s\n"), 0o600)
	require.NoError(t, err)

	t.Setenv("FLIGHTS_CONFIG", path)
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:9999/vacancy.php", cfg.VendorURL)
	require.Equal(t, 15*time.Second, cfg.RequestTimeout)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadBadDuration(t *testing.T) {
	t.Setenv("FLIGHTS_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("TOKEN_TTL", "forever")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "bad token_ttl")
}
