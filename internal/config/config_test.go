package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFile_Defaults(t *testing.T) {
	path := writeConfig(t, "api:\n  base_url: http://api.example.com/api/\n")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "http://api.example.com/api", cfg.API.BaseURL, "trailing slash should be trimmed")
	assert.Equal(t, "/categories-with-services", cfg.API.Paths.Catalog)
	assert.Equal(t, "/bookings", cfg.API.Paths.Bookings)
	assert.Equal(t, "UTC", cfg.Booking.TimeZone)
	assert.Equal(t, 500, cfg.Booking.NotesMaxLength)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NotEmpty(t, cfg.Auth.TokenFile)
}

func TestLoadFile_EnvOverride(t *testing.T) {
	path := writeConfig(t, "auth:\n  token: from-file\n")
	t.Setenv("BOOKING_AUTH_TOKEN", "from-env")
	t.Setenv("BOOKING_API_PATHS_CATALOG", "/api/bookings/getAllServicesCategories")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Auth.Token)
	assert.Equal(t, "/api/bookings/getAllServicesCategories", cfg.API.Paths.Catalog)
}

func TestLoadFile_ExplicitMissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFile_NoFileInWorkingDir(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", cfg.API.BaseURL)
}
