package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `{
		"latitude": 42.36,
		"longitude": -71.06,
		"base_temp_c": 15.5,
		"noaa_station": "725300-94846"
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 42.36, cfg.Latitude)
	assert.Equal(t, -71.06, cfg.Longitude)
	assert.Equal(t, 15.5, cfg.BaseTemp())
	assert.Equal(t, "725300-94846", cfg.NOAAStation)
}

func TestLoadDefaultBaseTemp(t *testing.T) {
	path := writeConfig(t, `{"latitude": 42.36, "longitude": -71.06}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseTempC, cfg.BaseTemp())
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found, create one with your location details")
}

func TestLoadBadJSON(t *testing.T) {
	path := writeConfig(t, `{"latitude": `)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}
