package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_Success(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	p := filepath.Join(dir, "config.json")

	jsonBody := `{
		"profile": { "user_name": "Jane Doe", "pc_name": "desk" },
		"storage": {
			"state_dir": "/var/lib/pimsync",
			"backend": { "kind": "sql", "dsn": "sqlite:///tmp/pim.db", "data_dir": "/var/data" }
		},
		"device": {
			"bridge_address": "http://localhost:8765",
			"request_timeout": "5s",
			"keep_alive_interval": "45s"
		},
		"sync": {
			"mode": "palm-to-pc",
			"conflict_policy": "duplicate",
			"conduits": ["memo", "contacts"],
			"detect_pc_changes": true
		},
		"workers": { "sync_interval": "15m", "watch_debounce": "500ms" },
		"server": { "http_address": "0.0.0.0:8765" }
	}`

	require.NoError(t, os.WriteFile(p, []byte(jsonBody), 0o600))

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "Jane Doe", cfg.Profile.UserName)
	assert.Equal(t, "desk", cfg.Profile.PCName)

	assert.Equal(t, "/var/lib/pimsync", cfg.Storage.StateDir)
	assert.Equal(t, "sql", cfg.Storage.Backend.Kind)
	assert.Equal(t, "sqlite:///tmp/pim.db", cfg.Storage.Backend.DSN)
	assert.Equal(t, "/var/data", cfg.Storage.Backend.DataDir)

	assert.Equal(t, "http://localhost:8765", cfg.Device.BridgeAddress)
	assert.Equal(t, 5*time.Second, cfg.Device.RequestTimeout)
	assert.Equal(t, 45*time.Second, cfg.Device.KeepAliveInterval)

	assert.Equal(t, "palm-to-pc", cfg.Sync.Mode)
	assert.Equal(t, "duplicate", cfg.Sync.ConflictPolicy)
	assert.Equal(t, []string{"memo", "contacts"}, cfg.Sync.Conduits)
	assert.True(t, cfg.Sync.DetectPCChanges)

	assert.Equal(t, 15*time.Minute, cfg.Workers.SyncInterval)
	assert.Equal(t, 500*time.Millisecond, cfg.Workers.WatchDebounce)

	assert.Equal(t, "0.0.0.0:8765", cfg.Server.HTTPAddress)
	assert.Empty(t, cfg.JSONFilePath)
}

func TestParseJSON_FileNotFound(t *testing.T) {
	// Act
	cfg, err := parseJSON("definitely-does-not-exist.json")

	// Assert
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "error reading a json file")
}

func TestParseJSON_InvalidJSON(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	p := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(p, []byte(`{ this is not json }`), 0o600))

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "error decoding json configs")
}

func TestParseJSON_InvalidDuration(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	p := filepath.Join(dir, "bad_duration.json")

	jsonBody := `{
		"workers": { "sync_interval": "not-a-duration" }
	}`
	require.NoError(t, os.WriteFile(p, []byte(jsonBody), 0o600))

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "error decoding json configs")
}

func TestParseJSON_NumericDuration(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "numeric.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"device": {"request_timeout": 2000000000}}`), 0o600))

	cfg, err := parseJSON(p)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Device.RequestTimeout)
}

func TestParseJSON_EmptyObject(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	p := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(p, []byte(`{}`), 0o600))

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, StructuredConfig{}, *cfg)
}

func TestParseJSON_PartialObject(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	p := filepath.Join(dir, "partial.json")

	jsonBody := `{
		"server": { "http_address": "127.0.0.1:8000" }
	}`
	require.NoError(t, os.WriteFile(p, []byte(jsonBody), 0o600))

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "127.0.0.1:8000", cfg.Server.HTTPAddress)

	// Others remain zero
	assert.Equal(t, Profile{}, cfg.Profile)
	assert.Equal(t, Storage{}, cfg.Storage)
	assert.Equal(t, Device{}, cfg.Device)
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := Duration(90 * time.Second).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(b))
}
