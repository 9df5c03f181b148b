package client

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-pim-sync/internal/config"
	"github.com/MKhiriev/go-pim-sync/internal/device"
	"github.com/MKhiriev/go-pim-sync/internal/logger"
	"github.com/MKhiriev/go-pim-sync/models"
)

// testConfig returns a config over a device image holding one memo and an
// empty file backend, all under a temp dir.
func testConfig(t *testing.T) *config.StructuredConfig {
	t.Helper()
	dir := t.TempDir()

	image := filepath.Join(dir, "device.json")
	link, err := device.OpenFileLink(image, "Jane Doe")
	require.NoError(t, err)
	link.CreateCollection("MemoDB", nil)
	link.PutRecord("MemoDB", models.DeviceRecord{ID: 1, Dirty: true, RawData: []byte("milk\x00")})
	require.NoError(t, link.Save())

	return &config.StructuredConfig{
		Profile: config.Profile{UserName: "Jane Doe", PCName: "desk"},
		Storage: config.Storage{
			StateDir: filepath.Join(dir, "state"),
			Backend:  config.Backend{Kind: config.BackendFile, DataDir: filepath.Join(dir, "data")},
		},
		Device: config.Device{ImagePath: image},
		Sync: config.Sync{
			Mode:           "fullsync",
			ConflictPolicy: "palm-wins",
			Conduits:       []string{"memo"},
		},
		Workers: config.Workers{SyncInterval: time.Hour, WatchDebounce: 20 * time.Millisecond},
	}
}

func memoFiles(t *testing.T, cfg *config.StructuredConfig) []string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(cfg.Storage.Backend.DataDir, "memo"))
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		if !e.IsDir() && e.Name()[0] != '.' {
			names = append(names, e.Name())
		}
	}
	return names
}

func TestNewApp_InvalidMode(t *testing.T) {
	cfg := testConfig(t)
	cfg.Sync.Mode = "warp"

	_, err := NewApp(context.Background(), cfg, &bytes.Buffer{}, logger.Nop())
	assert.Error(t, err)
}

func TestNewApp_UnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Backend.Kind = "s3"

	_, err := NewApp(context.Background(), cfg, &bytes.Buffer{}, logger.Nop())
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestNewApp_RegistersEveryConduit(t *testing.T) {
	cfg := testConfig(t)
	app, err := NewApp(context.Background(), cfg, &bytes.Buffer{}, logger.Nop())
	require.NoError(t, err)
	defer app.Close()

	assert.Equal(t, []string{"memo", "contacts", "calendar", "todo"}, app.engine.RegisteredConduits())
	assert.True(t, app.engine.IsConduitEnabled("memo"))
	assert.False(t, app.engine.IsConduitEnabled("todo"))
	assert.Len(t, app.watchDirs, len(conduitSpecs))
}

func TestApp_RunOnce(t *testing.T) {
	cfg := testConfig(t)
	out := &bytes.Buffer{}

	app, err := NewApp(context.Background(), cfg, out, logger.Nop())
	require.NoError(t, err)

	require.NoError(t, app.Run(context.Background()))
	require.NoError(t, app.Close())

	assert.Len(t, memoFiles(t, cfg), 1)
	assert.Contains(t, out.String(), "sync complete")
	assert.Contains(t, out.String(), "fullsync")

	// the image was written back with the flags cleared
	link, err := device.OpenFileLink(cfg.Device.ImagePath, "")
	require.NoError(t, err)
	for _, r := range link.Records("MemoDB") {
		assert.False(t, r.Dirty)
	}
}

func TestApp_RunOnceFailure(t *testing.T) {
	cfg := testConfig(t)
	// a regular file where the backend expects its root directory
	require.NoError(t, os.WriteFile(cfg.Storage.Backend.DataDir, []byte("x"), 0o600))
	out := &bytes.Buffer{}

	app, err := NewApp(context.Background(), cfg, out, logger.Nop())
	require.NoError(t, err)
	defer app.Close()

	err = app.Run(context.Background())
	assert.ErrorIs(t, err, ErrSyncFailed)
	assert.Contains(t, out.String(), "sync failed")
}

func TestApp_ResetOnly(t *testing.T) {
	cfg := testConfig(t)

	app, err := NewApp(context.Background(), cfg, &bytes.Buffer{}, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, app.Run(context.Background()))
	require.NoError(t, app.Close())
	require.Len(t, memoFiles(t, cfg), 1)

	cfg.Run.Reset = true
	out := &bytes.Buffer{}
	app, err = NewApp(context.Background(), cfg, out, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, app.Run(context.Background()))
	require.NoError(t, app.Close())

	assert.Empty(t, out.String(), "a reset alone does not sync")

	s, err := app.engine.IdentityStore("memo")
	require.NoError(t, err)
	assert.Empty(t, s.AllDeviceIDs())
}

func TestApp_Daemon(t *testing.T) {
	cfg := testConfig(t)
	cfg.Run.Daemon = true

	app, err := NewApp(context.Background(), cfg, &bytes.Buffer{}, logger.Nop())
	require.NoError(t, err)
	defer app.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	require.Eventually(t, func() bool { return len(memoFiles(t, cfg)) == 1 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err = <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not stop")
	}
}

func TestApp_Daemon_WatcherRunsFullSync(t *testing.T) {
	cfg := testConfig(t)
	cfg.Run.Daemon = true
	cfg.Sync.Mode = "hotsync"

	app, err := NewApp(context.Background(), cfg, &bytes.Buffer{}, logger.Nop())
	require.NoError(t, err)
	defer app.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	require.Eventually(t, func() bool {
		return len(memoFiles(t, cfg)) == 1 && !app.engine.Running()
	}, 5*time.Second, 10*time.Millisecond)

	// a hot sync never looks at records created on the PC
	path := filepath.Join(cfg.Storage.Backend.DataDir, "memo", "eggs.md")
	require.NoError(t, os.WriteFile(path, []byte("eggs"), 0o600))

	assert.Eventually(t, func() bool {
		link, err := device.OpenFileLink(cfg.Device.ImagePath, "")
		return err == nil && len(link.Records("MemoDB")) == 2
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err = <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not stop")
	}
}
