package config

import (
	"os"
	"path/filepath"
	"time"
)

// DefaultConduits are the conduits enabled when none are configured.
var DefaultConduits = []string{"memo", "contacts", "calendar", "todo"}

const (
	defaultUserName          = "pimsync"
	defaultBackendKind       = BackendFile
	defaultRequestTimeout    = 10 * time.Second
	defaultKeepAliveInterval = 30 * time.Second
	defaultSyncMode          = "hotsync"
	defaultConflictPolicy    = "skip"
	defaultSyncInterval      = 5 * time.Minute
	defaultWatchDebounce     = 2 * time.Second
	defaultHTTPAddress       = "localhost:8765"
	stateDirName             = ".pimsync"
)

// Backend kinds.
const (
	BackendFile = "file"
	BackendSQL  = "sql"
)

// defaults is the lowest-priority layer. Values that depend on other
// settings are filled by deriveDefaults after merging.
func defaults() *StructuredConfig {
	pcName, err := os.Hostname()
	if err != nil {
		pcName = "localhost"
	}

	return &StructuredConfig{
		Profile: Profile{
			UserName: defaultUserName,
			PCName:   pcName,
		},
		Storage: Storage{
			StateDir: defaultStateDir(),
			Backend:  Backend{Kind: defaultBackendKind},
		},
		Device: Device{
			RequestTimeout:    defaultRequestTimeout,
			KeepAliveInterval: defaultKeepAliveInterval,
		},
		Sync: Sync{
			Mode:           defaultSyncMode,
			ConflictPolicy: defaultConflictPolicy,
			Conduits:       append([]string(nil), DefaultConduits...),
		},
		Workers: Workers{
			SyncInterval:  defaultSyncInterval,
			WatchDebounce: defaultWatchDebounce,
		},
		Server: Server{HTTPAddress: defaultHTTPAddress},
	}
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return stateDirName
	}
	return filepath.Join(home, stateDirName)
}

// deriveDefaults fills paths that live under the state directory.
func (cfg *StructuredConfig) deriveDefaults() {
	if cfg.Storage.StateDir == "" {
		return
	}
	if cfg.Storage.Backend.Kind == BackendFile && cfg.Storage.Backend.DataDir == "" {
		cfg.Storage.Backend.DataDir = filepath.Join(cfg.Storage.StateDir, "data")
	}
	if cfg.Device.BridgeAddress == "" && cfg.Device.ImagePath == "" {
		cfg.Device.ImagePath = filepath.Join(cfg.Storage.StateDir, "device.json")
	}
}
