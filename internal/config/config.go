// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for pimsync and
// pimbridge. It is populated by merging values from environment variables,
// command-line flags and an optional JSON file, then completed with
// defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Profile identifies the device user and this PC.
	Profile Profile `envPrefix:"PROFILE_"`

	// Storage holds the identity store location and the PC-side backend.
	Storage Storage `envPrefix:"STORAGE_"`

	// Device selects how the handheld is reached: a local device image file
	// or a pimbridge HTTP endpoint.
	Device Device `envPrefix:"DEVICE_"`

	// Sync holds the reconciliation settings.
	Sync Sync `envPrefix:"SYNC_"`

	// Workers holds the daemon scheduling settings.
	Workers Workers `envPrefix:"WORKERS_"`

	// Server holds the pimbridge listen address.
	Server Server `envPrefix:"SERVER_"`

	// Run holds one-shot command switches.
	Run Run `envPrefix:"RUN_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Profile identifies whose data is synced and from which PC.
type Profile struct {
	// UserName is the device user name. State is kept per user.
	// Env: PROFILE_USER_NAME
	UserName string `env:"USER_NAME"`

	// PCName is recorded as the last PC a profile was synced with.
	// Env: PROFILE_PC_NAME
	PCName string `env:"PC_NAME"`
}

// Storage groups the identity store directory and the backend settings.
type Storage struct {
	// StateDir is the root directory of the per-user identity stores.
	// Env: STORAGE_STATE_DIR
	StateDir string `env:"STATE_DIR"`

	Backend Backend `envPrefix:"BACKEND_"`
}

// Backend selects the PC-side record store.
type Backend struct {
	// Kind is "file" (one file per record under DataDir) or "sql".
	// Env: STORAGE_BACKEND_KIND
	Kind string `env:"KIND"`

	// DSN is the SQL connection string: a postgres:// URL or a SQLite path.
	// Env: STORAGE_BACKEND_DSN
	DSN string `env:"DSN"`

	// DataDir is the root directory of the file backend.
	// Env: STORAGE_BACKEND_DATA_DIR
	DataDir string `env:"DATA_DIR"`
}

// Device selects the device link.
type Device struct {
	// ImagePath is a JSON device image used as the device.
	// Env: DEVICE_IMAGE_PATH
	ImagePath string `env:"IMAGE_PATH"`

	// BridgeAddress is the base URL of a pimbridge (e.g. "http://localhost:8765").
	// When set it takes precedence over ImagePath.
	// Env: DEVICE_BRIDGE_ADDRESS
	BridgeAddress string `env:"BRIDGE_ADDRESS"`

	// RequestTimeout bounds a single bridge request.
	// Env: DEVICE_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// KeepAliveInterval is the bridge ping period between syncs.
	// Env: DEVICE_KEEP_ALIVE_INTERVAL
	KeepAliveInterval time.Duration `env:"KEEP_ALIVE_INTERVAL"`
}

// Sync holds the reconciliation settings.
type Sync struct {
	// Mode is one of hotsync, fullsync, palm-to-pc, pc-to-palm.
	// Env: SYNC_MODE
	Mode string `env:"MODE"`

	// ConflictPolicy is one of palm-wins, pc-wins, duplicate, skip,
	// ask-user, newest-wins.
	// Env: SYNC_CONFLICT_POLICY
	ConflictPolicy string `env:"CONFLICT_POLICY"`

	// Conduits lists the enabled conduit IDs, comma separated in env.
	// Env: SYNC_CONDUITS
	Conduits []string `env:"CONDUITS" envSeparator:","`

	// DetectPCChanges enables baseline-hash detection of PC-side edits.
	// Env: SYNC_DETECT_PC_CHANGES
	DetectPCChanges bool `env:"DETECT_PC_CHANGES"`
}

// Workers holds daemon scheduling settings.
type Workers struct {
	// SyncInterval is the period of scheduled syncs.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`

	// WatchDebounce delays a watcher-triggered sync until the backend
	// directory has been quiet for this long.
	// Env: WORKERS_WATCH_DEBOUNCE
	WatchDebounce time.Duration `env:"WATCH_DEBOUNCE"`
}

// Server holds network settings of the bridge.
type Server struct {
	// HTTPAddress is the TCP address the bridge listens on, "host:port".
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`
}

// Run holds one-shot command switches.
type Run struct {
	// Daemon keeps pimsync running with scheduled and watched syncs.
	// Env: RUN_DAEMON
	Daemon bool `env:"DAEMON"`

	// Reset clears the identity stores of the profile before anything else.
	// Env: RUN_RESET
	Reset bool `env:"RESET"`
}

// GetStructuredConfig loads, merges, and validates the configuration from
// all available sources. Earlier sources win for fields they set; later
// sources only fill fields left empty:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Defaults
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
