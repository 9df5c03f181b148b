package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when a
// configuration group is incomplete or invalid.
var (
	// ErrInvalidStorageConfigs indicates invalid backend settings
	// (for example, an unknown kind or an sql backend without DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidDeviceConfigs indicates negative device timeouts.
	ErrInvalidDeviceConfigs = errors.New("invalid device configuration")
	// ErrInvalidSyncConfigs indicates an unknown sync mode, conflict
	// policy or conduit ID.
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
	// ErrInvalidWorkerConfigs indicates negative worker intervals.
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
)
