// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"slices"

	"github.com/MKhiriev/go-pim-sync/models"
)

// validate checks that the final merged [StructuredConfig] can be used at
// startup. An empty config is valid; defaults are applied before
// validation by [GetStructuredConfig].
func (cfg *StructuredConfig) validate() error {
	switch cfg.Storage.Backend.Kind {
	case "", BackendFile:
	case BackendSQL:
		if cfg.Storage.Backend.DSN == "" {
			return fmt.Errorf("%w: sql backend needs a DSN", ErrInvalidStorageConfigs)
		}
	default:
		return fmt.Errorf("%w: unknown backend kind %q", ErrInvalidStorageConfigs, cfg.Storage.Backend.Kind)
	}

	if cfg.Device.RequestTimeout < 0 || cfg.Device.KeepAliveInterval < 0 {
		return ErrInvalidDeviceConfigs
	}

	if cfg.Sync.Mode != "" {
		if _, err := models.ParseSyncMode(cfg.Sync.Mode); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidSyncConfigs, err)
		}
	}
	if cfg.Sync.ConflictPolicy != "" {
		if _, err := models.ParseConflictResolution(cfg.Sync.ConflictPolicy); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidSyncConfigs, err)
		}
	}
	for _, id := range cfg.Sync.Conduits {
		if !slices.Contains(DefaultConduits, id) {
			return fmt.Errorf("%w: unknown conduit %q", ErrInvalidSyncConfigs, id)
		}
	}

	if cfg.Workers.SyncInterval < 0 || cfg.Workers.WatchDebounce < 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}

// SyncMode returns the parsed sync mode. Callers get a validated config, so
// an unparseable value only appears on hand-built configs.
func (s Sync) SyncMode() (models.SyncMode, error) {
	return models.ParseSyncMode(s.Mode)
}

func (s Sync) Policy() (models.ConflictResolution, error) {
	return models.ParseConflictResolution(s.ConflictPolicy)
}
