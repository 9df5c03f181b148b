// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-pim-sync/internal/device"
	"github.com/MKhiriev/go-pim-sync/internal/store"
	"github.com/MKhiriev/go-pim-sync/models"
)

// ProgressFunc receives the number of processed records of the running
// conduit pass and the number of records the pass will process.
type ProgressFunc func(conduitID string, done, total int)

// ConflictFunc receives conflicts the engine left unresolved (ask-user,
// skip and newest-wins policies). It must not block.
type ConflictFunc func(c models.Conflict)

// BackendModifiedFunc decides whether a mapped backend record changed on the
// PC since the last successful sync.
type BackendModifiedFunc func(state *store.IdentityStore, rec models.BackendRecord) bool

// SyncContext holds everything one conduit pass needs. A fresh context is
// built for every Conduit.Sync call.
type SyncContext struct {
	Mode           models.SyncMode
	ConflictPolicy models.ConflictResolution

	Device  device.Link
	Backend store.Backend
	State   *store.IdentityStore

	// CollectionID is the backend collection the conduit writes to.
	CollectionID string
	// IsFirstSync is recomputed from State when the pass starts.
	IsFirstSync bool
	// PCName is recorded in the identity store after a successful pass.
	PCName string

	// Cancelled is polled before every record operation. May be nil.
	Cancelled func() bool
	// Progress may be nil.
	Progress ProgressFunc
	// OnConflict may be nil.
	OnConflict ConflictFunc
	// BackendModified may be nil, in which case backend records are never
	// considered modified and only device-side changes drive updates.
	BackendModified BackendModifiedFunc
}

// SyncRunner runs a sync pass over every enabled conduit.
type SyncRunner interface {
	SyncAll(ctx context.Context, mode models.SyncMode) models.SyncResult
}
