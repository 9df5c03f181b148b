// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package device defines the capability the sync engine uses to read and
// write records on the handheld, together with in-process implementations
// (an in-memory database and a JSON device image) and a reusable keep-alive.
//
// The on-wire protocol to a physical device is outside this package; a
// remote device is reached through the bridge implemented by package adapter.
package device

import (
	"context"

	"github.com/MKhiriev/go-pim-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/device_mock.go -package=mock

// Handle identifies an open collection on a Link.
type Handle int

// Link gives record-level access to the collections (databases) stored on a
// device. A Link is used by one sync pass at a time; implementations do not
// need to support concurrent record I/O.
type Link interface {
	// UserName returns the device owner's user name. It keys the identity
	// stores of the profile.
	UserName() string

	// IsConnected reports whether the link can currently perform record I/O.
	IsConnected() bool

	// OpenCollection opens the named collection. Writes require readWrite.
	OpenCollection(ctx context.Context, name string, readWrite bool) (Handle, error)

	// CloseCollection releases a handle obtained from OpenCollection.
	CloseCollection(ctx context.Context, h Handle) error

	// ReadAllRecords returns every record of the collection, including
	// records flagged deleted.
	ReadAllRecords(ctx context.Context, h Handle) ([]models.DeviceRecord, error)

	// WriteRecord creates or replaces a record and returns its ID. A record
	// with ID 0 is created with a freshly assigned ID.
	WriteRecord(ctx context.Context, h Handle, rec models.DeviceRecord) (uint32, error)

	// DeleteRecord removes the record with the given ID.
	DeleteRecord(ctx context.Context, h Handle, id uint32) error

	// ReadAppInfoBlock returns the collection's AppInfo block (category
	// metadata), or nil if the collection has none.
	ReadAppInfoBlock(ctx context.Context, h Handle) ([]byte, error)

	// WriteAppInfoBlock replaces the collection's AppInfo block.
	WriteAppInfoBlock(ctx context.Context, h Handle, data []byte) error
}

// KeepAliver is implemented by links whose connection needs a periodic
// keep-alive on the same channel used for record I/O. The keep-alive must be
// paused while a sync runs so that two command streams never interleave.
type KeepAliver interface {
	PauseKeepAlive()
	ResumeKeepAlive()
}

// Finalizer is implemented by links that support the end-of-sync cleanup
// performed on the handheld after a successful pass. Records whose IDs are
// listed in keep are left as they are, so a change that could not be
// reconciled is seen again by the next pass.
type Finalizer interface {
	// ResetSyncFlags clears the dirty flag of every record not in keep.
	ResetSyncFlags(ctx context.Context, h Handle, keep []uint32) error
	// PurgeDeletedRecords drops every record flagged deleted that is not in keep.
	PurgeDeletedRecords(ctx context.Context, h Handle, keep []uint32) error
}
