// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package codec converts PIM records between their device form (packed
// NUL-terminated fields) and their PC backend form (plain text or YAML).
//
// A [RecordCodec] is supplied per conduit; the sync engine itself never looks
// inside record payloads.
package codec

import "github.com/MKhiriev/go-pim-sync/models"

//go:generate mockgen -source=interfaces.go -destination=../mock/codec_mock.go -package=mock

// Context carries per-collection information a codec may need during a
// conversion.
type Context struct {
	// CollectionID is the backend collection the record belongs to.
	CollectionID string
	// Categories holds the device category names indexed by category ID,
	// as decoded from the collection's AppInfo block. May be empty.
	Categories []string
	// DeviceCategory is the category of the device record a conversion
	// overwrites. BackendToDevice keeps it when the backend form carries
	// no category of its own, as plain-text memos do.
	DeviceCategory int
}

// RecordCodec converts records of one PIM type between the device and the
// backend representation.
type RecordCodec interface {
	// RecordType returns the backend record type tag (e.g. "memo").
	RecordType() string

	// DeviceToBackend converts a device record into a backend record. The
	// returned record has no ID; the caller assigns one when updating.
	DeviceToBackend(rec models.DeviceRecord, cc Context) (models.BackendRecord, error)

	// BackendToDevice converts a backend record into a device record with
	// ID 0; the caller assigns the target device ID. A backend form without
	// a category yields cc.DeviceCategory.
	BackendToDevice(rec models.BackendRecord, cc Context) (models.DeviceRecord, error)

	// RecordsEqual reports whether both records carry the same content.
	RecordsEqual(d models.DeviceRecord, b models.BackendRecord) bool

	// DescriptionOf returns the human-readable description of a device
	// record used for first-sync matching.
	DescriptionOf(rec models.DeviceRecord) string
}
