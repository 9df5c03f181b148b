// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// DeviceRecord is a single record read from (or written to) a collection on
// the handheld device. RawData is opaque to the sync engine; only the record
// codec of the owning conduit knows how to interpret it.
type DeviceRecord struct {
	// ID is the device-assigned unique record ID. Zero means "new record":
	// the device link assigns a fresh ID when such a record is written.
	ID uint32 `json:"id"`

	// Category is the device category index (0-15) resolved through the
	// collection's AppInfo block.
	Category int `json:"category"`

	// Deleted is set when the record was deleted on the device since the last sync.
	Deleted bool `json:"deleted"`
	// Dirty is set when the record was created or modified on the device since the last sync.
	Dirty bool `json:"dirty"`
	// Secret marks a private record.
	Secret bool `json:"secret"`
	// Archived marks a record deleted on the device but kept for the PC.
	Archived bool `json:"archived"`

	RawData []byte `json:"rawData,omitempty"`
}

// BackendRecord is the PC-side representation of a record stored in a
// backend collection (a directory of files, a database table, etc.).
type BackendRecord struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	DisplayName  string    `json:"displayName"`
	Data         []byte    `json:"data,omitempty"`
	ContentHash  string    `json:"contentHash"`
	LastModified time.Time `json:"lastModified"`
	IsDeleted    bool      `json:"isDeleted"`
}

// CollectionInfo describes a backend collection.
type CollectionInfo struct {
	Path string `json:"path"`
	Name string `json:"name"`
	Type string `json:"type"`
}
