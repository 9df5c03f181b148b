// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store contains the PC-side persistence of go-pim-sync: the
// identity stores that remember which device record corresponds to which
// backend record, and the backends that hold the PC copies of the records.
//
// Three backends ship with the package: a directory of files
// ([FileBackend]), a SQL table on SQLite or PostgreSQL ([SQLBackend]) and an
// in-memory map used by tests ([MemoryBackend]).
package store

import (
	"context"

	"github.com/MKhiriev/go-pim-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/backend_mock.go -package=mock

// Backend gives the sync engine record-level access to the PC side.
type Backend interface {
	// LoadRecords returns every record of the collection, including records
	// the backend reports as deleted.
	LoadRecords(ctx context.Context, collectionID string) ([]models.BackendRecord, error)

	// CreateRecord stores rec as a new record of the collection and returns
	// the ID assigned by the backend. rec.ID is ignored.
	CreateRecord(ctx context.Context, collectionID string, rec models.BackendRecord) (string, error)

	// UpdateRecord replaces the content of the record identified by rec.ID.
	UpdateRecord(ctx context.Context, rec models.BackendRecord) error

	// DeleteRecord removes the record with the given ID.
	DeleteRecord(ctx context.Context, id string) error

	// CollectionInfo describes the collection.
	CollectionInfo(ctx context.Context, collectionID string) (models.CollectionInfo, error)
}

// ErrorClassificator decides whether a failed database operation may be
// retried and maps driver errors onto the package's sentinel errors.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
	IsUniqueViolation(err error) bool
}
