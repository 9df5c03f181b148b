// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/MKhiriev/go-pim-sync/internal/logger"
	"github.com/MKhiriev/go-pim-sync/internal/utils"
	"github.com/MKhiriev/go-pim-sync/models"
)

// trashDir is the per-collection directory whose files are reported as
// deleted records.
const trashDir = ".trash"

// FileBackend stores every record as one file in a per-collection
// directory under root. Record IDs have the form "<collection>/<file name>".
//
// A file moved into "<collection>/.trash" is reported as a deleted record
// with its original ID, so deletions made by the user on the PC reach the
// device on the next full sync.
type FileBackend struct {
	root        string
	collections map[string]string // collection -> record type
	ids         *utils.UUIDGenerator
	logger      *logger.Logger
}

// NewFileBackend returns a backend rooted at root that serves the given
// collections (collection ID -> record type).
func NewFileBackend(root string, collections map[string]string, log *logger.Logger) *FileBackend {
	known := make(map[string]string, len(collections))
	for id, t := range collections {
		known[id] = t
	}
	return &FileBackend{
		root:        root,
		collections: known,
		ids:         utils.NewUUIDGenerator(),
		logger:      log,
	}
}

// Root returns the directory holding the collections.
func (f *FileBackend) Root() string { return f.root }

// CollectionDirs returns the directory of every known collection.
func (f *FileBackend) CollectionDirs() []string {
	dirs := make([]string, 0, len(f.collections))
	for id := range f.collections {
		dirs = append(dirs, filepath.Join(f.root, id))
	}
	slices.Sort(dirs)
	return dirs
}

func (f *FileBackend) LoadRecords(ctx context.Context, collectionID string) ([]models.BackendRecord, error) {
	recordType, ok := f.collections[collectionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, collectionID)
	}

	dir := filepath.Join(f.root, collectionID)
	live, err := f.readDir(ctx, dir, collectionID, recordType, false)
	if err != nil {
		return nil, err
	}
	trashed, err := f.readDir(ctx, filepath.Join(dir, trashDir), collectionID, recordType, true)
	if err != nil {
		return nil, err
	}

	records := live
	seen := make(map[string]struct{}, len(live))
	for _, r := range live {
		seen[r.ID] = struct{}{}
	}
	for _, r := range trashed {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		records = append(records, r)
	}

	f.logger.Debug().
		Str("func", "FileBackend.LoadRecords").
		Str("collection", collectionID).
		Int("records", len(records)).
		Msg("loaded backend records")

	return records, nil
}

func (f *FileBackend) readDir(ctx context.Context, dir, collectionID, recordType string, deleted bool) ([]models.BackendRecord, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error listing %s: %w", dir, err)
	}

	records := make([]models.BackendRecord, 0, len(entries))
	for _, e := range entries {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}

		path := filepath.Join(dir, e.Name())
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("error reading %s: %w", path, readErr)
		}
		info, statErr := e.Info()
		if statErr != nil {
			return nil, fmt.Errorf("error reading %s: %w", path, statErr)
		}

		records = append(records, models.BackendRecord{
			ID:           collectionID + "/" + e.Name(),
			Type:         recordType,
			DisplayName:  strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())),
			Data:         data,
			ContentHash:  utils.ContentHash(data),
			LastModified: info.ModTime().UTC(),
			IsDeleted:    deleted,
		})
	}
	return records, nil
}

func (f *FileBackend) CreateRecord(ctx context.Context, collectionID string, rec models.BackendRecord) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	recordType, ok := f.collections[collectionID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrCollectionNotFound, collectionID)
	}

	name := f.ids.Generate() + extensionFor(recordType)
	path := filepath.Join(f.root, collectionID, name)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%w: %s", ErrRecordExists, path)
	}
	if err := utils.WriteFileAtomic(path, rec.Data, 0o600); err != nil {
		return "", fmt.Errorf("error creating record file: %w", err)
	}

	return collectionID + "/" + name, nil
}

func (f *FileBackend) UpdateRecord(ctx context.Context, rec models.BackendRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := f.pathFor(rec.ID)
	if err != nil {
		return err
	}
	if _, err = os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, rec.ID)
	}

	if err = utils.WriteFileAtomic(path, rec.Data, 0o600); err != nil {
		return fmt.Errorf("error updating record file: %w", err)
	}
	return nil
}

// DeleteRecord removes the record file and its trashed copy, if any.
func (f *FileBackend) DeleteRecord(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := f.pathFor(id)
	if err != nil {
		return err
	}
	trashed := filepath.Join(filepath.Dir(path), trashDir, filepath.Base(path))

	removed := false
	for _, p := range []string{path, trashed} {
		rmErr := os.Remove(p)
		switch {
		case rmErr == nil:
			removed = true
		case errors.Is(rmErr, os.ErrNotExist):
		default:
			return fmt.Errorf("error deleting record file: %w", rmErr)
		}
	}
	if !removed {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	return nil
}

func (f *FileBackend) CollectionInfo(_ context.Context, collectionID string) (models.CollectionInfo, error) {
	recordType, ok := f.collections[collectionID]
	if !ok {
		return models.CollectionInfo{}, fmt.Errorf("%w: %s", ErrCollectionNotFound, collectionID)
	}
	return models.CollectionInfo{
		Path: filepath.Join(f.root, collectionID),
		Name: collectionID,
		Type: recordType,
	}, nil
}

// pathFor validates id and returns the path of its live file.
func (f *FileBackend) pathFor(id string) (string, error) {
	collectionID, name, ok := strings.Cut(id, "/")
	if !ok || name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidRecordID, id)
	}
	if _, known := f.collections[collectionID]; !known {
		return "", fmt.Errorf("%w: %s", ErrCollectionNotFound, collectionID)
	}
	return filepath.Join(f.root, collectionID, name), nil
}

func extensionFor(recordType string) string {
	if recordType == "memo" {
		return ".md"
	}
	return ".yaml"
}
