package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-pim-sync/internal/utils"
	"github.com/MKhiriev/go-pim-sync/models"
)

// MemoryBackend keeps records in memory. IDs are "<collection>/pc-<n>".
type MemoryBackend struct {
	mu          sync.Mutex
	nextID      int
	collections map[string]string // collection -> record type
	records     map[string]memoryRecord
}

type memoryRecord struct {
	collection string
	record     models.BackendRecord
}

// NewMemoryBackend returns an empty backend. Collections are created on
// first use.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		collections: make(map[string]string),
		records:     make(map[string]memoryRecord),
	}
}

// AddCollection declares collectionID with the given record type.
func (m *MemoryBackend) AddCollection(collectionID, recordType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections[collectionID] = recordType
}

// Put stores rec in the collection, keeping rec.ID when set. The assigned
// ID is returned.
func (m *MemoryBackend) Put(collectionID string, rec models.BackendRecord) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.putLocked(collectionID, rec)
}

func (m *MemoryBackend) putLocked(collectionID string, rec models.BackendRecord) string {
	if _, ok := m.collections[collectionID]; !ok {
		m.collections[collectionID] = rec.Type
	}
	if rec.ID == "" {
		m.nextID++
		rec.ID = fmt.Sprintf("%s/pc-%d", collectionID, m.nextID)
	}
	if rec.ContentHash == "" {
		rec.ContentHash = utils.ContentHash(rec.Data)
	}
	if rec.LastModified.IsZero() {
		rec.LastModified = time.Now().UTC()
	}
	rec.Data = slices.Clone(rec.Data)

	m.records[rec.ID] = memoryRecord{collection: collectionID, record: rec}
	return rec.ID
}

// Get returns a copy of the record with the given ID.
func (m *MemoryBackend) Get(id string) (models.BackendRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.records[id]
	if !ok {
		return models.BackendRecord{}, false
	}
	rec := r.record
	rec.Data = slices.Clone(rec.Data)
	return rec, true
}

// Len returns the number of records stored in the collection.
func (m *MemoryBackend) Len(collectionID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, r := range m.records {
		if r.collection == collectionID {
			n++
		}
	}
	return n
}

func (m *MemoryBackend) LoadRecords(ctx context.Context, collectionID string) ([]models.BackendRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.BackendRecord, 0)
	for _, r := range m.records {
		if r.collection != collectionID {
			continue
		}
		rec := r.record
		rec.Data = slices.Clone(rec.Data)
		out = append(out, rec)
	}
	slices.SortFunc(out, func(a, b models.BackendRecord) int {
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (m *MemoryBackend) CreateRecord(ctx context.Context, collectionID string, rec models.BackendRecord) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rec.ID = ""
	rec.ContentHash = ""
	rec.LastModified = time.Time{}
	return m.putLocked(collectionID, rec), nil
}

func (m *MemoryBackend) UpdateRecord(ctx context.Context, rec models.BackendRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	old, ok := m.records[rec.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, rec.ID)
	}
	rec.ContentHash = utils.ContentHash(rec.Data)
	rec.LastModified = time.Now().UTC()
	rec.Data = slices.Clone(rec.Data)
	m.records[rec.ID] = memoryRecord{collection: old.collection, record: rec}
	return nil
}

func (m *MemoryBackend) DeleteRecord(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	delete(m.records, id)
	return nil
}

func (m *MemoryBackend) CollectionInfo(ctx context.Context, collectionID string) (models.CollectionInfo, error) {
	if err := ctx.Err(); err != nil {
		return models.CollectionInfo{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	recordType, ok := m.collections[collectionID]
	if !ok {
		return models.CollectionInfo{}, fmt.Errorf("%w: %s", ErrCollectionNotFound, collectionID)
	}
	return models.CollectionInfo{Path: "memory://" + collectionID, Name: collectionID, Type: recordType}, nil
}
