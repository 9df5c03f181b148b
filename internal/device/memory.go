package device

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/MKhiriev/go-pim-sync/models"
)

// Image is the serialisable content of a device: its owner and collections.
type Image struct {
	UserName    string                      `json:"userName"`
	Collections map[string]*CollectionImage `json:"collections"`
}

// CollectionImage is the content of one device collection.
type CollectionImage struct {
	AppInfo []byte                `json:"appInfo,omitempty"`
	NextID  uint32                `json:"nextId"`
	Records []models.DeviceRecord `json:"records"`
}

type openCollection struct {
	name      string
	readWrite bool
}

// MemoryLink is an in-memory Link. Records keep their insertion order.
type MemoryLink struct {
	mu sync.Mutex

	userName    string
	connected   bool
	collections map[string]*CollectionImage
	handles     map[Handle]openCollection
	nextHandle  Handle
}

// NewMemoryLink returns a connected, empty in-memory link for userName.
func NewMemoryLink(userName string) *MemoryLink {
	return NewMemoryLinkFromImage(Image{UserName: userName})
}

// NewMemoryLinkFromImage returns a connected in-memory link holding a deep
// copy of img.
func NewMemoryLinkFromImage(img Image) *MemoryLink {
	m := &MemoryLink{
		userName:    img.UserName,
		connected:   true,
		collections: make(map[string]*CollectionImage, len(img.Collections)),
		handles:     make(map[Handle]openCollection),
		nextHandle:  1,
	}
	for name, col := range img.Collections {
		m.collections[name] = copyCollection(col)
	}
	return m
}

// Snapshot returns a deep copy of the link's content.
func (m *MemoryLink) Snapshot() Image {
	m.mu.Lock()
	defer m.mu.Unlock()

	img := Image{UserName: m.userName, Collections: make(map[string]*CollectionImage, len(m.collections))}
	for name, col := range m.collections {
		img.Collections[name] = copyCollection(col)
	}
	return img
}

// CreateCollection adds an empty collection if it does not exist yet.
func (m *MemoryLink) CreateCollection(name string, appInfo []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.collections[name]; ok {
		return
	}
	m.collections[name] = &CollectionImage{AppInfo: append([]byte(nil), appInfo...), NextID: 1}
}

// PutRecord stores rec in the named collection as-is, creating the
// collection if needed. It is meant for seeding a device.
func (m *MemoryLink) PutRecord(name string, rec models.DeviceRecord) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()

	col, ok := m.collections[name]
	if !ok {
		col = &CollectionImage{NextID: 1}
		m.collections[name] = col
	}
	return col.put(rec)
}

// Records returns a copy of the records of the named collection.
func (m *MemoryLink) Records(name string) []models.DeviceRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	col, ok := m.collections[name]
	if !ok {
		return nil
	}
	return copyRecords(col.Records)
}

// Connect marks the link as connected.
func (m *MemoryLink) Connect() {
	m.mu.Lock()
	m.connected = true
	m.mu.Unlock()
}

// Disconnect marks the link as disconnected and drops all open handles.
func (m *MemoryLink) Disconnect() {
	m.mu.Lock()
	m.connected = false
	m.handles = make(map[Handle]openCollection)
	m.mu.Unlock()
}

func (m *MemoryLink) UserName() string {
	return m.userName
}

func (m *MemoryLink) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

func (m *MemoryLink) OpenCollection(_ context.Context, name string, readWrite bool) (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return 0, ErrNotConnected
	}
	if _, ok := m.collections[name]; !ok {
		if !readWrite {
			return 0, fmt.Errorf("%w: %s", ErrCollectionNotFound, name)
		}
		m.collections[name] = &CollectionImage{NextID: 1}
	}

	h := m.nextHandle
	m.nextHandle++
	m.handles[h] = openCollection{name: name, readWrite: readWrite}
	return h, nil
}

func (m *MemoryLink) CloseCollection(_ context.Context, h Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.handles[h]; !ok {
		return ErrInvalidHandle
	}
	delete(m.handles, h)
	return nil
}

func (m *MemoryLink) ReadAllRecords(_ context.Context, h Handle) ([]models.DeviceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	col, _, err := m.collection(h)
	if err != nil {
		return nil, err
	}
	return copyRecords(col.Records), nil
}

func (m *MemoryLink) WriteRecord(_ context.Context, h Handle, rec models.DeviceRecord) (uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	col, rw, err := m.collection(h)
	if err != nil {
		return 0, err
	}
	if !rw {
		return 0, ErrReadOnly
	}
	return col.put(rec), nil
}

func (m *MemoryLink) DeleteRecord(_ context.Context, h Handle, id uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	col, rw, err := m.collection(h)
	if err != nil {
		return err
	}
	if !rw {
		return ErrReadOnly
	}
	for i := range col.Records {
		if col.Records[i].ID == id {
			col.Records = append(col.Records[:i], col.Records[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %d", ErrRecordNotFound, id)
}

func (m *MemoryLink) ReadAppInfoBlock(_ context.Context, h Handle) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	col, _, err := m.collection(h)
	if err != nil {
		return nil, err
	}
	if len(col.AppInfo) == 0 {
		return nil, nil
	}
	return append([]byte(nil), col.AppInfo...), nil
}

func (m *MemoryLink) WriteAppInfoBlock(_ context.Context, h Handle, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	col, rw, err := m.collection(h)
	if err != nil {
		return err
	}
	if !rw {
		return ErrReadOnly
	}
	col.AppInfo = append([]byte(nil), data...)
	return nil
}

// ResetSyncFlags implements Finalizer.
func (m *MemoryLink) ResetSyncFlags(_ context.Context, h Handle, keep []uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	col, rw, err := m.collection(h)
	if err != nil {
		return err
	}
	if !rw {
		return ErrReadOnly
	}
	for i := range col.Records {
		if !slices.Contains(keep, col.Records[i].ID) {
			col.Records[i].Dirty = false
		}
	}
	return nil
}

// PurgeDeletedRecords implements Finalizer.
func (m *MemoryLink) PurgeDeletedRecords(_ context.Context, h Handle, keep []uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	col, rw, err := m.collection(h)
	if err != nil {
		return err
	}
	if !rw {
		return ErrReadOnly
	}
	kept := col.Records[:0]
	for _, rec := range col.Records {
		if !rec.Deleted || slices.Contains(keep, rec.ID) {
			kept = append(kept, rec)
		}
	}
	col.Records = kept
	return nil
}

// collection resolves an open handle. Callers hold m.mu.
func (m *MemoryLink) collection(h Handle) (*CollectionImage, bool, error) {
	if !m.connected {
		return nil, false, ErrNotConnected
	}
	open, ok := m.handles[h]
	if !ok {
		return nil, false, ErrInvalidHandle
	}
	col, ok := m.collections[open.name]
	if !ok {
		return nil, false, fmt.Errorf("%w: %s", ErrCollectionNotFound, open.name)
	}
	return col, open.readWrite, nil
}

// put inserts or replaces rec and returns its ID.
func (c *CollectionImage) put(rec models.DeviceRecord) uint32 {
	rec.RawData = append([]byte(nil), rec.RawData...)
	if c.NextID == 0 {
		c.NextID = 1
	}

	if rec.ID == 0 {
		rec.ID = c.NextID
		c.NextID++
		c.Records = append(c.Records, rec)
		return rec.ID
	}

	if rec.ID >= c.NextID {
		c.NextID = rec.ID + 1
	}
	for i := range c.Records {
		if c.Records[i].ID == rec.ID {
			c.Records[i] = rec
			return rec.ID
		}
	}
	c.Records = append(c.Records, rec)
	return rec.ID
}

func copyCollection(col *CollectionImage) *CollectionImage {
	if col == nil {
		return &CollectionImage{NextID: 1}
	}
	return &CollectionImage{
		AppInfo: append([]byte(nil), col.AppInfo...),
		NextID:  col.NextID,
		Records: copyRecords(col.Records),
	}
}

func copyRecords(recs []models.DeviceRecord) []models.DeviceRecord {
	out := make([]models.DeviceRecord, len(recs))
	for i, rec := range recs {
		rec.RawData = append([]byte(nil), rec.RawData...)
		out[i] = rec
	}
	return out
}

// CollectionNames returns the names of all collections in sorted order.
func (m *MemoryLink) CollectionNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.collections))
	for name := range m.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
