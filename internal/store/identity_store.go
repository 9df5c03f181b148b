// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/MKhiriev/go-pim-sync/internal/utils"
	"github.com/MKhiriev/go-pim-sync/models"
)

// stateFileVersion is written into every saved state file.
const stateFileVersion = 1

// IdentityStore remembers, for one profile and one conduit, which device
// record corresponds to which backend record. It also keeps the baseline
// content hashes of the backend records and the metadata of the last
// successful sync.
//
// The mapping set is always a bijection: a device ID is mapped to at most
// one backend ID and vice versa. All methods are safe for concurrent use.
type IdentityStore struct {
	mu sync.RWMutex

	dir       string
	userName  string
	conduitID string

	mappings map[string]models.IDMapping // deviceID -> mapping
	reverse  map[string]string           // pcID -> deviceID
	baseline map[string]string           // pcID -> content hash

	lastSyncTime *time.Time
	lastSyncPC   string

	hooks []func()
}

// NewIdentityStore returns an empty store whose state file lives under dir.
// Call [IdentityStore.Load] to read previously saved state.
func NewIdentityStore(dir, userName, conduitID string) *IdentityStore {
	return &IdentityStore{
		dir:       dir,
		userName:  userName,
		conduitID: conduitID,
		mappings:  make(map[string]models.IDMapping),
		reverse:   make(map[string]string),
		baseline:  make(map[string]string),
	}
}

// UserName returns the profile the store belongs to.
func (s *IdentityStore) UserName() string { return s.userName }

// ConduitID returns the conduit the store belongs to.
func (s *IdentityStore) ConduitID() string { return s.conduitID }

// StatePath returns the path of the JSON state file:
// <dir>/<sanitized user name>/<conduit id>.json.
func (s *IdentityStore) StatePath() string {
	return filepath.Join(ProfileDir(s.dir, s.userName), SanitizeName(s.conduitID)+".json")
}

// ProfileDir returns the directory holding every state file of a profile.
func ProfileDir(dir, userName string) string {
	return filepath.Join(dir, SanitizeName(userName))
}

// SanitizeName turns an arbitrary profile or conduit name into a string
// that is safe to use as a single path element.
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "default"
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	out := b.String()
	if strings.Trim(out, ".") == "" {
		return "default"
	}
	return out
}

// OnChange registers fn to be called after every change of the mapping set.
// Hooks run outside the store's lock and may call back into the store.
func (s *IdentityStore) OnChange(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.hooks = append(s.hooks, fn)
	s.mu.Unlock()
}

func (s *IdentityStore) notify() {
	s.mu.RLock()
	hooks := slices.Clone(s.hooks)
	s.mu.RUnlock()

	for _, fn := range hooks {
		fn()
	}
}

// MapIDs pairs deviceID with pcID. Any existing mapping that uses either ID
// is removed first so that neither ID ends up in two pairs.
func (s *IdentityStore) MapIDs(deviceID, pcID string) {
	s.mu.Lock()
	s.mapLocked(models.IDMapping{
		DeviceID:   deviceID,
		PCID:       pcID,
		LastSynced: time.Now().UTC(),
	})
	s.mu.Unlock()

	s.notify()
}

func (s *IdentityStore) mapLocked(m models.IDMapping) {
	if old, ok := s.mappings[m.DeviceID]; ok {
		delete(s.reverse, old.PCID)
	}
	if oldDevice, ok := s.reverse[m.PCID]; ok {
		delete(s.mappings, oldDevice)
	}

	s.mappings[m.DeviceID] = m
	s.reverse[m.PCID] = m.DeviceID
}

// RemoveDeviceMapping removes the pair that contains deviceID, if any.
func (s *IdentityStore) RemoveDeviceMapping(deviceID string) {
	s.mu.Lock()
	m, ok := s.mappings[deviceID]
	if ok {
		delete(s.mappings, deviceID)
		delete(s.reverse, m.PCID)
	}
	s.mu.Unlock()

	if ok {
		s.notify()
	}
}

// RemovePCMapping removes the pair that contains pcID, if any.
func (s *IdentityStore) RemovePCMapping(pcID string) {
	s.mu.Lock()
	deviceID, ok := s.reverse[pcID]
	if ok {
		delete(s.reverse, pcID)
		delete(s.mappings, deviceID)
	}
	s.mu.Unlock()

	if ok {
		s.notify()
	}
}

// PCIDForDevice returns the backend ID paired with deviceID, or "".
func (s *IdentityStore) PCIDForDevice(deviceID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mappings[deviceID].PCID
}

// DeviceIDForPC returns the device ID paired with pcID, or "".
func (s *IdentityStore) DeviceIDForPC(pcID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reverse[pcID]
}

func (s *IdentityStore) HasDeviceMapping(deviceID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.mappings[deviceID]
	return ok
}

func (s *IdentityStore) HasPCMapping(pcID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.reverse[pcID]
	return ok
}

// AllDeviceIDs returns every mapped device ID in sorted order.
func (s *IdentityStore) AllDeviceIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.mappings))
	for id := range s.mappings {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// AllPCIDs returns every mapped backend ID in sorted order.
func (s *IdentityStore) AllPCIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.reverse))
	for id := range s.reverse {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// MappingCount returns the number of pairs in the store.
func (s *IdentityStore) MappingCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.mappings)
}

// GetMapping returns a copy of the mapping for deviceID. The second result
// is false when no mapping exists.
func (s *IdentityStore) GetMapping(deviceID string) (models.IDMapping, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.mappings[deviceID]
	if !ok {
		return models.IDMapping{}, false
	}
	m.PCCategories = slices.Clone(m.PCCategories)
	return m, true
}

// UpdateCategories changes the category metadata of an existing mapping.
// It does nothing when deviceID is not mapped.
func (s *IdentityStore) UpdateCategories(deviceID, deviceCategory string, pcCategories []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.mappings[deviceID]
	if !ok {
		return
	}
	m.DeviceCategory = deviceCategory
	m.PCCategories = slices.Clone(pcCategories)
	m.LastSynced = time.Now().UTC()
	s.mappings[deviceID] = m
}

// SaveBaseline replaces the whole baseline snapshot with hashes.
func (s *IdentityStore) SaveBaseline(hashes map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.baseline = make(map[string]string, len(hashes))
	for id, h := range hashes {
		s.baseline[id] = h
	}
}

// BaselineHash returns the baseline hash recorded for pcID, or "".
func (s *IdentityStore) BaselineHash(pcID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baseline[pcID]
}

// HasFileChanged reports whether the backend record pcID differs from the
// baseline. A record without a baseline entry counts as changed.
func (s *IdentityStore) HasFileChanged(pcID, currentHash string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.baseline[pcID]
	if !ok {
		return true
	}
	return h != currentHash
}

// ValidateMappings reports whether the mapped device IDs are exactly
// deviceIDs: every given ID is mapped and no other ID is.
func (s *IdentityStore) ValidateMappings(deviceIDs []string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{}, len(deviceIDs))
	for _, id := range deviceIDs {
		if _, ok := s.mappings[id]; !ok {
			return false
		}
		seen[id] = struct{}{}
	}
	return len(seen) == len(s.mappings)
}

// SetLastSync records the time and the PC name of a successful sync.
func (s *IdentityStore) SetLastSync(t time.Time, pcName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	utc := t.UTC()
	s.lastSyncTime = &utc
	s.lastSyncPC = pcName
}

// LastSyncTime returns the time of the last successful sync. The second
// result is false when the store has never been synced.
func (s *IdentityStore) LastSyncTime() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.lastSyncTime == nil {
		return time.Time{}, false
	}
	return *s.lastSyncTime, true
}

func (s *IdentityStore) LastSyncPC() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSyncPC
}

// IsFirstSync reports whether the store holds no mappings and has never
// recorded a sync time. Both conditions must hold.
func (s *IdentityStore) IsFirstSync() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.mappings) == 0 && s.lastSyncTime == nil
}

// Clear wipes mappings, baseline and sync metadata. The state file is not
// touched until the next [IdentityStore.Save].
func (s *IdentityStore) Clear() {
	s.mu.Lock()
	s.mappings = make(map[string]models.IDMapping)
	s.reverse = make(map[string]string)
	s.baseline = make(map[string]string)
	s.lastSyncTime = nil
	s.lastSyncPC = ""
	s.mu.Unlock()

	s.notify()
}

// Load replaces the in-memory state with the content of the state file.
// A missing file is not an error: the store is left empty.
func (s *IdentityStore) Load() error {
	data, err := os.ReadFile(s.StatePath())
	if errors.Is(err, os.ErrNotExist) {
		s.Clear()
		return nil
	}
	if err != nil {
		return fmt.Errorf("error reading identity store %s: %w", s.StatePath(), err)
	}

	var file models.SyncStateFile
	if err = json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("error decoding identity store %s: %w", s.StatePath(), err)
	}

	s.mu.Lock()
	s.mappings = make(map[string]models.IDMapping, len(file.Mappings))
	s.reverse = make(map[string]string, len(file.Mappings))
	for _, m := range file.Mappings {
		if m.DeviceID == "" || m.PCID == "" {
			continue
		}
		s.mapLocked(m)
	}

	s.baseline = make(map[string]string, len(file.Baseline))
	for id, h := range file.Baseline {
		s.baseline[id] = h
	}

	s.lastSyncTime = nil
	if file.LastSyncTime != nil {
		t := file.LastSyncTime.UTC()
		s.lastSyncTime = &t
	}
	s.lastSyncPC = file.LastSyncPC
	s.mu.Unlock()

	return nil
}

// Save writes the state file atomically. The write is guarded by an
// exclusive lock on <state file>.lock; [ErrStateLocked] is returned when
// another process holds it.
func (s *IdentityStore) Save() error {
	path := s.StatePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("error creating identity store directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("error locking identity store: %w", err)
	}
	if !locked {
		return ErrStateLocked
	}
	defer lock.Unlock()

	data, err := json.MarshalIndent(s.snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding identity store: %w", err)
	}

	if err = utils.WriteFileAtomic(path, data, 0o600); err != nil {
		return fmt.Errorf("error writing identity store: %w", err)
	}
	return nil
}

// snapshot builds the on-disk representation, mappings sorted by device ID.
func (s *IdentityStore) snapshot() models.SyncStateFile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file := models.SyncStateFile{
		UserName:   s.userName,
		ConduitID:  s.conduitID,
		LastSyncPC: s.lastSyncPC,
		Version:    stateFileVersion,
		Mappings:   make([]models.IDMapping, 0, len(s.mappings)),
		Baseline:   make(map[string]string, len(s.baseline)),
	}
	if s.lastSyncTime != nil {
		t := *s.lastSyncTime
		file.LastSyncTime = &t
	}
	for _, m := range s.mappings {
		m.PCCategories = slices.Clone(m.PCCategories)
		if m.PCCategories == nil {
			m.PCCategories = []string{}
		}
		file.Mappings = append(file.Mappings, m)
	}
	slices.SortFunc(file.Mappings, func(a, b models.IDMapping) int {
		return strings.Compare(a.DeviceID, b.DeviceID)
	})
	for id, h := range s.baseline {
		file.Baseline[id] = h
	}

	return file
}
