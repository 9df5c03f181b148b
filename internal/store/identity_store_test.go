package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-pim-sync/models"
)

func newTestIdentityStore(t *testing.T) *IdentityStore {
	t.Helper()
	return NewIdentityStore(t.TempDir(), "Jane Doe", "memo")
}

func TestIdentityStore_MapIDs_Bijection(t *testing.T) {
	s := newTestIdentityStore(t)

	pairs := map[string]string{"1": "pc-a", "2": "pc-b", "300": "pc-c"}
	for d, p := range pairs {
		s.MapIDs(d, p)
	}

	for d, p := range pairs {
		assert.Equal(t, p, s.PCIDForDevice(d))
		assert.Equal(t, d, s.DeviceIDForPC(p))
		assert.True(t, s.HasDeviceMapping(d))
		assert.True(t, s.HasPCMapping(p))
	}
	assert.Equal(t, []string{"1", "2", "300"}, s.AllDeviceIDs())
	assert.Equal(t, []string{"pc-a", "pc-b", "pc-c"}, s.AllPCIDs())
}

func TestIdentityStore_MapIDs_RemapPrunesOldPair(t *testing.T) {
	t.Run("same device new pc id", func(t *testing.T) {
		s := newTestIdentityStore(t)
		s.MapIDs("1", "p1")
		s.MapIDs("1", "p2")

		assert.False(t, s.HasPCMapping("p1"))
		assert.Empty(t, s.DeviceIDForPC("p1"))
		assert.Equal(t, "p2", s.PCIDForDevice("1"))
		assert.Equal(t, 1, s.MappingCount())
	})

	t.Run("same pc id new device", func(t *testing.T) {
		s := newTestIdentityStore(t)
		s.MapIDs("1", "p1")
		s.MapIDs("2", "p1")

		assert.False(t, s.HasDeviceMapping("1"))
		assert.Equal(t, "2", s.DeviceIDForPC("p1"))
		assert.Equal(t, 1, s.MappingCount())
	})

	t.Run("crossing pairs", func(t *testing.T) {
		s := newTestIdentityStore(t)
		s.MapIDs("1", "p1")
		s.MapIDs("2", "p2")
		s.MapIDs("1", "p2")

		assert.Equal(t, "p2", s.PCIDForDevice("1"))
		assert.False(t, s.HasDeviceMapping("2"))
		assert.False(t, s.HasPCMapping("p1"))
		assert.Equal(t, 1, s.MappingCount())
	})
}

func TestIdentityStore_RemoveMappings(t *testing.T) {
	s := newTestIdentityStore(t)
	s.MapIDs("1", "p1")
	s.MapIDs("2", "p2")

	s.RemoveDeviceMapping("1")
	assert.False(t, s.HasDeviceMapping("1"))
	assert.False(t, s.HasPCMapping("p1"))

	s.RemovePCMapping("p2")
	assert.False(t, s.HasDeviceMapping("2"))
	assert.False(t, s.HasPCMapping("p2"))

	// absent IDs are a no-op
	s.RemoveDeviceMapping("missing")
	s.RemovePCMapping("missing")
	assert.Zero(t, s.MappingCount())
}

func TestIdentityStore_IsFirstSync(t *testing.T) {
	s := newTestIdentityStore(t)
	assert.True(t, s.IsFirstSync())

	s.MapIDs("1", "p1")
	assert.False(t, s.IsFirstSync())

	s.RemoveDeviceMapping("1")
	assert.True(t, s.IsFirstSync())

	// a recorded sync time alone is enough to leave first-sync state
	s.SetLastSync(time.Now(), "desk")
	assert.False(t, s.IsFirstSync())
}

func TestIdentityStore_HasFileChanged(t *testing.T) {
	s := newTestIdentityStore(t)
	s.SaveBaseline(map[string]string{"p1": "aaa"})

	assert.True(t, s.HasFileChanged("p2", "aaa"), "no baseline entry")
	assert.False(t, s.HasFileChanged("p1", "aaa"), "same hash")
	assert.True(t, s.HasFileChanged("p1", "bbb"), "different hash")
	assert.Equal(t, "aaa", s.BaselineHash("p1"))
	assert.Empty(t, s.BaselineHash("p2"))
}

func TestIdentityStore_SaveBaseline_Replaces(t *testing.T) {
	s := newTestIdentityStore(t)
	s.SaveBaseline(map[string]string{"p1": "aaa", "p2": "bbb"})

	in := map[string]string{"p3": "ccc"}
	s.SaveBaseline(in)
	in["p3"] = "mutated"

	assert.Empty(t, s.BaselineHash("p1"))
	assert.Empty(t, s.BaselineHash("p2"))
	assert.Equal(t, "ccc", s.BaselineHash("p3"))
}

func TestIdentityStore_UpdateCategories(t *testing.T) {
	s := newTestIdentityStore(t)
	s.MapIDs("1", "p1")

	s.UpdateCategories("1", "Business", []string{"Work", "Meetings"})
	s.UpdateCategories("missing", "Personal", nil)

	m, ok := s.GetMapping("1")
	require.True(t, ok)
	assert.Equal(t, "Business", m.DeviceCategory)
	assert.Equal(t, []string{"Work", "Meetings"}, m.PCCategories)

	m.PCCategories[0] = "changed"
	again, _ := s.GetMapping("1")
	assert.Equal(t, "Work", again.PCCategories[0], "GetMapping must return a copy")

	_, ok = s.GetMapping("missing")
	assert.False(t, ok)
}

func TestIdentityStore_ValidateMappings(t *testing.T) {
	s := newTestIdentityStore(t)
	s.MapIDs("1", "p1")
	s.MapIDs("2", "p2")

	assert.True(t, s.ValidateMappings([]string{"2", "1"}))
	assert.False(t, s.ValidateMappings([]string{"1", "2", "3"}), "unmapped id")
	assert.False(t, s.ValidateMappings([]string{"1"}), "extra mapping")
	assert.False(t, s.ValidateMappings([]string{"1", "1"}), "duplicates do not cover the set")
	assert.False(t, s.ValidateMappings(nil))

	empty := newTestIdentityStore(t)
	assert.True(t, empty.ValidateMappings(nil))
}

func TestIdentityStore_SaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := NewIdentityStore(dir, "Jane Doe", "contacts")

	s.MapIDs("10", "contacts/a.yaml")
	s.MapIDs("11", "contacts/b.yaml")
	s.MapIDs("12", "contacts/c.yaml")
	s.UpdateCategories("11", "Business", []string{"Zeta", "Alpha", "Mid"})
	s.SaveBaseline(map[string]string{"contacts/a.yaml": "h1", "contacts/b.yaml": "h2"})
	syncedAt := time.Date(2026, 3, 14, 15, 9, 26, 0, time.FixedZone("X", 3600))
	s.SetLastSync(syncedAt, "workstation-7")

	require.NoError(t, s.Save())

	loaded := NewIdentityStore(dir, "Jane Doe", "contacts")
	require.NoError(t, loaded.Load())

	assert.Equal(t, s.AllDeviceIDs(), loaded.AllDeviceIDs())
	assert.Equal(t, s.AllPCIDs(), loaded.AllPCIDs())
	for _, d := range s.AllDeviceIDs() {
		want, _ := s.GetMapping(d)
		got, ok := loaded.GetMapping(d)
		require.True(t, ok)
		assert.Equal(t, want.PCID, got.PCID)
		assert.Equal(t, want.DeviceCategory, got.DeviceCategory)
		assert.True(t, want.LastSynced.Equal(got.LastSynced))
		assert.Equal(t, want.Archived, got.Archived)
	}

	m, _ := loaded.GetMapping("11")
	assert.Equal(t, []string{"Zeta", "Alpha", "Mid"}, m.PCCategories)

	assert.Equal(t, "h1", loaded.BaselineHash("contacts/a.yaml"))
	assert.Equal(t, "h2", loaded.BaselineHash("contacts/b.yaml"))
	assert.Equal(t, "workstation-7", loaded.LastSyncPC())

	got, ok := loaded.LastSyncTime()
	require.True(t, ok)
	assert.True(t, syncedAt.Equal(got))
	assert.False(t, loaded.IsFirstSync())
}

func TestIdentityStore_SaveWritesDocumentedLayout(t *testing.T) {
	dir := t.TempDir()
	s := NewIdentityStore(dir, "Jane Doe", "memo")
	s.MapIDs("1", "memo/x.md")
	s.SetLastSync(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), "pc")
	require.NoError(t, s.Save())

	assert.Equal(t, filepath.Join(dir, "Jane_Doe", "memo.json"), s.StatePath())

	raw, err := os.ReadFile(s.StatePath())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "Jane Doe", doc["userName"])
	assert.Equal(t, "memo", doc["conduitId"])
	assert.Equal(t, "2026-01-02T03:04:05Z", doc["lastSyncTime"])
	assert.Equal(t, "pc", doc["lastSyncPC"])
	assert.EqualValues(t, 1, doc["version"])
	assert.Contains(t, doc, "baseline")

	mappings, ok := doc["mappings"].([]any)
	require.True(t, ok)
	require.Len(t, mappings, 1)
	entry := mappings[0].(map[string]any)
	for _, key := range []string{"deviceId", "pcId", "deviceCategory", "pcCategories", "lastSynced", "archived"} {
		assert.Contains(t, entry, key)
	}
}

func TestIdentityStore_LoadMissingFile(t *testing.T) {
	s := newTestIdentityStore(t)
	s.MapIDs("1", "p1")

	require.NoError(t, s.Load())
	assert.True(t, s.IsFirstSync())
}

func TestIdentityStore_LoadCorruptFile(t *testing.T) {
	s := newTestIdentityStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.StatePath()), 0o700))
	require.NoError(t, os.WriteFile(s.StatePath(), []byte("{not json"), 0o600))

	assert.Error(t, s.Load())
}

func TestIdentityStore_LoadRebuildsBijection(t *testing.T) {
	s := newTestIdentityStore(t)
	file := models.SyncStateFile{
		UserName:  "Jane Doe",
		ConduitID: "memo",
		Version:   1,
		Mappings: []models.IDMapping{
			{DeviceID: "1", PCID: "p1"},
			{DeviceID: "2", PCID: "p1"},
			{DeviceID: "", PCID: "p9"},
		},
	}
	raw, err := json.Marshal(file)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.StatePath()), 0o700))
	require.NoError(t, os.WriteFile(s.StatePath(), raw, 0o600))

	require.NoError(t, s.Load())
	assert.Equal(t, []string{"2"}, s.AllDeviceIDs())
	assert.Equal(t, "2", s.DeviceIDForPC("p1"))
	assert.False(t, s.HasPCMapping("p9"))
}

func TestIdentityStore_Clear(t *testing.T) {
	s := newTestIdentityStore(t)
	s.MapIDs("1", "p1")
	s.SaveBaseline(map[string]string{"p1": "h"})
	s.SetLastSync(time.Now(), "pc")

	s.Clear()

	assert.True(t, s.IsFirstSync())
	assert.Empty(t, s.BaselineHash("p1"))
	assert.Empty(t, s.LastSyncPC())
}

func TestIdentityStore_OnChange(t *testing.T) {
	s := newTestIdentityStore(t)
	var calls atomic.Int32
	s.OnChange(func() {
		calls.Add(1)
		_ = s.MappingCount()
	})

	s.MapIDs("1", "p1")
	s.RemoveDeviceMapping("1")
	s.RemoveDeviceMapping("1")

	assert.EqualValues(t, 2, calls.Load())
}

func TestIdentityStore_SaveLocked(t *testing.T) {
	s := newTestIdentityStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.StatePath()), 0o700))

	other := flock.New(s.StatePath() + ".lock")
	locked, err := other.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer other.Unlock()

	assert.ErrorIs(t, s.Save(), ErrStateLocked)
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Jane Doe", "Jane_Doe"},
		{"memo", "memo"},
		{"", "default"},
		{"  ", "default"},
		{"..", "default"},
		{"a/b\\c", "a_b_c"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeName(tt.in))
		})
	}
}
