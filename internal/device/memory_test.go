package device

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-pim-sync/models"
)

func TestMemoryLink_WriteAssignsIDs(t *testing.T) {
	ctx := context.Background()
	link := NewMemoryLink("alice")

	h, err := link.OpenCollection(ctx, "MemoDB", true)
	require.NoError(t, err)

	id1, err := link.WriteRecord(ctx, h, models.DeviceRecord{RawData: []byte("a\x00")})
	require.NoError(t, err)
	id2, err := link.WriteRecord(ctx, h, models.DeviceRecord{RawData: []byte("b\x00")})
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	// explicit IDs replace in place and bump the ID counter
	_, err = link.WriteRecord(ctx, h, models.DeviceRecord{ID: id1, RawData: []byte("a2\x00")})
	require.NoError(t, err)
	id3, err := link.WriteRecord(ctx, h, models.DeviceRecord{ID: 100})
	require.NoError(t, err)
	assert.Equal(t, uint32(100), id3)
	id4, err := link.WriteRecord(ctx, h, models.DeviceRecord{})
	require.NoError(t, err)
	assert.Equal(t, uint32(101), id4)

	recs, err := link.ReadAllRecords(ctx, h)
	require.NoError(t, err)
	require.Len(t, recs, 4)
	assert.Equal(t, []byte("a2\x00"), recs[0].RawData)
}

func TestMemoryLink_ReadOnlyHandle(t *testing.T) {
	ctx := context.Background()
	link := NewMemoryLink("alice")
	link.CreateCollection("MemoDB", nil)

	h, err := link.OpenCollection(ctx, "MemoDB", false)
	require.NoError(t, err)

	_, err = link.WriteRecord(ctx, h, models.DeviceRecord{})
	assert.ErrorIs(t, err, ErrReadOnly)
	assert.ErrorIs(t, link.DeleteRecord(ctx, h, 1), ErrReadOnly)
}

func TestMemoryLink_OpenMissingReadOnly(t *testing.T) {
	_, err := NewMemoryLink("alice").OpenCollection(context.Background(), "Nope", false)
	assert.ErrorIs(t, err, ErrCollectionNotFound)
}

func TestMemoryLink_Disconnected(t *testing.T) {
	ctx := context.Background()
	link := NewMemoryLink("alice")
	h, err := link.OpenCollection(ctx, "MemoDB", true)
	require.NoError(t, err)

	link.Disconnect()
	assert.False(t, link.IsConnected())

	_, err = link.ReadAllRecords(ctx, h)
	assert.ErrorIs(t, err, ErrNotConnected)
	_, err = link.OpenCollection(ctx, "MemoDB", true)
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestMemoryLink_DeleteRecord(t *testing.T) {
	ctx := context.Background()
	link := NewMemoryLink("alice")
	id := link.PutRecord("MemoDB", models.DeviceRecord{RawData: []byte("x")})

	h, err := link.OpenCollection(ctx, "MemoDB", true)
	require.NoError(t, err)

	require.NoError(t, link.DeleteRecord(ctx, h, id))
	assert.ErrorIs(t, link.DeleteRecord(ctx, h, id), ErrRecordNotFound)
	assert.Empty(t, link.Records("MemoDB"))
}

func TestMemoryLink_InvalidHandle(t *testing.T) {
	ctx := context.Background()
	link := NewMemoryLink("alice")

	assert.ErrorIs(t, link.CloseCollection(ctx, 42), ErrInvalidHandle)
	_, err := link.ReadAllRecords(ctx, 42)
	assert.ErrorIs(t, err, ErrInvalidHandle)
}

func TestMemoryLink_AppInfo(t *testing.T) {
	ctx := context.Background()
	link := NewMemoryLink("alice")

	h, err := link.OpenCollection(ctx, "AddressDB", true)
	require.NoError(t, err)

	info, err := link.ReadAppInfoBlock(ctx, h)
	require.NoError(t, err)
	assert.Nil(t, info)

	require.NoError(t, link.WriteAppInfoBlock(ctx, h, []byte{1, 2, 3}))
	info, err = link.ReadAppInfoBlock(ctx, h)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, info)
}

func TestMemoryLink_Finalizer(t *testing.T) {
	ctx := context.Background()
	link := NewMemoryLink("alice")
	link.PutRecord("ToDoDB", models.DeviceRecord{ID: 1, Dirty: true})
	link.PutRecord("ToDoDB", models.DeviceRecord{ID: 2, Deleted: true})
	link.PutRecord("ToDoDB", models.DeviceRecord{ID: 3})

	h, err := link.OpenCollection(ctx, "ToDoDB", true)
	require.NoError(t, err)

	require.NoError(t, link.ResetSyncFlags(ctx, h, nil))
	require.NoError(t, link.PurgeDeletedRecords(ctx, h, nil))

	recs := link.Records("ToDoDB")
	require.Len(t, recs, 2)
	for _, rec := range recs {
		assert.False(t, rec.Dirty)
		assert.False(t, rec.Deleted)
	}
}

func TestMemoryLink_FinalizerKeepsListedRecords(t *testing.T) {
	ctx := context.Background()
	link := NewMemoryLink("alice")
	link.PutRecord("ToDoDB", models.DeviceRecord{ID: 1, Dirty: true})
	link.PutRecord("ToDoDB", models.DeviceRecord{ID: 2, Dirty: true})
	link.PutRecord("ToDoDB", models.DeviceRecord{ID: 3, Deleted: true})
	link.PutRecord("ToDoDB", models.DeviceRecord{ID: 4, Deleted: true})

	h, err := link.OpenCollection(ctx, "ToDoDB", true)
	require.NoError(t, err)

	require.NoError(t, link.ResetSyncFlags(ctx, h, []uint32{2}))
	require.NoError(t, link.PurgeDeletedRecords(ctx, h, []uint32{4}))

	recs := link.Records("ToDoDB")
	require.Len(t, recs, 3)
	assert.False(t, recs[0].Dirty)
	assert.Equal(t, uint32(2), recs[1].ID)
	assert.True(t, recs[1].Dirty)
	assert.Equal(t, uint32(4), recs[2].ID)
	assert.True(t, recs[2].Deleted)
}

func TestMemoryLink_SnapshotIsDeepCopy(t *testing.T) {
	link := NewMemoryLink("alice")
	link.PutRecord("MemoDB", models.DeviceRecord{ID: 1, RawData: []byte("abc")})

	img := link.Snapshot()
	img.Collections["MemoDB"].Records[0].RawData[0] = 'X'

	assert.Equal(t, []byte("abc"), link.Records("MemoDB")[0].RawData)
	assert.Equal(t, []string{"MemoDB"}, link.CollectionNames())
}
