package client

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-pim-sync/models"
)

func TestRenderSummary(t *testing.T) {
	start := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	res := models.SyncResult{
		Success:     true,
		DeviceStats: models.SyncStats{Created: 2},
		PCStats:     models.SyncStats{Updated: 3, Conflicts: 1},
		Warnings: []models.Warning{
			{ConduitID: "memo", Kind: models.WarningConflict, Message: "both sides changed"},
		},
		StartTime: start,
		EndTime:   start.Add(1500 * time.Millisecond),
	}

	out := renderSummary(res, models.HotSync)

	assert.Contains(t, out, "hotsync")
	assert.Contains(t, out, "sync complete")
	assert.Contains(t, out, "1 warning(s)")
	assert.Contains(t, out, "[memo] conflict: both sides changed")
	assert.Contains(t, out, "took 1.5s")
}

func TestPrintSummary_Failure(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, models.SyncResult{ErrorMessage: "device not connected"}, models.FullSync)

	assert.Contains(t, buf.String(), "sync failed")
	assert.Contains(t, buf.String(), "device not connected")
	assert.NotContains(t, buf.String(), "took")
}
