package service

import (
	"github.com/MKhiriev/go-pim-sync/internal/store"
	"github.com/MKhiriev/go-pim-sync/models"
)

// BaselineDetector reports a backend record as modified when its content
// hash differs from the baseline captured after the last successful sync.
// Records without a baseline entry count as modified.
func BaselineDetector(state *store.IdentityStore, rec models.BackendRecord) bool {
	if state == nil {
		return false
	}
	return state.HasFileChanged(rec.ID, rec.ContentHash)
}
