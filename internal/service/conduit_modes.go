package service

import (
	"strings"

	"github.com/MKhiriev/go-pim-sync/models"
)

// incrementalSync processes only device records flagged dirty or deleted.
// Backend records are loaded for ID lookups; PC-side edits and records that
// exist only on the PC are not looked at.
func (r *syncRun) incrementalSync() error {
	devRecords, err := r.readDevice()
	if err != nil {
		return err
	}
	_, backByID, err := r.loadBackend()
	if err != nil {
		return err
	}

	changed := make([]models.DeviceRecord, 0, len(devRecords))
	for _, d := range devRecords {
		if d.Dirty || d.Deleted {
			changed = append(changed, d)
		}
	}

	for i := range changed {
		if r.stop() {
			return nil
		}
		d := changed[i]
		r.syncRecord(&d, r.mappedBackend(d, backByID))
		r.progress(i+1, len(changed))
	}
	return nil
}

// fullSync compares every device record with its mapped backend record and
// then handles every backend record no device record was paired with.
func (r *syncRun) fullSync() error {
	devRecords, err := r.readDevice()
	if err != nil {
		return err
	}
	backRecords, backByID, err := r.loadBackend()
	if err != nil {
		return err
	}

	total := len(devRecords) + len(backRecords)
	paired := make(map[string]struct{}, len(devRecords))
	done := 0

	for i := range devRecords {
		if r.stop() {
			return nil
		}
		d := devRecords[i]
		b := r.mappedBackend(d, backByID)
		if b != nil {
			paired[b.ID] = struct{}{}
		}
		r.syncRecord(&d, b)
		done++
		r.progress(done, total)
	}

	for i := range backRecords {
		if _, ok := paired[backRecords[i].ID]; ok {
			done++
			continue
		}
		if r.stop() {
			return nil
		}
		b := backRecords[i]
		r.syncRecord(nil, &b)
		done++
		r.progress(done, total)
	}
	return nil
}

// firstSync pairs records by description when the identity store holds no
// state. Matched pairs are only mapped; unmatched records are copied to the
// other side.
func (r *syncRun) firstSync() error {
	devRecords, err := r.readDevice()
	if err != nil {
		return err
	}
	backRecords, _, err := r.loadBackend()
	if err != nil {
		return err
	}

	descriptions := make(map[string]string, len(backRecords))
	for _, b := range backRecords {
		descriptions[b.ID] = r.backendDescription(b)
	}

	total := len(devRecords) + len(backRecords)
	done := 0

	for i := range devRecords {
		if r.stop() {
			return nil
		}
		d := devRecords[i]
		done++

		if d.Deleted {
			r.result.DeviceStats.Deleted++
			r.progress(done, total)
			continue
		}

		if b := r.findMatch(d, backRecords, descriptions); b != nil {
			devID := deviceKey(d.ID)
			r.sc.State.MapIDs(devID, b.ID)
			r.updateCategories(devID, d.Category)
			r.result.DeviceStats.Unchanged++
			r.log.Debug().
				Str("func", "syncRun.firstSync").
				Str("device_id", devID).
				Str("pc_id", b.ID).
				Msg("matched records by description")
		} else {
			r.createOnBackend(d)
		}
		r.progress(done, total)
	}

	for i := range backRecords {
		if r.stop() {
			return nil
		}
		b := backRecords[i]
		done++
		if b.IsDeleted || r.sc.State.HasPCMapping(b.ID) {
			continue
		}
		r.writeToDevice(b, models.DeviceRecord{})
		r.progress(done, total)
	}
	return nil
}

// findMatch returns the first unmapped live backend record whose
// description equals the device record's, ignoring case and surrounding
// space.
func (r *syncRun) findMatch(d models.DeviceRecord, candidates []models.BackendRecord, descriptions map[string]string) *models.BackendRecord {
	want := strings.ToLower(strings.TrimSpace(r.conduit.codec.DescriptionOf(d)))
	if want == "" {
		return nil
	}

	for i := range candidates {
		b := &candidates[i]
		if b.IsDeleted || r.sc.State.HasPCMapping(b.ID) {
			continue
		}
		if descriptions[b.ID] == want {
			return b
		}
	}
	return nil
}

// backendDescription derives the description of a backend record through
// the codec, falling back to its display name.
func (r *syncRun) backendDescription(b models.BackendRecord) string {
	desc := ""
	if d, err := r.conduit.codec.BackendToDevice(b, r.cc); err == nil {
		desc = r.conduit.codec.DescriptionOf(d)
	}
	if strings.TrimSpace(desc) == "" {
		desc = b.DisplayName
	}
	return strings.ToLower(strings.TrimSpace(desc))
}

// copyPalmToPC makes the backend mirror the device: every live device
// record is written to the backend and mapped backend records whose device
// record is gone are deleted.
func (r *syncRun) copyPalmToPC() error {
	devRecords, err := r.readDevice()
	if err != nil {
		return err
	}
	_, backByID, err := r.loadBackend()
	if err != nil {
		return err
	}

	present := make(map[string]struct{}, len(devRecords))
	for i := range devRecords {
		if r.stop() {
			return nil
		}
		d := devRecords[i]
		if d.Deleted {
			continue
		}
		present[deviceKey(d.ID)] = struct{}{}

		if b := r.mappedBackend(d, backByID); b != nil {
			r.updateOnBackend(d, b.ID)
		} else {
			r.createOnBackend(d)
		}
		r.progress(i+1, len(devRecords))
	}

	for _, devID := range r.sc.State.AllDeviceIDs() {
		if _, ok := present[devID]; ok {
			continue
		}
		if r.stop() {
			return nil
		}

		pcID := r.sc.State.PCIDForDevice(devID)
		_, exists := backByID[pcID]
		if r.deleteOnBackend(devID, pcID) {
			r.sc.State.RemoveDeviceMapping(devID)
			if exists {
				r.result.PCStats.Deleted++
			}
		}
	}
	return nil
}

// copyPCToPalm writes every live backend record to the device, reusing the
// mapped device ID when there is one. Device records without a backend
// counterpart are left on the device.
func (r *syncRun) copyPCToPalm() error {
	devRecords, err := r.readDevice()
	if err != nil {
		return err
	}
	backRecords, _, err := r.loadBackend()
	if err != nil {
		return err
	}

	devByID := make(map[uint32]models.DeviceRecord, len(devRecords))
	for _, d := range devRecords {
		devByID[d.ID] = d
	}

	for i := range backRecords {
		if r.stop() {
			return nil
		}
		b := backRecords[i]
		if b.IsDeleted {
			continue
		}
		target := models.DeviceRecord{ID: parseDeviceKey(r.sc.State.DeviceIDForPC(b.ID))}
		if d, ok := devByID[target.ID]; ok && target.ID != 0 {
			target = d
		}
		r.writeToDevice(b, target)
		r.progress(i+1, len(backRecords))
	}
	return nil
}

// mappedBackend returns the backend record mapped to d, or nil when d has
// no mapping or the mapped record no longer exists.
func (r *syncRun) mappedBackend(d models.DeviceRecord, backByID map[string]models.BackendRecord) *models.BackendRecord {
	pcID := r.sc.State.PCIDForDevice(deviceKey(d.ID))
	if pcID == "" {
		return nil
	}
	b, ok := backByID[pcID]
	if !ok {
		return nil
	}
	return &b
}
