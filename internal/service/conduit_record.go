package service

import (
	"github.com/MKhiriev/go-pim-sync/internal/codec"
	"github.com/MKhiriev/go-pim-sync/models"
)

// syncRecord reconciles a device record d with a backend record b. Either
// may be nil, never both.
func (r *syncRun) syncRecord(d *models.DeviceRecord, b *models.BackendRecord) {
	switch {
	case d != nil && b != nil:
		r.syncPair(*d, *b)

	case d != nil:
		devID := deviceKey(d.ID)
		if d.Deleted {
			r.sc.State.RemoveDeviceMapping(devID)
			r.result.DeviceStats.Deleted++
			return
		}
		r.createOnBackend(*d)

	case b != nil:
		if b.IsDeleted {
			r.sc.State.RemovePCMapping(b.ID)
			r.result.PCStats.Deleted++
			return
		}
		r.writeToDevice(*b, models.DeviceRecord{})
	}
}

func (r *syncRun) syncPair(d models.DeviceRecord, b models.BackendRecord) {
	devID := deviceKey(d.ID)

	switch {
	case d.Deleted && b.IsDeleted:
		r.sc.State.RemoveDeviceMapping(devID)
		r.result.DeviceStats.Deleted++
		r.result.PCStats.Deleted++

	case d.Deleted:
		if r.deleteOnBackend(devID, b.ID) {
			r.sc.State.RemoveDeviceMapping(devID)
			r.result.PCStats.Deleted++
		}

	case b.IsDeleted:
		if r.deleteOnDevice(d.ID, b.ID) {
			r.sc.State.RemovePCMapping(b.ID)
			r.result.DeviceStats.Deleted++
		}

	default:
		deviceModified := d.Dirty
		backendModified := r.backendModified(b)

		switch {
		case deviceModified && backendModified:
			r.resolveConflict(d, b)
		case deviceModified:
			r.updateOnBackend(d, b.ID)
		case backendModified:
			r.writeToDevice(b, d)
		default:
			r.result.DeviceStats.Unchanged++
		}
	}
}

func (r *syncRun) backendModified(b models.BackendRecord) bool {
	if r.sc.BackendModified == nil {
		return false
	}
	return r.sc.BackendModified(r.sc.State, b)
}

// resolveConflict applies the conflict policy to a pair changed on both
// sides. Pairs whose content is already identical are not conflicts.
func (r *syncRun) resolveConflict(d models.DeviceRecord, b models.BackendRecord) {
	devID := deviceKey(d.ID)

	if r.conduit.codec.RecordsEqual(d, b) {
		r.result.DeviceStats.Unchanged++
		return
	}

	r.log.Info().
		Str("func", "syncRun.resolveConflict").
		Str("device_id", devID).
		Str("pc_id", b.ID).
		Str("policy", r.sc.ConflictPolicy.String()).
		Msg("record changed on both sides")

	switch r.sc.ConflictPolicy {
	case models.PalmWins:
		r.updateOnBackend(d, b.ID)

	case models.PCWins:
		r.writeToDevice(b, d)

	case models.Duplicate:
		// split the pair: the device record gets a new backend copy and
		// the backend record gets a new device copy
		if _, ok := r.createOnBackend(d); !ok {
			r.retain(d.ID, b.ID)
			return
		}
		r.writeToDevice(b, models.DeviceRecord{})

	case models.AskUser:
		r.unresolved(d, b, "conflict left for the user to resolve")

	case models.NewestWins:
		r.warn(models.WarningPolicy, devID, b.ID, "newest-wins is not implemented; conflict skipped")
		r.unresolved(d, b, "conflict skipped")

	default:
		r.unresolved(d, b, "conflict skipped")
	}
}

func (r *syncRun) unresolved(d models.DeviceRecord, b models.BackendRecord, msg string) {
	r.result.PCStats.Conflicts++
	r.retain(d.ID, b.ID)
	r.warn(models.WarningConflict, deviceKey(d.ID), b.ID, msg)

	if r.sc.OnConflict != nil {
		r.sc.OnConflict(models.Conflict{
			ConduitID: r.conduit.info.ID,
			Policy:    r.sc.ConflictPolicy,
			Device:    d,
			Backend:   b,
		})
	}
}

// createOnBackend converts d, creates it in the backend collection and maps
// the new pair.
func (r *syncRun) createOnBackend(d models.DeviceRecord) (string, bool) {
	devID := deviceKey(d.ID)

	rec, err := r.conduit.codec.DeviceToBackend(d, r.cc)
	if err != nil {
		r.conversionError(&r.result.PCStats, devID, "", err)
		return "", false
	}

	pcID, err := r.sc.Backend.CreateRecord(r.ctx, r.sc.CollectionID, rec)
	if err != nil {
		r.writeError(&r.result.PCStats, devID, "", "creating backend record", err)
		return "", false
	}

	r.sc.State.MapIDs(devID, pcID)
	r.updateCategories(devID, d.Category)
	r.result.PCStats.Created++
	return pcID, true
}

// updateOnBackend replaces the content of backend record pcID with d.
func (r *syncRun) updateOnBackend(d models.DeviceRecord, pcID string) bool {
	devID := deviceKey(d.ID)

	rec, err := r.conduit.codec.DeviceToBackend(d, r.cc)
	if err != nil {
		r.conversionError(&r.result.PCStats, devID, pcID, err)
		return false
	}
	rec.ID = pcID

	if err = r.sc.Backend.UpdateRecord(r.ctx, rec); err != nil {
		r.writeError(&r.result.PCStats, devID, pcID, "updating backend record", err)
		return false
	}

	r.updateCategories(devID, d.Category)
	r.result.PCStats.Updated++
	return true
}

// writeToDevice converts b and writes it over the device record target; a
// target with ID 0 creates a new device record. The target's category is
// kept when b carries none. The written record is mapped to b afterwards.
func (r *syncRun) writeToDevice(b models.BackendRecord, target models.DeviceRecord) (uint32, bool) {
	deviceID := target.ID
	cc := r.cc
	cc.DeviceCategory = target.Category

	rec, err := r.conduit.codec.BackendToDevice(b, cc)
	if err != nil {
		r.conversionError(&r.result.DeviceStats, deviceKey(deviceID), b.ID, err)
		return 0, false
	}
	rec.ID = deviceID

	newID, err := r.sc.Device.WriteRecord(r.ctx, r.handle, rec)
	if err != nil {
		r.writeError(&r.result.DeviceStats, deviceKey(deviceID), b.ID, "writing device record", err)
		return 0, false
	}

	devID := deviceKey(newID)
	r.sc.State.MapIDs(devID, b.ID)
	r.updateCategories(devID, rec.Category)

	if deviceID == 0 {
		r.result.DeviceStats.Created++
	} else {
		r.result.DeviceStats.Updated++
	}
	return newID, true
}

// deleteOnBackend removes backend record pcID. A record that is already
// gone counts as deleted.
func (r *syncRun) deleteOnBackend(devID, pcID string) bool {
	if pcID == "" {
		return true
	}
	err := r.sc.Backend.DeleteRecord(r.ctx, pcID)
	if err != nil && !isNotFound(err) {
		r.writeError(&r.result.PCStats, devID, pcID, "deleting backend record", err)
		return false
	}
	return true
}

func (r *syncRun) deleteOnDevice(id uint32, pcID string) bool {
	err := r.sc.Device.DeleteRecord(r.ctx, r.handle, id)
	if err != nil && !isNotFound(err) {
		r.writeError(&r.result.DeviceStats, deviceKey(id), pcID, "deleting device record", err)
		return false
	}
	return true
}

func (r *syncRun) updateCategories(devID string, category int) {
	name := codec.CategoryName(r.cc.Categories, category)
	r.sc.State.UpdateCategories(devID, name, []string{name})
}

func (r *syncRun) conversionError(stats *models.SyncStats, devID, pcID string, err error) {
	stats.Errors++
	r.retain(parseDeviceKey(devID), pcID)
	r.log.Err(err).
		Str("func", "syncRun.conversionError").
		Str("device_id", devID).
		Str("pc_id", pcID).
		Msg("record conversion failed")
	r.warn(models.WarningConversion, devID, pcID, err.Error())
}

func (r *syncRun) writeError(stats *models.SyncStats, devID, pcID, op string, err error) {
	stats.Errors++
	r.retain(parseDeviceKey(devID), pcID)
	r.log.Err(err).
		Str("func", "syncRun.writeError").
		Str("device_id", devID).
		Str("pc_id", pcID).
		Msg(op + " failed")
	r.warn(models.WarningWrite, devID, pcID, op+": "+err.Error())
}
