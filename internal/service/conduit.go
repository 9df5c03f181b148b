// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/MKhiriev/go-pim-sync/internal/codec"
	"github.com/MKhiriev/go-pim-sync/internal/device"
	"github.com/MKhiriev/go-pim-sync/internal/logger"
	"github.com/MKhiriev/go-pim-sync/internal/store"
	"github.com/MKhiriev/go-pim-sync/models"
)

// ConduitInfo describes a conduit: which device collection it reads, which
// backend collection it writes and which record type its codec handles.
type ConduitInfo struct {
	ID               string
	DisplayName      string
	DeviceCollection string
	CollectionID     string
	RecordType       string

	// RunBefore and RunAfter name conduits this one should be ordered
	// against. SyncEngine runs conduits in registration order and does not
	// consult them.
	RunBefore []string
	RunAfter  []string
}

// Conduit reconciles the records of one PIM type between a device
// collection and a backend collection. The algorithm is type-agnostic; all
// knowledge about record payloads lives in the codec.
type Conduit struct {
	info   ConduitInfo
	codec  codec.RecordCodec
	logger *logger.Logger
}

// NewConduit returns a conduit. Empty CollectionID defaults to the conduit
// ID and empty RecordType to the codec's record type.
func NewConduit(info ConduitInfo, rc codec.RecordCodec, log *logger.Logger) *Conduit {
	if info.CollectionID == "" {
		info.CollectionID = info.ID
	}
	if info.RecordType == "" {
		info.RecordType = rc.RecordType()
	}
	if info.DisplayName == "" {
		info.DisplayName = info.ID
	}
	return &Conduit{
		info:   info,
		codec:  rc,
		logger: log.WithConduit(info.ID),
	}
}

func (c *Conduit) ID() string { return c.info.ID }

func (c *Conduit) Info() ConduitInfo { return c.info }

// Sync runs one pass for sc.Mode and returns its result. Prerequisite and
// load failures end the pass with Success=false; per-record failures are
// counted as errors and reported as warnings without aborting the pass.
//
// A cancelled pass keeps the changes already applied, saves the mappings
// created so far and does not record a sync time.
func (c *Conduit) Sync(ctx context.Context, sc *SyncContext) models.SyncResult {
	result := models.SyncResult{StartTime: time.Now().UTC()}

	if err := c.validate(sc); err != nil {
		return c.fail(result, err)
	}

	if sc.CollectionID == "" {
		sc.CollectionID = c.info.CollectionID
	}
	sc.IsFirstSync = sc.State.IsFirstSync()

	h, err := sc.Device.OpenCollection(ctx, c.info.DeviceCollection, true)
	if err != nil {
		return c.fail(result, fmt.Errorf("error opening device collection %s: %w", c.info.DeviceCollection, err))
	}

	run := &syncRun{
		conduit: c,
		ctx:     ctx,
		sc:      sc,
		handle:  h,
		result:  &result,
		log:     c.logger,
	}
	run.loadCategories()

	c.logger.Info().
		Str("func", "Conduit.Sync").
		Str("mode", sc.Mode.String()).
		Bool("first_sync", sc.IsFirstSync).
		Msg("conduit sync started")

	switch {
	case sc.IsFirstSync:
		err = run.firstSync()
	case sc.Mode == models.HotSync:
		err = run.incrementalSync()
	case sc.Mode == models.FullSync:
		err = run.fullSync()
	case sc.Mode == models.CopyPalmToPC:
		err = run.copyPalmToPC()
	case sc.Mode == models.CopyPCToPalm:
		err = run.copyPCToPalm()
	default:
		err = fmt.Errorf("unsupported sync mode %d", sc.Mode)
	}

	if err == nil && !run.cancelled {
		run.finalizeDevice()
	}

	if closeErr := sc.Device.CloseCollection(ctx, h); closeErr != nil {
		c.logger.Err(closeErr).Str("func", "Conduit.Sync").Msg("error closing device collection")
		run.warn(models.WarningWrite, "", "", "closing device collection: "+closeErr.Error())
	}

	if err != nil {
		return c.fail(result, err)
	}

	if run.cancelled {
		run.warn(models.WarningCancelled, "", "", "sync cancelled before all records were processed")
	} else {
		run.captureBaseline()
		sc.State.SetLastSync(time.Now(), sc.PCName)
	}

	if saveErr := sc.State.Save(); saveErr != nil {
		return c.fail(result, fmt.Errorf("error saving identity store: %w", saveErr))
	}

	result.Success = true
	result.EndTime = time.Now().UTC()

	c.logger.Info().
		Str("func", "Conduit.Sync").
		Bool("cancelled", run.cancelled).
		Interface("device_stats", result.DeviceStats).
		Interface("pc_stats", result.PCStats).
		Int("warnings", len(result.Warnings)).
		Msg("conduit sync finished")

	return result
}

func (c *Conduit) validate(sc *SyncContext) error {
	switch {
	case sc == nil || sc.Device == nil:
		return ErrNoDeviceLink
	case !sc.Device.IsConnected():
		return ErrDeviceNotConnected
	case sc.Backend == nil:
		return ErrNoBackend
	case sc.State == nil:
		return ErrNoIdentityStore
	}
	return nil
}

func (c *Conduit) fail(result models.SyncResult, err error) models.SyncResult {
	c.logger.Err(err).Str("func", "Conduit.Sync").Msg("conduit sync failed")

	result.Success = false
	result.ErrorMessage = fmt.Sprintf("%s: %s", c.info.ID, err.Error())
	result.EndTime = time.Now().UTC()
	return result
}

// syncRun holds the state of one Conduit.Sync pass.
type syncRun struct {
	conduit *Conduit
	ctx     context.Context
	sc      *SyncContext
	handle  device.Handle
	cc      codec.Context
	result  *models.SyncResult
	log     *logger.Logger

	cancelled bool

	// records the pass could not reconcile; their device flags and
	// baseline hashes are left for the next pass
	retainedDevice map[uint32]struct{}
	retainedPC     map[string]struct{}
}

func (r *syncRun) loadCategories() {
	r.cc = codec.Context{CollectionID: r.sc.CollectionID}

	appInfo, err := r.sc.Device.ReadAppInfoBlock(r.ctx, r.handle)
	if err != nil {
		r.log.Debug().Err(err).Str("func", "syncRun.loadCategories").Msg("no category metadata")
		return
	}
	r.cc.Categories = codec.ParseCategories(appInfo)
}

// stop reports whether the pass must stop before the next record.
func (r *syncRun) stop() bool {
	if r.cancelled {
		return true
	}
	if r.ctx.Err() != nil || (r.sc.Cancelled != nil && r.sc.Cancelled()) {
		r.cancelled = true
		r.log.Warn().Str("func", "syncRun.stop").Msg("sync cancelled")
	}
	return r.cancelled
}

func (r *syncRun) progress(done, total int) {
	if r.sc.Progress != nil {
		r.sc.Progress(r.conduit.info.ID, done, total)
	}
}

func (r *syncRun) warn(kind models.WarningKind, deviceID, pcID, msg string) {
	r.result.Warnings = append(r.result.Warnings, models.Warning{
		ConduitID: r.conduit.info.ID,
		Kind:      kind,
		DeviceID:  deviceID,
		PCID:      pcID,
		Message:   msg,
	})
}

// retain marks a record whose change was not reconciled. A zero deviceID or
// an empty pcID leaves that side alone.
func (r *syncRun) retain(deviceID uint32, pcID string) {
	if deviceID != 0 {
		if r.retainedDevice == nil {
			r.retainedDevice = make(map[uint32]struct{})
		}
		r.retainedDevice[deviceID] = struct{}{}
	}
	if pcID != "" {
		if r.retainedPC == nil {
			r.retainedPC = make(map[string]struct{})
		}
		r.retainedPC[pcID] = struct{}{}
	}
}

// finalizeDevice runs the end-of-sync cleanup on links that support it.
// Retained records keep their dirty and deleted flags.
func (r *syncRun) finalizeDevice() {
	fin, ok := r.sc.Device.(device.Finalizer)
	if !ok {
		return
	}

	keep := slices.Sorted(maps.Keys(r.retainedDevice))
	if len(keep) > 0 {
		r.log.Info().
			Str("func", "syncRun.finalizeDevice").
			Int("retained", len(keep)).
			Msg("leaving unreconciled device records flagged")
	}

	if err := fin.ResetSyncFlags(r.ctx, r.handle, keep); err != nil {
		r.log.Err(err).Str("func", "syncRun.finalizeDevice").Msg("error resetting sync flags")
		r.warn(models.WarningWrite, "", "", "resetting device sync flags: "+err.Error())
	}
	if err := fin.PurgeDeletedRecords(r.ctx, r.handle, keep); err != nil {
		r.log.Err(err).Str("func", "syncRun.finalizeDevice").Msg("error purging deleted records")
		r.warn(models.WarningWrite, "", "", "purging deleted device records: "+err.Error())
	}
}

// captureBaseline stores the content hash of every live backend record.
// Retained records keep the hash of the previous baseline, or none, so a
// PC-side change that was not reconciled still counts as a change.
func (r *syncRun) captureBaseline() {
	records, err := r.sc.Backend.LoadRecords(r.ctx, r.sc.CollectionID)
	if err != nil {
		r.log.Err(err).Str("func", "syncRun.captureBaseline").Msg("error reloading backend records")
		r.warn(models.WarningWrite, "", "", "capturing baseline: "+err.Error())
		return
	}

	hashes := make(map[string]string, len(records))
	for _, rec := range records {
		if rec.IsDeleted {
			continue
		}
		if _, ok := r.retainedPC[rec.ID]; ok {
			if old := r.sc.State.BaselineHash(rec.ID); old != "" {
				hashes[rec.ID] = old
			}
			continue
		}
		hashes[rec.ID] = rec.ContentHash
	}
	r.sc.State.SaveBaseline(hashes)
}

func (r *syncRun) readDevice() ([]models.DeviceRecord, error) {
	records, err := r.sc.Device.ReadAllRecords(r.ctx, r.handle)
	if err != nil {
		return nil, fmt.Errorf("error reading device records: %w", err)
	}
	return records, nil
}

func (r *syncRun) loadBackend() ([]models.BackendRecord, map[string]models.BackendRecord, error) {
	records, err := r.sc.Backend.LoadRecords(r.ctx, r.sc.CollectionID)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading backend records: %w", err)
	}

	byID := make(map[string]models.BackendRecord, len(records))
	for _, rec := range records {
		byID[rec.ID] = rec
	}
	return records, byID, nil
}

func deviceKey(id uint32) string {
	return strconv.FormatUint(uint64(id), 10)
}

func parseDeviceKey(s string) uint32 {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0
	}
	return uint32(id)
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrRecordNotFound) || errors.Is(err, device.ErrRecordNotFound)
}
