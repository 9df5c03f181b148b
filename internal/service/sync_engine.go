// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/MKhiriev/go-pim-sync/internal/device"
	"github.com/MKhiriev/go-pim-sync/internal/logger"
	"github.com/MKhiriev/go-pim-sync/internal/store"
	"github.com/MKhiriev/go-pim-sync/internal/utils"
	"github.com/MKhiriev/go-pim-sync/models"
)

const profileLockFile = ".sync.lock"

// SyncEngine runs the registered conduits one after another against a
// device link and a backend, and aggregates their results.
//
// Conduits run in registration order. Identity stores are created lazily
// per (device user, conduit) and cached for the life of the engine; call
// Close to save them.
type SyncEngine struct {
	mu       sync.Mutex
	conduits []*Conduit
	enabled  map[string]bool
	stores   map[string]*store.IdentityStore

	link     device.Link
	backend  store.Backend
	stateDir string

	pcName          string
	policy          models.ConflictResolution
	backendModified BackendModifiedFunc
	progress        ProgressFunc
	onConflict      ConflictFunc

	cancelled atomic.Bool
	running   atomic.Bool

	logger *logger.Logger
}

// EngineOption configures a SyncEngine.
type EngineOption func(*SyncEngine)

func WithPCName(name string) EngineOption {
	return func(e *SyncEngine) { e.pcName = name }
}

func WithConflictPolicy(policy models.ConflictResolution) EngineOption {
	return func(e *SyncEngine) { e.policy = policy }
}

// WithBackendModified installs a backend change detector, for example
// [BaselineDetector].
func WithBackendModified(fn BackendModifiedFunc) EngineOption {
	return func(e *SyncEngine) { e.backendModified = fn }
}

func WithProgress(fn ProgressFunc) EngineOption {
	return func(e *SyncEngine) { e.progress = fn }
}

func WithConflictHandler(fn ConflictFunc) EngineOption {
	return func(e *SyncEngine) { e.onConflict = fn }
}

// NewSyncEngine returns an engine keeping identity stores under stateDir.
// The default conflict policy is Skip.
func NewSyncEngine(link device.Link, backend store.Backend, stateDir string, log *logger.Logger, opts ...EngineOption) *SyncEngine {
	e := &SyncEngine{
		enabled:  make(map[string]bool),
		stores:   make(map[string]*store.IdentityStore),
		link:     link,
		backend:  backend,
		stateDir: stateDir,
		policy:   models.Skip,
		logger:   log,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RegisterConduit adds c to the engine, enabled.
func (e *SyncEngine) RegisterConduit(c *Conduit) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.indexOf(c.ID()) >= 0 {
		return fmt.Errorf("%w: %s", ErrConduitExists, c.ID())
	}
	e.conduits = append(e.conduits, c)
	e.enabled[c.ID()] = true
	return nil
}

func (e *SyncEngine) UnregisterConduit(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrConduitNotFound, id)
	}
	e.conduits = slices.Delete(e.conduits, idx, idx+1)
	delete(e.enabled, id)
	return nil
}

// Conduit returns the registered conduit with the given ID.
func (e *SyncEngine) Conduit(id string) (*Conduit, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.indexOf(id)
	if idx < 0 {
		return nil, false
	}
	return e.conduits[idx], true
}

// RegisteredConduits returns the IDs of all conduits in registration order.
func (e *SyncEngine) RegisteredConduits() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids := make([]string, 0, len(e.conduits))
	for _, c := range e.conduits {
		ids = append(ids, c.ID())
	}
	return ids
}

func (e *SyncEngine) SetConduitEnabled(id string, enabled bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.indexOf(id) < 0 {
		return fmt.Errorf("%w: %s", ErrConduitNotFound, id)
	}
	e.enabled[id] = enabled
	return nil
}

// IsConduitEnabled reports false for unknown IDs.
func (e *SyncEngine) IsConduitEnabled(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enabled[id]
}

func (e *SyncEngine) SetConflictPolicy(policy models.ConflictResolution) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.policy = policy
}

func (e *SyncEngine) indexOf(id string) int {
	return slices.IndexFunc(e.conduits, func(c *Conduit) bool { return c.ID() == id })
}

// CancelSync asks the running pass to stop. Conduits observe the request
// before their next record operation.
func (e *SyncEngine) CancelSync() {
	e.cancelled.Store(true)
	e.logger.Info().Str("func", "SyncEngine.CancelSync").Msg("sync cancellation requested")
}

// Running reports whether a SyncAll call is in progress.
func (e *SyncEngine) Running() bool {
	return e.running.Load()
}

// SyncAll runs every enabled conduit in registration order with the given
// mode. Success is true only when every conduit succeeded; ErrorMessage
// carries the first failure.
func (e *SyncEngine) SyncAll(ctx context.Context, mode models.SyncMode) models.SyncResult {
	result := models.SyncResult{StartTime: time.Now().UTC(), Success: true}

	if e.link == nil {
		return e.fail(result, ErrNoDeviceLink)
	}
	if e.backend == nil {
		return e.fail(result, ErrNoBackend)
	}
	if !e.running.CompareAndSwap(false, true) {
		return e.fail(result, ErrSyncInProgress)
	}
	defer e.running.Store(false)
	e.cancelled.Store(false)

	userName := e.link.UserName()
	unlock, err := e.lockProfile(userName)
	if err != nil {
		return e.fail(result, err)
	}
	defer unlock()

	if ka, ok := e.link.(device.KeepAliver); ok {
		ka.PauseKeepAlive()
		defer ka.ResumeKeepAlive()
	}

	conduits, policy := e.snapshot()

	traceID, ok := utils.GetTraceIDFromContext(ctx)
	if !ok {
		traceID = uuid.NewString()
		ctx = utils.WithTraceID(ctx, traceID)
	}

	e.logger.Info().
		Str("func", "SyncEngine.SyncAll").
		Str("trace_id", traceID).
		Str("mode", mode.String()).
		Str("user", userName).
		Int("conduits", len(conduits)).
		Msg("sync started")

	for i, c := range conduits {
		if e.cancelled.Load() || ctx.Err() != nil {
			result.Warnings = append(result.Warnings, models.Warning{
				ConduitID: c.ID(),
				Kind:      models.WarningCancelled,
				Message:   fmt.Sprintf("sync cancelled, %d conduit(s) not run", len(conduits)-i),
			})
			break
		}

		state, stateErr := e.identityStore(userName, c.ID())
		if stateErr != nil {
			e.merge(&result, c.fail(models.SyncResult{StartTime: time.Now().UTC()}, stateErr))
			continue
		}

		sc := &SyncContext{
			Mode:            mode,
			ConflictPolicy:  policy,
			Device:          e.link,
			Backend:         e.backend,
			State:           state,
			CollectionID:    c.Info().CollectionID,
			PCName:          e.pcName,
			Cancelled:       e.cancelled.Load,
			Progress:        e.progress,
			OnConflict:      e.onConflict,
			BackendModified: e.backendModified,
		}
		e.merge(&result, c.Sync(ctx, sc))
	}

	result.EndTime = time.Now().UTC()

	e.logger.Info().
		Str("func", "SyncEngine.SyncAll").
		Str("trace_id", traceID).
		Bool("success", result.Success).
		Interface("device_stats", result.DeviceStats).
		Interface("pc_stats", result.PCStats).
		Int("warnings", len(result.Warnings)).
		Dur("duration", result.EndTime.Sub(result.StartTime)).
		Msg("sync finished")

	return result
}

func (e *SyncEngine) snapshot() ([]*Conduit, models.ConflictResolution) {
	e.mu.Lock()
	defer e.mu.Unlock()

	enabled := make([]*Conduit, 0, len(e.conduits))
	for _, c := range e.conduits {
		if e.enabled[c.ID()] {
			enabled = append(enabled, c)
		}
	}
	return enabled, e.policy
}

func (e *SyncEngine) merge(total *models.SyncResult, r models.SyncResult) {
	total.DeviceStats.Add(r.DeviceStats)
	total.PCStats.Add(r.PCStats)
	total.Warnings = append(total.Warnings, r.Warnings...)

	if !r.Success {
		if total.Success {
			total.ErrorMessage = r.ErrorMessage
		}
		total.Success = false
	}
}

func (e *SyncEngine) fail(result models.SyncResult, err error) models.SyncResult {
	e.logger.Err(err).Str("func", "SyncEngine.SyncAll").Msg("sync failed")

	result.Success = false
	result.ErrorMessage = err.Error()
	result.EndTime = time.Now().UTC()
	return result
}

// lockProfile takes the per-profile sync lock and returns its release.
func (e *SyncEngine) lockProfile(userName string) (func(), error) {
	dir := store.ProfileDir(e.stateDir, userName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("error creating profile directory: %w", err)
	}

	lock := flock.New(filepath.Join(dir, profileLockFile))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("error locking profile: %w", err)
	}
	if !locked {
		return nil, ErrProfileLocked
	}

	return func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			e.logger.Err(unlockErr).Str("func", "SyncEngine.lockProfile").Msg("error releasing profile lock")
		}
	}, nil
}

// IdentityStore returns the cached identity store of a conduit for the
// current device user, loading it on first use.
func (e *SyncEngine) IdentityStore(conduitID string) (*store.IdentityStore, error) {
	if e.link == nil {
		return nil, ErrNoDeviceLink
	}
	return e.identityStore(e.link.UserName(), conduitID)
}

func (e *SyncEngine) identityStore(userName, conduitID string) (*store.IdentityStore, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	key := userName + "\x00" + conduitID
	if s, ok := e.stores[key]; ok {
		return s, nil
	}

	s := store.NewIdentityStore(e.stateDir, userName, conduitID)
	if err := s.Load(); err != nil {
		return nil, err
	}
	e.stores[key] = s
	return s, nil
}

// ResetState clears and saves the identity store of every registered
// conduit for the current device user. The next sync is a first sync.
func (e *SyncEngine) ResetState() error {
	if e.link == nil {
		return ErrNoDeviceLink
	}

	var errs []error
	for _, id := range e.RegisteredConduits() {
		s, err := e.IdentityStore(id)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", id, err))
			continue
		}
		s.Clear()
		if err = s.Save(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// Close saves every cached identity store.
func (e *SyncEngine) Close() error {
	e.mu.Lock()
	stores := make([]*store.IdentityStore, 0, len(e.stores))
	for _, s := range e.stores {
		stores = append(stores, s)
	}
	e.mu.Unlock()

	var errs []error
	for _, s := range stores {
		if err := s.Save(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.ConduitID(), err))
		}
	}
	return errors.Join(errs...)
}
