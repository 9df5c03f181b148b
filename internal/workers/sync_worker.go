// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-pim-sync/internal/logger"
	"github.com/MKhiriev/go-pim-sync/models"
)

// SyncJob is the scheduling surface of service.SyncJob.
type SyncJob interface {
	Start(ctx context.Context, interval time.Duration)
	Stop()
	Trigger()
	TriggerMode(mode models.SyncMode)
	Results() <-chan models.SyncResult
}

// SyncWorker drives a SyncJob for the lifetime of Run and hands every
// finished sync to the result callback.
type SyncWorker struct {
	job        SyncJob
	interval   time.Duration
	runOnStart bool
	onResult   func(models.SyncResult)
	logger     *logger.Logger
}

// NewSyncWorker returns a worker syncing every interval. When runOnStart is
// set the first sync starts immediately. onResult may be nil.
func NewSyncWorker(job SyncJob, interval time.Duration, runOnStart bool, onResult func(models.SyncResult), log *logger.Logger) *SyncWorker {
	return &SyncWorker{
		job:        job,
		interval:   interval,
		runOnStart: runOnStart,
		onResult:   onResult,
		logger:     log,
	}
}

func (w *SyncWorker) Run(ctx context.Context) error {
	w.job.Start(ctx, w.interval)
	defer w.job.Stop()

	w.logger.Info().Str("func", "SyncWorker.Run").Dur("interval", w.interval).Msg("sync worker started")
	if w.runOnStart {
		w.job.Trigger()
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Str("func", "SyncWorker.Run").Msg("sync worker stopped")
			return nil
		case res := <-w.job.Results():
			w.logger.Info().
				Str("func", "SyncWorker.Run").
				Bool("success", res.Success).
				Int("pc_changes", res.PCStats.Total()-res.PCStats.Unchanged).
				Int("device_changes", res.DeviceStats.Total()-res.DeviceStats.Unchanged).
				Msg("sync finished")
			if w.onResult != nil {
				w.onResult(res)
			}
		}
	}
}

// Trigger forwards to the job so a DirWatcher can target the worker.
func (w *SyncWorker) Trigger() {
	w.job.Trigger()
}

// FullSync returns a Trigger that asks the job for a FullSync pass. Only a
// full compare looks at records changed on the PC side.
func (w *SyncWorker) FullSync() Trigger {
	return TriggerFunc(func() { w.job.TriggerMode(models.FullSync) })
}
