package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-pim-sync/internal/logger"
	"github.com/MKhiriev/go-pim-sync/models"
)

// SyncJob runs SyncAll on a ticker and on demand. Runs never overlap: a
// trigger arriving while a run is in progress queues at most one more run.
// Ticker runs use the job's mode; triggered runs use the requested one.
type SyncJob struct {
	runner SyncRunner
	mode   models.SyncMode
	logger *logger.Logger

	trigger chan models.SyncMode
	results chan models.SyncResult

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSyncJob creates a job that syncs with mode. The job is idle until
// Start is called.
func NewSyncJob(runner SyncRunner, mode models.SyncMode, log *logger.Logger) *SyncJob {
	return &SyncJob{
		runner:  runner,
		mode:    mode,
		logger:  log,
		trigger: make(chan models.SyncMode, 1),
		results: make(chan models.SyncResult, 1),
	}
}

// Start stops any previously running job, then launches a background
// goroutine that syncs every interval and whenever Trigger is called. If
// interval is zero or negative it defaults to 5 minutes. The goroutine exits
// when ctx is cancelled or Stop is called.
func (j *SyncJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.run(jobCtx, "ticker", j.mode)
			case mode := <-j.trigger:
				j.run(jobCtx, "trigger", mode)
			}
		}
	}()
}

// Trigger requests a sync in the job's mode as soon as the job is idle.
func (j *SyncJob) Trigger() {
	j.TriggerMode(j.mode)
}

// TriggerMode requests a sync in mode as soon as the job is idle. It merges
// with a request that is already queued; the merged request is a FullSync
// when either of them is.
func (j *SyncJob) TriggerMode(mode models.SyncMode) {
	for {
		select {
		case j.trigger <- mode:
			return
		default:
		}

		select {
		case queued := <-j.trigger:
			if queued == models.FullSync {
				mode = models.FullSync
			}
		default:
		}
	}
}

// Results delivers the most recent result not yet consumed. Older unread
// results are dropped.
func (j *SyncJob) Results() <-chan models.SyncResult {
	return j.results
}

func (j *SyncJob) run(ctx context.Context, reason string, mode models.SyncMode) {
	j.logger.Debug().
		Str("func", "SyncJob.run").
		Str("reason", reason).
		Str("mode", mode.String()).
		Msg("scheduled sync")

	res := j.runner.SyncAll(ctx, mode)
	if !res.Success {
		j.logger.Warn().Str("func", "SyncJob.run").Str("error", res.ErrorMessage).Msg("scheduled sync failed")
	}

	select {
	case <-j.results:
	default:
	}
	select {
	case j.results <- res:
	default:
	}
}

// Stop cancels the background goroutine's context and blocks until the
// goroutine has fully exited. Safe to call when the job is not running.
func (j *SyncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
