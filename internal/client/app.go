package client

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/MKhiriev/go-pim-sync/internal/config"
	"github.com/MKhiriev/go-pim-sync/internal/logger"
	"github.com/MKhiriev/go-pim-sync/internal/service"
	"github.com/MKhiriev/go-pim-sync/internal/workers"
	"github.com/MKhiriev/go-pim-sync/models"
)

// App is the pimsync runtime: one engine bound to one device link and one
// backend.
type App struct {
	cfg    *config.StructuredConfig
	mode   models.SyncMode
	engine *service.SyncEngine

	// watchDirs is empty unless the backend is file based.
	watchDirs []string
	closers   []func() error

	out    io.Writer
	logger *logger.Logger
}

// NewApp connects to the device, opens the backend and registers the
// bundled conduits. Summaries of one-shot syncs are written to out.
func NewApp(ctx context.Context, cfg *config.StructuredConfig, out io.Writer, log *logger.Logger) (*App, error) {
	mode, err := cfg.Sync.SyncMode()
	if err != nil {
		return nil, err
	}
	policy, err := cfg.Sync.Policy()
	if err != nil {
		return nil, err
	}

	app := &App{cfg: cfg, mode: mode, out: out, logger: log}

	link, closeLink, err := newLink(ctx, cfg.Device, cfg.Profile.UserName, log)
	if err != nil {
		return nil, fmt.Errorf("open device link: %w", err)
	}
	app.closers = append(app.closers, closeLink)

	backend, watchDirs, closeBackend, err := newBackend(ctx, cfg.Storage.Backend, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("open backend: %w", err)
	}
	app.watchDirs = watchDirs
	app.closers = append(app.closers, closeBackend)

	opts := []service.EngineOption{
		service.WithPCName(cfg.Profile.PCName),
		service.WithConflictPolicy(policy),
		service.WithProgress(app.onProgress),
		service.WithConflictHandler(app.onConflict),
	}
	if cfg.Sync.DetectPCChanges {
		opts = append(opts, service.WithBackendModified(service.BaselineDetector))
	}
	app.engine = service.NewSyncEngine(link, backend, cfg.Storage.StateDir, log, opts...)

	if err = registerConduits(app.engine, cfg.Sync.Conduits, log); err != nil {
		app.Close()
		return nil, fmt.Errorf("register conduits: %w", err)
	}

	return app, nil
}

// Run resets state when asked, then either syncs once or runs the daemon
// until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a.cfg.Run.Reset {
		if err := a.engine.ResetState(); err != nil {
			return fmt.Errorf("reset state: %w", err)
		}
		a.logger.Info().Str("func", "App.Run").Msg("identity stores cleared; next sync is a first sync")
		if !a.cfg.Run.Daemon {
			return nil
		}
	}

	if a.cfg.Run.Daemon {
		return a.runDaemon(ctx)
	}
	return a.runOnce(ctx)
}

func (a *App) runOnce(ctx context.Context) error {
	stop := context.AfterFunc(ctx, a.engine.CancelSync)
	defer stop()

	res := a.engine.SyncAll(ctx, a.mode)
	printSummary(a.out, res, a.mode)
	if !res.Success {
		return fmt.Errorf("%w: %s", ErrSyncFailed, res.ErrorMessage)
	}
	return nil
}

func (a *App) runDaemon(ctx context.Context) error {
	stop := context.AfterFunc(ctx, a.engine.CancelSync)
	defer stop()

	job := service.NewSyncJob(a.engine, a.mode, a.logger)
	syncWorker := workers.NewSyncWorker(job, a.cfg.Workers.SyncInterval, true, a.onResult, a.logger)

	ws := []workers.Worker{syncWorker}
	if len(a.watchDirs) > 0 {
		// backend edits are only seen by a full compare, whatever the daemon mode
		ws = append(ws, workers.NewDirWatcher(a.watchDirs, a.cfg.Workers.WatchDebounce, syncWorker.FullSync(), a.engine.Running, a.logger))
	}

	a.logger.Info().
		Str("func", "App.runDaemon").
		Str("mode", a.mode.String()).
		Int("watched_dirs", len(a.watchDirs)).
		Msg("pimsync daemon started")

	err := workers.NewWorkers(ws...).Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (a *App) onResult(res models.SyncResult) {
	for _, w := range res.Warnings {
		a.logger.Warn().
			Str("conduit", w.ConduitID).
			Str("kind", string(w.Kind)).
			Str("device_id", w.DeviceID).
			Str("pc_id", w.PCID).
			Msg(w.Message)
	}
}

func (a *App) onProgress(conduitID string, done, total int) {
	a.logger.Debug().Str("conduit", conduitID).Int("done", done).Int("total", total).Msg("sync progress")
}

func (a *App) onConflict(c models.Conflict) {
	a.logger.Warn().
		Str("conduit", c.ConduitID).
		Str("policy", c.Policy.String()).
		Uint32("device_id", c.Device.ID).
		Str("pc_id", c.Backend.ID).
		Msg("conflict left unresolved")
}

// Close releases the engine, the backend and the device link, in that
// order.
func (a *App) Close() error {
	var errs []error
	if a.engine != nil {
		errs = append(errs, a.engine.Close())
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}
