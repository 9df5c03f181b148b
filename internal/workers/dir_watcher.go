package workers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/MKhiriev/go-pim-sync/internal/logger"
)

// DirWatcher triggers a sync when files under the watched directories
// change. Bursts of events are collapsed: the trigger fires once the
// directories have been quiet for the debounce period.
//
// Hidden files are ignored, which covers atomic-write temp files, except
// for the per-collection ".trash" directory.
type DirWatcher struct {
	dirs     []string
	debounce time.Duration
	trigger  Trigger
	busy     func() bool
	logger   *logger.Logger
}

// NewDirWatcher watches dirs and their ".trash" subdirectories. busy, when
// non-nil, suppresses events that arrive while it reports true, so a
// sync's own writes do not schedule another sync.
func NewDirWatcher(dirs []string, debounce time.Duration, trigger Trigger, busy func() bool, log *logger.Logger) *DirWatcher {
	if debounce <= 0 {
		debounce = time.Second
	}
	return &DirWatcher{
		dirs:     dirs,
		debounce: debounce,
		trigger:  trigger,
		busy:     busy,
		logger:   log,
	}
}

func (w *DirWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range w.dirs {
		for _, d := range []string{dir, filepath.Join(dir, ".trash")} {
			if err = os.MkdirAll(d, 0o700); err != nil {
				return fmt.Errorf("failed to create watched directory %s: %w", d, err)
			}
			if err = watcher.Add(d); err != nil {
				return fmt.Errorf("failed to watch directory %s: %w", d, err)
			}
		}
	}

	w.logger.Info().Str("func", "DirWatcher.Run").Strs("dirs", w.dirs).Msg("watching backend directories")

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug().
				Str("func", "DirWatcher.Run").
				Str("path", event.Name).
				Str("op", event.Op.String()).
				Msg("backend change")
			timer.Reset(w.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Err(err).Str("func", "DirWatcher.Run").Msg("watcher error")

		case <-timer.C:
			w.trigger.Trigger()
		}
	}
}

func (w *DirWatcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	if w.busy != nil && w.busy() {
		return false
	}
	return true
}
