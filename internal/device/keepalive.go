package device

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-pim-sync/internal/logger"
)

// PingFunc sends one keep-alive signal over a link's channel.
type PingFunc func(ctx context.Context) error

// KeepAlive periodically calls a PingFunc until stopped. Pause blocks until
// an in-flight ping has returned, so after Pause no ping runs until the
// matching Resume.
type KeepAlive struct {
	interval time.Duration
	ping     PingFunc
	logger   *logger.Logger

	mu     sync.Mutex
	paused int
	pings  int

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewKeepAlive creates an idle KeepAlive. If interval is zero or negative it
// defaults to 10 seconds.
func NewKeepAlive(interval time.Duration, ping PingFunc, log *logger.Logger) *KeepAlive {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &KeepAlive{interval: interval, ping: ping, logger: log}
}

// Start launches the background ping loop. Any previously running loop is
// stopped first. The loop exits when ctx is cancelled or Stop is called.
func (k *KeepAlive) Start(ctx context.Context) {
	k.Stop()

	k.mu.Lock()
	loopCtx, cancel := context.WithCancel(ctx)
	k.cancel = cancel
	k.wg.Add(1)
	k.mu.Unlock()

	go func() {
		defer k.wg.Done()
		t := time.NewTicker(k.interval)
		defer t.Stop()

		for {
			select {
			case <-loopCtx.Done():
				return
			case <-t.C:
				k.tick(loopCtx)
			}
		}
	}()
}

func (k *KeepAlive) tick(ctx context.Context) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.paused > 0 {
		return
	}
	k.pings++
	if err := k.ping(ctx); err != nil {
		k.logger.Warn().Err(err).Msg("keep-alive ping failed")
	}
}

// Stop cancels the ping loop and waits for it to exit. Safe to call when the
// loop is not running.
func (k *KeepAlive) Stop() {
	k.mu.Lock()
	cancel := k.cancel
	k.cancel = nil
	k.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	k.wg.Wait()
}

// Pause suspends pinging. Calls nest: pinging resumes after as many Resume
// calls as there were Pause calls.
func (k *KeepAlive) Pause() {
	k.mu.Lock()
	k.paused++
	k.mu.Unlock()
}

// Resume undoes one Pause.
func (k *KeepAlive) Resume() {
	k.mu.Lock()
	if k.paused > 0 {
		k.paused--
	}
	k.mu.Unlock()
}

// Paused reports whether pinging is currently suspended.
func (k *KeepAlive) Paused() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.paused > 0
}

// Pings returns how many pings have been sent.
func (k *KeepAlive) Pings() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.pings
}
