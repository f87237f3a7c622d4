package presence

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/ivplatonov/stackd/internal/device"
	"github.com/ivplatonov/stackd/internal/logging"
)

// DefaultInterval is the poll interval used when none is configured.
const DefaultInterval = 500 * time.Millisecond

// Watcher polls a key path and attaches or detaches the device to match.
type Watcher struct {
	dev      *device.Device
	path     string
	interval time.Duration
	log      *logging.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewWatcher creates a watcher for the given key path.
func NewWatcher(dev *device.Device, path string, interval time.Duration, log *logging.Logger) *Watcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Watcher{
		dev:      dev,
		path:     path,
		interval: interval,
		log:      log,
	}
}

// Start begins polling in a background goroutine. The first check runs
// immediately so a key already present at startup attaches without waiting
// a full interval.
func (w *Watcher) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})

	w.log.Info("presence watcher started",
		zap.String("path", w.path),
		zap.Duration("interval", w.interval),
	)

	go func() {
		defer close(w.done)

		w.check()

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.check()
			}
		}
	}()
}

// Stop cancels polling and waits for the watcher goroutine to exit.
func (w *Watcher) Stop() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	<-w.done
	w.log.Info("presence watcher stopped")
}

func (w *Watcher) check() {
	if _, err := os.Stat(w.path); err == nil {
		w.dev.Attach()
	} else {
		w.dev.Detach()
	}
}
