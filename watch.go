package shell

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// AssetWatcher posts a Refresh event whenever a watched path changes.
// It runs on its own goroutine and talks to the render thread only
// through the event queue, the same road any other cross-thread
// producer takes. Intended for development setups where themes or other
// assets are edited while the application runs.
type AssetWatcher struct {
	watcher *fsnotify.Watcher
	queue   *EventQueue
	log     *zap.Logger
	done    chan struct{}
}

// WatchAssets watches the given paths and posts Refresh events into the
// queue on writes, creates and renames. Close stops the watcher.
func WatchAssets(queue *EventQueue, log *zap.Logger, paths ...string) (*AssetWatcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("asset watcher: %w", err)
	}
	for _, path := range paths {
		if err := watcher.Add(path); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("watch %s: %w", path, err)
		}
	}

	w := &AssetWatcher{
		watcher: watcher,
		queue:   queue,
		log:     log,
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *AssetWatcher) run() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if refreshOp(event.Op) {
				w.log.Debug("asset changed", zap.String("path", event.Name))
				w.queue.Post(Refresh{})
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("asset watcher error", zap.Error(err))
		}
	}
}

// refreshOp reports whether a watch op invalidates assets. Ops are
// bitmasks and may arrive combined, e.g. a write coalesced with a
// chmod.
func refreshOp(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) || op.Has(fsnotify.Rename)
}

// Close stops watching and waits for the watch goroutine to exit.
func (w *AssetWatcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}
