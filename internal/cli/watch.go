package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleDelay groups the burst of events an editor produces on save
const settleDelay = 250 * time.Millisecond

// watch calls run once, then again each time path changes, until ctx is
// done. A change during a run cancels that run before the next starts.
func watch(ctx context.Context, path string, run func(context.Context) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file on save
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}
	target := filepath.Clean(path)

	r := &runner{run: run}
	defer r.stop()
	r.start(ctx)

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			logger.Debug("deck changed", "path", event.Name, "op", event.Op.String())
			settle = time.After(settleDelay)

		case <-settle:
			settle = nil
			r.start(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		}
	}
}

// runner keeps at most one run in flight
type runner struct {
	run    func(context.Context) error
	cancel context.CancelFunc
	done   chan struct{}
}

// start cancels the run in flight, waits for it, and starts a new one
func (r *runner) start(parent context.Context) {
	r.stop()

	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	r.cancel, r.done = cancel, done

	go func() {
		defer close(done)
		if err := r.run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("extraction failed", "err", err)
		}
	}()
}

func (r *runner) stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
	r.cancel, r.done = nil, nil
}
