package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"mdtangle/internal/contextutil"
	"mdtangle/internal/tangle"
)

// Runner tangles one target. *tangle.Pipeline satisfies it.
type Runner interface {
	Run(ctx context.Context, target tangle.Target) (*tangle.Result, error)
}

// Stats tracks watcher activity.
type Stats struct {
	Events        int
	Runs          int
	Failures      int
	LastEventPath string
	LastEventTime time.Time
}

// Watcher re-tangles targets whenever their input document changes.
// Parent directories are watched rather than the files themselves, because editors
// commonly save by writing a temporary file and renaming it over the original.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	runner   Runner
	targets  map[string][]tangle.Target // Keyed by absolute input path
	pending  map[string]time.Time
	debounce time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	stats    Stats
}

// New creates a Watcher for targets. Changes are processed once an input has been quiet for debounce.
func New(runner Runner, targets []tangle.Target, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		return nil, fmt.Errorf("debounce must be greater than 0")
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("no targets to watch")
	}

	byInput := make(map[string][]tangle.Target)
	for _, t := range targets {
		input, err := filepath.Abs(t.Input)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve input %s: %w", t.Input, err)
		}
		// Changes always rebuild, even if the content hash happens to match the last run.
		t.Force = true
		byInput[input] = append(byInput[input], t)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		watcher:  fw,
		runner:   runner,
		targets:  byInput,
		pending:  make(map[string]time.Time),
		debounce: debounce,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching the input directories.
// This method is non-blocking; events are handled in a goroutine until Stop is called or ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil // Already running
	}
	w.running = true
	w.mu.Unlock()

	logger := contextutil.LoggerFromContext(ctx)

	dirs := make(map[string]bool)
	for input := range w.targets {
		dir := filepath.Dir(input)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := w.watcher.Add(dir); err != nil {
			w.mu.Lock()
			w.running = false
			w.mu.Unlock()
			// The event loop never started, so Stop has nothing to tear down.
			if closeErr := w.watcher.Close(); closeErr != nil {
				logger.ErrorContext(ctx, "failed to close file watcher", "error", closeErr)
			}
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		logger.InfoContext(ctx, "watching directory", "dir", dir)
	}

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		slog.Default().Error("failed to close file watcher", "error", err)
	}
}

// Done is closed when the event loop has exited.
func (w *Watcher) Done() <-chan struct{} {
	return w.doneCh
}

// Stats returns a snapshot of watcher activity.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	logger := contextutil.LoggerFromContext(ctx)

	tick := w.debounce / 2
	if tick > 100*time.Millisecond {
		tick = 100 * time.Millisecond
	}
	if tick < time.Millisecond {
		tick = time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.DebugContext(ctx, "watcher context canceled")
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.ErrorContext(ctx, "file watcher error", "error", err)

		case <-ticker.C:
			w.processPending(ctx)
		}
	}
}

// handleEvent records a change to a watched input.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	path := filepath.Clean(event.Name)
	if _, ok := w.targets[path]; !ok {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[path] = time.Now()
	w.stats.Events++
	w.stats.LastEventPath = path
	w.stats.LastEventTime = time.Now()
}

// processPending runs the targets of every input that has been quiet for the debounce period.
func (w *Watcher) processPending(ctx context.Context) {
	w.mu.Lock()
	now := time.Now()
	var settled []string
	for path, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			settled = append(settled, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	logger := contextutil.LoggerFromContext(ctx)
	for _, path := range settled {
		for _, target := range w.targets[path] {
			logger.InfoContext(ctx, "input changed, tangling", "input", path, "output", target.Output)

			_, err := w.runner.Run(ctx, target)

			w.mu.Lock()
			w.stats.Runs++
			if err != nil {
				w.stats.Failures++
			}
			w.mu.Unlock()

			// Errors are reported by the pipeline; the watcher keeps going.
			if err != nil {
				logger.WarnContext(ctx, "tangle failed, waiting for next change", "input", path, "error", err)
			}
		}
	}
}
