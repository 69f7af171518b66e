package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"mdtangle/internal/tangle"
)

type fakeRunner struct {
	mu   sync.Mutex
	runs []tangle.Target
	err  error
	ran  chan tangle.Target
}

func newFakeRunner(err error) *fakeRunner {
	return &fakeRunner{err: err, ran: make(chan tangle.Target, 16)}
}

func (r *fakeRunner) Run(ctx context.Context, target tangle.Target) (*tangle.Result, error) {
	r.mu.Lock()
	r.runs = append(r.runs, target)
	r.mu.Unlock()
	r.ran <- target
	return &tangle.Result{Target: target}, r.err
}

func TestNew(t *testing.T) {
	runner := newFakeRunner(nil)

	tests := []struct {
		name     string
		targets  []tangle.Target
		debounce time.Duration
		wantErr  bool
	}{
		{name: "valid", targets: []tangle.Target{{Input: "a.md", Output: "a.py"}}, debounce: time.Millisecond},
		{name: "zero debounce", targets: []tangle.Target{{Input: "a.md", Output: "a.py"}}, wantErr: true},
		{name: "no targets", debounce: time.Millisecond, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := New(runner, tt.targets, tt.debounce)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if w != nil {
				_ = w.watcher.Close()
			}
		})
	}
}

func TestWatcher_DebouncedEvents(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "prog.md")
	runner := newFakeRunner(errors.New("undefined chunk: X"))

	w, err := New(runner, []tangle.Target{
		{Input: input, Output: filepath.Join(dir, "a.py")},
		{Input: input, Output: filepath.Join(dir, "b.py"), Root: "Tests"},
	}, time.Hour)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() {
		_ = w.watcher.Close()
	}()

	// Unrelated files and chmod events are ignored.
	w.handleEvent(fsnotify.Event{Name: filepath.Join(dir, "other.md"), Op: fsnotify.Write})
	w.handleEvent(fsnotify.Event{Name: input, Op: fsnotify.Chmod})
	if got := w.Stats().Events; got != 0 {
		t.Fatalf("Stats().Events = %d, want 0", got)
	}

	w.handleEvent(fsnotify.Event{Name: input, Op: fsnotify.Write})
	w.handleEvent(fsnotify.Event{Name: input, Op: fsnotify.Create})

	// Still inside the debounce window.
	w.processPending(context.Background())
	if len(runner.runs) != 0 {
		t.Fatalf("runs before debounce = %d, want 0", len(runner.runs))
	}

	w.mu.Lock()
	w.pending[input] = time.Now().Add(-2 * time.Hour)
	w.mu.Unlock()
	w.processPending(context.Background())

	if len(runner.runs) != 2 {
		t.Fatalf("runs after debounce = %d, want 2", len(runner.runs))
	}
	for _, target := range runner.runs {
		if !target.Force {
			t.Errorf("target %+v should be forced", target)
		}
	}

	stats := w.Stats()
	if stats.Events != 2 || stats.Runs != 2 || stats.Failures != 2 {
		t.Errorf("Stats() = %+v", stats)
	}
	if stats.LastEventPath != input {
		t.Errorf("Stats().LastEventPath = %q, want %q", stats.LastEventPath, input)
	}
}

func TestWatcher_StartStop(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "prog.md")
	if err := os.WriteFile(input, []byte("initial"), 0644); err != nil {
		t.Fatal(err)
	}

	runner := newFakeRunner(nil)
	w, err := New(runner, []tangle.Target{{Input: input, Output: filepath.Join(dir, "out.py")}}, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx := context.Background()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	// A second Start is a no-op.
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() second call error = %v", err)
	}

	if err := os.WriteFile(input, []byte("changed"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case target := <-runner.ran:
		if target.Input != input {
			t.Errorf("ran target input = %q, want %q", target.Input, input)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not run the target after the input changed")
	}

	w.Stop()
	w.Stop()

	select {
	case <-w.Done():
	default:
		t.Error("Done() should be closed after Stop()")
	}
}

func TestWatcher_ContextCancel(t *testing.T) {
	dir := t.TempDir()
	w, err := New(newFakeRunner(nil), []tangle.Target{{Input: filepath.Join(dir, "prog.md"), Output: "out.py"}}, time.Second)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	cancel()

	select {
	case <-w.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not exit after context cancel")
	}
	w.Stop()
}

func TestWatcher_StartFailureClosesWatcher(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "missing", "prog.md")

	w, err := New(newFakeRunner(nil), []tangle.Target{{Input: input, Output: "out.py"}}, time.Second)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := w.Start(context.Background()); err == nil {
		t.Fatal("Start() expected error for a missing input directory")
	}

	if err := w.watcher.Add(dir); !errors.Is(err, fsnotify.ErrClosed) {
		t.Errorf("watcher.Add() after failed Start error = %v, want fsnotify.ErrClosed", err)
	}

	// Stop must not block on an event loop that never ran.
	w.Stop()
}
