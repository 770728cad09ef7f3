// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watch turns new files in a local directory into notification
// records, standing in for storage events when running outside Lambda.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pdiddy/csv2parquet/internal/dispatch"
	"github.com/pdiddy/csv2parquet/internal/notify"
)

// DefaultDelay is how long a path must stay quiet before it is delivered.
const DefaultDelay = 500 * time.Millisecond

// Handler receives one batch per settled file.
type Handler func(ctx context.Context, records []dispatch.Record)

// Watcher watches one directory, non-recursively.
type Watcher struct {
	dir      string
	delay    time.Duration
	handler  Handler
	notifier *notify.Notifier

	// mu serializes handler calls; stopped is guarded by mu.
	mu      sync.Mutex
	stopped bool

	// pending holds one debounce timer per file name until it fires.
	pendingMu sync.Mutex
	pending   map[string]*time.Timer

	fs   *fsnotify.Watcher
	done chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDelay sets the debounce delay.
func WithDelay(d time.Duration) Option {
	return func(w *Watcher) { w.delay = d }
}

// WithNotifier sets the logging handle.
func WithNotifier(n *notify.Notifier) Option {
	return func(w *Watcher) { w.notifier = n }
}

// New creates a Watcher for dir. The directory is resolved to an absolute
// path, which becomes the Bucket of every delivered record.
func New(dir string, handler Handler, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("watch directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch directory: %s is not a directory", abs)
	}

	w := &Watcher{
		dir:     abs,
		delay:   DefaultDelay,
		handler: handler,
		pending: make(map[string]*time.Timer),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string { return w.dir }

// Start begins watching and returns once the directory is registered.
// Events are processed until ctx is cancelled; Done is closed afterwards.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		fsw.Close()
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}
	w.fs = fsw
	w.notifier.Infof("watching %s", w.dir)

	go w.loop(ctx)
	return nil
}

// Done is closed when the watcher has stopped and no handler is running.
func (w *Watcher) Done() <-chan struct{} { return w.done }

// Run is Start followed by waiting for ctx to be cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.Start(ctx); err != nil {
		return err
	}
	<-w.done
	return nil
}

func (w *Watcher) loop(ctx context.Context) {
	defer func() {
		w.pendingMu.Lock()
		for name, t := range w.pending {
			t.Stop()
			delete(w.pending, name)
		}
		w.pendingMu.Unlock()
		w.fs.Close()

		// Wait out a handler that is already running.
		w.mu.Lock()
		w.stopped = true
		w.mu.Unlock()

		w.notifier.Infof("stopped watching %s", w.dir)
		close(w.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			name := filepath.Base(event.Name)
			if strings.HasPrefix(name, ".") {
				continue
			}
			w.schedule(ctx, name)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.notifier.Warnf("watch error: %v", err)
		}
	}
}

// schedule (re)starts the debounce timer for name. A fired timer removes
// itself from pending unless a newer one has replaced it.
func (w *Watcher) schedule(ctx context.Context, name string) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	if t, exists := w.pending[name]; exists {
		t.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(w.delay, func() {
		w.pendingMu.Lock()
		if w.pending[name] == t {
			delete(w.pending, name)
		}
		w.pendingMu.Unlock()
		w.deliver(ctx, name)
	})
	w.pending[name] = t
}

func (w *Watcher) pendingCount() int {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()
	return len(w.pending)
}

func (w *Watcher) deliver(ctx context.Context, name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped || ctx.Err() != nil {
		return
	}

	info, err := os.Stat(filepath.Join(w.dir, name))
	if err != nil || !info.Mode().IsRegular() {
		return
	}
	w.notifier.Debugf("file settled: %s", name)
	w.handler(ctx, []dispatch.Record{{Bucket: w.dir, Key: name}})
}
