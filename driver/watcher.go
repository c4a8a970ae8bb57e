package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-logr/logr"
)

// RunFunc is invoked by a Watcher after a debounced batch of changes.
// It receives the changed files in sorted order.
type RunFunc func(ctx context.Context, changed []string) error

// Watcher watches a directory tree and calls a RunFunc once changes settle.
// Runs never overlap.
type Watcher struct {
	root       string
	run        RunFunc
	fsWatcher  *fsnotify.Watcher
	log        logr.Logger
	debounce   time.Duration
	extensions []string
	ignore     map[string]bool
	onError    func(error)

	pendingMu sync.Mutex
	pending   map[string]struct{}
	timer     *time.Timer
	trigger   chan struct{}
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets how long changes must settle before a run.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithExtensions limits the files that trigger a run to the given
// extensions, e.g. ".go".
func WithExtensions(exts ...string) WatcherOption {
	return func(w *Watcher) {
		w.extensions = exts
	}
}

// WithIgnore excludes files, typically the pipeline's own outputs.
func WithIgnore(paths ...string) WatcherOption {
	return func(w *Watcher) {
		for _, p := range paths {
			if p == "" {
				continue
			}

			if abs, err := filepath.Abs(p); err == nil {
				w.ignore[abs] = true
			}
		}
	}
}

// WithWatchLogger sets the logger.
func WithWatchLogger(log logr.Logger) WatcherOption {
	return func(w *Watcher) {
		w.log = log
	}
}

// WithOnError sets the callback for watch and run errors. By default they
// are logged.
func WithOnError(fn func(error)) WatcherOption {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// NewWatcher creates a Watcher for the directory tree at root.
func NewWatcher(root string, run RunFunc, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", root, err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		root:      abs,
		run:       run,
		fsWatcher: fsWatcher,
		log:       logr.Discard(),
		debounce:  DefaultDebounce,
		ignore:    make(map[string]bool),
		pending:   make(map[string]struct{}),
		trigger:   make(chan struct{}, 1),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.onError == nil {
		w.onError = func(err error) {
			w.log.Error(err, "watch")
		}
	}

	if err := w.addDirs(); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to add directories to watch: %w", err)
	}

	return w, nil
}

// addDirs recursively adds the directories under root.
func (w *Watcher) addDirs() error {
	return filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			return nil
		}

		if path != w.root && skipDir(d.Name()) {
			return filepath.SkipDir
		}

		return w.fsWatcher.Add(path)
	})
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "vendor" || name == "node_modules" || name == "testdata"
}

// Run handles events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsWatcher.Close()

	w.log.Info("watching", "root", w.root, "debounce", w.debounce.String())

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return nil

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}

			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}

			w.onError(err)

		case <-w.trigger:
			w.flush(ctx)
		}
	}
}

// accepts reports whether an event should schedule a run.
func (w *Watcher) accepts(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	if abs, err := filepath.Abs(event.Name); err == nil && w.ignore[abs] {
		return false
	}

	if strings.HasSuffix(event.Name, "_test.go") {
		return false
	}

	if len(w.extensions) == 0 {
		return true
	}

	return slices.Contains(w.extensions, filepath.Ext(event.Name))
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !skipDir(info.Name()) {
			if err := w.fsWatcher.Add(event.Name); err != nil {
				w.onError(err)
			}
		}
	}

	if !w.accepts(event) {
		return
	}

	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	w.pending[event.Name] = struct{}{}

	if w.timer != nil {
		w.timer.Stop()
	}

	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case w.trigger <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stopTimer() {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
}

// flush runs the RunFunc with the pending changes.
func (w *Watcher) flush(ctx context.Context) {
	w.pendingMu.Lock()
	changed := make([]string, 0, len(w.pending))
	for f := range w.pending {
		changed = append(changed, f)
	}
	w.pending = make(map[string]struct{})
	w.pendingMu.Unlock()

	if len(changed) == 0 {
		return
	}

	slices.Sort(changed)
	w.log.V(1).Info("change detected", "files", len(changed))

	if err := w.run(ctx, changed); err != nil {
		w.onError(fmt.Errorf("run failed: %w", err))
	}
}

// Watch creates a Watcher over the pipeline's source directory that
// reruns the pipeline and hands each report to onReport. The pipeline's
// output and store files never trigger a run.
func (p *Pipeline) Watch(onReport func(*Report), opts ...WatcherOption) (*Watcher, error) {
	exts := []string{".go"}
	if p.cfg.Frontend == FrontendDecl {
		exts = []string{".yaml", ".yml"}
	}

	base := []WatcherOption{
		WithDebounce(time.Duration(p.cfg.Watch.Debounce)),
		WithExtensions(exts...),
		WithIgnore(p.cfg.Output, p.cfg.Store),
		WithWatchLogger(p.log),
	}

	run := func(ctx context.Context, changed []string) error {
		report, err := p.Run(ctx)
		if err != nil {
			return err
		}

		if onReport != nil {
			onReport(report)
		}

		return nil
	}

	return NewWatcher(p.cfg.Dir, run, append(base, opts...)...)
}
