// Package watcher implements the development auto-restart daemon: it runs
// a command, watches source trees for changes, and restarts the command
// after a short quiet period whenever matching files change.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// triggerOps are the event kinds worth a restart. Chmod-only events are
// noise from editors and checkouts.
const triggerOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

// Watcher restarts a command whenever watched files change.
type Watcher struct {
	cfg    Config
	logger *zap.Logger
	run    runner

	extensions map[string]struct{}
	ignoreDirs map[string]struct{}
}

// Option configures Watcher construction.
type Option func(*Watcher)

// withRunner overrides the command runner, primarily for tests.
func withRunner(run runner) Option {
	return func(w *Watcher) {
		w.run = run
	}
}

// New validates the configuration and constructs a Watcher.
func New(cfg Config, logger *zap.Logger, opts ...Option) (*Watcher, error) {
	if len(cfg.Roots) == 0 {
		return nil, fmt.Errorf("at least one watch root is required")
	}
	if cfg.Debounce <= 0 {
		return nil, fmt.Errorf("debounce must be positive")
	}

	w := &Watcher{
		cfg:        cfg,
		logger:     logger,
		extensions: toSet(cfg.Extensions),
		ignoreDirs: toSet(cfg.IgnoreDirs),
	}
	for _, opt := range opts {
		opt(w)
	}

	if w.run == nil {
		run, err := newProcessRunner(cfg.Command, cfg.KillTimeout, logger)
		if err != nil {
			return nil, err
		}
		w.run = run
	}

	return w, nil
}

// Run starts the command, watches the configured roots, and blocks until
// the context is cancelled. The command is stopped on the way out.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() {
		_ = fw.Close()
	}()

	for _, root := range w.cfg.Roots {
		if err := w.watchTree(fw, root); err != nil {
			return fmt.Errorf("watch %s: %w", root, err)
		}
	}

	if err := w.run.Start(); err != nil {
		return err
	}
	defer w.run.Stop()

	return w.loop(ctx, fw, fw.Events, fw.Errors)
}

// loop debounces bursts of matching events into single restarts.
func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher, events <-chan fsnotify.Event, errs <-chan error) error {
	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending int
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-events:
			if !ok {
				return nil
			}
			w.handleNewDir(fw, event)
			if !w.matches(event) {
				continue
			}
			pending++
			if timer == nil {
				timer = time.NewTimer(w.cfg.Debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					<-timerC
				}
				timer.Reset(w.cfg.Debounce)
			}

		case <-timerC:
			w.logger.Info("change detected, restarting", zap.Int("events", pending))
			pending = 0
			timer = nil
			timerC = nil
			w.run.Restart()

		case err, ok := <-errs:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))
		}
	}
}

// watchTree registers root and every non-ignored directory below it.
func (w *Watcher) watchTree(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.ignoredDir(d.Name()) {
			return filepath.SkipDir
		}
		return fw.Add(path)
	})
}

// handleNewDir starts watching directories created while running, so files
// added below them keep triggering restarts.
func (w *Watcher) handleNewDir(fw *fsnotify.Watcher, event fsnotify.Event) {
	if fw == nil || !event.Op.Has(fsnotify.Create) {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil || !info.IsDir() {
		return
	}
	if w.ignoredDir(info.Name()) {
		return
	}

	if err := w.watchTree(fw, event.Name); err != nil {
		w.logger.Warn("watch new directory", zap.String("dir", event.Name), zap.Error(err))
	}
}

// matches reports whether the event should count towards a restart.
func (w *Watcher) matches(event fsnotify.Event) bool {
	if event.Op&triggerOps == 0 {
		return false
	}

	if _, ok := w.extensions[filepath.Ext(event.Name)]; !ok {
		return false
	}

	dir := filepath.ToSlash(filepath.Dir(event.Name))
	for _, part := range strings.Split(dir, "/") {
		if w.ignoredDir(part) {
			return false
		}
	}
	return true
}

func (w *Watcher) ignoredDir(name string) bool {
	_, ok := w.ignoreDirs[name]
	return ok
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
