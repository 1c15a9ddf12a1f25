// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watch re-runs a build function whenever watched source files
// change. Bursts of filesystem events are collapsed into one rebuild, and
// rebuilds never overlap.
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
	"github.com/rs/zerolog/log"
)

// DefaultDebounce is the quiet period after the last event before a rebuild.
const DefaultDebounce = 300 * time.Millisecond

// BuildFunc is called after each settled burst of changes.
type BuildFunc func(ctx context.Context) error

// Watcher watches files and directories and calls a BuildFunc on change.
type Watcher struct {
	// Debounce is the quiet period before a rebuild. Zero uses DefaultDebounce.
	Debounce time.Duration

	// Ignore lists paths whose changes never trigger a rebuild, such as the
	// files the build function itself writes.
	Ignore []string

	// Match, when set, selects which files inside watched directories
	// trigger a rebuild. Explicitly named files always do.
	Match func(path string) bool
}

// Run watches paths with the default debounce until ctx is cancelled.
func Run(ctx context.Context, paths []string, fn BuildFunc) error {
	return (&Watcher{}).Run(ctx, paths, fn)
}

// Run watches paths until ctx is cancelled, calling fn after each burst of
// changes. Directories are watched recursively, including directories
// created later. Files are watched through their parent directory so that
// editors which replace files on save are still seen. Build errors are
// logged and do not stop the loop. Run returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context, paths []string, fn BuildFunc) error {
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer fw.Close()

	t := &tree{
		fw:    fw,
		files: make(map[string]bool),
		dirs:  make(map[string]bool),
		skip:  make(map[string]bool),
		match: w.Match,
	}
	for _, p := range w.Ignore {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", p, err)
		}
		t.skip[abs] = true
	}
	if err := t.add(paths); err != nil {
		return err
	}

	rebuildReq, trigger, stop := debouncer(debounce)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if t.relevant(ev) {
				log.Debug().Str("path", ev.Name).Str("op", ev.Op.String()).Msg("change detected")
				trigger()
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watcher error")
		case <-rebuildReq:
			// Events arriving during the build queue in fw.Events and
			// trigger another debounce once it returns.
			start := time.Now()
			if err := fn(ctx); err != nil {
				log.Warn().Err(err).Msg("rebuild failed")
				continue
			}
			log.Debug().Dur("took", time.Since(start)).Msg("rebuild finished")
		}
	}
}

// tree tracks what is being watched. Named files are watched through their
// parent directory; dirs holds every directory watched in full.
type tree struct {
	fw    *fsnotify.Watcher
	files map[string]bool
	dirs  map[string]bool
	skip  map[string]bool
	match func(string) bool
}

func (t *tree) add(paths []string) error {
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", p, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return fmt.Errorf("stat %s: %w", p, err)
		}
		if info.IsDir() {
			t.addDirsRecursive(abs)
			continue
		}
		t.files[abs] = true
		if err := t.fw.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("watching %s: %w", p, err)
		}
	}
	return nil
}

func (t *tree) addDirsRecursive(root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := t.fw.Add(path); err != nil {
			log.Warn().Err(err).Str("dir", path).Msg("watch add failed")
			return nil
		}
		t.dirs[path] = true
		return nil
	})
}

// relevant reports whether ev should trigger a rebuild. Directories created
// inside a fully watched directory are added to the watch.
func (t *tree) relevant(ev fsnotify.Event) bool {
	if ignored(ev.Name) || t.skip[ev.Name] || ev.Op == fsnotify.Chmod {
		return false
	}
	if t.files[ev.Name] {
		return true
	}
	if t.dirs[ev.Name] && (ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename)) {
		delete(t.dirs, ev.Name)
		return true
	}
	if !t.dirs[filepath.Dir(ev.Name)] {
		return false
	}
	if ev.Op.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			t.addDirsRecursive(ev.Name)
			return true
		}
	}
	return t.match == nil || t.match(ev.Name)
}

// ignored reports editor swap files, backups and hidden files.
func ignored(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") ||
		strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".tmp")
}

// debouncer returns a channel that receives one value after each quiet
// period following calls to trigger.
func debouncer(d time.Duration) (<-chan struct{}, func(), func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}
	stop := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}
	return rebuildReq, trigger, stop
}
