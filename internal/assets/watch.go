package assets

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debouncer coalesces rapid event bursts into a single callback per file.
type debouncer struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
	delay  time.Duration
	onFire func(name string)
}

func newDebouncer(delay time.Duration, onFire func(name string)) *debouncer {
	return &debouncer{
		timers: make(map[string]*time.Timer),
		delay:  delay,
		onFire: onFire,
	}
}

func (d *debouncer) trigger(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.timers[name]; ok {
		t.Reset(d.delay)
		return
	}
	d.timers[name] = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		delete(d.timers, name)
		d.mu.Unlock()
		d.onFire(name)
	})
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for name, t := range d.timers {
		t.Stop()
		delete(d.timers, name)
	}
}

// Watch reloads frame files as they change on disk until ctx is done.
// Files the catalogue does not mention are ignored.
func (s *Store) Watch(ctx context.Context, delay time.Duration) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(s.dir); err != nil {
		return fmt.Errorf("watching %s: %w", s.dir, err)
	}
	s.log.Info("watching frame assets", "dir", s.dir)

	known := map[string]bool{}
	for _, name := range s.Files() {
		known[name] = true
	}

	db := newDebouncer(delay, func(name string) {
		if s.Reload(name) {
			s.log.Info("frame asset reloaded", "file", name)
		}
	})
	defer db.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(ev.Name)
			if !known[name] {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				db.trigger(name)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("watcher error", "err", err)
		}
	}
}
