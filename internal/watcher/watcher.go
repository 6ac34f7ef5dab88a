// Package watcher watches the registration database and publishes a
// debounced notification when it changes on disk.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/ringside/internal/log"
	"github.com/zjrosen/ringside/internal/pubsub"
)

// EventKind distinguishes watcher events.
type EventKind int

const (
	// DBChanged means the database or its WAL was written.
	DBChanged EventKind = iota
	// WatcherError carries an fsnotify error. Watching continues.
	WatcherError
)

func (k EventKind) String() string {
	switch k {
	case DBChanged:
		return "db_changed"
	case WatcherError:
		return "watcher_error"
	default:
		return "unknown"
	}
}

// WatcherEvent is published on the watcher's broker.
type WatcherEvent struct {
	Kind EventKind
	Path string
	Err  error
}

// DefaultDebounce is used when Config.Debounce is zero.
const DefaultDebounce = 500 * time.Millisecond

// Config holds watcher configuration options.
type Config struct {
	DBPath   string
	Debounce time.Duration
}

// Watcher monitors the database file and publishes WatcherEvents.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	dbPath    string
	debounce  time.Duration
	broker    *pubsub.Broker[WatcherEvent]
	done      chan struct{}
	wg        sync.WaitGroup
	stopOnce  sync.Once
}

var _ pubsub.Subscriber[WatcherEvent] = (*Watcher)(nil)

// New creates a watcher. Call Start to begin watching.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		fsWatcher: fsw,
		dbPath:    cfg.DBPath,
		debounce:  debounce,
		broker:    pubsub.NewBroker[WatcherEvent](),
		done:      make(chan struct{}),
	}, nil
}

// Subscribe returns a channel of watcher events that closes when ctx is
// done or the watcher stops.
func (w *Watcher) Subscribe(ctx context.Context) <-chan pubsub.Event[WatcherEvent] {
	return w.broker.Subscribe(ctx)
}

// Start watches the directory containing the database. Watching the
// directory catches the WAL file being created after start.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.dbPath)
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("watching directory %s: %w", dir, err)
	}
	log.Debug(log.CatWatcher, "Watching database", "path", w.dbPath, "debounce", w.debounce)

	w.wg.Add(1)
	go w.loop()
	return nil
}

// Stop ends the watch loop, closes subscriber channels and releases the
// fsnotify watcher. Calling it more than once is safe.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
		w.wg.Wait()
		w.broker.Close()
	})
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	var (
		timer   *time.Timer
		fire    <-chan time.Time
		changed string
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.isRelevantEvent(event) {
				continue
			}
			changed = event.Name
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			log.Debug(log.CatWatcher, "Database changed", "path", changed)
			w.broker.Publish(pubsub.ChangedEvent, WatcherEvent{Kind: DBChanged, Path: changed})

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatcher, "Watcher error", err)
			w.broker.Publish(pubsub.FailedEvent, WatcherEvent{Kind: WatcherError, Path: w.dbPath, Err: err})

		case <-w.done:
			return
		}
	}
}

// isRelevantEvent reports writes and creates of the database or its WAL.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}
	base := filepath.Base(event.Name)
	name := filepath.Base(w.dbPath)
	return base == name || base == name+"-wal"
}
