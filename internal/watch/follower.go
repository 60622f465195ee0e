// Package watch follows the data directory of the current CP and reports
// when the generator rewrites one of its CSVs.
package watch

import (
	"context"
	"errors"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"pokecp/pokecp/internal/dataset"
)

const DefaultDebounce = 300 * time.Millisecond

// Event says the CSV of kind for cp was written.
type Event struct {
	Path string
	CP   int
	Kind dataset.Kind
}

type Follower struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	root        string
	dir         string
	cp          int
	pending     map[string]pendingEvent
	debounceDur time.Duration
	notify      func(Event)
	logger      *zap.Logger

	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

type pendingEvent struct {
	event Event
	at    time.Time
}

type Option func(*Follower)

func WithDebounce(d time.Duration) Option {
	return func(f *Follower) {
		if d > 0 {
			f.debounceDur = d
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(f *Follower) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// New creates a follower for the data root. notify is called from the
// follower's goroutine.
func New(root string, notify func(Event), opts ...Option) (*Follower, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	f := &Follower{
		watcher:     watcher,
		root:        root,
		pending:     make(map[string]pendingEvent),
		debounceDur: DefaultDebounce,
		notify:      notify,
		logger:      zap.NewNop(),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Follow switches to the directory of cp. Events for the previous CP that
// are still being debounced are dropped.
func (f *Follower) Follow(cp int) error {
	dir := filepath.Join(f.root, path.Dir(dataset.ResourcePath(cp, dataset.Normal)))

	f.mu.Lock()
	defer f.mu.Unlock()
	if dir == f.dir {
		return nil
	}
	if f.dir != "" {
		if err := f.watcher.Remove(f.dir); err != nil && !errors.Is(err, fsnotify.ErrNonExistentWatch) {
			f.logger.Warn("unwatch failed", zap.String("dir", f.dir), zap.Error(err))
		}
	}
	clear(f.pending)
	f.dir, f.cp = "", 0

	if err := f.watcher.Add(dir); err != nil {
		return err
	}
	f.dir, f.cp = dir, cp
	f.logger.Debug("following", zap.String("dir", dir), zap.Int("cp", cp))
	return nil
}

func (f *Follower) Dir() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dir
}

func (f *Follower) Start(ctx context.Context) {
	f.mu.Lock()
	if f.running {
		f.mu.Unlock()
		return
	}
	f.running = true
	f.mu.Unlock()

	go f.run(ctx)
}

// Stop ends the event loop and closes the underlying watcher.
func (f *Follower) Stop() {
	f.mu.Lock()
	running := f.running
	f.running = false
	f.mu.Unlock()

	if running {
		close(f.stopCh)
		<-f.doneCh
	}
	if err := f.watcher.Close(); err != nil {
		f.logger.Error("closing watcher", zap.Error(err))
	}
}

func (f *Follower) run(ctx context.Context) {
	defer close(f.doneCh)

	ticker := time.NewTicker(max(f.debounceDur/3, time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-f.stopCh:
			return
		case event, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			f.handle(event)
		case err, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			f.logger.Error("watch error", zap.Error(err))
		case <-ticker.C:
			f.flush()
		}
	}
}

func (f *Follower) handle(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dir == "" || filepath.Dir(event.Name) != f.dir {
		return
	}
	kind, ok := f.kindOf(filepath.Base(event.Name))
	if !ok {
		return
	}
	f.logger.Debug("dataset changed", zap.String("path", event.Name), zap.Stringer("op", event.Op))
	f.pending[event.Name] = pendingEvent{
		event: Event{Path: event.Name, CP: f.cp, Kind: kind},
		at:    time.Now(),
	}
}

func (f *Follower) kindOf(base string) (dataset.Kind, bool) {
	for _, kind := range []dataset.Kind{dataset.Normal, dataset.Shadow} {
		if base == path.Base(dataset.ResourcePath(f.cp, kind)) {
			return kind, true
		}
	}
	return dataset.Normal, false
}

func (f *Follower) flush() {
	f.mu.Lock()
	now := time.Now()
	var ready []Event
	for name, p := range f.pending {
		if now.Sub(p.at) >= f.debounceDur {
			ready = append(ready, p.event)
			delete(f.pending, name)
		}
	}
	f.mu.Unlock()

	for _, e := range ready {
		f.notify(e)
	}
}
