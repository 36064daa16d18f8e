package routecfg

import (
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/strada-dev/strada"
)

// Watcher serves a manifest-driven route table and rebuilds it when the
// manifest file changes. Each reload builds a complete new Router from
// scratch and swaps it in atomically, so every generation is fully
// registered before it sees its first lookup and in-flight requests
// keep dispatching against the table they started on.
type Watcher struct {
	path     string
	registry Registry

	current atomic.Pointer[strada.Router]

	fsw           *fsnotify.Watcher
	debounceDelay time.Duration
	onError       func(error)
	onReload      func(*strada.Router)

	closeOnce sync.Once
	stopCh    chan struct{}
	stoppedCh chan struct{}
}

// WatcherOption is a functional option for configuring the watcher.
type WatcherOption func(*Watcher)

// WithDebounceDelay sets how long the watcher coalesces file events
// before reloading. Defaults to 100ms.
func WithDebounceDelay(delay time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounceDelay = delay }
}

// WithErrorCallback installs a callback invoked when a reload fails.
// The previous route table keeps serving.
func WithErrorCallback(fn func(error)) WatcherOption {
	return func(w *Watcher) { w.onError = fn }
}

// WithReloadCallback installs a callback invoked with each new route
// table after a successful reload.
func WithReloadCallback(fn func(*strada.Router)) WatcherOption {
	return func(w *Watcher) { w.onReload = fn }
}

// NewWatcher loads the manifest at path and starts watching its
// directory for changes. The initial load must succeed; later reload
// failures keep the previous table and report through the error
// callback.
func NewWatcher(path string, reg Registry, opts ...WatcherOption) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:          absPath,
		registry:      reg,
		debounceDelay: 100 * time.Millisecond,
		stopCh:        make(chan struct{}),
		stoppedCh:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	router, err := LoadFile(w.path, reg)
	if err != nil {
		return nil, err
	}
	w.current.Store(router)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory, not the file: editors and config managers
	// replace files by rename, which drops a direct file watch.
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return nil, err
	}
	w.fsw = fsw

	go w.loop()
	return w, nil
}

// Router returns the current route table.
func (w *Watcher) Router() *strada.Router {
	return w.current.Load()
}

// ServeHTTP dispatches against the current route table.
func (w *Watcher) ServeHTTP(rw http.ResponseWriter, req *http.Request) {
	w.current.Load().ServeHTTP(rw, req)
}

// Reload rebuilds the route table from the manifest immediately. On
// failure the previous table keeps serving and the error is returned.
func (w *Watcher) Reload() error {
	router, err := LoadFile(w.path, w.registry)
	if err != nil {
		return fmt.Errorf("routecfg: reload %s: %w", w.path, err)
	}
	w.current.Store(router)
	if w.onReload != nil {
		w.onReload(router)
	}
	return nil
}

// Close stops the watch loop and releases the file watcher. The current
// route table remains usable after Close.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.stopCh)
		<-w.stoppedCh
		err = w.fsw.Close()
	})
	return err
}

func (w *Watcher) loop() {
	defer close(w.stoppedCh)

	var debounce *time.Timer
	var debounceCh <-chan time.Time

	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.NewTimer(w.debounceDelay)
			debounceCh = debounce.C

		case <-debounceCh:
			debounceCh = nil
			if err := w.Reload(); err != nil && w.onError != nil {
				w.onError(err)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}
