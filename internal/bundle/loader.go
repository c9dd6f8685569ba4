package bundle

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Loader reads a bundle file and watches it for regeneration.
type Loader struct {
	path     string
	mu       sync.RWMutex
	current  *Bundle
	onChange []func(*Bundle)
}

// NewLoader creates a Loader and performs the initial load.
func NewLoader(path string) (*Loader, error) {
	l := &Loader{path: path}
	b, err := l.load()
	if err != nil {
		return nil, err
	}
	l.current = b
	return l, nil
}

// Path returns the watched bundle path.
func (l *Loader) Path() string { return l.path }

// Bundle returns the most recently loaded bundle.
func (l *Loader) Bundle() *Bundle {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// OnChange registers a callback invoked whenever the bundle reloads.
func (l *Loader) OnChange(fn func(*Bundle)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = append(l.onChange, fn)
}

// Watch starts a background goroutine that reloads the bundle whenever the
// file is rewritten. Call the returned stop function to clean up.
func (l *Loader) Watch() (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("bundle watcher: %w", err)
	}
	if err := w.Add(l.path); err != nil {
		w.Close()
		return nil, fmt.Errorf("bundle watcher add %s: %w", l.path, err)
	}

	done := make(chan struct{})
	go func() {
		defer w.Close()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
					b, err := l.load()
					if err != nil {
						// The generator may still be writing; keep the old bundle.
						slog.Warn("bundle reload skipped", "path", l.path, "err", err)
						continue
					}
					l.publish(b)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				slog.Warn("bundle watcher error", "err", err)
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }, nil
}

// Reload forces an immediate re-read of the bundle file.
func (l *Loader) Reload() (*Bundle, error) {
	b, err := l.load()
	if err != nil {
		return nil, err
	}
	l.publish(b)
	return b, nil
}

func (l *Loader) publish(b *Bundle) {
	l.mu.Lock()
	l.current = b
	callbacks := make([]func(*Bundle), len(l.onChange))
	copy(callbacks, l.onChange)
	l.mu.Unlock()
	for _, fn := range callbacks {
		fn(b)
	}
}

func (l *Loader) load() (*Bundle, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read bundle %s: %w", l.path, err)
	}
	b, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("bundle %s: %w", l.path, err)
	}
	return b, nil
}

// Decode parses and validates bundle JSON.
func Decode(data []byte) (*Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse bundle: %w", err)
	}
	if b.Modules == nil {
		b.Modules = make(map[string]ModuleRecord)
	}
	for i := range b.Nodes {
		if b.Nodes[i].Label == "" {
			b.Nodes[i].Label = b.Nodes[i].ID
		}
	}
	if err := Validate(&b); err != nil {
		return nil, err
	}
	return &b, nil
}
