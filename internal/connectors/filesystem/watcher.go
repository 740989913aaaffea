// Package filesystem watches an inbox directory for PDFs to ingest.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/pdfchat/internal/logger"
)

// DefaultSettle is how long a file must be quiet before it is reported.
// Copies arrive as a create followed by a burst of writes.
const DefaultSettle = 500 * time.Millisecond

// ErrNotDirectory is returned when the watch root is not a directory.
var ErrNotDirectory = errors.New("watch root is not a directory")

// Watcher reports PDF files that are created or rewritten under a single
// directory. Subdirectories are not watched.
type Watcher struct {
	root   string
	settle time.Duration

	mu      sync.Mutex
	watcher *fsnotify.Watcher
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithSettle overrides the quiet period before a file is reported.
func WithSettle(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.settle = d
		}
	}
}

// New creates a watcher for root.
func New(root string, opts ...Option) *Watcher {
	w := &Watcher{root: root, settle: DefaultSettle}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Root returns the watched directory.
func (w *Watcher) Root() string {
	return w.root
}

// Validate checks that the root exists and is a directory.
func (w *Watcher) Validate() error {
	if w.root == "" {
		return errors.New("watch root is required")
	}
	info, err := os.Stat(w.root)
	if err != nil {
		return fmt.Errorf("checking watch root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w", w.root, ErrNotDirectory)
	}
	return nil
}

// Existing returns the PDFs already present in the root, sorted by name.
func (w *Watcher) Existing() ([]string, error) {
	entries, err := os.ReadDir(w.root)
	if err != nil {
		return nil, fmt.Errorf("reading watch root: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(w.root, entry.Name())
		if isHidden(entry.Name()) || !IsPDF(path) {
			continue
		}
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}

// Watch starts watching the root. The returned channel yields the path of
// each PDF once it has settled, and is closed when ctx is cancelled or the
// watcher is closed.
func (w *Watcher) Watch(ctx context.Context) (<-chan string, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(w.root); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", w.root, err)
	}

	w.mu.Lock()
	if w.watcher != nil {
		w.watcher.Close()
	}
	w.watcher = fsw
	w.mu.Unlock()

	out := make(chan string)
	go w.run(ctx, fsw, out)
	return out, nil
}

func (w *Watcher) run(ctx context.Context, fsw *fsnotify.Watcher, out chan<- string) {
	defer close(out)

	done := make(chan struct{})
	defer close(done)

	ready := make(chan string)
	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			path := w.handleFsEvent(event)
			if path == "" {
				continue
			}
			if t, ok := timers[path]; ok {
				t.Reset(w.settle)
				continue
			}
			timers[path] = time.AfterFunc(w.settle, func() {
				select {
				case ready <- path:
				case <-done:
				}
			})

		case path := <-ready:
			delete(timers, path)
			select {
			case out <- path:
			case <-ctx.Done():
				return
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("watch error on %s: %v", w.root, err)
		}
	}
}

// handleFsEvent returns the path to report for event, or "" when the event
// is not a create or write of a visible PDF file.
func (w *Watcher) handleFsEvent(event fsnotify.Event) string {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return ""
	}
	if isHidden(filepath.Base(event.Name)) || !IsPDF(event.Name) {
		return ""
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return ""
	}
	return event.Name
}

// Close stops the underlying watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watcher == nil {
		return nil
	}
	err := w.watcher.Close()
	w.watcher = nil
	return err
}

// IsPDF reports whether path has a .pdf extension.
func IsPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// DocumentID derives a document id from a file path: the base name
// without its extension.
func DocumentID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
