// Package watch re-parses q scripts as they change on disk.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dhamidi/qparse/q/parser"
	"github.com/fsnotify/fsnotify"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("qparse.watch")

// Result is the outcome of parsing one file.
type Result struct {
	Path       string
	Source     []byte
	Statements []parser.Statement
	// Err is set when the file could not be read.
	Err error
}

// Failed reports whether the file could not be read or any of its lines
// failed to parse.
func (r Result) Failed() bool {
	if r.Err != nil {
		return true
	}
	for _, st := range r.Statements {
		if st.Err != nil {
			return true
		}
	}
	return false
}

// ParseFile reads path and parses it one query per line.
func ParseFile(path string, opts ...parser.Option) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{Path: path, Err: fmt.Errorf("read %s: %w", path, err)}
	}
	opts = append([]parser.Option{parser.WithFile(path)}, opts...)
	return Result{
		Path:       path,
		Source:     data,
		Statements: parser.ParseLines(string(data), opts...),
	}
}

type Option func(*Watcher)

// WithDebounce sets how long a file must stay quiet before it is parsed.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithExtensions sets the file extensions watched in directories.
func WithExtensions(exts ...string) Option {
	return func(w *Watcher) {
		w.extensions = exts
	}
}

func WithParserOptions(opts ...parser.Option) Option {
	return func(w *Watcher) {
		w.parserOpts = opts
	}
}

// Watcher parses files when they are written and hands each Result to a
// handler. The handler runs on the goroutine that called Run.
type Watcher struct {
	watcher    *fsnotify.Watcher
	handler    func(Result)
	debounce   time.Duration
	extensions []string
	parserOpts []parser.Option

	files map[string]bool
	dirs  map[string]bool

	mu      sync.Mutex
	pending map[string]*time.Timer
	ready   chan string
}

func New(handler func(Result), opts ...Option) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		watcher:    fsWatcher,
		handler:    handler,
		debounce:   100 * time.Millisecond,
		extensions: []string{".q"},
		files:      make(map[string]bool),
		dirs:       make(map[string]bool),
		pending:    make(map[string]*time.Timer),
		ready:      make(chan string, 16),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Add watches files and directories. Directories are watched recursively
// for files with a watched extension; hidden subdirectories are skipped.
func (w *Watcher) Add(paths ...string) error {
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", path, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		if info.IsDir() {
			if err := w.watchDirRecursive(abs); err != nil {
				return fmt.Errorf("watch %s: %w", path, err)
			}
			continue
		}
		if err := w.watcher.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		w.files[abs] = true
	}
	return nil
}

// watchDirRecursive adds a directory and its subdirectories to the watch list
func (w *Watcher) watchDirRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if strings.HasPrefix(info.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return err
		}
		w.dirs[path] = true
		log.Debugf("watching %s", path)
		return nil
	})
}

func (w *Watcher) matches(path string) bool {
	if w.files[path] {
		return true
	}
	return w.dirs[filepath.Dir(path)] && slices.Contains(w.extensions, strings.ToLower(filepath.Ext(path)))
}

// Files returns the watched files currently on disk, sorted.
func (w *Watcher) Files() []string {
	var files []string
	for path := range w.files {
		files = append(files, path)
	}
	for dir := range w.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			path := filepath.Join(dir, e.Name())
			if !e.IsDir() && !w.files[path] && w.matches(path) {
				files = append(files, path)
			}
		}
	}
	sort.Strings(files)
	return files
}

// Run parses every watched file once, then re-parses files as they change
// until ctx is done. It closes the watcher before returning.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.close()

	for _, path := range w.Files() {
		w.handler(ParseFile(path, w.parserOpts...))
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case path := <-w.ready:
			log.Infof("changed: %s", path)
			w.handler(ParseFile(path, w.parserOpts...))

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Errorf("watcher error: %s", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Has(fsnotify.Create) && w.dirs[filepath.Dir(event.Name)] {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !strings.HasPrefix(info.Name(), ".") {
			if err := w.watchDirRecursive(event.Name); err != nil {
				log.Errorf("watch %s: %s", event.Name, err)
			}
			return
		}
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if !w.matches(event.Name) {
		return
	}
	w.schedule(event.Name)
}

// schedule parses path once it has been quiet for the debounce interval.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.ready <- path
	})
}

func (w *Watcher) close() {
	w.mu.Lock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()
	if err := w.watcher.Close(); err != nil {
		log.Errorf("close watcher: %s", err)
	}
}
