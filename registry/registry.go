// Package registry discovers capture handlers and dispatches URLs to them.
package registry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pagevault/pagevault/constant"
	"github.com/pagevault/pagevault/filesystem"
	"github.com/pagevault/pagevault/handler"
	"github.com/pagevault/pagevault/handler/luaunit"
	"github.com/pagevault/pagevault/handler/rule"
	"github.com/pagevault/pagevault/log"
	"github.com/samber/lo"
)

// Loader turns one handler unit on disk into zero or more handlers.
type Loader func(path string) ([]handler.Handler, error)

// Registry holds handlers sorted by ascending priority.
// Ties keep registration order.
type Registry struct {
	mu       sync.RWMutex
	handlers []handler.Handler
	loaders  map[string]Loader
}

// New returns an empty registry that knows how to load Lua and YAML units.
func New() *Registry {
	return &Registry{
		loaders: map[string]Loader{
			".lua":  luaunit.Load,
			".yaml": rule.Load,
			".yml":  rule.Load,
		},
	}
}

// RegisterLoader associates a file extension (including the dot) with a loader.
func (r *Registry) RegisterLoader(ext string, loader Loader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaders[strings.ToLower(ext)] = loader
}

// Register adds compiled-in handlers.
func (r *Registry) Register(handlers ...handler.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = append(r.handlers, handlers...)
	r.sort()
}

func (r *Registry) sort() {
	sort.SliceStable(r.handlers, func(i, j int) bool {
		return r.handlers[i].Priority() < r.handlers[j].Priority()
	})
}

// Discover loads every handler unit found directly inside dir.
//
// Only regular files with a known extension are considered, and names
// starting with the reserved prefix are skipped. A unit that fails to load is
// logged and reported in the returned slice; it never stops the others.
// The directory and its marker file are created when missing.
func (r *Registry) Discover(dir string) []*handler.LoadError {
	if err := ensureHandlersDir(dir); err != nil {
		log.Errorf("create handlers dir: %v", err)
		return []*handler.LoadError{{Path: dir, Err: err}}
	}

	entries, err := filesystem.API().ReadDir(dir)
	if err != nil {
		log.Errorf("read handlers dir: %v", err)
		return []*handler.LoadError{{Path: dir, Err: err}}
	}

	var (
		found    []handler.Handler
		failures []*handler.LoadError
	)

	for _, entry := range entries {
		name := entry.Name()
		if !entry.Mode().IsRegular() || strings.HasPrefix(name, constant.HandlerReservedPrefix) {
			continue
		}

		r.mu.RLock()
		loader, ok := r.loaders[strings.ToLower(filepath.Ext(name))]
		r.mu.RUnlock()
		if !ok {
			continue
		}

		path := filepath.Join(dir, name)
		handlers, err := loadIsolated(loader, path)
		if err != nil {
			log.Warnf("skipping handler unit %s: %v", name, err)
			failures = append(failures, &handler.LoadError{Path: path, Err: err})
			continue
		}

		for _, h := range handlers {
			log.Infof("discovered handler %s (priority %d) from %s", h.Name(), h.Priority(), name)
		}
		found = append(found, handlers...)
	}

	r.Register(found...)
	log.Infof("loaded %d handlers", len(found))
	return failures
}

// loadIsolated runs a loader, turning a panic into an error.
func loadIsolated(loader Loader, path string) (handlers []handler.Handler, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			handlers = nil
			err = fmt.Errorf("panic while loading: %v", recovered)
		}
	}()

	return loader(path)
}

func ensureHandlersDir(dir string) error {
	fs := filesystem.API()
	if err := fs.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}

	marker := filepath.Join(dir, constant.HandlerInitFilename)
	exists, err := fs.Exists(marker)
	if err != nil || exists {
		return err
	}
	return fs.WriteFile(marker, []byte(constant.HandlerInitContent), 0o644)
}

// Disable drops handlers whose names are listed.
func (r *Registry) Disable(names ...string) {
	if len(names) == 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var dropped []handler.Handler
	r.handlers, dropped = lo.FilterReject(r.handlers, func(h handler.Handler, _ int) bool {
		return !lo.Contains(names, h.Name())
	})
	release(dropped...)
}

// release frees whatever the handlers hold, such as a Lua state.
func release(handlers ...handler.Handler) {
	for _, h := range handlers {
		if closer, ok := h.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				log.Warnf("release handler %s: %v", h.Name(), err)
			}
		}
	}
}

// Resolve returns the first handler, by priority, matching url.
// Without a match the selection is handler.NoCustomHandler.
func (r *Registry) Resolve(url string) handler.Selection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, h := range r.handlers {
		if h.Matches(url) {
			log.Debugf("url %s matched handler %s", url, h.Name())
			return handler.Select(h)
		}
	}
	return handler.None()
}

// Handlers returns the registered handlers in resolution order.
func (r *Registry) Handlers() []handler.Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]handler.Handler(nil), r.handlers...)
}

// Get finds a handler by name.
func (r *Registry) Get(name string) (handler.Handler, bool) {
	return lo.Find(r.Handlers(), func(h handler.Handler) bool {
		return h.Name() == name
	})
}
