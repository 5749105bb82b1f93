package project

import (
	"path/filepath"
	"strings"
	"sync"

	lenserrors "github.com/conneroisu/vuelens/internal/errors"
)

// LanguagePlugin is a loaded language plugin module. Plugins run after
// defaults are applied and may adjust the effective options.
type LanguagePlugin interface {
	Name() string
	ResolveOptions(opts *CompilerOptions) error
}

// Loader loads the plugin module at a resolved path.
type Loader interface {
	Load(path string) (LanguagePlugin, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(path string) (LanguagePlugin, error)

// Load calls f(path).
func (f LoaderFunc) Load(path string) (LanguagePlugin, error) {
	return f(path)
}

// StaticLoader serves plugins registered in memory under their resolved path.
type StaticLoader map[string]LanguagePlugin

// Load returns the plugin registered for path.
func (s StaticLoader) Load(path string) (LanguagePlugin, error) {
	if p, ok := s[path]; ok {
		return p, nil
	}
	return nil, lenserrors.NewModuleError(lenserrors.ErrCodePluginUnloadable,
		"no plugin registered", nil).WithFile(path)
}

// MultiLoader dispatches to a loader by file extension.
type MultiLoader struct {
	mu       sync.RWMutex
	loaders  map[string]Loader
	fallback Loader
}

// NewMultiLoader creates a loader with no registered extensions.
func NewMultiLoader() *MultiLoader {
	return &MultiLoader{loaders: make(map[string]Loader)}
}

// Register sets the loader for files ending in ext.
func (m *MultiLoader) Register(ext string, loader Loader) *MultiLoader {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaders[strings.ToLower(ext)] = loader
	return m
}

// Fallback sets the loader for unregistered extensions.
func (m *MultiLoader) Fallback(loader Loader) *MultiLoader {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = loader
	return m
}

// Load picks the loader registered for the extension of path.
func (m *MultiLoader) Load(path string) (LanguagePlugin, error) {
	m.mu.RLock()
	loader, ok := m.loaders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		loader = m.fallback
	}
	m.mu.RUnlock()

	if loader == nil {
		return nil, lenserrors.NewModuleError(lenserrors.ErrCodePluginUnloadable,
			"no loader for "+filepath.Ext(path)+" modules", nil).WithFile(path)
	}
	return loader.Load(path)
}

// DefaultLoader loads Lua plugin modules.
func DefaultLoader() Loader {
	return NewMultiLoader().Register(".lua", &LuaLoader{})
}

// BasicPlugin is a LanguagePlugin built from a function.
type BasicPlugin struct {
	ID      string
	Resolve func(opts *CompilerOptions) error
}

// Name returns the plugin ID.
func (p *BasicPlugin) Name() string {
	return p.ID
}

// ResolveOptions calls Resolve when set.
func (p *BasicPlugin) ResolveOptions(opts *CompilerOptions) error {
	if p.Resolve == nil {
		return nil
	}
	return p.Resolve(opts)
}

// ApplyPlugins runs every loaded plugin over opts in order. A failing plugin
// does not stop the ones after it.
func ApplyPlugins(opts *CompilerOptions) []error {
	var errs []error
	for _, p := range opts.Plugins {
		if err := p.ResolveOptions(opts); err != nil {
			errs = append(errs, lenserrors.NewModuleError(lenserrors.ErrCodePluginUnloadable,
				"plugin failed: "+p.Name(), err).WithContext("plugin", p.Name()))
		}
	}
	return errs
}
