// Package registry keeps the components discovered in a project and notifies
// watchers when they change.
package registry

import (
	"sort"
	"sync"
	"time"

	"github.com/conneroisu/vuelens/internal/casing"
)

// ComponentRegistry manages all discovered components
type ComponentRegistry struct {
	components map[string]*ComponentInfo
	mutex      sync.RWMutex
	watchers   []chan ComponentEvent
}

// ComponentInfo holds metadata about a single-file component
type ComponentInfo struct {
	// Name is the PascalCase component name derived from the file name.
	Name     string    `json:"name" yaml:"name"`
	FilePath string    `json:"filePath" yaml:"filePath"`
	Props    []string  `json:"props" yaml:"props"`
	Imports  []string  `json:"imports,omitempty" yaml:"imports,omitempty"`
	LastMod  time.Time `json:"lastMod" yaml:"lastMod"`
	Hash     string    `json:"hash" yaml:"hash"`
	// Dependencies are the registered components its template uses.
	Dependencies []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}

// ComponentEvent represents a change in the component registry
type ComponentEvent struct {
	Type      EventType
	Component *ComponentInfo
	Timestamp time.Time
}

// EventType represents the type of component event
type EventType int

const (
	EventTypeAdded EventType = iota
	EventTypeUpdated
	EventTypeRemoved
)

// String returns the event name.
func (t EventType) String() string {
	switch t {
	case EventTypeAdded:
		return "added"
	case EventTypeUpdated:
		return "updated"
	case EventTypeRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// NewComponentRegistry creates a new component registry
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		components: make(map[string]*ComponentInfo),
		watchers:   make([]chan ComponentEvent, 0),
	}
}

// Register adds or updates a component in the registry
func (r *ComponentRegistry) Register(component *ComponentInfo) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	eventType := EventTypeAdded
	if _, exists := r.components[component.Name]; exists {
		eventType = EventTypeUpdated
	}

	r.components[component.Name] = component
	r.notify(ComponentEvent{
		Type:      eventType,
		Component: component,
		Timestamp: time.Now(),
	})
}

// Get retrieves a component by name
func (r *ComponentRegistry) Get(name string) (*ComponentInfo, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	component, exists := r.components[name]
	return component, exists
}

// Lookup finds the component a template tag refers to, written either as
// the component name or its kebab-case form.
func (r *ComponentRegistry) Lookup(tag string) (*ComponentInfo, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.lookup(tag)
}

func (r *ComponentRegistry) lookup(tag string) (*ComponentInfo, bool) {
	if component, exists := r.components[tag]; exists {
		return component, true
	}
	for _, name := range r.sortedNames() {
		if casing.Hyphenate(name) == tag {
			return r.components[name], true
		}
	}
	return nil, false
}

// GetAll returns all registered components
func (r *ComponentRegistry) GetAll() map[string]*ComponentInfo {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make(map[string]*ComponentInfo)
	for name, component := range r.components {
		result[name] = component
	}
	return result
}

// Names returns the registered component names in sorted order.
func (r *ComponentRegistry) Names() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.sortedNames()
}

func (r *ComponentRegistry) sortedNames() []string {
	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PropNames returns the declared props of a component, or nil when the
// component is unknown. It satisfies casing.PropsOf.
func (r *ComponentRegistry) PropNames(name string) []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	component, exists := r.components[name]
	if !exists {
		return nil
	}
	props := make([]string, len(component.Props))
	copy(props, component.Props)
	return props
}

// Remove removes a component from the registry
func (r *ComponentRegistry) Remove(name string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	component, exists := r.components[name]
	if !exists {
		return
	}

	delete(r.components, name)
	r.notify(ComponentEvent{
		Type:      EventTypeRemoved,
		Component: component,
		Timestamp: time.Now(),
	})
}

// RemoveFile removes every component declared in the file at path.
func (r *ComponentRegistry) RemoveFile(path string) int {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	removed := 0
	for _, name := range r.sortedNames() {
		component := r.components[name]
		if component.FilePath != path {
			continue
		}
		delete(r.components, name)
		removed++
		r.notify(ComponentEvent{
			Type:      EventTypeRemoved,
			Component: component,
			Timestamp: time.Now(),
		})
	}
	return removed
}

// notify must be called with the mutex held.
func (r *ComponentRegistry) notify(event ComponentEvent) {
	for _, watcher := range r.watchers {
		select {
		case watcher <- event:
		default:
			// Skip if channel is full
		}
	}
}

// Watch returns a channel that receives component events
func (r *ComponentRegistry) Watch() <-chan ComponentEvent {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	ch := make(chan ComponentEvent, 100)
	r.watchers = append(r.watchers, ch)
	return ch
}

// UnWatch removes a watcher channel and closes it
func (r *ComponentRegistry) UnWatch(ch <-chan ComponentEvent) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i, watcher := range r.watchers {
		if watcher == ch {
			close(watcher)
			r.watchers = append(r.watchers[:i], r.watchers[i+1:]...)
			break
		}
	}
}

// Count returns the number of registered components
func (r *ComponentRegistry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.components)
}
