package plugin

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// Factory creates plugin instances from configured parameters.
type Factory struct {
	Description Description
	New         func(params Parameters) (WorkflowPlugin, error)
}

// Registry holds the plugins a process offers to the host.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a plugin factory. IDs must be unique.
func (r *Registry) Register(f Factory) error {
	if f.Description.ID == "" {
		return errors.New("plugin ID is empty")
	}
	if f.New == nil {
		return errors.Errorf("plugin %s has no constructor", f.Description.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[f.Description.ID]; exists {
		return errors.Errorf("plugin already registered: %s", f.Description.ID)
	}
	r.factories[f.Description.ID] = f
	return nil
}

// Get returns the description of a registered plugin.
func (r *Registry) Get(id string) (Description, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[id]
	return f.Description, ok
}

// List returns the descriptions of all plugins sorted by ID.
func (r *Registry) List() []Description {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Description, 0, len(r.factories))
	for _, f := range r.factories {
		out = append(out, f.Description)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Create constructs the plugin id with the given parameter values.
func (r *Registry) Create(id string, values map[string]string) (
	WorkflowPlugin, error) {

	r.mu.RLock()
	f, ok := r.factories[id]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.Errorf("unknown plugin: %s", id)
	}

	params, err := NewParameters(f.Description, values)
	if err != nil {
		return nil, err
	}
	return f.New(params)
}
