package loader

import (
	"fmt"
	"sort"
	"sync"

	"github.com/zeusync/behave/pkg/behavior"
)

// Factory creates a leaf named name from its definition parameters.
type Factory func(name string, p Params) (behavior.Node, error)

// Registry maps the action and condition kinds a definition may reference to
// the factories creating them. It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	actions    map[string]Factory
	conditions map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		actions:    make(map[string]Factory),
		conditions: make(map[string]Factory),
	}
}

// DefaultRegistry returns a registry holding the built-in leaves.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterBuiltins(r)
	return r
}

// RegisterAction registers or replaces the action factory for kind.
func (r *Registry) RegisterAction(kind string, f Factory) {
	r.mu.Lock()
	r.actions[kind] = f
	r.mu.Unlock()
}

// RegisterCondition registers or replaces the condition factory for kind.
func (r *Registry) RegisterCondition(kind string, f Factory) {
	r.mu.Lock()
	r.conditions[kind] = f
	r.mu.Unlock()
}

func (r *Registry) NewAction(kind, name string, p Params) (behavior.Node, error) {
	r.mu.RLock()
	f := r.actions[kind]
	r.mu.RUnlock()
	if f == nil {
		return nil, fmt.Errorf("action %q: %w", kind, ErrUnknownType)
	}
	return f(name, p)
}

func (r *Registry) NewCondition(kind, name string, p Params) (behavior.Node, error) {
	r.mu.RLock()
	f := r.conditions[kind]
	r.mu.RUnlock()
	if f == nil {
		return nil, fmt.Errorf("condition %q: %w", kind, ErrUnknownType)
	}
	return f(name, p)
}

// Actions returns the registered action kinds in sorted order.
func (r *Registry) Actions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.actions)
}

// Conditions returns the registered condition kinds in sorted order.
func (r *Registry) Conditions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.conditions)
}

func sortedKeys(m map[string]Factory) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
