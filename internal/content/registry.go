package content

import (
	"fmt"
	"slices"
	"sync"
)

// RenderFunc displays a value on a live element.
type RenderFunc func(value string)

// Registry maps ids to the render callbacks of live elements.
//
// Elements register themselves when they are constructed, so hydration
// never searches a view tree. One Registry serves one namespace.
type Registry struct {
	mu      sync.RWMutex
	renders map[string]RenderFunc
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{renders: make(map[string]RenderFunc)}
}

// Register binds id to fn. Ids must be unique within a registry.
func (r *Registry) Register(id string, fn RenderFunc) error {
	if id == "" {
		return ErrEmptyID
	}
	if fn == nil {
		return fmt.Errorf("register %q: nil render func", id)
	}
	id = Normalize(id)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.renders[id]; exists {
		return fmt.Errorf("register %q: id already registered", id)
	}
	r.renders[id] = fn
	return nil
}

// Apply renders value on the element registered under id.
// Returns false if no element is registered.
func (r *Registry) Apply(id, value string) bool {
	r.mu.RLock()
	fn, ok := r.renders[Normalize(id)]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	fn(value)
	return true
}

// HydrateReport summarizes a Hydrate call. Both slices are sorted.
type HydrateReport struct {
	Applied []string
	Missed  []string
}

// Hydrate renders every mapping entry that has a registered element.
//
// Entries without an element are reported in Missed and otherwise
// ignored; a page may legitimately render only some of its sections.
// Applying the same mapping twice leaves elements in the same state.
func (r *Registry) Hydrate(mapping map[string]string) HydrateReport {
	ids := make([]string, 0, len(mapping))
	for id := range mapping {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	report := HydrateReport{}
	for _, id := range ids {
		if r.Apply(id, mapping[id]) {
			report.Applied = append(report.Applied, id)
		} else {
			report.Missed = append(report.Missed, id)
		}
	}
	return report
}
