package export

import (
	"fmt"
	"sort"
	"sync"
)

// DefinitionRegistry stores record-type definitions.
type DefinitionRegistry struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

// NewDefinitionRegistry creates an empty registry.
func NewDefinitionRegistry() *DefinitionRegistry {
	return &DefinitionRegistry{defs: make(map[string]Definition)}
}

// Register normalizes, validates and adds a definition.
func (r *DefinitionRegistry) Register(def Definition) error {
	if err := def.normalize(); err != nil {
		return err
	}
	if err := def.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[def.Name]; exists {
		return NewError(KindValidation, fmt.Sprintf("definition %q already registered", def.Name), nil)
	}
	r.defs[def.Name] = def
	return nil
}

// Resolve returns the definition registered under name.
func (r *DefinitionRegistry) Resolve(name string) (Definition, error) {
	r.mu.RLock()
	def, ok := r.defs[name]
	r.mu.RUnlock()
	if !ok {
		return Definition{}, NewError(KindNotFound, fmt.Sprintf("definition %q not found", name), nil)
	}
	return def, nil
}

// Names lists registered definition names in order.
func (r *DefinitionRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Definitions lists registered definitions ordered by name.
func (r *DefinitionRegistry) Definitions() []Definition {
	names := r.Names()
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Definition, 0, len(names))
	for _, name := range names {
		if def, ok := r.defs[name]; ok {
			out = append(out, def)
		}
	}
	return out
}
