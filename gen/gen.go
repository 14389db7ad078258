// Package gen provides the task generation gateway: an opaque
// text-to-task-list capability that turns a project idea into an
// ordered set of actionable steps. Implementations are registered by
// name so the backing model can be swapped without touching callers.
package gen

import (
	"context"
	"fmt"
	"sync"
)

// Draft is one generated task before it is given an id and order.
type Draft struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Generator defines the interface for task generation backends.
type Generator interface {
	// Name returns the generator's display name
	Name() string

	// GenerateTasks turns a free-text idea into an ordered list of
	// task drafts. It returns at least one draft or an error; callers
	// must not create a project on failure.
	GenerateTasks(ctx context.Context, idea string) ([]Draft, error)
}

// Factory is a function that creates a Generator with the given config.
type Factory func(Config) Generator

// Config holds generator configuration.
type Config struct {
	// APIKey authenticates against the backing service.
	APIKey string

	// Instructions replaces the default system prompt preamble when
	// non-empty. The response-format contract is always appended.
	Instructions string
}

// Registry manages available generator implementations.
type Registry struct {
	generators map[string]Factory
	mu         sync.RWMutex
}

// NewRegistry creates a new registry with the default generators.
func NewRegistry() *Registry {
	r := &Registry{
		generators: make(map[string]Factory),
	}

	r.Register("openai", func(cfg Config) Generator {
		return NewOpenAI(cfg)
	})

	return r
}

// Register adds a generator factory to the registry.
func (r *Registry) Register(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generators[name] = factory
}

// Create instantiates a generator by name.
func (r *Registry) Create(name string, config Config) (Generator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.generators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGeneratorNotFound, name)
	}
	return factory(config), nil
}

// Available returns the names of all registered generators.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}
	return names
}

// DefaultRegistry is the global generator registry.
var DefaultRegistry = NewRegistry()

// Create creates a generator from the default registry.
func Create(name string, config Config) (Generator, error) {
	return DefaultRegistry.Create(name, config)
}
