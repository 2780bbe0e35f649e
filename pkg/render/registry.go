package render

import (
	"fmt"
	"mime"
	"sort"
	"strings"
	"sync"
)

// Registry stores renderers by name and picks one for an Accept header.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
	fallback  string
}

// NewRegistry creates an empty registry. The first registered renderer
// becomes the negotiation fallback.
func NewRegistry() *Registry {
	return &Registry{renderers: make(map[string]Renderer)}
}

// Register adds a renderer by its Name(). Duplicate names return an error.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return fmt.Errorf("render: renderer is required")
	}
	name := renderer.Name()
	if name == "" {
		return fmt.Errorf("render: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.renderers[name]; exists {
		return fmt.Errorf("render: renderer %q already registered", name)
	}
	r.renderers[name] = renderer
	if r.fallback == "" {
		r.fallback = name
	}
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Get retrieves a renderer by name.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	renderer, ok := r.renderers[name]
	if !ok {
		return nil, fmt.Errorf("render: renderer %q not found", name)
	}
	return renderer, nil
}

// List returns a sorted list of renderer names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Negotiate returns the first renderer whose media type appears in accept,
// in header order, or the fallback renderer. Quality values are ignored.
func (r *Registry) Negotiate(accept string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, part := range strings.Split(accept, ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		for _, renderer := range r.renderers {
			if rendererMediaType(renderer) == mediaType {
				return renderer, nil
			}
		}
	}

	if renderer, ok := r.renderers[r.fallback]; ok {
		return renderer, nil
	}
	return nil, fmt.Errorf("render: no renderers registered")
}

func rendererMediaType(renderer Renderer) string {
	mediaType, _, err := mime.ParseMediaType(renderer.ContentType())
	if err != nil {
		return renderer.ContentType()
	}
	return mediaType
}
