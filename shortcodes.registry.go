package shortcodes

import (
	"go.uber.org/zap"

	"github.com/itsatony/go-shortcodes/internal"
)

// Registry maps tag names to handlers. A registry may have a parent that
// is consulted when a lookup misses locally. A tag is registered at most
// once per registry (first-come-wins). Registries are safe for concurrent
// use, but should be fully populated before parsing starts.
type Registry struct {
	inner  *internal.Registry
	parent *Registry
}

// RegistryOption configures a Registry.
type RegistryOption func(*registryConfig)

type registryConfig struct {
	parent *Registry
	logger *zap.Logger
}

// WithParent sets the registry consulted when a lookup misses locally.
func WithParent(parent *Registry) RegistryOption {
	return func(c *registryConfig) {
		c.parent = parent
	}
}

// WithRegistryLogger sets the logger for the registry.
func WithRegistryLogger(logger *zap.Logger) RegistryOption {
	return func(c *registryConfig) {
		c.logger = logger
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	config := &registryConfig{}
	for _, opt := range opts {
		opt(config)
	}

	var parentInner *internal.Registry
	if config.parent != nil {
		parentInner = config.parent.inner
	}
	return &Registry{
		inner:  internal.NewChildRegistry(parentInner, config.logger),
		parent: config.parent,
	}
}

// Parent returns the fallback registry, or nil.
func (r *Registry) Parent() *Registry {
	return r.parent
}

// Register adds a handler for tag. A non-empty endTag makes the tag
// block-scoped, closed by endTag; an empty endTag makes it atomic.
//
// A registry does not know which delimiters it will be used with, so it
// accepts names containing an escape marker. A parser never matches such a
// name; use Parser.Register to have it rejected up front.
func (r *Registry) Register(tag, endTag string, fn HandlerFunc) error {
	var h internal.InternalHandler
	if fn != nil {
		h = &handlerAdapter{fn: fn}
	}
	if err := r.inner.Register(tag, endTag, h); err != nil {
		return NewRegistryError(tag, err)
	}
	return nil
}

// MustRegister adds a handler and panics if registration fails.
func (r *Registry) MustRegister(tag, endTag string, fn HandlerFunc) {
	if err := r.Register(tag, endTag, fn); err != nil {
		panic(err)
	}
}

// Unregister removes a local registration. Returns true if it existed.
func (r *Registry) Unregister(tag string) bool {
	return r.inner.Unregister(tag)
}

// Lookup returns the handler for tag from this registry or its parents.
func (r *Registry) Lookup(tag string) (Handler, bool) {
	entry, ok := r.inner.Lookup(tag)
	if !ok {
		return Handler{}, false
	}
	h := Handler{Tag: entry.Tag, EndTag: entry.EndTag}
	if adapter, ok := entry.Handler.(*handlerAdapter); ok {
		h.Func = adapter.fn
	}
	return h, true
}

// Has checks if a handler is visible for tag.
func (r *Registry) Has(tag string) bool {
	_, ok := r.inner.Lookup(tag)
	return ok
}

// IsEndTag reports whether name closes any visible block tag.
func (r *Registry) IsEndTag(name string) bool {
	return r.inner.IsEndTag(name)
}

// List returns all visible tag names in sorted order.
func (r *Registry) List() []string {
	return r.inner.List()
}

// Count returns the number of local registrations.
func (r *Registry) Count() int {
	return r.inner.Count()
}

// Clear removes all local registrations.
func (r *Registry) Clear() {
	r.inner.Clear()
}

// globalRegistry is the process-wide registry. Parsers created by New fall
// back to it unless WithoutGlobal or WithRegistry is used.
var globalRegistry = NewRegistry()

// Global returns the process-wide registry.
func Global() *Registry {
	return globalRegistry
}

// Register adds a handler to the process-wide registry.
func Register(tag, endTag string, fn HandlerFunc) error {
	return globalRegistry.Register(tag, endTag, fn)
}

// MustRegister adds a handler to the process-wide registry and panics on error.
func MustRegister(tag, endTag string, fn HandlerFunc) {
	globalRegistry.MustRegister(tag, endTag, fn)
}

// ResetGlobal removes every process-wide registration.
// Intended for test isolation only.
func ResetGlobal() {
	globalRegistry.Clear()
}
