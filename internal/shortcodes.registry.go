package internal

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Invocation carries one resolved tag to its handler.
type Invocation struct {
	Tag      string
	Data     any
	Content  string
	IsBlock  bool
	Args     Args
	Position Position
}

// InternalHandler mirrors the public handler type for internal use.
// This allows the internal package to dispatch without import cycles.
type InternalHandler interface {
	Handle(ctx context.Context, inv Invocation) (string, error)
}

// Entry is one handler registration. An empty EndTag marks an atomic tag.
type Entry struct {
	Tag     string
	EndTag  string
	Handler InternalHandler
}

// IsBlock returns true if the entry is the opening tag of a block pair
func (e Entry) IsBlock() bool {
	return e.EndTag != StringValueEmpty
}

// Registry maps tag names to handlers with first-come-wins semantics.
// Lookups that miss fall back to the parent registry, if any.
// It is thread-safe for concurrent read/write access.
type Registry struct {
	entries map[string]Entry
	ends    map[string]int // closing tag -> number of registrations using it
	parent  *Registry
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewRegistry creates a new handler registry without a parent.
func NewRegistry(logger *zap.Logger) *Registry {
	return NewChildRegistry(nil, logger)
}

// NewChildRegistry creates a registry whose misses fall back to parent.
func NewChildRegistry(parent *Registry, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgRegistryCreated)
	return &Registry{
		entries: make(map[string]Entry),
		ends:    make(map[string]int),
		parent:  parent,
		logger:  logger,
	}
}

// Parent returns the fallback registry, or nil.
func (r *Registry) Parent() *Registry {
	return r.parent
}

// Register adds a handler for tag. If endTag is non-empty the tag is
// block-scoped and closed by endTag. A tag already registered in this
// registry is rejected (first-come-wins); a parent registration may be
// shadowed.
func (r *Registry) Register(tag, endTag string, handler InternalHandler) error {
	if handler == nil {
		return NewRegistryError(ErrMsgNilHandler, tag)
	}
	if tag == StringValueEmpty {
		return NewRegistryError(ErrMsgEmptyTagName, StringValueEmpty)
	}
	if !isValidRegistryName(tag) {
		return NewRegistryError(ErrMsgInvalidTagName, tag)
	}
	if endTag != StringValueEmpty {
		if !isValidRegistryName(endTag) {
			return NewRegistryError(ErrMsgInvalidTagName, endTag)
		}
		if endTag == tag {
			return NewRegistryError(ErrMsgEndTagSameAsTag, tag)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, exists := r.entries[tag]; exists {
		// First-come-wins: log collision but don't panic
		r.logger.Warn(LogMsgHandlerCollision,
			zap.String(LogFieldTag, tag),
			zap.String(LogFieldExisting, existing.Tag),
		)
		return NewRegistryError(ErrMsgHandlerExists, tag)
	}
	if r.ends[tag] > 0 {
		return NewRegistryError(ErrMsgTagIsEndTag, tag)
	}
	if endTag != StringValueEmpty {
		if _, exists := r.entries[endTag]; exists {
			return NewRegistryError(ErrMsgEndTagIsHandler, endTag)
		}
		r.ends[endTag]++
	}

	r.entries[tag] = Entry{Tag: tag, EndTag: endTag, Handler: handler}
	r.logger.Debug(LogMsgHandlerRegistered,
		zap.String(LogFieldTag, tag),
		zap.String(LogFieldEndTag, endTag),
	)
	return nil
}

// Unregister removes a local registration. Returns true if it existed.
func (r *Registry) Unregister(tag string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.entries[tag]
	if !exists {
		return false
	}
	delete(r.entries, tag)
	if entry.EndTag != StringValueEmpty {
		r.ends[entry.EndTag]--
		if r.ends[entry.EndTag] <= 0 {
			delete(r.ends, entry.EndTag)
		}
	}
	r.logger.Debug(LogMsgHandlerRemoved, zap.String(LogFieldTag, tag))
	return true
}

// Lookup retrieves the entry for tag, checking this registry first and
// then its parent chain.
func (r *Registry) Lookup(tag string) (Entry, bool) {
	r.mu.RLock()
	entry, exists := r.entries[tag]
	r.mu.RUnlock()

	if exists {
		return entry, true
	}
	if r.parent != nil {
		return r.parent.Lookup(tag)
	}
	return Entry{}, false
}

// IsEndTag reports whether name is the closing tag of any registration
// in this registry or its parent chain.
func (r *Registry) IsEndTag(name string) bool {
	r.mu.RLock()
	n := r.ends[name]
	r.mu.RUnlock()

	if n > 0 {
		return true
	}
	if r.parent != nil {
		return r.parent.IsEndTag(name)
	}
	return false
}

// List returns all visible tag names (local and inherited) in sorted order.
func (r *Registry) List() []string {
	seen := make(map[string]struct{})
	for reg := r; reg != nil; reg = reg.parent {
		reg.mu.RLock()
		for name := range reg.entries {
			seen[name] = struct{}{}
		}
		reg.mu.RUnlock()
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of local registrations.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}

// Clear removes all local registrations.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = make(map[string]Entry)
	r.ends = make(map[string]int)
	r.logger.Debug(LogMsgRegistryCleared)
}

// isValidRegistryName rejects names that the scanner could never produce
// under any delimiter configuration
func isValidRegistryName(name string) bool {
	return strings.IndexFunc(name, isSpaceRune) < 0 && !strings.ContainsAny(name, `"'`)
}

// CheckNameEsc rejects a tag name containing the escape marker esc. The
// scanner refuses such names, so a handler registered under one never runs.
func CheckNameEsc(name, esc string) error {
	if esc != StringValueEmpty && strings.Contains(name, esc) {
		return NewRegistryError(ErrMsgInvalidTagName, name)
	}
	return nil
}

// RegistryError represents a registry operation error
type RegistryError struct {
	Message string
	TagName string
}

// NewRegistryError creates a new registry error
func NewRegistryError(message, tagName string) *RegistryError {
	return &RegistryError{
		Message: message,
		TagName: tagName,
	}
}

// Error implements the error interface
func (e *RegistryError) Error() string {
	if e.TagName != StringValueEmpty {
		return fmt.Sprintf(ErrFmtTagMessage, e.Message, e.TagName)
	}
	return e.Message
}
