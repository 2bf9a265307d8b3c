package shortcodes

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// SnippetStore holds named text fragments for the snippet built-in.
// Implementations must be safe for concurrent use.
type SnippetStore interface {
	// Get returns the text stored under name. A missing name yields an
	// error matching ErrSnippetNotFound.
	Get(ctx context.Context, name string) (string, error)

	// Put stores text under name, replacing any previous value.
	Put(ctx context.Context, name, text string) error

	// Delete removes name. Deleting a missing name is an error matching
	// ErrSnippetNotFound.
	Delete(ctx context.Context, name string) error

	// List returns all stored names in sorted order.
	List(ctx context.Context) ([]string, error)

	// Close releases resources held by the store.
	Close() error
}

// MemorySnippetStore is an in-memory SnippetStore.
// All data is lost when the process terminates.
type MemorySnippetStore struct {
	mu       sync.RWMutex
	snippets map[string]string
	closed   bool
}

// NewMemorySnippetStore creates an empty in-memory store.
func NewMemorySnippetStore() *MemorySnippetStore {
	return &MemorySnippetStore{
		snippets: make(map[string]string),
	}
}

// NewMemorySnippetStoreFrom creates an in-memory store seeded with snippets.
func NewMemorySnippetStoreFrom(snippets map[string]string) *MemorySnippetStore {
	s := NewMemorySnippetStore()
	for name, text := range snippets {
		s.snippets[name] = text
	}
	return s
}

// Get implements SnippetStore
func (s *MemorySnippetStore) Get(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", NewStorageError(ErrMsgStorageClosed, name, nil)
	}

	text, ok := s.snippets[name]
	if !ok {
		return "", NewSnippetNotFoundError(name)
	}
	return text, nil
}

// Put implements SnippetStore
func (s *MemorySnippetStore) Put(ctx context.Context, name, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateSnippetName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageError(ErrMsgStorageClosed, name, nil)
	}

	s.snippets[name] = text
	return nil
}

// Delete implements SnippetStore
func (s *MemorySnippetStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageError(ErrMsgStorageClosed, name, nil)
	}

	if _, ok := s.snippets[name]; !ok {
		return NewSnippetNotFoundError(name)
	}
	delete(s.snippets, name)
	return nil
}

// List implements SnippetStore
func (s *MemorySnippetStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageError(ErrMsgStorageClosed, "", nil)
	}

	names := make([]string, 0, len(s.snippets))
	for name := range s.snippets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Close implements SnippetStore
func (s *MemorySnippetStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.snippets = nil
	return nil
}

// validateSnippetName rejects names that are empty or unsafe as file names.
func validateSnippetName(name string) error {
	if name == "" {
		return NewStorageError(ErrMsgEmptySnippetName, name, nil)
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, `/\:*?"<>|`) {
		return NewStorageError(ErrMsgInvalidSnippetName, name, nil)
	}
	return nil
}
