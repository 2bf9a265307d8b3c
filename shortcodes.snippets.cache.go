package shortcodes

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CachedSnippetStore wraps any SnippetStore with an in-memory TTL cache.
// Only successful Get results are cached; Put and Delete invalidate.
type CachedSnippetStore struct {
	store  SnippetStore
	config SnippetCacheConfig
	logger *zap.Logger

	mu     sync.RWMutex
	cache  map[string]*snippetCacheEntry
	gen    uint64 // bumped on every invalidation
	closed bool
}

// SnippetCacheConfig configures the caching behavior.
type SnippetCacheConfig struct {
	// TTL is how long cached entries remain valid.
	// Default: 5 minutes.
	TTL time.Duration

	// MaxEntries is the maximum number of cached snippets.
	// When exceeded, the least recently accessed entry is evicted.
	// Default: 1000.
	MaxEntries int
}

// DefaultSnippetCacheConfig returns the default caching configuration.
func DefaultSnippetCacheConfig() SnippetCacheConfig {
	return SnippetCacheConfig{
		TTL:        DefaultSnippetCacheTTL,
		MaxEntries: DefaultSnippetCacheMaxSize,
	}
}

type snippetCacheEntry struct {
	text       string
	cachedAt   time.Time
	accessedAt time.Time
}

// SnippetCacheStats contains cache statistics.
type SnippetCacheStats struct {
	Entries      int
	ValidEntries int
}

// NewCachedSnippetStore wraps store with caching. A nil logger disables logging.
func NewCachedSnippetStore(store SnippetStore, config SnippetCacheConfig, logger *zap.Logger) *CachedSnippetStore {
	if config.TTL <= 0 {
		config.TTL = DefaultSnippetCacheTTL
	}
	if config.MaxEntries <= 0 {
		config.MaxEntries = DefaultSnippetCacheMaxSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CachedSnippetStore{
		store:  store,
		config: config,
		logger: logger,
		cache:  make(map[string]*snippetCacheEntry),
	}
}

// Get returns a snippet, using the cache when available.
func (s *CachedSnippetStore) Get(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return "", NewStorageError(ErrMsgStorageClosed, name, nil)
	}
	if entry, ok := s.cache[name]; ok && s.isValid(entry) {
		entry.accessedAt = time.Now()
		text := entry.text
		s.mu.Unlock()
		s.logger.Debug(LogMsgSnippetCacheHit, zap.String(LogFieldName, name))
		return text, nil
	}
	gen := s.gen
	s.mu.Unlock()

	text, err := s.store.Get(ctx, name)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", NewStorageError(ErrMsgStorageClosed, name, nil)
	}
	// An invalidation during the read may mean text is already stale
	if s.gen == gen {
		s.addEntry(name, text)
	}
	return text, nil
}

// Put stores a snippet and invalidates its cache entry.
func (s *CachedSnippetStore) Put(ctx context.Context, name, text string) error {
	if err := s.store.Put(ctx, name, text); err != nil {
		return err
	}
	s.Invalidate(name)
	return nil
}

// Delete removes a snippet and invalidates its cache entry.
func (s *CachedSnippetStore) Delete(ctx context.Context, name string) error {
	s.Invalidate(name)
	return s.store.Delete(ctx, name)
}

// List passes through to the underlying store.
func (s *CachedSnippetStore) List(ctx context.Context) ([]string, error) {
	return s.store.List(ctx)
}

// Close clears the cache and closes the underlying store.
func (s *CachedSnippetStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.cache = nil
	s.mu.Unlock()

	return s.store.Close()
}

// Invalidate removes a snippet from the cache.
func (s *CachedSnippetStore) Invalidate(name string) {
	s.mu.Lock()
	delete(s.cache, name)
	s.gen++
	s.mu.Unlock()
}

// InvalidateAll clears the entire cache.
func (s *CachedSnippetStore) InvalidateAll() {
	s.mu.Lock()
	s.cache = make(map[string]*snippetCacheEntry)
	s.gen++
	s.mu.Unlock()
}

// Stats returns cache statistics.
func (s *CachedSnippetStore) Stats() SnippetCacheStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	valid := 0
	for _, entry := range s.cache {
		if s.isValid(entry) {
			valid++
		}
	}
	return SnippetCacheStats{
		Entries:      len(s.cache),
		ValidEntries: valid,
	}
}

func (s *CachedSnippetStore) isValid(entry *snippetCacheEntry) bool {
	return time.Since(entry.cachedAt) < s.config.TTL
}

// addEntry adds an entry to the cache, evicting if necessary.
// Caller must hold write lock.
func (s *CachedSnippetStore) addEntry(name, text string) {
	if _, exists := s.cache[name]; !exists && len(s.cache) >= s.config.MaxEntries {
		s.evictOldest()
	}

	now := time.Now()
	s.cache[name] = &snippetCacheEntry{
		text:       text,
		cachedAt:   now,
		accessedAt: now,
	}
}

// evictOldest removes the least recently accessed entry.
// Caller must hold write lock.
func (s *CachedSnippetStore) evictOldest() {
	var (
		oldestName string
		oldest     *snippetCacheEntry
	)
	for name, entry := range s.cache {
		if oldest == nil || entry.accessedAt.Before(oldest.accessedAt) {
			oldestName, oldest = name, entry
		}
	}

	if oldest != nil {
		delete(s.cache, oldestName)
		s.logger.Debug(LogMsgSnippetCacheEvict, zap.String(LogFieldName, oldestName))
	}
}
