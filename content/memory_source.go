package content

import (
	"context"
	"strings"
	"sync"
)

// MemorySource is an in-memory content source for tests, demos, and seeded
// defaults. Values are stored per locale exactly as supplied; processing
// happens in the loader.
type MemorySource struct {
	mu      sync.RWMutex
	locales map[string]map[string]any
}

// NewMemorySource constructs an empty memory-backed content source.
func NewMemorySource() *MemorySource {
	return &MemorySource{
		locales: make(map[string]map[string]any),
	}
}

// Set stores a value under key for the locale.
func (s *MemorySource) Set(key, locale string, value any) {
	key = strings.TrimSpace(key)
	locale = strings.TrimSpace(locale)
	if key == "" || locale == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.locales[locale] == nil {
		s.locales[locale] = make(map[string]any)
	}
	s.locales[locale][key] = value
}

// Delete removes a key from the locale.
func (s *MemorySource) Delete(key, locale string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entries, ok := s.locales[locale]; ok {
		delete(entries, key)
	}
}

// Load satisfies interfaces.ContentSource.
func (s *MemorySource) Load(_ context.Context, key, locale string) (any, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, ok := s.locales[locale]
	if !ok {
		return nil, false, nil
	}
	value, ok := entries[key]
	return value, ok, nil
}

// Keys satisfies Enumerator.
func (s *MemorySource) Keys(_ context.Context, locale string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.locales[locale]
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	return keys, nil
}
