package registry

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-pagekit/pkg/interfaces"
)

// StaticSource resolves components from a fixed map. It backs statically
// compiled component sets where every implementation is known up front.
type StaticSource struct {
	components map[string]interfaces.Component
}

// NewStaticSource copies the provided map into a static source.
func NewStaticSource(components map[string]interfaces.Component) *StaticSource {
	copied := make(map[string]interfaces.Component, len(components))
	for name, impl := range components {
		if impl == nil {
			continue
		}
		copied[strings.TrimSpace(name)] = impl
	}
	return &StaticSource{components: copied}
}

// Resolve satisfies interfaces.ComponentSource.
func (s *StaticSource) Resolve(_ context.Context, name string) (interfaces.Component, error) {
	impl, ok := s.components[strings.TrimSpace(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrComponentNotFound, name)
	}
	return impl, nil
}

// LoaderFunc produces a component implementation for a name, typically by
// performing a deferred import or remote fetch.
type LoaderFunc func(ctx context.Context, name string) (interfaces.Component, error)

// LazySource resolves components through a loader and caches successes so
// repeated lookups do not pay the load cost twice. Failed loads are not
// cached; a later call may succeed once the backing source recovers.
type LazySource struct {
	mu     sync.RWMutex
	loader LoaderFunc
	loaded map[string]interfaces.Component
}

// NewLazySource wraps the loader in a caching source.
func NewLazySource(loader LoaderFunc) *LazySource {
	return &LazySource{
		loader: loader,
		loaded: make(map[string]interfaces.Component),
	}
}

// Resolve satisfies interfaces.ComponentSource.
func (s *LazySource) Resolve(ctx context.Context, name string) (interfaces.Component, error) {
	name = strings.TrimSpace(name)

	s.mu.RLock()
	impl, ok := s.loaded[name]
	s.mu.RUnlock()
	if ok {
		return impl, nil
	}

	if s.loader == nil {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrComponentNotFound, name)
	}
	impl, err := s.loader(ctx, name)
	if err != nil {
		return nil, err
	}
	if impl == nil {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrComponentNotFound, name)
	}

	s.mu.Lock()
	s.loaded[name] = impl
	s.mu.Unlock()

	return impl, nil
}

// ChainSource composes sources first-match-wins. A source returning
// ErrComponentNotFound (or any error) simply passes resolution to the next
// source; the chain reports a miss only when every source does.
type ChainSource struct {
	sources []interfaces.ComponentSource
}

// NewChainSource builds a chain over the provided sources in priority order.
func NewChainSource(sources ...interfaces.ComponentSource) *ChainSource {
	filtered := make([]interfaces.ComponentSource, 0, len(sources))
	for _, source := range sources {
		if source != nil {
			filtered = append(filtered, source)
		}
	}
	return &ChainSource{sources: filtered}
}

// Resolve satisfies interfaces.ComponentSource.
func (s *ChainSource) Resolve(ctx context.Context, name string) (interfaces.Component, error) {
	for _, source := range s.sources {
		impl, err := source.Resolve(ctx, name)
		if err == nil && impl != nil {
			return impl, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", interfaces.ErrComponentNotFound, name)
}
