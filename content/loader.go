package content

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-pagekit/internal/logging"
	"github.com/goliatone/go-pagekit/pkg/interfaces"
)

// Enumerator is an optional ContentSource extension for sources that can list
// the keys they hold for a locale. Namespace and bulk loads only see sources
// implementing it.
type Enumerator interface {
	Keys(ctx context.Context, locale string) ([]string, error)
}

// Loader resolves locale-scoped content across prioritized sources with a
// TTL cache and fallback-locale retry.
type Loader struct {
	mu       sync.RWMutex
	locale   string
	fallback string

	sources []interfaces.ContentSource
	cache   *cache
	logger  interfaces.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*loaderSettings)

type loaderSettings struct {
	ttl    time.Duration
	now    func() time.Time
	logger interfaces.Logger
}

// WithTTL overrides the default five minute cache TTL.
func WithTTL(ttl time.Duration) LoaderOption {
	return func(s *loaderSettings) {
		s.ttl = ttl
	}
}

// WithNow overrides the cache clock.
func WithNow(now func() time.Time) LoaderOption {
	return func(s *loaderSettings) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger overrides the no-op default logger.
func WithLogger(logger interfaces.Logger) LoaderOption {
	return func(s *loaderSettings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewLoader constructs a loader over the given sources in priority order.
func NewLoader(locale, fallback string, sources []interfaces.ContentSource, opts ...LoaderOption) *Loader {
	settings := loaderSettings{
		ttl:    5 * time.Minute,
		now:    time.Now,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(&settings)
	}

	filtered := make([]interfaces.ContentSource, 0, len(sources))
	for _, source := range sources {
		if source != nil {
			filtered = append(filtered, source)
		}
	}

	return &Loader{
		locale:   strings.TrimSpace(locale),
		fallback: strings.TrimSpace(fallback),
		sources:  filtered,
		cache:    newCache(settings.ttl, settings.now),
		logger:   settings.logger,
	}
}

// SetLocale switches the loader's current locale.
func (l *Loader) SetLocale(locale string) {
	l.mu.Lock()
	l.locale = strings.TrimSpace(locale)
	l.mu.Unlock()
}

// Locale returns the loader's current locale.
func (l *Loader) Locale() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.locale
}

// Load resolves a content key for the given locale (current locale when
// empty). It returns nil when no source has the key in the target or
// fallback locale. Source failures are logged and treated as misses so one
// broken source never aborts the chain.
func (l *Loader) Load(ctx context.Context, key string, locale string) any {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}
	if locale = strings.TrimSpace(locale); locale == "" {
		locale = l.Locale()
	}

	if value, ok := l.cache.get(key, locale); ok {
		return value
	}

	for _, source := range l.sources {
		raw, ok, err := source.Load(ctx, key, locale)
		if err != nil {
			l.logger.Warn("content.source.failed", "key", key, "locale", locale, "error", err)
			continue
		}
		if !ok {
			continue
		}
		value := processValue(raw)
		l.cache.set(key, locale, value)
		return value
	}

	if fallback := l.fallbackLocale(); fallback != "" && !strings.EqualFold(fallback, locale) {
		return l.Load(ctx, key, fallback)
	}
	return nil
}

// LoadNamespace resolves every key under "namespace." for the locale.
func (l *Loader) LoadNamespace(ctx context.Context, namespace, locale string) map[string]any {
	prefix := strings.TrimSuffix(strings.TrimSpace(namespace), ".") + "."
	out := map[string]any{}
	for _, key := range l.enumerate(ctx, locale) {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if value := l.Load(ctx, key, locale); value != nil {
			out[key] = value
		}
	}
	return out
}

// LoadAll resolves every enumerable key for the locale.
func (l *Loader) LoadAll(ctx context.Context, locale string) map[string]any {
	out := map[string]any{}
	for _, key := range l.enumerate(ctx, locale) {
		if value := l.Load(ctx, key, locale); value != nil {
			out[key] = value
		}
	}
	return out
}

// Reload drops any cached value for the key and loads it fresh.
func (l *Loader) Reload(ctx context.Context, key, locale string) any {
	if locale = strings.TrimSpace(locale); locale == "" {
		locale = l.Locale()
	}
	l.cache.invalidate(key, locale)
	return l.Load(ctx, key, locale)
}

// Preload warms the cache for the given keys, tolerating individual misses.
func (l *Loader) Preload(ctx context.Context, keys []string, locale string) {
	for _, key := range keys {
		if value := l.Load(ctx, key, locale); value == nil {
			l.logger.Debug("content.preload.miss", "key", key, "locale", locale)
		}
	}
}

// Invalidate removes the cached value for a key, optionally per locale.
func (l *Loader) Invalidate(key string, locales ...string) {
	l.cache.invalidate(key, locales...)
}

// Clear removes cached values, optionally per locale.
func (l *Loader) Clear(locales ...string) {
	l.cache.clear(locales...)
}

func (l *Loader) fallbackLocale() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.fallback
}

func (l *Loader) enumerate(ctx context.Context, locale string) []string {
	if locale = strings.TrimSpace(locale); locale == "" {
		locale = l.Locale()
	}

	seen := map[string]struct{}{}
	for _, source := range l.sources {
		enumerator, ok := source.(Enumerator)
		if !ok {
			continue
		}
		keys, err := enumerator.Keys(ctx, locale)
		if err != nil {
			l.logger.Warn("content.enumerate.failed", "locale", locale, "error", err)
			continue
		}
		for _, key := range keys {
			seen[key] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for key := range seen {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
