package router

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-pagekit/internal/logging"
	"github.com/goliatone/go-pagekit/pageconfig"
	"github.com/goliatone/go-pagekit/pkg/interfaces"
)

// ErrRouteNotFound reports that no registered pattern matches a request path.
var ErrRouteNotFound = errors.New("router: route not found")

// CatchAllParam is the parameter key wildcard segments bind under.
const CatchAllParam = "catchAll"

// Match is the outcome of resolving a request path.
type Match struct {
	// Path is the normalized request path.
	Path string
	// Pattern is the registered pattern that matched, which doubles as the
	// page configuration path.
	Pattern string
	// Params holds dynamic segment bindings; wildcard remainders bind under
	// CatchAllParam.
	Params map[string]string
	// Redirect, when set, names the target the caller should redirect to
	// instead of serving Pattern.
	Redirect string
}

type segment struct {
	literal  string
	param    string
	catchAll bool
}

type route struct {
	pattern  string
	segments []segment
	dynamic  bool
}

// Resolver maps request paths to registered page patterns. Exact matches win
// over dynamic ones; among dynamic candidates the first registered pattern
// wins, so registration order is the tie-break contract.
type Resolver struct {
	mu        sync.RWMutex
	exact     map[string]*route
	dynamic   []*route
	redirects map[string]string

	cache map[string]cachedMatch
	ttl   time.Duration
	now   func() time.Time

	logger interfaces.Logger
}

type cachedMatch struct {
	match     *Match
	err       error
	expiresAt time.Time
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithCacheTTL sets how long resolutions are cached. Zero disables caching.
func WithCacheTTL(ttl time.Duration) ResolverOption {
	return func(r *Resolver) {
		r.ttl = ttl
	}
}

// WithNow overrides the clock, used by tests.
func WithNow(now func() time.Time) ResolverOption {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// WithLogger overrides the default module logger.
func WithLogger(logger interfaces.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver builds an empty resolver.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		exact:     map[string]*route{},
		redirects: map[string]string{},
		cache:     map[string]cachedMatch{},
		ttl:       time.Minute,
		now:       time.Now,
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a pattern. Dynamic segments use the "[name]" form and a
// trailing "*" captures the remainder. A wildcard anywhere but the last
// segment is rejected.
func (r *Resolver) Register(pattern string) error {
	normalized := pageconfig.NormalizePath(pattern)
	parsed, dynamic, err := parsePattern(normalized)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rt := &route{pattern: normalized, segments: parsed, dynamic: dynamic}
	if dynamic {
		for _, existing := range r.dynamic {
			if existing.pattern == normalized {
				return nil
			}
		}
		r.dynamic = append(r.dynamic, rt)
	} else {
		r.exact[normalized] = rt
	}
	r.cache = map[string]cachedMatch{}
	return nil
}

// RegisterAll registers every pattern, stopping at the first invalid one.
func (r *Resolver) RegisterAll(patterns []string) error {
	for _, pattern := range patterns {
		if err := r.Register(pattern); err != nil {
			return err
		}
	}
	return nil
}

// Redirect maps a source path to a target path. Registered routes take
// precedence; a redirect only fires when no exact or dynamic pattern
// matches the source.
func (r *Resolver) Redirect(from, to string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.redirects[pageconfig.NormalizePath(from)] = pageconfig.NormalizePath(to)
	r.cache = map[string]cachedMatch{}
}

// Resolve matches a request path against the registered patterns.
func (r *Resolver) Resolve(path string) (*Match, error) {
	normalized := pageconfig.NormalizePath(path)

	if r.ttl > 0 {
		if cached, ok := r.cachedResolve(normalized); ok {
			return cached.match, cached.err
		}
	}

	match, err := r.resolve(normalized)
	if r.ttl > 0 {
		r.mu.Lock()
		r.cache[normalized] = cachedMatch{match: match, err: err, expiresAt: r.now().Add(r.ttl)}
		r.mu.Unlock()
	}
	return match, err
}

func (r *Resolver) cachedResolve(normalized string) (cachedMatch, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cached, ok := r.cache[normalized]
	if !ok || r.now().After(cached.expiresAt) {
		return cachedMatch{}, false
	}
	return cached, true
}

func (r *Resolver) resolve(normalized string) (*Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if rt, ok := r.exact[normalized]; ok {
		return &Match{Path: normalized, Pattern: rt.pattern, Params: map[string]string{}}, nil
	}

	parts := splitPath(normalized)
	for _, rt := range r.dynamic {
		if params, ok := matchSegments(rt.segments, parts); ok {
			return &Match{Path: normalized, Pattern: rt.pattern, Params: params}, nil
		}
	}

	if target, ok := r.redirects[normalized]; ok {
		return &Match{Path: normalized, Redirect: target}, nil
	}

	r.logger.Debug("router.resolve.miss", "path", normalized)
	return nil, fmt.Errorf("%w: %s", ErrRouteNotFound, normalized)
}

// IsValidPath reports whether a path resolves to a registered pattern or
// redirect.
func (r *Resolver) IsValidPath(path string) bool {
	_, err := r.Resolve(path)
	return err == nil
}

// StaticPaths returns the sorted exact patterns, the set a host can
// pre-render or list in a sitemap.
func (r *Resolver) StaticPaths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	paths := make([]string, 0, len(r.exact))
	for pattern := range r.exact {
		paths = append(paths, pattern)
	}
	sort.Strings(paths)
	return paths
}

// Patterns returns every registered pattern, exact first then dynamic in
// registration order.
func (r *Resolver) Patterns() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	patterns := make([]string, 0, len(r.exact)+len(r.dynamic))
	for pattern := range r.exact {
		patterns = append(patterns, pattern)
	}
	sort.Strings(patterns)
	for _, rt := range r.dynamic {
		patterns = append(patterns, rt.pattern)
	}
	return patterns
}

// InvalidateCache drops every cached resolution.
func (r *Resolver) InvalidateCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = map[string]cachedMatch{}
}

func parsePattern(pattern string) ([]segment, bool, error) {
	parts := splitPath(pattern)
	segments := make([]segment, len(parts))
	dynamic := false
	for i, part := range parts {
		switch {
		case part == "*":
			if i != len(parts)-1 {
				return nil, false, fmt.Errorf("router: wildcard must be the last segment in %q", pattern)
			}
			segments[i] = segment{catchAll: true}
			dynamic = true
		case strings.HasPrefix(part, "[") && strings.HasSuffix(part, "]"):
			name := strings.TrimSuffix(strings.TrimPrefix(part, "["), "]")
			if name == "" {
				return nil, false, fmt.Errorf("router: empty parameter name in %q", pattern)
			}
			segments[i] = segment{param: name}
			dynamic = true
		default:
			segments[i] = segment{literal: part}
		}
	}
	return segments, dynamic, nil
}

func matchSegments(segments []segment, parts []string) (map[string]string, bool) {
	params := map[string]string{}
	for i, seg := range segments {
		if seg.catchAll {
			if i >= len(parts) {
				return nil, false
			}
			params[CatchAllParam] = strings.Join(parts[i:], "/")
			return params, true
		}
		if i >= len(parts) {
			return nil, false
		}
		switch {
		case seg.param != "":
			params[seg.param] = parts[i]
		case seg.literal != parts[i]:
			return nil, false
		}
	}
	if len(parts) != len(segments) {
		return nil, false
	}
	return params, true
}

func splitPath(path string) []string {
	return strings.Split(path, "/")
}
