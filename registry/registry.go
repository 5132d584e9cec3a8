package registry

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-pagekit/internal/logging"
	"github.com/goliatone/go-pagekit/pkg/interfaces"
)

// ComponentInfo captures introspection details for a registered component.
// Category and description are inferred heuristically from the name and exist
// for tooling only; resolution never depends on them.
type ComponentInfo struct {
	Category     string
	Description  string
	RegisteredAt time.Time
}

// Registry maps component names to implementations with alias support.
type Registry struct {
	mu         sync.RWMutex
	components map[string]interfaces.Component
	aliases    map[string]string
	info       map[string]*ComponentInfo

	logger interfaces.Logger
	now    func() time.Time
}

// Option configures a Registry instance.
type Option func(*Registry)

// WithLogger overrides the no-op default logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithNow overrides the clock used for registration timestamps.
func WithNow(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// New constructs an empty component registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		components: make(map[string]interfaces.Component),
		aliases:    make(map[string]string),
		info:       make(map[string]*ComponentInfo),
		logger:     logging.NoOp(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register records a component implementation under the given name.
// Re-registering an existing name overwrites the previous implementation and
// logs a warning; it is not an error.
func (r *Registry) Register(name string, impl interfaces.Component) {
	name = strings.TrimSpace(name)
	if name == "" || impl == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.components[name]; exists {
		r.logger.Warn("registry.component.overwritten", "component", name)
	}
	r.components[name] = impl
	r.info[name] = &ComponentInfo{
		Category:     inferCategory(name),
		Description:  inferDescription(name),
		RegisteredAt: r.now(),
	}
}

// RegisterBatch records every entry in the supplied map.
func (r *Registry) RegisterBatch(components map[string]interfaces.Component) {
	for name, impl := range components {
		r.Register(name, impl)
	}
}

// Get returns the implementation registered under name, following one level
// of alias indirection. The second return reports whether a match was found.
func (r *Registry) Get(name string) (interfaces.Component, bool) {
	name = strings.TrimSpace(name)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if target, ok := r.aliases[name]; ok {
		name = target
	}
	impl, ok := r.components[name]
	return impl, ok
}

// Has reports whether a component (or alias) is registered under name.
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Unregister removes a component and any aliases pointing at it.
func (r *Registry) Unregister(name string) {
	name = strings.TrimSpace(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.components, name)
	delete(r.info, name)
	for alias, target := range r.aliases {
		if target == name {
			delete(r.aliases, alias)
		}
	}
}

// RegisterAlias points alias at an already registered target component.
func (r *Registry) RegisterAlias(alias, target string) error {
	alias = strings.TrimSpace(alias)
	target = strings.TrimSpace(target)
	if alias == "" {
		return ErrAliasRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.components[target]; !ok {
		return &UnknownTargetError{Alias: alias, Target: target}
	}
	r.aliases[alias] = target
	return nil
}

// List returns the registered component names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Info returns introspection details for a component, nil when unregistered.
func (r *Registry) Info(name string) *ComponentInfo {
	name = strings.TrimSpace(name)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if target, ok := r.aliases[name]; ok {
		name = target
	}
	info, ok := r.info[name]
	if !ok {
		return nil
	}
	copied := *info
	return &copied
}

// Categories groups registered component names by inferred category.
func (r *Registry) Categories() map[string][]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string][]string)
	for name, info := range r.info {
		out[info.Category] = append(out[info.Category], name)
	}
	for _, names := range out {
		sort.Strings(names)
	}
	return out
}

// categoryVocabulary maps name fragments to category buckets. Suffix matches
// are tried first, then substrings, so "CheckoutFormSection" lands in section.
var categoryVocabulary = []struct {
	fragment string
	category string
}{
	{"Section", "section"},
	{"Layout", "layout"},
	{"Form", "form"},
	{"Card", "card"},
	{"Nav", "navigation"},
}

func inferCategory(name string) string {
	for _, entry := range categoryVocabulary {
		if strings.HasSuffix(name, entry.fragment) {
			return entry.category
		}
	}
	for _, entry := range categoryVocabulary {
		if strings.Contains(name, entry.fragment) {
			return entry.category
		}
	}
	return "general"
}

func inferDescription(name string) string {
	category := inferCategory(name)
	if category == "general" {
		return name + " component"
	}
	return name + " " + category + " component"
}
