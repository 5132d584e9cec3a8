package pageconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"
	"time"

	slug "github.com/goliatone/go-slug"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-pagekit/internal/logging"
	"github.com/goliatone/go-pagekit/pkg/interfaces"
)

// ErrConfigNotFound reports that no configuration file exists for a path.
var ErrConfigNotFound = errors.New("pageconfig: configuration not found")

// InvalidConfigError carries the validation result for a config that failed
// structurally or semantically at load time.
type InvalidConfigError struct {
	Path   string
	Result Result
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("pageconfig: configuration %q failed validation with %d error(s)", e.Path, len(e.Result.Errors))
}

// WatchFunc observes configuration reloads.
type WatchFunc func(path string, result Result)

var configExtensions = []string{".json", ".yaml", ".yml"}

type cachedResult struct {
	result    Result
	expiresAt time.Time
}

// Loader reads page configuration documents from a filesystem, validates
// them, and caches validated results per path with a TTL.
type Loader struct {
	fsys      fs.FS
	validator *Validator
	ttl       time.Duration
	now       func() time.Time
	logger    interfaces.Logger

	mu       sync.RWMutex
	cache    map[string]cachedResult
	watchers []WatchFunc
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithCacheTTL overrides the validated-config cache TTL.
func WithCacheTTL(ttl time.Duration) LoaderOption {
	return func(l *Loader) {
		l.ttl = ttl
	}
}

// WithNow overrides the cache clock.
func WithNow(now func() time.Time) LoaderOption {
	return func(l *Loader) {
		if now != nil {
			l.now = now
		}
	}
}

// WithLogger overrides the no-op default logger.
func WithLogger(logger interfaces.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader constructs a loader over the given filesystem.
func NewLoader(fsys fs.FS, validator *Validator, opts ...LoaderOption) *Loader {
	if validator == nil {
		validator = NewValidator()
	}
	l := &Loader{
		fsys:      fsys,
		validator: validator,
		ttl:       time.Minute,
		now:       time.Now,
		logger:    logging.NoOp(),
		cache:     make(map[string]cachedResult),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load resolves and validates the configuration for a logical page path.
// Invalid configurations return an *InvalidConfigError so callers can render
// every problem at once.
func (l *Loader) Load(pagePath string) (*PageConfiguration, error) {
	result, err := l.LoadResult(pagePath)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, &InvalidConfigError{Path: NormalizePath(pagePath), Result: result}
	}
	return result.Config, nil
}

// LoadResult resolves the configuration and returns the full validation
// result, cached per path. Both valid and invalid results are cached to bound
// re-validation cost under repeated requests.
func (l *Loader) LoadResult(pagePath string) (Result, error) {
	key := NormalizePath(pagePath)

	l.mu.RLock()
	cached, ok := l.cache[key]
	l.mu.RUnlock()
	if ok && l.now().Before(cached.expiresAt) {
		return cached.result, nil
	}

	raw, err := l.readDocument(key)
	if err != nil {
		return Result{}, err
	}

	result := l.validator.Validate(raw)
	if result.Config != nil {
		result.Config.Path = key
	}
	if !result.Valid {
		l.logger.Warn("pageconfig.validation.failed", "path", key, "errors", len(result.Errors))
	}

	if l.ttl > 0 {
		l.mu.Lock()
		l.cache[key] = cachedResult{result: result, expiresAt: l.now().Add(l.ttl)}
		l.mu.Unlock()
	}
	return result, nil
}

// LoadAll loads every configuration file under the root, keyed by page path.
// Invalid configurations are skipped with a warning.
func (l *Loader) LoadAll() (map[string]*PageConfiguration, error) {
	paths, err := l.Paths()
	if err != nil {
		return nil, err
	}

	out := make(map[string]*PageConfiguration, len(paths))
	for _, pagePath := range paths {
		cfg, err := l.Load(pagePath)
		if err != nil {
			l.logger.Warn("pageconfig.load.skipped", "path", pagePath, "error", err)
			continue
		}
		out[pagePath] = cfg
	}
	return out, nil
}

// Paths enumerates the logical page paths with configuration files.
func (l *Loader) Paths() ([]string, error) {
	if l.fsys == nil {
		return nil, nil
	}
	paths := []string{}
	err := fs.WalkDir(l.fsys, ".", func(entry string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := path.Ext(entry)
		for _, candidate := range configExtensions {
			if ext == candidate {
				paths = append(paths, strings.TrimSuffix(entry, ext))
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// Reload invalidates the cached result for a path, loads it fresh, and
// notifies watchers.
func (l *Loader) Reload(pagePath string) (*PageConfiguration, error) {
	key := NormalizePath(pagePath)

	l.mu.Lock()
	delete(l.cache, key)
	watchers := append([]WatchFunc(nil), l.watchers...)
	l.mu.Unlock()

	result, err := l.LoadResult(key)
	if err != nil {
		return nil, err
	}
	for _, watcher := range watchers {
		watcher(key, result)
	}
	if !result.Valid {
		return nil, &InvalidConfigError{Path: key, Result: result}
	}
	return result.Config, nil
}

// Watch registers a callback observing reloads.
func (l *Loader) Watch(fn WatchFunc) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.watchers = append(l.watchers, fn)
	l.mu.Unlock()
}

// Invalidate drops the cached result for a path, or every path when empty.
func (l *Loader) Invalidate(pagePath string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if strings.TrimSpace(pagePath) == "" {
		l.cache = make(map[string]cachedResult)
		return
	}
	delete(l.cache, NormalizePath(pagePath))
}

func (l *Loader) readDocument(key string) (map[string]any, error) {
	if l.fsys == nil {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, key)
	}
	for _, ext := range configExtensions {
		raw, err := fs.ReadFile(l.fsys, key+ext)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("pageconfig: read %s%s: %w", key, ext, err)
		}
		return decodeDocument(raw, ext)
	}
	return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, key)
}

func decodeDocument(raw []byte, ext string) (map[string]any, error) {
	doc := map[string]any{}
	switch ext {
	case ".json":
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("pageconfig: decode json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("pageconfig: decode yaml: %w", err)
		}
		doc = normalizeYAML(doc)
	}
	return doc, nil
}

// normalizeYAML rewrites nested map[any]any values (yaml.v3 emits them for
// some shapes) into map[string]any so the schema validator sees JSON types.
func normalizeYAML(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	for key, value := range doc {
		out[key] = normalizeYAMLValue(value)
	}
	return out
}

func normalizeYAMLValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return normalizeYAML(typed)
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, nested := range typed {
			out[fmt.Sprintf("%v", key)] = normalizeYAMLValue(nested)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, nested := range typed {
			out[i] = normalizeYAMLValue(nested)
		}
		return out
	default:
		return value
	}
}

// NormalizePath converts a request path into a config key: slashes trimmed,
// empty path mapped to "index", and each segment slug-normalized when
// possible so file lookups stay predictable.
func NormalizePath(pagePath string) string {
	trimmed := strings.Trim(strings.TrimSpace(pagePath), "/")
	if trimmed == "" {
		return "index"
	}
	segments := strings.Split(trimmed, "/")
	for i, segment := range segments {
		// Dynamic pattern segments pass through untouched.
		if strings.ContainsAny(segment, "[]*") {
			continue
		}
		if normalized, err := slug.Normalize(segment); err == nil && normalized != "" {
			segments[i] = normalized
		}
	}
	return strings.Join(segments, "/")
}
