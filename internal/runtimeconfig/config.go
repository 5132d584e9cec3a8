package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
)

// ErrDefaultLocaleRequired indicates the engine cannot run without a locale.
var ErrDefaultLocaleRequired = errors.New("pagekit config: default locale is required")

// ErrFallbackLocaleUnknown indicates the fallback locale is missing from the locale list.
var ErrFallbackLocaleUnknown = errors.New("pagekit config: fallback locale must be one of the configured locales")

// ErrCacheTTLInvalid indicates a negative TTL was supplied for one of the caches.
var ErrCacheTTLInvalid = errors.New("pagekit config: cache TTL must be zero or positive")

// ErrPreviewTTLInvalid indicates an unusable preview retention window.
var ErrPreviewTTLInvalid = errors.New("pagekit config: preview TTL must be positive")

// ErrPreviewThresholdInvalid keeps the acceptance score inside the scorer range.
var ErrPreviewThresholdInvalid = errors.New("pagekit config: preview performance threshold must be between 0 and 100")

var ErrSiteBaseURLRequired = errors.New("pagekit config: site base URL is required when metadata is enabled")
var ErrLoggingProviderRequired = errors.New("pagekit config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("pagekit config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("pagekit config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("pagekit config: logging format is invalid")

// Config aggregates feature flags and adapter bindings for the page engine.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	Enabled        bool
	DefaultLocale  string
	FallbackLocale string
	Locales        []string
	Site           SiteConfig
	Cache          CacheConfig
	Routes         RoutesConfig
	Preview        PreviewConfig
	Features       FeaturesConfig
	Commands       CommandsConfig
	Logging        LoggingConfig
}

// SiteConfig identifies the site for metadata and structured data derivation.
type SiteConfig struct {
	Name           string
	BaseURL        string
	Organization   string
	LogoURL        string
	SocialImage    string
	RouteConfig    *urlkit.Config
	CanonicalGroup string
}

// CacheConfig captures TTLs for the process-local caches. Expiry is checked
// lazily on read; there is no background eviction.
type CacheConfig struct {
	Enabled    bool
	ContentTTL time.Duration
	ConfigTTL  time.Duration
	RouteTTL   time.Duration
}

// RoutesConfig captures route resolution behaviour.
type RoutesConfig struct {
	Redirects map[string]string
}

// PreviewConfig captures authoring preview behaviour. Interactive mode drops
// the config cache TTL to roughly a second so editors see changes quickly.
type PreviewConfig struct {
	Enabled              bool
	TTL                  time.Duration
	PerformanceThreshold int
	HeavyComponents      []string
}

// FeaturesConfig lists the feature-flag vocabulary known to validation plus
// the names with engine-level behaviour attached.
type FeaturesConfig struct {
	Known             []string
	AccessibilityFlag string
	RealtimeFlag      string
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	Enabled                bool
	AutoRegisterDispatcher bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns opinionated defaults for a single-locale site.
func DefaultConfig() Config {
	return Config{
		Enabled:        true,
		DefaultLocale:  "en",
		FallbackLocale: "en",
		Locales:        []string{"en"},
		Cache: CacheConfig{
			Enabled:    true,
			ContentTTL: 5 * time.Minute,
			ConfigTTL:  time.Minute,
			RouteTTL:   time.Minute,
		},
		Routes: RoutesConfig{
			Redirects: map[string]string{},
		},
		Preview: PreviewConfig{
			TTL:                  24 * time.Hour,
			PerformanceThreshold: 80,
			HeavyComponents:      []string{"VideoHero", "MapSection", "AnalyticsChart"},
		},
		Features: FeaturesConfig{
			Known: []string{
				"accessibility",
				"realtime",
				"darkMode",
				"animations",
				"analytics",
				"booking",
			},
			AccessibilityFlag: "accessibility",
			RealtimeFlag:      "realtime",
		},
		Commands: CommandsConfig{},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.DefaultLocale) == "" {
		return ErrDefaultLocaleRequired
	}
	if fallback := strings.TrimSpace(cfg.FallbackLocale); fallback != "" && len(cfg.Locales) > 0 {
		if !containsFold(cfg.Locales, fallback) {
			return ErrFallbackLocaleUnknown
		}
	}
	if cfg.Cache.ContentTTL < 0 || cfg.Cache.ConfigTTL < 0 || cfg.Cache.RouteTTL < 0 {
		return ErrCacheTTLInvalid
	}
	if cfg.Preview.TTL <= 0 {
		return ErrPreviewTTLInvalid
	}
	if cfg.Preview.PerformanceThreshold < 0 || cfg.Preview.PerformanceThreshold > 100 {
		return ErrPreviewThresholdInvalid
	}
	if provider := strings.TrimSpace(cfg.Logging.Provider); provider != "" {
		switch provider {
		case "gologger", "noop":
		default:
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
	}
	if level := strings.ToLower(strings.TrimSpace(cfg.Logging.Level)); level != "" {
		switch level {
		case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		default:
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
	}
	if format := strings.ToLower(strings.TrimSpace(cfg.Logging.Format)); format != "" {
		switch format {
		case "json", "console", "pretty":
		default:
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

// ConfigCacheTTL resolves the validated-config cache TTL: short in interactive
// preview mode so authors see edits, the configured value otherwise.
func (cfg Config) ConfigCacheTTL() time.Duration {
	if cfg.Preview.Enabled {
		return time.Second
	}
	if cfg.Cache.ConfigTTL > 0 {
		return cfg.Cache.ConfigTTL
	}
	return time.Minute
}

func containsFold(values []string, target string) bool {
	for _, value := range values {
		if strings.EqualFold(strings.TrimSpace(value), target) {
			return true
		}
	}
	return false
}
