package pagekit

import "github.com/goliatone/go-pagekit/internal/runtimeconfig"

// Config aggregates engine configuration. See the runtimeconfig package for
// field documentation.
type Config = runtimeconfig.Config

// SiteConfig identifies the site for metadata derivation.
type SiteConfig = runtimeconfig.SiteConfig

// CacheConfig captures TTLs for the process-local caches.
type CacheConfig = runtimeconfig.CacheConfig

// RoutesConfig captures route resolution behaviour.
type RoutesConfig = runtimeconfig.RoutesConfig

// PreviewConfig captures authoring preview behaviour.
type PreviewConfig = runtimeconfig.PreviewConfig

// FeaturesConfig lists the known feature-flag vocabulary.
type FeaturesConfig = runtimeconfig.FeaturesConfig

// LoggingConfig captures runtime logging options.
type LoggingConfig = runtimeconfig.LoggingConfig

// DefaultConfig returns opinionated defaults for a single-locale site.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
