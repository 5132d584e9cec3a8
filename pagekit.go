package pagekit

import (
	"io/fs"

	"github.com/goliatone/go-pagekit/content"
	"github.com/goliatone/go-pagekit/internal/commands"
	enginecmd "github.com/goliatone/go-pagekit/internal/commands/engine"
	"github.com/goliatone/go-pagekit/internal/logging"
	"github.com/goliatone/go-pagekit/internal/logging/gologger"
	"github.com/goliatone/go-pagekit/metadata"
	"github.com/goliatone/go-pagekit/pageconfig"
	"github.com/goliatone/go-pagekit/pages"
	"github.com/goliatone/go-pagekit/pkg/interfaces"
	"github.com/goliatone/go-pagekit/preview"
	"github.com/goliatone/go-pagekit/registry"
	"github.com/goliatone/go-pagekit/render"
	"github.com/goliatone/go-pagekit/router"
)

// Module wires the engine subsystems behind a single entry point. Hosts
// construct it once with their page configuration filesystem and keep it for
// the process lifetime.
type Module struct {
	cfg      Config
	provider interfaces.LoggerProvider

	registry *registry.Registry
	content  *content.Loader
	configs  *pageconfig.Loader
	renderer *render.Renderer
	factory  *pages.Factory
	resolver *router.Resolver
	metadata *metadata.Manager
	previews *preview.Service
}

// Option customises module construction.
type Option func(*moduleOptions)

type moduleOptions struct {
	provider       interfaces.LoggerProvider
	contentSources []interfaces.ContentSource
	dynamicSource  interfaces.ComponentSource
	previewStore   preview.Store
	themes         []string
}

// WithLoggerProvider replaces the provider built from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(o *moduleOptions) {
		o.provider = provider
	}
}

// WithContentSources sets the ordered content source chain.
func WithContentSources(sources ...interfaces.ContentSource) Option {
	return func(o *moduleOptions) {
		o.contentSources = sources
	}
}

// WithDynamicComponents installs a fallback source consulted when a section
// references a component absent from the registry.
func WithDynamicComponents(source interfaces.ComponentSource) Option {
	return func(o *moduleOptions) {
		o.dynamicSource = source
	}
}

// WithPreviewStore replaces the default in-memory preview store.
func WithPreviewStore(store preview.Store) Option {
	return func(o *moduleOptions) {
		o.previewStore = store
	}
}

// WithThemes sets the theme vocabulary used for themed prop resolution.
func WithThemes(themes ...string) Option {
	return func(o *moduleOptions) {
		o.themes = themes
	}
}

// New validates the configuration and assembles the engine over the supplied
// page configuration filesystem.
func New(cfg Config, configFS fs.FS, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := moduleOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	provider := options.provider
	if provider == nil {
		var err error
		provider, err = buildLoggerProvider(cfg)
		if err != nil {
			return nil, err
		}
	}

	m := &Module{cfg: cfg, provider: provider}

	m.registry = registry.New(
		registry.WithLogger(logging.RegistryLogger(provider)),
	)

	contentTTL := cfg.Cache.ContentTTL
	if !cfg.Cache.Enabled {
		contentTTL = 0
	}
	m.content = content.NewLoader(cfg.DefaultLocale, cfg.FallbackLocale, options.contentSources,
		content.WithTTL(contentTTL),
		content.WithLogger(logging.ContentLogger(provider)),
	)

	validator := pageconfig.NewValidator(
		pageconfig.WithComponentChecker(m.registry),
		pageconfig.WithKnownFeatures(cfg.Features.Known),
		pageconfig.WithAccessibilityFlag(cfg.Features.AccessibilityFlag),
		pageconfig.WithValidatorLogger(logging.ConfigLogger(provider)),
	)
	m.configs = pageconfig.NewLoader(configFS, validator,
		pageconfig.WithCacheTTL(cfg.ConfigCacheTTL()),
		pageconfig.WithLogger(logging.ConfigLogger(provider)),
	)

	pipeline := render.NewPropPipeline(m.content, options.themes)
	rendererOpts := []render.RendererOption{
		render.WithRendererLogger(logging.RenderLogger(provider)),
	}
	if options.dynamicSource != nil {
		rendererOpts = append(rendererOpts, render.WithDynamicSource(options.dynamicSource))
	}
	m.renderer = render.NewRenderer(m.registry, pipeline, rendererOpts...)

	m.factory = pages.NewFactory(m.configs, m.renderer,
		pages.WithFactoryValidator(validator),
		pages.WithFactoryLogger(logging.PagesLogger(provider)),
	)

	routeTTL := cfg.Cache.RouteTTL
	if !cfg.Cache.Enabled {
		routeTTL = 0
	}
	m.resolver = router.NewResolver(
		router.WithCacheTTL(routeTTL),
		router.WithLogger(logging.RouterLogger(provider)),
	)
	for from, to := range cfg.Routes.Redirects {
		m.resolver.Redirect(from, to)
	}
	if paths, err := m.configs.Paths(); err == nil {
		if err := m.resolver.RegisterAll(paths); err != nil {
			return nil, err
		}
	}

	m.metadata = metadata.NewManager(cfg.Site,
		metadata.WithLogger(logging.MetadataLogger(provider)),
	)

	store := options.previewStore
	if store == nil {
		store = preview.NewMemoryStore()
	}
	m.previews = preview.NewService(store, validator, cfg.Preview,
		preview.WithLogger(logging.PreviewLogger(provider)),
	)

	return m, nil
}

func buildLoggerProvider(cfg Config) (interfaces.LoggerProvider, error) {
	if cfg.Logging.Provider == "noop" {
		return nil, nil
	}
	return gologger.NewProvider(gologger.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.AddSource,
		Focus:     cfg.Logging.Focus,
	})
}

// Config returns the configuration the module was built with.
func (m *Module) Config() Config {
	return m.cfg
}

// Registry exposes the component registry.
func (m *Module) Registry() *registry.Registry {
	return m.registry
}

// Content exposes the content loader.
func (m *Module) Content() *content.Loader {
	return m.content
}

// Configs exposes the page configuration loader.
func (m *Module) Configs() *pageconfig.Loader {
	return m.configs
}

// Renderer exposes the section renderer.
func (m *Module) Renderer() *render.Renderer {
	return m.renderer
}

// Pages exposes the page factory.
func (m *Module) Pages() *pages.Factory {
	return m.factory
}

// Router exposes the route resolver.
func (m *Module) Router() *router.Resolver {
	return m.resolver
}

// Metadata exposes the metadata manager.
func (m *Module) Metadata() *metadata.Manager {
	return m.metadata
}

// Previews exposes the preview service.
func (m *Module) Previews() *preview.Service {
	return m.previews
}

// Handler builds an HTTP handler serving the module's pages.
func (m *Module) Handler(opts ...router.HandlerOption) *router.Handler {
	base := []router.HandlerOption{
		router.WithDefaultLocale(m.cfg.DefaultLocale),
		router.WithHandlerLogger(logging.RouterLogger(m.provider)),
	}
	return router.NewHandler(m.resolver, m.factory, append(base, opts...)...)
}

// InvalidateContentHandler builds the command handler that drops cached
// content entries.
func (m *Module) InvalidateContentHandler() *commands.Handler[enginecmd.InvalidateContentCommand] {
	return enginecmd.NewInvalidateContentHandler(m.content, commands.CommandLogger(m.provider, "content"))
}

// InvalidateConfigHandler builds the command handler that drops cached page
// configurations.
func (m *Module) InvalidateConfigHandler() *commands.Handler[enginecmd.InvalidateConfigCommand] {
	return enginecmd.NewInvalidateConfigHandler(m.configs, commands.CommandLogger(m.provider, "config"))
}

// ReloadConfigHandler builds the command handler that re-reads a page
// configuration and notifies watchers.
func (m *Module) ReloadConfigHandler() *commands.Handler[enginecmd.ReloadConfigCommand] {
	return enginecmd.NewReloadConfigHandler(m.configs, commands.CommandLogger(m.provider, "config"))
}
