package pages

import (
	"context"
	"sort"
	"time"

	"github.com/goliatone/go-pagekit/internal/logging"
	"github.com/goliatone/go-pagekit/pageconfig"
	"github.com/goliatone/go-pagekit/pkg/interfaces"
	"github.com/goliatone/go-pagekit/render"
)

// SectionInstance pairs a section spec with its resolved visibility record
// and, when visible, the node the renderer produced for it.
type SectionInstance struct {
	Spec       pageconfig.SectionSpec
	Visibility render.Visibility
	Node       *render.Node
}

// Instance is a fully assembled page: the validated configuration, every
// section in declaration order with its visibility outcome, and the render
// tree of the visible sections.
type Instance struct {
	Path      string
	Meta      pageconfig.PageMeta
	Layout    string
	Sections  []SectionInstance
	Tree      []*render.Node
	Features  []string
	Auth      *pageconfig.AuthSpec
	Analytics *pageconfig.AnalyticsSpec
	CreatedAt time.Time
}

// ConfigLoader is the slice of the config loader the factory needs.
type ConfigLoader interface {
	Load(path string) (*pageconfig.PageConfiguration, error)
}

// Factory builds page instances from validated configurations. Creation is
// strict where rendering is lenient: validation errors abort creation, while
// unresolvable components degrade to fallback nodes inside the tree.
type Factory struct {
	configs   ConfigLoader
	renderer  *render.Renderer
	validator *pageconfig.Validator
	logger    interfaces.Logger
	now       func() time.Time
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithFactoryLogger overrides the default module logger.
func WithFactoryLogger(logger interfaces.Logger) FactoryOption {
	return func(f *Factory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithFactoryValidator installs the validator the creation gate runs. Without
// it the factory uses a default validator with no component checker.
func WithFactoryValidator(validator *pageconfig.Validator) FactoryOption {
	return func(f *Factory) {
		if validator != nil {
			f.validator = validator
		}
	}
}

// WithFactoryNow overrides the clock, used by tests.
func WithFactoryNow(now func() time.Time) FactoryOption {
	return func(f *Factory) {
		if now != nil {
			f.now = now
		}
	}
}

// NewFactory wires a factory over a config loader and a renderer.
func NewFactory(configs ConfigLoader, renderer *render.Renderer, opts ...FactoryOption) *Factory {
	f := &Factory{
		configs:   configs,
		renderer:  renderer,
		validator: pageconfig.NewValidator(),
		logger:    logging.NoOp(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreatePage loads, gates, and renders the configuration at path. Validation
// errors abort creation; unresolvable components and other per-section
// failures degrade inside the tree.
func (f *Factory) CreatePage(ctx context.Context, path string, rctx *render.Context) (*Instance, error) {
	cfg, err := f.configs.Load(path)
	if err != nil {
		return nil, err
	}
	return f.CreateFromConfig(ctx, cfg, rctx)
}

// CreateFromConfig assembles an instance from a configuration, for callers
// holding preview or in-memory configs. Validation errors abort creation;
// warnings, including unregistered components, do not.
func (f *Factory) CreateFromConfig(ctx context.Context, cfg *pageconfig.PageConfiguration, rctx *render.Context) (*Instance, error) {
	result := f.ValidateConfig(cfg)
	if !result.Valid {
		path := ""
		if cfg != nil {
			path = cfg.Path
		}
		f.logger.Error("pages.create.blocked", "path", path, "errors", len(result.Errors))
		return nil, &ValidationError{Path: path, Issues: result.Errors}
	}

	if missing := f.missingComponents(cfg); len(missing) > 0 {
		f.logger.Warn("pages.create.unresolved", "path", cfg.Path, "components", missing)
	}

	tree, err := f.renderer.Render(ctx, cfg, rctx)
	if err != nil {
		return nil, err
	}

	sections := make([]SectionInstance, len(cfg.Sections))
	visible := indexNodes(tree)
	for i, spec := range cfg.Sections {
		sections[i] = SectionInstance{
			Spec:       spec,
			Visibility: render.EvaluateVisibility(spec.Visibility, rctx),
			Node:       visible[spec.ID],
		}
	}

	instance := &Instance{
		Path:      cfg.Path,
		Meta:      cfg.Meta,
		Layout:    cfg.Layout,
		Sections:  sections,
		Tree:      tree,
		Features:  append([]string(nil), cfg.Features...),
		Auth:      cfg.Auth,
		Analytics: cfg.Analytics,
		CreatedAt: f.now(),
	}

	f.logger.Debug("pages.create.ok",
		"path", cfg.Path,
		"sections", len(sections),
		"rendered", len(tree),
	)
	return instance, nil
}

// ValidateConfig runs both validation tiers on a configuration without
// rendering. Creation proceeds only when the result carries no errors.
func (f *Factory) ValidateConfig(cfg *pageconfig.PageConfiguration) pageconfig.Result {
	return f.validator.ValidateConfiguration(cfg)
}

// PageMeta returns a detached copy of the configuration's meta block.
func (f *Factory) PageMeta(cfg *pageconfig.PageConfiguration) pageconfig.PageMeta {
	if cfg == nil {
		return pageconfig.PageMeta{}
	}
	meta := cfg.Meta
	meta.Keywords = append([]string(nil), cfg.Meta.Keywords...)
	return meta
}

// RenderSection renders one section through the factory's renderer. Hidden
// sections return a nil node and no error.
func (f *Factory) RenderSection(ctx context.Context, section pageconfig.SectionSpec, rctx *render.Context) (*render.Node, error) {
	return f.renderer.RenderSection(ctx, section, rctx)
}

// missingComponents returns the sorted set of components the renderer cannot
// resolve now or dynamically, reported as a warning before rendering absorbs
// them as fallback nodes.
func (f *Factory) missingComponents(cfg *pageconfig.PageConfiguration) []string {
	seen := map[string]bool{}
	for _, section := range cfg.Sections {
		if f.renderer.CanRender(section.Component) {
			continue
		}
		seen[section.Component] = true
	}
	if len(seen) == 0 {
		return nil
	}
	missing := make([]string, 0, len(seen))
	for name := range seen {
		missing = append(missing, name)
	}
	sort.Strings(missing)
	return missing
}

func indexNodes(tree []*render.Node) map[string]*render.Node {
	index := make(map[string]*render.Node, len(tree))
	for _, node := range tree {
		index[node.SectionID] = node
	}
	return index
}
