package render

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-pagekit/internal/logging"
	"github.com/goliatone/go-pagekit/pageconfig"
	"github.com/goliatone/go-pagekit/pkg/interfaces"
	"github.com/goliatone/go-pagekit/registry"
)

// Renderer turns an ordered section list into a render tree. Component
// resolution prefers the registry and falls back to an optional dynamic
// source; successful dynamic resolutions are registered so later renders hit
// the registry directly.
type Renderer struct {
	registry *registry.Registry
	source   interfaces.ComponentSource
	props    *PropPipeline
	logger   interfaces.Logger
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithDynamicSource installs a fallback source consulted on registry misses.
func WithDynamicSource(source interfaces.ComponentSource) RendererOption {
	return func(r *Renderer) {
		r.source = source
	}
}

// WithRendererLogger overrides the default module logger.
func WithRendererLogger(logger interfaces.Logger) RendererOption {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRenderer wires a renderer over a registry and a prop pipeline.
func NewRenderer(reg *registry.Registry, props *PropPipeline, opts ...RendererOption) *Renderer {
	r := &Renderer{
		registry: reg,
		props:    props,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render assembles the render tree for a page configuration. Hidden sections
// are excluded, unresolvable components degrade to fallback nodes, and a
// section whose construction fails degrades to an inline error node. The only
// page-fatal condition is a content-system failure during prop
// transformation.
func (r *Renderer) Render(ctx context.Context, cfg *pageconfig.PageConfiguration, rctx *Context) ([]*Node, error) {
	return r.render(ctx, cfg, rctx, true)
}

// RenderSync assembles the tree without dynamic resolution. Components absent
// from the registry produce loading nodes so callers can re-render once
// asynchronous resolution completes.
func (r *Renderer) RenderSync(ctx context.Context, cfg *pageconfig.PageConfiguration, rctx *Context) ([]*Node, error) {
	return r.render(ctx, cfg, rctx, false)
}

func (r *Renderer) render(ctx context.Context, cfg *pageconfig.PageConfiguration, rctx *Context, dynamic bool) ([]*Node, error) {
	if cfg == nil {
		return nil, errors.New("render: nil page configuration")
	}

	nodes := make([]*Node, 0, len(cfg.Sections))
	for i := range cfg.Sections {
		section := &cfg.Sections[i]

		visibility := EvaluateVisibility(section.Visibility, rctx)
		if !visibility.Visible {
			r.logger.Debug("render.section.hidden",
				"section", section.ID,
				"conditions", visibility.Conditions,
				"device", visibility.Device,
			)
			continue
		}

		node, err := r.renderSection(ctx, section, rctx, dynamic)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// renderSection builds one node. Panics inside section construction are
// scoped to the section; prop pipeline errors escape as page-fatal.
func (r *Renderer) renderSection(ctx context.Context, section *pageconfig.SectionSpec, rctx *Context, dynamic bool) (node *Node, err error) {
	defer func() {
		if recovered := recover(); recovered != nil && err == nil {
			r.logger.Error("render.section.panic",
				"section", section.ID,
				"component", section.Component,
				"panic", recovered,
			)
			node = ErrorNode(section.ID, section.Component, fmt.Errorf("section panic: %v", recovered))
		}
	}()

	component, resolved := r.resolve(ctx, section.Component, dynamic)
	if !resolved {
		if !dynamic && r.source != nil {
			return LoadingNode(section.ID, section.Component), nil
		}
		r.logger.Warn("render.component.missing",
			"section", section.ID,
			"component", section.Component,
		)
		return FallbackNode(section.ID, section.Component), nil
	}

	props, err := r.props.Apply(ctx, section.Props, rctx)
	if err != nil {
		return nil, fmt.Errorf("render section %q: %w", section.ID, err)
	}

	return &Node{
		Kind:      KindComponent,
		SectionID: section.ID,
		Component: section.Component,
		Impl:      component,
		Props:     props,
	}, nil
}

func (r *Renderer) resolve(ctx context.Context, name string, dynamic bool) (interfaces.Component, bool) {
	if component, ok := r.registry.Get(name); ok {
		return component, true
	}
	if !dynamic || r.source == nil {
		return nil, false
	}

	component, err := r.source.Resolve(ctx, name)
	if err != nil {
		if !errors.Is(err, interfaces.ErrComponentNotFound) {
			r.logger.Warn("render.dynamic.failed", "component", name, "error", err)
		}
		return nil, false
	}

	r.registry.Register(name, component)
	return component, true
}

// CanRender reports whether the named component is resolvable right now or
// could be resolved dynamically.
func (r *Renderer) CanRender(name string) bool {
	if r.registry.Has(name) {
		return true
	}
	return r.source != nil
}

// RenderSection builds the node for a single section, applying the same
// visibility gate and degradation rules as Render. Hidden sections return a
// nil node and no error.
func (r *Renderer) RenderSection(ctx context.Context, section pageconfig.SectionSpec, rctx *Context) (*Node, error) {
	if !EvaluateVisibility(section.Visibility, rctx).Visible {
		return nil, nil
	}
	return r.renderSection(ctx, &section, rctx, true)
}

// ComponentProps runs the prop pipeline for a single section, for callers
// that need transformed props without a full tree.
func (r *Renderer) ComponentProps(ctx context.Context, section pageconfig.SectionSpec, rctx *Context) (map[string]any, error) {
	return r.props.Apply(ctx, section.Props, rctx)
}

// Preload resolves and registers components ahead of rendering. It keeps
// going past individual failures and reports how many registered together
// with the joined errors.
func (r *Renderer) Preload(ctx context.Context, names ...string) (int, error) {
	if r.source == nil {
		return 0, errors.New("render: no dynamic source configured")
	}

	var errs []error
	loaded := 0
	for _, name := range names {
		if r.registry.Has(name) {
			loaded++
			continue
		}
		component, err := r.source.Resolve(ctx, name)
		if err != nil {
			errs = append(errs, fmt.Errorf("preload %q: %w", name, err))
			continue
		}
		r.registry.Register(name, component)
		loaded++
	}
	return loaded, errors.Join(errs...)
}
