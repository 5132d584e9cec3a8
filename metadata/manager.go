package metadata

import (
	"context"
	"fmt"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-pagekit/internal/logging"
	"github.com/goliatone/go-pagekit/internal/runtimeconfig"
	"github.com/goliatone/go-pagekit/pageconfig"
	"github.com/goliatone/go-pagekit/pkg/interfaces"
	"github.com/goliatone/go-pagekit/render"
)

// OpenGraph holds the og: tag set for a page.
type OpenGraph struct {
	Title       string
	Description string
	Type        string
	URL         string
	Image       string
	SiteName    string
	Locale      string
}

// TwitterCard holds the twitter: tag set for a page.
type TwitterCard struct {
	Card        string
	Title       string
	Description string
	Image       string
}

// Metadata is the complete derived metadata bundle for one page render.
type Metadata struct {
	Title          string
	Description    string
	Keywords       []string
	Canonical      string
	Robots         string
	OpenGraph      OpenGraph
	Twitter        TwitterCard
	StructuredData []map[string]any
}

// Manager derives page metadata from validated configurations and the site
// identity. Dynamic route parameters substitute into {param} placeholders in
// titles and descriptions before any tag is emitted.
type Manager struct {
	site   runtimeconfig.SiteConfig
	routes *urlkit.RouteManager
	logger interfaces.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger overrides the default module logger.
func WithLogger(logger interfaces.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager wires a metadata manager for a site. When the site carries a
// route config, canonical URLs build through go-urlkit; otherwise they join
// onto the base URL directly.
func NewManager(site runtimeconfig.SiteConfig, opts ...ManagerOption) *Manager {
	m := &Manager{
		site:   site,
		logger: logging.NoOp(),
	}
	if site.RouteConfig != nil {
		m.routes = urlkit.NewRouteManager(site.RouteConfig)
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Build derives the metadata bundle for a page in a render context.
func (m *Manager) Build(cfg *pageconfig.PageConfiguration, rctx *render.Context) *Metadata {
	params := map[string]string{}
	if rctx != nil {
		params = rctx.Params
	}

	title := substituteParams(cfg.Meta.Title, params)
	description := substituteParams(cfg.Meta.Description, params)
	canonical := m.CanonicalURL(cfg.Path)
	image := cfg.Meta.SocialImage
	if image == "" {
		image = m.site.SocialImage
	}

	locale := ""
	if rctx != nil {
		locale = rctx.Locale
	}

	meta := &Metadata{
		Title:       title,
		Description: description,
		Keywords:    append([]string(nil), cfg.Meta.Keywords...),
		Canonical:   canonical,
		Robots:      cfg.Meta.Robots,
		OpenGraph: OpenGraph{
			Title:       title,
			Description: description,
			Type:        openGraphType(cfg.Analytics),
			URL:         canonical,
			Image:       image,
			SiteName:    m.site.Name,
			Locale:      locale,
		},
		Twitter: TwitterCard{
			Card:        twitterCard(image),
			Title:       title,
			Description: description,
			Image:       image,
		},
		StructuredData: m.structuredData(cfg, title, description, canonical, image),
	}
	return meta
}

// CanonicalURL builds the absolute canonical URL for a configuration path.
func (m *Manager) CanonicalURL(path string) string {
	normalized := pageconfig.NormalizePath(path)
	slug := normalized
	if slug == "index" {
		slug = ""
	}

	if m.routes != nil && m.site.CanonicalGroup != "" {
		if url, err := m.buildCanonical(slug); err == nil {
			return url
		} else {
			m.logger.Warn("metadata.canonical.fallback", "path", normalized, "error", err)
		}
	}

	base := strings.TrimRight(m.site.BaseURL, "/")
	if slug == "" {
		return base + "/"
	}
	return base + "/" + slug
}

// buildCanonical goes through go-urlkit. Group lookups panic on unknown
// names, so the call is fenced the same way the resolver fences builders.
func (m *Manager) buildCanonical(slug string) (url string, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("metadata: canonical group %q: %v", m.site.CanonicalGroup, recovered)
		}
	}()
	url, err = m.routes.Group(m.site.CanonicalGroup).
		Builder("page").
		WithParam("path", slug).
		Build()
	return url, err
}

// Emit delivers a bundle to the supplied sinks as a flat document keyed the
// way head-tag renderers expect. Sink failures abort delivery.
func (m *Manager) Emit(ctx context.Context, meta *Metadata, sinks ...interfaces.MetadataSink) error {
	doc := map[string]any{
		"title":          meta.Title,
		"description":    meta.Description,
		"canonical":      meta.Canonical,
		"og:title":       meta.OpenGraph.Title,
		"og:description": meta.OpenGraph.Description,
		"og:type":        meta.OpenGraph.Type,
		"og:url":         meta.OpenGraph.URL,
		"og:site_name":   meta.OpenGraph.SiteName,
		"twitter:card":   meta.Twitter.Card,
	}
	if len(meta.Keywords) > 0 {
		doc["keywords"] = strings.Join(meta.Keywords, ", ")
	}
	if meta.Robots != "" {
		doc["robots"] = meta.Robots
	}
	if meta.OpenGraph.Image != "" {
		doc["og:image"] = meta.OpenGraph.Image
		doc["twitter:image"] = meta.Twitter.Image
	}
	if meta.OpenGraph.Locale != "" {
		doc["og:locale"] = meta.OpenGraph.Locale
	}
	if len(meta.StructuredData) > 0 {
		doc["jsonld"] = meta.StructuredData
	}

	for _, sink := range sinks {
		if sink == nil {
			continue
		}
		if err := sink.Consume(ctx, doc); err != nil {
			return fmt.Errorf("metadata: sink failed: %w", err)
		}
	}
	return nil
}

// substituteParams replaces {param} placeholders with route parameter values.
// Unmatched placeholders are left intact so missing params stay visible.
func substituteParams(value string, params map[string]string) string {
	if value == "" || len(params) == 0 {
		return value
	}
	for key, val := range params {
		value = strings.ReplaceAll(value, "{"+key+"}", val)
	}
	return value
}

func openGraphType(analytics *pageconfig.AnalyticsSpec) string {
	if analytics == nil {
		return "website"
	}
	switch strings.ToLower(analytics.PageType) {
	case "article", "blog", "post":
		return "article"
	case "product":
		return "product"
	case "profile":
		return "profile"
	default:
		return "website"
	}
}

func twitterCard(image string) string {
	if image != "" {
		return "summary_large_image"
	}
	return "summary"
}
