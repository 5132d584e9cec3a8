package metadata

import (
	"context"
	"strings"
	"testing"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-pagekit/internal/runtimeconfig"
	"github.com/goliatone/go-pagekit/pageconfig"
	"github.com/goliatone/go-pagekit/render"
)

func testSite() runtimeconfig.SiteConfig {
	return runtimeconfig.SiteConfig{
		Name:         "FixPoint",
		BaseURL:      "https://fixpoint.example",
		Organization: "FixPoint Repairs LLC",
		LogoURL:      "https://fixpoint.example/logo.png",
		SocialImage:  "https://fixpoint.example/social.png",
	}
}

func serviceConfig() *pageconfig.PageConfiguration {
	return &pageconfig.PageConfiguration{
		Path: "services/mac-repair",
		Meta: pageconfig.PageMeta{
			Title:       "Mac Repair",
			Description: "Fast, warrantied Mac repairs with free diagnostics.",
			Keywords:    []string{"mac", "repair"},
		},
		Layout: "default",
		Sections: []pageconfig.SectionSpec{
			{ID: "hero", Component: "HeroSection"},
		},
		Analytics: &pageconfig.AnalyticsSpec{PageType: "service", Category: "repairs"},
	}
}

func TestManagerBuild(t *testing.T) {
	manager := NewManager(testSite())

	meta := manager.Build(serviceConfig(), &render.Context{Locale: "en"})

	if meta.Title != "Mac Repair" {
		t.Fatalf("unexpected title %q", meta.Title)
	}
	if meta.Canonical != "https://fixpoint.example/services/mac-repair" {
		t.Fatalf("unexpected canonical %q", meta.Canonical)
	}
	if meta.OpenGraph.Type != "website" {
		t.Fatalf("service pages are og:type website, got %q", meta.OpenGraph.Type)
	}
	if meta.OpenGraph.Image != "https://fixpoint.example/social.png" {
		t.Fatalf("site social image should backfill, got %q", meta.OpenGraph.Image)
	}
	if meta.Twitter.Card != "summary_large_image" {
		t.Fatalf("unexpected twitter card %q", meta.Twitter.Card)
	}
}

func TestManagerParamSubstitution(t *testing.T) {
	manager := NewManager(testSite())
	cfg := serviceConfig()
	cfg.Meta.Title = "{device} Repair in {city}"
	cfg.Meta.Description = "Professional {device} repairs."

	meta := manager.Build(cfg, &render.Context{
		Locale: "en",
		Params: map[string]string{"device": "iPhone", "city": "Austin"},
	})

	if meta.Title != "iPhone Repair in Austin" {
		t.Fatalf("params not substituted: %q", meta.Title)
	}
	if meta.Description != "Professional iPhone repairs." {
		t.Fatalf("params not substituted in description: %q", meta.Description)
	}
	if meta.OpenGraph.Title != meta.Title {
		t.Fatalf("og title must match substituted title")
	}
}

func TestManagerUnmatchedPlaceholderStaysVisible(t *testing.T) {
	manager := NewManager(testSite())
	cfg := serviceConfig()
	cfg.Meta.Title = "{device} Repair"

	meta := manager.Build(cfg, &render.Context{Locale: "en"})
	if meta.Title != "{device} Repair" {
		t.Fatalf("unmatched placeholder should remain, got %q", meta.Title)
	}
}

func TestManagerStructuredData(t *testing.T) {
	manager := NewManager(testSite())

	meta := manager.Build(serviceConfig(), &render.Context{Locale: "en"})
	if len(meta.StructuredData) != 3 {
		t.Fatalf("expected WebSite, Organization, and Service documents, got %d", len(meta.StructuredData))
	}

	types := make([]string, len(meta.StructuredData))
	for i, doc := range meta.StructuredData {
		types[i] = doc["@type"].(string)
	}
	if types[0] != "WebSite" || types[1] != "Organization" || types[2] != "Service" {
		t.Fatalf("unexpected document types %v", types)
	}

	service := meta.StructuredData[2]
	provider := service["provider"].(map[string]any)
	if provider["name"] != "FixPoint Repairs LLC" {
		t.Fatalf("unexpected provider %v", provider)
	}
}

func TestManagerArticleType(t *testing.T) {
	manager := NewManager(testSite())
	cfg := serviceConfig()
	cfg.Analytics = &pageconfig.AnalyticsSpec{PageType: "article"}

	meta := manager.Build(cfg, &render.Context{Locale: "en"})
	if meta.OpenGraph.Type != "article" {
		t.Fatalf("unexpected og type %q", meta.OpenGraph.Type)
	}
	last := meta.StructuredData[len(meta.StructuredData)-1]
	if last["@type"] != "Article" {
		t.Fatalf("expected Article document, got %v", last["@type"])
	}
}

func TestManagerOpenGraphTypes(t *testing.T) {
	manager := NewManager(testSite())
	cases := map[string]string{
		"service": "website",
		"article": "article",
		"product": "product",
		"profile": "profile",
		"":        "website",
	}
	for pageType, want := range cases {
		cfg := serviceConfig()
		cfg.Analytics = &pageconfig.AnalyticsSpec{PageType: pageType}

		meta := manager.Build(cfg, &render.Context{Locale: "en"})
		if meta.OpenGraph.Type != want {
			t.Fatalf("page type %q: expected og:type %q, got %q", pageType, want, meta.OpenGraph.Type)
		}
	}
}

func TestManagerCanonicalViaRouteManager(t *testing.T) {
	site := testSite()
	site.CanonicalGroup = "canonical"
	site.RouteConfig = &urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    "canonical",
				BaseURL: "https://www.fixpoint.example",
				Paths: map[string]string{
					"page": "/:path",
				},
			},
		},
	}
	manager := NewManager(site)

	canonical := manager.CanonicalURL("services/mac-repair")
	if !strings.HasPrefix(canonical, "https://www.fixpoint.example/") {
		t.Fatalf("canonical should build through the route manager, got %q", canonical)
	}
}

func TestManagerIndexCanonical(t *testing.T) {
	manager := NewManager(testSite())
	if got := manager.CanonicalURL("/"); got != "https://fixpoint.example/" {
		t.Fatalf("unexpected root canonical %q", got)
	}
}

type captureSink struct {
	doc map[string]any
}

func (s *captureSink) Consume(_ context.Context, doc map[string]any) error {
	s.doc = doc
	return nil
}

func TestManagerEmit(t *testing.T) {
	manager := NewManager(testSite())
	meta := manager.Build(serviceConfig(), &render.Context{Locale: "en"})

	sink := &captureSink{}
	if err := manager.Emit(context.Background(), meta, sink); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if sink.doc["title"] != "Mac Repair" {
		t.Fatalf("unexpected emitted title %v", sink.doc["title"])
	}
	if sink.doc["og:type"] != "website" {
		t.Fatalf("unexpected og type %v", sink.doc["og:type"])
	}
	if sink.doc["keywords"] != "mac, repair" {
		t.Fatalf("unexpected keywords %v", sink.doc["keywords"])
	}
}

func TestValidate(t *testing.T) {
	meta := &Metadata{
		Title:       strings.Repeat("t", 70),
		Description: "Short description.",
		Canonical:   "/relative",
	}
	issues := Validate(meta)

	codes := map[string]bool{}
	for _, issue := range issues {
		codes[issue.Code] = true
	}
	for _, want := range []string{CodeLongTitle, CodeMissingSocialImage, CodeRelativeCanonical} {
		if !codes[want] {
			t.Fatalf("missing issue %s in %v", want, issues)
		}
	}
	if codes[CodeMissingDescription] {
		t.Fatalf("description is present, unexpected issue set %v", issues)
	}
}
