package pagekit

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-pagekit/content"
	enginecmd "github.com/goliatone/go-pagekit/internal/commands/engine"
	"github.com/goliatone/go-pagekit/render"
)

type stubComponent struct {
	name string
}

func (c stubComponent) Name() string { return c.name }

const homeConfig = `{
  "meta": {"title": "FixPoint", "description": "Device repair done right."},
  "layout": "landing",
  "sections": [
    {"id": "hero", "component": "HeroSection", "props": {"title": "content:home.title"}}
  ]
}`

func newTestModule(t *testing.T) *Module {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Logging.Provider = "noop"
	cfg.Site = SiteConfig{
		Name:    "FixPoint",
		BaseURL: "https://fixpoint.example",
	}

	source := content.NewMemorySource()
	source.Set("home.title", "en", "We Fix Devices")

	fsys := fstest.MapFS{
		"index.json": &fstest.MapFile{Data: []byte(homeConfig)},
	}

	module, err := New(cfg, fsys, WithContentSources(source))
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	module.Registry().Register("HeroSection", stubComponent{name: "HeroSection"})
	return module
}

func TestModuleEndToEndPage(t *testing.T) {
	module := newTestModule(t)

	instance, err := module.Pages().CreatePage(context.Background(), "index", &render.Context{Locale: "en"})
	if err != nil {
		t.Fatalf("create page: %v", err)
	}
	if len(instance.Tree) != 1 {
		t.Fatalf("expected 1 node, got %d", len(instance.Tree))
	}
	if instance.Tree[0].Props["title"] != "We Fix Devices" {
		t.Fatalf("content not substituted: %v", instance.Tree[0].Props)
	}
}

func TestModuleRouterRegistersConfigPaths(t *testing.T) {
	module := newTestModule(t)

	match, err := module.Router().Resolve("/")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if match.Pattern != "index" {
		t.Fatalf("unexpected pattern %q", match.Pattern)
	}
}

func TestModuleMetadata(t *testing.T) {
	module := newTestModule(t)

	cfg, err := module.Configs().Load("index")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	meta := module.Metadata().Build(cfg, &render.Context{Locale: "en"})
	if meta.Canonical != "https://fixpoint.example/" {
		t.Fatalf("unexpected canonical %q", meta.Canonical)
	}
}

func TestModulePreviews(t *testing.T) {
	module := newTestModule(t)

	record, err := module.Previews().Create(context.Background(), "draft", map[string]any{
		"meta": map[string]any{
			"title":       "Draft",
			"description": "A draft page under construction.",
		},
		"layout": "default",
		"sections": []any{
			map[string]any{"id": "hero", "component": "HeroSection"},
		},
	})
	if err != nil {
		t.Fatalf("create preview: %v", err)
	}
	if record.Report == nil || record.Report.Performance.Score != 100 {
		t.Fatalf("unexpected report %+v", record.Report)
	}
}

func TestModuleCommandHandlers(t *testing.T) {
	module := newTestModule(t)

	err := module.InvalidateContentHandler().Execute(context.Background(),
		enginecmd.InvalidateContentCommand{Key: "home.title"})
	if err != nil {
		t.Fatalf("invalidate content: %v", err)
	}

	err = module.ReloadConfigHandler().Execute(context.Background(),
		enginecmd.ReloadConfigCommand{Path: "index"})
	if err != nil {
		t.Fatalf("reload config: %v", err)
	}
}
