package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	pagekit "github.com/goliatone/go-pagekit"
	"github.com/goliatone/go-pagekit/content"
	"github.com/goliatone/go-pagekit/preview"
)

type component struct {
	name string
}

func (c component) Name() string { return c.name }

func main() {
	cfg := pagekit.DefaultConfig()
	cfg.Site = pagekit.SiteConfig{
		Name:         "FixPoint",
		BaseURL:      "https://fixpoint.example",
		Organization: "FixPoint Repairs LLC",
	}
	cfg.Preview.Enabled = true
	cfg.Logging.Format = "pretty"

	configFS := os.DirFS("cmd/example/pages")

	source := content.NewMemorySource()
	source.Set("home.title", "en", "We Fix Phones, Tablets, and Laptops")
	source.Set("home.intro", "en", content.RichText{
		Format:  "markdown",
		Content: "Walk in or **book online**. Most repairs finish the same day.",
	})

	store, err := sqlitePreviewStore()
	if err != nil {
		log.Fatalf("preview store: %v", err)
	}

	module, err := pagekit.New(cfg, configFS,
		pagekit.WithContentSources(source),
		pagekit.WithPreviewStore(store),
		pagekit.WithThemes("dark", "light"),
	)
	if err != nil {
		log.Fatalf("initialise pagekit: %v", err)
	}

	for _, name := range []string{"HeroSection", "ServiceGrid", "PricingTable", "FAQSection", "ContactForm"} {
		module.Registry().Register(name, component{name: name})
	}

	demoPreview(module)

	addr := ":8080"
	log.Printf("serving pages on %s (paths: %v)", addr, module.Router().StaticPaths())
	if err := http.ListenAndServe(addr, module.Handler()); err != nil {
		log.Fatal(err)
	}
}

func sqlitePreviewStore() (*preview.BunStore, error) {
	sqlDB, err := sql.Open("sqlite3", "file::memory:?cache=shared")
	if err != nil {
		return nil, err
	}
	bunDB := bun.NewDB(sqlDB, sqlitedialect.New())
	if _, err := bunDB.NewCreateTable().
		Model((*preview.Preview)(nil)).
		IfNotExists().
		Exec(context.Background()); err != nil {
		return nil, err
	}
	return preview.NewBunStore(bunDB), nil
}

func demoPreview(module *pagekit.Module) {
	record, err := module.Previews().Create(context.Background(), "drafts/watch-repair", map[string]any{
		"meta": map[string]any{
			"title":       "Watch Repair",
			"description": "Battery swaps, glass replacement, and movement service.",
		},
		"layout": "default",
		"sections": []any{
			map[string]any{"id": "hero", "component": "HeroSection"},
			map[string]any{"id": "pricing", "component": "PricingTable"},
		},
	})
	if err != nil {
		log.Printf("preview failed: %v", err)
		return
	}
	log.Printf("preview %s status=%s valid=%t", record.ID, record.Status, record.Report != nil && record.Report.Valid)
}
