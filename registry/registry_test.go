package registry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-pagekit/pkg/interfaces"
)

type stubComponent struct {
	name string
}

func (c stubComponent) Name() string { return c.name }

func TestRegistryRegisterAndGet(t *testing.T) {
	reg := New(WithNow(func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }))

	reg.Register("HeroSection", stubComponent{name: "HeroSection"})

	impl, ok := reg.Get("HeroSection")
	if !ok {
		t.Fatalf("expected HeroSection to resolve")
	}
	if impl.Name() != "HeroSection" {
		t.Fatalf("unexpected component %q", impl.Name())
	}
	if !reg.Has("HeroSection") {
		t.Fatalf("Has should report registered component")
	}
	if reg.Has("PricingTable") {
		t.Fatalf("Has should not report unregistered component")
	}
}

func TestRegistryReRegisterOverwrites(t *testing.T) {
	reg := New()
	reg.Register("HeroSection", stubComponent{name: "v1"})
	reg.Register("HeroSection", stubComponent{name: "v2"})

	impl, ok := reg.Get("HeroSection")
	if !ok {
		t.Fatalf("expected HeroSection to resolve")
	}
	if impl.Name() != "v2" {
		t.Fatalf("expected overwrite to win, got %q", impl.Name())
	}
}

func TestRegistryBatchAndList(t *testing.T) {
	reg := New()
	reg.RegisterBatch(map[string]interfaces.Component{
		"PricingTable": stubComponent{name: "PricingTable"},
		"ContactForm":  stubComponent{name: "ContactForm"},
		"HeroSection":  stubComponent{name: "HeroSection"},
	})

	names := reg.List()
	want := []string{"ContactForm", "HeroSection", "PricingTable"}
	if len(names) != len(want) {
		t.Fatalf("expected %d names, got %d", len(want), len(names))
	}
	for i, name := range want {
		if names[i] != name {
			t.Fatalf("expected %q at %d, got %q", name, i, names[i])
		}
	}
}

func TestRegistryAlias(t *testing.T) {
	reg := New()
	reg.Register("HeroSection", stubComponent{name: "HeroSection"})

	if err := reg.RegisterAlias("Hero", "HeroSection"); err != nil {
		t.Fatalf("register alias: %v", err)
	}
	impl, ok := reg.Get("Hero")
	if !ok || impl.Name() != "HeroSection" {
		t.Fatalf("alias should resolve to target")
	}

	err := reg.RegisterAlias("Broken", "Nonexistent")
	if !errors.Is(err, ErrAliasTargetAbsent) {
		t.Fatalf("expected ErrAliasTargetAbsent, got %v", err)
	}
}

func TestRegistryUnregisterDropsAliases(t *testing.T) {
	reg := New()
	reg.Register("HeroSection", stubComponent{name: "HeroSection"})
	if err := reg.RegisterAlias("Hero", "HeroSection"); err != nil {
		t.Fatalf("register alias: %v", err)
	}

	reg.Unregister("HeroSection")

	if reg.Has("HeroSection") {
		t.Fatalf("component should be unregistered")
	}
	if reg.Has("Hero") {
		t.Fatalf("alias should be dropped with its target")
	}
	if reg.Info("HeroSection") != nil {
		t.Fatalf("info should be removed with the component")
	}
}

func TestRegistryCategoryInference(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	reg := New(WithNow(func() time.Time { return now }))

	cases := map[string]string{
		"HeroSection":   "section",
		"PricingCard":   "card",
		"ContactForm":   "form",
		"MainNav":       "navigation",
		"DefaultLayout": "layout",
		"Breadcrumbs":   "general",
	}
	for name, category := range cases {
		reg.Register(name, stubComponent{name: name})
		info := reg.Info(name)
		if info == nil {
			t.Fatalf("expected info for %q", name)
		}
		if info.Category != category {
			t.Fatalf("%s: expected category %q, got %q", name, category, info.Category)
		}
		if !info.RegisteredAt.Equal(now) {
			t.Fatalf("%s: unexpected registration time %v", name, info.RegisteredAt)
		}
	}

	buckets := reg.Categories()
	if len(buckets["section"]) != 1 || buckets["section"][0] != "HeroSection" {
		t.Fatalf("unexpected section bucket %v", buckets["section"])
	}
}

func TestChainSourceFirstMatchWins(t *testing.T) {
	ctx := context.Background()
	primary := NewStaticSource(map[string]interfaces.Component{
		"HeroSection": stubComponent{name: "primary"},
	})
	loads := 0
	lazy := NewLazySource(func(_ context.Context, name string) (interfaces.Component, error) {
		loads++
		if name == "PricingTable" {
			return stubComponent{name: "lazy"}, nil
		}
		return nil, errors.New("load failed")
	})
	chain := NewChainSource(primary, lazy)

	impl, err := chain.Resolve(ctx, "HeroSection")
	if err != nil {
		t.Fatalf("resolve hero: %v", err)
	}
	if impl.Name() != "primary" {
		t.Fatalf("expected first source to win, got %q", impl.Name())
	}

	if _, err := chain.Resolve(ctx, "PricingTable"); err != nil {
		t.Fatalf("resolve pricing: %v", err)
	}
	if _, err := chain.Resolve(ctx, "PricingTable"); err != nil {
		t.Fatalf("resolve pricing (cached): %v", err)
	}
	if loads != 1 {
		t.Fatalf("expected lazy loader to run once, ran %d times", loads)
	}

	_, err = chain.Resolve(ctx, "Nonexistent")
	if !errors.Is(err, interfaces.ErrComponentNotFound) {
		t.Fatalf("expected ErrComponentNotFound, got %v", err)
	}
}
