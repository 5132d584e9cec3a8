package router

import (
	"errors"
	"testing"
	"time"
)

func newTestResolver(t *testing.T, patterns ...string) *Resolver {
	t.Helper()
	resolver := NewResolver()
	if err := resolver.RegisterAll(patterns); err != nil {
		t.Fatalf("register patterns: %v", err)
	}
	return resolver
}

func TestResolverExactMatch(t *testing.T) {
	resolver := newTestResolver(t, "index", "services/mac-repair", "about")

	match, err := resolver.Resolve("/services/mac-repair/")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if match.Pattern != "services/mac-repair" {
		t.Fatalf("unexpected pattern %q", match.Pattern)
	}
	if len(match.Params) != 0 {
		t.Fatalf("exact match should have no params: %v", match.Params)
	}

	home, err := resolver.Resolve("/")
	if err != nil || home.Pattern != "index" {
		t.Fatalf("root should resolve to index: %v / %v", home, err)
	}
}

func TestResolverDynamicSegment(t *testing.T) {
	resolver := newTestResolver(t, "services/mac-repair", "services/[slug]")

	match, err := resolver.Resolve("services/pc-repair")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if match.Pattern != "services/[slug]" {
		t.Fatalf("unexpected pattern %q", match.Pattern)
	}
	if match.Params["slug"] != "pc-repair" {
		t.Fatalf("unexpected params %v", match.Params)
	}

	// Exact patterns always beat dynamic ones.
	exact, err := resolver.Resolve("services/mac-repair")
	if err != nil || exact.Pattern != "services/mac-repair" {
		t.Fatalf("exact should win: %v / %v", exact, err)
	}
}

func TestResolverCatchAll(t *testing.T) {
	resolver := newTestResolver(t, "blog/*")

	match, err := resolver.Resolve("blog/2025/03/screen-repair-guide")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if match.Params[CatchAllParam] != "2025/03/screen-repair-guide" {
		t.Fatalf("unexpected catch-all binding %v", match.Params)
	}
}

func TestResolverDynamicFirstRegisteredWins(t *testing.T) {
	resolver := newTestResolver(t, "services/[slug]", "services/*")

	match, err := resolver.Resolve("services/watch-repair")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if match.Pattern != "services/[slug]" {
		t.Fatalf("first registered dynamic pattern should win, got %q", match.Pattern)
	}
}

func TestResolverNotFound(t *testing.T) {
	resolver := newTestResolver(t, "index")

	_, err := resolver.Resolve("no/such/page")
	if !errors.Is(err, ErrRouteNotFound) {
		t.Fatalf("expected ErrRouteNotFound, got %v", err)
	}
	if resolver.IsValidPath("no/such/page") {
		t.Fatalf("IsValidPath should be false for unresolvable path")
	}
	if !resolver.IsValidPath("index") {
		t.Fatalf("IsValidPath should be true for registered path")
	}
}

func TestResolverRedirect(t *testing.T) {
	resolver := newTestResolver(t, "services/mac-repair")
	resolver.Redirect("/repairs/mac", "/services/mac-repair")

	match, err := resolver.Resolve("repairs/mac")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if match.Redirect != "services/mac-repair" {
		t.Fatalf("unexpected redirect target %q", match.Redirect)
	}
}

func TestResolverRegisteredRouteBeatsRedirect(t *testing.T) {
	resolver := newTestResolver(t, "promo", "services/[slug]")
	resolver.Redirect("promo", "deals")
	resolver.Redirect("services/legacy", "services/mac-repair")

	match, err := resolver.Resolve("promo")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if match.Redirect != "" || match.Pattern != "promo" {
		t.Fatalf("registered route must win over redirect, got %+v", match)
	}

	// Dynamic patterns also shadow redirects on their source paths.
	dynamic, err := resolver.Resolve("services/legacy")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if dynamic.Redirect != "" || dynamic.Pattern != "services/[slug]" {
		t.Fatalf("dynamic route must win over redirect, got %+v", dynamic)
	}
}

func TestResolverStaticPaths(t *testing.T) {
	resolver := newTestResolver(t, "index", "about", "services/[slug]", "blog/*")

	statics := resolver.StaticPaths()
	if len(statics) != 2 || statics[0] != "about" || statics[1] != "index" {
		t.Fatalf("unexpected static paths %v", statics)
	}
}

func TestResolverRejectsMidPatternWildcard(t *testing.T) {
	resolver := NewResolver()
	if err := resolver.Register("blog/*/comments"); err == nil {
		t.Fatalf("wildcard before last segment must be rejected")
	}
}

func TestResolverCachesWithTTL(t *testing.T) {
	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	resolver := NewResolver(
		WithCacheTTL(time.Minute),
		WithNow(func() time.Time { return now }),
	)
	if err := resolver.Register("services/[slug]"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := resolver.Resolve("services/mac-repair"); err != nil {
		t.Fatalf("first resolve: %v", err)
	}

	// A miss is cached too.
	if _, err := resolver.Resolve("unknown"); err == nil {
		t.Fatalf("expected miss")
	}

	// Registration invalidates the cache so the former miss now matches.
	if err := resolver.Register("unknown"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := resolver.Resolve("unknown"); err != nil {
		t.Fatalf("resolve after registration: %v", err)
	}
}
