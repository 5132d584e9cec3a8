package preview

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/goliatone/go-pagekit/internal/runtimeconfig"
	"github.com/goliatone/go-pagekit/pageconfig"
)

func previewConfig() runtimeconfig.PreviewConfig {
	return runtimeconfig.PreviewConfig{
		Enabled:              true,
		TTL:                  24 * time.Hour,
		PerformanceThreshold: 80,
		HeavyComponents:      []string{"VideoHero", "MapSection", "AnalyticsChart"},
	}
}

func validRaw(sectionCount int) map[string]any {
	sections := make([]any, sectionCount)
	for i := range sections {
		sections[i] = map[string]any{
			"id":        fmt.Sprintf("section-%d", i),
			"component": "HeroSection",
		}
	}
	return map[string]any{
		"meta": map[string]any{
			"title":       "Mac Repair",
			"description": "Fast, warrantied Mac repairs with free diagnostics.",
			"keywords":    []any{"mac", "repair"},
			"socialImage": "https://fixpoint.example/social.png",
		},
		"layout":   "default",
		"sections": sections,
	}
}

func newTestService(t *testing.T, opts ...ServiceOption) (*Service, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	base := []ServiceOption{
		WithNonce(func() string { return "test-nonce" }),
	}
	svc := NewService(store, pageconfig.NewValidator(), previewConfig(), append(base, opts...)...)
	return svc, store
}

func TestServiceCreateValidConfig(t *testing.T) {
	svc, _ := newTestService(t)

	record, err := svc.Create(context.Background(), "services/mac-repair", validRaw(3))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if record.Status != StatusReady {
		t.Fatalf("unexpected status %q (%s)", record.Status, record.Error)
	}
	if record.Report == nil || !record.Report.Valid {
		t.Fatalf("small valid config should produce a valid report: %+v", record.Report)
	}
	if record.Report.Performance.Score != 100 {
		t.Fatalf("unexpected performance score %d", record.Report.Performance.Score)
	}
	if record.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Fatalf("preview id must be derived")
	}
}

func TestServiceCreateDeterministicID(t *testing.T) {
	svc, _ := newTestService(t)

	first, err := svc.Create(context.Background(), "index", validRaw(1))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := svc.Create(context.Background(), "index", validRaw(1))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("same path and nonce must derive the same id: %s vs %s", first.ID, second.ID)
	}
}

func TestServiceManySectionsDegradePerformance(t *testing.T) {
	svc, _ := newTestService(t)

	record, err := svc.Create(context.Background(), "index", validRaw(12))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	perf := record.Report.Performance
	if perf.Score > 90 {
		t.Fatalf("12 sections should cap performance at 90, got %d", perf.Score)
	}
	found := false
	for _, issue := range perf.Issues {
		if issue.Type == "render" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a render issue, got %v", perf.Issues)
	}
}

func TestServiceHeavyComponentsFailThreshold(t *testing.T) {
	svc, _ := newTestService(t)

	raw := validRaw(2)
	raw["sections"] = []any{
		map[string]any{"id": "video", "component": "VideoHero"},
		map[string]any{"id": "map", "component": "MapSection"},
		map[string]any{"id": "chart", "component": "AnalyticsChart"},
	}

	record, err := svc.Create(context.Background(), "index", raw)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if record.Report.Performance.Score != 70 {
		t.Fatalf("three heavy components should score 70, got %d", record.Report.Performance.Score)
	}
	if record.Report.Valid {
		t.Fatalf("score below threshold must invalidate the preview")
	}
}

func TestServiceStructuralFailureYieldsErrorPreview(t *testing.T) {
	svc, _ := newTestService(t)

	record, err := svc.Create(context.Background(), "index", map[string]any{
		"layout": "default",
	})
	if err != nil {
		t.Fatalf("create should persist an error preview, got %v", err)
	}
	if record.Status != StatusError {
		t.Fatalf("unexpected status %q", record.Status)
	}
	if record.Error == "" {
		t.Fatalf("error preview should carry the validation summary")
	}
	if record.Report != nil {
		t.Fatalf("error preview should carry no report")
	}
}

func TestServiceAccessibilityScore(t *testing.T) {
	svc, _ := newTestService(t)

	raw := validRaw(1)
	raw["sections"] = []any{
		map[string]any{
			"id":        "gallery",
			"component": "ImageGallery",
			"props":     map[string]any{"image": "/repair.jpg"},
		},
	}

	record, err := svc.Create(context.Background(), "index", raw)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	a11y := record.Report.Accessibility
	if a11y.Score != 85 {
		t.Fatalf("missing alt should deduct 15, got %d", a11y.Score)
	}
	if len(a11y.Issues) != 1 || a11y.Issues[0].Type != "alt" {
		t.Fatalf("unexpected accessibility issues %v", a11y.Issues)
	}
}

func TestServiceSEOScore(t *testing.T) {
	svc, _ := newTestService(t)

	raw := validRaw(1)
	raw["meta"] = map[string]any{
		"title":       "Mac Repair",
		"description": "Fast repairs.",
	}

	record, err := svc.Create(context.Background(), "index", raw)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	// No social image (-10), no keywords (-5).
	if record.Report.SEO.Score != 85 {
		t.Fatalf("unexpected seo score %d: %v", record.Report.SEO.Score, record.Report.SEO.Issues)
	}
}

func TestServiceExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, WithNow(func() time.Time { return now }))

	record, err := svc.Create(context.Background(), "index", validRaw(1))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Get(context.Background(), record.ID); err != nil {
		t.Fatalf("get before expiry: %v", err)
	}

	now = now.Add(25 * time.Hour)
	var notFound *NotFoundError
	if _, err := svc.Get(context.Background(), record.ID); !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError after expiry, got %v", err)
	}

	removed, err := svc.Cleanup(context.Background())
	if err != nil || removed != 1 {
		t.Fatalf("cleanup should purge 1 record, got %d / %v", removed, err)
	}
}

func TestServiceRefresh(t *testing.T) {
	svc, _ := newTestService(t)

	raw := validRaw(1)
	raw["sections"] = []any{
		map[string]any{"id": "video", "component": "VideoHero"},
		map[string]any{"id": "map", "component": "MapSection"},
		map[string]any{"id": "chart", "component": "AnalyticsChart"},
	}
	record, err := svc.Create(context.Background(), "index", raw)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if record.Report.Valid {
		t.Fatalf("expected invalid report for heavy sections")
	}

	refreshed, err := svc.Refresh(context.Background(), record.ID, validRaw(3))
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if !refreshed.Report.Valid {
		t.Fatalf("refreshed report should be valid: %+v", refreshed.Report)
	}
}
