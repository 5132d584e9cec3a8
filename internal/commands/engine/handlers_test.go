package enginecmd

import (
	"context"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-pagekit/pageconfig"
)

type recordingContent struct {
	invalidated [][2]string
	cleared     []string
}

func (r *recordingContent) Invalidate(key string, locales ...string) {
	locale := ""
	if len(locales) > 0 {
		locale = locales[0]
	}
	r.invalidated = append(r.invalidated, [2]string{key, locale})
}

func (r *recordingContent) Clear(locales ...string) {
	r.cleared = append(r.cleared, locales...)
}

type recordingConfigs struct {
	invalidated []string
	reloaded    []string
}

func (r *recordingConfigs) Invalidate(pagePath string) {
	r.invalidated = append(r.invalidated, pagePath)
}

func (r *recordingConfigs) Reload(pagePath string) (*pageconfig.PageConfiguration, error) {
	r.reloaded = append(r.reloaded, pagePath)
	return &pageconfig.PageConfiguration{Path: pagePath}, nil
}

func TestInvalidateContentHandler(t *testing.T) {
	content := &recordingContent{}
	handler := NewInvalidateContentHandler(content, nil)

	err := handler.Execute(context.Background(), InvalidateContentCommand{
		Key:     "hero.title",
		Locales: []string{"en"},
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(content.invalidated) != 1 || content.invalidated[0] != [2]string{"hero.title", "en"} {
		t.Fatalf("unexpected invalidations %v", content.invalidated)
	}
}

func TestInvalidateContentHandlerClearsLocale(t *testing.T) {
	content := &recordingContent{}
	handler := NewInvalidateContentHandler(content, nil)

	err := handler.Execute(context.Background(), InvalidateContentCommand{
		Locales: []string{"es"},
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(content.cleared) != 1 || content.cleared[0] != "es" {
		t.Fatalf("unexpected clears %v", content.cleared)
	}
}

func TestInvalidateContentHandlerRequiresTarget(t *testing.T) {
	handler := NewInvalidateContentHandler(&recordingContent{}, nil)

	err := handler.Execute(context.Background(), InvalidateContentCommand{})
	if err == nil {
		t.Fatal("expected validation error for empty command")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestInvalidateConfigHandler(t *testing.T) {
	configs := &recordingConfigs{}
	handler := NewInvalidateConfigHandler(configs, nil)

	err := handler.Execute(context.Background(), InvalidateConfigCommand{Path: "services/mac-repair"})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(configs.invalidated) != 1 || configs.invalidated[0] != "services/mac-repair" {
		t.Fatalf("unexpected invalidations %v", configs.invalidated)
	}
}

func TestReloadConfigHandler(t *testing.T) {
	configs := &recordingConfigs{}
	handler := NewReloadConfigHandler(configs, nil)

	err := handler.Execute(context.Background(), ReloadConfigCommand{Path: "index"})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(configs.reloaded) != 1 || configs.reloaded[0] != "index" {
		t.Fatalf("unexpected reloads %v", configs.reloaded)
	}
}
