package render

import (
	"context"
	"fmt"
	"strings"
)

// ContentPrefix marks a string prop value as a content reference.
const ContentPrefix = "content:"

const (
	conditionalIfPrefix   = "if:"
	conditionalThenPrefix = "then:"
)

// ContentResolver is the slice of the content loader the pipeline needs.
type ContentResolver interface {
	Load(ctx context.Context, key, locale string) any
}

// PropPipeline applies the four prop transforms in their fixed order:
// content substitution, conditional resolution, responsive resolution, theme
// resolution. Order matters; later stages consume keys earlier stages
// rewrote.
type PropPipeline struct {
	content ContentResolver
	themes  []string
}

// NewPropPipeline constructs a pipeline. The theme vocabulary drives suffix
// stripping during theme resolution; content may be nil, in which case
// content references resolve to their literal values.
func NewPropPipeline(content ContentResolver, themes []string) *PropPipeline {
	return &PropPipeline{
		content: content,
		themes:  themes,
	}
}

// Apply transforms the prop bag for the given render context. The input map
// is never mutated. The only error path is a content-system failure
// (a panicking resolver), which is a page-fatal condition rather than a
// per-section one.
func (p *PropPipeline) Apply(ctx context.Context, props map[string]any, rctx *Context) (out map[string]any, err error) {
	if len(props) == 0 {
		return map[string]any{}, nil
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			out = nil
			err = fmt.Errorf("content resolution failed: %v", recovered)
		}
	}()

	transformed := make(map[string]any, len(props))
	for key, value := range props {
		transformed[key] = p.substituteContent(ctx, value, rctx)
	}

	transformed = p.resolveConditionals(transformed, rctx)
	transformed = p.resolveResponsive(transformed, rctx)
	transformed = p.resolveTheme(transformed, rctx)
	return transformed, nil
}

// substituteContent replaces content-reference strings with loaded content,
// recursing through nested arrays and objects. A missing content entry keeps
// the literal value so authors see what failed to resolve.
func (p *PropPipeline) substituteContent(ctx context.Context, value any, rctx *Context) any {
	switch typed := value.(type) {
	case string:
		if !strings.HasPrefix(typed, ContentPrefix) {
			return typed
		}
		if p.content == nil {
			return typed
		}
		key := strings.TrimPrefix(typed, ContentPrefix)
		if loaded := p.content.Load(ctx, key, rctx.Locale); loaded != nil {
			return loaded
		}
		return typed
	case []any:
		out := make([]any, len(typed))
		for i, entry := range typed {
			out[i] = p.substituteContent(ctx, entry, rctx)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, entry := range typed {
			out[key] = p.substituteContent(ctx, entry, rctx)
		}
		return out
	default:
		return value
	}
}

// resolveConditionals promotes "then:<condition>" values to the bare
// condition key when "<condition>" holds for the context. Both special keys
// are removed regardless of outcome.
func (p *PropPipeline) resolveConditionals(props map[string]any, rctx *Context) map[string]any {
	out := make(map[string]any, len(props))
	for key, value := range props {
		if strings.HasPrefix(key, conditionalIfPrefix) || strings.HasPrefix(key, conditionalThenPrefix) {
			continue
		}
		out[key] = value
	}

	for key := range props {
		if !strings.HasPrefix(key, conditionalIfPrefix) {
			continue
		}
		condition := strings.TrimPrefix(key, conditionalIfPrefix)
		value, paired := props[conditionalThenPrefix+condition]
		if !paired {
			continue
		}
		if evaluatePropCondition(condition, rctx) {
			out[condition] = value
		}
	}
	return out
}

// evaluatePropCondition resolves the conditional-prop vocabulary: a feature
// flag name, "authenticated" when a user exists, or "preview" in preview
// contexts.
func evaluatePropCondition(condition string, rctx *Context) bool {
	switch strings.ToLower(strings.TrimSpace(condition)) {
	case "authenticated":
		return rctx != nil && rctx.User != nil
	case "preview":
		return rctx != nil && rctx.Preview
	default:
		return rctx.HasFeature(condition)
	}
}

// resolveResponsive promotes "<name>:<deviceType>" keys matching the current
// device and strips every device-suffixed variant.
func (p *PropPipeline) resolveResponsive(props map[string]any, rctx *Context) map[string]any {
	device := string(rctx.DeviceType())

	out := make(map[string]any, len(props))
	promoted := map[string]any{}
	for key, value := range props {
		base, suffix, found := strings.Cut(key, ":")
		if !found || !DeviceType(suffix).valid() {
			out[key] = value
			continue
		}
		if suffix == device {
			promoted[base] = value
		}
	}
	for base, value := range promoted {
		out[base] = value
	}
	return out
}

// resolveTheme promotes "<name>_<theme>" keys matching the active theme and
// strips variants for every known theme.
func (p *PropPipeline) resolveTheme(props map[string]any, rctx *Context) map[string]any {
	if len(p.themes) == 0 {
		return props
	}

	out := make(map[string]any, len(props))
	promoted := map[string]any{}
	for key, value := range props {
		theme, base := p.themeSuffix(key)
		if theme == "" {
			out[key] = value
			continue
		}
		if rctx != nil && strings.EqualFold(theme, rctx.Theme) {
			promoted[base] = value
		}
	}
	for base, value := range promoted {
		out[base] = value
	}
	return out
}

func (p *PropPipeline) themeSuffix(key string) (theme, base string) {
	index := strings.LastIndex(key, "_")
	if index <= 0 || index == len(key)-1 {
		return "", key
	}
	candidate := key[index+1:]
	for _, known := range p.themes {
		if strings.EqualFold(candidate, known) {
			return candidate, key[:index]
		}
	}
	return "", key
}
