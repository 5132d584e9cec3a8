package pageconfig

import "strings"

// PageConfiguration is a declarative page description: metadata, layout, and
// an ordered list of section descriptors. Configurations are authored
// externally, loaded read-only, and cached with a TTL.
type PageConfiguration struct {
	Path      string
	Meta      PageMeta
	Layout    string
	Sections  []SectionSpec
	Features  []string
	Auth      *AuthSpec
	Analytics *AnalyticsSpec
}

// PageMeta carries the page-head fields used for SEO derivation.
type PageMeta struct {
	Title       string
	Description string
	Keywords    []string
	SocialImage string
	Robots      string
}

// SectionSpec describes one independently failable unit of a page.
type SectionSpec struct {
	ID         string
	Component  string
	Props      map[string]any
	Visibility *VisibilitySpec
	Variants   []string
}

// VisibilitySpec gates a section behind conditions (ANDed) and per-device
// booleans. Devices absent from the map default to visible.
type VisibilitySpec struct {
	Conditions []Condition
	Devices    map[string]bool
}

// Condition is one boolean visibility rule from the closed operator set.
type Condition struct {
	Type     string // feature | role | time
	Operator string // has, not, contains | is, not | before, after
	Value    string
}

// AuthSpec captures page-level access requirements.
type AuthSpec struct {
	Required bool
	Roles    []string
	Redirect string
}

// AnalyticsSpec captures analytics annotations for the page.
type AnalyticsSpec struct {
	PageType   string
	Category   string
	Dimensions map[string]string
}

// HasFeature reports whether the configuration enables the named flag.
func (c *PageConfiguration) HasFeature(flag string) bool {
	if c == nil {
		return false
	}
	for _, candidate := range c.Features {
		if strings.EqualFold(candidate, flag) {
			return true
		}
	}
	return false
}

// FromRaw converts a structurally valid raw document into a typed
// configuration. Unknown keys are ignored; shapes were already checked by the
// structural tier.
func FromRaw(raw map[string]any) *PageConfiguration {
	cfg := &PageConfiguration{
		Layout: stringAt(raw, "layout"),
	}

	if meta, ok := raw["meta"].(map[string]any); ok {
		cfg.Meta = PageMeta{
			Title:       stringAt(meta, "title"),
			Description: stringAt(meta, "description"),
			Keywords:    stringsAt(meta, "keywords"),
			SocialImage: stringAt(meta, "socialImage"),
			Robots:      stringAt(meta, "robots"),
		}
	}

	if sections, ok := raw["sections"].([]any); ok {
		cfg.Sections = make([]SectionSpec, 0, len(sections))
		for _, entry := range sections {
			section, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			cfg.Sections = append(cfg.Sections, sectionFromRaw(section))
		}
	}

	cfg.Features = toStrings(raw["features"])

	if auth, ok := raw["auth"].(map[string]any); ok {
		required, _ := auth["required"].(bool)
		cfg.Auth = &AuthSpec{
			Required: required,
			Roles:    toStrings(auth["roles"]),
			Redirect: stringAt(auth, "redirect"),
		}
	}

	if analytics, ok := raw["analytics"].(map[string]any); ok {
		spec := &AnalyticsSpec{
			PageType: stringAt(analytics, "pageType"),
			Category: stringAt(analytics, "category"),
		}
		if dimensions, ok := analytics["dimensions"].(map[string]any); ok {
			spec.Dimensions = make(map[string]string, len(dimensions))
			for key, value := range dimensions {
				if text, ok := value.(string); ok {
					spec.Dimensions[key] = text
				}
			}
		}
		cfg.Analytics = spec
	}

	return cfg
}

func sectionFromRaw(raw map[string]any) SectionSpec {
	section := SectionSpec{
		ID:        stringAt(raw, "id"),
		Component: stringAt(raw, "component"),
		Variants:  toStrings(raw["variants"]),
	}
	if props, ok := raw["props"].(map[string]any); ok {
		section.Props = props
	}
	if visibility, ok := raw["visibility"].(map[string]any); ok {
		section.Visibility = visibilityFromRaw(visibility)
	}
	return section
}

func visibilityFromRaw(raw map[string]any) *VisibilitySpec {
	spec := &VisibilitySpec{}

	if conditions, ok := raw["conditions"].([]any); ok {
		for _, entry := range conditions {
			condition, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			spec.Conditions = append(spec.Conditions, Condition{
				Type:     stringAt(condition, "type"),
				Operator: stringAt(condition, "operator"),
				Value:    stringAt(condition, "value"),
			})
		}
	}

	if devices, ok := raw["devices"].(map[string]any); ok {
		spec.Devices = make(map[string]bool, len(devices))
		for device, value := range devices {
			if visible, ok := value.(bool); ok {
				spec.Devices[device] = visible
			}
		}
	}

	return spec
}

func stringAt(raw map[string]any, key string) string {
	value, _ := raw[key].(string)
	return value
}

func stringsAt(raw map[string]any, key string) []string {
	return toStrings(raw[key])
}

func toStrings(value any) []string {
	switch typed := value.(type) {
	case []string:
		return typed
	case []any:
		out := make([]string, 0, len(typed))
		for _, entry := range typed {
			if text, ok := entry.(string); ok {
				out = append(out, text)
			}
		}
		return out
	default:
		return nil
	}
}
