package metadata

import (
	"strings"

	"github.com/goliatone/go-pagekit/pageconfig"
)

const schemaOrgContext = "https://schema.org"

// structuredData assembles the JSON-LD documents for a page. WebSite and
// Organization are always present; the page type adds Service, Article, or
// Product on top.
func (m *Manager) structuredData(cfg *pageconfig.PageConfiguration, title, description, canonical, image string) []map[string]any {
	documents := []map[string]any{
		m.websiteDocument(),
		m.organizationDocument(),
	}

	if cfg.Analytics == nil {
		return documents
	}

	switch strings.ToLower(cfg.Analytics.PageType) {
	case "service":
		documents = append(documents, map[string]any{
			"@context":    schemaOrgContext,
			"@type":       "Service",
			"name":        title,
			"description": description,
			"url":         canonical,
			"provider": map[string]any{
				"@type": "Organization",
				"name":  m.organizationName(),
			},
		})
	case "article", "blog", "post":
		article := map[string]any{
			"@context":    schemaOrgContext,
			"@type":       "Article",
			"headline":    title,
			"description": description,
			"url":         canonical,
			"publisher": map[string]any{
				"@type": "Organization",
				"name":  m.organizationName(),
			},
		}
		if image != "" {
			article["image"] = image
		}
		documents = append(documents, article)
	case "product":
		product := map[string]any{
			"@context":    schemaOrgContext,
			"@type":       "Product",
			"name":        title,
			"description": description,
			"url":         canonical,
		}
		if image != "" {
			product["image"] = image
		}
		documents = append(documents, product)
	}
	return documents
}

func (m *Manager) websiteDocument() map[string]any {
	return map[string]any{
		"@context": schemaOrgContext,
		"@type":    "WebSite",
		"name":     m.site.Name,
		"url":      m.CanonicalURL(""),
	}
}

func (m *Manager) organizationDocument() map[string]any {
	doc := map[string]any{
		"@context": schemaOrgContext,
		"@type":    "Organization",
		"name":     m.organizationName(),
		"url":      m.CanonicalURL(""),
	}
	if m.site.LogoURL != "" {
		doc["logo"] = m.site.LogoURL
	}
	return doc
}

func (m *Manager) organizationName() string {
	if m.site.Organization != "" {
		return m.site.Organization
	}
	return m.site.Name
}
