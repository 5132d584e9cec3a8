package content

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// RichText is a typed content value carrying formatted text.
type RichText struct {
	Format  string
	Content string
}

// Media is a typed content value referencing an asset.
type Media struct {
	Type    string
	Src     string
	Alt     string
	Caption string
}

// markdown renders rich-text bodies authored in markdown. GFM with unsafe
// HTML matches how the rest of the stack treats authored content; sanitization
// is a delivery concern.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// processValue reduces a raw source value to its renderable form:
// plain strings pass through, rich text yields its (rendered) content, and
// media yields the best textual representation for its type.
func processValue(value any) any {
	switch typed := value.(type) {
	case nil:
		return nil
	case string:
		return typed
	case RichText:
		return processRichText(typed)
	case *RichText:
		if typed == nil {
			return nil
		}
		return processRichText(*typed)
	case Media:
		return processMedia(typed)
	case *Media:
		if typed == nil {
			return nil
		}
		return processMedia(*typed)
	case map[string]any:
		return processTypedMap(typed)
	default:
		return value
	}
}

func processTypedMap(value map[string]any) any {
	kind, _ := value["type"].(string)
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "richtext":
		format, _ := value["format"].(string)
		raw, _ := value["content"].(string)
		return processRichText(RichText{Format: format, Content: raw})
	case "media":
		mediaType, _ := value["mediaType"].(string)
		if mediaType == "" {
			mediaType, _ = value["media_type"].(string)
		}
		src, _ := value["src"].(string)
		alt, _ := value["alt"].(string)
		caption, _ := value["caption"].(string)
		return processMedia(Media{Type: mediaType, Src: src, Alt: alt, Caption: caption})
	default:
		return value
	}
}

func processRichText(value RichText) string {
	if strings.EqualFold(strings.TrimSpace(value.Format), "markdown") {
		var buf bytes.Buffer
		if err := markdown.Convert([]byte(value.Content), &buf); err == nil {
			return strings.TrimSpace(buf.String())
		}
	}
	return value.Content
}

func processMedia(value Media) string {
	switch strings.ToLower(strings.TrimSpace(value.Type)) {
	case "video":
		if value.Caption != "" {
			return value.Caption
		}
		return value.Src
	default:
		// Images and unrecognized media prefer accessible text.
		if value.Alt != "" {
			return value.Alt
		}
		if value.Caption != "" {
			return value.Caption
		}
		return value.Src
	}
}
