package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/adrg/frontmatter"
)

// FileSource reads content documents from a filesystem laid out as
// <locale>/<namespace>/<slug>.md. Keys map dot-separated onto the path, so
// "services.mac-repair.intro" resolves to
// <locale>/services/mac-repair/intro.md. Document frontmatter selects the
// value type; the body carries the content.
type FileSource struct {
	fsys fs.FS
}

// NewFileSource constructs a source over the provided filesystem root.
func NewFileSource(fsys fs.FS) *FileSource {
	return &FileSource{fsys: fsys}
}

type documentMeta struct {
	Type      string `yaml:"type"`
	Format    string `yaml:"format"`
	MediaType string `yaml:"media_type"`
	Src       string `yaml:"src"`
	Alt       string `yaml:"alt"`
	Caption   string `yaml:"caption"`
}

// Load satisfies interfaces.ContentSource.
func (s *FileSource) Load(_ context.Context, key, locale string) (any, bool, error) {
	if s.fsys == nil {
		return nil, false, nil
	}
	filename := keyToPath(key, locale)
	if filename == "" {
		return nil, false, nil
	}

	raw, err := fs.ReadFile(s.fsys, filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("content file %s: %w", filename, err)
	}

	var meta documentMeta
	body, err := frontmatter.Parse(bytes.NewReader(raw), &meta)
	if err != nil {
		return nil, false, fmt.Errorf("content frontmatter %s: %w", filename, err)
	}

	return documentValue(meta, body), true, nil
}

// Keys satisfies Enumerator by walking the locale directory.
func (s *FileSource) Keys(_ context.Context, locale string) ([]string, error) {
	if s.fsys == nil {
		return nil, nil
	}
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return nil, nil
	}

	keys := []string{}
	err := fs.WalkDir(s.fsys, locale, func(entry string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(entry, ".md") {
			return nil
		}
		relative := strings.TrimPrefix(entry, locale+"/")
		relative = strings.TrimSuffix(relative, ".md")
		keys = append(keys, strings.ReplaceAll(relative, "/", "."))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func keyToPath(key, locale string) string {
	key = strings.TrimSpace(key)
	locale = strings.TrimSpace(locale)
	if key == "" || locale == "" {
		return ""
	}
	return path.Join(locale, strings.ReplaceAll(key, ".", "/")) + ".md"
}

func documentValue(meta documentMeta, body []byte) any {
	content := strings.TrimSpace(string(body))
	switch strings.ToLower(strings.TrimSpace(meta.Type)) {
	case "richtext":
		format := meta.Format
		if format == "" {
			format = "markdown"
		}
		return RichText{Format: format, Content: content}
	case "media":
		return Media{
			Type:    meta.MediaType,
			Src:     meta.Src,
			Alt:     meta.Alt,
			Caption: meta.Caption,
		}
	default:
		return content
	}
}
