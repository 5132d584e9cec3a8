package enginecmd

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-pagekit/internal/commands"
	"github.com/goliatone/go-pagekit/pageconfig"
	"github.com/goliatone/go-pagekit/pkg/interfaces"
)

const (
	invalidateContentMessageType = "pagekit.content.invalidate"
	invalidateConfigMessageType  = "pagekit.config.invalidate"
	reloadConfigMessageType      = "pagekit.config.reload"
)

// ContentInvalidator is the content-cache slice the command layer drives.
type ContentInvalidator interface {
	Invalidate(key string, locales ...string)
	Clear(locales ...string)
}

// ConfigCache is the config-cache slice the command layer drives.
type ConfigCache interface {
	Invalidate(pagePath string)
	Reload(pagePath string) (*pageconfig.PageConfiguration, error)
}

// InvalidateContentCommand drops cached content for a key, or an entire
// locale when the key is empty.
type InvalidateContentCommand struct {
	Key     string   `json:"key"`
	Locales []string `json:"locales,omitempty"`
}

// Type implements command.Message.
func (InvalidateContentCommand) Type() string { return invalidateContentMessageType }

// Validate ensures the command targets something.
func (m InvalidateContentCommand) Validate() error {
	if strings.TrimSpace(m.Key) == "" && len(m.Locales) == 0 {
		return validation.Errors{
			"key": validation.NewError("pagekit.content.invalidate.target_required",
				"either key or locales must be provided"),
		}
	}
	return nil
}

// NewInvalidateContentHandler builds the handler for content invalidation.
func NewInvalidateContentHandler(content ContentInvalidator, logger interfaces.Logger, opts ...commands.HandlerOption[InvalidateContentCommand]) *commands.Handler[InvalidateContentCommand] {
	exec := func(_ context.Context, msg InvalidateContentCommand) error {
		if strings.TrimSpace(msg.Key) == "" {
			content.Clear(msg.Locales...)
			return nil
		}
		content.Invalidate(msg.Key, msg.Locales...)
		return nil
	}

	handlerOpts := []commands.HandlerOption[InvalidateContentCommand]{
		commands.WithLogger[InvalidateContentCommand](logger),
		commands.WithOperation[InvalidateContentCommand]("content.invalidate"),
		commands.WithMessageFields(func(msg InvalidateContentCommand) map[string]any {
			fields := map[string]any{}
			if msg.Key != "" {
				fields["key"] = msg.Key
			}
			if len(msg.Locales) > 0 {
				fields["locales"] = strings.Join(msg.Locales, ",")
			}
			return fields
		}),
	}
	return commands.NewHandler(exec, append(handlerOpts, opts...)...)
}

// InvalidateConfigCommand drops a cached page configuration so the next load
// re-reads and re-validates the document.
type InvalidateConfigCommand struct {
	Path string `json:"path"`
}

// Type implements command.Message.
func (InvalidateConfigCommand) Type() string { return invalidateConfigMessageType }

// Validate ensures a target path is present.
func (m InvalidateConfigCommand) Validate() error {
	if strings.TrimSpace(m.Path) == "" {
		return validation.Errors{
			"path": validation.NewError("pagekit.config.invalidate.path_required", "path is required"),
		}
	}
	return nil
}

// NewInvalidateConfigHandler builds the handler for config invalidation.
func NewInvalidateConfigHandler(configs ConfigCache, logger interfaces.Logger, opts ...commands.HandlerOption[InvalidateConfigCommand]) *commands.Handler[InvalidateConfigCommand] {
	exec := func(_ context.Context, msg InvalidateConfigCommand) error {
		configs.Invalidate(msg.Path)
		return nil
	}

	handlerOpts := []commands.HandlerOption[InvalidateConfigCommand]{
		commands.WithLogger[InvalidateConfigCommand](logger),
		commands.WithOperation[InvalidateConfigCommand]("config.invalidate"),
		commands.WithMessageFields(func(msg InvalidateConfigCommand) map[string]any {
			return map[string]any{"path": msg.Path}
		}),
	}
	return commands.NewHandler(exec, append(handlerOpts, opts...)...)
}

// ReloadConfigCommand re-reads a page configuration from disk, re-validates
// it, and notifies registered watchers.
type ReloadConfigCommand struct {
	Path string `json:"path"`
}

// Type implements command.Message.
func (ReloadConfigCommand) Type() string { return reloadConfigMessageType }

// Validate ensures a target path is present.
func (m ReloadConfigCommand) Validate() error {
	if strings.TrimSpace(m.Path) == "" {
		return validation.Errors{
			"path": validation.NewError("pagekit.config.reload.path_required", "path is required"),
		}
	}
	return nil
}

// NewReloadConfigHandler builds the handler for config reloads.
func NewReloadConfigHandler(configs ConfigCache, logger interfaces.Logger, opts ...commands.HandlerOption[ReloadConfigCommand]) *commands.Handler[ReloadConfigCommand] {
	exec := func(_ context.Context, msg ReloadConfigCommand) error {
		_, err := configs.Reload(msg.Path)
		return err
	}

	handlerOpts := []commands.HandlerOption[ReloadConfigCommand]{
		commands.WithLogger[ReloadConfigCommand](logger),
		commands.WithOperation[ReloadConfigCommand]("config.reload"),
		commands.WithMessageFields(func(msg ReloadConfigCommand) map[string]any {
			return map[string]any{"path": msg.Path}
		}),
	}
	return commands.NewHandler(exec, append(handlerOpts, opts...)...)
}
