package interfaces

import (
	"context"
	"errors"
)

// ErrComponentNotFound reports that a component source has no implementation
// for the requested name. Sources must return it (wrapped or bare) for plain
// misses so chains can distinguish "not here" from infrastructure failures.
var ErrComponentNotFound = errors.New("component not found")

// Component is an opaque renderable implementation. The engine resolves
// components by name and hands them to the host's rendering layer; it never
// invokes them itself.
type Component interface {
	// Name returns the canonical component name, e.g. "HeroSection".
	Name() string
}

// ComponentSource resolves a component implementation by name. Variants
// include static maps and lazy loaders; compose them first-match-wins.
type ComponentSource interface {
	Resolve(ctx context.Context, name string) (Component, error)
}
