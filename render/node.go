package render

import "fmt"

// NodeKind discriminates render node variants.
type NodeKind string

const (
	// KindComponent is a resolved component with transformed props.
	KindComponent NodeKind = "component"
	// KindFallback is the placeholder for a component that could not be
	// resolved; carrying the section id and component name keeps the miss
	// debuggable without failing the page.
	KindFallback NodeKind = "fallback"
	// KindError replaces a section whose construction failed.
	KindError NodeKind = "error"
	// KindLoading is the placeholder emitted while a resolution step is
	// still pending, e.g. a sync render over a cold registry.
	KindLoading NodeKind = "loading"
)

// Node is the data-only render tree handed to the host's rendering layer.
// The engine never executes components; it assembles nodes.
type Node struct {
	Kind      NodeKind
	SectionID string
	Component string
	Impl      any
	Props     map[string]any
	Message   string
	Children  []*Node
}

// FallbackNode builds the placeholder for an unresolvable component.
func FallbackNode(sectionID, component string) *Node {
	return &Node{
		Kind:      KindFallback,
		SectionID: sectionID,
		Component: component,
		Message:   fmt.Sprintf("Component %q not found", component),
	}
}

// ErrorNode builds the inline error node scoped to a failed section.
func ErrorNode(sectionID, component string, err error) *Node {
	message := "section render failed"
	if err != nil {
		message = err.Error()
	}
	return &Node{
		Kind:      KindError,
		SectionID: sectionID,
		Component: component,
		Message:   message,
	}
}

// LoadingNode builds the placeholder shown while resolution is pending.
func LoadingNode(sectionID, component string) *Node {
	return &Node{
		Kind:      KindLoading,
		SectionID: sectionID,
		Component: component,
		Message:   "loading",
	}
}
