package render

import (
	"strings"
	"time"

	"github.com/goliatone/go-pagekit/pageconfig"
)

// Visibility is the resolved visibility record for a section: the ANDed
// condition outcome, the device gate, and their combination.
type Visibility struct {
	Conditions bool
	Device     bool
	Visible    bool
}

// EvaluateVisibility resolves a section's visibility spec against the render
// context. A nil spec is fully visible; a device missing from the device map
// defaults to visible.
func EvaluateVisibility(spec *pageconfig.VisibilitySpec, rctx *Context) Visibility {
	result := Visibility{Conditions: true, Device: true}
	if spec == nil {
		result.Visible = true
		return result
	}

	for _, condition := range spec.Conditions {
		if !evaluateCondition(condition, rctx) {
			result.Conditions = false
			break
		}
	}

	if spec.Devices != nil {
		if visible, ok := spec.Devices[string(rctx.DeviceType())]; ok {
			result.Device = visible
		}
	}

	result.Visible = result.Conditions && result.Device
	return result
}

// evaluateCondition applies one rule from the closed operator set. Unknown
// types, operators, and unparseable time thresholds fail closed.
func evaluateCondition(condition pageconfig.Condition, rctx *Context) bool {
	value := strings.TrimSpace(condition.Value)

	switch strings.ToLower(strings.TrimSpace(condition.Type)) {
	case "feature":
		switch strings.ToLower(condition.Operator) {
		case "has":
			return rctx.HasFeature(value)
		case "not":
			return !rctx.HasFeature(value)
		case "contains":
			for _, flag := range rctx.Features {
				if strings.Contains(strings.ToLower(flag), strings.ToLower(value)) {
					return true
				}
			}
			return false
		}
	case "role":
		switch strings.ToLower(condition.Operator) {
		case "is":
			return rctx.User.HasRole(value)
		case "not":
			return !rctx.User.HasRole(value)
		}
	case "time":
		threshold, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return false
		}
		switch strings.ToLower(condition.Operator) {
		case "before":
			return rctx.now().Before(threshold)
		case "after":
			return rctx.now().After(threshold)
		}
	}
	return false
}
