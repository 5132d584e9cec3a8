package render

import (
	"testing"
	"time"

	"github.com/goliatone/go-pagekit/pageconfig"
	"github.com/goliatone/go-pagekit/pkg/interfaces"
)

func TestEvaluateVisibilityNilSpec(t *testing.T) {
	result := EvaluateVisibility(nil, &Context{})
	if !result.Visible || !result.Conditions || !result.Device {
		t.Fatalf("nil spec should be fully visible, got %+v", result)
	}
}

func TestEvaluateVisibilityFeatureConditions(t *testing.T) {
	rctx := &Context{Features: []string{"booking", "darkMode"}}

	spec := &pageconfig.VisibilitySpec{
		Conditions: []pageconfig.Condition{
			{Type: "feature", Operator: "has", Value: "booking"},
			{Type: "feature", Operator: "not", Value: "analytics"},
		},
	}
	if result := EvaluateVisibility(spec, rctx); !result.Visible {
		t.Fatalf("expected visible, got %+v", result)
	}

	spec.Conditions = append(spec.Conditions, pageconfig.Condition{
		Type: "feature", Operator: "has", Value: "analytics",
	})
	if result := EvaluateVisibility(spec, rctx); result.Visible {
		t.Fatalf("conditions are ANDed, expected hidden, got %+v", result)
	}
}

func TestEvaluateVisibilityFeatureContains(t *testing.T) {
	rctx := &Context{Features: []string{"analyticsBeta"}}
	spec := &pageconfig.VisibilitySpec{
		Conditions: []pageconfig.Condition{
			{Type: "feature", Operator: "contains", Value: "analytics"},
		},
	}
	if !EvaluateVisibility(spec, rctx).Visible {
		t.Fatalf("contains should match substring flag")
	}
}

func TestEvaluateVisibilityRole(t *testing.T) {
	admin := &Context{User: &interfaces.User{ID: "u1", Roles: []string{"admin"}}}
	anonymous := &Context{}

	spec := &pageconfig.VisibilitySpec{
		Conditions: []pageconfig.Condition{
			{Type: "role", Operator: "is", Value: "admin"},
		},
	}
	if !EvaluateVisibility(spec, admin).Visible {
		t.Fatalf("admin should satisfy role condition")
	}
	if EvaluateVisibility(spec, anonymous).Visible {
		t.Fatalf("anonymous user should fail role condition")
	}
}

func TestEvaluateVisibilityTime(t *testing.T) {
	clock := func() time.Time {
		return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	}
	rctx := &Context{Clock: clock}

	spec := &pageconfig.VisibilitySpec{
		Conditions: []pageconfig.Condition{
			{Type: "time", Operator: "after", Value: "2026-01-01T00:00:00Z"},
			{Type: "time", Operator: "before", Value: "2026-12-31T00:00:00Z"},
		},
	}
	if !EvaluateVisibility(spec, rctx).Visible {
		t.Fatalf("expected time window to be open")
	}

	spec.Conditions[0].Value = "not a timestamp"
	if EvaluateVisibility(spec, rctx).Visible {
		t.Fatalf("unparseable threshold should fail closed")
	}
}

func TestEvaluateVisibilityDeviceGate(t *testing.T) {
	spec := &pageconfig.VisibilitySpec{
		Devices: map[string]bool{"mobile": false},
	}

	mobile := &Context{Device: Device{Type: DeviceMobile}}
	if result := EvaluateVisibility(spec, mobile); result.Visible || result.Device {
		t.Fatalf("mobile should be gated off, got %+v", result)
	}

	// Devices missing from the map default to visible.
	desktop := &Context{Device: Device{Type: DeviceDesktop}}
	if !EvaluateVisibility(spec, desktop).Visible {
		t.Fatalf("desktop should default visible")
	}
}

func TestEvaluateVisibilityUnknownTypeFailsClosed(t *testing.T) {
	spec := &pageconfig.VisibilitySpec{
		Conditions: []pageconfig.Condition{
			{Type: "weather", Operator: "is", Value: "sunny"},
		},
	}
	if EvaluateVisibility(spec, &Context{}).Visible {
		t.Fatalf("unknown condition type should fail closed")
	}
}
