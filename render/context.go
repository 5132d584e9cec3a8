package render

import (
	"strings"
	"time"

	"github.com/goliatone/go-pagekit/pkg/interfaces"
)

// DeviceType buckets the requesting device for responsive resolution.
type DeviceType string

const (
	DeviceMobile  DeviceType = "mobile"
	DeviceTablet  DeviceType = "tablet"
	DeviceDesktop DeviceType = "desktop"
)

func (d DeviceType) valid() bool {
	switch d {
	case DeviceMobile, DeviceTablet, DeviceDesktop:
		return true
	default:
		return false
	}
}

// Device describes the requesting device.
type Device struct {
	Type   DeviceType
	Width  int
	Height int
	Agent  string
}

// Context carries the per-request state consulted during section rendering.
// It is created per render request and never persisted.
type Context struct {
	Locale   string
	User     *interfaces.User
	Features []string
	Device   Device
	Theme    string
	Preview  bool
	Params   map[string]string

	// Clock overrides time-based condition evaluation in tests.
	Clock func() time.Time
}

// HasFeature reports whether the request context enables the named flag.
func (c *Context) HasFeature(flag string) bool {
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

// DeviceType returns the context's device bucket, defaulting to desktop.
func (c *Context) DeviceType() DeviceType {
	if c == nil || !c.Device.Type.valid() {
		return DeviceDesktop
	}
	return c.Device.Type
}

func (c *Context) now() time.Time {
	if c != nil && c.Clock != nil {
		return c.Clock()
	}
	return time.Now()
}
