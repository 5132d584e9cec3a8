package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/goliatone/go-pagekit/internal/logging"
	"github.com/goliatone/go-pagekit/pageconfig"
	"github.com/goliatone/go-pagekit/pages"
	"github.com/goliatone/go-pagekit/pkg/interfaces"
	"github.com/goliatone/go-pagekit/render"
)

const (
	cachePrivate  = "no-cache, no-store, must-revalidate"
	cacheRealtime = "no-cache, must-revalidate"
	cachePublic   = "public, max-age=3600, s-maxage=7200"
)

// PageConfigHeader carries the matched configuration path back to the host,
// mainly for edge caches and debugging.
const PageConfigHeader = "X-Page-Config"

// UserFunc extracts the authenticated user from a request, nil when
// anonymous.
type UserFunc func(*http.Request) *interfaces.User

// Handler serves resolved pages as JSON instances. The host owns the actual
// HTML rendering; this handler exists for API-driven frontends and for the
// example binary.
type Handler struct {
	resolver *Resolver
	factory  *pages.Factory
	locale   string
	user     UserFunc
	features []string
	logger   interfaces.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithUserFunc installs the request user extractor.
func WithUserFunc(fn UserFunc) HandlerOption {
	return func(h *Handler) {
		h.user = fn
	}
}

// WithDefaultLocale sets the locale used when the request carries none.
func WithDefaultLocale(locale string) HandlerOption {
	return func(h *Handler) {
		if locale != "" {
			h.locale = locale
		}
	}
}

// WithFeatures sets the globally enabled feature flags merged into every
// render context.
func WithFeatures(features []string) HandlerOption {
	return func(h *Handler) {
		h.features = features
	}
}

// WithHandlerLogger overrides the default module logger.
func WithHandlerLogger(logger interfaces.Logger) HandlerOption {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHandler wires an HTTP handler over a resolver and a page factory.
func NewHandler(resolver *Resolver, factory *pages.Factory, opts ...HandlerOption) *Handler {
	h := &Handler{
		resolver: resolver,
		factory:  factory,
		locale:   "en",
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	match, err := h.resolver.Resolve(r.URL.Path)
	if err != nil {
		if errors.Is(err, ErrRouteNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("router.handler.resolve", "path", r.URL.Path, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if match.Redirect != "" {
		http.Redirect(w, r, "/"+match.Redirect, http.StatusMovedPermanently)
		return
	}

	rctx := h.renderContext(r, match)
	instance, err := h.factory.CreatePage(r.Context(), match.Pattern, rctx)
	if err != nil {
		switch {
		case errors.Is(err, pageconfig.ErrConfigNotFound):
			http.NotFound(w, r)
		default:
			h.logger.Error("router.handler.create", "path", match.Pattern, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	if instance.Auth != nil && instance.Auth.Required && rctx.User == nil {
		target := instance.Auth.Redirect
		if target == "" {
			target = "/login"
		}
		http.Redirect(w, r, target, http.StatusFound)
		return
	}

	w.Header().Set("Cache-Control", cachePolicy(instance))
	w.Header().Set(PageConfigHeader, match.Pattern)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(instance); err != nil {
		h.logger.Error("router.handler.encode", "path", match.Pattern, "error", err)
	}
}

// cachePolicy derives the Cache-Control header from the page. Authenticated
// pages are never cached, realtime pages always revalidate, everything else
// is publicly cacheable.
func cachePolicy(instance *pages.Instance) string {
	if instance.Auth != nil && instance.Auth.Required {
		return cachePrivate
	}
	for _, feature := range instance.Features {
		if strings.EqualFold(feature, "realtime") {
			return cacheRealtime
		}
	}
	return cachePublic
}

func (h *Handler) renderContext(r *http.Request, match *Match) *render.Context {
	locale := r.URL.Query().Get("locale")
	if locale == "" {
		locale = h.locale
	}

	var user *interfaces.User
	if h.user != nil {
		user = h.user(r)
	}

	return &render.Context{
		Locale:   locale,
		User:     user,
		Features: h.features,
		Device:   deviceFromRequest(r),
		Theme:    r.URL.Query().Get("theme"),
		Params:   match.Params,
	}
}

func deviceFromRequest(r *http.Request) render.Device {
	agent := r.UserAgent()
	device := render.Device{Type: render.DeviceDesktop, Agent: agent}

	lowered := strings.ToLower(agent)
	switch {
	case strings.Contains(lowered, "ipad") || strings.Contains(lowered, "tablet"):
		device.Type = render.DeviceTablet
	case strings.Contains(lowered, "mobi") || strings.Contains(lowered, "iphone") || strings.Contains(lowered, "android"):
		device.Type = render.DeviceMobile
	}
	return device
}
