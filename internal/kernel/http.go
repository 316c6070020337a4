// Package kernel assembles the HTTP handler: the global middleware stack,
// the operational endpoints and the page routes.
package kernel

import (
	"net/http"

	"github.com/shashiranjanraj/eatn/app/routes"
	"github.com/shashiranjanraj/eatn/app/services"
	"github.com/shashiranjanraj/eatn/config"
	"github.com/shashiranjanraj/eatn/pkg/ctx"
	"github.com/shashiranjanraj/eatn/pkg/metrics"
	"github.com/shashiranjanraj/eatn/pkg/middleware"
	"github.com/shashiranjanraj/eatn/pkg/reqid"
	"github.com/shashiranjanraj/eatn/pkg/router"
	"github.com/shashiranjanraj/eatn/pkg/session"
	"github.com/shashiranjanraj/eatn/pkg/storage"
)

// MsgPageNotFound is the empty-state message for unmatched paths.
const MsgPageNotFound = "The page you are looking for does not exist."

// Deps is everything the kernel wires into the router.
type Deps struct {
	Services *services.Services
	Sessions session.Store
	Disk     storage.Disk
}

// NewRouter builds the router with every middleware and route attached.
func NewRouter(d Deps) *router.Router {
	r := router.New()

	// Global middleware, outermost first. Metrics wraps everything so the
	// latency is the full request; the session must exist before CSRF runs.
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(session.Middleware(d.Sessions, session.DefaultOptions()))
	if d.Services != nil {
		r.Use(middleware.Remember(d.Services.Auth.Resolve, config.SessionRememberTTL(), config.SessionSecure()))
	}
	r.Use(middleware.CSRF)

	r.Get("/metrics", "metrics", metrics.Handler())
	r.Get("/healthz", "healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	if local, ok := d.Disk.(*storage.Local); ok {
		prefix := config.StorageURL()
		r.Mount(prefix, "storage", http.StripPrefix(prefix, http.FileServer(http.Dir(local.Root()))))
	}

	r.NotFound(ctx.Wrap(func(c *ctx.Context) { c.NotFound(MsgPageNotFound) }))

	if d.Services != nil {
		routes.RegisterWeb(r, d.Services)
	}
	return r
}

// NewHTTPKernel returns the finished handler.
func NewHTTPKernel(d Deps) http.Handler {
	return NewRouter(d).Handler()
}
