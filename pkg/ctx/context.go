// Package ctx provides the request context handed to every page handler.
//
// Handlers take a single *Context instead of (w, r):
//
//	func ShowShop(c *ctx.Context) {
//	    slug := c.Param("shop")
//	    c.HTML(http.StatusOK, "shop", c.Page("Menu", data))
//	}
//
//	router.Get("/{shop}", "shop.show", ctx.Wrap(ShowShop))
package ctx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/eatn/pkg/auth"
	"github.com/shashiranjanraj/eatn/pkg/bind"
	"github.com/shashiranjanraj/eatn/pkg/logger"
	"github.com/shashiranjanraj/eatn/pkg/middleware"
	"github.com/shashiranjanraj/eatn/pkg/session"
	"github.com/shashiranjanraj/eatn/pkg/view"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap adapts a HandlerFunc to http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Context wraps one request/response pair.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	mu     sync.RWMutex
	store  map[string]any
	status int
}

var pool = sync.Pool{
	New: func() any { return &Context{store: make(map[string]any)} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.status = 0
	for k := range c.store {
		delete(c.store, k)
	}
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request ──────────────────────────────────────────────────────────────────

// Param returns a chi URL parameter.
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// PostForm returns a trimmed form value.
func (c *Context) PostForm(key string) string {
	return strings.TrimSpace(c.R.FormValue(key))
}

func (c *Context) Method() string { return c.R.Method }

func (c *Context) Path() string { return c.R.URL.Path }

// RequestURI is the path plus query, used as a login continuation.
func (c *Context) RequestURI() string { return c.R.URL.RequestURI() }

// ClientIP returns the caller's address, honouring X-Forwarded-For only
// from trusted proxies.
func (c *Context) ClientIP() string { return middleware.ClientIP(c.R) }

func (c *Context) Context() context.Context { return c.R.Context() }

// Log returns the request-scoped logger.
func (c *Context) Log() *slog.Logger { return logger.WithCtx(c.R.Context()) }

// Bind decodes the submitted form into dest and validates it.
func (c *Context) Bind(dest any) error {
	return bind.Form(c.R, dest)
}

// ─── Session ──────────────────────────────────────────────────────────────────

// Session returns the request session, or nil without the session middleware.
func (c *Context) Session() *session.Session {
	return session.FromCtx(c.R)
}

// Identity returns the logged-in user, if any.
func (c *Context) Identity() (auth.Identity, bool) {
	return auth.FromSession(c.Session())
}

// ─── Per-request store ────────────────────────────────────────────────────────

func (c *Context) Set(key string, val any) {
	c.mu.Lock()
	c.store[key] = val
	c.mu.Unlock()
}

func (c *Context) Get(key string) (any, bool) {
	c.mu.RLock()
	v, ok := c.store[key]
	c.mu.RUnlock()
	return v, ok
}

// ─── Response ─────────────────────────────────────────────────────────────────

// Page builds the common view model for a template.
func (c *Context) Page(title string, data any) view.Page {
	p := view.Page{
		Title:   title,
		Success: c.Query("success"),
		Error:   c.Query("error"),
		Data:    data,
	}
	if id, ok := c.Identity(); ok {
		p.User = &id
	}
	if sess := c.Session(); sess != nil {
		p.CSRF = sess.Token()
		if msg := sess.GetFlash("success"); msg != "" {
			p.Success = msg
		}
		if msg := sess.GetFlash("error"); msg != "" {
			p.Error = msg
		}
	}
	return p
}

// HTML renders the named page template.
func (c *Context) HTML(code int, name string, page view.Page) {
	c.status = code
	if err := view.Render(c.W, code, name, page); err != nil {
		c.Log().Error("render failed", "template", name, "error", err)
	}
}

// Redirect answers with 303 See Other so a reload never repeats a POST.
func (c *Context) Redirect(url string) {
	c.status = http.StatusSeeOther
	http.Redirect(c.W, c.R, url, http.StatusSeeOther)
}

// String writes a plain-text response.
func (c *Context) String(code int, s string) {
	c.W.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.W.WriteHeader(code)
	c.status = code
	_, _ = c.W.Write([]byte(s))
}

// NotFound renders the empty-state page.
func (c *Context) NotFound(message string) {
	c.HTML(http.StatusNotFound, "error", c.Page("Not found", view.ErrorData{Message: message}))
}

// ServerError renders a generic failure page. Details stay in the log.
func (c *Context) ServerError() {
	c.HTML(http.StatusInternalServerError, "error", c.Page("Error", view.ErrorData{Message: view.GenericError}))
}

// WrittenStatus returns the status written so far, or 0.
func (c *Context) WrittenStatus() int { return c.status }
