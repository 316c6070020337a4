// Package session provides cookie-keyed server-side sessions backed by Redis
// or process memory.
//
// Wiring:
//
//	r.Use(session.Middleware(session.NewRedisStore(), session.DefaultOptions()))
//
// Handlers:
//
//	sess := session.FromCtx(r)
//	sess.Set("user_id", 42)
//
// The middleware persists changes before the response headers are written, so
// handlers never call Save themselves.
package session

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/shashiranjanraj/eatn/config"
)

// Options configures the session cookie.
type Options struct {
	CookieName string
	TTL        time.Duration
	HTTPOnly   bool
	Secure     bool
	SameSite   http.SameSite
	Path       string
}

// DefaultOptions reads TTL and the Secure flag from config.
func DefaultOptions() Options {
	return Options{
		CookieName: "eatn_session",
		TTL:        config.SessionTTL(),
		HTTPOnly:   true,
		Secure:     config.SessionSecure(),
		SameSite:   http.SameSiteLaxMode,
		Path:       "/",
	}
}

const (
	flashPrefix = "_flash_"
	tokenKey    = "_token"
	ttlKey      = "_ttl"
)

type ctxKey struct{}

// Session is the per-request handle on a stored session.
type Session struct {
	id      string
	data    map[string]interface{}
	opts    Options
	store   Store
	changed bool
	cleared bool
	stale   []string
}

func newID() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("session: entropy unavailable: %v", err))
	}
	return hex.EncodeToString(b)
}

// New returns an empty session that has not been persisted yet.
func New(store Store, opts Options) *Session {
	return &Session{id: newID(), data: map[string]interface{}{}, opts: opts, store: store}
}

// Load fetches the session id from store. Unknown ids yield an empty
// session under a fresh id so a client can never choose its own id.
func Load(ctx context.Context, store Store, opts Options, id string) (*Session, error) {
	data, err := store.Load(ctx, id)
	if err != nil {
		return New(store, opts), err
	}
	if len(data) == 0 {
		return New(store, opts), nil
	}
	return &Session{id: id, data: data, opts: opts, store: store}, nil
}

func (s *Session) ID() string { return s.id }

func (s *Session) Set(key string, value interface{}) {
	s.data[key] = value
	s.changed = true
}

func (s *Session) Get(key string) (interface{}, bool) {
	v, ok := s.data[key]
	return v, ok
}

func (s *Session) GetString(key string) (string, bool) {
	v, ok := s.data[key]
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

// GetInt accepts the float64 produced by JSON decoding.
func (s *Session) GetInt(key string) (int, bool) {
	v, ok := s.data[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case uint:
		return int(n), true
	}
	return 0, false
}

func (s *Session) Delete(key string) {
	if _, ok := s.data[key]; ok {
		delete(s.data, key)
		s.changed = true
	}
}

// Flash stores a message that GetFlash returns once.
func (s *Session) Flash(key, message string) {
	s.Set(flashPrefix+key, message)
}

func (s *Session) GetFlash(key string) string {
	v, ok := s.GetString(flashPrefix + key)
	if ok {
		s.Delete(flashPrefix + key)
	}
	return v
}

// Token returns the CSRF token for this session, creating it on first use.
func (s *Session) Token() string {
	if t, ok := s.GetString(tokenKey); ok && t != "" {
		return t
	}
	t := newID()
	s.Set(tokenKey, t)
	return t
}

// VerifyToken compares candidate with the stored CSRF token in constant time.
func (s *Session) VerifyToken(candidate string) bool {
	t, ok := s.GetString(tokenKey)
	if !ok || t == "" || candidate == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(t), []byte(candidate)) == 1
}

// SetTTL extends (or shortens) the lifetime of this session and its cookie.
func (s *Session) SetTTL(d time.Duration) {
	s.Set(ttlKey, d.Seconds())
}

func (s *Session) ttl() time.Duration {
	if v, ok := s.data[ttlKey].(float64); ok && v > 0 {
		return time.Duration(v * float64(time.Second))
	}
	return s.opts.TTL
}

// Regenerate moves the session to a new id and discards all previous data.
// Used on login so a pre-login id can never be promoted to an authenticated one.
func (s *Session) Regenerate() {
	s.stale = append(s.stale, s.id)
	s.id = newID()
	s.data = map[string]interface{}{}
	s.changed = true
}

// Invalidate destroys the session and expires its cookie.
func (s *Session) Invalidate() {
	s.Regenerate()
	s.cleared = true
}

// Save persists pending changes and writes the cookie.
func (s *Session) Save(ctx context.Context, w http.ResponseWriter) error {
	for _, id := range s.stale {
		if err := s.store.Destroy(ctx, id); err != nil {
			return fmt.Errorf("session: destroy: %w", err)
		}
	}
	s.stale = nil

	if !s.changed {
		return nil
	}
	s.changed = false

	if s.cleared && len(s.data) == 0 {
		http.SetCookie(w, &http.Cookie{
			Name:     s.opts.CookieName,
			Value:    "",
			Path:     s.opts.Path,
			MaxAge:   -1,
			HttpOnly: s.opts.HTTPOnly,
			Secure:   s.opts.Secure,
			SameSite: s.opts.SameSite,
		})
		return nil
	}

	ttl := s.ttl()
	if err := s.store.Save(ctx, s.id, s.data, ttl); err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    s.id,
		Path:     s.opts.Path,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: s.opts.HTTPOnly,
		Secure:   s.opts.Secure,
		SameSite: s.opts.SameSite,
	})
	return nil
}

// WithSession stores sess in ctx.
func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, sess)
}

// FromCtx returns the request session, or nil when the middleware is absent.
func FromCtx(r *http.Request) *Session {
	s, _ := r.Context().Value(ctxKey{}).(*Session)
	return s
}
