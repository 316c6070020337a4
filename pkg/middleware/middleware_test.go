package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/eatn/config"
	"github.com/shashiranjanraj/eatn/pkg/auth"
	"github.com/shashiranjanraj/eatn/pkg/middleware"
	"github.com/shashiranjanraj/eatn/pkg/session"
	"github.com/shashiranjanraj/eatn/pkg/view"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

func newSession() *session.Session {
	return session.New(session.NewMemoryStore(), session.Options{CookieName: "sid", TTL: time.Hour, Path: "/"})
}

func withSession(req *http.Request, sess *session.Session) *http.Request {
	return req.WithContext(session.WithSession(req.Context(), sess))
}

func TestRecovery_RendersGenericPage(t *testing.T) {
	h := middleware.Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("db exploded: password=hunter2")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/finagle", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), view.GenericError)
	assert.NotContains(t, rec.Body.String(), "hunter2")
}

func TestRateLimit(t *testing.T) {
	h := middleware.RateLimit(2, time.Minute)(ok)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.7:5123"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	other := httptest.NewRequest(http.MethodPost, "/login", nil)
	other.RemoteAddr = "10.0.0.8:5123"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit_IgnoresSpoofedForwardedFor(t *testing.T) {
	config.Set("TRUSTED_PROXIES", "")
	h := middleware.RateLimit(2, time.Minute)(ok)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "198.51.100.4:40000"
		req.Header.Set("X-Forwarded-For", "203.0.113."+strconv.Itoa(i))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
}

func TestClientIP_TrustedProxies(t *testing.T) {
	t.Cleanup(func() { config.Set("TRUSTED_PROXIES", "") })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.2.3:443"
	req.Header.Set("X-Forwarded-For", "1.1.1.1, 203.0.113.9, 10.1.0.5")

	config.Set("TRUSTED_PROXIES", "")
	assert.Equal(t, "10.1.2.3", middleware.ClientIP(req))

	config.Set("TRUSTED_PROXIES", "10.0.0.0/8")
	assert.Equal(t, "203.0.113.9", middleware.ClientIP(req))

	config.Set("TRUSTED_PROXIES", "10.1.2.3")
	assert.Equal(t, "10.1.0.5", middleware.ClientIP(req))

	req.RemoteAddr = "192.0.2.50:443"
	config.Set("TRUSTED_PROXIES", "10.0.0.0/8")
	assert.Equal(t, "192.0.2.50", middleware.ClientIP(req))
}

func TestAuthenticate_RedirectsWithContinuation(t *testing.T) {
	h := middleware.Authenticate(ok)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodPost, "/finagle", nil), newSession()))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/login", loc.Path)
	assert.Equal(t, middleware.MsgLoginToOrder, loc.Query().Get("error"))
	assert.Equal(t, "/finagle", loc.Query().Get("redirect"))

	sess := newSession()
	auth.Login(sess, auth.Identity{UserID: 4, Username: "nimal", AccountType: auth.RoleStudent})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodPost, "/finagle", nil), sess))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCSRF(t *testing.T) {
	sess := newSession()
	token := sess.Token()
	h := middleware.CSRF(ok)

	post := func(form url.Values) int {
		req := httptest.NewRequest(http.MethodPost, "/admin", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, withSession(req, sess))
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, post(url.Values{"_token": {token}, "action": {"delete_item"}}))
	assert.Equal(t, http.StatusForbidden, post(url.Values{"_token": {"forged"}}))
	assert.Equal(t, http.StatusForbidden, post(url.Values{"action": {"delete_item"}}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, withSession(httptest.NewRequest(http.MethodGet, "/admin", nil), sess))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRemember_RestoresSession(t *testing.T) {
	config.Set("APP_KEY", "middleware-test-remember-key")
	t.Cleanup(func() { config.Set("APP_KEY", "") })

	want := auth.Identity{UserID: 11, Username: "amaya", AccountType: auth.RoleAdmin}
	token, err := auth.IssueRememberToken(want, time.Hour)
	require.NoError(t, err)

	resolve := func(_ context.Context, id uint) (auth.Identity, error) {
		if id != want.UserID {
			return auth.Identity{}, auth.ErrUnauthenticated
		}
		return want, nil
	}

	var got auth.Identity
	h := middleware.Remember(resolve, 24*time.Hour, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.FromSession(session.FromCtx(r))
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: auth.RememberCookie, Value: token})
	h.ServeHTTP(httptest.NewRecorder(), withSession(req, newSession()))

	assert.Equal(t, want, got)
}

func TestRemember_ClearsBadToken(t *testing.T) {
	resolve := func(context.Context, uint) (auth.Identity, error) {
		return auth.Identity{}, errors.New("should not be called")
	}
	h := middleware.Remember(resolve, time.Hour, false)(ok)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: auth.RememberCookie, Value: "not-a-jwt"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, withSession(req, newSession()))

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.RememberCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)
}
