package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/eatn/config"
	"github.com/shashiranjanraj/eatn/pkg/auth"
	"github.com/shashiranjanraj/eatn/pkg/session"
)

func newSession() *session.Session {
	return session.New(session.NewMemoryStore(), session.Options{CookieName: "sid", TTL: time.Hour, Path: "/"})
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := auth.HashPassword("abc123", 4)
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(hash, "abc123"))
	assert.False(t, auth.CheckPassword(hash, "abc124"))
	assert.False(t, auth.CheckPassword(auth.DummyHash(), "abc123"))
}

func TestLoginStoresIdentityUnderNewID(t *testing.T) {
	sess := newSession()
	sess.Set("cart", "stale")
	before := sess.ID()

	auth.Login(sess, auth.Identity{UserID: 9, Username: "amaya", AccountType: auth.RoleAdmin})

	assert.NotEqual(t, before, sess.ID())
	_, stale := sess.Get("cart")
	assert.False(t, stale)

	id, ok := auth.FromSession(sess)
	require.True(t, ok)
	assert.Equal(t, uint(9), id.UserID)
	assert.Equal(t, "amaya", id.Username)
	assert.True(t, id.IsAdmin())
}

func TestFromSession_Anonymous(t *testing.T) {
	_, ok := auth.FromSession(newSession())
	assert.False(t, ok)
	_, ok = auth.FromSession(nil)
	assert.False(t, ok)
}

func withAppKey(t *testing.T, key string) {
	t.Helper()
	prev := config.Get("APP_KEY", "")
	config.Set("APP_KEY", key)
	t.Cleanup(func() { config.Set("APP_KEY", prev) })
}

func TestRememberToken(t *testing.T) {
	withAppKey(t, "auth-test-remember-key")
	want := auth.Identity{UserID: 3, Username: "kasun", AccountType: auth.RoleStudent}
	tok, err := auth.IssueRememberToken(want, time.Hour)
	require.NoError(t, err)

	got, err := auth.ParseRememberToken(tok)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = auth.ParseRememberToken(tok + "x")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	expired, err := auth.IssueRememberToken(want, -time.Minute)
	require.NoError(t, err)
	_, err = auth.ParseRememberToken(expired)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRememberTokenNeedsAppKey(t *testing.T) {
	withAppKey(t, "")
	id := auth.Identity{UserID: 1, Username: "amaya", AccountType: auth.RoleAdmin}

	_, err := auth.IssueRememberToken(id, time.Hour)
	assert.ErrorIs(t, err, auth.ErrNoAppKey)

	// A token signed with the placeholder key must not be accepted.
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "1",
		Issuer:    "eatn",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(config.AppKey()))
	require.NoError(t, err)

	_, err = auth.ParseRememberToken(forged)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
	assert.ErrorIs(t, err, auth.ErrNoAppKey)
}

func TestSafeRedirect(t *testing.T) {
	cases := map[string]string{
		"/finagle":             "/finagle",
		"/admin?tab=orders":    "/admin?tab=orders",
		"":                     "/",
		"https://evil.example": "/",
		"//evil.example":       "/",
		"/\\evil.example":      "/",
		"finagle":              "/",
	}
	for in, want := range cases {
		assert.Equal(t, want, auth.SafeRedirect(in, "/"), in)
	}
}

func TestLoginURL(t *testing.T) {
	assert.Equal(t, "/login", auth.LoginURL("", ""))
	assert.Equal(t,
		"/login?error=Please+login+to+place+an+order&redirect=%2Ffinagle",
		auth.LoginURL("Please login to place an order", "/finagle"))
	assert.Equal(t, "/login?error=x", auth.LoginURL("x", "https://evil.example"))
}

func TestValidRole(t *testing.T) {
	assert.True(t, auth.ValidRole("Student"))
	assert.True(t, auth.ValidRole("Admin"))
	assert.False(t, auth.ValidRole("admin"))
	assert.False(t, auth.ValidRole(""))
}
