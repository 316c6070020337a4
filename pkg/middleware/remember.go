package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/shashiranjanraj/eatn/pkg/auth"
	"github.com/shashiranjanraj/eatn/pkg/logger"
	"github.com/shashiranjanraj/eatn/pkg/session"
)

// Resolver reloads the identity of a remembered user.
type Resolver func(ctx context.Context, userID uint) (auth.Identity, error)

// Remember rebuilds an empty session from a valid remember-me cookie.
// The identity is reloaded through resolve so role changes and deleted
// accounts take effect. Invalid tokens are cleared.
func Remember(resolve Resolver, ttl time.Duration, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := session.FromCtx(r)
			if sess == nil {
				next.ServeHTTP(w, r)
				return
			}
			if _, ok := auth.FromSession(sess); ok {
				next.ServeHTTP(w, r)
				return
			}
			cookie, err := r.Cookie(auth.RememberCookie)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			claimed, err := auth.ParseRememberToken(cookie.Value)
			if err == nil {
				var id auth.Identity
				id, err = resolve(r.Context(), claimed.UserID)
				if err == nil {
					auth.Login(sess, id)
					sess.SetTTL(ttl)
					logger.WithCtx(r.Context()).Info("remembered login restored", "user_id", id.UserID)
				}
			}
			switch {
			case err == nil:
			case errors.Is(err, auth.ErrUnauthenticated), errors.Is(err, auth.ErrInvalidToken):
				ForgetRemembered(w, secure)
			default:
				logger.WithCtx(r.Context()).Warn("remembered login not restored", "error", err)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SetRemembered writes the remember-me cookie.
func SetRemembered(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.RememberCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ForgetRemembered expires the remember-me cookie.
func ForgetRemembered(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.RememberCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
