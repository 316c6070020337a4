// Package rbac gates routes on the logged-in identity and its account type.
package rbac

import (
	"net/http"

	"github.com/shashiranjanraj/eatn/pkg/auth"
	"github.com/shashiranjanraj/eatn/pkg/session"
)

// MsgAccessDenied is shown on the login page when a non-admin reaches an
// admin route.
const MsgAccessDenied = "Access denied. Please log in as an admin."

// RequireAuthenticated returns the identity held by sess.
func RequireAuthenticated(sess *session.Session) (auth.Identity, error) {
	id, ok := auth.FromSession(sess)
	if !ok {
		return auth.Identity{}, auth.ErrUnauthenticated
	}
	return id, nil
}

// RequireRole reports auth.ErrForbidden unless id holds one of roles.
func RequireRole(id auth.Identity, roles ...string) error {
	if id.UserID == 0 {
		return auth.ErrForbidden
	}
	for _, r := range roles {
		if id.AccountType == r {
			return nil
		}
	}
	return auth.ErrForbidden
}

// HasRole returns middleware that allows access only to users with one of
// the given roles. Everyone else is sent to the login page; the site never
// answers 403 here. Anonymous visitors carry the requested path along so
// login can return them to it.
func HasRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := RequireAuthenticated(session.FromCtx(r))
			if err != nil {
				http.Redirect(w, r, auth.LoginURL(MsgAccessDenied, r.URL.RequestURI()), http.StatusSeeOther)
				return
			}
			if err := RequireRole(id, roles...); err != nil {
				http.Redirect(w, r, auth.LoginURL(MsgAccessDenied, ""), http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Guest sends logged-in users away from the login and signup pages.
func Guest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.FromSession(session.FromCtx(r)); ok {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
