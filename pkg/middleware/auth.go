package middleware

import (
	"net/http"

	"github.com/shashiranjanraj/eatn/pkg/auth"
	"github.com/shashiranjanraj/eatn/pkg/session"
)

// MsgLoginToOrder is shown on the login page when an anonymous visitor
// tries to order.
const MsgLoginToOrder = "Please login to place an order"

// Authenticate sends anonymous requests to the login page, carrying the
// original path so the visitor lands back on it after logging in.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.FromSession(session.FromCtx(r)); !ok {
			http.Redirect(w, r, auth.LoginURL(MsgLoginToOrder, r.URL.RequestURI()), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
