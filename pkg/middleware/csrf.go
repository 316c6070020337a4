package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/eatn/pkg/bind"
	"github.com/shashiranjanraj/eatn/pkg/logger"
	"github.com/shashiranjanraj/eatn/pkg/session"
)

// Messages rendered by CSRF.
const (
	MsgPageExpired  = "Your session has expired. Please reload the page and try again."
	MsgBodyTooLarge = "The submitted form is too large."
)

// TokenField is the hidden form field carrying the CSRF token.
const TokenField = "_token"

// CSRF rejects state-changing requests whose _token field (or X-CSRF-Token
// header) does not match the session token.
func CSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		candidate := r.Header.Get("X-CSRF-Token")
		if candidate == "" {
			r.Body = http.MaxBytesReader(w, r.Body, bind.MaxBodyBytes())
			var err error
			if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
				err = r.ParseMultipartForm(bind.MaxBodyBytes())
			} else {
				err = r.ParseForm()
			}
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				fail(w, http.StatusRequestEntityTooLarge, MsgBodyTooLarge)
				return
			}
			candidate = r.PostFormValue(TokenField)
		}

		sess := session.FromCtx(r)
		if sess == nil || !sess.VerifyToken(candidate) {
			logger.WithCtx(r.Context()).Warn("csrf token rejected", "method", r.Method, "path", r.URL.Path)
			fail(w, http.StatusForbidden, MsgPageExpired)
			return
		}
		next.ServeHTTP(w, r)
	})
}
