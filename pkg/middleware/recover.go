package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/shashiranjanraj/eatn/pkg/logger"
	"github.com/shashiranjanraj/eatn/pkg/view"
)

// Recovery catches any panic in downstream handlers, logs the stack trace,
// and renders the generic error page. The client never sees the stack.
//
//	r.Use(metrics.Middleware())
//	r.Use(middleware.Recovery)
//	r.Use(reqid.Middleware())
//	r.Use(middleware.Logger)
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				logger.WithCtx(r.Context()).Error("panic recovered",
					"error", fmt.Sprintf("%v", err),
					"stack", string(debug.Stack()),
					"method", r.Method,
					"path", r.URL.Path,
				)
				fail(w, http.StatusInternalServerError, view.GenericError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// fail renders the error page outside a page handler.
func fail(w http.ResponseWriter, code int, message string) {
	_ = view.Render(w, code, "error", view.Page{
		Title: http.StatusText(code),
		Data:  view.ErrorData{Message: message},
	})
}
