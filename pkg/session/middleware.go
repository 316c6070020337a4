package session

import (
	"net/http"

	"github.com/shashiranjanraj/eatn/pkg/logger"
)

// Middleware loads (or starts) the session for every request and persists
// it just before the response headers go out.
func Middleware(store Store, opts Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sess *Session
			if cookie, err := r.Cookie(opts.CookieName); err == nil && cookie.Value != "" {
				sess, err = Load(r.Context(), store, opts, cookie.Value)
				if err != nil {
					logger.WithCtx(r.Context()).Warn("session load failed", "error", err)
				}
			} else {
				sess = New(store, opts)
			}

			r = r.WithContext(WithSession(r.Context(), sess))
			sw := &saveWriter{ResponseWriter: w, sess: sess, r: r}
			next.ServeHTTP(sw, r)
			sw.save()
		})
	}
}

// saveWriter flushes the session on the first header write, since cookies
// cannot be added afterwards.
type saveWriter struct {
	http.ResponseWriter
	sess  *Session
	r     *http.Request
	saved bool
}

func (sw *saveWriter) save() {
	if sw.saved {
		return
	}
	sw.saved = true
	if err := sw.sess.Save(sw.r.Context(), sw.ResponseWriter); err != nil {
		logger.WithCtx(sw.r.Context()).Error("session save failed", "error", err)
	}
}

func (sw *saveWriter) WriteHeader(code int) {
	sw.save()
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *saveWriter) Write(b []byte) (int, error) {
	sw.save()
	return sw.ResponseWriter.Write(b)
}

func (sw *saveWriter) Unwrap() http.ResponseWriter { return sw.ResponseWriter }
