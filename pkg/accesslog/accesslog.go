// Package accesslog provides a middleware that records every HTTP request.
package accesslog

import (
	"net/http"
	"time"

	"github.com/Lekhanh23/flowershop-frontend-sub000/pkg/logger"
	"github.com/Lekhanh23/flowershop-frontend-sub000/pkg/requestid"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler returns a middleware that records an access log message for
// every HTTP request being processed. The request id is taken from the
// X-Request-ID header or generated, stored in the request context and
// echoed in the response.
func Handler(logger logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		f := func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			id := r.Header.Get(requestid.Header)
			if id == "" {
				id = requestid.New()
			}
			ctx := requestid.NewContext(r.Context(), id)
			w.Header().Set(requestid.Header, id)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			logger.With(ctx,
				"duration", time.Since(start).Milliseconds(),
				"status", status,
				"bytes", ww.BytesWritten(),
			).Infof("%s %s %s %d", r.Method, r.URL.Path, r.Proto, status)
		}
		return http.HandlerFunc(f)
	}
}
