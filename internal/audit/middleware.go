package audit

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/mutevazi/depo-api/internal/clients"
)

// Middleware records the outcome of every request. Health checks are excluded
// by convention.
func Middleware(recorder Sink) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if recorder == nil || strings.HasPrefix(r.URL.Path, "/healthz") {
				next.ServeHTTP(w, r)
				return
			}
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			entry := Entry{
				Timestamp:  start.UTC(),
				Method:     r.Method,
				Path:       r.URL.Path,
				StatusCode: ww.Status(),
				DurationMs: time.Since(start).Milliseconds(),
				IPAddress:  r.RemoteAddr,
			}
			if client := clients.FromContext(r.Context()); client != nil {
				entry.ClientName = client.Name
			}
			// The request context may be done once the response is written.
			recorder.Record(context.WithoutCancel(r.Context()), entry)
		})
	}
}
