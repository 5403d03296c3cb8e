package clients

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mutevazi/depo-api/internal/platform/httpx"
)

// APIKeyHeader carries the opaque credential on every request.
const APIKeyHeader = "X-Api-Key"

// Middleware wires credential resolution and scope checks for HTTP handlers.
type Middleware struct {
	Service *Service
	Logger  *slog.Logger
}

// Authenticate resolves the API key header and stores the client in context.
// A missing header yields 401; an unknown or inactive key yields 403.
func (m Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawKey := r.Header.Get(APIKeyHeader)
		if rawKey == "" {
			httpx.Error(w, r, http.StatusUnauthorized, "Unauthorized", "missing "+APIKeyHeader+" header")
			return
		}
		client, err := m.Service.Resolve(r.Context(), rawKey)
		if err != nil {
			if errors.Is(err, ErrUnknownKey) {
				if m.Logger != nil {
					m.Logger.Warn("rejected api key", slog.String("remote", r.RemoteAddr))
				}
				httpx.Error(w, r, http.StatusForbidden, "Forbidden", "invalid or inactive api key")
				return
			}
			if m.Logger != nil {
				m.Logger.Error("resolve api key", slog.Any("error", err))
			}
			httpx.RespondError(w, r, httpx.ErrUnavailable)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithClient(r.Context(), client)))
	})
}

// RequireScope ensures the resolved client holds the named capability.
func (m Middleware) RequireScope(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := FromContext(r.Context())
			if client == nil {
				httpx.RespondError(w, r, httpx.ErrUnauthorized)
				return
			}
			if !client.HasScope(scope) {
				httpx.Error(w, r, http.StatusForbidden, "Forbidden", "scope "+scope+" required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
