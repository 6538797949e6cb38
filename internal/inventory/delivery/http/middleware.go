package http

import (
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/pawcare/stock-ledger/pkg/auth"
	"github.com/pawcare/stock-ledger/pkg/logger"
)

// LoggingMiddleware logs incoming HTTP requests
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(ww, r)

		logger.Info(r.Context()).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.status).
			Dur("duration", time.Since(start)).
			Str("remote_addr", r.RemoteAddr).
			Msg("HTTP request")
	})
}

// TracingMiddleware wraps the handler with OpenTelemetry HTTP instrumentation
func TracingMiddleware(serviceName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, serviceName)
	}
}

// actorFrom resolves the acting user for a request. A valid bearer token
// wins; otherwise the X-Actor header is honored, then a fixed fallback.
func actorFrom(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		token := strings.TrimPrefix(header, "Bearer ")
		if claims, err := auth.ValidateToken(token); err == nil && claims.Username != "" {
			return claims.Username
		}
	}
	if actor := r.Header.Get("X-Actor"); actor != "" {
		return actor
	}
	return "anonymous"
}

// sessionFrom resolves the undo/redo session for a request. Each session
// carries its own command history; unidentified clients share one.
func sessionFrom(r *http.Request) string {
	if session := r.Header.Get("X-Session-ID"); session != "" {
		return session
	}
	return "default"
}
