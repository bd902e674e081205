package auth

import (
	"context"
	"net"
	"net/http"
	"strings"

	"kiarachat/pkg/models"
)

type ctxIdentityKey struct{}

// ResolveClientIdentity derives the opaque identity that scopes a caller's
// conversation history. Precedence: first X-Forwarded-For hop, then
// X-Real-IP, then the connection's remote address, then the sentinel.
func ResolveClientIdentity(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.SplitN(xff, ",", 2)[0]); first != "" {
			return first
		}
	}
	if rip := strings.TrimSpace(r.Header.Get("X-Real-IP")); rip != "" {
		return rip
	}
	if ip := clientIP(r); ip != "" {
		return ip
	}
	return models.UnknownClient
}

// WithClientIdentity resolves the caller identity once and carries it in
// the request context for handlers.
func WithClientIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ctxIdentityKey{}, ResolveClientIdentity(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IdentityFromContext returns the resolved client identity, or the sentinel
// when the middleware did not run.
func IdentityFromContext(ctx context.Context) string {
	if v := ctx.Value(ctxIdentityKey{}); v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return models.UnknownClient
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
