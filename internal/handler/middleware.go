package handler

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/Meet3141/CampusConnect/internal/domain"
	"github.com/Meet3141/CampusConnect/internal/service"
	"github.com/go-chi/chi/v5/middleware"
)

type contextKey string

const identityContextKey contextKey = "identity"

// TokenVerifier turns a bearer token into an identity.
type TokenVerifier interface {
	Authenticate(token string) (*domain.Identity, error)
}

// IdentityFromContext extracts the authenticated identity from the request context.
// Returns nil if no identity is attached.
func IdentityFromContext(ctx context.Context) *domain.Identity {
	id, _ := ctx.Value(identityContextKey).(*domain.Identity)
	return id
}

// WithIdentity attaches id to ctx.
func WithIdentity(ctx context.Context, id *domain.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

// RequireAuth reads the bearer token from the Authorization header, verifies it,
// and injects the decoded identity into the request context. Missing, malformed
// and expired tokens stop the request with 401.
func RequireAuth(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeServiceError(w, r, "authenticate", domain.ErrMissingToken)
				return
			}
			id, err := tokens.Authenticate(token)
			if err != nil {
				writeServiceError(w, r, "authenticate", err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireRoles lets the request through only when the attached identity holds
// at least one of roles. It must run after RequireAuth.
func RequireRoles(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := domain.Allow(IdentityFromContext(r.Context()), roles...); err != nil {
				writeServiceError(w, r, "authorize", err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// RateLimit answers 429 once the client address has exhausted its bucket.
func RateLimit(limiter *service.RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientIP(r)) {
				w.Header().Set("Retry-After", "60")
				writeError(w, http.StatusTooManyRequests, "Too many requests, please try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP is the host part of r.RemoteAddr, which Wrap rewrites only behind a
// trusted proxy.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// SecurityHeaders sets conservative response headers for a JSON API.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// RequestLogger logs one line per request with the chi request id.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.InfoContext(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// Wrap applies the process-wide middleware stack around h. Forwarding headers
// (X-Forwarded-For, X-Real-IP, True-Client-IP) replace the client address only
// when trustProxy is set.
func Wrap(h http.Handler, trustProxy bool) http.Handler {
	mws := []func(http.Handler) http.Handler{middleware.RequestID}
	if trustProxy {
		mws = append(mws, middleware.RealIP)
	}
	mws = append(mws,
		RequestLogger,
		middleware.Recoverer,
		SecurityHeaders,
	)
	return chain(h, mws...)
}

// chain wraps h so that mws run in the order given.
func chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
