package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/yourorg/castingdesk/internal/domain"
	"github.com/yourorg/castingdesk/internal/security/audit"
	"github.com/yourorg/castingdesk/internal/security/ratelimit"
	"github.com/yourorg/castingdesk/internal/security/session"
	"github.com/yourorg/castingdesk/internal/store"
)

type ActorContextKey struct{}
type SessionContextKey struct{}

// RequestIDContextKey is defined in the audit package to avoid an import
// cycle; the alias keeps this package's API unchanged.
type RequestIDContextKey = audit.RequestIDContextKey

// ExtractBearer pulls the token out of an "Authorization: Bearer <token>"
// header. Empty or malformed headers yield an empty token.
func ExtractBearer(header string) string {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// SessionAuth resolves the bearer token to an acting user and attaches it to
// the request context. Every authenticated request slides the session expiry
// forward. Requests without a live session proceed anonymously; the tier
// guards in the service layer reject them where authentication matters.
func SessionAuth(sessions *session.Manager, users *store.Collection[int64, *domain.User], log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractBearer(r.Header.Get("Authorization"))
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			sess, err := sessions.Refresh(r.Context(), token)
			if err != nil {
				log.Error("session refresh failed", slog.String("error", err.Error()))
				http.Error(w, `{"error":"session backend unavailable"}`, http.StatusInternalServerError)
				return
			}
			if sess == nil {
				next.ServeHTTP(w, r)
				return
			}

			actor, ok := users.Find(sess.UserID)
			if !ok {
				// The user was deleted out from under a live session.
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ActorContextKey{}, actor)
			ctx = context.WithValue(ctx, SessionContextKey{}, sess)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestID tags every request with a correlation id, echoed in the
// X-Request-ID response header
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-ID")
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", id)
			ctx := context.WithValue(r.Context(), RequestIDContextKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RateLimitMiddleware throttles per acting user, falling back to the remote
// address for anonymous requests. Health and metrics endpoints are exempt.
func RateLimitMiddleware(limiter *ratelimit.Limiter, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/healthz" || r.URL.Path == "/readyz" || r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			key := r.RemoteAddr
			if actor := GetActorFromContext(r.Context()); actor != nil {
				key = "user:" + strconv.FormatInt(actor.ID, 10)
			}

			if !limiter.Allow(key) {
				log.Warn("rate limit exceeded", slog.String("key", key), slog.String("path", r.URL.Path))
				http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// CORSMiddleware echoes the request origin when it is on the allow list and
// answers preflight requests
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if originAllowed(allowedOrigins, origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
			} else if len(allowedOrigins) > 0 {
				w.Header().Set("Access-Control-Allow-Origin", allowedOrigins[0])
			}
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(allowed []string, origin string) bool {
	if origin == "" {
		return false
	}
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}

// AuditMiddleware records sign-in and sign-out attempts before they are
// handled
func AuditMiddleware(auditLog *audit.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actorID := int64(0)
			if actor := GetActorFromContext(r.Context()); actor != nil {
				actorID = actor.ID
			}

			if r.Method == http.MethodPost && r.URL.Path == "/api/auth/signin" {
				auditLog.LogAction(r.Context(), actorID, "signin", "session", "", "initiated", "")
			}
			if r.Method == http.MethodPost && r.URL.Path == "/api/auth/signout" {
				auditLog.LogAction(r.Context(), actorID, "signout", "session", "", "initiated", "")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetActorFromContext returns the acting user, or nil for anonymous requests
func GetActorFromContext(ctx context.Context) *domain.User {
	if a := ctx.Value(ActorContextKey{}); a != nil {
		return a.(*domain.User)
	}
	return nil
}

// GetSessionFromContext returns the live session backing the acting user
func GetSessionFromContext(ctx context.Context) *domain.Session {
	if s := ctx.Value(SessionContextKey{}); s != nil {
		return s.(*domain.Session)
	}
	return nil
}

// GetRequestIDFromContext returns the request correlation id, if tagged
func GetRequestIDFromContext(ctx context.Context) string {
	return audit.GetRequestIDFromContext(ctx)
}
