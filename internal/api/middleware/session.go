package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/example/instrument-shop/internal/auth"
	"github.com/example/instrument-shop/internal/session"
	"go.uber.org/zap"
)

const (
	SessionCookieName  = "session"
	SessionTokenHeader = "X-Session-Token"
)

type contextKey string

const sessionContextKey contextKey = "session"

// respondError writes a JSON error response
func respondError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// ExtractToken extracts the session token from cookie or Authorization header
func ExtractToken(r *http.Request) string {
	// Try cookie first (for browser)
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}
	// Fall back to Authorization header (for API clients)
	if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// Session resolves the visitor's cart session. A missing, invalid or
// expired token starts a new session; the new token is returned both as
// a cookie and in the X-Session-Token header.
func Session(tokens *auth.TokenService, registry *session.Registry, secure bool, logger *zap.Logger) func(http.Handler) http.Handler {
	logger = logger.Named("session")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := ExtractToken(r); token != "" {
				id, err := tokens.Parse(token)
				switch {
				case err != nil:
					logger.Debug("session token rejected", zap.Error(err))
				case !registry.Exists(id):
					logger.Debug("session gone, starting a new one", zap.String("session_id", id))
				default:
					next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), id)))
					return
				}
			}

			id := registry.Create()
			token, expiresAt, err := tokens.Issue(id)
			if err != nil {
				registry.End(id)
				logger.Error("failed to issue session token", zap.Error(err))
				respondError(w, "failed to start session", http.StatusInternalServerError)
				return
			}

			setSessionCookie(w, token, expiresAt, secure)
			w.Header().Set(SessionTokenHeader, token)
			next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), id)))
		})
	}
}

func setSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionContextKey, id)
}

// SessionID returns the session attached by Session, or "".
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionContextKey).(string)
	return id
}
