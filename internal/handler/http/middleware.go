package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/campusmess/messreview/internal/auth"
	"github.com/campusmess/messreview/internal/domain"
	"github.com/campusmess/messreview/pkg/httputil"
	"github.com/campusmess/messreview/pkg/logger"
)

type contextKeyType string

const actorKey contextKeyType = "actor"

// ActorFromContext extracts the authenticated actor from the request context.
// The zero Actor means the request was not authenticated.
func ActorFromContext(ctx context.Context) domain.Actor {
	if actor, ok := ctx.Value(actorKey).(domain.Actor); ok {
		return actor
	}
	return domain.Actor{}
}

// Authenticate validates the bearer token on every request that carries one
// and stores the resulting actor in the request context. When required is
// true, requests without a valid token are rejected with 401; otherwise they
// pass through unauthenticated, which is how the public catalog and feed
// routes run.
func Authenticate(manager *auth.Manager, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				if required {
					writeAuthError(w, r, "missing authorization header")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				writeAuthError(w, r, "invalid authorization header format")
				return
			}

			claims, err := manager.Verify(parts[1])
			if err != nil {
				writeAuthError(w, r, "invalid or expired token")
				return
			}

			role := claims.Role
			if !domain.IsValidRole(role) {
				role = domain.RoleUser
			}
			actor := domain.Actor{
				ID:   claims.UserID,
				Name: claims.Name,
				Role: role,
			}

			ctx := context.WithValue(r.Context(), actorKey, actor)
			ctx = logger.WithUserID(ctx, actor.ID)
			if l := logger.FromContext(ctx); l != slog.Default() {
				ctx = logger.NewContext(ctx, l.With(slog.String("user_id", actor.ID)))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeAuthError(w http.ResponseWriter, r *http.Request, message string) {
	requestID := logger.CorrelationIDFromContext(r.Context())
	httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
		Error: &httputil.ErrorResponse{Code: "UNAUTHORIZED", Message: message, RequestID: requestID},
	})
}

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if !strings.HasPrefix(ct, "application/json") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnsupportedMediaType)
				_, _ = w.Write([]byte(`{"error":{"code":"UNSUPPORTED_MEDIA_TYPE","message":"Content-Type must be application/json"}}`))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
