package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rezkam/taskdesk/internal/domain"
	"github.com/rezkam/taskdesk/internal/infrastructure/http/response"
)

// Authenticator resolves a raw API key to the member it acts for.
type Authenticator interface {
	Authenticate(ctx context.Context, rawKey string) (domain.Member, error)
}

type actorKey struct{}

// WithActor returns a context carrying the actor.
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFrom returns the actor resolved for the request, or Anonymous.
func ActorFrom(ctx context.Context) domain.Actor {
	if a, ok := ctx.Value(actorKey{}).(domain.Actor); ok && a != nil {
		return a
	}
	return domain.Anonymous{}
}

// Auth resolves the calling actor from the Authorization header.
type Auth struct {
	authenticator Authenticator
}

// NewAuth creates a new auth middleware.
func NewAuth(authenticator Authenticator) *Auth {
	return &Auth{authenticator: authenticator}
}

// Resolve attaches the caller to the request context.
// Requests without an Authorization header continue as Anonymous; whether that is
// enough is decided by the service layer. A header that is present but invalid is
// rejected with 401 so a broken client never silently loses its identity.
func (a *Auth) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), domain.Anonymous{})))
			return
		}

		apiKey, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			slog.WarnContext(r.Context(), "authentication failed: invalid Authorization header format",
				"path", r.URL.Path,
				"method", r.Method)
			response.Unauthorized(w, "invalid Authorization header format, expected: Bearer <token>")
			return
		}

		member, err := a.authenticator.Authenticate(r.Context(), apiKey)
		if err != nil {
			slog.WarnContext(r.Context(), "authentication failed: invalid or expired API key",
				"path", r.URL.Path,
				"method", r.Method)
			response.Unauthorized(w, "invalid or expired API key")
			return
		}

		slog.DebugContext(r.Context(), "authentication successful",
			"path", r.URL.Path,
			"worker_id", member.WorkerID)

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), member)))
	})
}
