package auth

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Middleware authenticates Bearer tokens and stores the user id in the
// request context.
type Middleware struct {
	service *Service
	logger  *zap.Logger
}

func NewMiddleware(service *Service, logger *zap.Logger) *Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Middleware{
		service: service,
		logger:  logger,
	}
}

// RequireAuth rejects requests without a valid token, except on public
// paths (passed through untouched) and optional-auth paths (see OptionalAuth).
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	optional := m.OptionalAuth(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodOptions || isPublicPath(r.URL.Path):
			next.ServeHTTP(w, r)
			return
		case isOptionalAuthPath(r.URL.Path):
			optional.ServeHTTP(w, r)
			return
		}

		userID, err := m.authenticateHeader(r.Header.Get("Authorization"))
		if err != nil {
			writeErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Access token required")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// OptionalAuth attaches the user when a valid token is presented. Missing or
// invalid tokens continue anonymously.
func (m *Middleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if strings.TrimSpace(authHeader) == "" {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := m.authenticateHeader(authHeader)
		if err != nil {
			m.logger.Debug("ignoring invalid optional token", zap.String("path", r.URL.Path))
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

func (m *Middleware) authenticateHeader(authHeader string) (uuid.UUID, error) {
	if authHeader == "" {
		return uuid.Nil, ErrInvalidToken
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return uuid.Nil, ErrInvalidToken
	}

	return m.service.VerifyJWT(strings.TrimSpace(parts[1]))
}

func isPublicPath(path string) bool {
	switch path {
	case "/healthz", "/api/auth/register", "/api/auth/login":
		return true
	}
	// Cron routes carry their own shared-secret check.
	return strings.HasPrefix(path, "/api/cron/")
}

func isOptionalAuthPath(path string) bool {
	switch path {
	case "/api/ai/recommendations", "/api/ai/exercises", "/api/ai/foods":
		return true
	}
	return false
}
