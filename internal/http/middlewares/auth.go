package middlewares

import (
	"context"
	"net/http"

	"github.com/dropDatabas3/holamaria/internal/http/helpers"
)

// SessionResolver resuelve la cuenta dueña de la sesión del request.
type SessionResolver interface {
	AccountID(r *http.Request) (string, bool)
}

type accountKey struct{}

// WithSessionRequired corta con 401 si el request no trae una sesión
// válida; si trae, inyecta el account id en el contexto.
func WithSessionRequired(sessions SessionResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := sessions.AccountID(r)
			if !ok {
				helpers.WriteError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			ctx := context.WithValue(r.Context(), accountKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAccountID extrae el account id inyectado por WithSessionRequired.
func GetAccountID(ctx context.Context) string {
	if v, ok := ctx.Value(accountKey{}).(string); ok {
		return v
	}
	return ""
}
