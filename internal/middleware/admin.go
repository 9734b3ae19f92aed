package middleware

import (
	"net/http"

	"planets-mapgen/internal/shared/errors"
	"planets-mapgen/internal/shared/response"
)

func (a *Authenticator) AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := a.logger.With(
			"middleware", "admin",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", GetRequestID(r),
		)

		claims := GetUserFromContext(r)
		if claims == nil {
			response.Error(w, r, logger, errors.Unauthorized("authentication required"))
			return
		}

		if !claims.IsAdmin() {
			logger.Warn("Non-admin token used on admin endpoint",
				"subject", claims.Subject,
				"role", claims.Role)
			response.Error(w, r, logger, errors.Forbidden("admin access required"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireAdmin authenticates the request and then checks the admin role.
func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler {
	return a.JWTMiddleware(a.AdminMiddleware(next))
}
