package middleware

import (
	"net/http"

	"storefront/api/responses"
	pkgerrors "storefront/pkg/errors"
	"storefront/pkg/logger"
)

// RequireAdmin gates a route group on allow-list membership resolved
// during authentication.
func RequireAdmin(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsAdminFromContext(r.Context()) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "administrator access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
