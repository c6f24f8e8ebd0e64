package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/jwt"
)

// RequireRole admits principals holding one of roles.
func RequireRole(roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := jwt.PrincipalFromContext(r.Context())
			if err != nil {
				response.HandleError(w, r, err)
				return
			}
			if err := user.RequireRole(principal, roles...); err != nil {
				response.HandleError(w, r, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
