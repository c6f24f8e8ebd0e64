package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired rejects requests without a verified access token. It runs after
// jwtauth.Verifier.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, _, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			response.HandleError(w, r, auth.ErrInvalidToken)
			return
		}

		if _, err := jwt.PrincipalFromContext(r.Context()); err != nil {
			response.HandleError(w, r, err)
			return
		}

		next.ServeHTTP(w, r)
	})
}
