package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/pkg/i18n"
)

// Locale stores the best match for Accept-Language in the request context.
func Locale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale := i18n.Match(r.Header.Get("Accept-Language"))
		w.Header().Set("Content-Language", locale)
		next.ServeHTTP(w, r.WithContext(i18n.WithLocale(r.Context(), locale)))
	})
}
