package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// SecureHeaders sets the usual hardening headers. HSTS is only sent in
// production where the API sits behind TLS.
func SecureHeaders(production bool) func(http.Handler) http.Handler {
	headers := chi.Middlewares{
		chimw.SetHeader("X-Content-Type-Options", "nosniff"),
		chimw.SetHeader("X-Frame-Options", "DENY"),
		chimw.SetHeader("Referrer-Policy", "strict-origin-when-cross-origin"),
		chimw.SetHeader("X-XSS-Protection", "0"),
		chimw.SetHeader("Cross-Origin-Resource-Policy", "cross-origin"),
	}
	if production {
		headers = append(headers, chimw.SetHeader("Strict-Transport-Security", "max-age=31536000; includeSubDomains"))
	}
	return headers.Handler
}
