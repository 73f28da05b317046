package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/campusworks/storefront-checkout/pkg/config"
)

// CORS returns middleware applying the storefront's allowed origin policy.
// Origins come from config so each school deployment can list its own domains.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Checkout-Session", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Checkout-Session"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
