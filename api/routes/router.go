package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/campusworks/storefront-checkout/api/controllers"
	cartcontrollers "github.com/campusworks/storefront-checkout/api/controllers/cart"
	checkoutcontrollers "github.com/campusworks/storefront-checkout/api/controllers/checkout"
	"github.com/campusworks/storefront-checkout/api/middleware"
	cartsvc "github.com/campusworks/storefront-checkout/internal/cart"
	checkoutsvc "github.com/campusworks/storefront-checkout/internal/checkout"
	"github.com/campusworks/storefront-checkout/pkg/config"
	"github.com/campusworks/storefront-checkout/pkg/logger"
	"github.com/campusworks/storefront-checkout/pkg/metrics"
	"github.com/campusworks/storefront-checkout/pkg/redis"
)

// Provider is the external commerce surface the checkout endpoints consume.
// internal/providers.Client satisfies it; tests swap in stubs.
type Provider interface {
	checkoutsvc.PickupLister
	checkoutsvc.ShippingQuoter
	checkoutsvc.PromoValidator
	checkoutsvc.PaymentInitiator
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisP redis.Pinger,
	cartStore cartsvc.Store,
	checkoutMgr *checkoutsvc.Manager,
	provider Provider,
	m *metrics.CheckoutMetrics,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, redisP))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.CartFetch(cartStore, logg))
			r.Delete("/", cartcontrollers.CartClear(cartStore, logg))
			r.Post("/items", cartcontrollers.CartAddItem(cartStore, logg))
			r.Patch("/items/{key}", cartcontrollers.CartUpdateItem(cartStore, logg))
			r.Delete("/items/{key}", cartcontrollers.CartRemoveItem(cartStore, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", checkoutcontrollers.CheckoutFetch(checkoutMgr, cartStore, logg))
			r.Delete("/", checkoutcontrollers.CheckoutReset(checkoutMgr, cartStore, logg))
			r.Put("/contact", checkoutcontrollers.CheckoutSetContact(checkoutMgr, cartStore, logg))
			r.Put("/delivery-method", checkoutcontrollers.CheckoutSetDeliveryMethod(checkoutMgr, cartStore, logg))
			r.Get("/pickup-locations", checkoutcontrollers.CheckoutPickupLocations(checkoutMgr, cartStore, provider, logg))
			r.Put("/pickup-location", checkoutcontrollers.CheckoutSelectPickupLocation(checkoutMgr, cartStore, logg))
			r.Put("/shipping-address", checkoutcontrollers.CheckoutSetShippingAddress(checkoutMgr, cartStore, logg))
			r.Post("/shipping-quotes", checkoutcontrollers.CheckoutShippingQuotes(checkoutMgr, cartStore, provider, logg))
			r.Put("/shipping-rate", checkoutcontrollers.CheckoutSelectShippingRate(checkoutMgr, cartStore, logg))
			r.Post("/promo", checkoutcontrollers.CheckoutApplyPromo(checkoutMgr, cartStore, provider, logg))
			r.Delete("/promo", checkoutcontrollers.CheckoutRemovePromo(checkoutMgr, cartStore, logg))
			r.Post("/steps/next", checkoutcontrollers.CheckoutNextStep(checkoutMgr, cartStore, m, logg))
			r.Post("/steps/previous", checkoutcontrollers.CheckoutPreviousStep(checkoutMgr, cartStore, m, logg))
			r.Post("/payment", checkoutcontrollers.CheckoutPayment(checkoutMgr, cartStore, provider, m, logg))
		})
	})

	return r
}
