package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gamersouq/storefront-backend/api/controllers"
	webhookcontrollers "github.com/gamersouq/storefront-backend/api/controllers/webhooks"
	"github.com/gamersouq/storefront-backend/api/middleware"
	"github.com/gamersouq/storefront-backend/pkg/config"
	"github.com/gamersouq/storefront-backend/pkg/currency"
	"github.com/gamersouq/storefront-backend/pkg/logger"
	"github.com/gamersouq/storefront-backend/pkg/redis"
)

// RouterParams bundles everything the HTTP surface depends on.
type RouterParams struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           controllers.Pinger
	Redis        *redis.Client
	CartService  controllers.CartService
	Promotions   controllers.PromoResolver
	Catalog      controllers.DiscountCatalogService
	Checkout     controllers.CheckoutService
	Webhooks     webhookcontrollers.StripeWebhookService
	StripeClient interface{ SigningSecret() string }
	Registry     *prometheus.Registry
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"postgres": p.DB,
			"redis":    redisPinger(p.Redis),
		}))
	})

	if p.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/stripe", webhookcontrollers.StripeWebhook(p.Webhooks, p.StripeClient, logg))
	})

	defaultCurrency, ok := currency.Parse(cfg.Currency.Default)
	if !ok {
		defaultCurrency = currency.Canonical
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(p.Redis, cfg.RateLimit.Limit, cfg.RateLimit.Window, logg))

		r.Get("/currency/rates", controllers.CurrencyRates())

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCart(p.CartService, logg))
				r.Delete("/", controllers.CartClear(p.CartService, logg))
				r.Post("/items", controllers.CartAddItem(p.CartService, logg))
				r.Patch("/items/{lineID}", controllers.CartUpdateQuantity(p.CartService, logg))
				r.Delete("/items/{lineID}", controllers.CartRemoveItem(p.CartService, logg))
				r.Post("/promo", controllers.CartApplyPromo(p.CartService, p.Promotions, logg))
				r.Delete("/promo", controllers.CartRemovePromo(p.CartService, logg))
			})

			r.Route("/currency/preference", func(r chi.Router) {
				r.Get("/", controllers.CurrencyGetPreference(p.Redis, defaultCurrency, logg))
				r.Put("/", controllers.CurrencySetPreference(p.Redis, logg))
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/quote", controllers.CheckoutQuote(p.Checkout, logg))
				r.Post("/intent", controllers.CheckoutCreateIntent(p.Checkout, logg))
			})
		})

		r.Route("/admin/discount-codes", func(r chi.Router) {
			r.Use(middleware.AdminToken(cfg.Admin.Token, logg))
			r.Get("/", controllers.AdminListDiscountCodes(p.Catalog, logg))
			r.Post("/", controllers.AdminCreateDiscountCode(p.Catalog, logg))
			r.Get("/{codeID}", controllers.AdminGetDiscountCode(p.Catalog, logg))
			r.Patch("/{codeID}", controllers.AdminUpdateDiscountCode(p.Catalog, logg))
			r.Delete("/{codeID}", controllers.AdminDeactivateDiscountCode(p.Catalog, logg))
		})
	})

	return r
}

// redisPinger keeps a typed nil from masquerading as a live dependency in the
// readiness map.
func redisPinger(client *redis.Client) controllers.Pinger {
	if client == nil {
		return nil
	}
	return client
}
