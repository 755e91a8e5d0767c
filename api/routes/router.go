package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/masego-dev/kasieats-backend/api/controllers"
	webhookcontrollers "github.com/masego-dev/kasieats-backend/api/controllers/webhooks"
	"github.com/masego-dev/kasieats-backend/api/middleware"
	"github.com/masego-dev/kasieats-backend/internal/cart"
	"github.com/masego-dev/kasieats-backend/internal/menu"
	"github.com/masego-dev/kasieats-backend/internal/orders"
	paystackwebhook "github.com/masego-dev/kasieats-backend/internal/webhooks/paystack"
	pkgauth "github.com/masego-dev/kasieats-backend/pkg/auth"
	"github.com/masego-dev/kasieats-backend/pkg/config"
	"github.com/masego-dev/kasieats-backend/pkg/logger"
	"github.com/masego-dev/kasieats-backend/pkg/webhooksig"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger

	DBPinger    controllers.Pinger
	RedisPinger controllers.Pinger

	MenuService   menu.Service
	CartService   *cart.Service
	OrdersService orders.Service

	WebhookService  webhookcontrollers.PaystackWebhookService
	WebhookVerifier webhooksig.Verifier
	WebhookGuard    *paystackwebhook.IdempotencyGuard

	// MetricsHandler, when set, is mounted at /metrics.
	MetricsHandler http.Handler
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"postgres": deps.DBPinger,
			"redis":    deps.RedisPinger,
		}))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/menu", func(r chi.Router) {
			r.Get("/", controllers.MenuList(deps.MenuService, logg))
			r.Get("/{mealId}", controllers.MenuDetail(deps.MenuService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(deps.CartService, logg))
			r.Post("/items", controllers.CartAddItem(deps.CartService, logg))
			r.Patch("/items/{itemId}", controllers.CartUpdateItem(deps.CartService, logg))
			r.Delete("/items/{itemId}", controllers.CartRemoveItem(deps.CartService, logg))
			r.Delete("/", controllers.CartClear(deps.CartService, logg))
		})

		r.Post("/checkout", controllers.Checkout(deps.OrdersService, logg))
		r.Post("/payments/verify", controllers.VerifyPayment(deps.OrdersService, logg))
		r.Post("/orders/lookup", controllers.OrderLookup(deps.OrdersService, logg))

		r.Post("/webhooks/paystack", webhookcontrollers.PaystackWebhook(deps.WebhookService, deps.WebhookVerifier, deps.WebhookGuard, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.StaffAuth(cfg.StaffAuth, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrdersList(deps.OrdersService, logg))
			r.Post("/{orderId}/status", controllers.AdminOrderAdvance(deps.OrdersService, logg))
			r.Post("/{orderId}/cancel", controllers.AdminOrderCancel(deps.OrdersService, logg))
			r.With(middleware.RequireStaffRole(pkgauth.StaffRoleAdmin, logg)).
				Post("/{orderId}/refund", controllers.AdminOrderRefund(deps.OrdersService, logg))
		})

		r.Route("/menu", func(r chi.Router) {
			r.Post("/", controllers.AdminMenuCreate(deps.MenuService, logg))
			r.Patch("/{mealId}/availability", controllers.AdminMenuAvailability(deps.MenuService, logg))
		})
	})

	return r
}
