package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lumenpress/albumforge-backend/api/controllers"
	webhookcontrollers "github.com/lumenpress/albumforge-backend/api/controllers/webhooks"
	"github.com/lumenpress/albumforge-backend/api/middleware"
	"github.com/lumenpress/albumforge-backend/internal/albums"
	"github.com/lumenpress/albumforge-backend/internal/auth"
	"github.com/lumenpress/albumforge-backend/internal/cart"
	"github.com/lumenpress/albumforge-backend/internal/catalog"
	checkoutsvc "github.com/lumenpress/albumforge-backend/internal/checkout"
	"github.com/lumenpress/albumforge-backend/internal/credits"
	"github.com/lumenpress/albumforge-backend/internal/orders"
	"github.com/lumenpress/albumforge-backend/internal/payments"
	"github.com/lumenpress/albumforge-backend/pkg/assets"
	"github.com/lumenpress/albumforge-backend/pkg/config"
	"github.com/lumenpress/albumforge-backend/pkg/logger"
	"github.com/lumenpress/albumforge-backend/pkg/metrics"
	"github.com/lumenpress/albumforge-backend/pkg/redis"
)

// Login throttling: generous enough for a small studio team, tight enough to
// blunt credential stuffing.
const (
	loginRateLimitWindow     = 15 * time.Minute
	loginRateLimitPerIP      = 20
	loginRateLimitPerAccount = 10
)

type stripeSigner interface {
	SigningSecret() string
}

// RouterParams bundles everything the HTTP surface needs. Optional pieces
// (stripe client, metrics handler) may be nil; their routes degrade
// accordingly.
type RouterParams struct {
	Config *config.Config
	Logger *logger.Logger

	DBPinger    controllers.Pinger
	RedisPinger controllers.Pinger
	Redis       *redis.Client

	AssetResolver *assets.Resolver

	AlbumsService   albums.Service
	CatalogService  catalog.Service
	CreditLedger    credits.Ledger
	CartService     cart.Service
	CheckoutService checkoutsvc.Service
	OrdersService   orders.Service
	AuthService     auth.Service
	PaymentsService payments.Service

	StripeClient stripeSigner
	WebhookGuard *payments.WebhookGuard

	Metrics        *metrics.CommerceMetrics
	MetricsHandler http.Handler
}

// NewRouter assembles the full route tree: the public album surface, the
// Stripe webhook, and the JWT-guarded studio API.
func NewRouter(params RouterParams) http.Handler {
	logg := params.Logger
	resolver := params.AssetResolver

	loginPolicy := middleware.NewAuthRateLimitPolicy("studio_login", loginRateLimitWindow, loginRateLimitPerIP, loginRateLimitPerAccount)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer(logg))
	r.Use(middleware.RequestID(logg))
	r.Use(middleware.Logging(logg))
	r.Use(middleware.CORS())

	r.Get("/health/live", controllers.Live())
	r.Get("/health/ready", controllers.Ready(params.DBPinger, params.RedisPinger, logg))
	if params.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", params.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/webhooks/stripe", webhookcontrollers.StripeWebhook(params.PaymentsService, params.StripeClient, params.WebhookGuard, params.Metrics, logg))

		r.Route("/albums/{albumId}", func(r chi.Router) {
			r.Use(middleware.Idempotency(params.Redis, logg))

			r.Get("/", controllers.PublicAlbum(params.AlbumsService, params.CreditLedger, resolver, logg))
			r.Get("/catalog", controllers.PublicCatalog(params.CatalogService, resolver, logg))

			r.Get("/cart", controllers.CartSummary(params.CartService, resolver, logg))
			r.Post("/cart", controllers.AddCartItem(params.CartService, resolver, logg))
			r.Put("/cart/{orderId}", controllers.UpdateCartItem(params.CartService, resolver, logg))
			r.Delete("/cart/{orderId}", controllers.RemoveCartItem(params.CartService, logg))
			r.Post("/quote", controllers.QuoteCartItem(params.CartService, logg))

			r.Post("/checkout", controllers.Checkout(params.CheckoutService, resolver, logg))
		})
	})

	r.Route("/api/studio/v1", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, params.Redis, logg)).
			Post("/auth/login", controllers.StudioLogin(params.AuthService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.StudioAuth(params.Config.JWT, logg))
			r.Use(middleware.Idempotency(params.Redis, logg))

			r.Route("/albums", func(r chi.Router) {
				r.Get("/", controllers.ListStudioAlbums(params.AlbumsService, resolver, logg))
				r.Post("/", controllers.CreateStudioAlbum(params.AlbumsService, resolver, logg))
				r.Route("/{albumId}", func(r chi.Router) {
					r.Get("/", controllers.StudioAlbumDetail(params.AlbumsService, resolver, logg))
					r.Put("/", controllers.UpdateStudioAlbum(params.AlbumsService, resolver, logg))
					r.Delete("/", controllers.DeleteStudioAlbum(params.AlbumsService, logg))

					r.Post("/designs", controllers.AddStudioDesign(params.AlbumsService, resolver, logg))
					r.Put("/designs/{position}", controllers.UpdateStudioDesign(params.AlbumsService, resolver, logg))
					r.Delete("/designs/{position}", controllers.DeleteStudioDesign(params.AlbumsService, logg))
				})
			})

			r.Route("/catalog", func(r chi.Router) {
				r.Get("/", controllers.PublicCatalog(params.CatalogService, resolver, logg))

				r.Post("/materials", controllers.CreateMaterial(params.CatalogService, resolver, logg))
				r.Put("/materials/{materialId}", controllers.UpdateMaterial(params.CatalogService, resolver, logg))
				r.Delete("/materials/{materialId}", controllers.DeleteMaterial(params.CatalogService, logg))

				r.Post("/sizes", controllers.CreateSize(params.CatalogService, resolver, logg))
				r.Put("/sizes/{sizeId}", controllers.UpdateSize(params.CatalogService, resolver, logg))
				r.Delete("/sizes/{sizeId}", controllers.DeleteSize(params.CatalogService, logg))

				r.Post("/engraving-options", controllers.CreateEngravingOption(params.CatalogService, logg))
				r.Put("/engraving-options/{optionId}", controllers.UpdateEngravingOption(params.CatalogService, logg))
				r.Delete("/engraving-options/{optionId}", controllers.DeleteEngravingOption(params.CatalogService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.ListStudioOrders(params.OrdersService, resolver, logg))
				r.Get("/{orderId}", controllers.StudioOrderDetail(params.OrdersService, resolver, logg))
				r.Post("/{orderId}/ship", controllers.ShipStudioOrder(params.OrdersService, resolver, logg))
				r.Post("/{orderId}/refund", controllers.RefundStudioOrder(params.PaymentsService, resolver, logg))
			})
		})
	})

	return r
}
