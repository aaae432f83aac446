package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lumenpress/albumforge-backend/api/routes"
	"github.com/lumenpress/albumforge-backend/internal/albums"
	"github.com/lumenpress/albumforge-backend/internal/auth"
	"github.com/lumenpress/albumforge-backend/internal/cart"
	"github.com/lumenpress/albumforge-backend/internal/catalog"
	"github.com/lumenpress/albumforge-backend/internal/checkout"
	"github.com/lumenpress/albumforge-backend/internal/credits"
	"github.com/lumenpress/albumforge-backend/internal/orders"
	"github.com/lumenpress/albumforge-backend/internal/payments"
	"github.com/lumenpress/albumforge-backend/pkg/assets"
	"github.com/lumenpress/albumforge-backend/pkg/config"
	"github.com/lumenpress/albumforge-backend/pkg/db"
	"github.com/lumenpress/albumforge-backend/pkg/logger"
	"github.com/lumenpress/albumforge-backend/pkg/metrics"
	"github.com/lumenpress/albumforge-backend/pkg/migrate"
	"github.com/lumenpress/albumforge-backend/pkg/redis"
	"github.com/lumenpress/albumforge-backend/pkg/stripe"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	resolver, err := assets.NewResolver(cfg.Assets)
	if err != nil {
		logg.Error(context.Background(), "failed to build asset resolver", err)
		os.Exit(1)
	}

	// Stripe is optional in local development; without it checkout falls back
	// to recording orders unpaid and the webhook route rejects traffic.
	var stripeClient *stripe.Client
	if cfg.Stripe.APIKey != "" {
		stripeClient, err = stripe.NewClient(context.Background(), cfg.Stripe, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap stripe", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "stripe not configured, card collection disabled")
	}
	gateway := payments.NewGateway(stripeClient)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	commerceMetrics := metrics.NewCommerceMetrics(registry)

	gormDB := dbClient.DB()
	albumsRepo := albums.NewRepository(gormDB)
	catalogRepo := catalog.NewRepository(gormDB)
	ordersRepo := orders.NewRepository(gormDB)
	ledger := credits.NewLedger(gormDB)

	albumsService, err := albums.NewService(albums.ServiceParams{
		Repo:              albumsRepo,
		TransactionRunner: dbClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create albums service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		Repo:              catalogRepo,
		TransactionRunner: dbClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.ServiceParams{
		Albums:            albumsRepo,
		Catalog:           catalogRepo,
		Ledger:            ledger,
		Orders:            ordersRepo,
		TransactionRunner: dbClient,
		Logger:            logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	collectCard := cfg.FeatureFlags.CollectCard && gateway != nil
	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Orders:            ordersRepo,
		Gateway:           gateway,
		TransactionRunner: dbClient,
		Logger:            logg,
		Metrics:           commerceMetrics,
		CollectCard:       collectCard,
		CurrencyCode:      cfg.Currency.Code,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo:   ordersRepo,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	paymentsService, err := payments.NewService(payments.ServiceParams{
		Orders:  ordersRepo,
		Gateway: gateway,
		Logger:  logg,
		Metrics: commerceMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:  auth.NewRepository(gormDB),
		JWTConfig: cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	webhookGuard, err := payments.NewWebhookGuard(redisClient, cfg.Webhooks.IdempotencyTTL, "stripe")
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook guard", err)
		os.Exit(1)
	}

	routerParams := routes.RouterParams{
		Config: cfg,
		Logger: logg,

		DBPinger:    dbClient,
		RedisPinger: redisClient,
		Redis:       redisClient,

		AssetResolver: resolver,

		AlbumsService:   albumsService,
		CatalogService:  catalogService,
		CreditLedger:    ledger,
		CartService:     cartService,
		CheckoutService: checkoutService,
		OrdersService:   ordersService,
		AuthService:     authService,
		PaymentsService: paymentsService,

		WebhookGuard:   webhookGuard,
		Metrics:        commerceMetrics,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}
	if stripeClient != nil {
		routerParams.StripeClient = stripeClient
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(routerParams),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
