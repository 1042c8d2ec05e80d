package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/quickplate/quickplate-backend/api/routes"
	"github.com/quickplate/quickplate-backend/internal/auth"
	"github.com/quickplate/quickplate-backend/internal/cart"
	"github.com/quickplate/quickplate-backend/internal/checkout"
	"github.com/quickplate/quickplate-backend/internal/cuisines"
	"github.com/quickplate/quickplate-backend/internal/drivers"
	"github.com/quickplate/quickplate-backend/internal/locations"
	"github.com/quickplate/quickplate-backend/internal/menu"
	"github.com/quickplate/quickplate-backend/internal/orders"
	"github.com/quickplate/quickplate-backend/internal/promotions"
	"github.com/quickplate/quickplate-backend/internal/restaurants"
	"github.com/quickplate/quickplate-backend/pkg/config"
	"github.com/quickplate/quickplate-backend/pkg/db"
	"github.com/quickplate/quickplate-backend/pkg/logger"
	"github.com/quickplate/quickplate-backend/pkg/metrics"
	"github.com/quickplate/quickplate-backend/pkg/migrate"
	"github.com/quickplate/quickplate-backend/pkg/pubsub"
	"github.com/quickplate/quickplate-backend/pkg/redis"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	cartStore, err := cart.NewRedisStore(redisClient, cfg.Cart.TTL, cfg.Cart.TaxRate, cfg.Cart.DeliveryFee, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}

	// Order events are optional: without a GCP project the API runs with
	// publishing disabled.
	var orderEvents orders.EventPublisher
	if cfg.GCP.ProjectID != "" {
		psClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := psClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()

		orderEvents, err = orders.NewEventPublisher(psClient.OrdersPublisher())
		if err != nil {
			logg.Error(context.Background(), "failed to create order event publisher", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "no GCP project configured, order events disabled")
	}

	gormDB := dbClient.DB()
	restaurantRepo := restaurants.NewRepository(gormDB)
	cuisineRepo := cuisines.NewRepository(gormDB)
	orderRepo := orders.NewRepository(gormDB)

	authService, err := auth.NewService(auth.NewRepository(gormDB), cfg.JWT, cfg.Password)
	if err != nil {
		fatalWiring(logg, "auth service", err)
	}
	restaurantService, err := restaurants.NewService(restaurantRepo, cuisineRepo)
	if err != nil {
		fatalWiring(logg, "restaurant service", err)
	}
	cuisineService, err := cuisines.NewService(cuisineRepo)
	if err != nil {
		fatalWiring(logg, "cuisine service", err)
	}
	menuService, err := menu.NewService(menu.NewRepository(gormDB))
	if err != nil {
		fatalWiring(logg, "menu service", err)
	}
	promotionService, err := promotions.NewService(promotions.NewRepository(gormDB))
	if err != nil {
		fatalWiring(logg, "promotion service", err)
	}
	orderService, err := orders.NewService(orderRepo, orderEvents, logg)
	if err != nil {
		fatalWiring(logg, "order service", err)
	}
	checkoutService, err := checkout.NewService(cartStore, orderService, restaurants.NewLocator(restaurantRepo), nil, logg)
	if err != nil {
		fatalWiring(logg, "checkout service", err)
	}
	driverService, err := drivers.NewService(drivers.NewRepository(gormDB), orderService)
	if err != nil {
		fatalWiring(logg, "driver service", err)
	}
	locationService, err := locations.NewService(locations.NewRepository(gormDB))
	if err != nil {
		fatalWiring(logg, "location service", err)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, registry, httpMetrics, routes.Services{
			Auth:        authService,
			Restaurants: restaurantService,
			Cuisines:    cuisineService,
			Menu:        menuService,
			Promotions:  promotionService,
			Orders:      orderService,
			Checkout:    checkoutService,
			Drivers:     driverService,
			Locations:   locationService,
			CartStore:   cartStore,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func fatalWiring(logg *logger.Logger, name string, err error) {
	logg.Error(context.Background(), "failed to create "+name, err)
	os.Exit(1)
}
