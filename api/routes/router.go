package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quickplate/quickplate-backend/api/controllers"
	cartcontrollers "github.com/quickplate/quickplate-backend/api/controllers/cart"
	"github.com/quickplate/quickplate-backend/api/middleware"
	authsvc "github.com/quickplate/quickplate-backend/internal/auth"
	cartpkg "github.com/quickplate/quickplate-backend/internal/cart"
	checkoutsvc "github.com/quickplate/quickplate-backend/internal/checkout"
	"github.com/quickplate/quickplate-backend/internal/cuisines"
	"github.com/quickplate/quickplate-backend/internal/drivers"
	"github.com/quickplate/quickplate-backend/internal/locations"
	"github.com/quickplate/quickplate-backend/internal/menu"
	"github.com/quickplate/quickplate-backend/internal/orders"
	"github.com/quickplate/quickplate-backend/internal/promotions"
	"github.com/quickplate/quickplate-backend/internal/restaurants"
	"github.com/quickplate/quickplate-backend/pkg/config"
	"github.com/quickplate/quickplate-backend/pkg/db"
	"github.com/quickplate/quickplate-backend/pkg/enums"
	"github.com/quickplate/quickplate-backend/pkg/logger"
	"github.com/quickplate/quickplate-backend/pkg/metrics"
	"github.com/quickplate/quickplate-backend/pkg/redis"
)

// Services bundles the wired domain services the router mounts.
type Services struct {
	Auth        authsvc.Service
	Restaurants restaurants.Service
	Cuisines    cuisines.Service
	Menu        menu.Service
	Promotions  promotions.Service
	Orders      orders.Service
	Checkout    checkoutsvc.Service
	Drivers     drivers.Service
	Locations   locations.Service
	CartStore   cartpkg.Store
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	registry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(httpMetrics),
	)

	authed := middleware.Auth(cfg.JWT, logg)
	adminOnly := middleware.RequireRole(string(enums.UserRoleAdmin), logg)
	restaurantStaff := middleware.RequireAnyRole(logg, string(enums.UserRoleAdmin), string(enums.UserRoleRestaurantAdmin))

	cartDeps := cartcontrollers.Deps{
		Store:  svcs.CartStore,
		Promos: svcs.Promotions,
		Cfg:    cfg.Cart,
		Logg:   logg,
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(svcs.Auth, logg))
		r.Post("/login", controllers.AuthLogin(svcs.Auth, logg))
	})

	r.With(authed).Get("/api/profile", controllers.AuthProfile(svcs.Auth, logg))

	r.Route("/api/cuisines", func(r chi.Router) {
		r.Get("/", controllers.CuisineList(svcs.Cuisines, logg))
		r.With(authed, adminOnly).Post("/", controllers.CuisineCreate(svcs.Cuisines, logg))
		r.With(authed, adminOnly).Delete("/{cuisineId}", controllers.CuisineDelete(svcs.Cuisines, logg))
	})

	r.Route("/api/restaurants", func(r chi.Router) {
		r.Get("/", controllers.RestaurantList(svcs.Restaurants, logg))
		r.With(authed, restaurantStaff).Post("/", controllers.RestaurantCreate(svcs.Restaurants, logg))

		r.Post("/promotions/validate", controllers.PromotionValidate(svcs.Promotions, logg))

		r.Route("/{restaurantId}", func(r chi.Router) {
			r.Get("/", controllers.RestaurantDetail(svcs.Restaurants, logg))
			r.Get("/menu", controllers.MenuItemList(svcs.Menu, logg))
			r.Get("/menu/categories", controllers.MenuCategoryList(svcs.Menu, logg))
			r.Get("/promotions", controllers.PromotionList(svcs.Promotions, logg))

			// Back office.
			r.Group(func(r chi.Router) {
				r.Use(authed, restaurantStaff)
				r.Put("/", controllers.RestaurantUpdate(svcs.Restaurants, logg))
				r.Delete("/", controllers.RestaurantDeactivate(svcs.Restaurants, logg))
				r.Get("/orders", controllers.RestaurantOrderList(svcs.Orders, logg))
				r.Post("/menu/categories", controllers.MenuCategoryCreate(svcs.Menu, logg))
				r.Put("/menu/categories/reorder", controllers.MenuCategoryReorder(svcs.Menu, logg))
				r.Post("/menu/items", controllers.MenuItemCreate(svcs.Menu, logg))
				r.Post("/promotions", controllers.PromotionCreate(svcs.Promotions, logg))
			})
		})
	})

	r.Route("/api/menu", func(r chi.Router) {
		r.Get("/items/{itemId}", controllers.MenuItemDetail(svcs.Menu, logg))

		r.Group(func(r chi.Router) {
			r.Use(authed, restaurantStaff)
			r.Patch("/categories/{categoryId}", controllers.MenuCategoryRename(svcs.Menu, logg))
			r.Delete("/categories/{categoryId}", controllers.MenuCategoryDelete(svcs.Menu, logg))
			r.Patch("/items/{itemId}", controllers.MenuItemUpdate(svcs.Menu, logg))
			r.Delete("/items/{itemId}", controllers.MenuItemDelete(svcs.Menu, logg))
		})
	})

	r.Route("/api/promotions", func(r chi.Router) {
		r.Use(authed, restaurantStaff)
		r.Patch("/{promotionId}", controllers.PromotionUpdate(svcs.Promotions, logg))
		r.Delete("/{promotionId}", controllers.PromotionDelete(svcs.Promotions, logg))
	})

	r.Route("/api/cart", func(r chi.Router) {
		r.Use(authed)
		r.Get("/", cartcontrollers.CartFetch(cartDeps))
		r.Delete("/", cartcontrollers.CartClear(cartDeps))
		r.Post("/items", cartcontrollers.CartAddItem(cartDeps))
		r.Patch("/items", cartcontrollers.CartUpdateQuantity(cartDeps))
		r.Delete("/items/{itemKey}", cartcontrollers.CartRemoveItem(cartDeps))
		r.Post("/promotion", cartcontrollers.CartApplyPromotion(cartDeps))
		r.Delete("/promotion", cartcontrollers.CartRemovePromotion(cartDeps))
	})

	r.With(authed).Post("/api/checkout", controllers.Checkout(svcs.Checkout, logg))

	r.Route("/api/orders", func(r chi.Router) {
		r.Use(authed)
		r.Get("/", controllers.OrderList(svcs.Orders, logg))
		r.Get("/{orderId}", controllers.OrderDetail(svcs.Orders, logg))
		r.Post("/{orderId}/cancel", controllers.OrderCancel(svcs.Orders, logg))
		r.With(restaurantStaff).Post("/{orderId}/status", controllers.OrderUpdateStatus(svcs.Orders, logg))
	})

	r.Route("/api/drivers", func(r chi.Router) {
		r.Use(authed)
		r.With(adminOnly).Post("/", controllers.DriverRegister(svcs.Drivers, logg))
		r.With(adminOnly).Get("/", controllers.DriverList(svcs.Drivers, logg))

		r.Route("/{driverId}", func(r chi.Router) {
			r.Get("/", controllers.DriverDetail(svcs.Drivers, logg))
			r.With(adminOnly).Put("/", controllers.DriverUpdate(svcs.Drivers, logg))
			r.With(adminOnly).Delete("/", controllers.DriverRemove(svcs.Drivers, logg))

			r.Get("/assignments", controllers.DriverAssignments(svcs.Drivers, logg))
			r.With(restaurantStaff).Post("/orders/{orderId}/assign", controllers.DriverAssignOrder(svcs.Drivers, logg))
			r.Post("/orders/{orderId}/pickup", controllers.DriverPickupOrder(svcs.Drivers, logg))
			r.Post("/orders/{orderId}/deliver", controllers.DriverDeliverOrder(svcs.Drivers, logg))

			r.Post("/location", controllers.DriverLocationReport(svcs.Locations, logg))
			r.Get("/location", controllers.DriverLocationFetch(svcs.Locations, logg))
		})
	})

	return r
}
