package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/florale-backend/api/controllers"
	buildercontrollers "github.com/angelmondragon/florale-backend/api/controllers/builder"
	cartcontrollers "github.com/angelmondragon/florale-backend/api/controllers/cart"
	ordercontrollers "github.com/angelmondragon/florale-backend/api/controllers/orders"
	"github.com/angelmondragon/florale-backend/api/middleware"
	"github.com/angelmondragon/florale-backend/internal/builder"
	"github.com/angelmondragon/florale-backend/internal/cart"
	"github.com/angelmondragon/florale-backend/internal/catalog"
	"github.com/angelmondragon/florale-backend/internal/orders"
	"github.com/angelmondragon/florale-backend/pkg/config"
	"github.com/angelmondragon/florale-backend/pkg/db"
	"github.com/angelmondragon/florale-backend/pkg/enums"
	"github.com/angelmondragon/florale-backend/pkg/logger"
	"github.com/angelmondragon/florale-backend/pkg/redis"
)

// RouterParams lists what the HTTP surface depends on. Redis and IdempotencyStore are nil
// when the API runs without redis; the idempotency check is then skipped.
type RouterParams struct {
	Config           *config.Config
	Logger           *logger.Logger
	DB               db.Pinger
	Redis            redis.Pinger
	IdempotencyStore redis.IdempotencyStore
	Gatherer         prometheus.Gatherer
	Catalog          *catalog.Catalog
	Cart             cart.Service
	Builder          builder.Service
	Orders           orders.Service
	Realtime         http.Handler
}

func NewRouter(p RouterParams) http.Handler {
	cfg, logg := p.Config, p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, p.Redis))
	})

	if p.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/products", controllers.CatalogProducts(p.Catalog, logg))
			r.Get("/products/{productId}", controllers.CatalogProduct(p.Catalog, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(logg))
			r.Use(middleware.Idempotency(p.IdempotencyStore, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartcontrollers.CartFetch(p.Cart, logg))
				r.Delete("/", cartcontrollers.CartClear(p.Cart, logg))
				r.Post("/items", cartcontrollers.CartAddItem(p.Cart, logg))
				r.Patch("/items/{productId}", cartcontrollers.CartUpdateItem(p.Cart, logg))
				r.Delete("/items/{productId}", cartcontrollers.CartRemoveItem(p.Cart, logg))
				r.Post("/products/{productId}", cartcontrollers.CartQuickAdd(p.Cart, logg))
				r.Post("/checkout", ordercontrollers.Checkout(p.Orders, logg))
			})

			r.Route("/builder", func(r chi.Router) {
				r.Get("/", buildercontrollers.BuilderFetch(p.Builder, logg))
				r.Get("/options", buildercontrollers.BuilderOptions(p.Builder, logg))
				r.Post("/next", buildercontrollers.BuilderNext(p.Builder, logg))
				r.Post("/prev", buildercontrollers.BuilderPrev(p.Builder, logg))
				r.Post("/reset", buildercontrollers.BuilderReset(p.Builder, logg))
				r.Put("/step", buildercontrollers.BuilderSetStep(p.Builder, logg))
				r.Patch("/config", buildercontrollers.BuilderUpdate(p.Builder, logg))
				r.Post("/add-to-cart", buildercontrollers.BuilderAddToCart(p.Builder, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.AdminAuth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(logg, enums.StaffRoleAdmin, enums.StaffRoleFlorist))
		r.Use(middleware.Idempotency(p.IdempotencyStore, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordercontrollers.AdminOrders(p.Orders, logg))
			r.Get("/{orderId}", ordercontrollers.AdminOrderDetail(p.Orders, logg))
			r.Post("/{orderId}/status", ordercontrollers.AdminUpdateOrderStatus(p.Orders, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, enums.StaffRoleAdmin))
				r.Post("/", ordercontrollers.AdminCreateOrder(p.Orders, p.Catalog, logg))
				r.Post("/{orderId}/florist", ordercontrollers.AdminAssignFlorist(p.Orders, logg))
				r.Post("/{orderId}/courier", ordercontrollers.AdminAssignCourier(p.Orders, logg))
			})
		})

		r.Get("/metrics", ordercontrollers.AdminMetrics(p.Orders, logg))
		r.Get("/point", ordercontrollers.AdminSelectedPoint(p.Orders, logg))
		r.Put("/point", ordercontrollers.AdminSelectPoint(p.Orders, logg))

		if p.Realtime != nil {
			r.Get("/ws", p.Realtime.ServeHTTP)
		}
	})

	return r
}
