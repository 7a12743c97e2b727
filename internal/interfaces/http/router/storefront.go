package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Handlers groups the HTTP handlers mounted by New
type Handlers struct {
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
	Orders   *handler.OrderHandler
	Admin    *handler.AdminHandler
	Catalog  *handler.CatalogHandler
	Health   *handler.HealthHandler
}

// Options carries the cross-cutting dependencies of the engine
type Options struct {
	Config *config.Config
	Logger *zap.Logger
	// Meter may be nil when telemetry is disabled
	Meter  metric.Meter
	Tokens middleware.TokenValidator
}

// New builds the storefront engine: global middleware first, then the route groups.
func New(opts Options, h Handlers) *gin.Engine {
	cfg := opts.Config
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		log.Warn("Invalid trusted proxies, trusting none", zap.Error(err))
		_ = engine.SetTrustedProxies(nil)
	}

	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.CORS(cfg.CORS),
		middleware.BodyLimit(cfg.Server.MaxBodySize),
		middleware.Tracing(cfg.Telemetry.ServiceName),
		middleware.HTTPMetrics(opts.Meter),
		middleware.Profiling("/health"),
	)
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			&dto.ErrorInfo{Code: dto.ErrCodeNotFound, Message: "Route not found"},
			middleware.GetRequestID(c)))
	})

	r := NewRouter(engine)
	for _, group := range storefrontGroups(opts, h) {
		r.Register(group)
	}
	r.Setup()
	return engine
}

func storefrontGroups(opts Options, h Handlers) []*DomainGroup {
	authn := middleware.JWTAuth(opts.Tokens)
	limit := middleware.RateLimit(opts.Config.RateLimit)
	enrich := middleware.SpanEnricher()

	health := NewDomainGroup("health", "/health")
	health.GET("", h.Health.Health)

	// the cart badge is polled by anonymous visitors too
	cartInfo := NewDomainGroup("cart-info", "/cart/api")
	cartInfo.Use(middleware.OptionalJWTAuth(opts.Tokens), enrich)
	cartInfo.GET("/info", h.Cart.Info)

	cart := NewDomainGroup("cart", "/cart")
	cart.Use(authn, enrich)
	cart.GET("", h.Cart.Show)
	cart.POST("/add/:product_id", limit, h.Cart.Add)
	cart.POST("/update/:item_id", limit, h.Cart.Update)
	cart.POST("/remove/:item_id", limit, h.Cart.Remove)
	cart.POST("/apply-coupon", limit, h.Cart.ApplyCoupon)

	checkout := NewDomainGroup("checkout", "/checkout")
	checkout.Use(authn, enrich)
	checkout.GET("", h.Checkout.Preview)
	checkout.POST("", limit, h.Checkout.Submit)

	orders := NewDomainGroup("orders", "/orders")
	orders.Use(authn, enrich)
	orders.GET("/:order_id/confirmation", h.Orders.Confirmation)

	products := NewDomainGroup("products", "/products")
	products.Use(authn, enrich)
	products.POST("/:pid/add-review", limit, h.Catalog.AddReview)

	wishlist := NewDomainGroup("wishlist", "/wishlist")
	wishlist.Use(authn, enrich)
	wishlist.GET("", h.Catalog.Wishlist)
	wishlist.POST("/add/:product_id", limit, h.Catalog.AddToWishlist)
	wishlist.POST("/remove/:product_id", limit, h.Catalog.RemoveFromWishlist)

	admin := NewDomainGroup("admin", "/admin")
	admin.Use(authn, enrich, middleware.RequirePermission(auth.PermissionOrdersAdmin))
	adminOrders := admin.Group("admin-orders", "/orders")
	adminOrders.GET("/:id", h.Admin.OrderDetail)
	adminOrders.POST("/:id/recompute-totals", h.Admin.RecomputeTotals)
	admin.GET("/outbox/stats", h.Admin.OutboxStats)

	return []*DomainGroup{health, cartInfo, cart, checkout, orders, products, wishlist, admin}
}
