package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/guttosm/cargo-service/internal/metrics"
	"github.com/guttosm/cargo-service/internal/middleware"
	"github.com/guttosm/cargo-service/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RouterConfig holds router configuration options.
type RouterConfig struct {
	RateLimit  int
	RateWindow time.Duration
	APIKeys    map[string]string
	EnableAuth bool
	// JWT enables bearer token verification when its secret is set. It takes
	// precedence over API keys.
	JWT               middleware.JWTConfig
	EnableIdempotency bool
	RequestTimeout    time.Duration
	// UploadTimeout replaces RequestTimeout on the routes in uploadRoutes.
	UploadTimeout     time.Duration
	CORSOrigins       []string
	SwaggerUser       string
	SwaggerPass       string
	LoggingService    service.LoggingService
	CargoHandler      *CargoHandler
	DispatchHandler   *DispatchHandler
}

// DefaultRouterConfig returns the default router configuration.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		RateLimit:  100,
		RateWindow: time.Minute,
		EnableAuth: false,
	}
}

// NewRouter creates and configures the Gin router for the cargo service.
func NewRouter(healthHandler *HealthHandler, cfg RouterConfig) *gin.Engine {
	router := gin.New()

	// Configure global middleware
	configureGlobalMiddleware(router, &cfg)

	// Register infrastructure routes (health, metrics, swagger)
	registerInfrastructureRoutes(router, healthHandler, &cfg)

	// Configure API routes
	api := router.Group("/api")
	configureAPIMiddleware(api, &cfg)

	for _, group := range routeGroups(&cfg) {
		group.RegisterRoutes(api)
	}

	return router
}

// jwtEnabled reports whether bearer tokens guard the API.
func (cfg *RouterConfig) jwtEnabled() bool {
	return cfg.EnableAuth && len(cfg.JWT.Secret) > 0
}

// configureGlobalMiddleware sets up middleware applied to all routes.
func configureGlobalMiddleware(router *gin.Engine, cfg *RouterConfig) {
	// CORS configuration
	allowedOrigins := cfg.CORSOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	}
	corsConfig := cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Accept-Language", "X-CSRF-Token", "Authorization", "accept", "Cache-Control", "X-Requested-With", "X-API-Key", "Idempotency-Key", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           86400,
	}
	router.Use(cors.New(corsConfig))

	// Core middleware stack
	router.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		metrics.PrometheusMiddleware(),
		middleware.Compression(),
		middleware.RequestLogger(cfg.LoggingService),
		middleware.ErrorHandler(),
	)

	// Context setup middleware
	router.Use(func(c *gin.Context) {
		if cfg.LoggingService != nil {
			c.Set(middleware.ContextLoggingService, cfg.LoggingService)
		}
		c.Next()
	})

	// Global rate limiting
	if cfg.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow).Named("ip")
		router.Use(limiter.RateLimit())
	}
}

// registerInfrastructureRoutes registers health, metrics, and documentation routes.
func registerInfrastructureRoutes(router *gin.Engine, healthHandler *HealthHandler, cfg *RouterConfig) {
	healthHandler.Register(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger with optional basic auth
	if cfg.SwaggerUser != "" && cfg.SwaggerPass != "" {
		authorized := router.Group("/swagger", gin.BasicAuth(gin.Accounts{
			cfg.SwaggerUser: cfg.SwaggerPass,
		}))
		authorized.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	} else {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}

// configureAPIMiddleware sets up middleware for the API group.
func configureAPIMiddleware(api *gin.RouterGroup, cfg *RouterConfig) {
	if cfg.RequestTimeout > 0 {
		api.Use(middleware.Timeout(timeoutConfig(cfg)))
	}

	switch {
	case cfg.jwtEnabled():
		api.Use(middleware.JWTAuth(cfg.JWT))
		// Per-user limits on top of the per-IP one
		if cfg.RateLimit > 0 {
			userLimiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow).Named("user")
			api.Use(userLimiter.UserRateLimit())
		}
	case cfg.EnableAuth && len(cfg.APIKeys) > 0:
		api.Use(middleware.APIKeyAuth(cfg.APIKeys))
	}

	// Idempotency runs after authentication so replays are per caller.
	if cfg.EnableIdempotency {
		idempotencyCfg := middleware.DefaultIdempotencyConfig()
		if cfg.CargoHandler != nil {
			idempotencyCfg.MaxBodyBytes = cfg.CargoHandler.maxUploadSize
		}
		api.Use(middleware.Idempotency(idempotencyCfg))
	}
}

// uploadRoutes parse spreadsheets or render workbooks and may outlive the
// regular request timeout.
var uploadRoutes = []string{
	"POST /api/cargo/preview/:kind",
	"POST /api/cargo/packing-list",
	"POST /api/cargo/summary",
	"GET /api/dispatch/carts/:id/export",
}

// timeoutConfig gives the upload routes their own deadline.
func timeoutConfig(cfg *RouterConfig) middleware.TimeoutConfig {
	timeoutCfg := middleware.DefaultTimeoutConfig()
	timeoutCfg.Timeout = cfg.RequestTimeout
	timeoutCfg.Routes = make(map[string]time.Duration, len(uploadRoutes))
	for _, route := range uploadRoutes {
		timeoutCfg.Routes[route] = cfg.UploadTimeout
	}
	return timeoutCfg
}

// routeGroups returns the business route groups whose handlers are configured.
func routeGroups(cfg *RouterConfig) []RouteGroup {
	var groups []RouteGroup
	if cfg.CargoHandler != nil {
		groups = append(groups, NewCargoRoutes(cfg.CargoHandler))
	}
	if cfg.DispatchHandler != nil {
		groups = append(groups, NewDispatchRoutes(cfg.DispatchHandler))
	}
	return groups
}
