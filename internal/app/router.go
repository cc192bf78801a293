// Package app provides router configuration.
package app

import (
	"github.com/guttosm/cargo-service/config"
	"github.com/guttosm/cargo-service/internal/http"
	"github.com/guttosm/cargo-service/internal/middleware"
	"github.com/guttosm/cargo-service/internal/service"
)

// RouterComponents holds router-related components.
type RouterComponents struct {
	HealthHandler *http.HealthHandler
	Config        http.RouterConfig
}

// InitializeRouter builds the HTTP handlers and router configuration.
func InitializeRouter(services *ServiceComponents, db *DatabaseComponents, cfg config.Config) *RouterComponents {
	healthHandler := http.NewHealthHandler()

	var loggingService service.LoggingService
	if db != nil {
		loggingService = db.LoggingService
		healthHandler.RegisterChecker("mongodb", http.HealthCheckFunc(db.DB.HealthCheck))
		for name, cb := range db.Breakers {
			healthHandler.RegisterCircuitBreaker(name, cb)
		}
	}

	var handlerOpts []http.CargoHandlerOption
	if cfg.Import.MaxUploadBytes > 0 {
		handlerOpts = append(handlerOpts, http.WithMaxUploadSize(cfg.Import.MaxUploadBytes))
	}

	routerCfg := http.RouterConfig{
		RateLimit:  cfg.Server.RateLimit,
		RateWindow: cfg.Server.RateWindow,
		EnableAuth: cfg.Auth.Enabled,
		APIKeys:    cfg.Auth.APIKeys,
		JWT: middleware.JWTConfig{
			Secret: []byte(cfg.Auth.JWTSecretKey),
			Issuer: cfg.Auth.JWTIssuer,
		},
		EnableIdempotency: true,
		RequestTimeout:    cfg.Server.RequestTimeout,
		UploadTimeout:     cfg.Server.UploadTimeout,
		CORSOrigins:       cfg.Server.CORSOrigins,
		SwaggerUser:       cfg.Server.SwaggerUser,
		SwaggerPass:       cfg.Server.SwaggerPass,
		LoggingService:    loggingService,
		CargoHandler:      http.NewCargoHandler(services.Importer, services.Cargo, services.Reader, handlerOpts...),
		DispatchHandler:   http.NewDispatchHandler(services.Dispatch),
	}

	return &RouterComponents{
		HealthHandler: healthHandler,
		Config:        routerCfg,
	}
}
