// Package app provides application initialization and dependency injection.
package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/guttosm/cargo-service/config"
	"github.com/guttosm/cargo-service/internal/http"
	"github.com/guttosm/cargo-service/internal/i18n"
	"github.com/guttosm/cargo-service/internal/middleware"
)

// App is the wired HTTP engine together with the resources it holds.
type App struct {
	Router   *gin.Engine
	database *DatabaseComponents
}

// InitializeApp creates and wires all application dependencies.
func InitializeApp(cfg config.Config) *App {
	InitializeLogger(cfg.Log)

	if cfg.Server.DefaultLocale != "" {
		i18n.SetFallbackLocale(cfg.Server.DefaultLocale)
	}

	dbComponents := InitializeDatabase(cfg.Database)
	if dbComponents != nil {
		middleware.InitAsyncLogger(dbComponents.LoggingService, AuditLoggerConfig(cfg.Audit))
	}

	serviceComponents := InitializeServices(cfg, dbComponents)
	routerComponents := InitializeRouter(serviceComponents, dbComponents, cfg)

	return &App{
		Router:   http.NewRouter(routerComponents.HealthHandler, routerComponents.Config),
		database: dbComponents,
	}
}

// Close drains the audit log queue and disconnects from the database.
func (a *App) Close(ctx context.Context) {
	middleware.StopAsyncLogger()
	if err := a.database.Close(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to close MongoDB connection")
	}
}
