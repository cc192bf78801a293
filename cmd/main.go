// Package main is the entry point for the cargo-service application.
//
// @title           Cargo Service API
// @version         1.0.0
// @description     Warehouse cargo reception and dispatch.
//
//	Imports packing lists and cargo summaries, tracks the reception of every
//	parcel and prepares dispatch carts with their packing list export.
//
// @contact.name   API Support
// @contact.url    https://github.com/guttosm/cargo-service
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        X-API-Key
// @description                 API key for authentication. Used when no JWT secret is configured.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Bearer token issued by the identity provider.
//
// @tag.name        Cargo
// @tag.description Sheet import and parcel reception
//
// @tag.name        Dispatch
// @tag.description Parcel map, carts and dispatch exports
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	_ "github.com/guttosm/cargo-service/docs" // swagger docs

	"github.com/guttosm/cargo-service/config"
	"github.com/guttosm/cargo-service/internal/app"
)

func main() {
	cfg := config.Load()

	application := app.InitializeApp(cfg)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		application.Close(ctx)
	}()

	server := app.NewServer(application.Router, cfg.Server)
	if err := server.Run(); err != nil {
		log.Error().Err(err).Msg("Server error")
	}
}
