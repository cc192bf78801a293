// Package app provides database initialization and setup.
package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/guttosm/cargo-service/config"
	"github.com/guttosm/cargo-service/internal/circuitbreaker"
	"github.com/guttosm/cargo-service/internal/metrics"
	"github.com/guttosm/cargo-service/internal/repository"
	"github.com/guttosm/cargo-service/internal/service"
)

// Breaker names, also used as health check keys.
const (
	BreakerCargo = "mongodb_cargo"
	BreakerLogs  = "mongodb_logs"
)

// DatabaseComponents holds database-related components.
type DatabaseComponents struct {
	DB             *repository.MongoDB
	Items          repository.ParcelItemRepositoryInterface
	Summary        repository.SummaryRepositoryInterface
	Parcels        repository.ParcelRepositoryInterface
	Carts          repository.CartRepositoryInterface
	LoggingService service.LoggingService
	Breakers       map[string]*circuitbreaker.CircuitBreaker
}

// InitializeDatabase connects to MongoDB and builds the repositories behind
// circuit breakers. Returns nil if the database is disabled or unreachable.
func InitializeDatabase(cfg config.DatabaseConfig) *DatabaseComponents {
	if !cfg.Enabled {
		return nil
	}

	db, err := repository.NewMongoDB(cfg.URI, cfg.DatabaseName)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to MongoDB - continuing without database")
		return nil
	}

	log.Info().Str("database", cfg.DatabaseName).Msg("Connected to MongoDB")

	ttlDays := int(cfg.LogsTTL.Hours() / 24)
	if err := db.SetLogsTTL(context.Background(), ttlDays); err != nil {
		log.Warn().Err(err).Msg("Failed to set logs TTL index (may already exist)")
	}

	return newDatabaseComponents(db, cfg)
}

func newDatabaseComponents(db *repository.MongoDB, cfg config.DatabaseConfig) *DatabaseComponents {
	cargoCB := newBreaker(cfg, BreakerCargo)
	logsCB := newBreaker(cfg, BreakerLogs)

	logsRepo := repository.NewLogsRepositoryWithCircuitBreaker(repository.NewLogsRepository(db), logsCB)

	return &DatabaseComponents{
		DB:             db,
		Items:          repository.NewParcelItemRepositoryWithCircuitBreaker(repository.NewParcelItemRepository(db), cargoCB),
		Summary:        repository.NewSummaryRepositoryWithCircuitBreaker(repository.NewSummaryRepository(db), cargoCB),
		Parcels:        repository.NewParcelRepositoryWithCircuitBreaker(repository.NewParcelRepository(db), cargoCB),
		Carts:          repository.NewCartRepositoryWithCircuitBreaker(repository.NewCartRepository(db), cargoCB),
		LoggingService: service.NewLoggingService(logsRepo),
		Breakers: map[string]*circuitbreaker.CircuitBreaker{
			BreakerCargo: cargoCB,
			BreakerLogs:  logsCB,
		},
	}
}

// newBreaker builds a breaker that ignores domain errors and reports its
// state to Prometheus.
func newBreaker(cfg config.DatabaseConfig, name string) *circuitbreaker.CircuitBreaker {
	defaults := circuitbreaker.DefaultConfig()
	cbCfg := circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.CircuitBreakerTimeout,
		Name:             name,
		IsFailure:        repository.CountsAsFailure,
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			metrics.SetCircuitBreakerState(name, int(to))
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	}
	if cbCfg.FailureThreshold <= 0 {
		cbCfg.FailureThreshold = defaults.FailureThreshold
	}
	if cbCfg.SuccessThreshold <= 0 {
		cbCfg.SuccessThreshold = defaults.SuccessThreshold
	}
	if cbCfg.Timeout <= 0 {
		cbCfg.Timeout = defaults.Timeout
	}
	metrics.SetCircuitBreakerState(name, int(circuitbreaker.StateClosed))
	return circuitbreaker.New(cbCfg)
}

// Close releases the database connection.
func (d *DatabaseComponents) Close(ctx context.Context) error {
	if d == nil || d.DB == nil {
		return nil
	}
	return d.DB.Close(ctx)
}
