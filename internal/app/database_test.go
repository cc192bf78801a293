//go:build !integration

package app

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/guttosm/cargo-service/config"
	"github.com/guttosm/cargo-service/internal/circuitbreaker"
	"github.com/guttosm/cargo-service/internal/repository"
)

func TestInitializeDatabase_Disabled(t *testing.T) {
	assert.Nil(t, InitializeDatabase(config.DatabaseConfig{Enabled: false}))
}

func TestNewBreaker(t *testing.T) {
	ctx := context.Background()

	t.Run("domain errors keep the breaker closed", func(t *testing.T) {
		cb := newBreaker(config.DatabaseConfig{CircuitBreakerFailureThreshold: 1}, "test-domain")

		for _, err := range []error{
			repository.ErrNotFound,
			fmt.Errorf("transition: %w", repository.ErrStatusConflict),
			context.Canceled,
		} {
			got := cb.Execute(ctx, func() error { return err })
			assert.ErrorIs(t, got, err)
		}
		assert.False(t, cb.IsOpen())
	})

	t.Run("infrastructure errors open the breaker", func(t *testing.T) {
		cb := newBreaker(config.DatabaseConfig{
			CircuitBreakerFailureThreshold: 2,
			CircuitBreakerTimeout:          time.Minute,
		}, "test-infra")

		for range 2 {
			_ = cb.Execute(ctx, func() error { return errors.New("connection refused") })
		}
		assert.True(t, cb.IsOpen())
		assert.ErrorIs(t, cb.Execute(ctx, func() error { return nil }), circuitbreaker.ErrCircuitOpen)
	})

	t.Run("zero thresholds use defaults", func(t *testing.T) {
		cb := newBreaker(config.DatabaseConfig{}, "test-defaults")

		for range circuitbreaker.DefaultConfig().FailureThreshold - 1 {
			_ = cb.Execute(ctx, func() error { return errors.New("timeout") })
		}
		assert.False(t, cb.IsOpen())
	})
}

func TestDatabaseComponents_CloseNil(t *testing.T) {
	var d *DatabaseComponents
	assert.NoError(t, d.Close(context.Background()))
}
