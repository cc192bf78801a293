//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/cargo-service/internal/circuitbreaker"
	"github.com/guttosm/cargo-service/internal/domain/model"
)

func TestRepositoriesWithCircuitBreaker_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDBFromSharedContainer(t)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()

	cb := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: 2,
		SuccessThreshold: 1,
		Timeout:          100 * time.Millisecond,
		Name:             "test-mongodb",
		IsFailure:        CountsAsFailure,
	})
	parcels := NewParcelRepositoryWithCircuitBreaker(NewParcelRepository(db), cb)
	carts := NewCartRepositoryWithCircuitBreaker(NewCartRepository(db), cb)
	logs := NewLogsRepositoryWithCircuitBreaker(NewLogsRepository(db), cb)

	t.Run("successful operations keep the circuit closed", func(t *testing.T) {
		require.NoError(t, parcels.Register(ctx, []model.Parcel{{ParcelNumber: "PK11", SessionID: "s-1"}}))

		p, err := parcels.Get(ctx, "PK11")
		require.NoError(t, err)
		assert.Equal(t, model.ParcelPending, p.Status)

		require.NoError(t, logs.Create(ctx, &LogEntryDocument{Level: "info", Message: "test"}))

		assert.Equal(t, circuitbreaker.StateClosed, cb.State())
		assert.True(t, cb.GetStats().IsHealthy)
	})

	t.Run("repeated misses do not open the circuit", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			_, err := parcels.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			_, err = carts.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)
		}
		assert.Equal(t, circuitbreaker.StateClosed, cb.State())
	})

	t.Run("status conflicts do not open the circuit", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			_, err := parcels.Transition(ctx, "PK11", StatusChange{From: model.ParcelReceived, To: model.ParcelDispatched})
			assert.ErrorIs(t, err, ErrStatusConflict)
		}
		assert.Equal(t, circuitbreaker.StateClosed, cb.State())
	})
}
