//go:build integration

package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/cargo-service/internal/circuitbreaker"
	"github.com/guttosm/cargo-service/internal/domain/model"
	"github.com/guttosm/cargo-service/internal/repository"
	"github.com/guttosm/cargo-service/internal/service"
	"github.com/guttosm/cargo-service/internal/testutil"
)

func TestLoggingService_Integration(t *testing.T) {
	ctx := context.Background()

	mongoContainer, err := testutil.SetupMongoDB(ctx)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, mongoContainer.Cleanup(ctx))
	}()

	db, err := repository.NewMongoDB(mongoContainer.URI, "test_cargo_logging")
	require.NoError(t, err)
	defer func() {
		_ = db.Close(ctx)
	}()
	require.NoError(t, db.SetLogsTTL(ctx, 30))

	cb := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: 2,
		SuccessThreshold: 1,
		Timeout:          100 * time.Millisecond,
		Name:             "test-logs",
	})
	svc := service.NewLoggingService(repository.NewLogsRepositoryWithCircuitBreaker(repository.NewLogsRepository(db), cb))

	t.Run("create single log", func(t *testing.T) {
		entry := &model.LogEntry{
			Level:      "info",
			Message:    "Parcel received",
			RequestID:  "req-receive",
			Method:     "POST",
			Path:       "/api/v1/parcels/PK11/receive",
			ActionType: model.ActionReceiveParcel,
		}
		require.NoError(t, svc.CreateLog(ctx, entry))
		assert.False(t, entry.ID.IsZero())
	})

	t.Run("create multiple logs", func(t *testing.T) {
		require.NoError(t, svc.CreateLogs(ctx, []*model.LogEntry{
			{Level: "info", Message: "Request completed", RequestID: "req-1"},
			{Level: "error", Message: "Request failed", RequestID: "req-2"},
		}))
	})

	t.Run("query by request id", func(t *testing.T) {
		entries, err := svc.QueryLogs(ctx, model.LogQueryOptions{RequestID: "req-receive"})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, model.ActionReceiveParcel, entries[0].ActionType)
	})

	t.Run("query by level", func(t *testing.T) {
		entries, err := svc.QueryLogs(ctx, model.LogQueryOptions{Level: "error"})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "req-2", entries[0].RequestID)
	})

	t.Run("count with time range", func(t *testing.T) {
		start := time.Now().Add(-time.Hour)
		end := time.Now().Add(time.Hour)
		n, err := svc.CountLogs(ctx, model.LogQueryOptions{StartTime: &start, EndTime: &end})
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})
}
