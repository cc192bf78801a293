//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/cargo-service/internal/domain/model"
)

func f64(v float64) *float64 { return &v }

func TestParcelItemRepository_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDBFromSharedContainer(t)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()
	repo := NewParcelItemRepository(db)

	items := []model.ParcelItem{
		{SessionID: "s-1", ProjectCode: "P1", ExpandedParcelRecord: model.ExpandedParcelRecord{ParcelNumber: "PK11", PackingRef: "PK1", ItemCode: "A", Qty: f64(5), ParcelNb: 1}},
		{SessionID: "s-1", ProjectCode: "P1", ExpandedParcelRecord: model.ExpandedParcelRecord{ParcelNumber: "PK12", PackingRef: "PK1", ItemCode: "A", Qty: f64(5), ParcelNb: 2}},
		{SessionID: "s-2", ProjectCode: "P2", ExpandedParcelRecord: model.ExpandedParcelRecord{ParcelNumber: "PK21", PackingRef: "PK2", ItemCode: "B", ParcelNb: 1}},
	}
	require.NoError(t, repo.InsertMany(ctx, items))

	t.Run("find by session keeps import order", func(t *testing.T) {
		got, err := repo.FindBySession(ctx, "s-1")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "PK11", got[0].ParcelNumber)
		assert.Equal(t, "PK12", got[1].ParcelNumber)
		assert.Equal(t, 5.0, *got[0].Qty)
	})

	t.Run("find by parcel", func(t *testing.T) {
		got, err := repo.FindByParcel(ctx, "PK21")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Nil(t, got[0].Qty)
	})

	t.Run("find by project", func(t *testing.T) {
		got, err := repo.FindByProject(ctx, "P1")
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("find by parcels", func(t *testing.T) {
		got, err := repo.FindByParcels(ctx, []string{"PK12", "PK21"})
		require.NoError(t, err)
		assert.Len(t, got, 2)

		got, err = repo.FindByParcels(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("empty insert is a no-op", func(t *testing.T) {
		assert.NoError(t, repo.InsertMany(ctx, nil))
	})

	t.Run("delete by packing refs stays in the session", func(t *testing.T) {
		require.NoError(t, repo.InsertMany(ctx, []model.ParcelItem{
			{SessionID: "s-3", ExpandedParcelRecord: model.ExpandedParcelRecord{ParcelNumber: "PK31", PackingRef: "PK3", ItemCode: "C"}},
			{SessionID: "s-3", ExpandedParcelRecord: model.ExpandedParcelRecord{ItemCode: "D"}},
			{SessionID: "s-3", ExpandedParcelRecord: model.ExpandedParcelRecord{ParcelNumber: "PK41", PackingRef: "PK4", ItemCode: "E"}},
			{SessionID: "s-4", ExpandedParcelRecord: model.ExpandedParcelRecord{ParcelNumber: "PK31", PackingRef: "PK3", ItemCode: "C"}},
		}))

		n, err := repo.DeleteByPackingRefs(ctx, "s-3", []string{"PK3", ""})
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		got, err := repo.FindBySession(ctx, "s-3")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "PK41", got[0].ParcelNumber)

		got, err = repo.FindBySession(ctx, "s-4")
		require.NoError(t, err)
		assert.Len(t, got, 1)

		n, err = repo.DeleteByPackingRefs(ctx, "s-3", nil)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestSummaryRepository_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDBFromSharedContainer(t)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()
	repo := NewSummaryRepository(db)

	require.NoError(t, repo.InsertMany(ctx, "s-1", []model.SummaryRecord{
		{ParcelNumber: "PK11", WeightKg: f64(12.5), TransportReception: "TR-1"},
		{ParcelNumber: "PK99", VolumeM3: f64(0.3)},
	}))

	got, err := repo.FindBySession(ctx, "s-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "PK11", got[0].ParcelNumber)
	assert.Equal(t, 12.5, *got[0].WeightKg)
	assert.Nil(t, got[0].VolumeM3)

	other, err := repo.FindBySession(ctx, "s-2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestParcelRepository_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDBFromSharedContainer(t)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()
	repo := NewParcelRepository(db)

	require.NoError(t, repo.Register(ctx, []model.Parcel{
		{ParcelNumber: "PK11", SessionID: "s-1", ProjectCode: "P1"},
		{ParcelNumber: "PK12", SessionID: "s-1", ProjectCode: "P1"},
		{ParcelNumber: ""},
	}))

	t.Run("registered parcels start pending", func(t *testing.T) {
		p, err := repo.Get(ctx, "PK11")
		require.NoError(t, err)
		assert.Equal(t, model.ParcelPending, p.Status)
		assert.Equal(t, "P1", p.ProjectCode)
	})

	t.Run("unknown parcel", func(t *testing.T) {
		_, err := repo.Get(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = repo.Transition(ctx, "nope", StatusChange{From: model.ParcelPending, To: model.ParcelReceived})
		assert.ErrorIs(t, err, ErrNotFound)

		assert.ErrorIs(t, repo.SetNote(ctx, "nope", "x"), ErrNotFound)
	})

	t.Run("receive then conflict", func(t *testing.T) {
		p, err := repo.Transition(ctx, "PK11", StatusChange{
			From:            model.ParcelPending,
			To:              model.ParcelReceived,
			At:              time.Now().UTC(),
			ReceptionNumber: "REC-1",
			PalletNumber:    "PAL-1",
		})
		require.NoError(t, err)
		assert.Equal(t, model.ParcelReceived, p.Status)
		assert.Equal(t, "REC-1", p.ReceptionNumber)
		assert.NotNil(t, p.ReceivedAt)

		_, err = repo.Transition(ctx, "PK11", StatusChange{From: model.ParcelPending, To: model.ParcelReceived})
		assert.ErrorIs(t, err, ErrStatusConflict)
	})

	t.Run("re-register keeps status", func(t *testing.T) {
		require.NoError(t, repo.Register(ctx, []model.Parcel{{ParcelNumber: "PK11", SessionID: "s-2"}}))

		p, err := repo.Get(ctx, "PK11")
		require.NoError(t, err)
		assert.Equal(t, model.ParcelReceived, p.Status)
		assert.Equal(t, "s-2", p.SessionID)
		assert.Equal(t, "REC-1", p.ReceptionNumber)
	})

	t.Run("unreceive clears reception data", func(t *testing.T) {
		p, err := repo.Transition(ctx, "PK11", StatusChange{
			From:           model.ParcelReceived,
			To:             model.ParcelPending,
			ClearReception: true,
		})
		require.NoError(t, err)
		assert.Equal(t, model.ParcelPending, p.Status)
		assert.Empty(t, p.ReceptionNumber)
		assert.Nil(t, p.ReceivedAt)
	})

	t.Run("dispatch only moves received parcels", func(t *testing.T) {
		_, err := repo.Transition(ctx, "PK12", StatusChange{From: model.ParcelPending, To: model.ParcelReceived})
		require.NoError(t, err)

		_, err = repo.Transition(ctx, "PK11", StatusChange{From: model.ParcelReceived, To: model.ParcelDispatched})
		assert.ErrorIs(t, err, ErrStatusConflict)
		_, err = repo.Transition(ctx, "PK12", StatusChange{From: model.ParcelReceived, To: model.ParcelDispatched})
		require.NoError(t, err)

		found, err := repo.FindByNumbers(ctx, []string{"PK11", "PK12", "missing"})
		require.NoError(t, err)
		require.Len(t, found, 2)
		statuses := map[string]model.ParcelStatus{}
		for _, p := range found {
			statuses[p.ParcelNumber] = p.Status
		}
		assert.Equal(t, model.ParcelPending, statuses["PK11"])
		assert.Equal(t, model.ParcelDispatched, statuses["PK12"])
	})

	t.Run("set note", func(t *testing.T) {
		require.NoError(t, repo.SetNote(ctx, "PK11", "dented box"))
		p, err := repo.Get(ctx, "PK11")
		require.NoError(t, err)
		assert.Equal(t, "dented box", p.Note)
	})
}

func TestCartRepository_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDBFromSharedContainer(t)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()
	repo := NewCartRepository(db)

	now := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, repo.Create(ctx, &model.DispatchCart{ID: "cart-1", ProjectCode: "P1", CreatedAt: now, UpdatedAt: now}))

	cart, err := repo.Get(ctx, "cart-1")
	require.NoError(t, err)
	assert.Equal(t, "P1", cart.ProjectCode)
	assert.Empty(t, cart.Parcels)
	assert.NotNil(t, cart.Parcels)

	require.NoError(t, repo.SaveParcels(ctx, "cart-1", []string{"PK12", "PK11"}))
	cart, err = repo.Get(ctx, "cart-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"PK12", "PK11"}, cart.Parcels)

	assert.ErrorIs(t, repo.SaveParcels(ctx, "missing", nil), ErrNotFound)
	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
