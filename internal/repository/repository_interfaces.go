package repository

import (
	"context"
	"errors"
	"time"

	"github.com/guttosm/cargo-service/internal/domain/model"
)

var (
	// ErrNotFound is returned when a looked-up document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrStatusConflict is returned when a parcel is not in the status a
	// conditional update expects.
	ErrStatusConflict = errors.New("parcel status changed concurrently")
)

// ParcelItemRepositoryInterface stores expanded packing-list records.
type ParcelItemRepositoryInterface interface {
	InsertMany(ctx context.Context, items []model.ParcelItem) error
	// DeleteByPackingRefs removes the items of a session imported under
	// any of refs. An empty ref matches items without a packing ref.
	DeleteByPackingRefs(ctx context.Context, sessionID string, refs []string) (int64, error)
	FindBySession(ctx context.Context, sessionID string) ([]model.ParcelItem, error)
	FindByParcel(ctx context.Context, parcelNumber string) ([]model.ParcelItem, error)
	FindByProject(ctx context.Context, projectCode string) ([]model.ParcelItem, error)
	FindByParcels(ctx context.Context, parcelNumbers []string) ([]model.ParcelItem, error)
}

// SummaryRepositoryInterface stores cargo-summary rows.
type SummaryRepositoryInterface interface {
	InsertMany(ctx context.Context, sessionID string, records []model.SummaryRecord) error
	FindBySession(ctx context.Context, sessionID string) ([]model.SummaryRecord, error)
}

// StatusChange describes a conditional parcel status transition. Empty
// fields are left untouched unless ClearReception is set.
type StatusChange struct {
	From            model.ParcelStatus
	To              model.ParcelStatus
	At              time.Time
	ReceptionNumber string
	PalletNumber    string
	Note            string
	OrderType       string
	ExpDate         string
	BatchNo         string
	// ClearReception removes the reception data (unreceive).
	ClearReception bool
}

// ParcelRepositoryInterface is the parcel-status registry.
type ParcelRepositoryInterface interface {
	// Register inserts unknown parcels as pending and refreshes the
	// session and project of known ones without touching their status.
	Register(ctx context.Context, parcels []model.Parcel) error
	Get(ctx context.Context, parcelNumber string) (*model.Parcel, error)
	FindByNumbers(ctx context.Context, parcelNumbers []string) ([]model.Parcel, error)
	// Transition applies change when the parcel is in change.From.
	Transition(ctx context.Context, parcelNumber string, change StatusChange) (*model.Parcel, error)
	SetNote(ctx context.Context, parcelNumber, note string) error
}

// CartRepositoryInterface stores dispatch carts.
type CartRepositoryInterface interface {
	Create(ctx context.Context, cart *model.DispatchCart) error
	Get(ctx context.Context, id string) (*model.DispatchCart, error)
	SaveParcels(ctx context.Context, id string, parcels []string) error
}

// LogsRepositoryInterface defines the interface for logs repository operations.
type LogsRepositoryInterface interface {
	Create(ctx context.Context, entry *LogEntryDocument) error
	CreateMany(ctx context.Context, entries []*LogEntryDocument) error
	Query(ctx context.Context, opts LogQueryOptions) ([]*LogEntryDocument, error)
	Count(ctx context.Context, opts LogQueryOptions) (int64, error)
}
