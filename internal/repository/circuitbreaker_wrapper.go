package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/guttosm/cargo-service/internal/circuitbreaker"
	"github.com/guttosm/cargo-service/internal/domain/model"
)

// CountsAsFailure reports whether err signals an unhealthy database.
// Lookup misses, status conflicts, duplicate keys and cancelled requests
// do not trip a breaker.
func CountsAsFailure(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrStatusConflict),
		errors.Is(err, context.Canceled),
		mongo.IsDuplicateKeyError(err):
		return false
	}
	return true
}

func guard[T any](ctx context.Context, cb *circuitbreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	var result T
	err := cb.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = fn()
		return cbErr
	})
	return result, err
}

// ParcelItemRepositoryWithCircuitBreaker guards a parcel item repository.
type ParcelItemRepositoryWithCircuitBreaker struct {
	repo           ParcelItemRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewParcelItemRepositoryWithCircuitBreaker wraps repo with cb.
func NewParcelItemRepositoryWithCircuitBreaker(repo ParcelItemRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *ParcelItemRepositoryWithCircuitBreaker {
	return &ParcelItemRepositoryWithCircuitBreaker{repo: repo, circuitBreaker: cb}
}

func (r *ParcelItemRepositoryWithCircuitBreaker) InsertMany(ctx context.Context, items []model.ParcelItem) error {
	return r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.InsertMany(ctx, items)
	})
}

func (r *ParcelItemRepositoryWithCircuitBreaker) DeleteByPackingRefs(ctx context.Context, sessionID string, refs []string) (int64, error) {
	return guard(ctx, r.circuitBreaker, func() (int64, error) {
		return r.repo.DeleteByPackingRefs(ctx, sessionID, refs)
	})
}

func (r *ParcelItemRepositoryWithCircuitBreaker) FindBySession(ctx context.Context, sessionID string) ([]model.ParcelItem, error) {
	return guard(ctx, r.circuitBreaker, func() ([]model.ParcelItem, error) {
		return r.repo.FindBySession(ctx, sessionID)
	})
}

func (r *ParcelItemRepositoryWithCircuitBreaker) FindByParcel(ctx context.Context, parcelNumber string) ([]model.ParcelItem, error) {
	return guard(ctx, r.circuitBreaker, func() ([]model.ParcelItem, error) {
		return r.repo.FindByParcel(ctx, parcelNumber)
	})
}

func (r *ParcelItemRepositoryWithCircuitBreaker) FindByProject(ctx context.Context, projectCode string) ([]model.ParcelItem, error) {
	return guard(ctx, r.circuitBreaker, func() ([]model.ParcelItem, error) {
		return r.repo.FindByProject(ctx, projectCode)
	})
}

func (r *ParcelItemRepositoryWithCircuitBreaker) FindByParcels(ctx context.Context, parcelNumbers []string) ([]model.ParcelItem, error) {
	return guard(ctx, r.circuitBreaker, func() ([]model.ParcelItem, error) {
		return r.repo.FindByParcels(ctx, parcelNumbers)
	})
}

// SummaryRepositoryWithCircuitBreaker guards a cargo summary repository.
type SummaryRepositoryWithCircuitBreaker struct {
	repo           SummaryRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewSummaryRepositoryWithCircuitBreaker wraps repo with cb.
func NewSummaryRepositoryWithCircuitBreaker(repo SummaryRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *SummaryRepositoryWithCircuitBreaker {
	return &SummaryRepositoryWithCircuitBreaker{repo: repo, circuitBreaker: cb}
}

func (r *SummaryRepositoryWithCircuitBreaker) InsertMany(ctx context.Context, sessionID string, records []model.SummaryRecord) error {
	return r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.InsertMany(ctx, sessionID, records)
	})
}

func (r *SummaryRepositoryWithCircuitBreaker) FindBySession(ctx context.Context, sessionID string) ([]model.SummaryRecord, error) {
	return guard(ctx, r.circuitBreaker, func() ([]model.SummaryRecord, error) {
		return r.repo.FindBySession(ctx, sessionID)
	})
}

// ParcelRepositoryWithCircuitBreaker guards the parcel-status registry.
type ParcelRepositoryWithCircuitBreaker struct {
	repo           ParcelRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewParcelRepositoryWithCircuitBreaker wraps repo with cb.
func NewParcelRepositoryWithCircuitBreaker(repo ParcelRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *ParcelRepositoryWithCircuitBreaker {
	return &ParcelRepositoryWithCircuitBreaker{repo: repo, circuitBreaker: cb}
}

func (r *ParcelRepositoryWithCircuitBreaker) Register(ctx context.Context, parcels []model.Parcel) error {
	return r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Register(ctx, parcels)
	})
}

func (r *ParcelRepositoryWithCircuitBreaker) Get(ctx context.Context, parcelNumber string) (*model.Parcel, error) {
	return guard(ctx, r.circuitBreaker, func() (*model.Parcel, error) {
		return r.repo.Get(ctx, parcelNumber)
	})
}

func (r *ParcelRepositoryWithCircuitBreaker) FindByNumbers(ctx context.Context, parcelNumbers []string) ([]model.Parcel, error) {
	return guard(ctx, r.circuitBreaker, func() ([]model.Parcel, error) {
		return r.repo.FindByNumbers(ctx, parcelNumbers)
	})
}

func (r *ParcelRepositoryWithCircuitBreaker) Transition(ctx context.Context, parcelNumber string, change StatusChange) (*model.Parcel, error) {
	return guard(ctx, r.circuitBreaker, func() (*model.Parcel, error) {
		return r.repo.Transition(ctx, parcelNumber, change)
	})
}

func (r *ParcelRepositoryWithCircuitBreaker) SetNote(ctx context.Context, parcelNumber, note string) error {
	return r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.SetNote(ctx, parcelNumber, note)
	})
}

// CartRepositoryWithCircuitBreaker guards the dispatch cart repository.
type CartRepositoryWithCircuitBreaker struct {
	repo           CartRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewCartRepositoryWithCircuitBreaker wraps repo with cb.
func NewCartRepositoryWithCircuitBreaker(repo CartRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *CartRepositoryWithCircuitBreaker {
	return &CartRepositoryWithCircuitBreaker{repo: repo, circuitBreaker: cb}
}

func (r *CartRepositoryWithCircuitBreaker) Create(ctx context.Context, cart *model.DispatchCart) error {
	return r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Create(ctx, cart)
	})
}

func (r *CartRepositoryWithCircuitBreaker) Get(ctx context.Context, id string) (*model.DispatchCart, error) {
	return guard(ctx, r.circuitBreaker, func() (*model.DispatchCart, error) {
		return r.repo.Get(ctx, id)
	})
}

func (r *CartRepositoryWithCircuitBreaker) SaveParcels(ctx context.Context, id string, parcels []string) error {
	return r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.SaveParcels(ctx, id, parcels)
	})
}

// LogsRepositoryWithCircuitBreaker guards the logs repository. Writes are
// dropped silently while the circuit is open.
type LogsRepositoryWithCircuitBreaker struct {
	repo           LogsRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewLogsRepositoryWithCircuitBreaker wraps repo with cb.
func NewLogsRepositoryWithCircuitBreaker(repo LogsRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *LogsRepositoryWithCircuitBreaker {
	return &LogsRepositoryWithCircuitBreaker{repo: repo, circuitBreaker: cb}
}

func (r *LogsRepositoryWithCircuitBreaker) Create(ctx context.Context, entry *LogEntryDocument) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Create(ctx, entry)
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil
	}
	return err
}

func (r *LogsRepositoryWithCircuitBreaker) CreateMany(ctx context.Context, entries []*LogEntryDocument) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.CreateMany(ctx, entries)
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil
	}
	return err
}

func (r *LogsRepositoryWithCircuitBreaker) Query(ctx context.Context, opts LogQueryOptions) ([]*LogEntryDocument, error) {
	return guard(ctx, r.circuitBreaker, func() ([]*LogEntryDocument, error) {
		return r.repo.Query(ctx, opts)
	})
}

func (r *LogsRepositoryWithCircuitBreaker) Count(ctx context.Context, opts LogQueryOptions) (int64, error) {
	return guard(ctx, r.circuitBreaker, func() (int64, error) {
		return r.repo.Count(ctx, opts)
	})
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *LogsRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}
