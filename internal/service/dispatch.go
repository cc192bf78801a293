package service

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/guttosm/cargo-service/internal/domain/model"
	"github.com/guttosm/cargo-service/internal/logger"
	"github.com/guttosm/cargo-service/internal/metrics"
	"github.com/guttosm/cargo-service/internal/repository"
	"github.com/guttosm/cargo-service/internal/spreadsheet"
)

// DispatchSheet is the sheet name of the exported dispatch packing list.
const DispatchSheet = "Dispatch PL"

var (
	// ErrCartNotFound is returned for an unknown cart id.
	ErrCartNotFound = errors.New("dispatch cart not found")
	// ErrCartEmpty is returned when confirming or exporting an empty cart.
	ErrCartEmpty = errors.New("dispatch cart is empty")
	// ErrProjectRequired is returned when a cart is created without a project.
	ErrProjectRequired = errors.New("project code is required")
)

// TilesInput is a stateless parcel-map request.
type TilesInput struct {
	Items    []model.ParcelItem
	Statuses StatusMap
	Selected []string
	Filter   GroupFilter
}

// ToggleInput is a stateless selection toggle.
type ToggleInput struct {
	Selected     []string
	ParcelNumber string
	Status       model.ParcelStatus
}

// ToggleResult is a toggle outcome with the resulting selection.
type ToggleResult struct {
	ToggleOutcome
	Selection []string `json:"selection"`
}

// CartView is a cart with its project's parcel map.
type CartView struct {
	Cart   *model.DispatchCart `json:"cart"`
	Groups []model.GroupTiles  `json:"groups"`
}

// ConfirmResult lists what a dispatch confirmation moved.
type ConfirmResult struct {
	CartID     string   `json:"cart_id"`
	Dispatched []string `json:"dispatched"`
	// Skipped holds selected parcels that were no longer received.
	Skipped []string `json:"skipped"`
}

// DispatchService stages received parcels into carts and dispatches them.
type DispatchService interface {
	Tiles(in TilesInput) []model.GroupTiles
	Toggle(in ToggleInput) (*ToggleResult, error)
	CreateCart(ctx context.Context, projectCode, sessionID string) (*model.DispatchCart, error)
	Cart(ctx context.Context, id string, f GroupFilter) (*CartView, error)
	ToggleCart(ctx context.Context, id, parcelNumber string) (*ToggleResult, error)
	Confirm(ctx context.Context, id string) (*ConfirmResult, error)
	Export(ctx context.Context, id string, w io.Writer) error
}

// DispatchRepositories bundles the stores a DispatchServiceImpl needs.
type DispatchRepositories struct {
	Items   repository.ParcelItemRepositoryInterface
	Parcels repository.ParcelRepositoryInterface
	Carts   repository.CartRepositoryInterface
}

func (r DispatchRepositories) configured() bool {
	return r.Items != nil && r.Parcels != nil && r.Carts != nil
}

// cartLockStripes is the number of mutexes cart ids are hashed onto.
const cartLockStripes = 64

// DispatchServiceImpl implements DispatchService. Mutations of one cart
// are serialised; carts on different stripes proceed in parallel.
type DispatchServiceImpl struct {
	repos DispatchRepositories
	locks [cartLockStripes]sync.Mutex
	now   func() time.Time
}

// NewDispatchService creates a dispatch service.
func NewDispatchService(repos DispatchRepositories) *DispatchServiceImpl {
	return &DispatchServiceImpl{repos: repos, now: time.Now}
}

func (s *DispatchServiceImpl) lock(id string) func() {
	mu := &s.locks[cartStripe(id)]
	mu.Lock()
	return mu.Unlock
}

// cartStripe maps a cart id onto a lock stripe using FNV hash.
func cartStripe(id string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(id))
	return h.Sum32() % cartLockStripes
}

// Tiles groups the supplied items and renders their tiles.
func (s *DispatchServiceImpl) Tiles(in TilesInput) []model.GroupTiles {
	return BuildParcelMap(in.Items, in.Statuses, NewSelection(in.Selected...), in.Filter)
}

// Toggle applies the selection guard to a supplied selection.
func (s *DispatchServiceImpl) Toggle(in ToggleInput) (*ToggleResult, error) {
	sel := NewSelection(in.Selected...)
	outcome, err := toggle(sel, in.ParcelNumber, in.Status)
	if err != nil {
		return nil, err
	}
	return &ToggleResult{ToggleOutcome: outcome, Selection: sel.Parcels()}, nil
}

func toggle(sel *Selection, parcel string, base model.ParcelStatus) (ToggleOutcome, error) {
	outcome, err := sel.Toggle(parcel, base)
	var selErr *SelectionError
	switch {
	case errors.As(err, &selErr):
		metrics.RecordSelectionToggle(string(selErr.Reason))
	case outcome.Selected:
		metrics.RecordSelectionToggle("selected")
	default:
		metrics.RecordSelectionToggle("deselected")
	}
	return outcome, err
}

// CreateCart opens an empty cart for a project.
func (s *DispatchServiceImpl) CreateCart(ctx context.Context, projectCode, sessionID string) (*model.DispatchCart, error) {
	if !s.repos.configured() {
		return nil, ErrRepositoryNotConfigured
	}
	projectCode = strings.TrimSpace(projectCode)
	if projectCode == "" {
		return nil, ErrProjectRequired
	}

	now := s.now().UTC()
	cart := &model.DispatchCart{
		ID:          uuid.NewString(),
		ProjectCode: projectCode,
		SessionID:   strings.TrimSpace(sessionID),
		Parcels:     []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repos.Carts.Create(ctx, cart); err != nil {
		return nil, fmt.Errorf("create cart: %w", err)
	}
	return cart, nil
}

// Cart returns a cart with the grouped tiles of its session, or of its
// project when the cart has no session.
func (s *DispatchServiceImpl) Cart(ctx context.Context, id string, f GroupFilter) (*CartView, error) {
	if !s.repos.configured() {
		return nil, ErrRepositoryNotConfigured
	}
	cart, err := s.cart(ctx, id)
	if err != nil {
		return nil, err
	}

	items, err := s.cartItems(ctx, cart)
	if err != nil {
		return nil, err
	}
	statuses, err := s.statuses(ctx, parcelNumbers(items))
	if err != nil {
		return nil, err
	}

	return &CartView{
		Cart:   cart,
		Groups: BuildParcelMap(items, statuses, NewSelection(cart.Parcels...), f),
	}, nil
}

// ToggleCart applies the selection guard to a persisted cart.
func (s *DispatchServiceImpl) ToggleCart(ctx context.Context, id, parcelNumber string) (*ToggleResult, error) {
	if !s.repos.configured() {
		return nil, ErrRepositoryNotConfigured
	}
	parcelNumber = strings.TrimSpace(parcelNumber)
	if parcelNumber == "" {
		return nil, ErrParcelNumberRequired
	}

	unlock := s.lock(id)
	defer unlock()

	cart, err := s.cart(ctx, id)
	if err != nil {
		return nil, err
	}

	sel := NewSelection(cart.Parcels...)
	var base model.ParcelStatus
	if !sel.Contains(parcelNumber) {
		parcel, err := s.repos.Parcels.Get(ctx, parcelNumber)
		if err != nil {
			return nil, lifecycleError(err)
		}
		base = parcel.Status
	}

	outcome, err := toggle(sel, parcelNumber, base)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Carts.SaveParcels(ctx, id, sel.Parcels()); err != nil {
		return nil, cartError(err)
	}
	return &ToggleResult{ToggleOutcome: outcome, Selection: sel.Parcels()}, nil
}

// Confirm dispatches every received parcel of the cart and empties it.
func (s *DispatchServiceImpl) Confirm(ctx context.Context, id string) (*ConfirmResult, error) {
	if !s.repos.configured() {
		return nil, ErrRepositoryNotConfigured
	}

	unlock := s.lock(id)
	defer unlock()

	cart, err := s.cart(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(cart.Parcels) == 0 {
		return nil, ErrCartEmpty
	}

	// Each parcel moves only from received, so a parcel dispatched or
	// reverted elsewhere since it was selected is skipped.
	change := repository.StatusChange{
		From: model.ParcelReceived,
		To:   model.ParcelDispatched,
		At:   s.now().UTC(),
	}
	result := &ConfirmResult{CartID: id, Dispatched: []string{}, Skipped: []string{}}
	defer func() {
		metrics.RecordParcelTransitions(string(model.ParcelReceived), string(model.ParcelDispatched), int64(len(result.Dispatched)))
	}()
	for _, p := range cart.Parcels {
		_, err := s.repos.Parcels.Transition(ctx, p, change)
		switch {
		case err == nil:
			result.Dispatched = append(result.Dispatched, p)
		case errors.Is(err, repository.ErrStatusConflict), errors.Is(err, repository.ErrNotFound):
			result.Skipped = append(result.Skipped, p)
		default:
			return nil, fmt.Errorf("dispatch parcel %s: %w", p, err)
		}
	}

	if err := s.repos.Carts.SaveParcels(ctx, id, []string{}); err != nil {
		return nil, cartError(err)
	}

	log := logger.ForCart(id, cart.ProjectCode)
	log.Info().
		Int("dispatched", len(result.Dispatched)).
		Int("skipped", len(result.Skipped)).
		Msg("Dispatch confirmed")
	return result, nil
}

// Export writes the item lines of the cart's parcels as an xlsx workbook.
func (s *DispatchServiceImpl) Export(ctx context.Context, id string, w io.Writer) error {
	if !s.repos.configured() {
		return ErrRepositoryNotConfigured
	}
	cart, err := s.cart(ctx, id)
	if err != nil {
		return err
	}
	if len(cart.Parcels) == 0 {
		return ErrCartEmpty
	}

	items, err := s.repos.Items.FindByParcels(ctx, cart.Parcels)
	if err != nil {
		return err
	}
	return spreadsheet.WriteXLSX(w, DispatchTable(cart.Parcels, items))
}

// DispatchTable lays out item lines in cart order.
func DispatchTable(parcels []string, items []model.ParcelItem) spreadsheet.Table {
	byParcel := make(map[string][]model.ParcelItem, len(parcels))
	for _, it := range items {
		byParcel[it.ParcelNumber] = append(byParcel[it.ParcelNumber], it)
	}

	t := spreadsheet.Table{
		Sheet:  DispatchSheet,
		Header: []string{"Parcel number", "Item code", "Description", "Qty", "Batch no", "Exp. date", "Weight (kg)", "Volume (dm3)"},
	}
	for _, p := range parcels {
		for _, it := range byParcel[p] {
			t.Rows = append(t.Rows, []any{
				it.ParcelNumber,
				it.ItemCode,
				it.ItemDescription,
				cellValue(it.Qty),
				it.BatchNo,
				it.ExpDate,
				cellValue(it.WeightKg),
				cellValue(it.VolumeDm3),
			})
		}
	}
	return t
}

func cellValue(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func (s *DispatchServiceImpl) cart(ctx context.Context, id string) (*model.DispatchCart, error) {
	cart, err := s.repos.Carts.Get(ctx, id)
	if err != nil {
		return nil, cartError(err)
	}
	return cart, nil
}

func (s *DispatchServiceImpl) cartItems(ctx context.Context, cart *model.DispatchCart) ([]model.ParcelItem, error) {
	if cart.SessionID != "" {
		return s.repos.Items.FindBySession(ctx, cart.SessionID)
	}
	return s.repos.Items.FindByProject(ctx, cart.ProjectCode)
}

func (s *DispatchServiceImpl) statuses(ctx context.Context, numbers []string) (StatusMap, error) {
	parcels, err := s.repos.Parcels.FindByNumbers(ctx, uniqueNonEmpty(numbers))
	if err != nil {
		return nil, err
	}
	out := make(StatusMap, len(parcels))
	for _, p := range parcels {
		out[p.ParcelNumber] = p.Status
	}
	return out, nil
}

func parcelNumbers(items []model.ParcelItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ParcelNumber
	}
	return out
}

func cartError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrCartNotFound
	}
	return err
}
