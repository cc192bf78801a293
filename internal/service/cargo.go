package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/guttosm/cargo-service/internal/domain/model"
	"github.com/guttosm/cargo-service/internal/logger"
	"github.com/guttosm/cargo-service/internal/metrics"
	"github.com/guttosm/cargo-service/internal/repository"
)

// NoExpiry is the expiry value entered for goods without an expiry date.
const NoExpiry = "N/A"

var (
	// ErrRepositoryNotConfigured is returned when persistence is disabled.
	ErrRepositoryNotConfigured = errors.New("repository not configured")
	// ErrParcelNotFound is returned for a parcel absent from the registry.
	ErrParcelNotFound = errors.New("parcel not found")
	// ErrInvalidTransition is returned when a parcel is not in the status
	// the requested change starts from.
	ErrInvalidTransition = errors.New("invalid parcel status transition")
	// ErrExpiryInPast is returned when a received parcel's expiry has passed.
	ErrExpiryInPast = errors.New("expiry date is in the past")
	// ErrInvalidExpiry is returned for an expiry that is neither N/A nor a date.
	ErrInvalidExpiry = errors.New("invalid expiry date")
	// ErrParcelNumberRequired is returned when a parcel number is blank.
	ErrParcelNumberRequired = errors.New("parcel number is required")
)

// ImportInput is an uploaded sheet to persist into a session.
type ImportInput struct {
	// SessionID groups imports; a new one is generated when empty.
	SessionID   string
	ProjectCode string
	Rows        []model.Row
}

// ImportResult is the outcome of a persisted import.
type ImportResult struct {
	SessionID string             `json:"session_id"`
	Parcels   int                `json:"parcels"`
	Report    model.ImportReport `json:"report"`
}

// ReceiveInput is the reception of one physical parcel.
type ReceiveInput struct {
	ParcelNumber string
	PalletNumber string
	Notes        string
	OrderType    string
	ExpDate      string
	BatchNo      string
}

// CargoService imports cargo documents and tracks parcel reception.
type CargoService interface {
	ImportPackingList(ctx context.Context, in ImportInput) (*ImportResult, error)
	ImportSummary(ctx context.Context, in ImportInput) (*ImportResult, error)
	// Overview reconciles a session's packing list, summary and registry.
	Overview(ctx context.Context, sessionID string) ([]model.ParcelOverview, error)
	ParcelItems(ctx context.Context, parcelNumber string) ([]model.ParcelItem, error)
	Stats(ctx context.Context, sessionID string) (model.ParcelStats, error)
	ReceiveParcel(ctx context.Context, in ReceiveInput) (*model.Parcel, error)
	UnreceiveParcel(ctx context.Context, parcelNumber string) (*model.Parcel, error)
	SetParcelNote(ctx context.Context, parcelNumber, note string) error
}

// CargoRepositories bundles the stores a CargoServiceImpl needs.
type CargoRepositories struct {
	Items   repository.ParcelItemRepositoryInterface
	Summary repository.SummaryRepositoryInterface
	Parcels repository.ParcelRepositoryInterface
}

func (r CargoRepositories) configured() bool {
	return r.Items != nil && r.Summary != nil && r.Parcels != nil
}

// CargoServiceImpl implements CargoService.
type CargoServiceImpl struct {
	importer Importer
	repos    CargoRepositories
	now      func() time.Time
}

// NewCargoService creates a cargo service. Persistence operations return
// ErrRepositoryNotConfigured when any repository is nil.
func NewCargoService(importer Importer, repos CargoRepositories) *CargoServiceImpl {
	return &CargoServiceImpl{
		importer: importer,
		repos:    repos,
		now:      time.Now,
	}
}

// WithClock replaces the time source used for expiry checks and
// reception numbers.
func (s *CargoServiceImpl) WithClock(now func() time.Time) *CargoServiceImpl {
	s.now = now
	return s
}

// ImportPackingList parses a packing list, stores its expanded records and
// registers every parcel it names.
func (s *CargoServiceImpl) ImportPackingList(ctx context.Context, in ImportInput) (*ImportResult, error) {
	if !s.repos.configured() {
		return nil, ErrRepositoryNotConfigured
	}
	report, err := s.importer.Import(model.SheetKindPacking, in.Rows)
	if err != nil {
		return nil, err
	}

	sessionID := sessionOrNew(in.SessionID)
	items := make([]model.ParcelItem, len(report.Records))
	var parcels []model.Parcel
	seen := make(map[string]struct{})
	for i, r := range report.Records {
		items[i] = model.ParcelItem{ExpandedParcelRecord: r, SessionID: sessionID, ProjectCode: in.ProjectCode}
		if _, ok := seen[r.ParcelNumber]; ok || r.ParcelNumber == "" {
			continue
		}
		seen[r.ParcelNumber] = struct{}{}
		parcels = append(parcels, model.Parcel{
			ParcelNumber: r.ParcelNumber,
			SessionID:    sessionID,
			ProjectCode:  in.ProjectCode,
			PackingRef:   r.PackingRef,
		})
	}

	// A re-imported packing list replaces the lines it brought before.
	refs := packingRefs(report.Records)
	if _, err := s.repos.Items.DeleteByPackingRefs(ctx, sessionID, refs); err != nil {
		return nil, fmt.Errorf("replace parcel items: %w", err)
	}
	if err := s.repos.Items.InsertMany(ctx, items); err != nil {
		return nil, fmt.Errorf("store parcel items: %w", err)
	}
	if err := s.repos.Parcels.Register(ctx, parcels); err != nil {
		if _, derr := s.repos.Items.DeleteByPackingRefs(ctx, sessionID, refs); derr != nil {
			log := logger.ForSession(sessionID)
			log.Error().Err(derr).Msg("Failed to remove items of an unregistered import")
		}
		return nil, fmt.Errorf("register parcels: %w", err)
	}

	log := logger.ForSession(sessionID)
	log.Info().
		Int("records", len(items)).
		Int("parcels", len(parcels)).
		Int("skipped", len(report.Skipped)).
		Msg("Packing list imported")

	return &ImportResult{SessionID: sessionID, Parcels: len(parcels), Report: report}, nil
}

// ImportSummary parses a cargo summary, stores its rows and registers the
// parcels it lists.
func (s *CargoServiceImpl) ImportSummary(ctx context.Context, in ImportInput) (*ImportResult, error) {
	if !s.repos.configured() {
		return nil, ErrRepositoryNotConfigured
	}
	report, err := s.importer.Import(model.SheetKindSummary, in.Rows)
	if err != nil {
		return nil, err
	}

	sessionID := sessionOrNew(in.SessionID)
	var parcels []model.Parcel
	seen := make(map[string]struct{})
	for _, r := range report.Summary {
		if _, ok := seen[r.ParcelNumber]; ok || r.ParcelNumber == "" {
			continue
		}
		seen[r.ParcelNumber] = struct{}{}
		parcels = append(parcels, model.Parcel{
			ParcelNumber: r.ParcelNumber,
			SessionID:    sessionID,
			ProjectCode:  in.ProjectCode,
			PackingRef:   r.GoodsReception,
		})
	}

	if err := s.repos.Summary.InsertMany(ctx, sessionID, report.Summary); err != nil {
		return nil, fmt.Errorf("store cargo summary: %w", err)
	}
	if err := s.repos.Parcels.Register(ctx, parcels); err != nil {
		return nil, fmt.Errorf("register parcels: %w", err)
	}

	log := logger.ForSession(sessionID)
	log.Info().
		Int("rows", len(report.Summary)).
		Msg("Cargo summary imported")

	return &ImportResult{SessionID: sessionID, Parcels: len(parcels), Report: report}, nil
}

func packingRefs(records []model.ExpandedParcelRecord) []string {
	seen := make(map[string]struct{})
	var refs []string
	for _, r := range records {
		if _, ok := seen[r.PackingRef]; ok {
			continue
		}
		seen[r.PackingRef] = struct{}{}
		refs = append(refs, r.PackingRef)
	}
	return refs
}

func sessionOrNew(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return uuid.NewString()
}

// Overview returns one reconciled entry per parcel of the session.
func (s *CargoServiceImpl) Overview(ctx context.Context, sessionID string) ([]model.ParcelOverview, error) {
	if !s.repos.configured() {
		return nil, ErrRepositoryNotConfigured
	}

	items, err := s.repos.Items.FindBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	summary, err := s.repos.Summary.FindBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	records := make([]model.ExpandedParcelRecord, len(items))
	numbers := make([]string, 0, len(items)+len(summary))
	for i, it := range items {
		records[i] = it.ExpandedParcelRecord
		numbers = append(numbers, it.ParcelNumber)
	}
	for _, r := range summary {
		numbers = append(numbers, r.ParcelNumber)
	}

	registry, err := s.registry(ctx, numbers)
	if err != nil {
		return nil, err
	}
	return MergeParcels(records, summary, registry), nil
}

func (s *CargoServiceImpl) registry(ctx context.Context, numbers []string) (map[string]model.Parcel, error) {
	parcels, err := s.repos.Parcels.FindByNumbers(ctx, uniqueNonEmpty(numbers))
	if err != nil {
		return nil, err
	}
	out := make(map[string]model.Parcel, len(parcels))
	for _, p := range parcels {
		out[p.ParcelNumber] = p
	}
	return out, nil
}

func uniqueNonEmpty(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok || v == "" {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// ParcelItems lists the item lines packed in one parcel.
func (s *CargoServiceImpl) ParcelItems(ctx context.Context, parcelNumber string) ([]model.ParcelItem, error) {
	if !s.repos.configured() {
		return nil, ErrRepositoryNotConfigured
	}
	items, err := s.repos.Items.FindByParcel(ctx, parcelNumber)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.ParcelItem{}
	}
	return items, nil
}

// Stats counts the session's parcels per status.
func (s *CargoServiceImpl) Stats(ctx context.Context, sessionID string) (model.ParcelStats, error) {
	overview, err := s.Overview(ctx, sessionID)
	if err != nil {
		return model.ParcelStats{}, err
	}
	return Stats(overview), nil
}

// ReceiveParcel marks a pending parcel received and assigns it a
// reception number.
func (s *CargoServiceImpl) ReceiveParcel(ctx context.Context, in ReceiveInput) (*model.Parcel, error) {
	if !s.repos.configured() {
		return nil, ErrRepositoryNotConfigured
	}
	number := strings.TrimSpace(in.ParcelNumber)
	if number == "" {
		return nil, ErrParcelNumberRequired
	}

	now := s.now().UTC()
	expiry, err := checkExpiry(in.ExpDate, now)
	if err != nil {
		return nil, err
	}

	parcel, err := s.repos.Parcels.Transition(ctx, number, repository.StatusChange{
		From:            model.ParcelPending,
		To:              model.ParcelReceived,
		At:              now,
		ReceptionNumber: ReceptionNumber(now),
		PalletNumber:    strings.TrimSpace(in.PalletNumber),
		Note:            strings.TrimSpace(in.Notes),
		OrderType:       strings.TrimSpace(in.OrderType),
		ExpDate:         expiry,
		BatchNo:         strings.TrimSpace(in.BatchNo),
	})
	if err != nil {
		return nil, lifecycleError(err)
	}

	metrics.RecordParcelTransition(string(model.ParcelPending), string(model.ParcelReceived))
	log := logger.ForParcel(number)
	log.Info().
		Str("reception_number", parcel.ReceptionNumber).
		Msg("Parcel received")
	return parcel, nil
}

// UnreceiveParcel reverts a received parcel to pending and clears its
// reception data.
func (s *CargoServiceImpl) UnreceiveParcel(ctx context.Context, parcelNumber string) (*model.Parcel, error) {
	if !s.repos.configured() {
		return nil, ErrRepositoryNotConfigured
	}
	number := strings.TrimSpace(parcelNumber)
	if number == "" {
		return nil, ErrParcelNumberRequired
	}

	parcel, err := s.repos.Parcels.Transition(ctx, number, repository.StatusChange{
		From:           model.ParcelReceived,
		To:             model.ParcelPending,
		At:             s.now().UTC(),
		ClearReception: true,
	})
	if err != nil {
		return nil, lifecycleError(err)
	}

	metrics.RecordParcelTransition(string(model.ParcelReceived), string(model.ParcelPending))
	log := logger.ForParcel(number)
	log.Info().Msg("Parcel reception reverted")
	return parcel, nil
}

// SetParcelNote replaces the note of a parcel.
func (s *CargoServiceImpl) SetParcelNote(ctx context.Context, parcelNumber, note string) error {
	if !s.repos.configured() {
		return ErrRepositoryNotConfigured
	}
	number := strings.TrimSpace(parcelNumber)
	if number == "" {
		return ErrParcelNumberRequired
	}
	if err := s.repos.Parcels.SetNote(ctx, number, strings.TrimSpace(note)); err != nil {
		return lifecycleError(err)
	}
	return nil
}

// ReceptionNumber returns a new REC-YYYYMMDD-XXXXXXXX identifier.
func ReceptionNumber(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("REC-%s-%s", at.Format("20060102"), suffix)
}

// checkExpiry validates an expiry entered at reception and returns its
// stored form. Blank and N/A are accepted; dates must not be before the
// day of now.
func checkExpiry(raw string, now time.Time) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	if strings.EqualFold(raw, NoExpiry) {
		return NoExpiry, nil
	}

	t, ok := ParseDate(raw)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidExpiry, raw)
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	if day.Before(today) {
		return "", fmt.Errorf("%w: %s", ErrExpiryInPast, day.Format(DateLayout))
	}
	return day.Format(DateLayout), nil
}

func lifecycleError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrParcelNotFound
	case errors.Is(err, repository.ErrStatusConflict):
		return ErrInvalidTransition
	}
	return err
}
