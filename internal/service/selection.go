package service

import (
	"fmt"

	"github.com/guttosm/cargo-service/internal/domain/model"
	"github.com/guttosm/cargo-service/internal/i18n"
)

// SelectionRejection names why a toggle was refused.
type SelectionRejection string

// Rejection reasons.
const (
	ReasonAlreadyDispatched SelectionRejection = "already_dispatched"
	ReasonNotReceived       SelectionRejection = "not_received"
)

// SelectionError is returned by Selection.Toggle when the parcel's base
// status forbids selecting it. The selection is left unchanged.
type SelectionError struct {
	ParcelNumber string
	Status       model.ParcelStatus
	Reason       SelectionRejection
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("parcel %s: %s", e.ParcelNumber, e.Message())
}

// Message is the human-readable rejection reason.
func (e *SelectionError) Message() string {
	if e.Reason == ReasonAlreadyDispatched {
		return "This parcel has already been dispatched."
	}
	return "This parcel has not been received yet."
}

// MessageKey is the i18n key of the rejection reason.
func (e *SelectionError) MessageKey() string {
	if e.Reason == ReasonAlreadyDispatched {
		return i18n.ErrKeyParcelAlreadyDispatched
	}
	return i18n.ErrKeyParcelNotReceived
}

// ToggleOutcome reports what a successful toggle did.
type ToggleOutcome struct {
	ParcelNumber string `json:"parcel_number"`
	Selected     bool   `json:"selected"`
}

// Selection is an ordered set of parcel numbers staged for a workflow,
// such as a dispatch cart. The zero value is an empty selection.
// A Selection is not safe for concurrent use.
type Selection struct {
	order   []string
	members map[string]struct{}
}

// NewSelection returns a selection holding parcels, duplicates dropped.
func NewSelection(parcels ...string) *Selection {
	s := &Selection{}
	for _, p := range parcels {
		s.add(p)
	}
	return s
}

// Contains reports whether parcel is selected.
func (s *Selection) Contains(parcel string) bool {
	if s == nil || s.members == nil {
		return false
	}
	_, ok := s.members[parcel]
	return ok
}

// Len returns the number of selected parcels.
func (s *Selection) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Parcels returns the selected parcel numbers in selection order.
func (s *Selection) Parcels() []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Toggle deselects a selected parcel, or selects it when its base status is
// received. Pending and dispatched parcels are rejected with a
// *SelectionError and the selection is not modified.
func (s *Selection) Toggle(parcel string, base model.ParcelStatus) (ToggleOutcome, error) {
	if s.Contains(parcel) {
		s.remove(parcel)
		return ToggleOutcome{ParcelNumber: parcel, Selected: false}, nil
	}

	switch base.OrPending() {
	case model.ParcelReceived:
		s.add(parcel)
		return ToggleOutcome{ParcelNumber: parcel, Selected: true}, nil
	case model.ParcelDispatched:
		return ToggleOutcome{}, &SelectionError{ParcelNumber: parcel, Status: model.ParcelDispatched, Reason: ReasonAlreadyDispatched}
	default:
		return ToggleOutcome{}, &SelectionError{ParcelNumber: parcel, Status: model.ParcelPending, Reason: ReasonNotReceived}
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.order = nil
	s.members = nil
}

func (s *Selection) add(parcel string) {
	if parcel == "" || s.Contains(parcel) {
		return
	}
	if s.members == nil {
		s.members = make(map[string]struct{})
	}
	s.members[parcel] = struct{}{}
	s.order = append(s.order, parcel)
}

func (s *Selection) remove(parcel string) {
	delete(s.members, parcel)
	for i, p := range s.order {
		if p == parcel {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			return
		}
	}
}
