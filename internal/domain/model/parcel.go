package model

import (
	"encoding/json"
	"time"
)

// ParcelStatus is the lifecycle state of a physical parcel.
type ParcelStatus string

// Parcel lifecycle: pending -> received -> dispatched.
const (
	ParcelPending    ParcelStatus = "pending"
	ParcelReceived   ParcelStatus = "received"
	ParcelDispatched ParcelStatus = "dispatched"
)

// Valid reports whether s is a known lifecycle state.
func (s ParcelStatus) Valid() bool {
	switch s {
	case ParcelPending, ParcelReceived, ParcelDispatched:
		return true
	}
	return false
}

// OrPending returns s, or ParcelPending when s is empty or unknown.
func (s ParcelStatus) OrPending() ParcelStatus {
	if s.Valid() {
		return s
	}
	return ParcelPending
}

// DisplayStatus is the status a parcel tile is rendered with.
type DisplayStatus string

// Display statuses. Selected overrides every base status except dispatched.
const (
	DisplayPending    DisplayStatus = DisplayStatus(ParcelPending)
	DisplayReceived   DisplayStatus = DisplayStatus(ParcelReceived)
	DisplayDispatched DisplayStatus = DisplayStatus(ParcelDispatched)
	DisplaySelected   DisplayStatus = "selected"
)

// Parcel is an entry of the parcel-status registry.
type Parcel struct {
	ParcelNumber    string       `json:"parcel_number"`
	SessionID       string       `json:"session_id"`
	ProjectCode     string       `json:"project_code,omitempty"`
	PackingRef      string       `json:"packing_ref,omitempty"`
	Status          ParcelStatus `json:"status"`
	ReceptionNumber string       `json:"reception_number,omitempty"`
	PalletNumber    string       `json:"pallet_number,omitempty"`
	Note            string       `json:"note,omitempty"`
	OrderType       string       `json:"order_type,omitempty"`
	ExpDate         string       `json:"exp_date,omitempty"`
	BatchNo         string       `json:"batch_no,omitempty"`
	ReceivedAt      *time.Time   `json:"received_at,omitempty"`
	DispatchedAt    *time.Time   `json:"dispatched_at,omitempty"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// ParcelItem is an expanded record persisted within an import session.
type ParcelItem struct {
	ExpandedParcelRecord
	SessionID   string `json:"session_id"`
	ProjectCode string `json:"project_code,omitempty"`
}

// MarshalJSON flattens the record next to the session fields. It is needed
// because the record's own MarshalJSON would otherwise be promoted.
func (it ParcelItem) MarshalJSON() ([]byte, error) {
	type record ExpandedParcelRecord
	return json.Marshal(struct {
		record
		ParcelNumber *string `json:"parcel_number"`
		SessionID    string  `json:"session_id"`
		ProjectCode  string  `json:"project_code,omitempty"`
	}{record(it.ExpandedParcelRecord), nullableParcelNumber(it.ParcelNumber), it.SessionID, it.ProjectCode})
}

// ParcelOverview is the reconciled view of one parcel across the packing
// list, the cargo summary and the status registry.
type ParcelOverview struct {
	ParcelNumber       string       `json:"parcel_number"`
	PackingRef         string       `json:"packing_ref,omitempty"`
	Status             ParcelStatus `json:"status"`
	InPackingList      bool         `json:"in_packing_list"`
	InSummary          bool         `json:"in_summary"`
	ItemCount          int          `json:"item_count"`
	TotalQty           float64      `json:"total_qty"`
	WeightKg           *float64     `json:"weight_kg"`
	VolumeM3           *float64     `json:"volume_m3"`
	TransportReception string       `json:"transport_reception,omitempty"`
	ReceptionNumber    string       `json:"reception_number,omitempty"`
	Note               string       `json:"note,omitempty"`
}

// ParcelGroup collects the parcels holding one item/batch/expiry of a project.
type ParcelGroup struct {
	Key             string   `json:"key"`
	ProjectCode     string   `json:"project_code,omitempty"`
	PackingRef      string   `json:"packing_ref,omitempty"`
	ItemCode        string   `json:"item_code,omitempty"`
	ItemDescription string   `json:"item_description,omitempty"`
	BatchNo         string   `json:"batch_no,omitempty"`
	ExpDate         string   `json:"exp_date,omitempty"`
	TotalQty        float64  `json:"total_qty"`
	Parcels         []string `json:"parcels"`
}

// ParcelTile is the render decision for one parcel of a group.
type ParcelTile struct {
	ParcelNumber  string        `json:"parcel_number"`
	BaseStatus    ParcelStatus  `json:"base_status"`
	DisplayStatus DisplayStatus `json:"display_status"`
	Selectable    bool          `json:"selectable"`
}

// GroupTiles is a parcel group with its rendered tiles.
type GroupTiles struct {
	ParcelGroup
	Tiles []ParcelTile `json:"tiles"`
}

// DispatchCart holds the parcels staged for one outbound movement.
type DispatchCart struct {
	ID          string    `json:"id"`
	ProjectCode string    `json:"project_code"`
	SessionID   string    `json:"session_id,omitempty"`
	Parcels     []string  `json:"parcels"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ParcelStats counts parcels per lifecycle state.
type ParcelStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Received   int `json:"received"`
	Dispatched int `json:"dispatched"`
}

// Add counts one parcel in state s.
func (st *ParcelStats) Add(s ParcelStatus) {
	st.Total++
	switch s.OrPending() {
	case ParcelPending:
		st.Pending++
	case ParcelReceived:
		st.Received++
	case ParcelDispatched:
		st.Dispatched++
	}
}
