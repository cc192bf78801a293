// Package dto defines Data Transfer Objects for HTTP request and response handling.
//
// DTOs are used to decouple the HTTP layer from the domain model,
// providing validation and serialization for API communication.
package dto

import (
	"strings"

	"github.com/guttosm/cargo-service/internal/domain/model"
)

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

var (
	// ErrParcelNumberRequired is returned when parcel_number is blank.
	ErrParcelNumberRequired = &ValidationError{Field: "parcel_number", Message: "is required"}
	// ErrRowsRequired is returned when a JSON upload carries no rows.
	ErrRowsRequired = &ValidationError{Field: "rows", Message: "must hold a header and at least one data row"}
	// ErrSessionRequired is returned when session_id is blank.
	ErrSessionRequired = &ValidationError{Field: "session_id", Message: "is required"}
	// ErrInvalidStatus is returned for an unknown parcel status.
	ErrInvalidStatus = &ValidationError{Field: "status", Message: "must be pending, received or dispatched"}
)

// SheetRequest carries sheet rows as JSON, the alternative to a multipart
// file upload.
//
// @Description Sheet rows, first row holding the headers
// @Example {"rows": [["Packing ref","Parcel n°","Qty","Weight"],["PK1","1 to 2",10,4]]}
type SheetRequest struct {
	SessionID   string  `json:"session_id,omitempty" example:"6a1f0c52-2f7b-4d0e-9a57-3c1f1b2f9e10"`
	ProjectCode string  `json:"project_code,omitempty" example:"P1"`
	Rows        [][]any `json:"rows" swaggertype:"array,object"`
} // @name SheetRequest

// Validate checks that the sheet can hold a header and a data row.
func (r *SheetRequest) Validate() error {
	if len(r.Rows) < 2 {
		return ErrRowsRequired
	}
	return nil
}

// SheetRows converts the JSON rows to domain rows.
func (r *SheetRequest) SheetRows() []model.Row {
	rows := make([]model.Row, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = model.Row(row)
	}
	return rows
}

// ReceiveParcelRequest records the physical reception of a parcel.
//
// @Description Reception of one parcel
// @Example {"parcel_number": "PK11", "pallet_number": "PAL-3", "exp_date": "N/A"}
type ReceiveParcelRequest struct {
	ParcelNumber string `json:"parcel_number" binding:"required" example:"PK11"`
	PalletNumber string `json:"pallet_number,omitempty" example:"PAL-3"`
	Notes        string `json:"notes,omitempty"`
	OrderType    string `json:"order_type,omitempty" example:"regular"`
	// ExpDate is N/A or a date that has not passed.
	ExpDate string `json:"exp_date,omitempty" example:"05-Mar-2027"`
	BatchNo string `json:"batch_no,omitempty" example:"B1"`
} // @name ReceiveParcelRequest

// Validate performs custom validation on the request.
func (r *ReceiveParcelRequest) Validate() error {
	return requireParcel(r.ParcelNumber)
}

// ParcelRequest names a single parcel.
type ParcelRequest struct {
	ParcelNumber string `json:"parcel_number" binding:"required" example:"PK11"`
} // @name ParcelRequest

// Validate performs custom validation on the request.
func (r *ParcelRequest) Validate() error {
	return requireParcel(r.ParcelNumber)
}

// ParcelNoteRequest sets the free-text note of a parcel. An empty note
// clears it.
type ParcelNoteRequest struct {
	ParcelNumber string `json:"parcel_number" binding:"required" example:"PK11"`
	Note         string `json:"note" example:"Box damaged on one side"`
} // @name ParcelNoteRequest

// Validate performs custom validation on the request.
func (r *ParcelNoteRequest) Validate() error {
	return requireParcel(r.ParcelNumber)
}

// TilesRequest renders the parcel map of supplied items without touching
// the registry.
type TilesRequest struct {
	Items       []model.ParcelItem            `json:"items"`
	Statuses    map[string]model.ParcelStatus `json:"statuses"`
	Selected    []string                      `json:"selected"`
	ProjectCode string                        `json:"project_code,omitempty" example:"P1"`
	Search      string                        `json:"search,omitempty" example:"para"`
} // @name TilesRequest

// Validate performs custom validation on the request.
func (r *TilesRequest) Validate() error {
	for _, s := range r.Statuses {
		if s != "" && !s.Valid() {
			return ErrInvalidStatus
		}
	}
	return nil
}

// ToggleRequest applies the selection guard to a supplied selection.
//
// @Example {"selected": ["PK11"], "parcel_number": "PK12", "status": "received"}
type ToggleRequest struct {
	Selected     []string           `json:"selected"`
	ParcelNumber string             `json:"parcel_number" binding:"required" example:"PK12"`
	Status       model.ParcelStatus `json:"status" example:"received"`
} // @name ToggleRequest

// Validate performs custom validation on the request.
func (r *ToggleRequest) Validate() error {
	if err := requireParcel(r.ParcelNumber); err != nil {
		return err
	}
	if r.Status != "" && !r.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// CreateCartRequest opens a dispatch cart.
type CreateCartRequest struct {
	ProjectCode string `json:"project_code" binding:"required" example:"P1"`
	// SessionID limits the cart's parcel map to one import session.
	SessionID string `json:"session_id,omitempty"`
} // @name CreateCartRequest

func requireParcel(number string) error {
	if strings.TrimSpace(number) == "" {
		return ErrParcelNumberRequired
	}
	return nil
}
