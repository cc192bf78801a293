package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/guttosm/cargo-service/internal/domain/model"
)

func TestSheetRequest(t *testing.T) {
	tests := []struct {
		name    string
		rows    [][]any
		wantErr error
	}{
		{name: "header and data row", rows: [][]any{{"Packing ref", "Parcel n°"}, {"PK1", "1 to 2"}}},
		{name: "header only", rows: [][]any{{"Packing ref"}}, wantErr: ErrRowsRequired},
		{name: "no rows", wantErr: ErrRowsRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := SheetRequest{Rows: tt.rows}
			assert.Equal(t, tt.wantErr, req.Validate())
			assert.Len(t, req.SheetRows(), len(tt.rows))
		})
	}
}

func TestSheetRequest_SheetRows(t *testing.T) {
	req := SheetRequest{Rows: [][]any{{"Qty"}, {float64(10)}}}
	assert.Equal(t, []model.Row{{"Qty"}, {float64(10)}}, req.SheetRows())
}

func TestParcelRequests_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     interface{ Validate() error }
		wantErr error
	}{
		{name: "receive", req: &ReceiveParcelRequest{ParcelNumber: "PK11"}},
		{name: "receive blank", req: &ReceiveParcelRequest{ParcelNumber: "  "}, wantErr: ErrParcelNumberRequired},
		{name: "parcel", req: &ParcelRequest{ParcelNumber: "PK11"}},
		{name: "parcel blank", req: &ParcelRequest{}, wantErr: ErrParcelNumberRequired},
		{name: "note may be empty", req: &ParcelNoteRequest{ParcelNumber: "PK11"}},
		{name: "toggle without status", req: &ToggleRequest{ParcelNumber: "PK11"}},
		{name: "toggle with status", req: &ToggleRequest{ParcelNumber: "PK11", Status: model.ParcelReceived}},
		{name: "toggle unknown status", req: &ToggleRequest{ParcelNumber: "PK11", Status: "lost"}, wantErr: ErrInvalidStatus},
		{name: "tiles", req: &TilesRequest{Statuses: map[string]model.ParcelStatus{"PK11": model.ParcelDispatched}}},
		{name: "tiles unknown status", req: &TilesRequest{Statuses: map[string]model.ParcelStatus{"PK11": "lost"}}, wantErr: ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantErr, tt.req.Validate())
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Field: "parcel_number", Message: "is required"}
	assert.Equal(t, "parcel_number: is required", err.Error())
}

