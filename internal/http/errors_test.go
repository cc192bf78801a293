package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/guttosm/cargo-service/internal/circuitbreaker"
	"github.com/guttosm/cargo-service/internal/domain/dto"
	"github.com/guttosm/cargo-service/internal/domain/model"
	"github.com/guttosm/cargo-service/internal/i18n"
	"github.com/guttosm/cargo-service/internal/service"
	"github.com/guttosm/cargo-service/internal/spreadsheet"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedKey    string
	}{
		{"missing file", errFileRequired, http.StatusBadRequest, i18n.ErrKeyFileRequired},
		{"file too large", errFileTooLarge, http.StatusRequestEntityTooLarge, i18n.ErrKeyFileTooLarge},
		{"unsupported format", fmt.Errorf("%w: .pdf", spreadsheet.ErrUnsupportedFormat), http.StatusBadRequest, i18n.ErrKeyUnsupportedFile},
		{"empty workbook", spreadsheet.ErrNoSheet, http.StatusUnprocessableEntity, i18n.ErrKeyEmptySheet},
		{"header not found", service.ErrHeaderNotFound, http.StatusUnprocessableEntity, i18n.ErrKeyHeaderNotFound},
		{"unknown kind", fmt.Errorf("%w: invoice", service.ErrUnknownSheetKind), http.StatusUnprocessableEntity, i18n.ErrKeyUnknownSheetKind},
		{"parcel not found", service.ErrParcelNotFound, http.StatusNotFound, i18n.ErrKeyParcelNotFound},
		{"invalid transition", service.ErrInvalidTransition, http.StatusConflict, i18n.ErrKeyInvalidTransition},
		{"expired", service.ErrExpiryInPast, http.StatusBadRequest, i18n.ErrKeyExpiryInPast},
		{"cart empty", service.ErrCartEmpty, http.StatusConflict, i18n.ErrKeyCartEmpty},
		{"circuit open", fmt.Errorf("find parcels: %w", circuitbreaker.ErrCircuitOpen), http.StatusServiceUnavailable, i18n.ErrKeyServiceUnavailable},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, i18n.ErrKeyTimeout},
		{
			"selection rejected",
			&service.SelectionError{ParcelNumber: "PK1", Status: model.ParcelDispatched, Reason: service.ReasonAlreadyDispatched},
			http.StatusConflict,
			i18n.ErrKeyParcelAlreadyDispatched,
		},
		{"validation", dto.ErrRowsRequired, http.StatusBadRequest, i18n.ErrKeyInvalidRequest},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, i18n.ErrKeyInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, key := errorStatus(tt.err)
			assert.Equal(t, tt.expectedStatus, status)
			assert.Equal(t, tt.expectedKey, key)
		})
	}
}
