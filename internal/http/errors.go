package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/guttosm/cargo-service/internal/circuitbreaker"
	"github.com/guttosm/cargo-service/internal/domain/dto"
	"github.com/guttosm/cargo-service/internal/i18n"
	"github.com/guttosm/cargo-service/internal/service"
	"github.com/guttosm/cargo-service/internal/spreadsheet"
)

var (
	errFileRequired = errors.New("multipart field \"file\" is required")
	errFileTooLarge = errors.New("uploaded file exceeds the size limit")
	errInvalidBody  = errors.New("invalid request body")
)

type errorMapping struct {
	target error
	status int
	key    string
}

var errorMappings = []errorMapping{
	{errInvalidBody, http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody},
	{errFileRequired, http.StatusBadRequest, i18n.ErrKeyFileRequired},
	{errFileTooLarge, http.StatusRequestEntityTooLarge, i18n.ErrKeyFileTooLarge},
	{spreadsheet.ErrUnsupportedFormat, http.StatusBadRequest, i18n.ErrKeyUnsupportedFile},
	{spreadsheet.ErrNoSheet, http.StatusUnprocessableEntity, i18n.ErrKeyEmptySheet},
	{service.ErrEmptySheet, http.StatusUnprocessableEntity, i18n.ErrKeyEmptySheet},
	{service.ErrHeaderNotFound, http.StatusUnprocessableEntity, i18n.ErrKeyHeaderNotFound},
	{service.ErrNoRecords, http.StatusUnprocessableEntity, i18n.ErrKeyNoRecords},
	{service.ErrUnknownSheetKind, http.StatusUnprocessableEntity, i18n.ErrKeyUnknownSheetKind},
	{service.ErrParcelNotFound, http.StatusNotFound, i18n.ErrKeyParcelNotFound},
	{service.ErrInvalidTransition, http.StatusConflict, i18n.ErrKeyInvalidTransition},
	{service.ErrExpiryInPast, http.StatusBadRequest, i18n.ErrKeyExpiryInPast},
	{service.ErrInvalidExpiry, http.StatusBadRequest, i18n.ErrKeyInvalidExpiry},
	{service.ErrParcelNumberRequired, http.StatusBadRequest, i18n.ErrKeyParcelNumberRequired},
	{service.ErrCartNotFound, http.StatusNotFound, i18n.ErrKeyCartNotFound},
	{service.ErrCartEmpty, http.StatusConflict, i18n.ErrKeyCartEmpty},
	{service.ErrProjectRequired, http.StatusBadRequest, i18n.ErrKeyProjectRequired},
	{service.ErrRepositoryNotConfigured, http.StatusServiceUnavailable, i18n.ErrKeyServiceUnavailable},
	{circuitbreaker.ErrCircuitOpen, http.StatusServiceUnavailable, i18n.ErrKeyServiceUnavailable},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, i18n.ErrKeyTimeout},
}

// errorStatus maps an error returned by the services to a status code and
// an i18n message key.
func errorStatus(err error) (int, string) {
	var selErr *service.SelectionError
	if errors.As(err, &selErr) {
		return http.StatusConflict, selErr.MessageKey()
	}
	var valErr *dto.ValidationError
	if errors.As(err, &valErr) {
		return http.StatusBadRequest, i18n.ErrKeyInvalidRequest
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.key
		}
	}
	return http.StatusInternalServerError, i18n.ErrKeyInternalError
}

// ServiceError renders err with the status and message errorStatus picks.
// Validation errors carry the offending field in details.
func (b *ResponseBuilder) ServiceError(err error) {
	var valErr *dto.ValidationError
	if errors.As(err, &valErr) {
		b.ErrorWithDetails(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, map[string]string{valErr.Field: valErr.Message}, err)
		return
	}
	status, key := errorStatus(err)
	b.Error(status, key, err)
}
