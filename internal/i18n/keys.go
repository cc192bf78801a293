// Package i18n provides internationalization support for the cargo service.
package i18n

// Error message translation keys.
const (
	// ErrKeyInvalidRequest indicates an invalid request.
	ErrKeyInvalidRequest = "error.invalid_request"
	// ErrKeyInvalidRequestBody indicates an invalid request body.
	ErrKeyInvalidRequestBody = "error.invalid_request_body"
	// ErrKeyInternalError indicates an internal server error.
	ErrKeyInternalError = "error.internal_error"
	// ErrKeyAPIKeyRequired indicates that an API key is required.
	ErrKeyAPIKeyRequired = "error.api_key_required"
	// ErrKeyInvalidAPIKey indicates an invalid API key.
	ErrKeyInvalidAPIKey = "error.invalid_api_key"
	// ErrKeyRateLimitExceeded indicates rate limit exceeded.
	ErrKeyRateLimitExceeded = "error.rate_limit_exceeded"
	// ErrKeyInvalidToken indicates an invalid or expired JWT token.
	ErrKeyInvalidToken = "error.invalid_token"
	// ErrKeyTokenRequired indicates that a JWT token is required.
	ErrKeyTokenRequired = "error.token_required"
	// ErrKeyTimeout indicates a request timeout.
	ErrKeyTimeout = "error.timeout"
	// ErrKeyServiceUnavailable indicates the database is unreachable.
	ErrKeyServiceUnavailable = "error.service_unavailable"
	// ErrKeyRequestInProgress indicates a retry arriving before the first
	// request with its idempotency key finished.
	ErrKeyRequestInProgress = "error.request_in_progress"

	// ErrKeyFileRequired indicates a multipart upload without a file.
	ErrKeyFileRequired = "error.import.file_required"
	// ErrKeyFileTooLarge indicates an upload above the size limit.
	ErrKeyFileTooLarge = "error.import.file_too_large"
	// ErrKeyUnsupportedFile indicates an upload that is neither xlsx nor csv.
	ErrKeyUnsupportedFile = "error.import.unsupported_file"
	// ErrKeyEmptySheet indicates a sheet without header and data rows.
	ErrKeyEmptySheet = "error.import.empty_sheet"
	// ErrKeyHeaderNotFound indicates no recognisable header row.
	ErrKeyHeaderNotFound = "error.import.header_not_found"
	// ErrKeyNoRecords indicates a sheet whose lines all were skipped.
	ErrKeyNoRecords = "error.import.no_records"
	// ErrKeyUnknownSheetKind indicates an unregistered sheet kind.
	ErrKeyUnknownSheetKind = "error.import.unknown_kind"

	// ErrKeyParcelNotFound indicates an unknown parcel number.
	ErrKeyParcelNotFound = "error.parcel.not_found"
	// ErrKeyInvalidTransition indicates a forbidden status change.
	ErrKeyInvalidTransition = "error.parcel.invalid_transition"
	// ErrKeyExpiryInPast indicates a reception with an expired product.
	ErrKeyExpiryInPast = "error.parcel.expiry_in_past"
	// ErrKeyInvalidExpiry indicates an expiry that is neither N/A nor a date.
	ErrKeyInvalidExpiry = "error.parcel.invalid_expiry"
	// ErrKeyParcelNumberRequired indicates a blank parcel number.
	ErrKeyParcelNumberRequired = "error.parcel.number_required"
	// ErrKeyParcelAlreadyDispatched rejects selecting a dispatched parcel.
	ErrKeyParcelAlreadyDispatched = "error.selection.already_dispatched"
	// ErrKeyParcelNotReceived rejects selecting a parcel not yet received.
	ErrKeyParcelNotReceived = "error.selection.not_received"
	// ErrKeyCartNotFound indicates an unknown dispatch cart.
	ErrKeyCartNotFound = "error.cart.not_found"
	// ErrKeyCartEmpty indicates confirming a cart without parcels.
	ErrKeyCartEmpty = "error.cart.empty"
	// ErrKeyProjectRequired indicates a cart created without a project.
	ErrKeyProjectRequired = "error.cart.project_required"
)
