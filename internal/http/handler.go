package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/cargo-service/internal/domain/dto"
	"github.com/guttosm/cargo-service/internal/domain/model"
	"github.com/guttosm/cargo-service/internal/i18n"
	"github.com/guttosm/cargo-service/internal/middleware"
	"github.com/guttosm/cargo-service/internal/service"
)

// DefaultMaxUploadSize bounds sheet uploads when no limit is configured.
const DefaultMaxUploadSize int64 = 10 << 20

// CargoHandler provides HTTP handlers for cargo import and reception routes.
type CargoHandler struct {
	importer      service.Importer
	cargo         service.CargoService
	reader        SheetReader
	maxUploadSize int64
}

// CargoHandlerOption configures a CargoHandler.
type CargoHandlerOption func(*CargoHandler)

// WithMaxUploadSize sets the largest accepted upload body in bytes, multipart
// or JSON rows.
func WithMaxUploadSize(n int64) CargoHandlerOption {
	return func(h *CargoHandler) {
		if n > 0 {
			h.maxUploadSize = n
		}
	}
}

// NewCargoHandler creates a new CargoHandler instance.
func NewCargoHandler(importer service.Importer, cargo service.CargoService, reader SheetReader, opts ...CargoHandlerOption) *CargoHandler {
	h := &CargoHandler{
		importer:      importer,
		cargo:         cargo,
		reader:        reader,
		maxUploadSize: DefaultMaxUploadSize,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Kinds handles GET /api/cargo/kinds requests.
//
// @Summary      List sheet kinds
// @Description  Lists the sheet layouts the importer recognises.
// @Tags         Cargo
// @Produce      json
// @Success      200 {object} dto.SuccessResponse
// @Security     BearerAuth
// @Router       /api/cargo/kinds [get]
func (h *CargoHandler) Kinds(c *gin.Context) {
	NewResponseBuilder(c).SuccessOK(h.importer.Kinds())
}

// Preview handles POST /api/cargo/preview/:kind requests.
//
// @Summary      Preview a cargo sheet
// @Description  Parses and expands an uploaded packing list or cargo summary without persisting it. Accepts a multipart "file" (xlsx or csv) or JSON rows. Repeated previews of the same sheet are served from cache.
// @Tags         Cargo
// @Accept       json,mpfd
// @Produce      json
// @Param        kind path string true "Sheet kind" Enums(packing, summary)
// @Param        file formData file false "xlsx or csv sheet"
// @Param        request body dto.SheetRequest false "Sheet rows"
// @Success      200 {object} dto.SuccessResponse "Import report"
// @Failure      400 {object} dto.ErrorResponse "Bad request - missing or unsupported file"
// @Failure      413 {object} dto.ErrorResponse "File too large"
// @Failure      422 {object} dto.ErrorResponse "Sheet shape not recognised"
// @Security     BearerAuth
// @Router       /api/cargo/preview/{kind} [post]
func (h *CargoHandler) Preview(c *gin.Context) {
	builder := NewResponseBuilder(c)

	upload, err := h.readSheet(c)
	if err != nil {
		builder.ServiceError(err)
		return
	}

	report, err := h.importer.Import(model.SheetKind(c.Param("kind")), upload.Rows)
	if err != nil {
		builder.ServiceError(err)
		return
	}
	builder.SuccessOK(report)
}

// PreviewCacheStats handles GET /api/cargo/preview-cache requests.
//
// @Summary      Preview cache counters
// @Tags         Cargo
// @Produce      json
// @Success      200 {object} dto.SuccessResponse
// @Security     BearerAuth
// @Router       /api/cargo/preview-cache [get]
func (h *CargoHandler) PreviewCacheStats(c *gin.Context) {
	metrics, ok := h.importer.CacheMetrics()
	NewResponseBuilder(c).SuccessOK(dto.PreviewCacheStats{Enabled: ok, Metrics: metrics})
}

// InvalidatePreviewCache handles DELETE /api/cargo/preview-cache requests.
//
// @Summary      Drop cached previews
// @Tags         Cargo
// @Success      204
// @Security     BearerAuth
// @Router       /api/cargo/preview-cache [delete]
func (h *CargoHandler) InvalidatePreviewCache(c *gin.Context) {
	h.importer.InvalidateCache()
	c.Status(http.StatusNoContent)
}

// ImportPackingList handles POST /api/cargo/packing-list requests.
//
// @Summary      Import a packing list
// @Description  Expands the packing list into parcel items and registers every parcel of the session as pending. Existing parcels keep their status.
// @Tags         Cargo
// @Accept       json,mpfd
// @Produce      json
// @Param        file formData file false "xlsx or csv sheet"
// @Param        session_id formData string false "Session to import into"
// @Param        project_code formData string false "Project code"
// @Param        request body dto.SheetRequest false "Sheet rows"
// @Success      201 {object} dto.SuccessResponse "Import result"
// @Failure      400 {object} dto.ErrorResponse
// @Failure      413 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      503 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/cargo/packing-list [post]
func (h *CargoHandler) ImportPackingList(c *gin.Context) {
	h.importSheet(c, model.SheetKindPacking)
}

// ImportSummary handles POST /api/cargo/summary requests.
//
// @Summary      Import a cargo summary
// @Description  Stores the summary lines of the session and registers their parcels as pending.
// @Tags         Cargo
// @Accept       json,mpfd
// @Produce      json
// @Param        file formData file false "xlsx or csv sheet"
// @Param        session_id formData string false "Session to import into"
// @Param        project_code formData string false "Project code"
// @Param        request body dto.SheetRequest false "Sheet rows"
// @Success      201 {object} dto.SuccessResponse "Import result"
// @Failure      400 {object} dto.ErrorResponse
// @Failure      413 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      503 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/cargo/summary [post]
func (h *CargoHandler) ImportSummary(c *gin.Context) {
	h.importSheet(c, model.SheetKindSummary)
}

func (h *CargoHandler) importSheet(c *gin.Context, kind model.SheetKind) {
	builder := NewResponseBuilder(c)

	upload, err := h.readSheet(c)
	if err != nil {
		builder.ServiceError(err)
		return
	}

	in := service.ImportInput{SessionID: upload.SessionID, ProjectCode: upload.ProjectCode, Rows: upload.Rows}
	action, importFn := model.ActionImportPackingList, h.cargo.ImportPackingList
	if kind == model.SheetKindSummary {
		action, importFn = model.ActionImportSummary, h.cargo.ImportSummary
	}

	ls := middleware.LoggingServiceFrom(c)
	result, err := importFn(c.Request.Context(), in)
	if err != nil {
		middleware.AuditLogError(ls, c, action, "Cargo import failed", err, map[string]any{
			"filename": upload.Filename,
		})
		builder.ServiceError(err)
		return
	}

	middleware.AuditLog(ls, c, action, "Cargo sheet imported", map[string]any{
		"session_id": result.SessionID,
		"parcels":    result.Parcels,
		"records":    result.Report.RecordCount(),
		"skipped":    len(result.Report.Skipped),
		"filename":   upload.Filename,
	})
	builder.SuccessCreated(result)
}

// Overview handles GET /api/cargo/parcels requests.
//
// @Summary      Parcel overview
// @Description  Merges the packing list and cargo summary of a session into one row per parcel, with its reception status.
// @Tags         Cargo
// @Produce      json
// @Param        session_id query string true "Import session"
// @Success      200 {object} dto.SuccessResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      503 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/cargo/parcels [get]
func (h *CargoHandler) Overview(c *gin.Context) {
	builder := NewResponseBuilder(c)

	sessionID, ok := requireSession(c)
	if !ok {
		return
	}

	rows, err := h.cargo.Overview(c.Request.Context(), sessionID)
	if err != nil {
		builder.ServiceError(err)
		return
	}
	builder.SuccessOK(rows)
}

// ParcelItems handles GET /api/cargo/parcels/:parcel/items requests.
//
// @Summary      Parcel contents
// @Tags         Cargo
// @Produce      json
// @Param        parcel path string true "Parcel number"
// @Success      200 {object} dto.SuccessResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/cargo/parcels/{parcel}/items [get]
func (h *CargoHandler) ParcelItems(c *gin.Context) {
	builder := NewResponseBuilder(c)

	items, err := h.cargo.ParcelItems(c.Request.Context(), c.Param("parcel"))
	if err != nil {
		builder.ServiceError(err)
		return
	}
	builder.SuccessOK(items)
}

// Stats handles GET /api/cargo/stats requests.
//
// @Summary      Reception counters
// @Description  Counts the parcels of a session per status.
// @Tags         Cargo
// @Produce      json
// @Param        session_id query string true "Import session"
// @Success      200 {object} dto.SuccessResponse
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/cargo/stats [get]
func (h *CargoHandler) Stats(c *gin.Context) {
	builder := NewResponseBuilder(c)

	sessionID, ok := requireSession(c)
	if !ok {
		return
	}

	stats, err := h.cargo.Stats(c.Request.Context(), sessionID)
	if err != nil {
		builder.ServiceError(err)
		return
	}
	builder.SuccessOK(stats)
}

// ReceiveParcel handles POST /api/cargo/receive-parcel requests.
//
// @Summary      Receive a parcel
// @Description  Moves a pending parcel to received and assigns its reception number. Supports idempotency via Idempotency-Key header.
// @Tags         Cargo
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Idempotency key for request deduplication"
// @Param        request body dto.ReceiveParcelRequest true "Reception"
// @Success      200 {object} dto.SuccessResponse "Received parcel"
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse "Parcel is not pending"
// @Security     BearerAuth
// @Router       /api/cargo/receive-parcel [post]
func (h *CargoHandler) ReceiveParcel(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, ok := bindRequest[dto.ReceiveParcelRequest](c)
	if !ok {
		return
	}

	ls := middleware.LoggingServiceFrom(c)
	parcel, err := h.cargo.ReceiveParcel(c.Request.Context(), service.ReceiveInput{
		ParcelNumber: req.ParcelNumber,
		PalletNumber: req.PalletNumber,
		Notes:        req.Notes,
		OrderType:    req.OrderType,
		ExpDate:      req.ExpDate,
		BatchNo:      req.BatchNo,
	})
	if err != nil {
		middleware.AuditLogError(ls, c, model.ActionReceiveParcel, "Parcel reception failed", err, map[string]any{
			"parcel_number": req.ParcelNumber,
		})
		builder.ServiceError(err)
		return
	}

	middleware.AuditLog(ls, c, model.ActionReceiveParcel, "Parcel received", map[string]any{
		"parcel_number":    parcel.ParcelNumber,
		"reception_number": parcel.ReceptionNumber,
	})
	builder.SuccessOK(parcel)
}

// UnreceiveParcel handles POST /api/cargo/unreceive-parcel requests.
//
// @Summary      Undo a reception
// @Tags         Cargo
// @Accept       json
// @Produce      json
// @Param        request body dto.ParcelRequest true "Parcel"
// @Success      200 {object} dto.SuccessResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse "Parcel is not received"
// @Security     BearerAuth
// @Router       /api/cargo/unreceive-parcel [post]
func (h *CargoHandler) UnreceiveParcel(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, ok := bindRequest[dto.ParcelRequest](c)
	if !ok {
		return
	}

	parcel, err := h.cargo.UnreceiveParcel(c.Request.Context(), req.ParcelNumber)
	if err != nil {
		builder.ServiceError(err)
		return
	}

	middleware.AuditLog(middleware.LoggingServiceFrom(c), c, model.ActionUnreceiveParcel, "Parcel reception undone", map[string]any{
		"parcel_number": parcel.ParcelNumber,
	})
	builder.SuccessOK(parcel)
}

// SetParcelNote handles PATCH /api/cargo/parcel-note requests.
//
// @Summary      Set a parcel note
// @Tags         Cargo
// @Accept       json
// @Param        request body dto.ParcelNoteRequest true "Note"
// @Success      204
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/cargo/parcel-note [patch]
func (h *CargoHandler) SetParcelNote(c *gin.Context) {
	req, ok := bindRequest[dto.ParcelNoteRequest](c)
	if !ok {
		return
	}

	if err := h.cargo.SetParcelNote(c.Request.Context(), req.ParcelNumber, req.Note); err != nil {
		NewResponseBuilder(c).ServiceError(err)
		return
	}

	middleware.AuditLog(middleware.LoggingServiceFrom(c), c, model.ActionSetParcelNote, "Parcel note updated", map[string]any{
		"parcel_number": req.ParcelNumber,
	})
	c.Status(http.StatusNoContent)
}

func requireSession(c *gin.Context) (string, bool) {
	sessionID := strings.TrimSpace(c.Query("session_id"))
	if sessionID == "" {
		NewResponseBuilder(c).ServiceError(dto.ErrSessionRequired)
		return "", false
	}
	return sessionID, true
}

// bindRequest binds and validates a JSON body, writing the error response
// itself when either step fails.
func bindRequest[T any](c *gin.Context) (*T, bool) {
	req, err := BuildRequest[T](c)
	if err != nil {
		NewResponseBuilder(c).Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return nil, false
	}
	if v, ok := any(req).(Validator); ok {
		if err := v.Validate(); err != nil {
			NewResponseBuilder(c).ServiceError(err)
			return nil, false
		}
	}
	return req, true
}
