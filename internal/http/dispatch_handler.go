package http

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/cargo-service/internal/domain/dto"
	"github.com/guttosm/cargo-service/internal/domain/model"
	"github.com/guttosm/cargo-service/internal/middleware"
	"github.com/guttosm/cargo-service/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DispatchHandler provides HTTP handlers for the dispatch map and carts.
type DispatchHandler struct {
	dispatch service.DispatchService
}

// NewDispatchHandler creates a new DispatchHandler instance.
func NewDispatchHandler(dispatch service.DispatchService) *DispatchHandler {
	return &DispatchHandler{dispatch: dispatch}
}

// Tiles handles POST /api/dispatch/tiles requests.
//
// @Summary      Render a parcel map
// @Description  Groups the supplied item lines and renders one tile per parcel from the supplied statuses and selection. Nothing is persisted.
// @Tags         Dispatch
// @Accept       json
// @Produce      json
// @Param        request body dto.TilesRequest true "Items, statuses and selection"
// @Success      200 {object} dto.SuccessResponse
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/dispatch/tiles [post]
func (h *DispatchHandler) Tiles(c *gin.Context) {
	req, ok := bindRequest[dto.TilesRequest](c)
	if !ok {
		return
	}

	groups := h.dispatch.Tiles(service.TilesInput{
		Items:    req.Items,
		Statuses: service.StatusMap(req.Statuses),
		Selected: req.Selected,
		Filter:   service.GroupFilter{ProjectCode: req.ProjectCode, Search: req.Search},
	})
	NewResponseBuilder(c).SuccessOK(groups)
}

// Toggle handles POST /api/dispatch/toggle requests.
//
// @Summary      Toggle a parcel in a selection
// @Description  Applies the dispatch guard to a supplied selection: dispatched parcels are rejected, pending parcels are rejected, selected parcels are removed.
// @Tags         Dispatch
// @Accept       json
// @Produce      json
// @Param        request body dto.ToggleRequest true "Selection and parcel"
// @Success      200 {object} dto.SuccessResponse
// @Failure      409 {object} dto.ErrorResponse "Parcel cannot be selected"
// @Security     BearerAuth
// @Router       /api/dispatch/toggle [post]
func (h *DispatchHandler) Toggle(c *gin.Context) {
	req, ok := bindRequest[dto.ToggleRequest](c)
	if !ok {
		return
	}

	builder := NewResponseBuilder(c)
	res, err := h.dispatch.Toggle(service.ToggleInput{
		Selected:     req.Selected,
		ParcelNumber: req.ParcelNumber,
		Status:       req.Status,
	})
	if err != nil {
		builder.ServiceError(err)
		return
	}
	builder.SuccessOK(res)
}

// CreateCart handles POST /api/dispatch/carts requests.
//
// @Summary      Open a dispatch cart
// @Tags         Dispatch
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateCartRequest true "Project"
// @Success      201 {object} dto.SuccessResponse
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/dispatch/carts [post]
func (h *DispatchHandler) CreateCart(c *gin.Context) {
	req, ok := bindRequest[dto.CreateCartRequest](c)
	if !ok {
		return
	}

	builder := NewResponseBuilder(c)
	cart, err := h.dispatch.CreateCart(c.Request.Context(), req.ProjectCode, req.SessionID)
	if err != nil {
		builder.ServiceError(err)
		return
	}
	builder.SuccessCreated(cart)
}

// Cart handles GET /api/dispatch/carts/:id requests.
//
// @Summary      Dispatch cart
// @Description  Returns the cart with the grouped tiles of its session or project.
// @Tags         Dispatch
// @Produce      json
// @Param        id path string true "Cart id"
// @Param        project_code query string false "Only groups of this project"
// @Param        search query string false "Item code, description or packing reference contains"
// @Success      200 {object} dto.SuccessResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/dispatch/carts/{id} [get]
func (h *DispatchHandler) Cart(c *gin.Context) {
	builder := NewResponseBuilder(c)

	view, err := h.dispatch.Cart(c.Request.Context(), c.Param("id"), service.GroupFilter{
		ProjectCode: strings.TrimSpace(c.Query("project_code")),
		Search:      c.Query("search"),
	})
	if err != nil {
		builder.ServiceError(err)
		return
	}
	builder.SuccessOK(view)
}

// ToggleCart handles POST /api/dispatch/carts/:id/toggle requests.
//
// @Summary      Toggle a parcel in a cart
// @Tags         Dispatch
// @Accept       json
// @Produce      json
// @Param        id path string true "Cart id"
// @Param        request body dto.ParcelRequest true "Parcel"
// @Success      200 {object} dto.SuccessResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse "Parcel cannot be selected"
// @Security     BearerAuth
// @Router       /api/dispatch/carts/{id}/toggle [post]
func (h *DispatchHandler) ToggleCart(c *gin.Context) {
	req, ok := bindRequest[dto.ParcelRequest](c)
	if !ok {
		return
	}

	builder := NewResponseBuilder(c)
	res, err := h.dispatch.ToggleCart(c.Request.Context(), c.Param("id"), req.ParcelNumber)
	if err != nil {
		builder.ServiceError(err)
		return
	}
	builder.SuccessOK(res)
}

// Confirm handles POST /api/dispatch/carts/:id/confirm requests.
//
// @Summary      Confirm a dispatch
// @Description  Moves every received parcel of the cart to dispatched and empties the cart. Parcels that are no longer received are reported as skipped.
// @Tags         Dispatch
// @Produce      json
// @Param        Idempotency-Key header string false "Idempotency key for request deduplication"
// @Param        id path string true "Cart id"
// @Success      200 {object} dto.SuccessResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse "Cart is empty"
// @Security     BearerAuth
// @Router       /api/dispatch/carts/{id}/confirm [post]
func (h *DispatchHandler) Confirm(c *gin.Context) {
	builder := NewResponseBuilder(c)
	ls := middleware.LoggingServiceFrom(c)
	id := c.Param("id")

	res, err := h.dispatch.Confirm(c.Request.Context(), id)
	if err != nil {
		middleware.AuditLogError(ls, c, model.ActionConfirmDispatch, "Dispatch confirmation failed", err, map[string]any{
			"cart_id": id,
		})
		builder.ServiceError(err)
		return
	}

	middleware.AuditLog(ls, c, model.ActionConfirmDispatch, "Dispatch confirmed", map[string]any{
		"cart_id":    id,
		"dispatched": res.Dispatched,
		"skipped":    res.Skipped,
	})
	builder.SuccessOK(res)
}

// Export handles GET /api/dispatch/carts/:id/export requests.
//
// @Summary      Export a dispatch packing list
// @Description  Writes the item lines of the cart's parcels, in cart order, as an xlsx workbook.
// @Tags         Dispatch
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id path string true "Cart id"
// @Success      200 {file} file
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse "Cart is empty"
// @Security     BearerAuth
// @Router       /api/dispatch/carts/{id}/export [get]
func (h *DispatchHandler) Export(c *gin.Context) {
	id := c.Param("id")

	var buf bytes.Buffer
	if err := h.dispatch.Export(c.Request.Context(), id, &buf); err != nil {
		NewResponseBuilder(c).ServiceError(err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="dispatch-%s.xlsx"`, id))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
