package http

import (
	"github.com/gin-gonic/gin"
)

// DispatchRoutes handles dispatch map and cart route registration.
type DispatchRoutes struct {
	handler *DispatchHandler
}

// NewDispatchRoutes creates a new DispatchRoutes instance.
func NewDispatchRoutes(handler *DispatchHandler) *DispatchRoutes {
	return &DispatchRoutes{handler: handler}
}

// RegisterRoutes registers the /dispatch routes.
func (r *DispatchRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	dispatch := rg.Group("/dispatch")
	{
		dispatch.POST("/tiles", r.handler.Tiles)
		dispatch.POST("/toggle", r.handler.Toggle)
		dispatch.POST("/carts", r.handler.CreateCart)
		dispatch.GET("/carts/:id", r.handler.Cart)
		dispatch.POST("/carts/:id/toggle", r.handler.ToggleCart)
		dispatch.POST("/carts/:id/confirm", r.handler.Confirm)
		dispatch.GET("/carts/:id/export", r.handler.Export)
	}
}
