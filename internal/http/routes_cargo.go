package http

import (
	"github.com/gin-gonic/gin"
)

// CargoRoutes handles cargo import and reception route registration.
type CargoRoutes struct {
	handler *CargoHandler
}

// NewCargoRoutes creates a new CargoRoutes instance.
func NewCargoRoutes(handler *CargoHandler) *CargoRoutes {
	return &CargoRoutes{handler: handler}
}

// RegisterRoutes registers the /cargo routes.
func (r *CargoRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	cargo := rg.Group("/cargo")
	{
		cargo.GET("/kinds", r.handler.Kinds)
		cargo.POST("/preview/:kind", r.handler.Preview)
		cargo.GET("/preview-cache", r.handler.PreviewCacheStats)
		cargo.DELETE("/preview-cache", r.handler.InvalidatePreviewCache)
		cargo.POST("/packing-list", r.handler.ImportPackingList)
		cargo.POST("/summary", r.handler.ImportSummary)
		cargo.GET("/parcels", r.handler.Overview)
		cargo.GET("/parcels/:parcel/items", r.handler.ParcelItems)
		cargo.GET("/stats", r.handler.Stats)
		cargo.POST("/receive-parcel", r.handler.ReceiveParcel)
		cargo.POST("/unreceive-parcel", r.handler.UnreceiveParcel)
		cargo.PATCH("/parcel-note", r.handler.SetParcelNote)
	}
}

// GetHandler returns the underlying cargo handler.
func (r *CargoRoutes) GetHandler() *CargoHandler {
	return r.handler
}
