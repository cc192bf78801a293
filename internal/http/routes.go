package http

import (
	"github.com/gin-gonic/gin"
)

// RouteGroup defines a group of routes that can be registered.
type RouteGroup interface {
	// RegisterRoutes registers routes to the given router group. The group
	// already carries the authentication middleware when auth is enabled.
	RegisterRoutes(rg *gin.RouterGroup)
}
