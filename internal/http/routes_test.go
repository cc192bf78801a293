package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/guttosm/cargo-service/internal/mocks"
	"github.com/guttosm/cargo-service/internal/spreadsheet"
)

func registeredRoutes(router *gin.Engine) map[string]bool {
	out := make(map[string]bool)
	for _, r := range router.Routes() {
		out[r.Method+" "+r.Path] = true
	}
	return out
}

func TestCargoRoutes_RegisterRoutes(t *testing.T) {
	handler := NewCargoHandler(&mocks.MockImporter{}, &mocks.MockCargoService{}, spreadsheet.NewReader())
	routes := NewCargoRoutes(handler)
	assert.Same(t, handler, routes.GetHandler())

	router := gin.New()
	routes.RegisterRoutes(router.Group("/api"))
	got := registeredRoutes(router)

	for _, want := range []string{
		"GET /api/cargo/kinds",
		"POST /api/cargo/preview/:kind",
		"GET /api/cargo/preview-cache",
		"DELETE /api/cargo/preview-cache",
		"POST /api/cargo/packing-list",
		"POST /api/cargo/summary",
		"GET /api/cargo/parcels",
		"GET /api/cargo/parcels/:parcel/items",
		"GET /api/cargo/stats",
		"POST /api/cargo/receive-parcel",
		"POST /api/cargo/unreceive-parcel",
		"PATCH /api/cargo/parcel-note",
	} {
		assert.True(t, got[want], want)
	}
}

func TestDispatchRoutes_RegisterRoutes(t *testing.T) {
	router := gin.New()
	NewDispatchRoutes(NewDispatchHandler(&mocks.MockDispatchService{})).RegisterRoutes(router.Group("/api"))
	got := registeredRoutes(router)

	for _, want := range []string{
		"POST /api/dispatch/tiles",
		"POST /api/dispatch/toggle",
		"POST /api/dispatch/carts",
		"GET /api/dispatch/carts/:id",
		"POST /api/dispatch/carts/:id/toggle",
		"POST /api/dispatch/carts/:id/confirm",
		"GET /api/dispatch/carts/:id/export",
	} {
		assert.True(t, got[want], want)
	}
}

func TestRouteGroups(t *testing.T) {
	tests := []struct {
		name     string
		cfg      RouterConfig
		expected int
	}{
		{name: "none configured", cfg: RouterConfig{}, expected: 0},
		{name: "dispatch only", cfg: RouterConfig{DispatchHandler: NewDispatchHandler(&mocks.MockDispatchService{})}, expected: 1},
		{
			name: "both",
			cfg: RouterConfig{
				CargoHandler:    NewCargoHandler(&mocks.MockImporter{}, &mocks.MockCargoService{}, spreadsheet.NewReader()),
				DispatchHandler: NewDispatchHandler(&mocks.MockDispatchService{}),
			},
			expected: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, routeGroups(&tt.cfg), tt.expected)
		})
	}
}

func TestRouter_UnknownAPIRoute(t *testing.T) {
	router := NewRouter(NewHealthHandler(), RouterConfig{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/calculate", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
