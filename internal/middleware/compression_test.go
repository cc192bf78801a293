package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCompression(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name             string
		path             string
		acceptEncoding   string
		expectCompressed bool
	}{
		{"parcel overview with gzip", "/api/cargo/parcels", "gzip", true},
		{"parcel overview with gzip, deflate", "/api/cargo/parcels", "gzip, deflate", true},
		{"parcel overview without Accept-Encoding", "/api/cargo/parcels", "", false},
		{"cart workbook export", "/api/dispatch/carts/cart-1/export", "gzip", false},
		{"cart view is not an export", "/api/dispatch/carts/cart-1", "gzip", true},
		{"metrics compress themselves", "/metrics", "gzip", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(Compression())
			router.GET("/api/cargo/parcels", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"parcel_number": "PK11", "status": "pending"})
			})
			router.GET("/api/dispatch/carts/:id", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "parcels": []string{"PK11"}})
			})
			router.GET("/api/dispatch/carts/:id/export", func(c *gin.Context) {
				c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", []byte("PK\x03\x04"))
			})
			router.GET("/metrics", func(c *gin.Context) {
				c.String(http.StatusOK, "cargo_parcel_transitions_total 1")
			})

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			if tt.expectCompressed {
				assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
			} else {
				assert.Empty(t, w.Header().Get("Content-Encoding"))
			}
		})
	}
}
