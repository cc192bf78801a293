package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		header   string
		keepsOwn bool
	}{
		{name: "generated when missing", header: ""},
		{name: "scanner id is kept", header: "scanner-07:PK11.1", keepsOwn: true},
		{name: "uuid is kept", header: "550e8400-e29b-41d4-a716-446655440000", keepsOwn: true},
		{name: "line break is replaced", header: "scan\nPK11"},
		{name: "spaces are replaced", header: "dock 1"},
		{name: "overlong id is replaced", header: strings.Repeat("a", maxRequestIDLength+1)},
		{name: "id at the length limit is kept", header: strings.Repeat("a", maxRequestIDLength), keepsOwn: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(RequestID())
			router.POST("/api/cargo/receive-parcel", func(c *gin.Context) {
				c.String(http.StatusOK, GetRequestID(c))
			})

			req := httptest.NewRequest(http.MethodPost, "/api/cargo/receive-parcel", nil)
			if tt.header != "" {
				req.Header[RequestIDHeader] = []string{tt.header}
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			requestID := w.Body.String()
			assert.Equal(t, requestID, w.Header().Get(RequestIDHeader))
			if tt.keepsOwn {
				assert.Equal(t, tt.header, requestID)
				return
			}
			_, err := uuid.Parse(requestID)
			assert.NoError(t, err)
		})
	}
}

func TestGetRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name  string
		setup func(*gin.Context)
		want  string
	}{
		{name: "not set", setup: func(*gin.Context) {}, want: ""},
		{name: "set", setup: func(c *gin.Context) { c.Set(string(RequestIDKey), "scanner-07") }, want: "scanner-07"},
		{name: "wrong type", setup: func(c *gin.Context) { c.Set(string(RequestIDKey), 7) }, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/api/cargo/stats", nil)

			tt.setup(c)

			assert.Equal(t, tt.want, GetRequestID(c))
		})
	}
}
