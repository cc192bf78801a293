//go:build !integration

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/guttosm/cargo-service/internal/domain/model"
)

func Test_getLogLevel(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		expected   string
	}{
		{
			name:       "2xx returns info",
			statusCode: 200,
			expected:   "info",
		},
		{
			name:       "3xx returns info",
			statusCode: 301,
			expected:   "info",
		},
		{
			name:       "4xx returns warn",
			statusCode: 400,
			expected:   "warn",
		},
		{
			name:       "404 returns warn",
			statusCode: 404,
			expected:   "warn",
		},
		{
			name:       "5xx returns error",
			statusCode: 500,
			expected:   "error",
		},
		{
			name:       "503 returns error",
			statusCode: 503,
			expected:   "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := getLogLevel(tt.statusCode)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		statusCode int
		wantLevel  string
	}{
		{name: "success logs info", statusCode: http.StatusOK, wantLevel: "info"},
		{name: "client error logs warn", statusCode: http.StatusConflict, wantLevel: "warn"},
		{name: "server error logs error", statusCode: http.StatusServiceUnavailable, wantLevel: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ls := &MockLoggingService{}
			done := expectLog(ls, func(e *model.LogEntry) bool {
				return e.Level == tt.wantLevel && e.StatusCode == tt.statusCode && e.Path == "/api/cargo/stats"
			})

			router := gin.New()
			router.Use(RequestID(), RequestLogger(ls))
			router.GET("/api/cargo/stats", func(c *gin.Context) {
				c.Status(tt.statusCode)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/cargo/stats", nil))

			assert.Equal(t, tt.statusCode, w.Code)
			waitLog(t, done)
			ls.AssertExpectations(t)
		})
	}
}

func TestRequestLogger_NoLoggingService(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID(), RequestLogger(nil))
	router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestLogger_WithUserInfo(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ls := &MockLoggingService{}
	done := expectLog(ls, func(e *model.LogEntry) bool {
		return e.UserID == "user123" && e.UserEmail == "test@example.com"
	})

	router := gin.New()
	router.Use(RequestID(), RequestLogger(ls))
	router.GET("/test", func(c *gin.Context) {
		c.Set(ContextUserID, "user123")
		c.Set(ContextUserEmail, "test@example.com")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	waitLog(t, done)
}
