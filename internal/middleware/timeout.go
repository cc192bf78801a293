package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/cargo-service/internal/domain/dto"
	"github.com/guttosm/cargo-service/internal/i18n"
)

// TimeoutConfig holds configuration for the timeout middleware.
type TimeoutConfig struct {
	// Timeout bounds every request without a route override.
	Timeout time.Duration
	// Routes overrides Timeout per "METHOD /full/:path". A zero duration
	// leaves the route without a deadline.
	Routes map[string]time.Duration
	// ErrorMessage is returned when no translation is available.
	ErrorMessage string
}

// DefaultTimeoutConfig returns the defaults used by TimeoutWithDuration.
func DefaultTimeoutConfig() TimeoutConfig {
	return TimeoutConfig{
		Timeout:      30 * time.Second,
		ErrorMessage: "Request timeout",
	}
}

// For returns the deadline of a route and whether it has one.
func (cfg TimeoutConfig) For(method, fullPath string) (time.Duration, bool) {
	if d, ok := cfg.Routes[method+" "+fullPath]; ok {
		return d, d > 0
	}
	return cfg.Timeout, cfg.Timeout > 0
}

// Timeout returns a middleware that answers 504 when a handler outlives its
// route's deadline. Sheet uploads and workbook exports usually get longer
// deadlines through Routes.
func Timeout(cfg TimeoutConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		timeout, ok := cfg.For(c.Request.Method, c.FullPath())
		if !ok {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		var panicked any
		done := make(chan struct{})

		go func() {
			defer func() {
				panicked = recover()
				close(done)
			}()
			c.Next()
		}()

		select {
		case <-done:
			// Hand the panic to the recovery middleware.
			if panicked != nil {
				panic(panicked)
			}
			// A handler that gave up on its expired context wrote nothing.
			if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
				abortTimeout(c, cfg.ErrorMessage)
			}
		case <-ctx.Done():
			if !c.Writer.Written() {
				abortTimeout(c, cfg.ErrorMessage)
			}
		}
	}
}

func abortTimeout(c *gin.Context, fallback string) {
	message := fallback
	if translator := i18n.GetTranslator(); translator != nil {
		message = translator.Translate(i18n.ErrKeyTimeout, i18n.GetLocale(c))
	}
	c.AbortWithStatusJSON(http.StatusGatewayTimeout,
		dto.NewError(dto.ErrCodeTimeout, message).WithRequestID(GetRequestID(c)))
}

// TimeoutWithDuration creates timeout middleware with one deadline for
// every route.
func TimeoutWithDuration(timeout time.Duration) gin.HandlerFunc {
	cfg := DefaultTimeoutConfig()
	cfg.Timeout = timeout
	return Timeout(cfg)
}
