package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/guttosm/cargo-service/internal/domain/dto"
	"github.com/guttosm/cargo-service/internal/i18n"
	"github.com/guttosm/cargo-service/internal/logger"
)

// ErrorHandler logs the errors handlers attach to the context and answers
// 500 when nothing was written. Rejected scans and selections (unknown
// parcel, already dispatched, cart empty) are routine on the warehouse
// floor and log at warn; only server errors log at error.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		status := c.Writer.Status()
		if !c.Writer.Written() {
			status = http.StatusInternalServerError
		}

		log := requestLogger(c)
		event := log.Warn()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.Int("status", status).
			Str("error", c.Errors.Last().Error()).
			Msg("Request error")

		if !c.Writer.Written() {
			message := i18n.GetTranslator().Translate(i18n.ErrKeyInternalError, i18n.GetLocale(c))
			c.JSON(http.StatusInternalServerError,
				dto.NewError(dto.ErrCodeInternal, message).WithRequestID(GetRequestID(c)))
		}
	}
}

// requestLogger returns a process logger carrying the request id, the
// route and its parcel or cart parameters.
func requestLogger(c *gin.Context) zerolog.Logger {
	ctx := logger.Logger().With().
		Str("request_id", GetRequestID(c)).
		Str("method", c.Request.Method).
		Str("route", c.FullPath())
	for _, p := range c.Params {
		ctx = ctx.Str("param_"+p.Key, p.Value)
	}
	return ctx.Logger()
}
