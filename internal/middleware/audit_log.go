// Package middleware provides audit logging utilities.
package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/cargo-service/internal/domain/model"
	"github.com/guttosm/cargo-service/internal/service"
)

// AuditLog records a state-changing action such as an import, a parcel
// reception or a dispatch confirmation.
func AuditLog(loggingService service.LoggingService, c *gin.Context, actionType string, message string, fields map[string]any) {
	if loggingService == nil {
		return
	}
	deliver(loggingService, auditEntry(c, "info", actionType, message, fields))
}

// AuditLogError records a failed action for audit purposes.
func AuditLogError(loggingService service.LoggingService, c *gin.Context, actionType string, message string, err error, fields map[string]any) {
	if loggingService == nil {
		return
	}
	entry := auditEntry(c, "error", actionType, message, fields)
	if err != nil {
		entry.Error = err.Error()
	}
	deliver(loggingService, entry)
}

// LoggingServiceFrom returns the logging service the router stored in the
// context, or nil.
func LoggingServiceFrom(c *gin.Context) service.LoggingService {
	if v, ok := c.Get(ContextLoggingService); ok {
		if ls, ok := v.(service.LoggingService); ok {
			return ls
		}
	}
	return nil
}

// ContextLoggingService is the context key of the request's logging service.
const ContextLoggingService = "logging_service"

func auditEntry(c *gin.Context, level, actionType, message string, fields map[string]any) *model.LogEntry {
	userID, email := CurrentUser(c)
	return &model.LogEntry{
		Timestamp:  time.Now(),
		Level:      level,
		Message:    message,
		RequestID:  GetRequestID(c),
		Method:     c.Request.Method,
		Path:       c.Request.URL.Path,
		IP:         c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		UserID:     userID,
		UserEmail:  email,
		ActionType: actionType,
		Fields:     fields,
	}
}

// deliver hands the entry to the async worker pool, or writes it from a
// goroutine when the pool is not running.
func deliver(loggingService service.LoggingService, entry *model.LogEntry) {
	if al := GetAsyncLogger(); al != nil {
		al.Log(entry)
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = loggingService.CreateLog(ctx, entry)
	}()
}
