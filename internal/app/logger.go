// Package app provides logger initialization.
package app

import (
	"github.com/guttosm/cargo-service/config"
	"github.com/guttosm/cargo-service/internal/logger"
	"github.com/guttosm/cargo-service/internal/middleware"
)

// InitializeLogger initializes the JSON logger from the log configuration.
func InitializeLogger(cfg config.LogConfig) {
	logger.Init(cfg.Level, cfg.Pretty)
}

// AuditLoggerConfig sizes the audit worker pool from configuration. Unset
// values keep the pool defaults.
func AuditLoggerConfig(cfg config.AuditConfig) middleware.AsyncLoggerConfig {
	return middleware.AsyncLoggerConfig{
		BufferSize:   cfg.BufferSize,
		NumWorkers:   cfg.Workers,
		WriteTimeout: cfg.WriteTimeout,
	}
}
