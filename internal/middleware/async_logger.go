package middleware

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/guttosm/cargo-service/internal/domain/model"
	"github.com/guttosm/cargo-service/internal/logger"
	"github.com/guttosm/cargo-service/internal/metrics"
	"github.com/guttosm/cargo-service/internal/service"
)

// Audit entry outcomes reported to metrics.
const (
	auditWritten = "written"
	auditFailed  = "failed"
	auditDropped = "dropped"
)

// AsyncLoggerConfig sizes the audit worker pool.
type AsyncLoggerConfig struct {
	// BufferSize is the number of entries queued before new ones are dropped.
	BufferSize int
	// NumWorkers is the number of goroutines persisting entries.
	NumWorkers int
	// WriteTimeout bounds one database write.
	WriteTimeout time.Duration
}

// DefaultAsyncLoggerConfig returns the pool used when nothing is configured.
func DefaultAsyncLoggerConfig() AsyncLoggerConfig {
	return AsyncLoggerConfig{
		BufferSize:   1000,
		NumWorkers:   4,
		WriteTimeout: 5 * time.Second,
	}
}

// withDefaults replaces unset sizes with the defaults.
func (c AsyncLoggerConfig) withDefaults() AsyncLoggerConfig {
	d := DefaultAsyncLoggerConfig()
	if c.BufferSize <= 0 {
		c.BufferSize = d.BufferSize
	}
	if c.NumWorkers <= 0 {
		c.NumWorkers = d.NumWorkers
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	return c
}

// AuditStats counts what happened to the entries handed to an AsyncLogger.
type AuditStats struct {
	Enqueued int64
	Dropped  int64
	Written  int64
	Failed   int64
}

// AsyncLogger persists cargo audit entries (imports, receptions, dispatch
// confirmations) from a bounded worker pool. Entries that cannot be queued
// or written are still emitted on the process log so the trail survives a
// database outage.
type AsyncLogger struct {
	loggingService service.LoggingService
	entryCh        chan *model.LogEntry
	wg             sync.WaitGroup
	stopCh         chan struct{}
	stopOnce       sync.Once
	stopped        atomic.Bool
	writeTimeout   time.Duration

	enqueued atomic.Int64
	dropped  atomic.Int64
	written  atomic.Int64
	failed   atomic.Int64
}

// NewAsyncLogger starts the worker pool. It returns nil without a logging
// service.
func NewAsyncLogger(loggingService service.LoggingService, cfg AsyncLoggerConfig) *AsyncLogger {
	if loggingService == nil {
		return nil
	}
	cfg = cfg.withDefaults()

	al := &AsyncLogger{
		loggingService: loggingService,
		entryCh:        make(chan *model.LogEntry, cfg.BufferSize),
		stopCh:         make(chan struct{}),
		writeTimeout:   cfg.WriteTimeout,
	}
	for i := 0; i < cfg.NumWorkers; i++ {
		al.wg.Add(1)
		go al.worker()
	}
	return al
}

func (al *AsyncLogger) worker() {
	defer al.wg.Done()

	for {
		select {
		case entry := <-al.entryCh:
			al.writeEntry(entry)
		case <-al.stopCh:
			// Drain what is queued before stopping.
			for {
				select {
				case entry := <-al.entryCh:
					al.writeEntry(entry)
				default:
					return
				}
			}
		}
	}
}

func (al *AsyncLogger) writeEntry(entry *model.LogEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), al.writeTimeout)
	defer cancel()

	if err := al.loggingService.CreateLog(ctx, entry); err != nil {
		al.failed.Add(1)
		metrics.RecordAuditEntry(entry.ActionType, auditFailed)
		log := auditFallback(entry)
		log.Warn().Err(err).Msg("Audit entry not persisted")
		return
	}
	al.written.Add(1)
	metrics.RecordAuditEntry(entry.ActionType, auditWritten)
}

// Log queues an entry. It returns false when the queue is full or the
// logger is stopped; the entry then only reaches the process log.
func (al *AsyncLogger) Log(entry *model.LogEntry) bool {
	if !al.stopped.Load() {
		select {
		case al.entryCh <- entry:
			al.enqueued.Add(1)
			return true
		default:
		}
	}

	al.dropped.Add(1)
	metrics.RecordAuditEntry(entry.ActionType, auditDropped)
	log := auditFallback(entry)
	log.Warn().Msg("Audit entry dropped")
	return false
}

// Stop writes the queued entries and stops the workers. It is safe to call
// more than once.
func (al *AsyncLogger) Stop() {
	al.stopOnce.Do(func() {
		al.stopped.Store(true)
		close(al.stopCh)
		al.wg.Wait()
	})
}

// Stats returns the entry counters.
func (al *AsyncLogger) Stats() AuditStats {
	return AuditStats{
		Enqueued: al.enqueued.Load(),
		Dropped:  al.dropped.Load(),
		Written:  al.written.Load(),
		Failed:   al.failed.Load(),
	}
}

// auditFallback returns a process logger carrying the entry's audit fields.
func auditFallback(entry *model.LogEntry) zerolog.Logger {
	ctx := logger.Logger().With().
		Str("action_type", entry.ActionType).
		Str("request_id", entry.RequestID).
		Str("audit_level", entry.Level).
		Str("audit_message", entry.Message)
	if entry.UserID != "" {
		ctx = ctx.Str("user_id", entry.UserID)
	}
	if entry.Error != "" {
		ctx = ctx.Str("audit_error", entry.Error)
	}
	if len(entry.Fields) > 0 {
		ctx = ctx.Interface("fields", entry.Fields)
	}
	return ctx.Logger()
}

var (
	globalAsyncLogger   *AsyncLogger
	globalAsyncLoggerMu sync.RWMutex
)

// InitAsyncLogger starts the process-wide audit pool, stopping any
// previous one.
func InitAsyncLogger(loggingService service.LoggingService, cfg AsyncLoggerConfig) {
	globalAsyncLoggerMu.Lock()
	defer globalAsyncLoggerMu.Unlock()

	if globalAsyncLogger != nil {
		globalAsyncLogger.Stop()
	}
	globalAsyncLogger = NewAsyncLogger(loggingService, cfg)
}

// GetAsyncLogger returns the process-wide audit pool, or nil.
func GetAsyncLogger() *AsyncLogger {
	globalAsyncLoggerMu.RLock()
	defer globalAsyncLoggerMu.RUnlock()
	return globalAsyncLogger
}

// StopAsyncLogger drains and stops the process-wide audit pool.
func StopAsyncLogger() {
	globalAsyncLoggerMu.Lock()
	defer globalAsyncLoggerMu.Unlock()

	if globalAsyncLogger != nil {
		globalAsyncLogger.Stop()
		globalAsyncLogger = nil
	}
}
