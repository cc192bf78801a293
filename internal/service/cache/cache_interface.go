// Package cache declares the cache used for parsed upload previews.
package cache

import "github.com/guttosm/cargo-service/internal/domain/model"

// Cache stores import reports keyed by a digest of the uploaded sheet.
type Cache interface {
	Get(key string) (model.ImportReport, bool)
	Set(key string, value model.ImportReport)
	Invalidate(key string)
	Clear()
	Stop()
}

// Metrics reports cache effectiveness.
type Metrics struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
	Size      int   `json:"size"`
	Capacity  int   `json:"capacity"`
}

// CacheWithMetrics is a Cache that reports Metrics.
type CacheWithMetrics interface {
	Cache
	Metrics() Metrics
}
