// Package middleware provides HTTP middleware components for the cargo service.
package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/cargo-service/internal/domain/dto"
	"github.com/guttosm/cargo-service/internal/i18n"
)

const (
	// IdempotencyKeyHeader is the HTTP header name for idempotency key (RFC standard).
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayedHeader marks a response served from the replay cache.
	IdempotencyReplayedHeader = "X-Idempotency-Replayed"
	// IdempotencyKeyTTL is the TTL for cached idempotency responses.
	IdempotencyKeyTTL = 5 * time.Minute
	// IdempotencyMaxBody is the largest body hashed into an idempotency key.
	IdempotencyMaxBody int64 = 10 << 20
)

// IdempotencyConfig holds configuration for idempotency middleware.
type IdempotencyConfig struct {
	Cache   *idempotencyCache
	TTL     time.Duration
	Enabled bool
	// MaxBodyBytes bounds how much of a body is read for the key. Larger
	// requests pass through without replay protection.
	MaxBodyBytes int64
}

// DefaultIdempotencyConfig returns default idempotency configuration.
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		Cache:        newIdempotencyCache(IdempotencyKeyTTL, IdempotencyMaxEntries),
		TTL:          IdempotencyKeyTTL,
		Enabled:      true,
		MaxBodyBytes: IdempotencyMaxBody,
	}
}

// Idempotency returns a middleware that makes retried cargo writes safe. A
// scanner that fires receive-parcel twice, or a client that retries a
// dispatch confirmation, gets the first response back instead of a second
// transition. A retry that arrives while the first request still runs is
// answered with 409.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if !cfg.Enabled || cfg.Cache == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		body, ok := peekBody(c.Request, cfg.MaxBodyBytes)
		if !ok {
			c.Next()
			return
		}
		cacheKey := generateCacheKey(key, caller(c), c.Request, body)

		cached, started := cfg.Cache.Begin(cacheKey)
		switch {
		case cached != nil:
			replay(c, cached)
			return
		case !started:
			message := i18n.GetTranslator().Translate(i18n.ErrKeyRequestInProgress, i18n.GetLocale(c))
			c.AbortWithStatusJSON(http.StatusConflict,
				dto.NewError(dto.ErrCodeConflict, message).WithRequestID(GetRequestID(c)))
			return
		}

		writer := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
			headers:        make(map[string]string),
		}
		c.Writer = writer

		var stored *cachedResponse
		defer func() { cfg.Cache.Finish(cacheKey, stored) }()

		c.Next()

		// Failed requests may be retried for real.
		if writer.statusCode >= 200 && writer.statusCode < 300 {
			stored = &cachedResponse{
				StatusCode:  writer.statusCode,
				ContentType: writer.Header().Get("Content-Type"),
				Headers:     writer.headers,
				Body:        writer.body.Bytes(),
			}
		}
	}
}

func replay(c *gin.Context, resp *cachedResponse) {
	for k, v := range resp.Headers {
		c.Header(k, v)
	}
	c.Header(IdempotencyReplayedHeader, "true")
	contentType := resp.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	c.Data(resp.StatusCode, contentType, resp.Body)
	c.Abort()
}

// caller identifies who sent the request, so two callers reusing a key do
// not see each other's responses.
func caller(c *gin.Context) string {
	if id, _ := CurrentUser(c); id != "" {
		return "user:" + id
	}
	return "ip:" + c.ClientIP()
}

// peekBody reads up to limit bytes of the body and puts them back in front
// of the unread rest. ok is false when the body is longer than limit.
func peekBody(req *http.Request, limit int64) (body []byte, ok bool) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, true
	}
	if limit <= 0 {
		limit = IdempotencyMaxBody
	}
	head, err := io.ReadAll(io.LimitReader(req.Body, limit+1))
	req.Body = readCloser{Reader: io.MultiReader(bytes.NewReader(head), req.Body), Closer: req.Body}
	if err != nil || int64(len(head)) > limit {
		return nil, false
	}
	return head, true
}

type readCloser struct {
	io.Reader
	io.Closer
}

// generateCacheKey hashes the idempotency key, the caller, the method, the
// path and the body.
func generateCacheKey(idempotencyKey, caller string, req *http.Request, body []byte) string {
	hasher := sha256.New()
	for _, part := range []string{idempotencyKey, caller, req.Method, req.URL.Path} {
		hasher.Write([]byte(part))
		hasher.Write([]byte{0})
	}
	hasher.Write(body)
	return hex.EncodeToString(hasher.Sum(nil))
}

// responseWriter captures the response for caching.
type responseWriter struct {
	gin.ResponseWriter
	body       *bytes.Buffer
	statusCode int
	headers    map[string]string
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *responseWriter) Header() http.Header {
	headers := w.ResponseWriter.Header()
	// Capture headers for caching
	for k, v := range headers {
		if len(v) > 0 {
			w.headers[k] = v[0]
		}
	}
	return headers
}
