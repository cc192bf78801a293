package middleware

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/cargo-service/internal/i18n"
)

const (
	// APIKeyHeader is the HTTP header name for API key authentication.
	APIKeyHeader = "X-API-Key"
	// APIKeyQuery is the query parameter name for API key authentication.
	APIKeyQuery = "api_key"
)

// APIKeyAuth returns a middleware that admits requests carrying one of the
// station keys. The station becomes the current user, so receptions and
// dispatch confirmations are audited and rate limited per station. An empty
// key set disables authentication.
func APIKeyAuth(stations map[string]string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(stations) == 0 {
			c.Next()
			return
		}

		key := c.GetHeader(APIKeyHeader)
		if key == "" {
			key = c.Query(APIKeyQuery)
		}
		if key == "" {
			abortUnauthorized(c, i18n.ErrKeyAPIKeyRequired)
			return
		}

		station, ok := stations[key]
		if !ok {
			abortUnauthorized(c, i18n.ErrKeyInvalidAPIKey)
			return
		}

		c.Set(ContextUserID, StationID(station, key))
		c.Set(ContextUserName, station)
		c.Next()
	}
}

// StationID names the caller behind an API key. Unnamed keys are known by
// a fingerprint that does not reveal the key.
func StationID(station, key string) string {
	if station != "" {
		return "station:" + station
	}
	sum := sha256.Sum256([]byte(key))
	return "key:" + hex.EncodeToString(sum[:4])
}
