package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values", func(t *testing.T) {
		os.Clearenv()

		cfg := Load()

		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, 100, cfg.Server.RateLimit)
		assert.Equal(t, time.Minute, cfg.Server.RateWindow)
		assert.Equal(t, "en", cfg.Server.DefaultLocale)
		assert.Equal(t, 256, cfg.Cache.Size)
		assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
		assert.False(t, cfg.Auth.Enabled)
		assert.Equal(t, "cargo_service", cfg.Database.DatabaseName)
		assert.Equal(t, 30*24*time.Hour, cfg.Database.LogsTTL)
		assert.Equal(t, int64(10<<20), cfg.Import.MaxUploadBytes)
		assert.Equal(t, 10, cfg.Import.HeaderScanRows)
		assert.Equal(t, "windows-1252", cfg.Import.CSVCharset)
		assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
		assert.Equal(t, 2*time.Minute, cfg.Server.UploadTimeout)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.False(t, cfg.Log.Pretty)
		assert.Equal(t, AuditConfig{BufferSize: 1000, Workers: 4, WriteTimeout: 5 * time.Second}, cfg.Audit)
	})

	t.Run("loads values from environment", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("PORT", "9090")
		_ = os.Setenv("RATE_LIMIT", "50")
		_ = os.Setenv("RATE_WINDOW", "30s")
		_ = os.Setenv("CACHE_SIZE", "500")
		_ = os.Setenv("CACHE_TTL", "1m")
		_ = os.Setenv("AUTH_ENABLED", "true")
		_ = os.Setenv("API_KEYS", "dock-1=key1,key2")
		_ = os.Setenv("JWT_SECRET_KEY", "s3cret")
		_ = os.Setenv("MONGODB_ENABLED", "true")
		_ = os.Setenv("MONGODB_LOGS_TTL_DAYS", "7")
		_ = os.Setenv("IMPORT_MAX_UPLOAD_MB", "2")
		_ = os.Setenv("IMPORT_HEADER_SCAN_ROWS", "5")
		_ = os.Setenv("AUDIT_WORKERS", "2")
		_ = os.Setenv("AUDIT_WRITE_TIMEOUT", "1s")
		_ = os.Setenv("UPLOAD_TIMEOUT", "5m")
		defer os.Clearenv()

		cfg := Load()

		assert.Equal(t, "9090", cfg.Server.Port)
		assert.Equal(t, 50, cfg.Server.RateLimit)
		assert.Equal(t, 30*time.Second, cfg.Server.RateWindow)
		assert.Equal(t, 500, cfg.Cache.Size)
		assert.Equal(t, time.Minute, cfg.Cache.TTL)
		assert.True(t, cfg.Auth.Enabled)
		assert.Equal(t, map[string]string{"key1": "dock-1", "key2": ""}, cfg.Auth.APIKeys)
		assert.Equal(t, "s3cret", cfg.Auth.JWTSecretKey)
		assert.True(t, cfg.Database.Enabled)
		assert.Equal(t, 7*24*time.Hour, cfg.Database.LogsTTL)
		assert.Equal(t, int64(2<<20), cfg.Import.MaxUploadBytes)
		assert.Equal(t, 5, cfg.Import.HeaderScanRows)
		assert.Equal(t, 2, cfg.Audit.Workers)
		assert.Equal(t, time.Second, cfg.Audit.WriteTimeout)
		assert.Equal(t, 5*time.Minute, cfg.Server.UploadTimeout)
	})

	t.Run("handles invalid values gracefully", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("RATE_LIMIT", "invalid")
		_ = os.Setenv("AUTH_ENABLED", "invalid")
		_ = os.Setenv("RATE_WINDOW", "invalid")
		defer os.Clearenv()

		cfg := Load()

		assert.Equal(t, 100, cfg.Server.RateLimit)
		assert.False(t, cfg.Auth.Enabled)
		assert.Equal(t, time.Minute, cfg.Server.RateWindow)
	})

	t.Run("parses API keys with whitespace", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("API_KEYS", " key1 , gate = key2 , key3 ,, outbound= ")
		defer os.Clearenv()

		cfg := Load()

		assert.Len(t, cfg.Auth.APIKeys, 3)
		assert.Equal(t, "gate", cfg.Auth.APIKeys["key2"])
		assert.Contains(t, cfg.Auth.APIKeys, "key3")
	})

	t.Run("returns nil for empty API keys", func(t *testing.T) {
		os.Clearenv()

		cfg := Load()

		assert.Nil(t, cfg.Auth.APIKeys)
	})

	t.Run("appends configured CORS origins to local defaults", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("CORS_ORIGINS", "https://warehouse.example.org, ")
		defer os.Clearenv()

		cfg := Load()

		assert.Equal(t, []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"https://warehouse.example.org",
		}, cfg.Server.CORSOrigins)
	})
}
