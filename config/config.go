// Package config provides configuration management for the cargo service.
package config

import (
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Config holds the complete application configuration.
type Config struct {
	Server   ServerConfig
	Cache    CacheConfig
	Auth     AuthConfig
	Database DatabaseConfig
	Import   ImportConfig
	Log      LogConfig
	Audit    AuditConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port          string
	RateLimit     int
	RateWindow    time.Duration
	CORSOrigins   []string
	SwaggerUser   string
	SwaggerPass   string
	DefaultLocale string

	// RequestTimeout bounds every /api request; zero disables it.
	RequestTimeout time.Duration
	// UploadTimeout bounds sheet uploads and workbook exports instead of
	// RequestTimeout; zero leaves them without a deadline.
	UploadTimeout time.Duration
}

// CacheConfig holds the upload preview cache configuration.
type CacheConfig struct {
	Size int
	TTL  time.Duration
}

// AuthConfig holds authentication configuration.
// Tokens are issued by an external identity provider; the service only verifies them.
type AuthConfig struct {
	Enabled      bool
	// APIKeys maps each accepted key to the station that uses it.
	APIKeys      map[string]string
	JWTSecretKey string
	JWTIssuer    string
}

// DatabaseConfig holds MongoDB configuration.
type DatabaseConfig struct {
	URI          string
	DatabaseName string
	LogsTTL      time.Duration
	Enabled      bool
	// CircuitBreaker configuration
	CircuitBreakerFailureThreshold int
	CircuitBreakerSuccessThreshold int
	CircuitBreakerTimeout          time.Duration
}

// ImportConfig holds spreadsheet import limits.
type ImportConfig struct {
	MaxUploadBytes int64
	HeaderScanRows int
	CSVCharset     string
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level  string
	Pretty bool
}

// AuditConfig sizes the worker pool that persists audit entries.
type AuditConfig struct {
	BufferSize   int
	Workers      int
	WriteTimeout time.Duration
}

// Load creates a Config from environment variables.
func Load() Config {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			RateLimit:      getInt(v, "RATE_LIMIT"),
			RateWindow:     getDuration(v, "RATE_WINDOW"),
			CORSOrigins:    parseCORSOrigins(v.GetString("CORS_ORIGINS")),
			SwaggerUser:    v.GetString("SWAGGER_USER"),
			SwaggerPass:    v.GetString("SWAGGER_PASS"),
			DefaultLocale:  v.GetString("DEFAULT_LOCALE"),
			RequestTimeout: getDuration(v, "REQUEST_TIMEOUT"),
			UploadTimeout:  getDuration(v, "UPLOAD_TIMEOUT"),
		},
		Cache: CacheConfig{
			Size: getInt(v, "CACHE_SIZE"),
			TTL:  getDuration(v, "CACHE_TTL"),
		},
		Auth: AuthConfig{
			Enabled:      getBool(v, "AUTH_ENABLED"),
			APIKeys:      parseAPIKeys(v.GetString("API_KEYS")),
			JWTSecretKey: v.GetString("JWT_SECRET_KEY"),
			JWTIssuer:    v.GetString("JWT_ISSUER"),
		},
		Database: DatabaseConfig{
			URI:                            v.GetString("MONGODB_URI"),
			DatabaseName:                   v.GetString("MONGODB_DATABASE"),
			LogsTTL:                        time.Duration(getInt(v, "MONGODB_LOGS_TTL_DAYS")) * 24 * time.Hour,
			Enabled:                        getBool(v, "MONGODB_ENABLED"),
			CircuitBreakerFailureThreshold: getInt(v, "CIRCUIT_BREAKER_FAILURE_THRESHOLD"),
			CircuitBreakerSuccessThreshold: getInt(v, "CIRCUIT_BREAKER_SUCCESS_THRESHOLD"),
			CircuitBreakerTimeout:          getDuration(v, "CIRCUIT_BREAKER_TIMEOUT"),
		},
		Import: ImportConfig{
			MaxUploadBytes: int64(getInt(v, "IMPORT_MAX_UPLOAD_MB")) << 20,
			HeaderScanRows: getInt(v, "IMPORT_HEADER_SCAN_ROWS"),
			CSVCharset:     v.GetString("IMPORT_CSV_CHARSET"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Pretty: getBool(v, "LOG_PRETTY"),
		},
		Audit: AuditConfig{
			BufferSize:   getInt(v, "AUDIT_BUFFER_SIZE"),
			Workers:      getInt(v, "AUDIT_WORKERS"),
			WriteTimeout: getDuration(v, "AUDIT_WRITE_TIMEOUT"),
		},
	}
}

var defaults = map[string]any{
	"PORT":                              "8080",
	"RATE_LIMIT":                        100,
	"RATE_WINDOW":                       time.Minute,
	"DEFAULT_LOCALE":                    "en",
	"REQUEST_TIMEOUT":                   30 * time.Second,
	"UPLOAD_TIMEOUT":                    2 * time.Minute,
	"LOG_LEVEL":                         "info",
	"LOG_PRETTY":                        false,
	"AUDIT_BUFFER_SIZE":                 1000,
	"AUDIT_WORKERS":                     4,
	"AUDIT_WRITE_TIMEOUT":               5 * time.Second,
	"CACHE_SIZE":                        256,
	"CACHE_TTL":                         10 * time.Minute,
	"AUTH_ENABLED":                      false,
	"JWT_SECRET_KEY":                    "",
	"JWT_ISSUER":                        "",
	"MONGODB_URI":                       "mongodb://localhost:27017",
	"MONGODB_DATABASE":                  "cargo_service",
	"MONGODB_LOGS_TTL_DAYS":             30,
	"MONGODB_ENABLED":                   false,
	"CIRCUIT_BREAKER_FAILURE_THRESHOLD": 5,
	"CIRCUIT_BREAKER_SUCCESS_THRESHOLD": 2,
	"CIRCUIT_BREAKER_TIMEOUT":           30 * time.Second,
	"IMPORT_MAX_UPLOAD_MB":              10,
	"IMPORT_HEADER_SCAN_ROWS":           10,
	"IMPORT_CSV_CHARSET":                "windows-1252",
}

func setDefaults(v *viper.Viper) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

// getInt falls back to the default when the environment value does not parse.
func getInt(v *viper.Viper, key string) int {
	i, err := cast.ToIntE(v.Get(key))
	if err != nil {
		i, _ = cast.ToIntE(defaults[key])
	}
	return i
}

func getBool(v *viper.Viper, key string) bool {
	b, err := cast.ToBoolE(v.Get(key))
	if err != nil {
		b, _ = cast.ToBoolE(defaults[key])
	}
	return b
}

func getDuration(v *viper.Viper, key string) time.Duration {
	d, err := cast.ToDurationE(v.Get(key))
	if err != nil {
		d, _ = cast.ToDurationE(defaults[key])
	}
	return d
}

// parseAPIKeys reads "station=key" pairs. A bare key has no station name.
func parseAPIKeys(s string) map[string]string {
	if s == "" {
		return nil
	}
	entries := strings.Split(s, ",")
	result := make(map[string]string, len(entries))
	for _, entry := range entries {
		station, key, found := strings.Cut(entry, "=")
		if !found {
			station, key = "", station
		}
		if key = strings.TrimSpace(key); key != "" {
			result[key] = strings.TrimSpace(station)
		}
	}
	return result
}

func parseCORSOrigins(s string) []string {
	// Default origins for local development
	local := []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
	}
	if s == "" {
		return local
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts)+len(local))
	result = append(result, local...)
	for _, p := range parts {
		if origin := strings.TrimSpace(p); origin != "" {
			result = append(result, origin)
		}
	}
	return result
}
