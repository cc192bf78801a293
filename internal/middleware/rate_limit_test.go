package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/cargo-service/internal/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewShardedRateLimiter(t *testing.T) {
	tests := []struct {
		name       string
		rate       int
		window     time.Duration
		numShards  int
		wantShards int
	}{
		{
			name:       "default shards when zero",
			rate:       10,
			window:     time.Minute,
			numShards:  0,
			wantShards: defaultNumShards,
		},
		{
			name:       "default shards when negative",
			rate:       10,
			window:     time.Minute,
			numShards:  -1,
			wantShards: defaultNumShards,
		},
		{
			name:       "custom shard count",
			rate:       10,
			window:     time.Minute,
			numShards:  8,
			wantShards: 8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := NewShardedRateLimiter(tt.rate, tt.window, tt.numShards)
			defer rl.Stop()

			assert.NotNil(t, rl)
			assert.Equal(t, tt.wantShards, rl.numShards)
			assert.Equal(t, tt.rate, rl.rate)
			assert.Equal(t, tt.window, rl.window)
			assert.Len(t, rl.shards, tt.wantShards)
		})
	}
}

func TestNewRateLimiter(t *testing.T) {
	rl := NewRateLimiter(10, time.Minute)
	defer rl.Stop()

	assert.NotNil(t, rl)
	assert.Equal(t, defaultNumShards, rl.numShards)
}

func TestShardedRateLimiter_CheckRateLimit(t *testing.T) {
	tests := []struct {
		name        string
		rate        int
		requests    int
		wantAllowed int
		wantBlocked int
	}{
		{
			name:        "all requests allowed under limit",
			rate:        5,
			requests:    3,
			wantAllowed: 3,
			wantBlocked: 0,
		},
		{
			name:        "exact rate limit",
			rate:        5,
			requests:    5,
			wantAllowed: 5,
			wantBlocked: 0,
		},
		{
			name:        "exceeds rate limit",
			rate:        5,
			requests:    8,
			wantAllowed: 5,
			wantBlocked: 3,
		},
		{
			name:        "single request allowed",
			rate:        1,
			requests:    3,
			wantAllowed: 1,
			wantBlocked: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := NewShardedRateLimiter(tt.rate, time.Minute, 4)
			defer rl.Stop()

			allowed := 0
			blocked := 0

			for i := 0; i < tt.requests; i++ {
				ok, _ := rl.checkRateLimit("user:station:dock-1")
				if ok {
					allowed++
				} else {
					blocked++
				}
			}

			assert.Equal(t, tt.wantAllowed, allowed)
			assert.Equal(t, tt.wantBlocked, blocked)
		})
	}
}

func TestShardedRateLimiter_RemainingTokens(t *testing.T) {
	rl := NewShardedRateLimiter(5, time.Minute, 4)
	defer rl.Stop()

	tests := []struct {
		request       int
		wantRemaining int
	}{
		{request: 1, wantRemaining: 4},
		{request: 2, wantRemaining: 3},
		{request: 3, wantRemaining: 2},
		{request: 4, wantRemaining: 1},
		{request: 5, wantRemaining: 0},
		{request: 6, wantRemaining: 0}, // Blocked
	}

	for _, tt := range tests {
		_, remaining := rl.checkRateLimit("user:station:dock-1")
		assert.Equal(t, tt.wantRemaining, remaining, "request %d", tt.request)
	}
}

func TestShardedRateLimiter_MultipleIdentifiers(t *testing.T) {
	rl := NewShardedRateLimiter(3, time.Minute, 4)
	defer rl.Stop()

	// Each station has its own quota
	identifiers := []string{"user:station:dock-1", "user:station:dock-2", "ip:10.0.4.17"}

	for _, id := range identifiers {
		for i := 0; i < 3; i++ {
			allowed, _ := rl.checkRateLimit(id)
			assert.True(t, allowed, "request %d for %s should be allowed", i+1, id)
		}
		// 4th request should be blocked
		allowed, _ := rl.checkRateLimit(id)
		assert.False(t, allowed, "4th request for %s should be blocked", id)
	}
}

func scanBurst(router *gin.Engine, n int, setup func(*http.Request)) (ok, blocked int, last *httptest.ResponseRecorder) {
	for i := 0; i < n; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/cargo/receive-parcel", nil)
		req.RemoteAddr = "10.0.4.17:52100"
		if setup != nil {
			setup(req)
		}
		last = httptest.NewRecorder()
		router.ServeHTTP(last, req)

		switch last.Code {
		case http.StatusOK:
			ok++
		case http.StatusTooManyRequests:
			blocked++
		}
	}
	return ok, blocked, last
}

func TestShardedRateLimiter_RateLimit_Middleware(t *testing.T) {
	tests := []struct {
		name         string
		rate         int
		scans        int
		wantOKCount  int
		want429Count int
	}{
		{name: "burst within the limit", rate: 5, scans: 3, wantOKCount: 3},
		{name: "burst above the limit", rate: 3, scans: 5, wantOKCount: 3, want429Count: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := NewShardedRateLimiter(tt.rate, time.Minute, 4)
			defer rl.Stop()

			router := gin.New()
			router.Use(rl.RateLimit())
			router.POST("/api/cargo/receive-parcel", func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			rejected := metrics.RateLimitedTotal.WithLabelValues("ip", "/api/cargo/receive-parcel")
			before := testutil.ToFloat64(rejected)

			okCount, blockedCount, _ := scanBurst(router, tt.scans, nil)

			assert.Equal(t, tt.wantOKCount, okCount)
			assert.Equal(t, tt.want429Count, blockedCount)
			assert.Equal(t, before+float64(tt.want429Count), testutil.ToFloat64(rejected))
		})
	}
}

func TestShardedRateLimiter_UserRateLimit_Middleware(t *testing.T) {
	rl := NewShardedRateLimiter(3, time.Minute, 4)
	defer rl.Stop()

	router := gin.New()
	router.Use(APIKeyAuth(map[string]string{"dock-1-key": "dock-1", "dock-2-key": "dock-2"}))
	router.Use(rl.UserRateLimit())
	router.POST("/api/cargo/receive-parcel", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	withKey := func(key string) func(*http.Request) {
		return func(req *http.Request) { req.Header.Set(APIKeyHeader, key) }
	}

	okCount, blockedCount, last := scanBurst(router, 5, withKey("dock-1-key"))
	assert.Equal(t, 3, okCount)
	assert.Equal(t, 2, blockedCount)
	assert.Equal(t, "0", last.Header().Get("X-RateLimit-Remaining"))

	// Another station behind the same NAT keeps its own quota.
	okCount, blockedCount, _ = scanBurst(router, 3, withKey("dock-2-key"))
	assert.Equal(t, 3, okCount)
	assert.Zero(t, blockedCount)
}

func TestShardedRateLimiter_RetryAfter(t *testing.T) {
	rl := NewShardedRateLimiter(1, 30*time.Second, 4)
	defer rl.Stop()

	router := gin.New()
	router.Use(RequestID(), rl.RateLimit())
	router.POST("/api/cargo/receive-parcel", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	_, blocked, last := scanBurst(router, 2, nil)
	require.Equal(t, 1, blocked)

	retryAfter, err := strconv.Atoi(last.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.Equal(t, 30, retryAfter, "the window just started")
	assert.Contains(t, last.Body.String(), "rate_limit_exceeded")
}

func TestRetryAfterSeconds(t *testing.T) {
	tests := []struct {
		reset time.Duration
		want  int
	}{
		{time.Minute, 60},
		{1500 * time.Millisecond, 2},
		{10 * time.Millisecond, 1},
		{0, 1},
		{-time.Second, 1},
	}

	for _, tt := range tests {
		t.Run(tt.reset.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, retryAfterSeconds(tt.reset))
		})
	}
}

func TestShardedRateLimiter_GetUserIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		setupCtx func(c *gin.Context)
		want     string
	}{
		{
			name:     "station from an API key",
			setupCtx: func(c *gin.Context) { c.Set(ContextUserID, StationID("dock-1", "k")) },
			want:     "user:station:dock-1",
		},
		{
			name:     "user from a token",
			setupCtx: func(c *gin.Context) { c.Set(ContextUserID, "user-42") },
			want:     "user:user-42",
		},
		{
			name:     "anonymous scanner",
			setupCtx: func(c *gin.Context) {},
			want:     "ip:10.0.4.17",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := NewShardedRateLimiter(10, time.Minute, 4)
			defer rl.Stop()

			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodPost, "/api/cargo/receive-parcel", nil)
			c.Request.RemoteAddr = "10.0.4.17:52100"

			tt.setupCtx(c)

			assert.Equal(t, tt.want, rl.getUserIdentifier(c))
		})
	}
}

func TestShardedRateLimiter_Stats(t *testing.T) {
	rl := NewShardedRateLimiter(10, time.Minute, 4)
	defer rl.Stop()

	for _, id := range []string{"ip:10.0.4.17", "ip:10.0.4.18", "user:station:dock-1", "user:station:dock-2", "user:station:gate"} {
		rl.checkRateLimit(id)
	}

	total, perShard := rl.Stats()
	assert.Equal(t, 5, total)
	assert.Len(t, perShard, 4)

	sum := 0
	for _, count := range perShard {
		sum += count
	}
	assert.Equal(t, total, sum)
}

func TestShardedRateLimiter_WindowReset(t *testing.T) {
	rl := NewShardedRateLimiter(2, 50*time.Millisecond, 4)
	defer rl.Stop()

	rl.checkRateLimit("user:station:dock-1")
	rl.checkRateLimit("user:station:dock-1")
	allowed, _ := rl.checkRateLimit("user:station:dock-1")
	assert.False(t, allowed)

	time.Sleep(60 * time.Millisecond)

	allowed, remaining := rl.checkRateLimit("user:station:dock-1")
	assert.True(t, allowed)
	assert.Equal(t, 1, remaining)
}

func TestShardedRateLimiter_Named(t *testing.T) {
	rl := NewRateLimiter(10, time.Minute).Named("user")
	defer rl.Stop()

	assert.Equal(t, "user", rl.name)
}

func TestShardedRateLimiter_StopTwice(t *testing.T) {
	rl := NewRateLimiter(10, time.Minute)
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}
