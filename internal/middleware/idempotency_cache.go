package middleware

import (
	"sync"
	"time"
)

// IdempotencyMaxEntries bounds the replay cache.
const IdempotencyMaxEntries = 10000

// cachedResponse is a stored response to a cargo write (a reception, a cart
// creation, a dispatch confirmation) kept for replay.
type cachedResponse struct {
	StatusCode  int
	ContentType string
	Headers     map[string]string
	Body        []byte
	Timestamp   time.Time
}

// idempotencyCache holds replayable responses and the keys whose first
// request is still being handled.
type idempotencyCache struct {
	mu         sync.Mutex
	items      map[string]*cachedResponse
	inFlight   map[string]struct{}
	ttl        time.Duration
	maxEntries int
	stopCh     chan struct{}
	stopOnce   sync.Once
}

func newIdempotencyCache(ttl time.Duration, maxEntries int) *idempotencyCache {
	if maxEntries <= 0 {
		maxEntries = IdempotencyMaxEntries
	}
	c := &idempotencyCache{
		items:      make(map[string]*cachedResponse),
		inFlight:   make(map[string]struct{}),
		ttl:        ttl,
		maxEntries: maxEntries,
		stopCh:     make(chan struct{}),
	}
	go c.startCleanup()
	return c
}

// Get returns the stored response for key unless it expired.
func (c *idempotencyCache) Get(key string) (*cachedResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.get(key)
}

func (c *idempotencyCache) get(key string) (*cachedResponse, bool) {
	resp, ok := c.items[key]
	if !ok || time.Since(resp.Timestamp) > c.ttl {
		return nil, false
	}
	return resp, true
}

// Begin claims key for a first request. It returns the stored response
// when there is one, and started=false when another request holding the
// same key has not finished.
func (c *idempotencyCache) Begin(key string) (resp *cachedResponse, started bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if resp, ok := c.get(key); ok {
		return resp, false
	}
	if _, busy := c.inFlight[key]; busy {
		return nil, false
	}
	c.inFlight[key] = struct{}{}
	return nil, true
}

// Finish releases key and stores resp when it is not nil.
func (c *idempotencyCache) Finish(key string, resp *cachedResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.inFlight, key)
	if resp != nil {
		c.set(key, resp)
	}
}

// Set stores a response.
func (c *idempotencyCache) Set(key string, resp *cachedResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(key, resp)
}

func (c *idempotencyCache) set(key string, resp *cachedResponse) {
	resp.Timestamp = time.Now()
	if _, ok := c.items[key]; !ok && len(c.items) >= c.maxEntries {
		c.removeExpired(resp.Timestamp)
		if len(c.items) >= c.maxEntries {
			c.evictOldest()
		}
	}
	c.items[key] = resp
}

// Len returns the number of stored responses, expired ones included.
func (c *idempotencyCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stop ends the cleanup loop.
func (c *idempotencyCache) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
}

func (c *idempotencyCache) startCleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stopCh:
			return
		}
	}
}

func (c *idempotencyCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeExpired(time.Now())
}

func (c *idempotencyCache) removeExpired(now time.Time) {
	for key, resp := range c.items {
		if now.Sub(resp.Timestamp) > c.ttl {
			delete(c.items, key)
		}
	}
}

func (c *idempotencyCache) evictOldest() {
	var oldestKey string
	var oldest time.Time
	for key, resp := range c.items {
		if oldestKey == "" || resp.Timestamp.Before(oldest) {
			oldestKey, oldest = key, resp.Timestamp
		}
	}
	delete(c.items, oldestKey)
}
