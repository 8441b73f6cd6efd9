package middleware

import (
	"bytes"
	"net/http"
	"sync"
	"time"
)

// ReplayCache remembers responses to requests carrying an idempotency key
// so retried creates do not book twice.
type ReplayCache struct {
	mu      sync.RWMutex
	entries map[string]*cachedResponse
	ttl     time.Duration
	stopCh  chan struct{}
}

type cachedResponse struct {
	statusCode int
	header     http.Header
	body       []byte
	storedAt   time.Time
}

func NewReplayCache(ttl time.Duration) *ReplayCache {
	c := &ReplayCache{
		entries: make(map[string]*cachedResponse),
		ttl:     ttl,
		stopCh:  make(chan struct{}),
	}
	go c.cleanup()
	return c
}

func (c *ReplayCache) get(key string) (*cachedResponse, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || time.Since(entry.storedAt) > c.ttl {
		return nil, false
	}
	return entry, true
}

func (c *ReplayCache) set(key string, entry *cachedResponse) {
	entry.storedAt = time.Now()
	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
}

func (c *ReplayCache) cleanup() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			for key, entry := range c.entries {
				if time.Since(entry.storedAt) > c.ttl {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		case <-c.stopCh:
			return
		}
	}
}

func (c *ReplayCache) Stop() {
	close(c.stopCh)
}

type captureWriter struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.statusCode = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	cw.body.Write(b)
	return cw.ResponseWriter.Write(b)
}

// Idempotency replays the cached response for a repeated Idempotency-Key.
// Only successful mutating responses are cached; failures may be retried.
func Idempotency(cache *ReplayCache, headerName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(headerName)
			if key == "" || r.Method == http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			if entry, ok := cache.get(key); ok {
				for name, values := range entry.header {
					for _, v := range values {
						w.Header().Add(name, v)
					}
				}
				w.Header().Set("X-Idempotency-Replay", "true")
				w.WriteHeader(entry.statusCode)
				_, _ = w.Write(entry.body)
				return
			}

			cw := &captureWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(cw, r)

			if cw.statusCode < 300 {
				cache.set(key, &cachedResponse{
					statusCode: cw.statusCode,
					header:     w.Header().Clone(),
					body:       cw.body.Bytes(),
				})
			}
		})
	}
}
