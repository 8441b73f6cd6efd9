package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// guardedWriter suppresses handler writes that race a timeout response.
type guardedWriter struct {
	http.ResponseWriter
	mu       sync.Mutex
	timedOut bool
	written  bool
}

func (gw *guardedWriter) WriteHeader(code int) {
	gw.mu.Lock()
	defer gw.mu.Unlock()

	if gw.timedOut || gw.written {
		return
	}
	gw.written = true
	gw.ResponseWriter.WriteHeader(code)
}

func (gw *guardedWriter) Write(b []byte) (int, error) {
	gw.mu.Lock()
	defer gw.mu.Unlock()

	if gw.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	gw.written = true
	return gw.ResponseWriter.Write(b)
}

func (gw *guardedWriter) markTimedOut() (alreadyWritten bool) {
	gw.mu.Lock()
	defer gw.mu.Unlock()
	gw.timedOut = true
	return gw.written
}

func RequestTimeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			r = r.WithContext(ctx)
			gw := &guardedWriter{ResponseWriter: w}

			done := make(chan struct{})
			go func() {
				next.ServeHTTP(gw, r)
				close(done)
			}()

			select {
			case <-done:
			case <-ctx.Done():
				if !gw.markTimedOut() {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusServiceUnavailable)
					_, _ = w.Write([]byte(`{"error":"Request timeout"}`))
				}
			}
		})
	}
}
