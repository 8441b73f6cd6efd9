package middleware

import (
	"net/http"
	"strings"

	"reservio/pkg/logger"
)

// ContentTypeValidation rejects mutating requests whose body is not JSON.
func ContentTypeValidation(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hasBody(r.Method) && mediaType(r.Header.Get("Content-Type")) != "application/json" {
				log.Warn("Rejected request with invalid Content-Type",
					"request_id", RequestIDFrom(r.Context()),
					"content_type", r.Header.Get("Content-Type"),
					"method", r.Method,
					"path", r.URL.Path,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnsupportedMediaType)
				_, _ = w.Write([]byte(`{"error":"Content-Type must be application/json"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func hasBody(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch
}

func mediaType(header string) string {
	if i := strings.Index(header, ";"); i >= 0 {
		header = header[:i]
	}
	return strings.TrimSpace(header)
}

// MaxRequestSize caps request body reads; oversized bodies fail inside the
// handler's decode with an error surfaced as 400.
func MaxRequestSize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
