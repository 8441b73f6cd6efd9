package middleware

import (
	"net/http"
	"strings"

	"reservio/internal/identity/service"
	httputil "reservio/pkg/http"
	"reservio/pkg/logger"
	"reservio/pkg/middleware"
)

// Authentication resolves the Bearer token into an Identity on the
// request context. Requests without a token pass through anonymously;
// handlers decide whether anonymity is acceptable. A present but invalid
// token is always rejected.
func Authentication(auth service.AuthService, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				writeUnauthorized(w, log, "Authorization header must use the Bearer scheme")
				return
			}

			identity, err := auth.Verify(tokenString)
			if err != nil {
				writeUnauthorized(w, log, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(middleware.WithIdentity(r.Context(), identity)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, log *logger.Logger, message string) {
	if err := httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{
		Error: message,
		Code:  "UNAUTHORIZED",
	}); err != nil {
		log.Error("failed to write unauthorized response", "error", err)
	}
}
