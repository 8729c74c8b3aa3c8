package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gdp-poc/gdp/internal/log"
)

// UserHeader is set by the hosting proxy to the caller's email.
const UserHeader = "X-Forwarded-Email"

// Identity returns a middleware that copies the caller named by the
// X-Forwarded-Email header into the request context. Requests without the
// header pass through with no user.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := strings.TrimSpace(r.Header.Get(UserHeader))
		if user == "" {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(log.WithUserID(r.Context(), user)))
	})
}

// User returns the caller set by Identity, or "".
func User(ctx context.Context) string {
	return log.UserID(ctx)
}
