package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/gdp-poc/gdp/internal/log"
)

// CorrelationHeader carries the correlation ID across services.
const CorrelationHeader = "X-Correlation-ID"

// CorrelationID returns a middleware that adds a correlation ID to the
// request context, taken from the X-Correlation-ID header or generated.
func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		correlationID := r.Header.Get(CorrelationHeader)
		if correlationID == "" {
			correlationID = uuid.NewString()
		}

		w.Header().Set(CorrelationHeader, correlationID)

		ctx := log.WithCorrelationID(r.Context(), correlationID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetCorrelationID retrieves the correlation ID from the context.
func GetCorrelationID(ctx context.Context) string {
	return log.CorrelationID(ctx)
}
