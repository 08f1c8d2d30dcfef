package middleware

import (
	"net/http"
	"time"

	"mobiliza/pkg/requestcontext"
)

// RequestTime captures the current time at the start of the request and stores
// it in the context so all operations within a single request share one "now".
func RequestTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
