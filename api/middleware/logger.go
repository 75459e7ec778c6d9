package middleware

import (
	"net/http"

	"github.com/MonkyMars/gecho"
	chiware "github.com/go-chi/chi/v5/middleware"
)

// SetupLoggerMiddleware logs every request and returns chi's request id in
// X-Request-ID so an operator report can be matched to its log line
func (mw *Middleware) SetupLoggerMiddleware() func(http.Handler) http.Handler {
	logRequests := gecho.Handlers.CreateLoggingMiddleware(mw.logger)

	return func(next http.Handler) http.Handler {
		logged := logRequests(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id := chiware.GetReqID(r.Context()); id != "" {
				w.Header().Set("X-Request-ID", id)
			}
			logged.ServeHTTP(w, r)
		})
	}
}
