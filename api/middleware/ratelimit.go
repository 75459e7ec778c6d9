package middleware

import (
	"catalogo_server/services"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
)

// getClientIP extracts the real client IP from request headers
func (mw *Middleware) getClientIP(r *http.Request) string {
	// Try X-Forwarded-For first (if behind proxy/load balancer)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}

	return ip
}

// rateLimitSubject counts signed-in staff per user and everyone else per IP
func (mw *Middleware) rateLimitSubject(r *http.Request) string {
	if session, ok := GetSessionFromContext(r.Context()); ok && session.UserID != "" {
		return "user:" + session.UserID
	}
	return "ip:" + mw.getClientIP(r)
}

// AdminRateLimit applies the admin limit per caller. It fails open when the
// cache is down and is a no-op when rate limiting or the cache is disabled.
func (mw *Middleware) AdminRateLimit() func(http.Handler) http.Handler {
	limit, window := mw.cfg.RateLimit.AdminLimit, mw.cfg.RateLimit.AdminWindow

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !mw.cfg.RateLimit.Enabled || !mw.cacheService.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			subject := mw.rateLimitSubject(r)
			count, err := mw.cacheService.IncrementRateLimit(r.Context(), subject, "admin", window)
			if err != nil {
				if !errors.Is(err, services.ErrCacheDisabled) {
					mw.logger.Warn("Rate limit cache error, allowing request",
						gecho.Field("error", err),
						gecho.Field("subject", subject),
					)
				}
				next.ServeHTTP(w, r)
				return
			}

			reset := time.Now().Add(window).Unix()
			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", reset))

			if count > limit {
				mw.logger.Warn("Rate limit exceeded",
					gecho.Field("subject", subject),
					gecho.Field("count", count),
					gecho.Field("limit", limit),
				)
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
				gecho.TooManyRequests(w,
					gecho.WithMessage("error.rateLimitExceeded"),
					gecho.WithData(map[string]any{
						"limit":       limit,
						"window":      window.String(),
						"retry_after": int(window.Seconds()),
					}),
					gecho.Send(),
				)
				return
			}

			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", max(0, limit-count)))
			next.ServeHTTP(w, r)
		})
	}
}
