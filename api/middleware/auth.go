package middleware

import (
	"catalogo_server/lib"
	"catalogo_server/services"
	"catalogo_server/structs"
	"context"
	"errors"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// Context keys for storing session data in request context
type contextKey string

const SessionContextKey contextKey = "session"

// SessionMiddleware resolves the caller's session once per request. A missing
// or invalid token leaves a nil session in context; gating is left to RequireArea.
func (mw *Middleware) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := lib.ExtractSession(r, mw.cfg.Auth.SessionCookieName, mw.cfg.Auth.SessionTokenSecret)
		if err != nil && !errors.Is(err, lib.ErrNoSession) {
			mw.logger.Debug("Rejected session token", gecho.Field("error", err), gecho.Field("path", r.URL.Path))
		}

		ctx := context.WithValue(r.Context(), SessionContextKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireArea admits the request only when the access policy admits the
// session for area. Denials carry the redirect target.
// Must be used after SessionMiddleware
func (mw *Middleware) RequireArea(area services.Area) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, _ := GetSessionFromContext(r.Context())
			decision := services.EvaluateAccess(structs.SessionState{Session: session}, area)

			if decision.Admitted() {
				next.ServeHTTP(w, r)
				return
			}

			if session == nil {
				gecho.Unauthorized(w,
					gecho.WithMessage("error.session.required"),
					gecho.WithData(decision),
					gecho.Send(),
				)
				return
			}

			mw.logger.Warn("Access denied",
				gecho.Field("user_id", session.UserID),
				gecho.Field("role", session.Role),
				gecho.Field("area", area),
			)
			gecho.Forbidden(w,
				gecho.WithMessage("error.access.denied"),
				gecho.WithData(decision),
				gecho.Send(),
			)
		})
	}
}

// GetSessionFromContext returns the session resolved by SessionMiddleware
func GetSessionFromContext(ctx context.Context) (*structs.Session, bool) {
	session, ok := ctx.Value(SessionContextKey).(*structs.Session)
	return session, ok && session != nil
}
