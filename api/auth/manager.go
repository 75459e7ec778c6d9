package auth

import (
	"catalogo_server/api/middleware"
	"catalogo_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// SessionRoutesManager exposes the session boundary. Signing in happens
// elsewhere; this service only reads and clears the session.
type SessionRoutesManager struct {
	logger *gecho.Logger
	cfg    *structs.Config
	mw     *middleware.Middleware
}

func NewSessionRoutesManager(logger *gecho.Logger, cfg *structs.Config, mw *middleware.Middleware) *SessionRoutesManager {
	return &SessionRoutesManager{
		logger: logger,
		cfg:    cfg,
		mw:     mw,
	}
}

func (srm *SessionRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/session", func(r chi.Router) {
		// CSRF token endpoint (must be called before cookie-authenticated writes)
		r.Get("/csrf", srm.HandleCSRF)

		r.Group(func(r chi.Router) {
			r.Use(srm.mw.SessionMiddleware)
			r.Get("/access", srm.HandleAccess)
		})

		r.Group(func(r chi.Router) {
			r.Use(srm.mw.CSRFMiddleware())
			r.Post("/logout", srm.HandleLogout)
		})
	})
}
