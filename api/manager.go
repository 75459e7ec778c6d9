package api

import (
	"catalogo_server/api/admin"
	"catalogo_server/api/auth"
	"catalogo_server/api/debug"
	"catalogo_server/api/health"
	"catalogo_server/api/middleware"
	"catalogo_server/api/products"
	"catalogo_server/services"
	"catalogo_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type routerManager struct {
	mw            *middleware.Middleware
	productRoutes *products.ProductRoutesManager
	healthRoutes  *health.HealthRoutesManager
	sessionRoutes *auth.SessionRoutesManager
	adminRoutes   *admin.AdminRoutesManager
	debugRoutes   *debug.DebugRoutesManager
}

func NewRouterManager(
	logger *gecho.Logger,
	cfg *structs.Config,
	sm *services.ServiceManager,
	mw *middleware.Middleware,
) *routerManager {
	return &routerManager{
		mw:            mw,
		productRoutes: products.NewProductRoutesManager(logger, sm.ProductService, mw),
		healthRoutes:  health.NewHealthRoutesManager(sm.HealthService),
		sessionRoutes: auth.NewSessionRoutesManager(logger, cfg, mw),
		adminRoutes:   admin.NewAdminRoutesManager(logger, sm.ProductService, sm.ShipmentService, sm.DraftRegistry, mw),
		debugRoutes:   debug.NewDebugRoutesManager(logger, sm.CacheService, sm.DraftRegistry),
	}
}

func (rm *routerManager) RegisterRoutes(r chi.Router) {
	rm.healthRoutes.RegisterRoutes(r)
	rm.sessionRoutes.RegisterRoutes(r)
	rm.debugRoutes.RegisterRoutes(r)

	// Admin surface: session first, then per-caller limits and CSRF for cookie writes
	r.Route("/admin", func(r chi.Router) {
		r.Use(rm.mw.SessionMiddleware)
		r.Use(rm.mw.AdminRateLimit())
		r.Use(rm.mw.CSRFMiddleware())

		rm.adminRoutes.RegisterRoutes(r)
		rm.productRoutes.RegisterRoutes(r)
	})
}
