package products

import (
	"catalogo_server/api/middleware"
	"catalogo_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type ProductRoutesManager struct {
	logger         *gecho.Logger
	productService *services.ProductService
	mw             *middleware.Middleware
}

func NewProductRoutesManager(
	logger *gecho.Logger,
	productService *services.ProductService,
	mw *middleware.Middleware,
) *ProductRoutesManager {
	return &ProductRoutesManager{
		logger:         logger,
		productService: productService,
		mw:             mw,
	}
}

// RegisterRoutes expects to be mounted under /admin after SessionMiddleware
func (prm *ProductRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/sales", func(r chi.Router) {
		r.Use(prm.mw.RequireArea(services.AreaSales))
		r.Get("/products", prm.FetchSalesProducts)
	})
}
