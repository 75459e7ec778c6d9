package admin

import (
	"catalogo_server/api/middleware"
	"catalogo_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type AdminRoutesManager struct {
	logger          *gecho.Logger
	productService  *services.ProductService
	shipmentService *services.ShipmentService
	drafts          *services.DraftRegistry
	mw              *middleware.Middleware
}

func NewAdminRoutesManager(
	logger *gecho.Logger,
	productService *services.ProductService,
	shipmentService *services.ShipmentService,
	drafts *services.DraftRegistry,
	mw *middleware.Middleware,
) *AdminRoutesManager {
	return &AdminRoutesManager{
		logger:          logger,
		productService:  productService,
		shipmentService: shipmentService,
		drafts:          drafts,
		mw:              mw,
	}
}

// RegisterRoutes expects to be mounted under /admin after SessionMiddleware
func (ar *AdminRoutesManager) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(ar.mw.RequireArea(services.AreaCatalog))

		r.Get("/products", ar.ListAllProducts)
		r.Get("/products/{id}", ar.GetProduct)
		r.Delete("/products/{id}", ar.DeleteProduct)

		r.Route("/drafts", func(r chi.Router) {
			r.Post("/", ar.OpenDraft)
			r.Route("/{draftID}", func(r chi.Router) {
				r.Get("/", ar.GetDraft)
				r.Delete("/", ar.DiscardDraft)
				r.Put("/fields/{field}", ar.SetDraftField)
				r.Post("/lists/{list}", ar.AppendDraftListItem)
				r.Patch("/lists/{list}/{index}", ar.PatchDraftListItem)
				r.Delete("/lists/{list}/{index}", ar.RemoveDraftListItem)
				r.Post("/sizes/{size}/toggle", ar.ToggleDraftSize)
				r.Post("/submit", ar.SubmitDraft)
			})
		})

		r.Get("/shipments", ar.ListShipments)
		r.Post("/shipments", ar.CreateShipment)
		r.Get("/shipments/{id}", ar.GetShipment)
		r.Post("/shipments/{id}/receive", ar.ReceiveShipment)
	})
}
