package services

import (
	"catalogo_server/database"
	"catalogo_server/structs"
	"catalogo_server/structs/tables"

	"github.com/MonkyMars/gecho"
)

type ServiceManager struct {
	EmailService    *EmailService
	CacheService    *CacheService
	HealthService   *HealthService
	ProductService  *ProductService
	ShipmentService *ShipmentService
	DraftRegistry   *DraftRegistry
}

func NewServiceManager(logger *gecho.Logger, cfg *structs.Config, db *database.DB) *ServiceManager {
	timeouts := database.QueryTimeouts{
		Read:  cfg.Database.ReadTimeout,
		Write: cfg.Database.WriteTimeout,
	}
	products := database.NewCollection[tables.Product](db.DB, "products", timeouts)
	shipments := database.NewCollection[tables.Shipment](db.DB, "shipments", timeouts)
	shipmentItems := database.NewCollection[tables.ShipmentItem](db.DB, "shipment_items", timeouts)

	cacheService := NewCacheService(logger, cfg)
	emailService := NewEmailService(logger, cfg)
	healthService := NewHealthService(logger, db, cacheService)
	productService := NewProductService(logger, products, cacheService)
	shipmentService := NewShipmentService(logger, shipments, shipmentItems, emailService)
	draftRegistry := NewDraftRegistry(logger, cfg.Drafts.IdleTTL)

	return &ServiceManager{
		EmailService:    emailService,
		CacheService:    cacheService,
		HealthService:   healthService,
		ProductService:  productService,
		ShipmentService: shipmentService,
		DraftRegistry:   draftRegistry,
	}
}
