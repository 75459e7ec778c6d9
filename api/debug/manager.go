package debug

import (
	"catalogo_server/config"
	"catalogo_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type DebugRoutesManager struct {
	logger       *gecho.Logger
	cacheService *services.CacheService
	drafts       *services.DraftRegistry
}

func NewDebugRoutesManager(logger *gecho.Logger, cacheService *services.CacheService, drafts *services.DraftRegistry) *DebugRoutesManager {
	return &DebugRoutesManager{
		logger:       logger,
		cacheService: cacheService,
		drafts:       drafts,
	}
}

func (drm *DebugRoutesManager) RegisterRoutes(r chi.Router) {
	// Debug routes - only in non-production environments
	if !config.IsProduction() {
		r.Route("/debug", func(r chi.Router) {
			r.Post("/cache/clear", drm.ClearCache)
			r.Post("/drafts/sweep", drm.SweepDrafts)
		})
	}
}
