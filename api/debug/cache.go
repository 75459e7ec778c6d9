package debug

import (
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (drm *DebugRoutesManager) ClearCache(w http.ResponseWriter, r *http.Request) {
	if err := drm.cacheService.ClearAll(r.Context()); err != nil {
		drm.logger.Error("Failed to clear product caches", gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("error.cache.clearFailed"),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.cache.cleared"),
		gecho.Send(),
	)
}

// SweepDrafts drops expired drafts now instead of waiting for the ticker
func (drm *DebugRoutesManager) SweepDrafts(w http.ResponseWriter, r *http.Request) {
	removed := drm.drafts.Sweep()
	gecho.Success(w,
		gecho.WithMessage("success.drafts.swept"),
		gecho.WithData(map[string]int{
			"removed": removed,
			"open":    drm.drafts.Len(),
		}),
		gecho.Send(),
	)
}
