package admin

import (
	"catalogo_server/handling"
	"catalogo_server/lib"
	"catalogo_server/services"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// DeleteProduct removes a product once the caller confirms and answers with
// the refreshed list
func (ar *AdminRoutesManager) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := lib.ParseUUIDParam(chi.URLParam(r, "id"))
	if err != nil {
		handling.WriteError(w, ar.logger, err, "delete product")
		return
	}

	if err := ar.productService.DeleteProduct(r.Context(), id, lib.IsConfirmed(r)); err != nil {
		handling.WriteError(w, ar.logger, err, "delete product")
		return
	}

	products, err := ar.productService.RefreshProducts(r.Context(), services.ProductFilter{})
	if err != nil {
		ar.logger.Warn("Product deleted but list reload failed", gecho.Field("product_id", id), gecho.Field("error", err))
		gecho.Success(w, gecho.WithMessage("success.products.deletedReloadFailed"), gecho.Send())
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.products.deleted"),
		gecho.WithData(products),
		gecho.Send(),
	)
}
