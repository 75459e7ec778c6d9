package admin

import (
	"catalogo_server/handling"
	"catalogo_server/lib"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

func (ar *AdminRoutesManager) ListAllProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := handling.ParseProductFilter(r)
	if err != nil {
		ar.logger.Warn("Failed to parse product filter", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithMessage("error.invalidQueryParameters"), gecho.WithData(err.Error()), gecho.Send())
		return
	}

	products, err := ar.productService.ListProducts(r.Context(), filter)
	if err != nil {
		handling.WriteError(w, ar.logger, err, "list products")
		return
	}

	gecho.Success(w,
		gecho.WithData(products),
		gecho.WithMessage("success.products.retrieved"),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := lib.ParseUUIDParam(chi.URLParam(r, "id"))
	if err != nil {
		handling.WriteError(w, ar.logger, err, "get product")
		return
	}

	product, err := ar.productService.GetProduct(r.Context(), id)
	if err != nil {
		handling.WriteError(w, ar.logger, err, "get product")
		return
	}

	gecho.Success(w, gecho.WithData(product), gecho.Send())
}
