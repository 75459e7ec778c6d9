package products

import (
	"catalogo_server/handling"
	"catalogo_server/services"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// FetchSalesProducts handles GET /admin/sales/products: the catalog as the
// sales squad sees it, with the usual list filters on top
func (p *ProductRoutesManager) FetchSalesProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := handling.ParseProductFilter(r)
	if err != nil {
		p.logger.Warn("Invalid query parameters", gecho.Field("error", err))
		gecho.BadRequest(w,
			gecho.WithMessage("error.invalidQueryParameters"),
			gecho.WithData(err.Error()),
			gecho.Send(),
		)
		return
	}
	filter.Scope = services.SalesScope

	products, err := p.productService.ListProducts(r.Context(), filter)
	if err != nil {
		handling.WriteError(w, p.logger, err, "fetch sales products")
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"products": products,
			"meta": map[string]any{
				"count": len(products),
			},
		}),
		gecho.Send(),
	)
}
