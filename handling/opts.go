package handling

import (
	"catalogo_server/services"
	"catalogo_server/structs"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// ParseProductFilter parses list query parameters into a ProductFilter.
// product_type=untyped (or none) selects products without a type.
func ParseProductFilter(r *http.Request) (services.ProductFilter, error) {
	query := r.URL.Query()

	var filter services.ProductFilter
	if len(query) == 0 {
		return filter, nil
	}

	if visible := query.Get("visible"); visible != "" {
		v, err := strconv.ParseBool(visible)
		if err != nil {
			return filter, err
		}
		filter.Visible = &v
	}

	if raw := strings.ToLower(strings.TrimSpace(query.Get("product_type"))); raw != "" {
		pt := structs.ProductType(raw)
		if raw == "untyped" || raw == "none" {
			pt = ""
		}
		if !pt.IsValid() {
			return filter, fmt.Errorf("unknown product_type %q", raw)
		}
		filter.ProductType = &pt
	}

	filter.Search = strings.TrimSpace(query.Get("search"))
	return filter, nil
}

// ParseIndex parses a list index path parameter
func ParseIndex(raw string) (int, error) {
	i, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q", raw)
	}
	return i, nil
}
