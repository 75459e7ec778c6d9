package handling

import (
	"catalogo_server/structs"
	"net/http/httptest"
	"testing"
)

func TestParseProductFilter(t *testing.T) {
	r := httptest.NewRequest("GET", "/admin/products?visible=true&product_type=untyped&search=%20rosa%20", nil)

	f, err := ParseProductFilter(r)
	if err != nil {
		t.Fatal(err)
	}
	if f.Visible == nil || !*f.Visible {
		t.Error("visible not parsed")
	}
	if f.ProductType == nil || *f.ProductType != "" {
		t.Errorf("product_type = %v, want untyped", f.ProductType)
	}
	if f.Search != "rosa" {
		t.Errorf("search = %q", f.Search)
	}
}

func TestParseProductFilterRejectsBadValues(t *testing.T) {
	for _, query := range []string{"visible=maybe", "product_type=wholesale"} {
		r := httptest.NewRequest("GET", "/admin/products?"+query, nil)
		if _, err := ParseProductFilter(r); err == nil {
			t.Errorf("%s: expected error", query)
		}
	}

	r := httptest.NewRequest("GET", "/admin/products?product_type=BULK", nil)
	f, err := ParseProductFilter(r)
	if err != nil || *f.ProductType != structs.ProductTypeBulk {
		t.Errorf("got %v, %v", f.ProductType, err)
	}
}
