package structs

// ProductionType tags how a product is manufactured
type ProductionType string

const (
	ProductionNone          ProductionType = "none"
	ProductionHidrolato     ProductionType = "hidrolato"
	ProductionOleoEssencial ProductionType = "oleo_essencial"
	ProductionTintura       ProductionType = "tintura"
	ProductionOutro         ProductionType = "outro"
)

// IsValid reports whether pt is empty or one of the known tags
func (pt ProductionType) IsValid() bool {
	switch pt {
	case "", ProductionNone, ProductionHidrolato, ProductionOleoEssencial, ProductionTintura, ProductionOutro:
		return true
	}
	return false
}

// IsSet is false for both the empty value and "none"
func (pt ProductionType) IsSet() bool {
	return pt != "" && pt != ProductionNone
}

// ProductType enum
type ProductType string

const (
	ProductTypeBulk   ProductType = "bulk"
	ProductTypeRetail ProductType = "retail"
)

func (pt ProductType) IsValid() bool {
	switch pt {
	case "", ProductTypeBulk, ProductTypeRetail:
		return true
	}
	return false
}
