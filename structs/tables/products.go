package tables

import (
	"catalogo_server/structs"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID                    uuid.UUID              `bun:"id,pk,type:uuid" json:"id"`
	Name                  string                 `bun:"name,notnull" json:"name"`
	TechnicalName         string                 `bun:"technical_name" json:"technicalName"`
	Classification        string                 `bun:"classification,notnull" json:"classification"`
	Images                []string               `bun:"images,array" json:"images"`              // display order
	Labels                []Label                `bun:"labels,type:jsonb" json:"labels"`         // duplicate keys allowed
	AudioSlots            []AudioSlot            `bun:"audio_slots,type:jsonb" json:"audioSlots"` // ids stable per editing session
	IsVisible             bool                   `bun:"is_visible,notnull" json:"isVisible"`
	StockQuantity         int                    `bun:"stock_quantity,notnull" json:"stock_quantity"`
	MonthlyProductionGoal int                    `bun:"monthly_production_goal,notnull" json:"monthly_production_goal"`
	ProductionType        structs.ProductionType `bun:"production_type,nullzero" json:"production_type,omitempty"`
	ProductType           structs.ProductType    `bun:"product_type,nullzero" json:"product_type,omitempty"`
	VariationData         *VariationData         `bun:"variation_data,type:jsonb" json:"variation_data,omitempty"`
	Benefits              string                 `bun:"benefits" json:"benefits"`
	History               string                 `bun:"history" json:"history"`
	Composition           string                 `bun:"composition" json:"composition"`
	SafetyRequirement     string                 `bun:"safety_requirement" json:"safetyRequirement"`
	CreatedAt             time.Time              `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt             time.Time              `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

type Label struct {
	Key   string `json:"key" mapstructure:"key"`
	Value string `json:"value" mapstructure:"value"`
}

type AudioSlot struct {
	ID     string `json:"id" mapstructure:"id"`
	Title  string `json:"title" mapstructure:"title"`
	Author string `json:"author" mapstructure:"author"`
	URL    string `json:"url" mapstructure:"url"`
}

// VariationData holds size labels; Sizes behaves as a set
type VariationData struct {
	Sizes []string `json:"sizes"`
}

// NewBlankProduct returns the template used for "new product": a fresh id and
// one empty row in images and labels so every list has an input to show.
func NewBlankProduct() *Product {
	return &Product{
		ID:         uuid.New(),
		Images:     []string{""},
		Labels:     []Label{{}},
		AudioSlots: []AudioSlot{},
	}
}

// Clone deep-copies the product. Sub-collections are never shared between copies.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	c := *p
	c.Images = slices.Clone(p.Images)
	c.Labels = slices.Clone(p.Labels)
	c.AudioSlots = slices.Clone(p.AudioSlots)
	if p.VariationData != nil {
		c.VariationData = &VariationData{Sizes: slices.Clone(p.VariationData.Sizes)}
	}
	return &c
}

func (p *Product) HasProduction() bool {
	return p.ProductionType.IsSet()
}

// VariationsAvailable is true when either signal enables the size editor
func (p *Product) VariationsAvailable() bool {
	return p.HasProduction() || p.ProductType == structs.ProductTypeBulk
}

func (p *Product) Sizes() []string {
	if p.VariationData == nil {
		return nil
	}
	return p.VariationData.Sizes
}
