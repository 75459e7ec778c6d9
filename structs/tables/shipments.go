package tables

import (
	"catalogo_server/structs"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Shipment struct {
	bun.BaseModel `bun:"table:shipments,alias:s"`

	ID                  uuid.UUID              `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	CreatedAt           time.Time              `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	ExpectedArrivalDate time.Time              `bun:"expected_arrival_date,nullzero" json:"expected_arrival_date"`
	Description         string                 `bun:"description,nullzero" json:"description,omitempty"`
	VoucherURL          string                 `bun:"voucher_url,nullzero" json:"voucher_url,omitempty"`
	PackageURL          string                 `bun:"package_url,nullzero" json:"package_url,omitempty"`
	Status              structs.ShipmentStatus `bun:"status,notnull,default:'pending'" json:"status"`
}

// ShipmentItem is associated to its shipment by ShipmentID only. ProductID has
// no foreign key so deleting a product keeps the line valid.
type ShipmentItem struct {
	bun.BaseModel `bun:"table:shipment_items,alias:si"`

	ID         uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	ShipmentID uuid.UUID `bun:"shipment_id,type:uuid,notnull" json:"shipment_id"`
	ProductID  uuid.UUID `bun:"product_id,type:uuid,notnull" json:"product_id"`
	Quantity   int       `bun:"quantity,notnull" json:"quantity"`

	// Read-time join, never written
	Product *Product `bun:"rel:belongs-to,join:product_id=id" json:"product,omitempty"`
}
