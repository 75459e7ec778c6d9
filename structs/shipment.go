package structs

import "time"

type ShipmentStatus string

const (
	ShipmentStatusPending  ShipmentStatus = "pending"
	ShipmentStatusReceived ShipmentStatus = "received"
)

// CanTransitionTo validates a status transition. Received is terminal.
func (s ShipmentStatus) CanTransitionTo(next ShipmentStatus) bool {
	return s == ShipmentStatusPending && next == ShipmentStatusReceived
}

type ShipmentItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type CreateShipmentRequest struct {
	ExpectedArrivalDate time.Time             `json:"expected_arrival_date"`
	Description         string                `json:"description" validate:"omitempty,max=2000"`
	VoucherURL          string                `json:"voucher_url" validate:"omitempty,url"`
	PackageURL          string                `json:"package_url" validate:"omitempty,url"`
	Items               []ShipmentItemRequest `json:"items" validate:"required,min=1,dive"`
}
