package database

import (
	"catalogo_server/structs/tables"
	"context"
	"fmt"
)

var (
	_ Store[tables.Product]      = (*Collection[tables.Product])(nil)
	_ Store[tables.Shipment]     = (*Collection[tables.Shipment])(nil)
	_ Store[tables.ShipmentItem] = (*Collection[tables.ShipmentItem])(nil)
)

// CreateSchema creates the catalog tables when they do not exist yet. It never
// alters existing tables.
func CreateSchema(ctx context.Context, db *DB) error {
	models := []any{
		(*tables.Product)(nil),
		(*tables.Shipment)(nil),
		(*tables.ShipmentItem)(nil),
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}

	if _, err := db.NewCreateIndex().
		Model((*tables.ShipmentItem)(nil)).
		Index("shipment_items_shipment_id_idx").
		Column("shipment_id").
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create shipment_items index: %w", err)
	}

	return nil
}
