package services

import (
	"catalogo_server/lib"
	"catalogo_server/structs"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ShipmentLister is the part of ShipmentService the board drives
type ShipmentLister interface {
	ListShipments(ctx context.Context) ([]ShipmentView, error)
	MarkReceived(ctx context.Context, id uuid.UUID, confirmed bool) ([]ShipmentView, error)
}

// ShipmentBoard is the operator's view of the shipment list with at most one
// shipment open in detail. Local state only changes after persistence agrees.
type ShipmentBoard struct {
	service   ShipmentLister
	shipments []ShipmentView
	detail    uuid.UUID
}

func NewShipmentBoard(service ShipmentLister) *ShipmentBoard {
	return &ShipmentBoard{service: service}
}

func (b *ShipmentBoard) Load(ctx context.Context) error {
	views, err := b.service.ListShipments(ctx)
	if err != nil {
		return err
	}
	b.shipments = views
	return nil
}

func (b *ShipmentBoard) Shipments() []ShipmentView {
	return b.shipments
}

func (b *ShipmentBoard) find(id uuid.UUID) *ShipmentView {
	for i := range b.shipments {
		if b.shipments[i].ID == id {
			return &b.shipments[i]
		}
	}
	return nil
}

// Open shows one shipment in detail
func (b *ShipmentBoard) Open(id uuid.UUID) (*ShipmentView, error) {
	view := b.find(id)
	if view == nil {
		return nil, lib.ErrNotFound
	}
	b.detail = id
	return view, nil
}

// Detail returns the open shipment, or nil
func (b *ShipmentBoard) Detail() *ShipmentView {
	if b.detail == uuid.Nil {
		return nil
	}
	return b.find(b.detail)
}

func (b *ShipmentBoard) Close() {
	b.detail = uuid.Nil
}

// CanReceive reports whether the receive action should be offered
func (b *ShipmentBoard) CanReceive(id uuid.UUID) bool {
	view := b.find(id)
	return view != nil && view.Status.CanTransitionTo(structs.ShipmentStatusReceived)
}

// Receive marks the shipment received. On success the list is replaced and the
// detail is closed if it showed this shipment. On failure nothing local
// changes and the error is returned for display.
func (b *ShipmentBoard) Receive(ctx context.Context, id uuid.UUID, confirmed bool) error {
	view := b.find(id)
	if view == nil {
		return lib.ErrNotFound
	}
	if !view.Status.CanTransitionTo(structs.ShipmentStatusReceived) {
		return fmt.Errorf("%w: shipment is %s", ErrInvalidTransition, view.Status)
	}

	views, err := b.service.MarkReceived(ctx, id, confirmed)
	if err != nil {
		if errors.Is(err, ErrReloadFailed) {
			// Persisted, only the reload failed
			view.Status = structs.ShipmentStatusReceived
			b.closeIfShowing(id)
		}
		return err
	}

	b.shipments = views
	b.closeIfShowing(id)
	return nil
}

func (b *ShipmentBoard) closeIfShowing(id uuid.UUID) {
	if b.detail == id {
		b.detail = uuid.Nil
	}
}
