package services

import (
	"catalogo_server/database"
	"catalogo_server/lib"
	"catalogo_server/structs"
	"catalogo_server/structs/tables"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidTransition = errors.New("invalid shipment status transition")
	// ErrReloadFailed means the transition was persisted but the list could not be reloaded
	ErrReloadFailed = errors.New("shipment list reload failed")
)

// RemovedProductName labels line items whose product no longer exists
const RemovedProductName = "Removed product"

// ShipmentNotifier is told about shipments that were received
type ShipmentNotifier interface {
	NotifyShipmentReceived(ctx context.Context, shipment ShipmentView) error
}

type ShipmentLineView struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      uuid.UUID       `json:"product_id"`
	Quantity       int             `json:"quantity"`
	ProductName    string          `json:"product_name"`
	ProductRemoved bool            `json:"product_removed"`
	Product        *tables.Product `json:"product,omitempty"`
}

// ShipmentView is a shipment with its joined lines. ItemCount and TotalUnits
// are derived on every read and never stored.
type ShipmentView struct {
	tables.Shipment
	Items      []ShipmentLineView `json:"items"`
	ItemCount  int                `json:"item_count"`
	TotalUnits int                `json:"total_units"`
}

func newLineView(item tables.ShipmentItem) ShipmentLineView {
	line := ShipmentLineView{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
	}
	if item.Product == nil || item.Product.ID == uuid.Nil {
		line.ProductName = RemovedProductName
		line.ProductRemoved = true
		return line
	}
	line.Product = item.Product
	line.ProductName = item.Product.Name
	return line
}

// JoinShipmentItems attaches items to their shipments by shipment_id. Shipment
// order is kept; items keep fetch order. Items whose shipment is not in the
// list are ignored.
func JoinShipmentItems(shipments []tables.Shipment, items []tables.ShipmentItem) []ShipmentView {
	index := lib.IndexByKey(items, func(item tables.ShipmentItem) uuid.UUID {
		return item.ShipmentID
	})

	views := make([]ShipmentView, 0, len(shipments))
	for _, shipment := range shipments {
		lines := index[shipment.ID]
		view := ShipmentView{
			Shipment: shipment,
			Items:    make([]ShipmentLineView, 0, len(lines)),
		}
		for _, item := range lines {
			view.Items = append(view.Items, newLineView(item))
			view.TotalUnits += item.Quantity
		}
		view.ItemCount = len(view.Items)
		views = append(views, view)
	}
	return views
}

type ShipmentService struct {
	logger    *gecho.Logger
	shipments database.Store[tables.Shipment]
	items     database.Store[tables.ShipmentItem]
	notifier  ShipmentNotifier
}

func NewShipmentService(
	logger *gecho.Logger,
	shipments database.Store[tables.Shipment],
	items database.Store[tables.ShipmentItem],
	notifier ShipmentNotifier,
) *ShipmentService {
	return &ShipmentService{
		logger:    logger,
		shipments: shipments,
		items:     items,
		notifier:  notifier,
	}
}

// fetchBoth loads shipments (newest first) and product-joined items in parallel
func (ss *ShipmentService) fetchBoth(ctx context.Context) ([]tables.Shipment, []tables.ShipmentItem, error) {
	var shipments []tables.Shipment
	var items []tables.ShipmentItem

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		shipments, err = ss.shipments.FetchAll(gctx, database.Desc("created_at"))
		return err
	})
	g.Go(func() error {
		var err error
		items, err = ss.items.FetchJoined(gctx, []string{"Product"}, database.Asc("id"))
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return shipments, items, nil
}

// ListShipments returns every shipment, most recent first, with joined lines
func (ss *ShipmentService) ListShipments(ctx context.Context) ([]ShipmentView, error) {
	startTime := time.Now()

	shipments, items, err := ss.fetchBoth(ctx)
	if err != nil {
		ss.logger.Error("Failed to fetch shipments", gecho.Field("error", err))
		return nil, err
	}

	views := JoinShipmentItems(shipments, items)
	ss.logger.Debug("Shipments fetched",
		gecho.Field("shipments", len(shipments)),
		gecho.Field("items", len(items)),
		gecho.Field("duration", time.Since(startTime)),
	)
	return views, nil
}

// GetShipment returns one shipment with its joined lines
func (ss *ShipmentService) GetShipment(ctx context.Context, id uuid.UUID) (*ShipmentView, error) {
	var shipment *tables.Shipment
	var items []tables.ShipmentItem

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		shipment, err = ss.shipments.FetchByID(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = ss.items.FetchJoinedWhere(gctx, "shipment_id", id, []string{"Product"}, database.Asc("id"))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	views := JoinShipmentItems([]tables.Shipment{*shipment}, items)
	return &views[0], nil
}

// CreateShipment records a pending shipment and its lines as independent
// writes. When a line fails, the rows already written are deleted again.
func (ss *ShipmentService) CreateShipment(ctx context.Context, req *structs.CreateShipmentRequest) (*ShipmentView, error) {
	if err := lib.ValidateStruct(req); err != nil {
		return nil, err
	}

	productIDs := make([]uuid.UUID, len(req.Items))
	for i, item := range req.Items {
		id, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, lib.NewValidationError(lib.FieldError{Field: fmt.Sprintf("items[%d].product_id", i), Message: "must be a valid UUID"})
		}
		productIDs[i] = id
	}

	shipment, err := ss.shipments.Insert(ctx, &tables.Shipment{
		ExpectedArrivalDate: req.ExpectedArrivalDate,
		Description:         req.Description,
		VoucherURL:          req.VoucherURL,
		PackageURL:          req.PackageURL,
		Status:              structs.ShipmentStatusPending,
	})
	if err != nil {
		ss.logger.Error("Failed to create shipment", gecho.Field("error", err))
		return nil, err
	}

	written := make([]uuid.UUID, 0, len(req.Items))
	for i, item := range req.Items {
		line, err := ss.items.Insert(ctx, &tables.ShipmentItem{
			ShipmentID: shipment.ID,
			ProductID:  productIDs[i],
			Quantity:   item.Quantity,
		})
		if err != nil {
			ss.logger.Error("Failed to create shipment item, removing shipment",
				gecho.Field("shipment_id", shipment.ID),
				gecho.Field("error", err),
			)
			ss.compensate(shipment.ID, written)
			return nil, err
		}
		written = append(written, line.ID)
	}

	ss.logger.Info("Shipment created",
		gecho.Field("shipment_id", shipment.ID),
		gecho.Field("items", len(written)),
	)
	return ss.GetShipment(ctx, shipment.ID)
}

// compensate deletes a half-written shipment. It runs detached from the
// request context so a cancelled request still cleans up.
func (ss *ShipmentService) compensate(shipmentID uuid.UUID, itemIDs []uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, id := range itemIDs {
		if err := ss.items.Delete(ctx, id); err != nil {
			ss.logger.Error("Failed to remove shipment item", gecho.Field("item_id", id), gecho.Field("error", err))
		}
	}
	if err := ss.shipments.Delete(ctx, shipmentID); err != nil {
		ss.logger.Error("Failed to remove shipment", gecho.Field("shipment_id", shipmentID), gecho.Field("error", err))
	}
}

// MarkReceived moves a pending shipment to received after explicit
// confirmation and returns the reloaded list. A failed write leaves the
// shipment pending.
func (ss *ShipmentService) MarkReceived(ctx context.Context, id uuid.UUID, confirmed bool) ([]ShipmentView, error) {
	if !confirmed {
		return nil, lib.ErrConfirmationRequired
	}

	shipment, err := ss.shipments.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !shipment.Status.CanTransitionTo(structs.ShipmentStatusReceived) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, shipment.Status, structs.ShipmentStatusReceived)
	}

	// Guarded on pending: of two concurrent receives only one matches the row
	err = ss.shipments.UpdateWhere(ctx, id, "status", structs.ShipmentStatusPending,
		map[string]any{"status": structs.ShipmentStatusReceived})
	if errors.Is(err, lib.ErrStale) {
		ss.logger.Warn("Shipment left pending before the write", gecho.Field("shipment_id", id))
		return nil, fmt.Errorf("%w: shipment is no longer pending", ErrInvalidTransition)
	}
	if err != nil {
		ss.logger.Error("Failed to mark shipment received", gecho.Field("shipment_id", id), gecho.Field("error", err))
		return nil, err
	}

	ShipmentsReceived.Inc()
	ss.logger.Info("Shipment received", gecho.Field("shipment_id", id))

	views, err := ss.ListShipments(ctx)
	if err != nil {
		shipment.Status = structs.ShipmentStatusReceived
		ss.notify(ShipmentView{Shipment: *shipment})
		return nil, fmt.Errorf("%w: %w", ErrReloadFailed, err)
	}

	for _, view := range views {
		if view.ID == id {
			ss.notify(view)
			break
		}
	}
	return views, nil
}

// notify runs in the background; a failed email never affects the transition
func (ss *ShipmentService) notify(view ShipmentView) {
	if ss.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := ss.notifier.NotifyShipmentReceived(ctx, view); err != nil {
			ss.logger.Warn("Failed to send shipment notification",
				gecho.Field("shipment_id", view.ID),
				gecho.Field("error", err),
			)
		}
	}()
}
