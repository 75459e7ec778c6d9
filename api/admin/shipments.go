package admin

import (
	"catalogo_server/handling"
	"catalogo_server/lib"
	"catalogo_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

func (ar *AdminRoutesManager) ListShipments(w http.ResponseWriter, r *http.Request) {
	shipments, err := ar.shipmentService.ListShipments(r.Context())
	if err != nil {
		handling.WriteError(w, ar.logger, err, "list shipments")
		return
	}

	gecho.Success(w,
		gecho.WithData(shipments),
		gecho.WithMessage("success.shipments.retrieved"),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) GetShipment(w http.ResponseWriter, r *http.Request) {
	id, err := lib.ParseUUIDParam(chi.URLParam(r, "id"))
	if err != nil {
		handling.WriteError(w, ar.logger, err, "get shipment")
		return
	}

	shipment, err := ar.shipmentService.GetShipment(r.Context(), id)
	if err != nil {
		handling.WriteError(w, ar.logger, err, "get shipment")
		return
	}

	gecho.Success(w, gecho.WithData(shipment), gecho.Send())
}

func (ar *AdminRoutesManager) CreateShipment(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CreateShipmentRequest](r)
	if err != nil {
		handling.WriteBodyError(w, ar.logger, err)
		return
	}

	shipment, err := ar.shipmentService.CreateShipment(r.Context(), body)
	if err != nil {
		handling.WriteError(w, ar.logger, err, "create shipment")
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.shipments.created"),
		gecho.WithData(shipment),
		gecho.Send(),
	)
}

// ReceiveShipment marks a pending shipment received and answers with the
// reloaded list
func (ar *AdminRoutesManager) ReceiveShipment(w http.ResponseWriter, r *http.Request) {
	id, err := lib.ParseUUIDParam(chi.URLParam(r, "id"))
	if err != nil {
		handling.WriteError(w, ar.logger, err, "receive shipment")
		return
	}

	shipments, err := ar.shipmentService.MarkReceived(r.Context(), id, lib.IsConfirmed(r))
	if err != nil {
		handling.WriteError(w, ar.logger, err, "receive shipment")
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.shipments.received"),
		gecho.WithData(shipments),
		gecho.Send(),
	)
}
