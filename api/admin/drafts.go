package admin

import (
	"catalogo_server/handling"
	"catalogo_server/lib"
	"catalogo_server/services"
	"catalogo_server/structs/tables"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type OpenDraftRequest struct {
	ProductID string `json:"product_id" validate:"omitempty,uuid"`
}

type draftResponse struct {
	DraftID             uuid.UUID          `json:"draft_id"`
	Mode                services.DraftMode `json:"mode"`
	Product             *tables.Product    `json:"product"`
	VariationsAvailable bool               `json:"variations_available"`
}

func newDraftResponse(id uuid.UUID, draft *services.ProductDraft) draftResponse {
	product := draft.Snapshot()
	return draftResponse{
		DraftID:             id,
		Mode:                draft.Mode(),
		Product:             product,
		VariationsAvailable: product.VariationsAvailable(),
	}
}

// loadDraft resolves {draftID}. It writes the response itself when the draft is unknown.
func (ar *AdminRoutesManager) loadDraft(w http.ResponseWriter, r *http.Request) (uuid.UUID, *services.ProductDraft, bool) {
	id, err := lib.ParseUUIDParam(chi.URLParam(r, "draftID"))
	if err != nil {
		handling.WriteError(w, ar.logger, err, "load draft")
		return uuid.Nil, nil, false
	}

	draft, ok := ar.drafts.Get(id)
	if !ok {
		gecho.NotFound(w, gecho.WithMessage("error.drafts.notFound"), gecho.Send())
		return uuid.Nil, nil, false
	}
	return id, draft, true
}

// OpenDraft starts a creating draft from the blank template, or an editing
// draft from the product named in the body
func (ar *AdminRoutesManager) OpenDraft(w http.ResponseWriter, r *http.Request) {
	body := &OpenDraftRequest{}
	if r.ContentLength != 0 {
		decoded, err := lib.ExtractAndValidateBody[OpenDraftRequest](r)
		if err != nil {
			handling.WriteBodyError(w, ar.logger, err)
			return
		}
		body = decoded
	}

	draft := services.NewCreateDraft()
	if body.ProductID != "" {
		product, err := ar.productService.GetProduct(r.Context(), uuid.MustParse(body.ProductID))
		if err != nil {
			handling.WriteError(w, ar.logger, err, "open draft")
			return
		}
		draft = services.NewEditDraft(product)
	}

	id := ar.drafts.Open(draft)
	ar.logger.Debug("Product draft opened",
		gecho.Field("draft_id", id),
		gecho.Field("mode", draft.Mode()),
		gecho.Field("product_id", draft.ProductID()),
	)

	gecho.Success(w,
		gecho.WithMessage("success.drafts.opened"),
		gecho.WithData(newDraftResponse(id, draft)),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) GetDraft(w http.ResponseWriter, r *http.Request) {
	id, draft, ok := ar.loadDraft(w, r)
	if !ok {
		return
	}
	gecho.Success(w, gecho.WithData(newDraftResponse(id, draft)), gecho.Send())
}

// DiscardDraft closes the editor. Nothing persisted changes.
func (ar *AdminRoutesManager) DiscardDraft(w http.ResponseWriter, r *http.Request) {
	id, err := lib.ParseUUIDParam(chi.URLParam(r, "draftID"))
	if err != nil {
		handling.WriteError(w, ar.logger, err, "discard draft")
		return
	}

	if !ar.drafts.Discard(id) {
		gecho.NotFound(w, gecho.WithMessage("error.drafts.notFound"), gecho.Send())
		return
	}
	gecho.Success(w, gecho.WithMessage("success.drafts.discarded"), gecho.Send())
}

// SubmitDraft persists the draft. On success the draft is closed; on failure it
// stays open so the operator can correct it and retry.
func (ar *AdminRoutesManager) SubmitDraft(w http.ResponseWriter, r *http.Request) {
	id, draft, ok := ar.loadDraft(w, r)
	if !ok {
		return
	}

	product, err := draft.Submit(r.Context(), ar.productService)
	if err != nil {
		handling.WriteError(w, ar.logger, err, "submit draft")
		return
	}

	ar.drafts.Discard(id)
	gecho.Success(w,
		gecho.WithMessage("success.products.saved"),
		gecho.WithData(product),
		gecho.Send(),
	)
}
