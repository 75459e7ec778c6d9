package admin

import (
	"catalogo_server/handling"
	"catalogo_server/lib"
	"net/http"
	"net/url"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type FieldValueRequest struct {
	Value any `json:"value"`
}

type ListPatchRequest struct {
	Patch any `json:"patch" validate:"required"`
}

// Every edit answers with the whole draft so the editor can re-render from it

func (ar *AdminRoutesManager) SetDraftField(w http.ResponseWriter, r *http.Request) {
	id, draft, ok := ar.loadDraft(w, r)
	if !ok {
		return
	}

	body, err := lib.ExtractAndValidateBody[FieldValueRequest](r)
	if err != nil {
		handling.WriteBodyError(w, ar.logger, err)
		return
	}

	if err := draft.SetField(chi.URLParam(r, "field"), body.Value); err != nil {
		handling.WriteError(w, ar.logger, err, "set draft field")
		return
	}
	gecho.Success(w, gecho.WithData(newDraftResponse(id, draft)), gecho.Send())
}

func (ar *AdminRoutesManager) AppendDraftListItem(w http.ResponseWriter, r *http.Request) {
	id, draft, ok := ar.loadDraft(w, r)
	if !ok {
		return
	}

	body := &FieldValueRequest{}
	if r.ContentLength != 0 {
		decoded, err := lib.ExtractAndValidateBody[FieldValueRequest](r)
		if err != nil {
			handling.WriteBodyError(w, ar.logger, err)
			return
		}
		body = decoded
	}

	index, err := draft.AppendListItem(chi.URLParam(r, "list"), body.Value)
	if err != nil {
		handling.WriteError(w, ar.logger, err, "append draft list item")
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"index": index,
			"draft": newDraftResponse(id, draft),
		}),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) PatchDraftListItem(w http.ResponseWriter, r *http.Request) {
	id, draft, ok := ar.loadDraft(w, r)
	if !ok {
		return
	}

	index, err := handling.ParseIndex(chi.URLParam(r, "index"))
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage(err.Error()), gecho.Send())
		return
	}

	body, err := lib.ExtractAndValidateBody[ListPatchRequest](r)
	if err != nil {
		handling.WriteBodyError(w, ar.logger, err)
		return
	}

	if err := draft.SetListItem(chi.URLParam(r, "list"), index, body.Patch); err != nil {
		handling.WriteError(w, ar.logger, err, "patch draft list item")
		return
	}
	gecho.Success(w, gecho.WithData(newDraftResponse(id, draft)), gecho.Send())
}

func (ar *AdminRoutesManager) RemoveDraftListItem(w http.ResponseWriter, r *http.Request) {
	id, draft, ok := ar.loadDraft(w, r)
	if !ok {
		return
	}

	index, err := handling.ParseIndex(chi.URLParam(r, "index"))
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage(err.Error()), gecho.Send())
		return
	}

	if err := draft.RemoveListItem(chi.URLParam(r, "list"), index); err != nil {
		handling.WriteError(w, ar.logger, err, "remove draft list item")
		return
	}
	gecho.Success(w, gecho.WithData(newDraftResponse(id, draft)), gecho.Send())
}

// ToggleDraftSize flips one size. The product is switched to bulk either way.
func (ar *AdminRoutesManager) ToggleDraftSize(w http.ResponseWriter, r *http.Request) {
	id, draft, ok := ar.loadDraft(w, r)
	if !ok {
		return
	}

	size, err := url.PathUnescape(chi.URLParam(r, "size"))
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("error.drafts.invalidSize"), gecho.Send())
		return
	}

	if err := draft.ToggleSize(size); err != nil {
		handling.WriteError(w, ar.logger, err, "toggle draft size")
		return
	}
	gecho.Success(w, gecho.WithData(newDraftResponse(id, draft)), gecho.Send())
}
