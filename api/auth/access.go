package auth

import (
	"catalogo_server/api/middleware"
	"catalogo_server/services"
	"catalogo_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
)

type accessResponse struct {
	services.AccessDecision
	Area    services.Area    `json:"area"`
	Session *structs.Session `json:"session,omitempty"`
}

// HandleAccess reports the access decision for an area so the admin UI can
// gate its pages without guessing. A denial is a normal answer, not an error.
func (srm *SessionRoutesManager) HandleAccess(w http.ResponseWriter, r *http.Request) {
	area := services.Area(r.URL.Query().Get("area"))
	if area == "" {
		area = services.AreaSales
	}
	if !area.IsValid() {
		gecho.BadRequest(w, gecho.WithMessage("error.session.unknownArea"), gecho.Send())
		return
	}

	session, _ := middleware.GetSessionFromContext(r.Context())
	decision := services.EvaluateAccess(structs.SessionState{Session: session}, area)

	gecho.Success(w,
		gecho.WithData(accessResponse{
			AccessDecision: decision,
			Area:           area,
			Session:        session,
		}),
		gecho.Send(),
	)
}
