package auth

import (
	"catalogo_server/lib"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// HandleLogout clears the session cookie. Tokens are stateless, so there is
// nothing to revoke server-side.
func (srm *SessionRoutesManager) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if _, err := lib.GetCookieValue(srm.cfg.Auth.SessionCookieName, r); err != nil {
		gecho.Success(w,
			gecho.WithMessage("No session found"),
			gecho.Send(),
		)
		return
	}

	lib.ClearCookie(srm.cfg.Auth.SessionCookieName, w)
	lib.ClearCookie(lib.CSRFCookieName, w)

	gecho.Success(w,
		gecho.WithMessage("Logged out successfully"),
		gecho.Send(),
	)
}
