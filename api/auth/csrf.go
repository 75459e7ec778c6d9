package auth

import (
	"catalogo_server/lib"
	"net/http"
	"time"

	"github.com/MonkyMars/gecho"
)

// HandleCSRF generates and sets a CSRF token
func (srm *SessionRoutesManager) HandleCSRF(w http.ResponseWriter, r *http.Request) {
	token, err := lib.GenerateRandomToken()
	if err != nil {
		srm.logger.Error("Failed to generate CSRF token", gecho.Field("error", err))
		gecho.InternalServerError(w,
			gecho.WithMessage("error.csrf.failedToGenerate"),
			gecho.Send(),
		)
		return
	}

	expiry := time.Now().Add(24 * time.Hour)
	lib.SetCSRFCookie(token, expiry, w)

	srm.logger.Debug("CSRF token generated",
		gecho.Field("origin", r.Header.Get("Origin")),
		gecho.Field("expiry", expiry),
	)

	// Return the token in the response as well
	gecho.Success(w,
		gecho.WithMessage("success.csrf.generated"),
		gecho.WithData(map[string]string{
			"csrf_token": token,
		}),
		gecho.Send(),
	)
}
