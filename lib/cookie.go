package lib

import (
	"catalogo_server/config"
	"net/http"
	"time"
)

func cookieAttributes() (http.SameSite, bool, string) {
	if config.IsProduction() {
		// Admin UI and API live on different subdomains
		return http.SameSiteNoneMode, true, config.GetConfig().Server.CookieDomain
	}
	return http.SameSiteLaxMode, false, ""
}

// SetCookie sets a secure, HttpOnly cookie for session usage
func SetCookie(key, val string, expiry time.Time, w http.ResponseWriter) {
	sameSite, secure, domain := cookieAttributes()

	http.SetCookie(w, &http.Cookie{
		Name:     key,
		Value:    val,
		Expires:  expiry,
		Path:     "/",
		Domain:   domain,
		Secure:   secure,
		SameSite: sameSite,
		HttpOnly: true,
	})
}

func GetCookieValue(key string, r *http.Request) (string, error) {
	cookie, err := r.Cookie(key)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

// ClearCookie removes the cookie from the browser
func ClearCookie(key string, w http.ResponseWriter) {
	sameSite, secure, domain := cookieAttributes()

	http.SetCookie(w, &http.Cookie{
		Name:     key,
		Value:    "",
		Path:     "/",
		Domain:   domain,
		Expires:  time.Now().Add(-time.Hour),
		MaxAge:   -1,
		Secure:   secure,
		SameSite: sameSite,
		HttpOnly: true,
	})
}

const CSRFCookieName = "csrf"

// SetCSRFCookie sets the double-submit token. It must stay readable by JS.
func SetCSRFCookie(val string, expiry time.Time, w http.ResponseWriter) {
	sameSite, secure, domain := cookieAttributes()

	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    val,
		Expires:  expiry,
		MaxAge:   int(time.Until(expiry).Seconds()),
		Path:     "/",
		Domain:   domain,
		Secure:   secure,
		SameSite: sameSite,
		HttpOnly: false,
	})
}
