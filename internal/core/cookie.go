// AngelaMos | 2026
// cookie.go

package core

import (
	"net/http"
)

const (
	APIKeyCookie      = "apiKey"
	AccessTokenCookie = "accessToken"
)

// SetCredentialCookie writes a session cookie readable only by the server.
// Secure follows the scheme the request arrived on.
func SetCredentialCookie(
	w http.ResponseWriter,
	r *http.Request,
	name, value string,
) {
	http.SetCookie(w, credentialCookie(r, name, value, 0))
}

func ClearCredentialCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, credentialCookie(r, name, "", -1))
}

func credentialCookie(
	r *http.Request,
	name, value string,
	maxAge int,
) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	}
}

func IsSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return r.Header.Get("X-Forwarded-Proto") == "https"
}
