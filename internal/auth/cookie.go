// AngelaMos | 2026
// cookie.go

package auth

import (
	"net/http"

	"github.com/pinco-dev/pinco/internal/core"
)

const AccessTokenHeader = "accessToken"

// WriteAccessToken publishes a new access token on both the response header
// and the cookie. It must run before the response status is written.
func WriteAccessToken(w http.ResponseWriter, r *http.Request, token string) {
	if token == "" {
		return
	}
	w.Header().Set(AccessTokenHeader, token)
	core.SetCredentialCookie(w, r, core.AccessTokenCookie, token)
}

func writeSessionCookies(w http.ResponseWriter, r *http.Request, s *Session) {
	core.SetCredentialCookie(w, r, core.APIKeyCookie, s.APIKey)
	core.SetCredentialCookie(w, r, core.AccessTokenCookie, s.AccessToken)
}

func clearSessionCookies(w http.ResponseWriter, r *http.Request) {
	core.ClearCredentialCookie(w, r, core.AccessTokenCookie)
	core.ClearCredentialCookie(w, r, core.APIKeyCookie)
}
