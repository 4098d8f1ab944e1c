// AngelaMos | 2026
// credentials.go

package middleware

import (
	"net/http"
	"strings"

	"github.com/pinco-dev/pinco/internal/auth"
	"github.com/pinco-dev/pinco/internal/core"
)

const (
	headerAuthorization = "Authorization"
	headerAPIKey        = "X-API-Key"
	bearerScheme        = "Bearer"
)

// ExtractCredentials collects the API key and access token a request carries.
// The Authorization header wins; each credential then falls back on its own
// header and finally its cookie. A present Authorization header that is not a
// Bearer credential is a hard failure and never falls back.
func ExtractCredentials(r *http.Request) (auth.Credentials, error) {
	var creds auth.Credentials

	if header := r.Header.Get(headerAuthorization); strings.TrimSpace(header) != "" {
		apiKey, token, err := parseBearer(header)
		if err != nil {
			return auth.Credentials{}, err
		}
		creds.APIKey = apiKey
		creds.AccessToken = token
	}

	if creds.APIKey == "" {
		creds.APIKey = firstNonEmpty(
			r.Header.Get(headerAPIKey),
			cookieValue(r, core.APIKeyCookie),
		)
	}

	if creds.AccessToken == "" {
		creds.AccessToken = firstNonEmpty(
			r.Header.Get(auth.AccessTokenHeader),
			cookieValue(r, core.AccessTokenCookie),
		)
	}

	return creds, nil
}

// parseBearer reads "Bearer <apiKey> <accessToken>". The scheme is case
// sensitive. Empty segments are returned empty so the caller falls back on
// headers and cookies. A bare "Bearer" counts as "Bearer " since net/http
// strips trailing whitespace from header values.
func parseBearer(header string) (string, string, error) {
	if header != bearerScheme && !strings.HasPrefix(header, bearerScheme+" ") {
		return "", "", core.ErrMalformedAuthorization
	}

	parts := strings.SplitN(header, " ", 3)

	var apiKey, token string
	if len(parts) > 1 {
		apiKey = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		token = strings.TrimSpace(parts[2])
	}

	return apiKey, token, nil
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
