// AngelaMos | 2026
// policy.go

package middleware

import (
	"net/http"
	"strings"

	"github.com/pinco-dev/pinco/internal/user"
)

type Access int

const (
	// AccessSkip bypasses authentication entirely.
	AccessSkip Access = iota
	// AccessPublic authenticates when credentials are presented and otherwise
	// lets the anonymous actor through.
	AccessPublic
	// AccessProtected requires an authenticated actor holding Role.
	AccessProtected
)

func (a Access) String() string {
	switch a {
	case AccessSkip:
		return "skip"
	case AccessPublic:
		return "public"
	default:
		return "protected"
	}
}

// Rule matches a method and a path. A Pattern ending in "/**" also matches
// every path below its prefix. An empty Method matches any method.
type Rule struct {
	Method  string
	Pattern string
	Access  Access
	Role    string
}

func (r Rule) matches(method, path string) bool {
	if r.Method != "" && r.Method != method {
		return false
	}

	if prefix, ok := strings.CutSuffix(r.Pattern, "/**"); ok {
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}

	return path == r.Pattern
}

// Policy is an ordered rule table; the first match wins. Paths outside
// Prefix are skipped and unmatched paths inside it fall to Default.
type Policy struct {
	Prefix  string
	Rules   []Rule
	Default Rule
}

func DefaultPolicy() Policy {
	return Policy{
		Prefix: "/api/",
		Rules: []Rule{
			{Pattern: "/api/user/join", Access: AccessSkip},
			{Pattern: "/api/user/login", Access: AccessSkip},
			{Pattern: "/api/user/reissue", Access: AccessSkip},
			// Public reads still run the authenticator: presented credentials
			// must be valid, and a stale token with a good API key is reissued.
			{Method: http.MethodGet, Pattern: "/api/pins", Access: AccessPublic},
			{Method: http.MethodGet, Pattern: "/api/pins/**", Access: AccessPublic},
			{Method: http.MethodGet, Pattern: "/api/tags/**", Access: AccessPublic},
		},
		Default: Rule{Access: AccessProtected, Role: user.RoleUser},
	}
}

func (p Policy) Classify(r *http.Request) Rule {
	if r.Method == http.MethodOptions {
		return Rule{Access: AccessSkip}
	}

	path := r.URL.Path
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}

	if !strings.HasPrefix(path+"/", p.Prefix) {
		return Rule{Access: AccessSkip}
	}

	for _, rule := range p.Rules {
		if rule.matches(r.Method, path) {
			return rule
		}
	}

	return p.Default
}
