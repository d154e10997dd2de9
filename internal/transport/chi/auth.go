package chi

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strings"
)

// Probes and scrapes stay reachable without a key.
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// keyDigests holds SHA-256 digests of the accepted API keys. Comparing
// fixed-size digests keeps the check independent of key length.
type keyDigests [][sha256.Size]byte

func newKeyDigests(keys []string) keyDigests {
	var d keyDigests
	for _, k := range keys {
		if k != "" {
			d = append(d, sha256.Sum256([]byte(k)))
		}
	}
	return d
}

// match compares against every key so timing does not reveal which matched.
func (d keyDigests) match(token string) bool {
	sum := sha256.Sum256([]byte(token))
	ok := 0
	for i := range d {
		ok |= subtle.ConstantTimeCompare(d[i][:], sum[:])
	}
	return ok == 1
}

// BearerAuthMiddleware requires "Authorization: Bearer <key>" on every route
// except exemptPaths. No configured keys disables authentication.
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	keys := newKeyDigests(apiKeys)
	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}
			token, problem := bearerToken(r.Header.Get("Authorization"))
			if problem == "" && !keys.match(token) {
				problem = "invalid api key"
			}
			if problem != "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="talentmatch"`)
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, problem)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the credentials. The scheme name is matched
// case-insensitively as RFC 6750 allows.
func bearerToken(header string) (token, problem string) {
	if header == "" {
		return "", "missing authorization header"
	}
	scheme, cred, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", "authorization header must use Bearer scheme"
	}
	return strings.TrimSpace(cred), ""
}
