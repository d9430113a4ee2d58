package api

import (
	"crypto/subtle"
	"net/http"
)

// KeyHeader carries the API key. A ?key= query parameter is accepted as
// a fallback for clients that cannot set headers.
const KeyHeader = "X-ATLAS-Key"

const unauthorizedMsg = "Unauthorized — provide X-ATLAS-Key header"

// keyFromRequest extracts the presented key. The header wins over the
// query parameter when both are set.
func keyFromRequest(r *http.Request) string {
	if k := r.Header.Get(KeyHeader); k != "" {
		return k
	}
	return r.URL.Query().Get("key")
}

// checkKey reports whether the presented key grants access. An empty
// configured key disables auth entirely.
func checkKey(configured, provided string) bool {
	if configured == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(configured), []byte(provided)) == 1
}

// authorized checks the request against the service key.
func (s *Service) authorized(r *http.Request) bool {
	return checkKey(s.Key, keyFromRequest(r))
}
