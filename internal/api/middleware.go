package api

import (
	"net"
	"net/http"
)

// setSecureHeaders adds response headers appropriate for a JSON-only
// API. Both engines call it so scanners see the same surface.
func setSecureHeaders(h http.Header) {
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("X-Frame-Options", "DENY")
	h.Set("Referrer-Policy", "no-referrer")
	h.Set("Cache-Control", "no-store")
}

// secureHeaders wraps a handler with setSecureHeaders.
func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setSecureHeaders(w.Header())
		next.ServeHTTP(w, r)
	})
}

// clientIP returns the remote address without the port, falling back to
// the raw value when it does not parse.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// rateLimited reports whether the request should be rejected with 429.
func (s *Service) rateLimited(r *http.Request) bool {
	return s.Limiter != nil && !s.Limiter.Allow(clientIP(r))
}
