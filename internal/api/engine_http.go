package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"atlas/internal/config"
)

type httpEngine struct{}

func (httpEngine) Name() string { return config.EngineHTTP }

func (httpEngine) Serve(ctx context.Context, port int, svc *Service) error {
	return serve(ctx, newServer(port, svc.Handler()))
}

// Handler returns the stdlib transport as a plain http.Handler, which
// is also what the tests exercise.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.route)
	return secureHeaders(mux)
}

// route dispatches every request. Trailing slashes are ignored, so
// /api/stats/ and /api/stats are the same resource.
func (s *Service) route(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "Method not allowed"})
		return
	}
	if s.rateLimited(r) {
		writeJSON(w, http.StatusTooManyRequests, map[string]any{"error": "Too many requests"})
		return
	}

	path := strings.TrimRight(r.URL.Path, "/")

	if path == "/api/ping" {
		code, body := s.Ping()
		writeJSON(w, code, body)
		return
	}

	if !s.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": unauthorizedMsg})
		return
	}

	switch {
	case path == "/api/stats":
		code, body := s.Stats()
		writeJSON(w, code, body)
	case strings.HasPrefix(path, "/api/stats/"):
		code, body := s.StatsSection(strings.TrimPrefix(path, "/api/stats/"))
		writeJSON(w, code, body)
	case path == "/api/history":
		code, body := s.History(limitParam(r))
		writeJSON(w, code, body)
	default:
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Not found"})
	}
}

// limitParam reads ?limit=, defaulting to 100 when absent or not a
// number.
func limitParam(r *http.Request) int {
	q := r.URL.Query().Get("limit")
	if q == "" {
		return 100
	}
	n, err := strconv.Atoi(q)
	if err != nil {
		return 100
	}
	return n
}
