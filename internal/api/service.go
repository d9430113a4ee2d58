// Package api serves the read-only telemetry endpoints. Route handling
// lives in one engine-neutral Service so the stdlib and gin transports
// return byte-identical payloads.
package api

import (
	"fmt"
	"os"
	"time"

	"atlas/internal/cache"
	"atlas/internal/config"
	"atlas/internal/history"
	"atlas/internal/memcache"
	"atlas/internal/ratelimit"
	"atlas/internal/version"
)

// historyCacheTTL bounds how stale a cached history response may be.
// One retention-priced SQLite query per window is plenty.
const historyCacheTTL = 15 * time.Second

// Service wires the data sources behind the HTTP handlers. History may
// be a pre-opened store; when nil the database file is opened per
// request so the endpoint starts working as soon as the collector
// creates it.
type Service struct {
	Cache        *cache.Store
	HistoryStore *history.Store
	HistoryPath  string
	Key          string
	Responses    *memcache.Cache
	Limiter      *ratelimit.Limiter
}

// NewService builds the production service for the given config.
func NewService(cfg *config.Config, paths config.Paths) *Service {
	return &Service{
		Cache:       cache.NewStore(paths.CacheFile),
		HistoryPath: paths.DBFile,
		Key:         cfg.APIKey,
		Responses:   memcache.New(historyCacheTTL),
		Limiter:     ratelimit.New(ratelimit.Config{PerMinute: 120, Burst: 60}),
	}
}

// Ping is the unauthenticated health check.
func (s *Service) Ping() (int, any) {
	return 200, map[string]any{
		"status":  "ok",
		"service": version.Service,
		"version": version.Version,
		"time":    time.Now().UTC().Format(time.RFC3339),
		"cache":   s.Cache.Exists(),
	}
}

// Stats returns the full cached snapshot.
func (s *Service) Stats() (int, any) {
	snap, ok := s.Cache.Read()
	if !ok {
		return 503, map[string]any{"error": "Cache not found — is collector running?"}
	}
	return 200, snap
}

// StatsSection returns one section of the cached snapshot, wrapped with
// the snapshot's identity fields.
func (s *Service) StatsSection(name string) (int, any) {
	snap, ok := s.Cache.Read()
	if !ok {
		return 503, map[string]any{"error": "Cache not found — is collector running?"}
	}
	data, ok := snap.Section(name)
	if !ok {
		return 404, map[string]any{
			"error":     fmt.Sprintf("Section '%s' not found", name),
			"available": snap.Sections(),
		}
	}
	return 200, map[string]any{
		"section":      name,
		"hostname":     snap.Hostname,
		"collected_at": snap.CollectedAt,
		"data":         data,
	}
}

// History returns recent summary rows, newest first. Responses are
// cached briefly per limit value.
func (s *Service) History(limit int) (int, any) {
	if limit > history.MaxQueryLimit {
		limit = history.MaxQueryLimit
	}

	cacheKey := fmt.Sprintf("history:%d", limit)
	if s.Responses != nil {
		if v, ok := s.Responses.Get(cacheKey); ok {
			return 200, v
		}
	}

	store := s.HistoryStore
	if store == nil {
		if _, err := os.Stat(s.HistoryPath); err != nil {
			return 404, map[string]any{"error": "History not enabled or no data yet"}
		}
		opened, err := history.Open(s.HistoryPath)
		if err != nil {
			return 500, map[string]any{"error": err.Error()}
		}
		defer opened.Close()
		store = opened
	}

	records, err := store.Query(limit)
	if err != nil {
		return 500, map[string]any{"error": err.Error()}
	}
	payload := map[string]any{
		"count":     len(records),
		"limit":     limit,
		"snapshots": records,
	}
	if s.Responses != nil {
		s.Responses.Set(cacheKey, payload)
	}
	return 200, payload
}

// Close releases background resources held by the service.
func (s *Service) Close() {
	if s.Responses != nil {
		s.Responses.Stop()
	}
	if s.Limiter != nil {
		s.Limiter.Stop()
	}
}
