package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"atlas/internal/cache"
	"atlas/internal/history"
	"atlas/internal/models"
	"atlas/internal/ratelimit"
)

const testKey = "atl_testkey"

// --- helpers ---

func newTestService(t *testing.T, key string) *Service {
	t.Helper()
	dir := t.TempDir()
	return &Service{
		Cache:       cache.NewStore(filepath.Join(dir, "stats.json")),
		HistoryPath: filepath.Join(dir, "atlas.db"),
		Key:         key,
	}
}

func writeSnapshot(t *testing.T, svc *Service) *models.Snapshot {
	t.Helper()
	snap := &models.Snapshot{
		AtlasVersion: "2.1.0",
		CollectedAt:  time.Now().UTC().Format(time.RFC3339),
		Hostname:     "testhost",
		CPU:          models.Ok(&models.CPUStats{Percent: 12.5}),
		RAM:          models.Ok(&models.RAMStats{Percent: 48.2}),
		Disk: models.Ok(&models.DiskStats{
			Partitions: []models.DiskPartition{{Mountpoint: "/", Percent: 61.0}},
		}),
	}
	if err := svc.Cache.Write(snap); err != nil {
		t.Fatalf("write cache: %v", err)
	}
	return snap
}

// engines returns both transports for the same service so every test
// runs against each.
func engines(svc *Service) map[string]http.Handler {
	return map[string]http.Handler{
		"http": svc.Handler(),
		"gin":  svc.GinHandler(),
	}
}

func get(t *testing.T, h http.Handler, target string, header map[string]string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response %d not JSON: %v\n%s", rec.Code, err, rec.Body.String())
	}
	return rec.Code, body
}

func authed(key string) map[string]string {
	return map[string]string{KeyHeader: key}
}

// --- ping ---

func TestPing_NoAuthRequired(t *testing.T) {
	svc := newTestService(t, testKey)
	for name, h := range engines(svc) {
		t.Run(name, func(t *testing.T) {
			code, body := get(t, h, "/api/ping", nil)
			if code != 200 {
				t.Fatalf("code = %d, want 200", code)
			}
			if body["status"] != "ok" || body["service"] != "ATLAS" {
				t.Errorf("unexpected ping body: %v", body)
			}
			if body["cache"] != false {
				t.Error("cache flag should be false before the collector runs")
			}
		})
	}
}

func TestPing_ReportsCachePresence(t *testing.T) {
	svc := newTestService(t, testKey)
	writeSnapshot(t, svc)
	for name, h := range engines(svc) {
		t.Run(name, func(t *testing.T) {
			code, body := get(t, h, "/api/ping", nil)
			if code != 200 || body["cache"] != true {
				t.Errorf("code = %d, cache = %v; want 200, true", code, body["cache"])
			}
		})
	}
}

// --- auth ---

func TestStats_Unauthorized(t *testing.T) {
	svc := newTestService(t, testKey)
	writeSnapshot(t, svc)
	for name, h := range engines(svc) {
		t.Run(name, func(t *testing.T) {
			code, body := get(t, h, "/api/stats", nil)
			if code != 401 {
				t.Fatalf("code = %d, want 401", code)
			}
			if body["error"] != "Unauthorized — provide X-ATLAS-Key header" {
				t.Errorf("error = %v", body["error"])
			}

			code, _ = get(t, h, "/api/stats", authed("atl_wrong"))
			if code != 401 {
				t.Errorf("wrong key code = %d, want 401", code)
			}
		})
	}
}

func TestStats_KeySources(t *testing.T) {
	svc := newTestService(t, testKey)
	writeSnapshot(t, svc)
	for name, h := range engines(svc) {
		t.Run(name, func(t *testing.T) {
			if code, _ := get(t, h, "/api/stats", authed(testKey)); code != 200 {
				t.Errorf("header key code = %d, want 200", code)
			}
			if code, _ := get(t, h, "/api/stats?key="+testKey, nil); code != 200 {
				t.Errorf("query key code = %d, want 200", code)
			}
		})
	}
}

func TestStats_HeaderWinsOverQuery(t *testing.T) {
	svc := newTestService(t, testKey)
	writeSnapshot(t, svc)
	for name, h := range engines(svc) {
		t.Run(name, func(t *testing.T) {
			// Valid header beats a bogus query parameter.
			if code, _ := get(t, h, "/api/stats?key=bogus", authed(testKey)); code != 200 {
				t.Errorf("valid header + bad query = %d, want 200", code)
			}
			// A bad header is not rescued by a valid query parameter.
			if code, _ := get(t, h, "/api/stats?key="+testKey, authed("atl_wrong")); code != 401 {
				t.Errorf("bad header + valid query = %d, want 401", code)
			}
		})
	}
}

func TestStats_OpenWhenNoKeyConfigured(t *testing.T) {
	svc := newTestService(t, "")
	writeSnapshot(t, svc)
	for name, h := range engines(svc) {
		t.Run(name, func(t *testing.T) {
			if code, _ := get(t, h, "/api/stats", nil); code != 200 {
				t.Errorf("code = %d, want 200 with auth disabled", code)
			}
		})
	}
}

// --- stats ---

func TestStats_CacheMissing(t *testing.T) {
	svc := newTestService(t, testKey)
	for name, h := range engines(svc) {
		t.Run(name, func(t *testing.T) {
			code, body := get(t, h, "/api/stats", authed(testKey))
			if code != 503 {
				t.Fatalf("code = %d, want 503", code)
			}
			if body["error"] != "Cache not found — is collector running?" {
				t.Errorf("error = %v", body["error"])
			}
		})
	}
}

func TestStats_FullSnapshot(t *testing.T) {
	svc := newTestService(t, testKey)
	writeSnapshot(t, svc)
	for name, h := range engines(svc) {
		t.Run(name, func(t *testing.T) {
			code, body := get(t, h, "/api/stats", authed(testKey))
			if code != 200 {
				t.Fatalf("code = %d, want 200", code)
			}
			if body["hostname"] != "testhost" || body["atlas_version"] != "2.1.0" {
				t.Errorf("identity fields wrong: %v", body)
			}
			if _, ok := body["cpu"]; !ok {
				t.Error("cpu section missing from full snapshot")
			}
		})
	}
}

func TestStats_TrailingSlash(t *testing.T) {
	svc := newTestService(t, testKey)
	writeSnapshot(t, svc)
	// The stdlib engine treats /api/stats/ and /api/stats identically;
	// gin handles it with a redirect instead.
	code, _ := get(t, svc.Handler(), "/api/stats/", authed(testKey))
	if code != 200 {
		t.Errorf("code = %d, want 200 for trailing slash", code)
	}
}

// --- stats sections ---

func TestStatsSection_OK(t *testing.T) {
	svc := newTestService(t, testKey)
	writeSnapshot(t, svc)
	for name, h := range engines(svc) {
		t.Run(name, func(t *testing.T) {
			code, body := get(t, h, "/api/stats/cpu", authed(testKey))
			if code != 200 {
				t.Fatalf("code = %d, want 200", code)
			}
			if body["section"] != "cpu" || body["hostname"] != "testhost" {
				t.Errorf("wrapper fields wrong: %v", body)
			}
			if _, ok := body["collected_at"]; !ok {
				t.Error("collected_at missing from section wrapper")
			}
			data, ok := body["data"].(map[string]any)
			if !ok {
				t.Fatalf("data is not an object: %v", body["data"])
			}
			if data["percent"] != 12.5 {
				t.Errorf("cpu percent = %v, want 12.5", data["percent"])
			}
		})
	}
}

func TestStatsSection_NotFound(t *testing.T) {
	svc := newTestService(t, testKey)
	writeSnapshot(t, svc)
	for name, h := range engines(svc) {
		t.Run(name, func(t *testing.T) {
			code, body := get(t, h, "/api/stats/gpu", authed(testKey))
			if code != 404 {
				t.Fatalf("code = %d, want 404", code)
			}
			if body["error"] != "Section 'gpu' not found" {
				t.Errorf("error = %v", body["error"])
			}
			avail, ok := body["available"].([]any)
			if !ok || len(avail) != 3 {
				t.Fatalf("available = %v, want the 3 collected sections", body["available"])
			}
			if avail[0] != "cpu" || avail[1] != "ram" || avail[2] != "disk" {
				t.Errorf("available = %v, want canonical order", avail)
			}
		})
	}
}

func TestStatsSection_FailedSectionStillServed(t *testing.T) {
	svc := newTestService(t, testKey)
	snap := writeSnapshot(t, svc)
	snap.Network = models.Failed[models.NetworkStats]("sampling failed")
	if err := svc.Cache.Write(snap); err != nil {
		t.Fatalf("rewrite cache: %v", err)
	}
	for name, h := range engines(svc) {
		t.Run(name, func(t *testing.T) {
			code, body := get(t, h, "/api/stats/network", authed(testKey))
			if code != 200 {
				t.Fatalf("code = %d, want 200; a failed section is still a section", code)
			}
			data, _ := body["data"].(map[string]any)
			if data["error"] != "sampling failed" {
				t.Errorf("data = %v, want error payload", body["data"])
			}
		})
	}
}

// --- history ---

func TestHistory_NoDatabase(t *testing.T) {
	svc := newTestService(t, testKey)
	for name, h := range engines(svc) {
		t.Run(name, func(t *testing.T) {
			code, body := get(t, h, "/api/history", authed(testKey))
			if code != 404 {
				t.Fatalf("code = %d, want 404", code)
			}
			if body["error"] != "History not enabled or no data yet" {
				t.Errorf("error = %v", body["error"])
			}
		})
	}
}

func TestHistory_OK(t *testing.T) {
	svc := newTestService(t, testKey)
	snap := writeSnapshot(t, svc)

	hist, err := history.Open(svc.HistoryPath)
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	if err := hist.Append(snap, 7); err != nil {
		t.Fatalf("append: %v", err)
	}
	hist.Close()

	for name, h := range engines(svc) {
		t.Run(name, func(t *testing.T) {
			code, body := get(t, h, "/api/history?limit=5", authed(testKey))
			if code != 200 {
				t.Fatalf("code = %d, want 200", code)
			}
			if body["count"] != float64(1) || body["limit"] != float64(5) {
				t.Errorf("count/limit = %v/%v", body["count"], body["limit"])
			}
			rows, ok := body["snapshots"].([]any)
			if !ok || len(rows) != 1 {
				t.Fatalf("snapshots = %v", body["snapshots"])
			}
			row := rows[0].(map[string]any)
			if row["hostname"] != "testhost" || row["cpu_percent"] != 12.5 {
				t.Errorf("row = %v", row)
			}
		})
	}
}

func TestHistory_ClampsOversizedLimit(t *testing.T) {
	svc := newTestService(t, testKey)
	snap := writeSnapshot(t, svc)

	hist, err := history.Open(svc.HistoryPath)
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	if err := hist.Append(snap, 7); err != nil {
		t.Fatalf("append: %v", err)
	}
	hist.Close()

	for name, h := range engines(svc) {
		t.Run(name, func(t *testing.T) {
			code, body := get(t, h, "/api/history?limit=5000", authed(testKey))
			if code != 200 {
				t.Fatalf("code = %d, want 200", code)
			}
			if body["limit"] != float64(history.MaxQueryLimit) {
				t.Errorf("limit = %v, want clamped to %d", body["limit"], history.MaxQueryLimit)
			}
		})
	}
}

func TestHistory_RequiresAuth(t *testing.T) {
	svc := newTestService(t, testKey)
	for name, h := range engines(svc) {
		t.Run(name, func(t *testing.T) {
			if code, _ := get(t, h, "/api/history", nil); code != 401 {
				t.Errorf("code = %d, want 401", code)
			}
		})
	}
}

// --- misc ---

func TestUnknownPath(t *testing.T) {
	svc := newTestService(t, testKey)
	for name, h := range engines(svc) {
		t.Run(name, func(t *testing.T) {
			code, body := get(t, h, "/api/nonsense", authed(testKey))
			if code != 404 {
				t.Fatalf("code = %d, want 404", code)
			}
			if body["error"] != "Not found" {
				t.Errorf("error = %v", body["error"])
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	svc := newTestService(t, testKey)
	for name, h := range engines(svc) {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/ping", nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != 405 {
				t.Errorf("code = %d, want 405", rec.Code)
			}
		})
	}
}

func TestSecureHeaders(t *testing.T) {
	svc := newTestService(t, testKey)
	for name, h := range engines(svc) {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
				t.Error("missing nosniff header")
			}
			if rec.Header().Get("X-Frame-Options") != "DENY" {
				t.Error("missing frame options header")
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	svc := newTestService(t, testKey)
	svc.Limiter = ratelimit.New(ratelimit.Config{PerMinute: 2})
	defer svc.Limiter.Stop()

	h := svc.Handler()
	if code, _ := get(t, h, "/api/ping", nil); code != 200 {
		t.Fatalf("first request = %d, want 200", code)
	}
	if code, _ := get(t, h, "/api/ping", nil); code != 200 {
		t.Fatalf("second request = %d, want 200", code)
	}
	code, body := get(t, h, "/api/ping", nil)
	if code != 429 {
		t.Fatalf("third request = %d, want 429", code)
	}
	if body["error"] != "Too many requests" {
		t.Errorf("error = %v", body["error"])
	}
}

// --- auth primitives ---

func TestCheckKey(t *testing.T) {
	if !checkKey("", "anything") {
		t.Error("empty configured key must disable auth")
	}
	if !checkKey("atl_k", "atl_k") {
		t.Error("matching key rejected")
	}
	if checkKey("atl_k", "atl_K") {
		t.Error("mismatched key accepted")
	}
	if checkKey("atl_k", "") {
		t.Error("missing key accepted")
	}
}
