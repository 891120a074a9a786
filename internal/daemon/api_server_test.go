package daemon

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"leadradar/internal/auth"
	"leadradar/internal/cognitive"
	"leadradar/internal/leads"
	"leadradar/internal/radar"
	"leadradar/internal/signals"
	"leadradar/internal/store"
	"leadradar/internal/testsupport"
)

var fixedNow = time.Date(2025, 6, 2, 11, 0, 0, 0, time.UTC)

type apiHarness struct {
	server  *httptest.Server
	store   *store.Store
	service *leads.Service
}

func newAPIHarness(t *testing.T, requireToken bool) apiHarness {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithRequireToken(requireToken))
	st := testsupport.MustOpenStore(t, cfg)
	clock := func() time.Time { return fixedNow }
	tokens, err := auth.NewIssuer(cfg.Auth.TokenSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	analyst := cognitive.NewAnalyst(testsupport.NewFakeCompleter(), cognitive.Options{Now: clock})
	svc := leads.NewService(st, radar.NewSampleRegistry(clock), analyst, leads.Options{
		Concurrency: 2,
		Tokens:      tokens,
		CronSecret:  cfg.Auth.CronSecret,
		Now:         clock,
	})
	api := newAPIServer(cfg, svc, nil)
	server := httptest.NewServer(api.routes())
	t.Cleanup(server.Close)
	return apiHarness{server: server, store: st, service: svc}
}

func (h apiHarness) do(t *testing.T, method, path string, body any, headers ...string) (*http.Response, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, h.server.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	var payload map[string]any
	if resp.ContentLength != 0 {
		_ = json.NewDecoder(resp.Body).Decode(&payload)
	}
	return resp, payload
}

func TestHealthAndRequestID(t *testing.T) {
	h := newAPIHarness(t, false)
	resp, payload := h.do(t, http.MethodGet, "/healthz", nil)
	if resp.StatusCode != http.StatusOK || payload["ok"] != true {
		t.Fatalf("unexpected health response %d %v", resp.StatusCode, payload)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatal("expected generated request id")
	}
	resp, _ = h.do(t, http.MethodGet, "/healthz", nil, "X-Request-ID", "abc-123")
	if resp.Header.Get("X-Request-ID") != "abc-123" {
		t.Fatalf("expected caller request id echoed, got %q", resp.Header.Get("X-Request-ID"))
	}
}

func TestCORSPreflight(t *testing.T) {
	h := newAPIHarness(t, true)
	resp, _ := h.do(t, http.MethodOptions, "/scan", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for OPTIONS, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("expected open CORS, got %q", resp.Header.Get("Access-Control-Allow-Origin"))
	}
}

func TestMethodNotAllowedIsJSON(t *testing.T) {
	h := newAPIHarness(t, false)
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/scan"},
		{http.MethodDelete, "/archive"},
		{http.MethodPut, "/settings"},
		{http.MethodPost, "/signals/abc"},
	} {
		resp, payload := h.do(t, tc.method, tc.path, nil)
		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Fatalf("%s %s: expected 405, got %d", tc.method, tc.path, resp.StatusCode)
		}
		if payload["error"] != "Method not allowed" {
			t.Fatalf("%s %s: unexpected body %v", tc.method, tc.path, payload)
		}
	}
}

func TestScanEndpoint(t *testing.T) {
	h := newAPIHarness(t, false)
	resp, payload := h.do(t, http.MethodPost, "/scan", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", resp.StatusCode, payload)
	}
	if payload["success"] != true || payload["signalsFound"] != float64(14) || payload["signalsProcessed"] != float64(14) {
		t.Fatalf("unexpected scan payload: %v", payload)
	}

	resp, payload = h.do(t, http.MethodPost, "/scan", map[string]any{
		"radars":   []string{"borme"},
		"keywords": []string{"disolución"},
	})
	if resp.StatusCode != http.StatusOK || payload["signalsFound"] != float64(2) {
		t.Fatalf("unexpected filtered scan: %d %v", resp.StatusCode, payload)
	}

	resp, payload = h.do(t, http.MethodGet, "/signals?source=borme", nil)
	if resp.StatusCode != http.StatusOK || payload["total"] != float64(5) {
		t.Fatalf("expected 3 + 2 borme signals, got %d %v", resp.StatusCode, payload)
	}

	resp, payload = h.do(t, http.MethodGet, "/signals?source=foo", nil)
	if resp.StatusCode != http.StatusOK || payload["total"] != float64(0) {
		t.Fatalf("expected empty list for unknown source, got %d %v", resp.StatusCode, payload)
	}
}

func TestScanRejectsMalformedBody(t *testing.T) {
	h := newAPIHarness(t, false)
	req, _ := http.NewRequest(http.MethodPost, h.server.URL+"/scan", strings.NewReader("{not json"))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST /scan: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestSearchEndpoint(t *testing.T) {
	h := newAPIHarness(t, false)
	first := testsupport.NewSignal(1, signals.SourceBORME, fixedNow.Add(-time.Hour))
	second := testsupport.NewSignal(2, signals.SourceLinkedIn, fixedNow.Add(-2*time.Hour))
	second.Location = "Valladolid"
	testsupport.InsertSignals(t, h.store, first, second)

	resp, payload := h.do(t, http.MethodPost, "/search", map[string]string{"query": ""})
	if resp.StatusCode != http.StatusBadRequest || payload["error"] != "Query is required" {
		t.Fatalf("expected 400 for blank query, got %d %v", resp.StatusCode, payload)
	}

	resp, payload = h.do(t, http.MethodPost, "/search", map[string]string{"query": "valladolid"})
	if resp.StatusCode != http.StatusOK || payload["total"] != float64(1) {
		t.Fatalf("unexpected search result %d %v", resp.StatusCode, payload)
	}
	stats, err := h.store.Stats(context.Background(), fixedNow)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if len(stats.RecentSearches) != 1 || stats.RecentSearches[0].Results != 1 {
		t.Fatalf("expected one logged search, got %+v", stats.RecentSearches)
	}
}

func TestSignalLookupAndArchive(t *testing.T) {
	h := newAPIHarness(t, false)
	sig := testsupport.NewSignal(1, signals.SourceTraspasos, fixedNow.Add(-time.Hour))
	testsupport.InsertSignals(t, h.store, sig)

	resp, payload := h.do(t, http.MethodGet, "/signals/"+sig.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if got := payload["signal"].(map[string]any)["id"]; got != sig.ID {
		t.Fatalf("unexpected signal id %v", got)
	}

	resp, payload = h.do(t, http.MethodGet, "/signals/sig_missing", nil)
	if resp.StatusCode != http.StatusNotFound || payload["error"] != "Signal not found" {
		t.Fatalf("expected 404, got %d %v", resp.StatusCode, payload)
	}
	resp, _ = h.do(t, http.MethodGet, "/signals/", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing id, got %d", resp.StatusCode)
	}

	resp, payload = h.do(t, http.MethodPost, "/archive", map[string]string{})
	if resp.StatusCode != http.StatusBadRequest || payload["error"] != "signalId is required" {
		t.Fatalf("expected 400 for missing signalId, got %d %v", resp.StatusCode, payload)
	}
	resp, payload = h.do(t, http.MethodPost, "/archive", map[string]string{"signalId": sig.ID})
	if resp.StatusCode != http.StatusOK || payload["success"] != true {
		t.Fatalf("unexpected archive response %d %v", resp.StatusCode, payload)
	}
	if status := payload["signal"].(map[string]any)["status"]; status != "archived" {
		t.Fatalf("expected archived status, got %v", status)
	}

	_, payload = h.do(t, http.MethodGet, "/signals", nil)
	if payload["total"] != float64(0) {
		t.Fatalf("expected archived signal hidden, got %v", payload)
	}
	_, payload = h.do(t, http.MethodGet, "/archive", nil)
	if payload["total"] != float64(1) {
		t.Fatalf("expected one archived signal, got %v", payload)
	}
	resp, _ = h.do(t, http.MethodPost, "/archive", map[string]string{"signalId": "sig_missing"})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 archiving unknown id, got %d", resp.StatusCode)
	}
}

func TestRegenerateAndAnalyzeEndpoints(t *testing.T) {
	h := newAPIHarness(t, false)
	sig := testsupport.NewSignal(1, signals.SourceLinkedIn, fixedNow.Add(-time.Hour))
	testsupport.InsertSignals(t, h.store, sig)

	resp, payload := h.do(t, http.MethodPost, "/regenerate", map[string]string{"signalId": sig.ID, "angle": "formal"})
	if resp.StatusCode != http.StatusOK || payload["draftMessage"] != testsupport.DefaultRegenerate {
		t.Fatalf("unexpected regenerate response %d %v", resp.StatusCode, payload)
	}

	resp, payload = h.do(t, http.MethodPost, "/analyze", map[string]string{"signalId": sig.ID})
	if resp.StatusCode != http.StatusOK || payload["success"] != true {
		t.Fatalf("unexpected analyze response %d %v", resp.StatusCode, payload)
	}
	if temp := payload["signal"].(map[string]any)["temperature"]; temp != "High" {
		t.Fatalf("expected reanalysis temperature High, got %v", temp)
	}

	resp, _ = h.do(t, http.MethodPost, "/analyze", map[string]string{"signalId": "sig_missing"})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestSettingsEndpoints(t *testing.T) {
	h := newAPIHarness(t, false)
	resp, payload := h.do(t, http.MethodGet, "/settings", nil)
	if resp.StatusCode != http.StatusOK || len(payload) != 4 {
		t.Fatalf("expected four radars, got %d %v", resp.StatusCode, payload)
	}
	bormeBefore, _ := json.Marshal(payload["borme"])

	resp, payload = h.do(t, http.MethodPost, "/settings", map[string]any{
		"linkedin": map[string]any{"enabled": false, "keywords": []string{"venta"}},
	})
	if resp.StatusCode != http.StatusOK || payload["success"] != true {
		t.Fatalf("unexpected update response %d %v", resp.StatusCode, payload)
	}
	merged := payload["settings"].(map[string]any)
	if merged["linkedin"].(map[string]any)["enabled"] != false {
		t.Fatalf("expected linkedin disabled, got %v", merged["linkedin"])
	}
	bormeAfter, _ := json.Marshal(merged["borme"])
	if !bytes.Equal(bormeBefore, bormeAfter) {
		t.Fatalf("expected borme untouched:\n%s\n%s", bormeBefore, bormeAfter)
	}

	resp, _ = h.do(t, http.MethodPost, "/settings", map[string]any{"twitter": map[string]any{"enabled": true}})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown radar, got %d", resp.StatusCode)
	}
}

func TestStatsEndpoint(t *testing.T) {
	h := newAPIHarness(t, false)
	testsupport.InsertSignals(t, h.store, testsupport.NewSignal(1, signals.SourceBORME, fixedNow.Add(-time.Minute)))
	resp, payload := h.do(t, http.MethodGet, "/stats", nil)
	if resp.StatusCode != http.StatusOK || payload["totalLeads"] != float64(1) {
		t.Fatalf("unexpected stats %d %v", resp.StatusCode, payload)
	}
}

func TestStorageFailureReturns500WithDetails(t *testing.T) {
	h := newAPIHarness(t, false)
	h.store.Close()
	resp, payload := h.do(t, http.MethodGet, "/stats", nil)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	if payload["error"] != "Error fetching stats" || payload["details"] == "" || payload["details"] == nil {
		t.Fatalf("expected error and details, got %v", payload)
	}
}

func TestLoginAndTokenEnforcement(t *testing.T) {
	h := newAPIHarness(t, true)
	if _, err := h.service.EnsureUser(context.Background(), "ana@example.com", "s3cret"); err != nil {
		t.Fatalf("EnsureUser: %v", err)
	}

	resp, payload := h.do(t, http.MethodPost, "/auth/login", map[string]string{"email": "ana@example.com", "password": "nope"})
	if resp.StatusCode != http.StatusUnauthorized || payload["token"] != nil {
		t.Fatalf("expected 401 without token, got %d %v", resp.StatusCode, payload)
	}
	resp, _ = h.do(t, http.MethodPost, "/auth/login", map[string]string{"email": "ana@example.com"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing password, got %d", resp.StatusCode)
	}

	resp, payload = h.do(t, http.MethodPost, "/auth/login", map[string]string{"email": "ana@example.com", "password": "s3cret"})
	if resp.StatusCode != http.StatusOK || payload["success"] != true {
		t.Fatalf("expected login success, got %d %v", resp.StatusCode, payload)
	}
	token, _ := payload["token"].(string)
	segment, _, _ := strings.Cut(token, ".")
	decoded, err := base64.StdEncoding.DecodeString(segment)
	if err != nil {
		t.Fatalf("decode token: %v", err)
	}
	if !strings.HasPrefix(string(decoded), "ana@example.com:") {
		t.Fatalf("unexpected token payload %q", decoded)
	}
	user := payload["user"].(map[string]any)
	if user["email"] != "ana@example.com" || user["id"] == "" {
		t.Fatalf("unexpected user %v", user)
	}

	resp, _ = h.do(t, http.MethodGet, "/signals", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without bearer token, got %d", resp.StatusCode)
	}
	resp, _ = h.do(t, http.MethodGet, "/signals", nil, "Authorization", "Bearer "+token+"x")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for tampered token, got %d", resp.StatusCode)
	}
	resp, _ = h.do(t, http.MethodGet, "/signals", nil, "Authorization", "Bearer "+token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", resp.StatusCode)
	}
}

func TestCronReset(t *testing.T) {
	h := newAPIHarness(t, true)
	if err := h.store.IncrementScrapes(context.Background(), fixedNow, 3); err != nil {
		t.Fatalf("IncrementScrapes: %v", err)
	}

	resp, _ := h.do(t, http.MethodPost, "/cron/reset", nil, "Authorization", "Bearer wrong")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	resp, payload := h.do(t, http.MethodGet, "/cron/reset", nil, "Authorization", "Bearer test-cron-secret")
	if resp.StatusCode != http.StatusOK || payload["message"] != "Daily scrape counter reset to 0" {
		t.Fatalf("unexpected reset response %d %v", resp.StatusCode, payload)
	}
	count, err := h.store.ScrapesOn(context.Background(), fixedNow)
	if err != nil {
		t.Fatalf("ScrapesOn: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected counter reset, got %d", count)
	}
}
