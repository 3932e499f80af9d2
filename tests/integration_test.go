package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"testing"
	"time"
)

////////////////////////////////////////////////////////////////////////////////
// INTEGRATION TEST SUITE
//
// These tests validate the service end-to-end:
//
//   Client → HTTP API → Fingerprint/Match core → Storage → Response
//
// The service must already be running (for example via docker compose), and
// the suite only runs when INTEGRATION=1 is set.
//
// Optional environment overrides:
//
//   BASE_URL    default http://localhost:8080
//
////////////////////////////////////////////////////////////////////////////////

func baseURL() string {
	if v := os.Getenv("BASE_URL"); v != "" {
		return v
	}
	return "http://localhost:8080"
}

// requireService skips the suite unless an instance is expected to be up.
func requireService(t *testing.T) {
	t.Helper()
	if os.Getenv("INTEGRATION") == "" {
		t.Skip("set INTEGRATION=1 to run against a live service")
	}
	waitReady(t)
}

// unique generates a unique string so tests never collide with previous runs.
func unique(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// waitReady polls /ready until storage + server are ready. Prevents flaky
// failures when containers are still booting.
func waitReady(t *testing.T) {
	t.Helper()

	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(30 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(baseURL() + "/ready")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(300 * time.Millisecond)
	}

	t.Fatalf("service not ready after 30s")
}

////////////////////////////////////////////////////////////////////////////////
// GENERIC HTTP HELPERS
////////////////////////////////////////////////////////////////////////////////

// httpGet performs a GET request against the service.
func httpGet(t *testing.T, path string) (int, []byte) {
	t.Helper()

	resp, err := (&http.Client{Timeout: 5 * time.Second}).Get(baseURL() + path)
	if err != nil {
		t.Fatalf("GET %s failed: %v", path, err)
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b
}

// postJSON performs a POST with a JSON body and optional extra headers.
func postJSON(t *testing.T, path string, payload any, headers map[string]string) (int, []byte) {
	t.Helper()

	b, _ := json.Marshal(payload)

	req, _ := http.NewRequest("POST", baseURL()+path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := (&http.Client{Timeout: 5 * time.Second}).Do(req)
	if err != nil {
		t.Fatalf("POST %s failed: %v", path, err)
	}
	defer resp.Body.Close()

	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out
}

// capture posts one snapshot and returns its fingerprint.
func capture(t *testing.T, body any, headers map[string]string) string {
	t.Helper()

	s, out := postJSON(t, "/problems", body, headers)
	if s != http.StatusOK {
		t.Fatalf("capture expected 200 got %d: %s", s, out)
	}

	var r struct {
		Hash string `json:"hash"`
	}
	if err := json.Unmarshal(out, &r); err != nil || r.Hash == "" {
		t.Fatalf("capture returned no hash: %s", out)
	}
	return r.Hash
}

// find posts a term set and returns the result list.
func find(t *testing.T, terms map[string]any) []map[string]any {
	t.Helper()

	s, out := postJSON(t, "/find", terms, nil)
	if s != http.StatusOK {
		t.Fatalf("find expected 200 got %d: %s", s, out)
	}

	var r struct {
		Results []map[string]any `json:"results"`
	}
	if err := json.Unmarshal(out, &r); err != nil {
		t.Fatalf("invalid find JSON: %v", err)
	}
	return r.Results
}

////////////////////////////////////////////////////////////////////////////////
// HEALTH & READINESS TESTS
////////////////////////////////////////////////////////////////////////////////

// Health endpoint = liveness check (server process running).
func TestHealth_ReturnsOK(t *testing.T) {
	requireService(t)

	s, _ := httpGet(t, "/health")
	if s != http.StatusOK {
		t.Fatalf("health expected 200 got %d", s)
	}
}

////////////////////////////////////////////////////////////////////////////////
// CORE SYSTEM BEHAVIOR TESTS
////////////////////////////////////////////////////////////////////////////////

// Content-equal submissions with different key order must fingerprint
// identically.
func TestCapture_HashIgnoresKeyOrder(t *testing.T) {
	requireService(t)

	marker := unique("order")

	h1 := capture(t, map[string]any{"marker": marker, "hello": "world", "z": "6.456"}, nil)
	h2 := capture(t, map[string]any{"z": "6.456", "hello": "world", "marker": marker}, nil)

	if h1 != h2 {
		t.Fatalf("key order changed the hash: %s vs %s", h1, h2)
	}
}

// A captured snapshot is retrievable by its fingerprint, with lowercased
// header keys and intact values.
func TestLookup_RoundTrip(t *testing.T) {
	requireService(t)

	marker := unique("lookup")
	hash := capture(t, map[string]any{"data": marker}, map[string]string{"X-Test-Header": "TestValue"})

	s, out := httpGet(t, "/find2?h="+url.QueryEscape(hash))
	if s != http.StatusOK {
		t.Fatalf("find2 expected 200 got %d", s)
	}

	var r struct {
		Results []struct {
			ID      int64             `json:"id"`
			Headers map[string]any    `json:"headers"`
			Body    map[string]string `json:"body"`
			Hash    string            `json:"hash"`
		} `json:"results"`
	}
	if err := json.Unmarshal(out, &r); err != nil {
		t.Fatalf("invalid find2 JSON: %v", err)
	}
	if len(r.Results) == 0 {
		t.Fatal("captured incident not found by hash")
	}

	got := r.Results[len(r.Results)-1]
	if got.Hash != hash {
		t.Fatalf("hash mismatch: %s vs %s", got.Hash, hash)
	}
	if got.Body["data"] != marker {
		t.Fatalf("body not preserved: %v", got.Body)
	}
	if v, ok := got.Headers["x-test-header"]; !ok || v != "TestValue" {
		t.Fatalf("header not lowercased/preserved: %v", got.Headers)
	}
}

// Missing hash parameter is a client error, not an empty success.
func TestLookup_RequiresParameter(t *testing.T) {
	requireService(t)

	s, _ := httpGet(t, "/find2")
	if s != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", s)
	}
	s, _ = httpGet(t, "/find2?h=")
	if s != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", s)
	}
}

// Empty term sets match nothing.
func TestFind_EmptyTerms(t *testing.T) {
	requireService(t)

	if results := find(t, map[string]any{}); len(results) != 0 {
		t.Fatalf("empty terms returned %d results", len(results))
	}
}

// Two-term OR query across headers and bodies returns each incident that
// satisfies either term.
func TestFind_OrSemantics(t *testing.T) {
	requireService(t)

	idA := unique("abc")
	idB := unique("def")

	capture(t, map[string]any{"id": idA, "value": 100}, map[string]string{"X-Find-Test": "1"})
	capture(t, map[string]any{"other_value": unique("ov")}, map[string]string{"Id": idB})

	results := find(t, map[string]any{"id": idA})
	if len(results) != 1 {
		t.Fatalf("body-key search expected 1 result, got %d", len(results))
	}

	results = find(t, map[string]any{"id": idB})
	if len(results) != 1 {
		t.Fatalf("header-key search expected 1 result, got %d", len(results))
	}

	results = find(t, map[string]any{"id": idA, "other_value": "no-such"})
	if len(results) != 1 {
		t.Fatalf("OR search expected 1 result, got %d", len(results))
	}

	if results := find(t, map[string]any{unique("nokey"): "value"}); len(results) != 0 {
		t.Fatalf("unknown key returned %d results", len(results))
	}
}
