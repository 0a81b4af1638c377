package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lilachbitton/newcalander/internal/calendar"
	"github.com/lilachbitton/newcalander/internal/config"
	"github.com/lilachbitton/newcalander/internal/controller"
)

func newTestServer(cfg config.Runtime) *Server {
	fetch := func(context.Context, calendar.Config) calendar.FetchResult {
		return calendar.FetchResult{}
	}
	ctrl := controller.New(fetch, cfg.Connection(), controller.Options{})
	return New(cfg, ctrl, nil)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var env map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, rec.Body.String())
	}
	return env
}

func TestHandleProxy_OptionsPreflight(t *testing.T) {
	t.Parallel()

	srv := newTestServer(config.Runtime{})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/proxy", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow origin = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, "POST") {
		t.Fatalf("allow methods = %q", got)
	}
}

func TestHandleProxy_RejectsNonPost(t *testing.T) {
	t.Parallel()

	srv := newTestServer(config.Runtime{})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/proxy", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestHandleProxy_MissingTargetEnvelope(t *testing.T) {
	t.Parallel()

	srv := newTestServer(config.Runtime{APIKey: "k"})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/proxy", strings.NewReader(`{}`)))

	// Classified failures still travel as transport-success envelopes.
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env["error"] == nil || env["error"] == "" {
		t.Fatalf("expected error envelope, got %v", env)
	}
}

func TestHandleProxy_MissingCredentialEnvelope(t *testing.T) {
	t.Parallel()

	srv := newTestServer(config.Runtime{BaseURL: "https://acme.origami.ms/api/v1", CollectionID: "e_90"})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/proxy", strings.NewReader(`{}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env["error"] != "Server Misconfiguration" {
		t.Fatalf("error = %v, want Server Misconfiguration", env["error"])
	}
	if details, _ := env["details"].(string); !strings.Contains(details, "ORIGAMI_API_KEY") {
		t.Fatalf("details = %v, want key hint", env["details"])
	}
}

func TestHandleProxy_ForwardsAndWrapsHTML(t *testing.T) {
	t.Parallel()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body>login page</body></html>"))
	}))
	defer backend.Close()

	srv := newTestServer(config.Runtime{BaseURL: backend.URL, CollectionID: "e_90", APIKey: "k"})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/proxy", strings.NewReader(`{}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (classification lives in the envelope)", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env["error"] != "HTML Response" {
		t.Fatalf("error = %v, want HTML Response", env["error"])
	}
	if details, _ := env["details"].(string); details == "" {
		t.Fatalf("expected guidance hint in details")
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("missing CORS header on POST response")
	}
}

func TestHandleProxy_PerCallOverridesAndFilters(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotBody map[string]any
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer backend.Close()

	srv := newTestServer(config.Runtime{BaseURL: "https://ignored.example", CollectionID: "ignored", APIKey: "k"})
	body := `{"baseUrl":"` + backend.URL + `","collectionId":"e_77","status":"open"}`
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/proxy", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if gotPath != "/space/e_77/search" {
		t.Fatalf("backend path = %q, want per-call collection", gotPath)
	}
	if gotBody["status"] != "open" {
		t.Fatalf("filter params not forwarded: %v", gotBody)
	}
	if _, hasBase := gotBody["baseUrl"]; hasBase {
		t.Fatalf("routing keys must not leak into the filter payload")
	}
}

func TestHandleProxy_StripsNonStringRoutingKeys(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotBody map[string]any
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer backend.Close()

	srv := newTestServer(config.Runtime{BaseURL: backend.URL, CollectionID: "e_90", APIKey: "k"})
	// Routing keys of the wrong type fall back to the configured target
	// but still never reach the forwarded filters.
	body := `{"baseUrl":123,"collectionId":null,"status":"open"}`
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/proxy", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if gotPath != "/space/e_90/search" {
		t.Fatalf("backend path = %q, want configured collection", gotPath)
	}
	if gotBody["status"] != "open" {
		t.Fatalf("filter params not forwarded: %v", gotBody)
	}
	if _, has := gotBody["baseUrl"]; has {
		t.Fatalf("non-string baseUrl leaked into the filter payload")
	}
	if _, has := gotBody["collectionId"]; has {
		t.Fatalf("non-string collectionId leaked into the filter payload")
	}
}
