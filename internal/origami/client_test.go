package origami

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lilachbitton/newcalander/internal/calendar"
)

func testConfig(baseURL string) calendar.Config {
	return calendar.Config{BaseURL: baseURL, CollectionID: "e_90", APIKey: "k"}
}

func TestFetchSlots_MapsRecords(t *testing.T) {
	t.Parallel()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items":[
			{"_id":"a","title":"פגישת ייעוץ","fld_1544":"2024-01-01T10:00:00","fld_1545":"2024-01-01T11:00:00"},
			{"_id":"broken","fld_1544":"nope","fld_1545":"2024-01-01T11:00:00"}
		]}`))
	}))
	defer backend.Close()

	client := NewClient(0, 0, nil)
	result := client.FetchSlots(context.Background(), testConfig(backend.URL))

	if result.Err != "" {
		t.Fatalf("unexpected error: %q", result.Err)
	}
	if len(result.Events) != 1 {
		t.Fatalf("events = %d, want 1 (malformed record dropped)", len(result.Events))
	}
	if result.Events[0].Title != "פגישת ייעוץ" {
		t.Fatalf("title = %q", result.Events[0].Title)
	}
}

func TestFetchSlots_AcceptsDataListKey(t *testing.T) {
	t.Parallel()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"_id":"a","fld_1544":"2024-01-01T10:00:00","fld_1545":"2024-01-01T11:00:00"}]}`))
	}))
	defer backend.Close()

	client := NewClient(0, 0, nil)
	result := client.FetchSlots(context.Background(), testConfig(backend.URL))

	if result.Err != "" || len(result.Events) != 1 {
		t.Fatalf("result = %d events, err %q", len(result.Events), result.Err)
	}
}

func TestFetchSlots_BackendMessageWithoutRecords(t *testing.T) {
	t.Parallel()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"message":"collection not found"}`))
	}))
	defer backend.Close()

	client := NewClient(0, 0, nil)
	result := client.FetchSlots(context.Background(), testConfig(backend.URL))

	if result.Err == "" {
		t.Fatalf("expected classified backend error")
	}
	if !strings.Contains(result.Err, "collection not found") {
		t.Fatalf("error %q missing backend message", result.Err)
	}
	if len(result.Events) != 0 {
		t.Fatalf("error result must not carry events, got %d", len(result.Events))
	}
}

func TestFetchSlots_EmptyRecordListIsNotAnError(t *testing.T) {
	t.Parallel()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items":[],"message":"ok"}`))
	}))
	defer backend.Close()

	client := NewClient(0, 0, nil)
	result := client.FetchSlots(context.Background(), testConfig(backend.URL))

	if result.Err != "" {
		t.Fatalf("unexpected error: %q", result.Err)
	}
	if len(result.Events) != 0 {
		t.Fatalf("expected no events, got %d", len(result.Events))
	}
}

func TestFetchSlots_ClassifiesHTMLResponse(t *testing.T) {
	t.Parallel()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><head><title>Login</title></head></html>"))
	}))
	defer backend.Close()

	client := NewClient(0, 0, nil)
	result := client.FetchSlots(context.Background(), testConfig(backend.URL))

	if result.Err != msgHTMLResponse {
		t.Fatalf("error = %q, want markup-page message", result.Err)
	}
}
