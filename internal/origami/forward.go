package origami

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	// PageLimit bounds every search to a single fetch; the backend is
	// assumed to hold fewer records than this, so no pagination is done.
	PageLimit = 1000

	// DefaultTimeout bounds the outbound round trip.
	DefaultTimeout = 15 * time.Second

	detailsPreviewLimit = 200
)

// ForwardRequest describes one outbound search call. The credential is
// injected server-side and never transits the calling client.
type ForwardRequest struct {
	BaseURL      string
	CollectionID string
	APIKey       string
	Filters      map[string]any
	Limit        int
	Timeout      time.Duration
}

// SearchURL composes the backend search endpoint, stripping any trailing
// slash from the base location first.
func SearchURL(baseURL, collectionID string) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	return fmt.Sprintf("%s/space/%s/search", base, strings.TrimSpace(collectionID))
}

// Forward issues the outbound search call and normalizes every outcome
// into an envelope. Transport and parse failures never escape as errors;
// the classification lives in the envelope itself.
func Forward(ctx context.Context, req ForwardRequest) Envelope {
	limit := req.Limit
	if limit <= 0 || limit > PageLimit {
		limit = PageLimit
	}
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	payload := make(map[string]any, len(req.Filters)+1)
	for key, value := range req.Filters {
		payload[key] = value
	}
	payload["limit"] = limit

	body, err := json.Marshal(payload)
	if err != nil {
		return ErrorEnvelope(KindProxyFatal, fmt.Sprintf("marshal search payload: %s", err))
	}

	target := SearchURL(req.BaseURL, req.CollectionID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return ErrorEnvelope(KindProxyFatal, fmt.Sprintf("create search request: %s", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+req.APIKey)

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return ErrorEnvelope(KindTimeout, err.Error())
		}
		return ErrorEnvelope(KindProxyFatal, err.Error())
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return ErrorEnvelope(KindTimeout, err.Error())
		}
		return ErrorEnvelope(KindProxyFatal, fmt.Sprintf("read response: %s", err))
	}

	text := string(raw)

	var parsed Envelope
	if err := json.Unmarshal(raw, &parsed); err != nil {
		// A login or 404 page never parses as JSON; sniff for it before
		// falling back to the generic parse-failure classification.
		if looksLikeHTML(text) {
			return ErrorEnvelope(KindHTMLResponse, msgHTMLResponse)
		}
		return ErrorEnvelope(KindInvalidBody, truncate(strings.TrimSpace(text), detailsPreviewLimit))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		details := parsed.BackendMessage()
		if details == "" {
			details = truncate(strings.TrimSpace(text), detailsPreviewLimit)
		}
		return ErrorEnvelope(fmt.Sprintf("Backend Error (%d)", resp.StatusCode), details)
	}

	return parsed
}

func looksLikeHTML(body string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(body))
	return strings.HasPrefix(trimmed, "<html") || strings.HasPrefix(trimmed, "<!doctype")
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return os.IsTimeout(err)
}

func truncate(value string, limit int) string {
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit]) + "…"
}
