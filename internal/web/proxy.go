package web

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/lilachbitton/newcalander/internal/origami"
)

// proxyBodyLimit caps the inbound request body.
const proxyBodyLimit = 1 << 20

// handleProxy forwards an authenticated search request to the backend.
// The credential never transits the client: it is injected here from the
// server configuration. Every outcome other than a bad method returns
// transport status 200 with a classified envelope, so callers have a
// single decoding path.
func (s *Server) handleProxy(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodPost:
	default:
		writeJSON(w, http.StatusMethodNotAllowed, origami.ErrorEnvelope(origami.KindMethodNotAllow, r.Method))
		return
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, proxyBodyLimit))
	if err != nil {
		writeJSON(w, http.StatusOK, origami.ErrorEnvelope(origami.KindInvalidBody, "read request body: "+err.Error()))
		return
	}

	params := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &params); err != nil {
			writeJSON(w, http.StatusOK, origami.ErrorEnvelope(origami.KindInvalidBody, "request body is not valid JSON"))
			return
		}
	}

	// Explicit per-call values override the configured defaults.
	baseURL := popString(params, "baseUrl")
	if baseURL == "" {
		baseURL = s.cfg.BaseURL
	}
	collectionID := popString(params, "collectionId")
	if collectionID == "" {
		collectionID = s.cfg.CollectionID
	}

	if strings.TrimSpace(baseURL) == "" || strings.TrimSpace(collectionID) == "" {
		writeJSON(w, http.StatusOK, origami.ErrorEnvelope(origami.KindMissingTarget,
			"baseUrl and collectionId are required, either per call or via server configuration"))
		return
	}

	if strings.TrimSpace(s.cfg.APIKey) == "" {
		writeJSON(w, http.StatusOK, origami.ErrorEnvelope(origami.KindMisconfigured,
			"ORIGAMI_API_KEY is not configured on the proxy"))
		return
	}

	s.logger.Info("proxying search", "target", origami.SearchURL(baseURL, collectionID))

	env := origami.Forward(r.Context(), origami.ForwardRequest{
		BaseURL:      baseURL,
		CollectionID: collectionID,
		APIKey:       s.cfg.APIKey,
		Filters:      params,
		Limit:        s.cfg.PageLimit,
		Timeout:      s.cfg.Timeout,
	})

	writeJSON(w, http.StatusOK, env)
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}

// popString removes a routing key from the filter payload and returns its
// value. Non-string values are still removed so they never reach the
// forwarded filters.
func popString(params map[string]any, key string) string {
	value, present := params[key]
	if !present {
		return ""
	}
	delete(params, key)
	if text, ok := value.(string); ok {
		return strings.TrimSpace(text)
	}
	return ""
}
