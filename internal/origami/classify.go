package origami

import "strings"

// classifyRule pairs a pure predicate over the lower-cased error text with
// the message it resolves to. Rules are evaluated in fixed precedence
// order; the first match wins.
type classifyRule struct {
	matches func(text string) bool
	message string
}

// Precedence: server-side configuration problems first, then auth
// redirects, then generic markup pages. The matching is heuristic
// substring sniffing; a false match in ambiguous details is accepted in
// exchange for better default messaging.
var classifyRules = []classifyRule{
	{matches: containsAny("origami_api_key", "api key", "not configured"), message: msgMissingKey},
	{matches: containsAny("login", "sign in", "signin", "התחברות"), message: msgAuthRequired},
	{matches: containsAny("<html", "<!doctype", "html"), message: msgHTMLResponse},
}

// ClassifyError resolves a failure envelope into the user-facing message.
// Returns "" for envelopes that carry no error.
func ClassifyError(env Envelope) string {
	kind := env.ErrorKind()
	if kind == "" {
		return ""
	}

	// Kinds the forwarder already classified are final. KindHTMLResponse
	// in particular must not reach the substring rules: its own hint text
	// mentions the login page and would trip the auth rule.
	switch kind {
	case KindTimeout:
		return msgTimeout
	case KindProxyFatal:
		return msgTransport
	case KindHTMLResponse:
		return msgHTMLResponse
	}

	details := env.ErrorDetails()
	haystack := strings.ToLower(kind + " " + details)
	for _, rule := range classifyRules {
		if rule.matches(haystack) {
			return rule.message
		}
	}

	if details == "" {
		return kind
	}
	return kind + ": " + truncate(details, detailsPreviewLimit)
}

func containsAny(markers ...string) func(string) bool {
	return func(text string) bool {
		for _, marker := range markers {
			if strings.Contains(text, strings.ToLower(marker)) {
				return true
			}
		}
		return false
	}
}
