package origami

import (
	"strings"
	"testing"
)

func TestClassifyError_PrecedenceOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		env  Envelope
		want string
	}{
		{
			name: "no_error",
			env:  Envelope{"items": []any{}},
			want: "",
		},
		{
			name: "missing_key_before_anything",
			env:  ErrorEnvelope(KindMisconfigured, "ORIGAMI_API_KEY is not configured"),
			want: msgMissingKey,
		},
		{
			// Auth marker wins even when an HTML marker appears later
			// in the same details string.
			name: "login_beats_html_marker",
			env:  ErrorEnvelope("Backend Error (302)", "redirected to LOGIN page: <html><body>...</body></html>"),
			want: msgAuthRequired,
		},
		{
			// The HTML hint itself mentions the login page; the kind must
			// be honored before the auth substring rule can see it.
			name: "html_page",
			env:  ErrorEnvelope(KindHTMLResponse, msgHTMLResponse),
			want: msgHTMLResponse,
		},
		{
			name: "html_kind_wins_even_with_login_details",
			env:  ErrorEnvelope(KindHTMLResponse, "<html><title>נדרשת התחברות</title></html>"),
			want: msgHTMLResponse,
		},
		{
			name: "timeout_is_distinct",
			env:  ErrorEnvelope(KindTimeout, "context deadline exceeded"),
			want: msgTimeout,
		},
		{
			name: "transport_failure",
			env:  ErrorEnvelope(KindProxyFatal, "dial tcp: no such host"),
			want: msgTransport,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ClassifyError(tc.env); got != tc.want {
				t.Fatalf("ClassifyError() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestClassifyError_GenericFallbackTruncates(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", detailsPreviewLimit+50)
	got := ClassifyError(ErrorEnvelope("Backend Error (500)", long))

	if !strings.HasPrefix(got, "Backend Error (500): ") {
		t.Fatalf("fallback message missing error prefix: %q", got)
	}
	if len([]rune(got)) > len("Backend Error (500): ")+detailsPreviewLimit+1 {
		t.Fatalf("details preview not truncated, length %d", len([]rune(got)))
	}
}

func TestClassifyError_KindOnlyWhenNoDetails(t *testing.T) {
	t.Parallel()

	if got := ClassifyError(Envelope{"error": "Backend Error (503)"}); got != "Backend Error (503)" {
		t.Fatalf("got %q, want bare kind", got)
	}
}
