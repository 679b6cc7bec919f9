package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		wantEcho bool
	}{
		{name: "generated", header: ""},
		{name: "client supplied", header: "abc-123", wantEcho: true},
		{name: "oversized", header: strings.Repeat("x", 200)},
		{name: "control characters", header: "abc\x01def"},
		{name: "spaces", header: "abc def"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			var seen string
			handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = GetRequestID(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, "/api/v1/calendar", nil)
			if tc.header != "" {
				req.Header.Set("X-Request-ID", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			got := rec.Header().Get("X-Request-ID")
			if got != seen {
				t.Fatalf("header %q and context %q differ", got, seen)
			}
			if tc.wantEcho && got != tc.header {
				t.Fatalf("expected client id to be echoed, got %q", got)
			}
			if !tc.wantEcho && len(got) != 36 {
				t.Fatalf("expected a generated uuid, got %q", got)
			}
		})
	}
}
