package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/parfold/parfold/internal/api/middleware"
)

// TestRequestID_HonoursValidInboundID: a caller-supplied UUID travels
// through to the context and the response header unchanged.
func TestRequestID_HonoursValidInboundID(t *testing.T) {
	const inbound = "0b8ffeaa-41c5-4f4e-9a27-3a1fb1a4d2f7"

	var seen string
	h := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = middleware.GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", inbound)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if seen != inbound {
		t.Fatalf("context request ID = %q, want %q", seen, inbound)
	}
	if got := rec.Header().Get("X-Request-ID"); got != inbound {
		t.Fatalf("response header = %q, want %q", got, inbound)
	}
}

// TestRequestID_ReplacesMalformedID: anything that is not a UUID is
// replaced with a freshly generated one rather than propagated.
func TestRequestID_ReplacesMalformedID(t *testing.T) {
	for _, inbound := range []string{"", "not-a-uuid", "../../etc/passwd"} {
		h := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if inbound != "" {
			req.Header.Set("X-Request-ID", inbound)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		got := rec.Header().Get("X-Request-ID")
		if got == inbound {
			t.Fatalf("malformed inbound ID %q was propagated", inbound)
		}
		if _, err := uuid.Parse(got); err != nil {
			t.Fatalf("replacement ID %q is not a UUID: %v", got, err)
		}
	}
}

// TestGetRequestID_WithoutMiddleware returns empty rather than panicking.
func TestGetRequestID_WithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := middleware.GetRequestID(req.Context()); got != "" {
		t.Fatalf("expected empty request ID, got %q", got)
	}
}
