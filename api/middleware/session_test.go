package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestSessionMintsIDWhenAbsent(t *testing.T) {
	t.Parallel()

	var seen string
	handler := Session(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Fatal("expected a session id in context")
	}
	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("minted session id is not a uuid: %v", err)
	}
	if got := w.Header().Get(SessionHeader); got != seen {
		t.Fatalf("response header %q does not match context id %q", got, seen)
	}
}

func TestSessionEchoesProvidedID(t *testing.T) {
	t.Parallel()

	id := uuid.NewString()
	var seen string
	handler := Session(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(SessionHeader, id)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen != id {
		t.Fatalf("expected %q, got %q", id, seen)
	}
}

func TestSessionReplacesMalformedID(t *testing.T) {
	t.Parallel()

	var seen string
	handler := Session(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(SessionHeader, "not-a-uuid")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen == "not-a-uuid" {
		t.Fatal("malformed session id must be replaced")
	}
	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("replacement session id is not a uuid: %v", err)
	}
}
