package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestGuard_OpenWhenTokenEmpty verifies an empty token accepts every caller.
func TestGuard_OpenWhenTokenEmpty(t *testing.T) {
	g := New("  ")
	if g.Enabled() {
		t.Fatalf("expected guard disabled")
	}
	if !g.Check(httptest.NewRequest(http.MethodGet, "/api/state", nil)) {
		t.Fatalf("expected open access")
	}
}

// TestGuard_HeaderToken verifies the header token is checked.
func TestGuard_HeaderToken(t *testing.T) {
	g := New("s3cret")
	req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
	if g.Check(req) {
		t.Fatalf("expected missing token to fail")
	}
	req.Header.Set(HeaderToken, "wrong")
	if g.Check(req) {
		t.Fatalf("expected wrong token to fail")
	}
	req.Header.Set(HeaderToken, "s3cret")
	if !g.Check(req) {
		t.Fatalf("expected valid token to pass")
	}
	if g.Rejected() != 2 {
		t.Fatalf("expected 2 rejections, got %d", g.Rejected())
	}
}

// TestGuard_QueryToken verifies websocket upgrades may pass the token in the query.
func TestGuard_QueryToken(t *testing.T) {
	g := New("s3cret")
	if !g.Check(httptest.NewRequest(http.MethodGet, "/ws/control?token=s3cret", nil)) {
		t.Fatalf("expected query token to pass")
	}
}

// TestGuard_Require verifies the middleware answers 401 before reaching the handler.
func TestGuard_Require(t *testing.T) {
	g := New("s3cret")
	called := false
	h := g.Require(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	if rec.Code != http.StatusUnauthorized || called {
		t.Fatalf("expected 401 without calling handler, got %d called=%v", rec.Code, called)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
	req.Header.Set(HeaderToken, "s3cret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent || !called {
		t.Fatalf("expected handler to run, got %d", rec.Code)
	}
}

// TestGuard_SetToken verifies a rotated token takes effect immediately.
func TestGuard_SetToken(t *testing.T) {
	g := New("old")
	g.SetToken("new")
	if g.Authenticate("old") || !g.Authenticate("new") {
		t.Fatalf("expected only the new token to pass")
	}
	g.SetToken("")
	if g.Enabled() {
		t.Fatalf("expected guard disabled after clearing the token")
	}
}
