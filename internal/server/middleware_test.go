package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func newSessionHandler(captured *string) http.Handler {
	s := &Server{}
	return s.sessionCookie(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = sessionID(r)
		w.WriteHeader(http.StatusOK)
	}))
}

func TestSessionCookie_assignsNewSession(t *testing.T) {
	var got string
	h := newSessionHandler(&got)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if _, err := uuid.Parse(got); err != nil {
		t.Fatalf("session id %q is not a uuid: %v", got, err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != sessionCookieName || cookies[0].Value != got {
		t.Errorf("cookies=%+v", cookies)
	}
	if !cookies[0].HttpOnly {
		t.Error("session cookie must be http-only")
	}
}

func TestSessionCookie_keepsExistingSession(t *testing.T) {
	var got string
	h := newSessionHandler(&got)

	id := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: id})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got != id {
		t.Errorf("session=%q want %q", got, id)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("existing session must not be reissued")
	}
}

func TestSessionCookie_replacesInvalidCookie(t *testing.T) {
	var got string
	h := newSessionHandler(&got)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "not-a-uuid"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if _, err := uuid.Parse(got); err != nil {
		t.Fatalf("session id %q is not a uuid: %v", got, err)
	}
	if got == "not-a-uuid" {
		t.Error("invalid cookie value must be replaced")
	}
}
