package gate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"smartcopro-dashboard/internal/session"
)

type fakeFinder struct {
	sessions map[string]session.Session
}

func (f *fakeFinder) Find(_ context.Context, id string) (session.Session, error) {
	sess, ok := f.sessions[id]
	if !ok {
		return session.Session{}, session.ErrNotFound
	}
	return sess, nil
}

func newCodec(t *testing.T) *CookieCodec {
	t.Helper()
	codec, err := NewCookieCodec("copro_session", []byte("test-secret"))
	if err != nil {
		t.Fatalf("NewCookieCodec: %v", err)
	}
	return codec
}

func issueCookie(t *testing.T, codec *CookieCodec, sessionID string) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := codec.Issue(rec, sessionID, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Issue: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}
	return cookies[0]
}

func TestCookieCodecRoundTrip(t *testing.T) {
	codec := newCodec(t)
	cookie := issueCookie(t, codec, "sess-1")

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookie)

	id, err := codec.SessionID(req)
	if err != nil {
		t.Fatalf("SessionID: %v", err)
	}
	if id != "sess-1" {
		t.Fatalf("id = %q", id)
	}
}

func TestCookieCodecRejectsForgedSignature(t *testing.T) {
	codec := newCodec(t)
	other, err := NewCookieCodec("copro_session", []byte("other-secret"))
	if err != nil {
		t.Fatalf("NewCookieCodec: %v", err)
	}
	cookie := issueCookie(t, other, "sess-1")

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookie)
	if _, err := codec.SessionID(req); err == nil {
		t.Fatal("expected forged cookie to be rejected")
	}
}

func newGate(t *testing.T, finder *fakeFinder) (*Middleware, *CookieCodec) {
	t.Helper()
	codec := newCodec(t)
	policy := NewDefaultPolicy([]string{"/login", "/healthz"}, nil)
	middleware, err := NewMiddleware(codec, finder, policy, nil)
	if err != nil {
		t.Fatalf("NewMiddleware: %v", err)
	}
	return middleware, codec
}

func TestGateExemptPathSkipsSession(t *testing.T) {
	middleware, _ := newGate(t, &fakeFinder{})
	called := false
	handler := middleware.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	if !called {
		t.Fatal("exempt path did not reach handler")
	}
}

func TestGateRedirectsAnonymousToLogin(t *testing.T) {
	middleware, _ := newGate(t, &fakeFinder{})
	handler := middleware.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != LoginPath {
		t.Fatalf("location = %q", loc)
	}
}

func TestGateRedirectsStaleSessionToLogin(t *testing.T) {
	middleware, codec := newGate(t, &fakeFinder{sessions: map[string]session.Session{}})
	handler := middleware.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(issueCookie(t, codec, "gone"))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != LoginPath {
		t.Fatalf("location = %q", loc)
	}
	// The dangling cookie is dropped on the way out.
	found := false
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "copro_session" && cookie.MaxAge < 0 {
			found = true
		}
	}
	if !found {
		t.Fatal("stale cookie was not cleared")
	}
}

func TestGateRedirectsWrongRoleToDashboard(t *testing.T) {
	finder := &fakeFinder{sessions: map[string]session.Session{
		"s1": {ID: "s1", Role: session.RoleResident},
	}}
	middleware, codec := newGate(t, finder)
	handler := middleware.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/syndic/claims", nil)
	req.AddCookie(issueCookie(t, codec, "s1"))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != DashboardPath {
		t.Fatalf("location = %q", loc)
	}
}

func TestGatePassesMatchingRoleWithSessionInContext(t *testing.T) {
	finder := &fakeFinder{sessions: map[string]session.Session{
		"s1": {ID: "s1", Token: "tok", Role: session.RoleManager},
	}}
	middleware, codec := newGate(t, finder)

	var gotToken string
	handler := middleware.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = TokenFrom(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/syndic/claims", nil)
	req.AddCookie(issueCookie(t, codec, "s1"))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if gotToken != "tok" {
		t.Fatalf("token from context = %q", gotToken)
	}
}

func TestPolicyRequiredRoles(t *testing.T) {
	policy := NewDefaultPolicy(nil, nil)
	cases := []struct {
		path string
		want []session.Role
	}{
		{"/syndic/claims", []session.Role{session.RoleManager}},
		{"/resident/claims", []session.Role{session.RoleResident}},
		{"/technicien/planning", []session.Role{session.RoleTechnician}},
		{"/dashboard", nil},
		{"/profile", nil},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		got := policy.RequiredRoles(req)
		if len(got) != len(tc.want) {
			t.Errorf("%s: roles = %v, want %v", tc.path, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("%s: roles = %v, want %v", tc.path, got, tc.want)
			}
		}
	}
}
