package web_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"smartcopro-dashboard/internal/audit"
	"smartcopro-dashboard/internal/gate"
	"smartcopro-dashboard/internal/session"
	"smartcopro-dashboard/internal/session/infrastructure/memory"
	"smartcopro-dashboard/internal/upstream"
	"smartcopro-dashboard/internal/web"
)

// fakeBackend is a stateful stand-in for the condominium API: token login,
// zones, meters, thresholds and readings with threshold evaluation on
// entry.
type fakeBackend struct {
	mu         sync.Mutex
	nextID     int
	zones      map[int]map[string]any
	meters     map[int]map[string]any
	thresholds map[string]float64
	claims     []map[string]any
	rejectAll  bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		nextID:     1,
		zones:      make(map[int]map[string]any),
		meters:     make(map[int]map[string]any),
		thresholds: make(map[string]float64),
	}
}

func (f *fakeBackend) id() int {
	id := f.nextID
	f.nextID++
	return id
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.URL.Path == "/api/users/auth/token/" {
		var creds struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != "good" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{"non_field_errors": []string{"Unable to log in"}})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok-" + creds.Username})
		return
	}

	// Everything past login requires the token header; rejectAll simulates
	// a token revoked server-side.
	if f.rejectAll || !strings.HasPrefix(r.Header.Get("Authorization"), "Token ") {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid token."})
		return
	}

	switch {
	case r.URL.Path == "/api/consumption/parties-communes/" && r.Method == http.MethodPost:
		var zone map[string]any
		_ = json.NewDecoder(r.Body).Decode(&zone)
		zone["id"] = f.id()
		f.zones[zone["id"].(int)] = zone
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(zone)
	case r.URL.Path == "/api/consumption/parties-communes/" && r.Method == http.MethodGet:
		list := make([]map[string]any, 0, len(f.zones))
		for _, zone := range f.zones {
			list = append(list, zone)
		}
		_ = json.NewEncoder(w).Encode(list)
	case strings.HasPrefix(r.URL.Path, "/api/consumption/parties-communes/") && r.Method == http.MethodDelete:
		idPart := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/consumption/parties-communes/"), "/")
		id, err := strconv.Atoi(idPart)
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if _, ok := f.zones[id]; !ok {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Not found."})
			return
		}
		delete(f.zones, id)
		w.WriteHeader(http.StatusNoContent)
	case r.URL.Path == "/api/consumption/compteurs/" && r.Method == http.MethodPost:
		var meter map[string]any
		_ = json.NewDecoder(r.Body).Decode(&meter)
		meter["id"] = f.id()
		f.meters[meter["id"].(int)] = meter
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(meter)
	case r.URL.Path == "/api/consumption/compteurs/" && r.Method == http.MethodGet:
		list := make([]map[string]any, 0, len(f.meters))
		for _, meter := range f.meters {
			list = append(list, meter)
		}
		_ = json.NewEncoder(w).Encode(list)
	case r.URL.Path == "/api/alerts/seuils/" && r.Method == http.MethodPost:
		var rule struct {
			AlertType      string  `json:"type_alerte"`
			ThresholdValue float64 `json:"valeur_seuil"`
			MeterReference string  `json:"compteur_reference"`
		}
		_ = json.NewDecoder(r.Body).Decode(&rule)
		f.thresholds[rule.MeterReference] = rule.ThresholdValue
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": f.id(), "type_alerte": rule.AlertType,
			"valeur_seuil": rule.ThresholdValue, "compteur_reference": rule.MeterReference,
		})
	case r.URL.Path == "/api/alerts/liste/" && r.Method == http.MethodGet:
		_ = json.NewEncoder(w).Encode([]map[string]any{})
	case r.URL.Path == "/api/consumption/releves/saisie/" && r.Method == http.MethodPost:
		var entry struct {
			MeterReference string  `json:"compteur_reference"`
			Value          float64 `json:"valeur"`
		}
		_ = json.NewDecoder(r.Body).Decode(&entry)
		threshold, known := f.thresholds[entry.MeterReference]
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message":        "recorded",
			"id":             f.id(),
			"alerte_generee": known && entry.Value > threshold,
		})
	case r.URL.Path == "/api/claims/traitement/reclamations/" && r.Method == http.MethodGet:
		if f.claims == nil {
			f.claims = []map[string]any{}
		}
		_ = json.NewEncoder(w).Encode(f.claims)
	case r.URL.Path == "/api/reports/rapports/generer/" && r.Method == http.MethodPost:
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "ok", "rapport_id": 77,
			"preview_stats": map[string]float64{"total_eau": 12.5},
		})
	case r.URL.Path == "/api/reports/rapports/telecharger/77/" && r.Method == http.MethodGet:
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 report"))
	case r.URL.Path == "/api/reports/dashboard/" && r.Method == http.MethodGet:
		_ = json.NewEncoder(w).Encode(map[string]any{
			"infrastructure": map[string]any{"parties_communes": len(f.zones), "total_compteurs": len(f.meters)},
			"communaute":     map[string]any{"habitants": 10, "staff_technique": 2},
			"maintenance":    map[string]any{"alertes_ouvertes": 0, "interventions_en_cours": 0, "taux_resolution": 100},
		})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type env struct {
	backend *fakeBackend
	gateway *httptest.Server
	client  *http.Client
}

func newEnv(t *testing.T) *env {
	t.Helper()

	backend := newFakeBackend()
	backendServer := httptest.NewServer(backend)
	t.Cleanup(backendServer.Close)

	client, err := upstream.NewClient(backendServer.URL, upstream.TokenFunc(gate.TokenFrom))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	sessions, err := session.NewManager(client, memory.NewStore(), time.Hour, nil)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	cookies, err := gate.NewCookieCodec("copro_session", []byte("test-secret"))
	if err != nil {
		t.Fatalf("NewCookieCodec: %v", err)
	}
	policy := gate.NewDefaultPolicy([]string{"/login", "/healthz"}, nil)
	middleware, err := gate.NewMiddleware(cookies, sessions, policy, nil)
	if err != nil {
		t.Fatalf("NewMiddleware: %v", err)
	}
	server, err := web.NewServer(client, sessions, cookies, audit.Nop{}, nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	mux := http.NewServeMux()
	server.Register(mux)
	gateway := httptest.NewServer(middleware.Wrap(mux))
	t.Cleanup(gateway.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &env{
		backend: backend,
		gateway: gateway,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

type toastEnvelope struct {
	Data  json.RawMessage `json:"data"`
	Toast *struct {
		Level   string `json:"level"`
		Message string `json:"message"`
	} `json:"toast"`
}

func (e *env) do(t *testing.T, method, path string, body any) (*http.Response, toastEnvelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, e.gateway.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var envelope toastEnvelope
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
	}
	return resp, envelope
}

func (e *env) login(t *testing.T, username string) {
	t.Helper()
	resp, envelope := e.do(t, http.MethodPost, "/login", map[string]string{
		"username": username,
		"password": "good",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	if envelope.Toast == nil || envelope.Toast.Level != "success" {
		t.Fatalf("login toast = %+v", envelope.Toast)
	}
}

func TestLoginSetsCookieAndRoleHome(t *testing.T) {
	e := newEnv(t)

	resp, envelope := e.do(t, http.MethodPost, "/login", map[string]string{
		"username": "syndic.principal",
		"password": "good",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var data struct {
		Role     string `json:"role"`
		HomePath string `json:"home_path"`
	}
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Role != "MANAGER" || data.HomePath != "/dashboard" {
		t.Fatalf("data = %+v", data)
	}

	// The session cookie must now open gated routes.
	resp, _ = e.do(t, http.MethodGet, "/dashboard", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dashboard after login = %d", resp.StatusCode)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	e := newEnv(t)

	resp, envelope := e.do(t, http.MethodPost, "/login", map[string]string{
		"username": "syndic.principal",
		"password": "wrong",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if envelope.Toast == nil || envelope.Toast.Level != "error" {
		t.Fatalf("toast = %+v", envelope.Toast)
	}
}

func TestAnonymousIsRedirectedToLogin(t *testing.T) {
	e := newEnv(t)

	resp, _ := e.do(t, http.MethodGet, "/syndic/claims", nil)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/login" {
		t.Fatalf("location = %q", loc)
	}
}

func TestResidentCannotReachManagerScreens(t *testing.T) {
	e := newEnv(t)
	e.login(t, "resident42")

	resp, _ := e.do(t, http.MethodGet, "/syndic/claims", nil)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/dashboard" {
		t.Fatalf("location = %q", loc)
	}
}

func TestUpstream401ClearsSessionAndRedirects(t *testing.T) {
	e := newEnv(t)
	e.login(t, "syndic.principal")

	// Token revoked server-side: the next screen load must evict the
	// session and land on the login screen.
	e.backend.mu.Lock()
	e.backend.rejectAll = true
	e.backend.mu.Unlock()

	resp, _ := e.do(t, http.MethodGet, "/syndic/claims", nil)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/login" {
		t.Fatalf("location = %q", loc)
	}

	// The session is gone, so even with a healthy backend the old cookie
	// no longer opens anything.
	e.backend.mu.Lock()
	e.backend.rejectAll = false
	e.backend.mu.Unlock()

	resp, _ = e.do(t, http.MethodGet, "/dashboard", nil)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status after eviction = %d, want 303", resp.StatusCode)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	e := newEnv(t)
	e.login(t, "syndic.principal")

	resp, _ := e.do(t, http.MethodPost, "/logout", nil)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("logout status = %d", resp.StatusCode)
	}

	resp, _ = e.do(t, http.MethodGet, "/dashboard", nil)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("dashboard after logout = %d, want 303", resp.StatusCode)
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	e := newEnv(t)
	e.login(t, "syndic.principal")

	resp, envelope := e.do(t, http.MethodDelete, "/syndic/zones/1", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if envelope.Toast == nil || envelope.Toast.Level != "error" {
		t.Fatalf("toast = %+v", envelope.Toast)
	}
}

// A confirmed delete removes the record; repeating it on the now-missing
// id comes back as an error toast, never a crash.
func TestConfirmedDeleteThenRepeatSurfacesErrorToast(t *testing.T) {
	e := newEnv(t)
	e.login(t, "syndic.principal")

	resp, envelope := e.do(t, http.MethodPost, "/syndic/zones", map[string]any{
		"nom": "Cave", "surface": 30,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("zone status = %d", resp.StatusCode)
	}
	var zone struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal(envelope.Data, &zone); err != nil {
		t.Fatalf("decode zone: %v", err)
	}

	path := fmt.Sprintf("/syndic/zones/%d?confirm=true", zone.ID)
	resp, envelope = e.do(t, http.MethodDelete, path, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	if envelope.Toast == nil || envelope.Toast.Level != "success" {
		t.Fatalf("delete toast = %+v", envelope.Toast)
	}

	resp, envelope = e.do(t, http.MethodDelete, path, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("repeat delete status = %d, want 404", resp.StatusCode)
	}
	if envelope.Toast == nil || envelope.Toast.Level != "error" {
		t.Fatalf("repeat delete toast = %+v", envelope.Toast)
	}

	// An id that never existed behaves the same way.
	resp, envelope = e.do(t, http.MethodDelete, "/syndic/zones/999?confirm=true", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown id status = %d, want 404", resp.StatusCode)
	}
	if envelope.Toast == nil || envelope.Toast.Level != "error" {
		t.Fatalf("unknown id toast = %+v", envelope.Toast)
	}
}

func TestZoneCreationRejectsMissingName(t *testing.T) {
	e := newEnv(t)
	e.login(t, "syndic.principal")

	resp, envelope := e.do(t, http.MethodPost, "/syndic/zones", map[string]any{"surface": 50})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if envelope.Toast == nil || envelope.Toast.Message != "Required fields are missing" {
		t.Fatalf("toast = %+v", envelope.Toast)
	}
}

func TestReportGenerateAndDownload(t *testing.T) {
	e := newEnv(t)
	e.login(t, "syndic.principal")

	// Missing period fails before any upstream call.
	resp, _ := e.do(t, http.MethodPost, "/syndic/reports", map[string]any{"partie_commune_id": 1})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	resp, envelope := e.do(t, http.MethodPost, "/syndic/reports", map[string]any{
		"periode": "2025-05", "partie_commune_id": 1,
	})
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("generate status = %d", resp.StatusCode)
	}
	var handle struct {
		ID int `json:"rapport_id"`
	}
	if err := json.Unmarshal(envelope.Data, &handle); err != nil {
		t.Fatalf("decode handle: %v", err)
	}
	if handle.ID != 77 {
		t.Fatalf("report id = %d", handle.ID)
	}

	req, _ := http.NewRequest(http.MethodGet, e.gateway.URL+fmt.Sprintf("/syndic/reports/%d/download", handle.ID), nil)
	downloadResp, err := e.client.Do(req)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	defer downloadResp.Body.Close()
	if downloadResp.StatusCode != http.StatusOK {
		t.Fatalf("download status = %d", downloadResp.StatusCode)
	}
	if ct := downloadResp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content type = %q", ct)
	}
	body, _ := io.ReadAll(downloadResp.Body)
	if !bytes.HasPrefix(body, []byte("%PDF")) {
		t.Fatalf("body = %q", body)
	}
}

// The full overconsumption path: a zone, a meter in it, a threshold on the
// meter, then a reading above the threshold must come back flagged and
// toast a warning instead of a success.
func TestReadingAboveThresholdRaisesWarningToast(t *testing.T) {
	e := newEnv(t)
	e.login(t, "syndic.principal")

	resp, envelope := e.do(t, http.MethodPost, "/syndic/zones", map[string]any{
		"nom": "Roof", "surface": 120,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("zone status = %d", resp.StatusCode)
	}
	var zone struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal(envelope.Data, &zone); err != nil {
		t.Fatalf("decode zone: %v", err)
	}

	resp, _ = e.do(t, http.MethodPost, "/syndic/meters", map[string]any{
		"reference": "M-1", "partie_commune": zone.ID,
		"type_compteur": "EAU", "localisation": "Roof access",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("meter status = %d", resp.StatusCode)
	}

	resp, _ = e.do(t, http.MethodPost, "/syndic/thresholds", map[string]any{
		"type_alerte": "SURCONS", "valeur_seuil": 200, "compteur_reference": "M-1",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("threshold status = %d", resp.StatusCode)
	}

	// Below the threshold: plain success.
	resp, envelope = e.do(t, http.MethodPost, "/syndic/readings", map[string]any{
		"compteur_reference": "M-1", "valeur": 150, "date_releve": "2025-06-01T10:00:00Z",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("reading status = %d", resp.StatusCode)
	}
	if envelope.Toast == nil || envelope.Toast.Level != "success" {
		t.Fatalf("toast below threshold = %+v", envelope.Toast)
	}

	// Above the threshold: the receipt carries the flag and the toast
	// becomes a warning.
	resp, envelope = e.do(t, http.MethodPost, "/syndic/readings", map[string]any{
		"compteur_reference": "M-1", "valeur": 250, "date_releve": "2025-06-02T10:00:00Z",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("reading status = %d", resp.StatusCode)
	}
	if envelope.Toast == nil || envelope.Toast.Level != "warning" {
		t.Fatalf("toast above threshold = %+v", envelope.Toast)
	}
	var receipt struct {
		AlertGenerated bool `json:"alerte_generee"`
	}
	if err := json.Unmarshal(envelope.Data, &receipt); err != nil {
		t.Fatalf("decode receipt: %v", err)
	}
	if !receipt.AlertGenerated {
		t.Fatal("receipt not flagged")
	}
}

func TestNavIsRoleFiltered(t *testing.T) {
	e := newEnv(t)
	e.login(t, "tech.martin")

	resp, envelope := e.do(t, http.MethodGet, "/nav", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("nav status = %d", resp.StatusCode)
	}
	var data struct {
		Role  string `json:"role"`
		Links []struct {
			Path string `json:"path"`
		} `json:"links"`
	}
	if err := json.Unmarshal(envelope.Data, &data); err != nil {
		t.Fatalf("decode nav: %v", err)
	}
	if data.Role != "TECHNICIAN" {
		t.Fatalf("role = %q", data.Role)
	}
	for _, link := range data.Links {
		if strings.HasPrefix(link.Path, "/syndic/") {
			t.Fatalf("technician nav leaks manager link %q", link.Path)
		}
	}
}
