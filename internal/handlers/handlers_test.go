package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthAndVersion_Methods(t *testing.T) {
	tests := []struct {
		name    string
		handler http.Handler
		method  string
		want    int
	}{
		{"health GET", NewHealthHandler(nil), "GET", http.StatusOK},
		{"health HEAD", NewHealthHandler(nil), "HEAD", http.StatusOK},
		{"health POST", NewHealthHandler(nil), "POST", http.StatusMethodNotAllowed},
		{"version GET", NewVersionHandler(), "GET", http.StatusOK},
		{"version DELETE", NewVersionHandler(), "DELETE", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.handler.ServeHTTP(w, httptest.NewRequest(tt.method, "/api/x", nil))
			if w.Code != tt.want {
				t.Errorf("expected status %d, got %d", tt.want, w.Code)
			}
		})
	}
}

func TestHealthHandler_Body(t *testing.T) {
	w := httptest.NewRecorder()
	NewHealthHandler(nil).ServeHTTP(w, httptest.NewRequest("GET", "/api/health", nil))

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %s", body["status"])
	}
}

func TestVersionHandler_Body(t *testing.T) {
	w := httptest.NewRecorder()
	NewVersionHandler().ServeHTTP(w, httptest.NewRequest("GET", "/api/version", nil))

	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	for _, field := range []string{"version", "build", "git_commit"} {
		if _, ok := body[field]; !ok {
			t.Errorf("expected %s field in response", field)
		}
	}
}

func TestRequireMethod(t *testing.T) {
	tests := []struct {
		method string
		want   string
		ok     bool
	}{
		{"GET", "GET", true},
		{"HEAD", "GET", true},
		{"POST", "GET", false},
		{"HEAD", "POST", false},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		ok := RequireMethod(w, httptest.NewRequest(tt.method, "/test", nil), tt.want)
		if ok != tt.ok {
			t.Errorf("%s for %s: expected %v, got %v", tt.method, tt.want, tt.ok, ok)
		}
		if !ok && w.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s for %s: expected status 405, got %d", tt.method, tt.want, w.Code)
		}
	}
}

func TestWriteError_OmitsEmptyFields(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, http.StatusBadRequest, "something went wrong")

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
	if w.Header().Get("Content-Type") != "application/json" {
		t.Errorf("expected JSON content type, got %s", w.Header().Get("Content-Type"))
	}
	if got := w.Body.String(); got != "{\"error\":\"something went wrong\"}\n" {
		t.Errorf("unexpected body %q", got)
	}
}
