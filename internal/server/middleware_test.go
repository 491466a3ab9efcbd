package server

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bobmcallan/earnings-insight/internal/common"
)

func newTestServer() *Server {
	return &Server{logger: common.NewSilentLogger()}
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestCorrelationIDMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"generated", nil, ""},
		{"request id", map[string]string{"X-Request-ID": "req-1"}, "req-1"},
		{"correlation id", map[string]string{"X-Correlation-ID": "corr-2"}, "corr-2"},
		{"request id wins", map[string]string{"X-Request-ID": "req-3", "X-Correlation-ID": "corr-3"}, "req-3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := newTestServer().correlationIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = CorrelationID(r.Context())
			}))

			req := httptest.NewRequest("GET", "/ticker/AAPL", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			got := w.Header().Get("X-Correlation-ID")
			if got == "" || got != seen {
				t.Fatalf("header %q and context %q should match and be set", got, seen)
			}
			if tt.want != "" && got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestCorrelationID_EmptyWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)
	if id := CorrelationID(req.Context()); id != "" {
		t.Errorf("expected empty correlation ID, got %s", id)
	}
}

func TestCORSMiddleware(t *testing.T) {
	called := false
	handler := newTestServer().corsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/summarize/AAPL", nil))
	if !called {
		t.Error("GET should reach the next handler")
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS origin header")
	}

	called = false
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("OPTIONS", "/mcp", nil))
	if called {
		t.Error("preflight should not reach the next handler")
	}
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200 for preflight, got %d", w.Code)
	}
	if !strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), "Mcp-Session-Id") {
		t.Error("expected MCP session header to be allowed")
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	s := newTestServer()

	w := httptest.NewRecorder()
	s.recoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("reconcile exploded")
	})).ServeHTTP(w, httptest.NewRequest("GET", "/ticker/AAPL", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500 after panic, got %d", w.Code)
	}
	if w.Header().Get("Content-Type") != "application/json" {
		t.Errorf("expected JSON error body, got %s", w.Header().Get("Content-Type"))
	}
	if !strings.Contains(w.Body.String(), `"errorType":"unknown"`) {
		t.Errorf("unexpected body: %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	s.recoveryMiddleware(http.HandlerFunc(okHandler)).ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected pass-through status 200, got %d", w.Code)
	}
}

func TestLoggingMiddleware_KeepsStatus(t *testing.T) {
	handler := newTestServer().loggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":"API error"}`))
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/ticker/NVDA", nil))

	if w.Code != http.StatusBadGateway {
		t.Errorf("expected status 502, got %d", w.Code)
	}
	if w.Body.String() != `{"error":"API error"}` {
		t.Errorf("body should pass through, got %s", w.Body.String())
	}
}

func TestLoggingMiddleware_LogsFailuresAtWarn(t *testing.T) {
	var buf bytes.Buffer
	s := &Server{logger: common.NewLoggerWithOutput("warn", &buf)}

	handler := s.loggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/ticker/ZZZZ", nil))

	if !strings.Contains(buf.String(), "HTTP request") {
		t.Errorf("expected 404 to be logged at warn, got %q", buf.String())
	}
}

func TestResponseWriter_Tracks(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	rw.WriteHeader(http.StatusServiceUnavailable)
	rw.Write([]byte("abc"))
	rw.Write([]byte("de"))
	rw.Flush()

	if rw.statusCode != http.StatusServiceUnavailable {
		t.Errorf("expected captured status 503, got %d", rw.statusCode)
	}
	if rw.bytesWritten != 5 {
		t.Errorf("expected 5 bytes, got %d", rw.bytesWritten)
	}
	if !rec.Flushed {
		t.Error("expected Flush to reach the underlying writer")
	}
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	w := httptest.NewRecorder()
	newTestServer().securityHeadersMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})).ServeHTTP(w, httptest.NewRequest("GET", "/api/health", nil))

	if w.Code != http.StatusTeapot {
		t.Errorf("expected status to pass through, got %d", w.Code)
	}
	want := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}
	for header, value := range want {
		if got := w.Header().Get(header); got != value {
			t.Errorf("%s: expected %q, got %q", header, value, got)
		}
	}
	if csp := w.Header().Get("Content-Security-Policy"); !strings.Contains(csp, "frame-ancestors 'none'") {
		t.Errorf("expected CSP to forbid framing, got %s", csp)
	}
}

func TestMaxBodySizeMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		body    string
		wantErr bool
	}{
		{"small body", "POST", `{"jsonrpc":"2.0"}`, false},
		{"oversized body", "POST", strings.Repeat("x", 100), true},
		{"no body", "GET", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var readErr error
			handler := newTestServer().maxBodySizeMiddleware(32)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, readErr = io.ReadAll(r.Body)
			}))

			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(tt.method, "/mcp", body))

			if (readErr != nil) != tt.wantErr {
				t.Errorf("expected read error=%v, got %v", tt.wantErr, readErr)
			}
		})
	}
}
