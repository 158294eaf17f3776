package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bintrack/bintrack/internal/observability"
	"github.com/bintrack/bintrack/internal/repo/memory"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testRouter(t *testing.T, ping func(context.Context) error) *gin.Engine {
	t.Helper()

	return NewRouter(slog.New(slog.NewTextHandler(io.Discard, nil)), RouterDeps{
		Env:          "dev",
		Users:        memory.NewUsersRepo(),
		Wastebins:    memory.NewWastebinsRepo(),
		Feedback:     memory.NewFeedbackRepo(),
		Ping:         ping,
		Prom:         observability.NewProm(prometheus.NewRegistry()),
		CORSOrigins:  []string{"http://localhost:3000"},
		MaxBodyBytes: 1 << 20,
	})
}

func serve(r http.Handler, method, url, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, url, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRoutesRegistered(t *testing.T) {
	r := testRouter(t, nil)

	if w := serve(r, http.MethodPost, "/api/user", `{"name":"Ana","email":"ana@example.com","phone":"1"}`); w.Code != http.StatusCreated {
		t.Fatalf("create user: %d %s", w.Code, w.Body.String())
	}

	// the dashboard posts to the collection with a trailing slash
	w := serve(r, http.MethodPost, "/api/wastebin/", `{"address":"Main St 1","emptyingSchedule":"weekly","lastEmptiedAt":"2024-03-01T10:00:00Z","userId":1}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create wastebin: %d %s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/api/wastebin/1" {
		t.Fatalf("location = %q", loc)
	}

	if w := serve(r, http.MethodPost, "/api/feedback", `{"userId":1,"message":"bin is full"}`); w.Code != http.StatusCreated {
		t.Fatalf("create feedback: %d %s", w.Code, w.Body.String())
	}

	tests := []struct {
		path string
		want int
	}{
		{"/api/user", 200},
		{"/api/user/", 200},
		{"/api/user/1", 200},
		{"/api/wastebin", 200},
		{"/api/wastebin/1", 200},
		{"/api/wastebin/byUser/1", 200},
		{"/api/wastebin/byuser/1", 200},
		{"/api/feedback/1", 200},
		{"/api/feedback/byuser/1", 200},
		{"/api/feedback/byUser/1", 200},
		{"/api/wastebin/999999", 404},
		{"/api/wastebin/abc", 400},
		{"/healthz", 200},
		{"/readyz", 200},
		{"/metrics", 200},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if w := serve(r, http.MethodGet, tt.path, ""); w.Code != tt.want {
				t.Fatalf("GET %s = %d, want %d (%s)", tt.path, w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestByUserReturnsEmptyArray(t *testing.T) {
	r := testRouter(t, nil)

	w := serve(r, http.MethodGet, "/api/feedback/byuser/42", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestReadyzReportsStoreOutage(t *testing.T) {
	r := testRouter(t, func(context.Context) error { return errors.New("connection refused") })

	w := serve(r, http.MethodGet, "/readyz", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestPostRequiresJSON(t *testing.T) {
	r := testRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/user", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d", w.Code)
	}

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body.Error.Code != "unsupported_media_type" {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestMetricsCountRoutes(t *testing.T) {
	r := testRouter(t, nil)

	serve(r, http.MethodGet, "/api/wastebin", "")

	w := serve(r, http.MethodGet, "/metrics", "")
	if !strings.Contains(w.Body.String(), `bintrack_http_requests_total{method="GET",route="/api/wastebin",status="200"} 1`) {
		t.Fatalf("metrics missing request counter:\n%s", w.Body.String())
	}
}

func TestRateLimitIgnoresForwardedFor(t *testing.T) {
	r := NewRouter(slog.New(slog.NewTextHandler(io.Discard, nil)), RouterDeps{
		Env:            "dev",
		Users:          memory.NewUsersRepo(),
		Wastebins:      memory.NewWastebinsRepo(),
		Feedback:       memory.NewFeedbackRepo(),
		RateLimitRPS:   0.001,
		RateLimitBurst: 1,
	})

	hit := func(forwardedFor string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/wastebin", nil)
		req.RemoteAddr = "203.0.113.9:40000"
		req.Header.Set("X-Forwarded-For", forwardedFor)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if got := hit("198.51.100.1"); got != http.StatusOK {
		t.Fatalf("first request: status = %d", got)
	}
	// a rotated header from an untrusted peer is the same client
	if got := hit("198.51.100.2"); got != http.StatusTooManyRequests {
		t.Fatalf("second request: status = %d, want 429", got)
	}
}

func TestTrustedProxyForwardedForSplitsClients(t *testing.T) {
	r := NewRouter(slog.New(slog.NewTextHandler(io.Discard, nil)), RouterDeps{
		Env:            "dev",
		Users:          memory.NewUsersRepo(),
		Wastebins:      memory.NewWastebinsRepo(),
		Feedback:       memory.NewFeedbackRepo(),
		TrustedProxies: []string{"203.0.113.9"},
		RateLimitRPS:   0.001,
		RateLimitBurst: 1,
	})

	for _, client := range []string{"198.51.100.1", "198.51.100.2"} {
		req := httptest.NewRequest(http.MethodGet, "/api/wastebin", nil)
		req.RemoteAddr = "203.0.113.9:40000"
		req.Header.Set("X-Forwarded-For", client)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("client %s behind trusted proxy: status = %d", client, w.Code)
		}
	}
}
