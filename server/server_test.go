package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/RangaDM/shopfront/component"
	"github.com/RangaDM/shopfront/logger"
	"github.com/RangaDM/shopfront/server/endpoint"
)

func newTestServer(t *testing.T, checker endpoint.HealthChecker, ready func() bool) *Server {
	t.Helper()
	cfg := Config{}
	cfg.ApplyDefaults()
	s := New(cfg, logger.NewDefault("test"))
	s.ApplyMiddleware()
	s.RegisterSystemEndpoints("shopfront", ready, checker)
	return s
}

func staticChecker(healths ...component.Health) endpoint.HealthChecker {
	return func(context.Context) []component.Health {
		return healths
	}
}

func get(s *Server, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	s.GinEngine().ServeHTTP(rr, httptest.NewRequest("GET", path, http.NoBody))
	return rr
}

func TestServer_HealthEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		healths    []component.Health
		wantStatus string
		wantCode   int
	}{
		{
			"all healthy",
			[]component.Health{
				{Name: "registry", Status: component.StatusHealthy},
				{Name: "health-monitor", Status: component.StatusHealthy},
			},
			"healthy", http.StatusOK,
		},
		{
			"one degraded",
			[]component.Health{
				{Name: "registry", Status: component.StatusDegraded, Message: "serving 3 fallback addresses"},
				{Name: "health-monitor", Status: component.StatusHealthy},
			},
			"degraded", http.StatusOK,
		},
		{
			"one unhealthy",
			[]component.Health{
				{Name: "registry", Status: component.StatusUnhealthy},
			},
			"unhealthy", http.StatusServiceUnavailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, staticChecker(tt.healths...), nil)
			rr := get(s, "/health")

			if rr.Code != tt.wantCode {
				t.Errorf("expected %d, got %d", tt.wantCode, rr.Code)
			}
			var body struct {
				Status     string             `json:"status"`
				Service    string             `json:"service"`
				Components []component.Health `json:"components"`
			}
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("response is not valid JSON: %v", err)
			}
			if body.Status != tt.wantStatus {
				t.Errorf("expected status %q, got %q", tt.wantStatus, body.Status)
			}
			if body.Service != "shopfront" {
				t.Errorf("expected service shopfront, got %q", body.Service)
			}
			if len(body.Components) != len(tt.healths) {
				t.Errorf("expected %d components, got %d", len(tt.healths), len(body.Components))
			}
		})
	}
}

func TestServer_LivenessEndpoint(t *testing.T) {
	s := newTestServer(t, nil, nil)
	rr := get(s, "/live")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestServer_ReadinessEndpoint(t *testing.T) {
	t.Run("not ready during startup", func(t *testing.T) {
		s := newTestServer(t, nil, func() bool { return false })
		rr := get(s, "/ready")

		if rr.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rr.Code)
		}
		var body map[string]string
		json.Unmarshal(rr.Body.Bytes(), &body)
		if body["status"] != "starting" {
			t.Errorf("expected starting, got %q", body["status"])
		}
	})

	t.Run("ready after startup", func(t *testing.T) {
		checker := staticChecker(component.Health{Name: "registry", Status: component.StatusHealthy})
		s := newTestServer(t, checker, func() bool { return true })
		rr := get(s, "/ready")

		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
	})

	t.Run("not ready when a component is unhealthy", func(t *testing.T) {
		checker := staticChecker(component.Health{Name: "registry", Status: component.StatusUnhealthy})
		s := newTestServer(t, checker, func() bool { return true })
		rr := get(s, "/ready")

		if rr.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rr.Code)
		}
	})
}

func TestServer_InfoAndVersionEndpoints(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rr := get(s, "/info")
	if rr.Code != http.StatusOK {
		t.Fatalf("/info: expected 200, got %d", rr.Code)
	}
	var info map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &info); err != nil {
		t.Fatalf("/info response is not valid JSON: %v", err)
	}
	if info["service"] != "shopfront" {
		t.Errorf("expected service shopfront, got %v", info["service"])
	}
	if info["version"] == "" {
		t.Error("expected a version string")
	}

	rr = get(s, "/version")
	if rr.Code != http.StatusOK {
		t.Fatalf("/version: expected 200, got %d", rr.Code)
	}
}

func TestServer_StartAndStop(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	cfg.Port = 0 // random free port
	s := New(cfg, logger.NewDefault("test"))
	s.RegisterSystemEndpoints("shopfront", nil, nil)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestComponent_Routes(t *testing.T) {
	s := newTestServer(t, nil, nil)
	s.GinEngine().GET("/api/products", func(c *gin.Context) {})
	s.GinEngine().POST("/api/orders", func(c *gin.Context) {})

	sc := NewComponent(s)
	routes := sc.Routes()

	if len(routes) < 7 {
		t.Fatalf("expected at least 7 routes, got %d", len(routes))
	}
	// API routes sort before system routes.
	if routes[0].Path != "/api/orders" {
		t.Errorf("expected /api/orders first, got %s", routes[0].Path)
	}
	last := routes[len(routes)-1]
	if !systemPaths[last.Path] {
		t.Errorf("expected a system route last, got %s", last.Path)
	}
}

func TestComponent_Health(t *testing.T) {
	s := newTestServer(t, nil, nil)
	sc := NewComponent(s)

	h := sc.Health(context.Background())
	if h.Status != component.StatusHealthy {
		t.Errorf("expected healthy, got %s", h.Status)
	}
	if sc.Name() != "http-server" {
		t.Errorf("unexpected name %s", sc.Name())
	}
}

func TestFormatHandlerName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"github.com/RangaDM/shopfront/api.(*Handler).ListProducts-fm", "Handler.ListProducts"},
		{"github.com/RangaDM/shopfront/server/endpoint.Health.func1", "health"},
		{"main.handler", "handler"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := formatHandlerName(tt.input); got != tt.want {
				t.Errorf("formatHandlerName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestConfig_Defaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Port)
	}
	if cfg.MaxBodySize != "1MB" {
		t.Errorf("expected 1MB body limit, got %s", cfg.MaxBodySize)
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		t.Error("expected default CORS origins")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Port: 8080}, false},
		{"port too large", Config{Port: 70000}, true},
		{"negative timeout", Config{Port: 8080, ReadTimeout: -1}, true},
		{"negative rate limit", Config{Port: 8080, RateLimitPerMinute: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
