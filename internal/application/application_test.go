package application

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/webstarter/internal/config"
)

func TestNewInitializesDependencies(t *testing.T) {
	cfg := baseTestConfig(":8085")
	logger := zaptest.NewLogger(t)

	app := New(cfg, logger)

	if app.server == nil || app.router == nil || app.handler == nil {
		t.Fatalf("expected server, router, and handler to be initialized")
	}
	if app.Server() != app.server {
		t.Fatalf("Server accessor did not return underlying instance")
	}
}

func TestNewServerAppliesConfig(t *testing.T) {
	cfg := baseTestConfig("9090")
	handler := http.NewServeMux()

	server := NewServer(cfg, handler)
	if server.Addr != ":9090" {
		t.Fatalf("expected address :9090, got %s", server.Addr)
	}
	if server.Handler != handler {
		t.Fatalf("expected handler to be applied")
	}
	if server.ReadHeaderTimeout != cfg.Server.ReadHeaderTimeout ||
		server.WriteTimeout != cfg.Server.WriteTimeout ||
		server.IdleTimeout != cfg.Server.IdleTimeout {
		t.Fatalf("server timeouts do not match configuration")
	}
}

func TestNewServerKeepsExplicitHost(t *testing.T) {
	cfg := baseTestConfig("127.0.0.1:9090")

	server := NewServer(cfg, http.NewServeMux())
	if server.Addr != "127.0.0.1:9090" {
		t.Fatalf("expected address to pass through unchanged, got %s", server.Addr)
	}
}

func TestRouterServesRoot(t *testing.T) {
	cfg := baseTestConfig(":0")
	app := New(cfg, zaptest.NewLogger(t))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from root, got %d", rec.Code)
	}
	if rec.Body.Len() == 0 {
		t.Fatalf("expected a response body")
	}
}

func baseTestConfig(port string) config.Config {
	return config.Config{
		Environment: "test",
		Server: config.ServerConfig{
			Port:                port,
			ReadHeaderTimeout:   20 * time.Millisecond,
			WriteTimeout:        30 * time.Millisecond,
			IdleTimeout:         40 * time.Millisecond,
			ShutdownGracePeriod: 50 * time.Millisecond,
		},
		EnableRequestLogging: false,
	}
}
