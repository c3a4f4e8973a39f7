package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/skillsenselab/voice-capture/internal/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) (*Server, *Lifecycle) {
	t.Helper()
	cfg := Config{}
	cfg.ApplyDefaults()
	lc := NewLifecycle()
	srv := New(cfg, logger.NewDefault("test"))
	srv.ApplyMiddleware(lc)
	return srv, lc
}

func TestGinModeFollowsConfiguredLogLevel(t *testing.T) {
	defer func() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		gin.SetMode(gin.TestMode)
	}()

	cfg := Config{}
	cfg.ApplyDefaults()

	New(cfg, logger.New(logger.Config{Level: "error", Format: "json"}, "test", "dev", "production"))
	if gin.Mode() != gin.ReleaseMode {
		t.Errorf("expected release mode for error-level logger, got %q", gin.Mode())
	}

	New(cfg, logger.New(logger.Config{Level: "debug", Format: "json"}, "test", "dev", "development"))
	if gin.Mode() != gin.DebugMode {
		t.Errorf("expected debug mode for debug-level logger, got %q", gin.Mode())
	}
}

func TestUnknownRouteReturnsNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	w := httptest.NewRecorder()
	srv.GinEngine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["ok"] != false || body["error"] != "Not found" {
		t.Errorf("unexpected body: %v", body)
	}
	if w.Header().Get("X-Request-Id") == "" {
		t.Error("every response must carry a correlation ID")
	}
}

func TestDrainGateWiredIntoStack(t *testing.T) {
	srv, lc := newTestServer(t)
	srv.GinEngine().POST("/voice", func(c *gin.Context) { c.Status(http.StatusOK) })

	lc.BeginDrain()

	w := httptest.NewRecorder()
	srv.GinEngine().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/voice", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 while draining, got %d", w.Code)
	}
}

func TestRespondOKMergesFields(t *testing.T) {
	engine := gin.New()
	engine.GET("/", func(c *gin.Context) {
		RespondOK(c, gin.H{"text": "hi"})
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["ok"] != true || body["text"] != "hi" {
		t.Errorf("unexpected body: %v", body)
	}
}
