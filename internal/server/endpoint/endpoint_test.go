package endpoint

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type drainState bool

func (d drainState) IsDraining() bool { return bool(d) }

func serve(handler gin.HandlerFunc, path string) *httptest.ResponseRecorder {
	engine := gin.New()
	engine.GET(path, handler)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealthAccepting(t *testing.T) {
	w := serve(Health(drainState(false)), "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["ok"] != true {
		t.Errorf("expected ok=true, got %v", body["ok"])
	}
}

func TestHealthDraining(t *testing.T) {
	w := serve(Health(drainState(true)), "/health")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["ok"] != false || body["shuttingDown"] != true {
		t.Errorf("unexpected draining body: %v", body)
	}
}

func TestReadinessReady(t *testing.T) {
	w := serve(Readiness(func() bool { return true }), "/ready")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestReadinessNotReady(t *testing.T) {
	w := serve(Readiness(func() bool { return false }), "/ready")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["error"] != "Service not ready" {
		t.Errorf("unexpected error message: %v", body["error"])
	}
}
