package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/QTest-hq/qskel/internal/config"
)

const boxModel = `{
  "namespace": "Shop",
  "entities": [
    {
      "name": "Box",
      "members": [
        {"kind": "constructor"},
        {"kind": "property", "name": "Label", "type": "string", "mutable": true}
      ]
    }
  ]
}`

const clientModel = `{
  "namespace": "Net",
  "entities": [
    {
      "name": "LoggingClient",
      "members": [
        {"kind": "constructor", "parameters": [{"name": "inner", "type": "IClient"}]},
        {"kind": "method", "name": "Fetch", "return_type": "string", "parameters": [{"name": "id", "type": "int"}]}
      ]
    }
  ]
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	server, err := NewServer(&config.Config{Workers: 2, Port: 8080}, nil, nil)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	return server
}

func do(server *Server, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rr := httptest.NewRecorder()
	server.Router().ServeHTTP(rr, req)
	return rr
}

func TestHealthCheck(t *testing.T) {
	rr := do(newTestServer(t), "GET", "/health", "")

	if rr.Code != http.StatusOK {
		t.Errorf("healthCheck returned status %d, want %d", rr.Code, http.StatusOK)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if resp["status"] != "ok" {
		t.Errorf("status = %s, want ok", resp["status"])
	}
}

func TestGenerate_General(t *testing.T) {
	rr := do(newTestServer(t), "POST", "/api/v1/generate", boxModel)

	if rr.Code != http.StatusOK {
		t.Fatalf("generate returned status %d: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %s, want text/plain", ct)
	}
	if rr.Header().Get("X-Qskel-Model-Id") == "" {
		t.Error("X-Qskel-Model-Id header should be set")
	}
	if got := rr.Header().Get("X-Qskel-Cases"); got != "3" {
		t.Errorf("X-Qskel-Cases = %s, want 3", got)
	}

	body := rr.Body.String()
	for _, exp := range []string{"namespace Shop.Tests", "public class BoxTests", "Label_ShouldRoundTripAssignedValue"} {
		if !strings.Contains(body, exp) {
			t.Errorf("expected %q in output:\n%s", exp, body)
		}
	}
}

func TestGenerate_QueryOverrides(t *testing.T) {
	rr := do(newTestServer(t), "POST", "/api/v1/generate?strategy=delegation&namespace=Remote", clientModel)

	if rr.Code != http.StatusOK {
		t.Fatalf("generate returned status %d: %s", rr.Code, rr.Body.String())
	}

	body := rr.Body.String()
	for _, exp := range []string{
		"namespace Remote.Tests",
		"mockInner.Verify(x => x.Fetch(It.IsAny<int>()), Times.Once());",
	} {
		if !strings.Contains(body, exp) {
			t.Errorf("expected %q in output:\n%s", exp, body)
		}
	}
}

func TestGenerate_PlanEmitter(t *testing.T) {
	rr := do(newTestServer(t), "POST", "/api/v1/generate?emitter=plan", boxModel)

	if rr.Code != http.StatusOK {
		t.Fatalf("generate returned status %d: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/yaml" {
		t.Errorf("Content-Type = %s, want application/yaml", ct)
	}
	if !strings.Contains(rr.Body.String(), "entity: Box") {
		t.Errorf("plan output missing entity:\n%s", rr.Body.String())
	}
}

func TestGenerate_NothingToGenerate(t *testing.T) {
	rr := do(newTestServer(t), "POST", "/api/v1/generate", `{"namespace": "Shop", "entities": [{"name": "Hollow"}]}`)

	if rr.Code != http.StatusNoContent {
		t.Errorf("generate returned status %d, want %d", rr.Code, http.StatusNoContent)
	}
	if rr.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", rr.Body.String())
	}
}

func TestGenerate_BadRequests(t *testing.T) {
	server := newTestServer(t)

	tests := []struct {
		name   string
		target string
		body   string
		status int
	}{
		{"malformed body", "/api/v1/generate", `{"entities": [`, http.StatusBadRequest},
		{"invalid model", "/api/v1/generate", `{"entities": [{"name": ""}]}`, http.StatusBadRequest},
		{"unknown strategy", "/api/v1/generate?strategy=chaos", boxModel, http.StatusBadRequest},
		{"unknown emitter", "/api/v1/generate?emitter=nunit", boxModel, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(server, "POST", tt.target, tt.body)
			if rr.Code != tt.status {
				t.Errorf("status = %d, want %d (%s)", rr.Code, tt.status, rr.Body.String())
			}

			var resp map[string]string
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to unmarshal error response: %v", err)
			}
			if resp["error"] == "" {
				t.Error("error message should be set")
			}
		})
	}
}

func TestGenerate_ProjectDefaults(t *testing.T) {
	project := config.DefaultProjectConfig()
	project.Strategy = "delegation"

	server, err := NewServer(&config.Config{Workers: 1}, project, nil)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}

	rr := do(server, "POST", "/api/v1/generate", clientModel)
	if rr.Code != http.StatusOK {
		t.Fatalf("generate returned status %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "Fetch_ShouldDelegateCall") {
		t.Errorf("project strategy not applied:\n%s", rr.Body.String())
	}
}

func TestListEmitters(t *testing.T) {
	rr := do(newTestServer(t), "GET", "/api/v1/emitters", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("listEmitters returned status %d", rr.Code)
	}

	var resp EmittersResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(resp.Emitters) != 2 {
		t.Errorf("len(Emitters) = %d, want 2", len(resp.Emitters))
	}
	if resp.Emitters[1].Name != "xunit" || resp.Emitters[1].Language != "csharp" {
		t.Errorf("Emitters[1] = %+v, want xunit/csharp", resp.Emitters[1])
	}
	if len(resp.Strategies) != 3 {
		t.Errorf("len(Strategies) = %d, want 3", len(resp.Strategies))
	}
}

func TestUnknownRoute(t *testing.T) {
	rr := do(newTestServer(t), "GET", "/api/v1/repos", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}
