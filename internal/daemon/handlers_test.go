package daemon

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shubhamranswal/TechGuru/internal/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		Agent: config.AgentConfig{
			MaxAttemptsPerModel: 2,
			DefaultTestCount:    5,
			DefaultLanguage:     "python",
		},
		Sandbox: config.SandboxConfig{
			Enabled:        true,
			AllowWrite:     true,
			WorkingDir:     dir,
			TimeoutSeconds: 30,
		},
		Tools: config.ToolsConfig{
			AllowExec:          true,
			AllowFileWrite:     true,
			TestCommand:        "echo",
			TestTimeoutSeconds: 30,
		},
		Review: config.ReviewConfig{DBPath: filepath.Join(dir, "review.db")},
		Server: config.ServerConfig{Addr: ":0", MetricsEnabled: true},
	}

	s, err := NewServer(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(s.closeStore)
	return s
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestExplainEndpointOffline(t *testing.T) {
	s := newTestServer(t)

	rec := postJSON(t, s.explainHandler, "/v1/explain", map[string]any{"source": "def f():\n    return 1"})
	require.Equal(t, http.StatusOK, rec.Code)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	summary, ok := out["summary"].(string)
	require.True(t, ok)
	require.True(t, strings.HasPrefix(summary, "[FALLBACK] Simulated response"))
	require.Contains(t, out, "line_comments")
	require.Contains(t, out, "micro_exercises")
}

func TestExplainEndpointRejectsBlankSource(t *testing.T) {
	s := newTestServer(t)
	rec := postJSON(t, s.explainHandler, "/v1/explain", map[string]any{"source": "  "})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateTestsEndpointOffline(t *testing.T) {
	s := newTestServer(t)
	rec := postJSON(t, s.generateTestsHandler, "/v1/generate-tests", map[string]any{"source": "def f(): pass", "num_tests": 2})
	require.Equal(t, http.StatusOK, rec.Code)

	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.True(t, strings.HasPrefix(out["tests"], "[FALLBACK] Simulated response"))
}

func TestBugHuntEndpointOffline(t *testing.T) {
	s := newTestServer(t)
	rec := postJSON(t, s.bugHuntHandler, "/v1/bughunt", map[string]any{"source": "code"})
	require.Equal(t, http.StatusOK, rec.Code)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Contains(t, out, "issues")
	require.Contains(t, out, "refactor")
}

func TestModelInfoEndpoint(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/model-info", nil)
	rec := httptest.NewRecorder()
	s.modelInfoHandler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Offline    bool                `json:"offline"`
		Candidates map[string][]string `json:"candidates"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.True(t, out.Offline)
	require.Equal(t, []string{"gemini-2.5-flash-lite", "gemini-2.0-flash"}, out.Candidates["explain"])
}

func TestScaffoldEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := postJSON(t, s.scaffoldHandler, "/v1/scaffold", map[string]any{"project_name": "demo", "language": "python"})
	require.Equal(t, http.StatusOK, rec.Code)

	content, err := s.tools.FS.ReadFile("demo/src/main.py")
	require.NoError(t, err)
	require.Contains(t, content, "def main()")
}

func TestScaffoldDryRunWritesNothing(t *testing.T) {
	s := newTestServer(t)

	rec := postJSON(t, s.scaffoldHandler, "/v1/scaffold", map[string]any{"project_name": "demo", "dry_run": true})
	require.Equal(t, http.StatusOK, rec.Code)

	_, err := s.tools.FS.Stat("demo")
	require.Error(t, err)
}

func TestApplyPatchEndpoint(t *testing.T) {
	s := newTestServer(t)

	diff := "--- a/fix.txt\n+++ b/fix.txt\n@@\n+patched\n"
	rec := postJSON(t, s.applyPatchHandler, "/v1/apply-patch", map[string]any{"diff": diff})
	require.Equal(t, http.StatusOK, rec.Code)

	content, err := s.tools.FS.ReadFile("fix.txt")
	require.NoError(t, err)
	require.Equal(t, "patched", content)
}

func TestReviewLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec := postJSON(t, s.reviewHandler, "/v1/review", map[string]any{"concept": "memoization"})
	require.Equal(t, http.StatusOK, rec.Code)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	rec = postJSON(t, s.reviewGradeHandler, "/v1/review/grade", map[string]any{"id": created.ID, "quality": 4})
	require.Equal(t, http.StatusOK, rec.Code)

	listReq := httptest.NewRequest(http.MethodGet, "/v1/review", nil)
	listRec := httptest.NewRecorder()
	s.reviewHandler(listRec, listReq)
	require.Equal(t, http.StatusOK, listRec.Code)

	var listed struct {
		Items []map[string]any `json:"items"`
	}
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &listed))
	require.Len(t, listed.Items, 1)
}

func TestReviewGradeUnknownID(t *testing.T) {
	s := newTestServer(t)
	rec := postJSON(t, s.reviewGradeHandler, "/v1/review/grade", map[string]any{"id": "missing", "quality": 3})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.healthHandler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMetricsDisabled(t *testing.T) {
	s := newTestServer(t)
	s.cfg.Server.MetricsEnabled = false

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.metricsHandler(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
