package task

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shubhamranswal/TechGuru/internal/observability"
	"github.com/shubhamranswal/TechGuru/internal/rpc"
)

func TestHandlerStreamsNDJSON(t *testing.T) {
	handler := NewHandler(&AgentRunner{Agent: newRunnerAgent(nil)}, observability.NewMetrics())

	body, err := json.Marshal(rpc.RunTaskRequest{Task: "explain", Source: "def f():\n    return 1"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/task/run", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/x-ndjson", rec.Header().Get("Content-Type"))

	var types []string
	scanner := bufio.NewScanner(rec.Body)
	for scanner.Scan() {
		var ev rpc.RunTaskEvent
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &ev))
		types = append(types, ev.Type)
		// ids are filled in when the caller leaves them blank
		require.NotEmpty(t, ev.SessionID)
	}
	require.Equal(t, "message", types[0])
	require.Equal(t, "done", types[len(types)-1])
	require.Contains(t, types, "result")
}

func TestHandlerRejectsGet(t *testing.T) {
	handler := NewHandler(&AgentRunner{Agent: newRunnerAgent(nil)}, observability.NewMetrics())

	req := httptest.NewRequest(http.MethodGet, "/task/run", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandlerRejectsBadJSON(t *testing.T) {
	handler := NewHandler(&AgentRunner{Agent: newRunnerAgent(nil)}, observability.NewMetrics())

	req := httptest.NewRequest(http.MethodPost, "/task/run", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerRejectsUnknownTask(t *testing.T) {
	handler := NewHandler(&AgentRunner{Agent: newRunnerAgent(nil)}, observability.NewMetrics())

	body, err := json.Marshal(rpc.RunTaskRequest{Task: "dance", Source: "code"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/task/run", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
