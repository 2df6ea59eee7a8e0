package task

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shubhamranswal/TechGuru/internal/agent"
	"github.com/shubhamranswal/TechGuru/internal/observability"
	"github.com/shubhamranswal/TechGuru/internal/rpc"
)

// chunkSize is the character length of streamed output chunks.
const chunkSize = 120

// Runner executes a task and yields streamed events.
type Runner interface {
	Run(r *http.Request, req rpc.RunTaskRequest) (<-chan rpc.RunTaskEvent, error)
}

// AgentRunner bridges the tutoring agent to streamed RPC events.
type AgentRunner struct {
	Agent   *agent.Agent
	Metrics *observability.Metrics
	Logger  *zap.Logger
}

// Run validates the request and streams the task output: a start message,
// chunked text or a structured result, then a done event. Task failures
// arrive as text inside the normal event flow, never as a dropped stream.
func (r *AgentRunner) Run(reqCtx *http.Request, req rpc.RunTaskRequest) (<-chan rpc.RunTaskEvent, error) {
	kind, err := parseTaskKind(req.Task)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Source) == "" {
		return nil, fmt.Errorf("source is required")
	}

	out := make(chan rpc.RunTaskEvent, 16)
	go func() {
		defer close(out)
		start := time.Now()
		corr := req.CorrelationID
		if corr == "" {
			corr = req.SessionID
		}

		if r.Agent == nil {
			out <- rpc.RunTaskEvent{Type: "error", SessionID: req.SessionID, CorrelationID: corr, Error: "agent unavailable"}
			return
		}

		out <- rpc.RunTaskEvent{
			Type:          "message",
			SessionID:     req.SessionID,
			CorrelationID: corr,
			Message:       fmt.Sprintf("task %s started", kind),
		}

		ctx := reqCtx.Context()
		outcome := "ok"
		step := 0

		switch kind {
		case agent.TaskGenerateTests:
			text := r.Agent.GenerateTests(ctx, req.Source, req.TestCount, req.Language)
			if strings.HasPrefix(text, agent.ErrTextPrefix) {
				outcome = "error_text"
			}
			for _, chunk := range chunkText(text, chunkSize) {
				step++
				out <- rpc.RunTaskEvent{
					Type:          "chunk",
					SessionID:     req.SessionID,
					CorrelationID: corr,
					Chunk:         chunk,
					Step:          step,
				}
			}
		case agent.TaskExplain:
			result := r.Agent.Explain(ctx, req.Source, req.Language)
			step++
			out <- rpc.RunTaskEvent{Type: "result", SessionID: req.SessionID, CorrelationID: corr, Result: result, Step: step}
			outcome = resultOutcome(result)
		case agent.TaskBugHunt:
			result := r.Agent.BugHunt(ctx, req.Source)
			step++
			out <- rpc.RunTaskEvent{Type: "result", SessionID: req.SessionID, CorrelationID: corr, Result: result, Step: step}
			outcome = resultOutcome(result)
		}

		if ctx.Err() != nil {
			outcome = "cancelled"
		}
		r.Metrics.RecordTask(string(kind), outcome, time.Since(start))
		if r.Logger != nil {
			r.Logger.Info("task finished",
				zap.String("task", string(kind)),
				zap.String("session_id", req.SessionID),
				zap.String("outcome", outcome),
				zap.Duration("elapsed", time.Since(start)))
		}

		out <- rpc.RunTaskEvent{
			Type:          "done",
			SessionID:     req.SessionID,
			CorrelationID: corr,
			Done:          true,
			Step:          step + 1,
		}
	}()

	return out, nil
}

func parseTaskKind(s string) (agent.TaskKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "explain":
		return agent.TaskExplain, nil
	case "generate-tests", "generate_tests":
		return agent.TaskGenerateTests, nil
	case "bug-hunt", "bughunt", "bug_hunt":
		return agent.TaskBugHunt, nil
	default:
		return "", fmt.Errorf("unknown task %q", s)
	}
}

// resultOutcome distinguishes a parsed result from one degraded around an
// orchestration error string.
func resultOutcome(result map[string]any) string {
	raw, err := json.Marshal(result)
	if err == nil && strings.Contains(string(raw), agent.ErrTextPrefix) {
		return "error_text"
	}
	return "ok"
}

// chunkText splits text into fixed-size rune chunks, preserving order.
func chunkText(text string, size int) []string {
	if size <= 0 || text == "" {
		return []string{text}
	}
	runes := []rune(text)
	chunks := make([]string, 0, len(runes)/size+1)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
