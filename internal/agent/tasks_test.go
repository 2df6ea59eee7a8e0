package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shubhamranswal/TechGuru/internal/config"
	"github.com/shubhamranswal/TechGuru/internal/llm"
	llmmock "github.com/shubhamranswal/TechGuru/internal/llm/mock"
	"github.com/shubhamranswal/TechGuru/internal/llm/stub"
)

func newTestAgent(provider llm.Provider) *Agent {
	cfg := config.AgentConfig{
		MaxAttemptsPerModel: 2,
		DefaultTestCount:    5,
		DefaultLanguage:     "python",
	}
	strategy := NewStrategy(config.ModelsConfig{Defaults: []string{"m1"}})
	orch := NewOrchestrator(provider, cfg, nil, nil)
	return New(strategy, orch, cfg, nil)
}

func TestExplainStructuredResponse(t *testing.T) {
	provider := &llmmock.Provider{
		GenerateFn: func(ctx context.Context, req llm.GenerateRequest) (llm.GenerateResponse, error) {
			return llm.GenerateResponse{Text: "```json\n{\"summary\": \"adds numbers\", \"complexity\": \"O(1)\"}\n```"}, nil
		},
	}
	a := newTestAgent(provider)

	out := a.Explain(context.Background(), "def add(a, b):\n    return a + b", "")
	require.Equal(t, "adds numbers", out["summary"])
	require.Equal(t, "O(1)", out["complexity"])
}

func TestExplainOfflineDegradesToFallback(t *testing.T) {
	a := newTestAgent(nil)
	require.True(t, a.Offline())

	out := a.Explain(context.Background(), "x = 1\ny = 2\nz = 3\nw = 4\nv = 5", "")

	summary, ok := out["summary"].(string)
	require.True(t, ok)
	require.True(t, strings.HasPrefix(summary, stub.ResponsePrefix))

	comments, ok := out["line_comments"].([]any)
	require.True(t, ok)
	require.Len(t, comments, 4)

	require.Equal(t, "O(n)?? (fallback)", out["complexity"])
	require.Len(t, out["micro_exercises"], 3)
}

func TestExplainFallbackCommentCountTracksShortSources(t *testing.T) {
	a := newTestAgent(nil)

	out := a.Explain(context.Background(), "single line", "")
	comments := out["line_comments"].([]any)
	require.Len(t, comments, 1)

	first := comments[0].(map[string]any)
	require.Equal(t, 1, first["line"])
}

func TestGenerateTestsReturnsRawText(t *testing.T) {
	var seenPrompt string
	provider := &llmmock.Provider{
		GenerateFn: func(ctx context.Context, req llm.GenerateRequest) (llm.GenerateResponse, error) {
			seenPrompt = req.Prompt
			return llm.GenerateResponse{Text: "import pytest\n\ndef test_add():\n    assert add(1, 2) == 3"}, nil
		},
	}
	a := newTestAgent(provider)

	out := a.GenerateTests(context.Background(), "def add(a, b):\n    return a + b", 0, "")
	require.Contains(t, out, "def test_add")
	// zero count falls back to the configured default
	require.Contains(t, seenPrompt, "Create 5 meaningful test cases")
}

func TestGenerateTestsPropagatesErrorText(t *testing.T) {
	provider := &llmmock.Provider{
		GenerateFn: func(ctx context.Context, req llm.GenerateRequest) (llm.GenerateResponse, error) {
			return llm.GenerateResponse{}, llm.ErrorFromHTTPStatus("gemini", 500, "boom")
		},
	}
	a := newTestAgent(provider)

	out := a.GenerateTests(context.Background(), "code", 3, "python")
	require.True(t, strings.HasPrefix(out, ErrTextPrefix))
}

func TestBugHuntStructuredResponse(t *testing.T) {
	provider := &llmmock.Provider{
		GenerateFn: func(ctx context.Context, req llm.GenerateRequest) (llm.GenerateResponse, error) {
			return llm.GenerateResponse{Text: `{"issues": [{"issue": "off by one", "severity": "high"}], "refactor": "use range"}`}, nil
		},
	}
	a := newTestAgent(provider)

	out := a.BugHunt(context.Background(), "for i in range(len(xs) + 1): ...")
	issues := out["issues"].([]any)
	require.Len(t, issues, 1)
	require.Equal(t, "use range", out["refactor"])
}

func TestBugHuntDegradesToFallback(t *testing.T) {
	provider := &llmmock.Provider{
		GenerateFn: func(ctx context.Context, req llm.GenerateRequest) (llm.GenerateResponse, error) {
			return llm.GenerateResponse{Text: "I could not find anything structured to say."}, nil
		},
	}
	a := newTestAgent(provider)

	out := a.BugHunt(context.Background(), "code")
	issues, ok := out["issues"].([]any)
	require.True(t, ok)
	require.Len(t, issues, 1)
	require.Equal(t, "I could not find anything structured to say.", out["refactor"])
}
