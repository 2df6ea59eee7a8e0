package agent

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/shubhamranswal/TechGuru/internal/config"
)

// Agent exposes the tutoring tasks. Each task builds its prompt, selects a
// candidate ordering, delegates to the orchestrator, and normalizes the
// result. Structured tasks always return the expected shape: when parsing
// fails they degrade to a deterministic fallback record instead of erroring.
type Agent struct {
	strategy *Strategy
	orch     *Orchestrator
	cfg      config.AgentConfig
	logger   *zap.Logger
}

// New creates the tutoring agent.
func New(strategy *Strategy, orch *Orchestrator, cfg config.AgentConfig, logger *zap.Logger) *Agent {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Agent{strategy: strategy, orch: orch, cfg: cfg, logger: logger}
}

// Offline reports whether tasks are answered by the offline stub.
func (a *Agent) Offline() bool {
	return a.orch.Offline()
}

// Candidates exposes the candidate-model ordering used for a task.
func (a *Agent) Candidates(task TaskKind) []string {
	return a.strategy.Candidates(task)
}

// Explain produces a structured explanation of the source code.
func (a *Agent) Explain(ctx context.Context, source, lang string) map[string]any {
	lang = a.language(lang)
	prompt := buildExplainPrompt(source, lang)
	out := a.orch.Ask(ctx, TaskExplain, prompt, a.strategy.Candidates(TaskExplain))

	if obj, _ := ExtractJSON(out); obj != nil {
		return obj
	}
	a.logger.Debug("explain output was not structured, degrading", zap.String("lang", lang))
	return explainFallback(source, out)
}

// GenerateTests produces a test file for the source module as raw text.
// No structured parsing applies; the orchestrator's fallback behaviour alone
// guards the call.
func (a *Agent) GenerateTests(ctx context.Context, source string, n int, lang string) string {
	if n <= 0 {
		n = a.cfg.DefaultTestCount
	}
	lang = a.language(lang)
	prompt := buildGenerateTestsPrompt(source, n, lang)
	return a.orch.Ask(ctx, TaskGenerateTests, prompt, a.strategy.Candidates(TaskGenerateTests))
}

// BugHunt reviews the source for likely bugs with suggested patches.
func (a *Agent) BugHunt(ctx context.Context, source string) map[string]any {
	prompt := buildBugHuntPrompt(source)
	out := a.orch.Ask(ctx, TaskBugHunt, prompt, a.strategy.Candidates(TaskBugHunt))

	if obj, _ := ExtractJSON(out); obj != nil {
		return obj
	}
	a.logger.Debug("bug hunt output was not structured, degrading")
	return bugHuntFallback(out)
}

func (a *Agent) language(lang string) string {
	if strings.TrimSpace(lang) != "" {
		return lang
	}
	if a.cfg.DefaultLanguage != "" {
		return a.cfg.DefaultLanguage
	}
	return "python"
}

// explainFallback fabricates the deterministic degraded explanation record.
func explainFallback(source, rawText string) map[string]any {
	lines := strings.Split(source, "\n")
	count := len(lines)
	if count > 4 {
		count = 4
	}
	comments := make([]any, 0, count)
	for i := 0; i < count; i++ {
		comments = append(comments, map[string]any{
			"line":    i + 1,
			"comment": "Review this line.",
		})
	}

	return map[string]any{
		"summary":       DegradedText(StripFences(rawText)),
		"line_comments": comments,
		"complexity":    "O(n)?? (fallback)",
		"micro_exercises": []any{
			"Write tests for this function (basic/edge cases).",
			"Refactor to improve readability.",
			"Add input validation.",
		},
	}
}

// bugHuntFallback fabricates the deterministic degraded review record.
func bugHuntFallback(rawText string) map[string]any {
	return map[string]any{
		"issues": []any{
			map[string]any{
				"issue":    "Potential missing input validation",
				"severity": "medium",
				"patch":    "--- a/file\n+++ b/file\n@@\n-    ...\n+    # add validation\n",
			},
		},
		"refactor": DegradedText(StripFences(rawText)),
	}
}
