package agent

import (
	"strings"

	"github.com/shubhamranswal/TechGuru/internal/config"
)

// TaskKind identifies one of the tutoring tasks.
type TaskKind string

const (
	TaskExplain       TaskKind = "explain"
	TaskGenerateTests TaskKind = "generate-tests"
	TaskBugHunt       TaskKind = "bug-hunt"
)

// Strategy builds ordered candidate-model lists per task. It is a pure
// function over the read-only models configuration: no network, no
// filesystem, safe for concurrent use.
type Strategy struct {
	cfg config.ModelsConfig
}

// NewStrategy builds a strategy selector.
func NewStrategy(cfg config.ModelsConfig) *Strategy {
	return &Strategy{cfg: cfg}
}

// Candidates returns the candidate ordering for a task: the task-specific
// override(s) first (deep for heavy tasks, deep then fast for token-heavy
// tasks), then the generic preference order. Blank identifiers are dropped
// and only the first occurrence of a model survives.
func (s *Strategy) Candidates(task TaskKind) []string {
	var lead []string
	switch task {
	case TaskGenerateTests:
		lead = []string{s.cfg.Deep, s.cfg.Fast}
	default:
		lead = []string{s.cfg.Deep}
	}

	seen := make(map[string]struct{})
	out := make([]string, 0, len(lead)+4)
	appendID := func(id string) {
		id = strings.TrimSpace(id)
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	for _, id := range lead {
		appendID(id)
	}
	for _, id := range s.cfg.Preferred() {
		appendID(id)
	}
	return out
}
