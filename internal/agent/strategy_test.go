package agent

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shubhamranswal/TechGuru/internal/config"
)

func TestCandidatesDefaultOrder(t *testing.T) {
	s := NewStrategy(config.ModelsConfig{Defaults: []string{"m-lite", "m-flash"}})

	require.Equal(t, []string{"m-lite", "m-flash"}, s.Candidates(TaskExplain))
	require.Equal(t, []string{"m-lite", "m-flash"}, s.Candidates(TaskBugHunt))
}

func TestCandidatesOverridePrecedence(t *testing.T) {
	s := NewStrategy(config.ModelsConfig{
		Override: "forced",
		Deep:     "deep",
		Fast:     "fast",
		Defaults: []string{"m-lite", "m-flash"},
	})

	// deep leads for heavy tasks, then the generic preference order
	require.Equal(t, []string{"deep", "forced", "fast", "m-lite", "m-flash"}, s.Candidates(TaskExplain))
	// generate-tests also tries fast early
	require.Equal(t, []string{"deep", "fast", "forced", "m-lite", "m-flash"}, s.Candidates(TaskGenerateTests))
}

func TestCandidatesDedupesAndDropsBlanks(t *testing.T) {
	s := NewStrategy(config.ModelsConfig{
		Deep:     "same",
		Fast:     "  ",
		Defaults: []string{"same", "", "other", "same"},
	})

	require.Equal(t, []string{"same", "other"}, s.Candidates(TaskGenerateTests))
}
