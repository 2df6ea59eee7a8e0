package tools

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shubhamranswal/TechGuru/internal/config"
)

// TestReport captures the outcome of one test-suite run.
type TestReport struct {
	Command  string   `json:"command"`
	ExitCode int      `json:"exit_code"`
	Output   string   `json:"output"`
	Summary  string   `json:"summary,omitempty"`
	Failing  []string `json:"failing,omitempty"`
	Passed   bool     `json:"passed"`
}

// TestRunner executes the configured test command inside the sandbox and
// parses its output.
type TestRunner struct {
	terminal *Terminal
	command  string
	args     []string
	timeout  time.Duration
}

// NewTestRunner builds a runner over the sandbox terminal.
func NewTestRunner(term *Terminal, cfg config.ToolsConfig) *TestRunner {
	return &TestRunner{
		terminal: term,
		command:  cfg.TestCommand,
		args:     append([]string{}, cfg.TestArgs...),
		timeout:  time.Duration(cfg.TestTimeoutSeconds) * time.Second,
	}
}

// Run executes the test suite under projectRoot (relative to the sandbox
// base). A failing suite is a normal report, not an error; errors are
// reserved for runs that could not start at all.
func (r *TestRunner) Run(ctx context.Context, projectRoot string) (TestReport, error) {
	if r.terminal == nil {
		return TestReport{}, fmt.Errorf("terminal is not configured")
	}

	dir := r.terminal.WorkingDir
	if projectRoot != "" {
		// NewPathGuard normalizes an empty working dir to the process cwd.
		guard, err := NewPathGuard(r.terminal.WorkingDir)
		if err != nil {
			return TestReport{}, err
		}
		resolved, err := guard.Resolve(projectRoot)
		if err != nil {
			return TestReport{}, err
		}
		if info, err := os.Stat(resolved); err != nil || !info.IsDir() {
			return TestReport{}, fmt.Errorf("project root not found: %s", projectRoot)
		}
		dir = resolved
	}

	term := *r.terminal
	term.WorkingDir = dir
	if r.timeout > 0 {
		term.Timeout = r.timeout
	}

	res, err := term.Exec(ctx, r.command, r.args...)
	output := res.Stdout
	if res.Stderr != "" {
		output += "\n" + res.Stderr
	}
	if err != nil && res.ExitCode < 0 {
		// The command never produced an exit status (not found, timed out).
		return TestReport{}, fmt.Errorf("run %s: %w", r.command, err)
	}

	summary, failing := ParseTestOutput(output)
	return TestReport{
		Command:  strings.TrimSpace(r.command + " " + strings.Join(r.args, " ")),
		ExitCode: res.ExitCode,
		Output:   output,
		Summary:  summary,
		Failing:  failing,
		Passed:   res.ExitCode == 0,
	}, nil
}
