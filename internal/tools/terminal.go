package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Terminal executes commands under allow/deny lists and a timeout. The test
// runner is its only production caller; everything else goes through the
// guarded filesystem.
type Terminal struct {
	WorkingDir     string
	Allowed        []string
	Denied         []string
	Timeout        time.Duration
	AllowExecution bool
}

// ExecResult carries output and status code.
type ExecResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Exec runs a command if allowed by configuration.
func (t *Terminal) Exec(ctx context.Context, command string, args ...string) (ExecResult, error) {
	if !t.AllowExecution {
		return ExecResult{}, errors.New("execution disabled by configuration")
	}
	if command == "" {
		return ExecResult{}, fmt.Errorf("command is required")
	}
	if err := t.checkPolicy(command); err != nil {
		return ExecResult{}, err
	}

	timeout := t.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, command, args...)
	if t.WorkingDir != "" {
		cmd.Dir = t.WorkingDir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	res := ExecResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode(err),
	}

	if err != nil {
		return res, err
	}
	return res, nil
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	if err != nil {
		return -1
	}
	return 0
}

// checkPolicy applies the deny list first, then the allow list when one is
// configured. An empty allow list permits everything not denied.
func (t *Terminal) checkPolicy(cmd string) error {
	lower := strings.ToLower(cmd)
	for _, deny := range t.Denied {
		if lower == strings.ToLower(deny) {
			return fmt.Errorf("command %q is denied", cmd)
		}
	}
	if len(t.Allowed) == 0 {
		return nil
	}
	for _, allow := range t.Allowed {
		if lower == strings.ToLower(allow) {
			return nil
		}
	}
	return fmt.Errorf("command %q is not in allowlist", cmd)
}
