package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTerminalExecDisabled(t *testing.T) {
	term := &Terminal{AllowExecution: false}
	_, err := term.Exec(context.Background(), "echo", "hi")
	require.Error(t, err)
	require.Contains(t, err.Error(), "disabled")
}

func TestTerminalExecEcho(t *testing.T) {
	term := &Terminal{AllowExecution: true}
	res, err := term.Exec(context.Background(), "echo", "hello")
	require.NoError(t, err)
	require.Equal(t, 0, res.ExitCode)
	require.Contains(t, res.Stdout, "hello")
}

func TestTerminalDenylist(t *testing.T) {
	term := &Terminal{AllowExecution: true, Denied: []string{"rm"}}
	_, err := term.Exec(context.Background(), "rm", "-rf", "x")
	require.Error(t, err)
	require.Contains(t, err.Error(), "denied")
}

func TestTerminalAllowlist(t *testing.T) {
	term := &Terminal{AllowExecution: true, Allowed: []string{"echo"}}

	_, err := term.Exec(context.Background(), "true")
	require.Error(t, err)
	require.Contains(t, err.Error(), "allowlist")

	res, err := term.Exec(context.Background(), "echo", "ok")
	require.NoError(t, err)
	require.Equal(t, 0, res.ExitCode)
}

func TestTerminalNonZeroExit(t *testing.T) {
	term := &Terminal{AllowExecution: true}
	res, err := term.Exec(context.Background(), "false")
	require.Error(t, err)
	require.Equal(t, 1, res.ExitCode)
}
