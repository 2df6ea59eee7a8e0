package tools

import (
	"fmt"
	"strings"
	"time"

	"github.com/shubhamranswal/TechGuru/internal/config"
)

// Sandbox constructs configured tool instances based on sandbox/tools config.
type Sandbox struct {
	FS       *Filesystem
	Terminal *Terminal
}

var defaultNetworkDenied = []string{
	"curl", "wget", "ping", "nc", "netcat", "telnet", "ssh", "scp", "sftp",
}

// NewSandbox builds filesystem and terminal tools respecting config flags.
// The test command is always allowed so review runs work under a restrictive
// allowlist.
func NewSandbox(baseDir string, sandboxCfg config.SandboxConfig, toolsCfg config.ToolsConfig) (*Sandbox, error) {
	fsTool, err := NewFilesystem(baseDir, sandboxCfg.AllowWrite && toolsCfg.AllowFileWrite)
	if err != nil {
		return nil, fmt.Errorf("build filesystem tool: %w", err)
	}

	denied := append([]string{}, sandboxCfg.DeniedCommands...)
	if !sandboxCfg.AllowNetwork {
		denied = append(denied, defaultNetworkDenied...)
	}

	allowed := append([]string{}, sandboxCfg.AllowedCommands...)
	if len(allowed) > 0 && strings.TrimSpace(toolsCfg.TestCommand) != "" {
		allowed = append(allowed, toolsCfg.TestCommand)
	}

	term := &Terminal{
		WorkingDir:     baseDir,
		Allowed:        dedupeStrings(allowed),
		Denied:         dedupeStrings(denied),
		Timeout:        time.Duration(sandboxCfg.TimeoutSeconds) * time.Second,
		AllowExecution: toolsCfg.AllowExec && sandboxCfg.Enabled,
	}

	return &Sandbox{
		FS:       fsTool,
		Terminal: term,
	}, nil
}

func dedupeStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		lower := strings.ToLower(v)
		if _, ok := seen[lower]; ok {
			continue
		}
		seen[lower] = struct{}{}
		out = append(out, v)
	}
	return out
}
