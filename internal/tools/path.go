package tools

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var errPathEscape = errors.New("path escapes base directory")

// PathGuard confines file operations to a workspace root. Scaffold writes and
// patch applications resolve every path through it.
type PathGuard struct {
	BaseDir string
}

// NewPathGuard roots a guard at baseDir; an empty baseDir means the current
// working directory.
func NewPathGuard(baseDir string) (*PathGuard, error) {
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		baseDir = wd
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, err
	}
	return &PathGuard{BaseDir: abs}, nil
}

// Resolve turns a workspace-relative path into an absolute one, rejecting
// absolute inputs and anything that would land outside BaseDir.
func (g *PathGuard) Resolve(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", fmt.Errorf("path is required")
	}
	if filepath.IsAbs(p) {
		return "", fmt.Errorf("absolute paths are not allowed: %s", p)
	}

	abs := filepath.Clean(filepath.Join(g.BaseDir, p))
	if abs != g.BaseDir && !strings.HasPrefix(abs, g.BaseDir+string(os.PathSeparator)) {
		return "", errPathEscape
	}
	return abs, nil
}
