package tools

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// Filesystem provides safe file operations rooted at a base directory. The
// scaffolder and patch tool write through it so generated files can never
// escape the workspace.
type Filesystem struct {
	guard      *PathGuard
	allowWrite bool
}

// NewFilesystem builds a filesystem tool with write permissions controlled by allowWrite.
func NewFilesystem(baseDir string, allowWrite bool) (*Filesystem, error) {
	guard, err := NewPathGuard(baseDir)
	if err != nil {
		return nil, err
	}
	return &Filesystem{guard: guard, allowWrite: allowWrite}, nil
}

// BaseDir returns the guarded root directory.
func (f *Filesystem) BaseDir() string {
	return f.guard.BaseDir
}

// ReadFile returns file contents as string.
func (f *Filesystem) ReadFile(path string) (string, error) {
	resolved, err := f.guard.Resolve(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteFile writes content to a file if allowed, creating parent directories.
func (f *Filesystem) WriteFile(path string, content string) error {
	if !f.allowWrite {
		return errors.New("write is disabled by configuration")
	}
	resolved, err := f.guard.Resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return err
	}
	return os.WriteFile(resolved, []byte(content), 0o644)
}

// Stat returns file info for a path inside the guard.
func (f *Filesystem) Stat(path string) (fs.FileInfo, error) {
	resolved, err := f.guard.Resolve(path)
	if err != nil {
		return nil, err
	}
	return os.Stat(resolved)
}

// ListDir lists entries in a directory.
func (f *Filesystem) ListDir(path string) ([]fs.DirEntry, error) {
	resolved, err := f.guard.Resolve(path)
	if err != nil {
		return nil, err
	}
	return os.ReadDir(resolved)
}
