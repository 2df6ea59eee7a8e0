package tools

import (
	"fmt"
	"strings"
)

// ApplyUnifiedDiff applies a minimal unified diff through the guarded
// filesystem. It is intentionally naive: hunks are not position-checked, the
// target file is rewritten from the context and added lines. Suitable only
// for the small single-file patches the bug hunter suggests.
func ApplyUnifiedDiff(fs *Filesystem, diffText string) error {
	if fs == nil {
		return fmt.Errorf("filesystem is not configured")
	}
	if strings.TrimSpace(diffText) == "" {
		return fmt.Errorf("diff is empty")
	}

	lines := strings.Split(diffText, "\n")
	applied := 0
	i := 0
	for i < len(lines) {
		if !strings.HasPrefix(lines[i], "--- ") {
			i++
			continue
		}
		if i+1 >= len(lines) || !strings.HasPrefix(lines[i+1], "+++ ") {
			i++
			continue
		}

		target := strings.TrimSpace(lines[i+1][4:])
		target = strings.TrimPrefix(strings.TrimPrefix(target, "a/"), "b/")
		i += 2

		content := make([]string, 0, 32)
		for i < len(lines) && !strings.HasPrefix(lines[i], "--- ") {
			ln := lines[i]
			switch {
			case strings.HasPrefix(ln, "+++"):
				// stray header, skip
			case strings.HasPrefix(ln, "+"):
				content = append(content, ln[1:])
			case strings.HasPrefix(ln, " "):
				content = append(content, ln[1:])
			}
			i++
		}

		if err := fs.WriteFile(target, strings.Join(content, "\n")); err != nil {
			return fmt.Errorf("apply patch to %s: %w", target, err)
		}
		applied++
	}

	if applied == 0 {
		return fmt.Errorf("no file headers found in diff")
	}
	return nil
}
