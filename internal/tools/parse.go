package tools

import (
	"regexp"
	"strings"
)

var (
	pytestFailRe  = regexp.MustCompile(`(?m)^FAILED\s+([^\s]+)`)
	genericFailRe = regexp.MustCompile(`(?i)(FAIL|Error|ERROR):?\s+([A-Za-z0-9_./:-]+)`)
)

// ParseTestOutput extracts a short summary and failing test names from test
// runner output. Pytest-style FAILED lines are preferred; a generic pattern
// catches other runners.
func ParseTestOutput(output string) (string, []string) {
	names := make([]string, 0, 8)
	for _, m := range pytestFailRe.FindAllStringSubmatch(output, -1) {
		names = append(names, strings.TrimSpace(m[1]))
	}
	if len(names) == 0 {
		for _, line := range strings.Split(output, "\n") {
			m := genericFailRe.FindStringSubmatch(line)
			if len(m) >= 3 {
				names = append(names, strings.TrimSpace(m[2]))
			}
		}
	}

	names = unique(names)
	summary := ""
	if len(names) > 0 {
		summary = "Failing tests: " + strings.Join(names, ", ")
	}
	return summary, names
}

func unique(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
