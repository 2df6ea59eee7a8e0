// Package scaffold produces deterministic starter-project layouts as
// path-to-content maps. No model call is involved; scaffolds are cheap and
// reproducible.
package scaffold

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shubhamranswal/TechGuru/internal/tools"
)

// Files returns the scaffold for a project in the given language. Unknown
// languages fall back to the python layout.
func Files(projectName, language string) map[string]string {
	if strings.TrimSpace(projectName) == "" {
		projectName = "sample_project"
	}
	switch strings.ToLower(strings.TrimSpace(language)) {
	case "go", "golang":
		return goFiles(projectName)
	default:
		return pythonFiles(projectName)
	}
}

// WriteAll writes a scaffold through the guarded filesystem in path order.
func WriteAll(fs *tools.Filesystem, files map[string]string) error {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		if err := fs.WriteFile(p, files[p]); err != nil {
			return fmt.Errorf("write %s: %w", p, err)
		}
	}
	return nil
}

func pythonFiles(name string) map[string]string {
	return map[string]string{
		name + "/README.md":        fmt.Sprintf("# %s\n\nGenerated by TechGuru scaffold.\n", name),
		name + "/requirements.txt": "pytest\n",
		name + "/src/__init__.py":  "",
		name + "/src/main.py":      "def main():\n    return 'Hello from TechGuru scaffold'\n",
		name + "/tests/test_main.py": "from src.main import main\n\n" +
			"def test_main():\n" +
			"    assert main() == 'Hello from TechGuru scaffold'\n",
		name + "/.github/workflows/ci.yml": "name: CI\n" +
			"on: [push]\n" +
			"jobs:\n" +
			"  test:\n" +
			"    runs-on: ubuntu-latest\n" +
			"    steps:\n" +
			"      - uses: actions/checkout@v4\n" +
			"      - uses: actions/setup-python@v4\n" +
			"        with:\n" +
			"          python-version: '3.10'\n" +
			"      - run: pip install -r requirements.txt\n" +
			"      - run: pytest -q\n",
	}
}

func goFiles(name string) map[string]string {
	return map[string]string{
		name + "/README.md": fmt.Sprintf("# %s\n\nGenerated by TechGuru scaffold.\n", name),
		name + "/go.mod":    fmt.Sprintf("module example.com/%s\n\ngo 1.23\n", name),
		name + "/main.go": "package main\n\nimport \"fmt\"\n\n" +
			"func greeting() string {\n\treturn \"Hello from TechGuru scaffold\"\n}\n\n" +
			"func main() {\n\tfmt.Println(greeting())\n}\n",
		name + "/main_test.go": "package main\n\nimport \"testing\"\n\n" +
			"func TestGreeting(t *testing.T) {\n" +
			"\tif greeting() != \"Hello from TechGuru scaffold\" {\n" +
			"\t\tt.Fatal(\"unexpected greeting\")\n" +
			"\t}\n}\n",
		name + "/.github/workflows/ci.yml": "name: CI\n" +
			"on: [push]\n" +
			"jobs:\n" +
			"  test:\n" +
			"    runs-on: ubuntu-latest\n" +
			"    steps:\n" +
			"      - uses: actions/checkout@v4\n" +
			"      - uses: actions/setup-go@v5\n" +
			"        with:\n" +
			"          go-version: '1.23'\n" +
			"      - run: go test ./...\n",
	}
}
