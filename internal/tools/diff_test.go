package tools

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyUnifiedDiffWritesTarget(t *testing.T) {
	fs, err := NewFilesystem(t.TempDir(), true)
	require.NoError(t, err)

	diff := `--- a/src/main.py
+++ b/src/main.py
@@ -1,2 +1,3 @@
 def main():
+    # validated
     return 1
`
	require.NoError(t, ApplyUnifiedDiff(fs, diff))

	content, err := fs.ReadFile("src/main.py")
	require.NoError(t, err)
	require.Equal(t, "def main():\n    # validated\n    return 1", content)
}

func TestApplyUnifiedDiffMultipleFiles(t *testing.T) {
	fs, err := NewFilesystem(t.TempDir(), true)
	require.NoError(t, err)

	diff := `--- a/one.txt
+++ b/one.txt
@@
+first
--- a/two.txt
+++ b/two.txt
@@
+second
`
	require.NoError(t, ApplyUnifiedDiff(fs, diff))

	one, err := fs.ReadFile("one.txt")
	require.NoError(t, err)
	require.Equal(t, "first", one)

	two, err := fs.ReadFile("two.txt")
	require.NoError(t, err)
	require.Equal(t, "second", two)
}

func TestApplyUnifiedDiffRejectsEmpty(t *testing.T) {
	fs, err := NewFilesystem(t.TempDir(), true)
	require.NoError(t, err)

	require.Error(t, ApplyUnifiedDiff(fs, "   "))
	require.Error(t, ApplyUnifiedDiff(fs, "no headers in here"))
}
