package agent

import (
	"fmt"
	"strings"
)

// buildExplainPrompt asks for a structured explanation of the source.
func buildExplainPrompt(source, lang string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a senior software instructor. Language: %s.\n\n", lang)
	b.WriteString("Given the following source code, produce JSON with keys:\n")
	b.WriteString("- summary: 3-sentence high-level summary for a student\n")
	b.WriteString("- line_comments: list of objects {line:int, comment:str} for important lines only\n")
	b.WriteString("- complexity: time/space complexity (informal)\n")
	b.WriteString("- micro_exercises: 3 short practice problems inspired by this code (one-liners)\n\n")
	b.WriteString("Return only valid JSON.\n\n")
	fmt.Fprintf(&b, "Source code:\n'''%s'''\n", source)
	return b.String()
}

// buildGenerateTestsPrompt asks for a complete test file.
func buildGenerateTestsPrompt(source string, n int, lang string) string {
	var b strings.Builder
	b.WriteString("You are an expert test author. Given the following code module, produce a test file.\n")
	fmt.Fprintf(&b, "Language: %s. Create %d meaningful test cases covering normal and edge cases.\n", lang, n)
	b.WriteString("Return only the content of the test file.\n\n")
	fmt.Fprintf(&b, "Module:\n'''%s'''\n", source)
	return b.String()
}

// buildBugHuntPrompt asks for issues with suggested fixes as unified diffs.
func buildBugHuntPrompt(source string) string {
	var b strings.Builder
	b.WriteString("You are a careful code reviewer. Read the code and:\n")
	b.WriteString("1) List up to 5 possible bugs or anti-patterns with severity (low/med/high).\n")
	b.WriteString("2) For each, provide a suggested fix as a unified diff (---/+++ style) if possible.\n")
	b.WriteString("Return JSON with keys: issues (list) and refactor (short paragraph).\n\n")
	fmt.Fprintf(&b, "Code:\n'''%s'''\n", source)
	return b.String()
}
