package agent

import (
	"encoding/json"
	"regexp"
	"strings"
)

var fenceRe = regexp.MustCompile("```[a-zA-Z0-9_-]*")

// degradedTextLimit bounds how much raw model text a degraded record carries.
const degradedTextLimit = 1000

const truncationMarker = "... [truncated]"

// StripFences removes code-fence markers (with optional language tag) and any
// remaining inline backticks, then trims surrounding whitespace.
func StripFences(text string) string {
	cleaned := fenceRe.ReplaceAllString(text, "")
	cleaned = strings.ReplaceAll(cleaned, "`", "")
	return strings.TrimSpace(cleaned)
}

// ExtractJSON recovers a structured object from raw model text. It tries, in
// order: the whole fence-stripped string, the greedy first-brace-to-last-brace
// substring, and that substring with single quotes repaired to double quotes.
// On success it returns the object and the text that parsed; on failure it
// returns nil and the cleaned text. It never fails with an error: absence of
// a structured result is the nil branch.
func ExtractJSON(text string) (map[string]any, string) {
	cleaned := StripFences(text)

	if obj := tryParseObject(cleaned); obj != nil {
		return obj, cleaned
	}

	start := firstIndexAny(cleaned, '{', '[')
	end := lastIndexAny(cleaned, '}', ']')
	if start < 0 || end <= start {
		return nil, cleaned
	}

	candidate := cleaned[start : end+1]
	if obj := tryParseObject(candidate); obj != nil {
		return obj, candidate
	}

	// One repair heuristic: models frequently emit single-quoted pseudo-JSON.
	repaired := strings.ReplaceAll(candidate, "'", `"`)
	if obj := tryParseObject(repaired); obj != nil {
		return obj, repaired
	}

	return nil, cleaned
}

// DegradedText prepares raw text for a degraded record, truncating oversized
// output with an explicit marker.
func DegradedText(cleaned string) string {
	runes := []rune(cleaned)
	if len(runes) <= degradedTextLimit {
		return cleaned
	}
	return string(runes[:degradedTextLimit]) + truncationMarker
}

func tryParseObject(s string) map[string]any {
	if s == "" {
		return nil
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil
	}
	return obj
}

func firstIndexAny(s string, chars ...byte) int {
	first := -1
	for _, c := range chars {
		if i := strings.IndexByte(s, c); i >= 0 && (first < 0 || i < first) {
			first = i
		}
	}
	return first
}

func lastIndexAny(s string, chars ...byte) int {
	last := -1
	for _, c := range chars {
		if i := strings.LastIndexByte(s, c); i > last {
			last = i
		}
	}
	return last
}
