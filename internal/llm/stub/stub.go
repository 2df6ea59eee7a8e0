// Package stub provides the deterministic offline substitute for remote
// generation. It is used whenever no credential is configured and as the
// basis for reproducible tests.
package stub

import (
	"context"
	"strings"

	"github.com/shubhamranswal/TechGuru/internal/llm"
)

// ResponsePrefix marks stub output so callers and tests can recognize it.
const ResponsePrefix = "[FALLBACK] Simulated response (prompt head): "

// promptHeadLen bounds how much of the prompt is echoed back.
const promptHeadLen = 300

// Render returns the fixed-format stub text for a prompt: the marker prefix
// followed by the first 300 characters with newlines collapsed to spaces.
func Render(prompt string) string {
	head := prompt
	if runes := []rune(head); len(runes) > promptHeadLen {
		head = string(runes[:promptHeadLen])
	}
	head = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(head)
	return ResponsePrefix + head
}

// Provider implements llm.Provider without any I/O.
type Provider struct{}

func (Provider) Name() string { return "stub" }

func (Provider) Generate(_ context.Context, req llm.GenerateRequest) (llm.GenerateResponse, error) {
	return llm.GenerateResponse{
		Text:         Render(req.Prompt),
		FinishReason: "stop",
		ProviderName: "stub",
		Model:        req.Model,
	}, nil
}
