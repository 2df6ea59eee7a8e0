package llm

import "context"

// GenerateRequest is the input for a single generation call.
type GenerateRequest struct {
	Model       string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Usage captures token accounting as reported by the provider.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// GenerateResponse is the result of a generation call. Text is always
// populated on a non-error response, even when the provider payload carried
// no recognizable text field.
type GenerateResponse struct {
	Text         string
	FinishReason string
	Usage        Usage
	ProviderName string
	Model        string
}

// Provider defines the contract for generation backends. Implementations make
// exactly one remote call per Generate invocation; retry and fallback policy
// belongs to the caller.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
}
