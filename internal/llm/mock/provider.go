package mock

import (
	"context"

	"github.com/shubhamranswal/TechGuru/internal/llm"
)

// Provider is a test double implementing llm.Provider.
type Provider struct {
	NameValue  string
	GenerateFn func(ctx context.Context, req llm.GenerateRequest) (llm.GenerateResponse, error)
	Calls      []llm.GenerateRequest
}

func (p *Provider) Name() string {
	if p.NameValue != "" {
		return p.NameValue
	}
	return "mock"
}

func (p *Provider) Generate(ctx context.Context, req llm.GenerateRequest) (llm.GenerateResponse, error) {
	p.Calls = append(p.Calls, req)
	if p.GenerateFn != nil {
		return p.GenerateFn(ctx, req)
	}
	return llm.GenerateResponse{
		Text:         "mock",
		FinishReason: "stop",
		ProviderName: p.Name(),
		Model:        req.Model,
	}, nil
}
