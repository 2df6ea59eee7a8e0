package agent

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/shubhamranswal/TechGuru/internal/config"
	"github.com/shubhamranswal/TechGuru/internal/llm"
	"github.com/shubhamranswal/TechGuru/internal/llm/stub"
	"github.com/shubhamranswal/TechGuru/internal/observability"
)

// ErrTextPrefix marks orchestration failures surfaced as plain text. Callers
// display these directly; they are values, never raised faults.
const ErrTextPrefix = "[GENAI ERROR] "

// maxBackoffUnits caps the exponential rate-limit backoff.
const maxBackoffUnits = 8

// Orchestrator drives one provider across an ordered candidate-model list,
// classifying each failure to decide retry, skip, or abort. A nil provider
// means no usable credential: every ask then answers from the offline stub.
type Orchestrator struct {
	provider llm.Provider
	logger   *zap.Logger
	metrics  *observability.Metrics

	maxAttempts int
	backoffUnit time.Duration
	retryDelay  time.Duration
}

// NewOrchestrator builds an orchestrator from agent configuration. provider
// may be nil to force the offline path.
func NewOrchestrator(provider llm.Provider, cfg config.AgentConfig, logger *zap.Logger, metrics *observability.Metrics) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	maxAttempts := cfg.MaxAttemptsPerModel
	if maxAttempts <= 0 {
		maxAttempts = 2
	}
	return &Orchestrator{
		provider:    provider,
		logger:      logger,
		metrics:     metrics,
		maxAttempts: maxAttempts,
		backoffUnit: time.Duration(cfg.BackoffUnitSeconds * float64(time.Second)),
		retryDelay:  time.Duration(cfg.RetryDelaySeconds * float64(time.Second)),
	}
}

// Offline reports whether asks are answered by the offline stub.
func (o *Orchestrator) Offline() bool {
	return o.provider == nil
}

// Ask runs the prompt against each candidate model in order until one returns
// text. All remote failures are absorbed here: the result is always a text
// value, possibly an error-describing one, never a raised error.
func (o *Orchestrator) Ask(ctx context.Context, task TaskKind, prompt string, candidates []string) string {
	if o.provider == nil {
		return stub.Render(prompt)
	}

	var lastErr error
models:
	for _, model := range candidates {
		if model == "" {
			continue
		}
		for attempt := 1; attempt <= o.maxAttempts; attempt++ {
			if ctx.Err() != nil {
				return cancelledText(ctx.Err())
			}

			resp, err := o.provider.Generate(ctx, llm.GenerateRequest{Model: model, Prompt: prompt})
			if err == nil {
				o.metrics.RecordModelUsage(string(task), model)
				return resp.Text
			}
			lastErr = err
			if ctx.Err() != nil {
				return cancelledText(ctx.Err())
			}

			class := llm.Classify(err)
			o.metrics.RecordModelFailure(model, class.String())
			o.logger.Warn("model attempt failed",
				zap.String("task", string(task)),
				zap.String("model", model),
				zap.Int("attempt", attempt),
				zap.String("class", class.String()),
				zap.Error(err))

			switch class {
			case llm.FailureModelUnavailable:
				// No further attempts are worth spending on this model.
				o.metrics.RecordFallback(string(task))
				continue models
			case llm.FailureFatal:
				return fmt.Sprintf("%sinvalid request for model=%s: %v", ErrTextPrefix, model, err)
			case llm.FailureRateLimited:
				units := 1 << attempt
				if units > maxBackoffUnits {
					units = maxBackoffUnits
				}
				if !o.pause(ctx, time.Duration(units)*o.backoffUnit) {
					return cancelledText(ctx.Err())
				}
			default:
				if !o.pause(ctx, o.retryDelay) {
					return cancelledText(ctx.Err())
				}
			}
		}
		o.metrics.RecordFallback(string(task))
	}

	return fmt.Sprintf("%sall model attempts failed. last error: %v", ErrTextPrefix, lastErr)
}

// pause sleeps for d unless the context finishes first. Returns false on
// cancellation.
func (o *Orchestrator) pause(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func cancelledText(err error) string {
	return fmt.Sprintf("%scancelled before completion: %v", ErrTextPrefix, err)
}
