package genai

import (
	"context"
	"fmt"

	"github.com/fulmenhq/gofulmen/logging"
	"go.uber.org/zap"

	"github.com/redraft/redraft/internal/genai/driver"
	"github.com/redraft/redraft/internal/genai/prompt"
	"github.com/redraft/redraft/internal/metrics"
)

// rewritePromptSlug names the embedded system instruction for the rewrite
// flow. The instruction is configuration data, not logic.
const rewritePromptSlug = "rewrite"

// Rewriter orchestrates one rewrite cycle: resolve the credential, attempt
// the primary model, and on quota exhaustion only, retry exactly once
// against the secondary model. Every other failure propagates unchanged.
//
// Rationale: quota exhaustion on the flagship model is the one failure mode
// cheap to route around immediately with a nearly-equivalent model. Auth and
// malformed-input failures are caller errors and retrying would only add
// latency.
type Rewriter struct {
	drv    driver.Driver
	cfg    Config
	system string
	logger *logging.Logger
}

// NewRewriter resolves the rewrite system instruction from the prompt
// registry and returns a ready orchestrator.
func NewRewriter(drv driver.Driver, cfg Config, prompts prompt.Registry, logger *logging.Logger) (*Rewriter, error) {
	if drv == nil {
		return nil, fmt.Errorf("driver is required")
	}

	def, err := prompts.Get(rewritePromptSlug)
	if err != nil {
		return nil, fmt.Errorf("resolve rewrite prompt: %w", err)
	}

	return &Rewriter{
		drv:    drv,
		cfg:    cfg,
		system: def.Config.SystemTemplate,
		logger: logger,
	}, nil
}

// Rewrite runs one fallback cycle and returns the rewritten text. Failures
// come back as *Failure (classified), or ErrMissingCredential when no
// credential is resolvable.
func (rw *Rewriter) Rewrite(ctx context.Context, text, requestKey string) (string, error) {
	credential, err := ResolveCredential(requestKey, rw.cfg.APIKey)
	if err != nil {
		return "", err
	}

	resp, err := rw.attempt(ctx, rw.cfg.Primary, credential, text)
	if err == nil {
		metrics.RecordRewrite(rw.cfg.Primary.Name, true)
		return resp.Text, nil
	}

	failure := Classify(err)
	rw.logFailure("primary generation failed", rw.cfg.Primary.Name, failure)
	metrics.RecordRewrite(rw.cfg.Primary.Name, false)

	if failure.Class != ClassQuotaExhausted {
		return "", failure
	}

	// Secondary attempt is final: its outcome propagates with its own
	// classification, never re-labeled as the primary's.
	metrics.RecordFallback(rw.cfg.Secondary.Name)
	resp, err = rw.attempt(ctx, rw.cfg.Secondary, credential, text)
	if err == nil {
		metrics.RecordRewrite(rw.cfg.Secondary.Name, true)
		return resp.Text, nil
	}

	failure = Classify(err)
	rw.logFailure("secondary generation failed", rw.cfg.Secondary.Name, failure)
	metrics.RecordRewrite(rw.cfg.Secondary.Name, false)
	return "", failure
}

func (rw *Rewriter) attempt(ctx context.Context, model ModelConfig, credential, text string) (*driver.Response, error) {
	return rw.drv.Generate(ctx, &driver.Request{
		Model:             model.Name,
		Prompt:            text,
		SystemInstruction: rw.system,
		Sampling:          model.Sampling(),
		APIKey:            credential,
	})
}

func (rw *Rewriter) logFailure(msg, model string, failure *Failure) {
	if rw.logger == nil || failure == nil {
		return
	}
	rw.logger.Warn(msg,
		zap.String("model", model),
		zap.String("class", string(failure.Class)),
		zap.Int("status", failure.StatusCode),
		zap.String("detail", failure.Message))
}
