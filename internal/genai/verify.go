package genai

import (
	"context"
	"time"

	"github.com/fulmenhq/gofulmen/logging"
	"go.uber.org/zap"

	"github.com/redraft/redraft/internal/genai/driver"
	"github.com/redraft/redraft/internal/metrics"
)

// verifyPrompt is the fixed trivial probe. It only needs to elicit any
// response; content is irrelevant.
const verifyPrompt = `Reply with the single word "ok".`

const defaultVerifyTimeout = 8 * time.Second

// Verifier validates that a caller-supplied credential is usable. It is
// independent of the rewrite fallback cycle: one bounded probe against the
// secondary (cheap) model, no system instruction.
type Verifier struct {
	drv    driver.Driver
	cfg    Config
	logger *logging.Logger
}

// NewVerifier returns a credential verifier.
func NewVerifier(drv driver.Driver, cfg Config, logger *logging.Logger) *Verifier {
	return &Verifier{drv: drv, cfg: cfg, logger: logger}
}

// Verify issues the probe call. Any failure means the key is unusable; the
// classified detail is logged here and the error returned so the boundary
// can collapse it to a boolean.
func (v *Verifier) Verify(ctx context.Context, apiKey string) error {
	timeout := v.cfg.VerifyTimeout
	if timeout <= 0 {
		timeout = defaultVerifyTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	_, err := v.drv.Generate(ctx, &driver.Request{
		Model:  v.cfg.Secondary.Name,
		Prompt: verifyPrompt,
		APIKey: apiKey,
	})
	if err == nil {
		metrics.RecordVerification(true)
		return nil
	}

	failure := Classify(err)
	if v.logger != nil {
		v.logger.Warn("credential verification failed",
			zap.String("model", v.cfg.Secondary.Name),
			zap.String("class", string(failure.Class)),
			zap.Int("status", failure.StatusCode),
			zap.String("detail", failure.Message))
	}
	metrics.RecordVerification(false)
	return failure
}
