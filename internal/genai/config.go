package genai

import (
	"time"

	"github.com/redraft/redraft/internal/genai/driver"
)

// Config defines upstream provider configuration.
type Config struct {
	BaseURL string `mapstructure:"base_url"`

	// APIKey is the process-wide default credential, loaded once at
	// startup. Callers may override it per request.
	APIKey string `mapstructure:"api_key"`

	Timeout       time.Duration `mapstructure:"timeout"`
	VerifyTimeout time.Duration `mapstructure:"verify_timeout"`

	// MaxRPS bounds the outbound request rate to the provider. 0 disables
	// the pacer.
	MaxRPS float64 `mapstructure:"max_rps"`

	Primary   ModelConfig `mapstructure:"primary"`
	Secondary ModelConfig `mapstructure:"secondary"`
}

// ModelConfig names a model and its sampling tuple. The primary model is
// tuned for stylistic variance; the secondary (cheaper, higher-quota)
// fallback runs slightly lower variance.
type ModelConfig struct {
	Name        string  `mapstructure:"name"`
	Temperature float64 `mapstructure:"temperature"`
	TopP        float64 `mapstructure:"top_p"`
	TopK        int     `mapstructure:"top_k"`
}

// Sampling converts the model config into a driver sampling config.
func (m ModelConfig) Sampling() *driver.SamplingConfig {
	return &driver.SamplingConfig{
		Temperature: m.Temperature,
		TopP:        m.TopP,
		TopK:        m.TopK,
	}
}
