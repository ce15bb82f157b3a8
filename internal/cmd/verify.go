package cmd

import (
	"fmt"
	"strings"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/redraft/redraft/internal/config"
	errwrap "github.com/redraft/redraft/internal/errors"
	"github.com/redraft/redraft/internal/genai"
	"github.com/redraft/redraft/internal/genai/driver/gemini"
	"github.com/redraft/redraft/internal/observability"
)

var verifyAPIKey string

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify an upstream API key",
	Long: `Verify that an API key is accepted by the upstream provider.

Issues one minimal generation probe against the secondary model. The key
comes from --api-key, or from the configured server default when omitted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return errwrap.WrapConfigInvalid(cmd.Context(), err, "configuration invalid")
		}

		key := strings.TrimSpace(verifyAPIKey)
		if key == "" {
			key = strings.TrimSpace(cfg.Upstream.APIKey)
		}
		if key == "" {
			ExitWithCode(observability.CLILogger, foundry.ExitConfigInvalid,
				"No API key provided (use --api-key or set upstream.api_key)", nil)
		}

		client := gemini.NewClient(cfg.Upstream.BaseURL)
		client.Timeout = cfg.Upstream.Timeout

		verifier := genai.NewVerifier(client, cfg.Upstream, observability.CLILogger)
		if err := verifier.Verify(cmd.Context(), key); err != nil {
			fmt.Println("invalid")
			if failure, ok := err.(*genai.Failure); ok {
				fmt.Printf("  class:  %s\n", failure.Class)
				fmt.Printf("  status: %d\n", failure.StatusCode)
				fmt.Printf("  detail: %s\n", failure.Message)
			}
			ExitWithCode(observability.CLILogger, foundry.ExitFailure, "API key verification failed", err)
		}

		fmt.Println("valid")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringVar(&verifyAPIKey, "api-key", "", "API key to verify (defaults to configured key)")
}
