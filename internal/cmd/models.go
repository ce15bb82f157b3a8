package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/redraft/redraft/internal/config"
	errwrap "github.com/redraft/redraft/internal/errors"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Show the configured model chain",
	Long:  "Show the primary and fallback models with their sampling parameters.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return errwrap.WrapConfigInvalid(cmd.Context(), err, "configuration invalid")
		}

		t := table.NewWriter()
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{"Role", "Model", "Temperature", "Top-P", "Top-K"})
		t.AppendRow(table.Row{
			"primary",
			cfg.Upstream.Primary.Name,
			cfg.Upstream.Primary.Temperature,
			cfg.Upstream.Primary.TopP,
			cfg.Upstream.Primary.TopK,
		})
		t.AppendRow(table.Row{
			"fallback",
			cfg.Upstream.Secondary.Name,
			cfg.Upstream.Secondary.Temperature,
			cfg.Upstream.Secondary.TopP,
			cfg.Upstream.Secondary.TopK,
		})

		fmt.Println(t.Render())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
