package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/marketing-insights/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "marketing-insights",
	Short: "Marketing analytics from multi-sheet workbook exports",
	Long:  "Loads Similarweb/Semrush marketing workbooks, profiles competitors from keyword overlap, ranks tactics by lift per unit of effort and produces goal-aligned recommendations.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
