package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lexflow/chronicle/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "chronicle",
	Short: "Legal-case chronology extraction pipeline",
	Long:  "Extracts dated events from case files (PDF, DOCX, TXT) using pattern rules, escalates low-confidence passages to Claude, and emits a merged chronology table.",
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
