package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lexflow/chronicle/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect and validate extraction rules",
}

var rulesValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Compile a rules file and report errors",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}

		rs, err := rules.Load(path)
		if err != nil {
			return err
		}

		zap.L().Info("rules file is valid",
			zap.Int("section_patterns", len(rs.SectionPatterns)),
			zap.Int("date_patterns", len(rs.DatePatterns)),
			zap.Int("event_labels", len(rs.Events)),
		)
		return nil
	},
}

func init() {
	rulesCmd.AddCommand(rulesValidateCmd)
	rootCmd.AddCommand(rulesCmd)
}
