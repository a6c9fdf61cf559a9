package main

import (
	"fmt"

	"github.com/aretw0/quiztree/internal/cli"
	"github.com/aretw0/quiztree/internal/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check the questionnaire for consistency",
	Long: `Crawls the question graph from the start question and reports dangling next
references, questions without options and cycles. Unreachable questions and
patterns that no trail can produce are reported as warnings.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, args)
		if err != nil {
			return err
		}
		path, err := cli.ResolveQuestionnairePath(cfg.File)
		if err != nil {
			return err
		}
		engine, err := cli.CreateEngine(path, cli.CreateLogger(cfg.LogLevel, false), false)
		if err != nil {
			return err
		}

		q := engine.Questionnaire()
		for _, issue := range validator.Inspect(q) {
			if issue.Severity == validator.SeverityWarning {
				fmt.Fprintln(cmd.OutOrStdout(), issue.String())
			}
		}
		if err := validator.ValidateGraph(q); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Questionnaire is valid! ✅ (%d questions, %d patterns)\n", q.Graph.Len(), q.Patterns.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
