package main

import (
	"github.com/aretw0/quiztree/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Answer the questionnaire interactively",
	Long: `Asks the questions of the questionnaire one at a time. Answer with the option
key, its number or its label. Type 'back' to revisit the previous question and
'exit' to leave; named sessions (--session) are saved after every answer.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, args)
		if err != nil {
			return err
		}

		opts := cli.RunOptions{
			File:   cfg.File,
			Config: cfg,
		}
		opts.SessionID, _ = cmd.Flags().GetString("session")
		opts.Fresh, _ = cmd.Flags().GetBool("fresh")
		opts.JSON, _ = cmd.Flags().GetBool("json")
		opts.TUI, _ = cmd.Flags().GetBool("tui")
		opts.Watch, _ = cmd.Flags().GetBool("watch")
		opts.Debug, _ = cmd.Flags().GetBool("debug")
		if cmd.Flags().Changed("log-level") {
			opts.LogLevel = cfg.LogLevel
		}

		return cli.Execute(cmd.Context(), opts)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("session", "s", "", "Session ID to save and resume the run")
	runCmd.Flags().Bool("fresh", false, "Discard the saved run of --session before starting")
	runCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON input/output)")
	runCmd.Flags().Bool("tui", false, "Pick options with the arrow keys")
	runCmd.Flags().BoolP("watch", "w", false, "Restart the run when the questionnaire file changes")
	runCmd.Flags().Bool("debug", false, "Log lifecycle events to stderr")

	// Make 'run' the default if no command is provided
	rootCmd.RunE = runCmd.RunE
	rootCmd.Args = runCmd.Args
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
