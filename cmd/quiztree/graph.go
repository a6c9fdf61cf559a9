package main

import (
	"fmt"

	"github.com/aretw0/quiztree/internal/cli"
	"github.com/aretw0/quiztree/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [file]",
	Short: "Export the question graph visualization",
	Long: `Outputs a Mermaid diagram (graph TD) of the questionnaire. With --session the
questions visited by that run are highlighted.`,
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

		var overlay *graph.GraphOverlay
		if sessionID, _ := cmd.Flags().GetString("session"); sessionID != "" {
			p, err := cli.SetupPersistence(cmd.Context(), sessionStoreConfig(cfg), cli.CreateLogger("", false))
			if err != nil {
				return err
			}
			defer p.Close()
			state, err := p.Store.Load(cmd.Context(), sessionID)
			if err != nil {
				return fmt.Errorf("failed to load session '%s': %w", sessionID, err)
			}
			overlay = graph.OverlayFromState(state)
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(engine.Questionnaire().Graph, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("session", "s", "", "Highlight the questions visited by this session")
}
