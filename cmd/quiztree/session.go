package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/quiztree/internal/cli"
	"github.com/aretw0/quiztree/internal/config"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage persistent sessions",
	Long:  `List, inspect, and remove sessions saved by 'run --session' or the HTTP server.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all saved sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openSessions(cmd)
		if err != nil {
			return err
		}
		defer p.Close()

		sessions, err := p.Store.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("error listing sessions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No saved sessions found.")
			return nil
		}

		fmt.Fprintln(out, "Saved Sessions:")
		for _, s := range sessions {
			fmt.Fprintln(out, "- "+s)
		}
		return nil
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Inspect the state of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID := args[0]
		p, err := openSessions(cmd)
		if err != nil {
			return err
		}
		defer p.Close()

		state, err := p.Store.Load(cmd.Context(), sessionID)
		if err != nil {
			return fmt.Errorf("error loading session '%s': %w", sessionID, err)
		}

		// Pretty print JSON
		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling state: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm [session-id]...",
	Short: "Remove one or more sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openSessions(cmd)
		if err != nil {
			return err
		}
		defer p.Close()

		if all, _ := cmd.Flags().GetBool("all"); all {
			args, err = p.Store.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("error listing sessions: %w", err)
			}
		} else if len(args) == 0 {
			return errors.New("requires at least 1 session id, or --all")
		}

		var errs []error
		for _, sessionID := range args {
			if err := p.Store.Delete(cmd.Context(), sessionID); err != nil {
				errs = append(errs, fmt.Errorf("error removing '%s': %w", sessionID, err))
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed session '%s'\n", sessionID)
		}
		return errors.Join(errs...)
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)

	sessionCmd.PersistentFlags().String("store", "", "Session store to manage (default: file, or the config file's store)")
	sessionRmCmd.Flags().Bool("all", false, "Remove every saved session")
}

func openSessions(cmd *cobra.Command) (*cli.Persistence, error) {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return nil, err
	}
	cfg = sessionStoreConfig(cfg)
	if store, _ := cmd.Flags().GetString("store"); store != "" {
		cfg.Session.Store = store
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cli.SetupPersistence(cmd.Context(), cfg, cli.CreateLogger(cfg.LogLevel, false))
}

// sessionStoreConfig points session tooling at the file store unless another
// persistent store is configured; memory sessions never outlive a process.
func sessionStoreConfig(cfg config.Config) config.Config {
	if cfg.Session.Store == config.StoreMemory {
		cfg.Session.Store = config.StoreFile
	}
	return cfg
}
