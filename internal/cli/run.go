package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/quiztree/internal/config"
)

// RunOptions contains all the configuration for the Run command.
type RunOptions struct {
	// File is the questionnaire document, or a directory holding one.
	File      string
	SessionID string
	Fresh     bool
	JSON      bool
	TUI       bool
	Watch     bool
	Debug     bool
	// LogLevel enables logging to stderr; empty keeps the run silent.
	LogLevel string
	Config   config.Config
}

// Execute handles the 'run' command logic, dispatching to Session or Watch mode.
func Execute(ctx context.Context, opts RunOptions) error {
	if opts.Watch && opts.JSON {
		return fmt.Errorf("--watch and --json cannot be used together")
	}
	if opts.TUI && opts.JSON {
		return fmt.Errorf("--tui and --json cannot be used together")
	}

	path, err := ResolveQuestionnairePath(opts.File)
	if err != nil {
		return err
	}
	opts.File = path

	if opts.Watch {
		return RunWatch(ctx, opts)
	}

	if opts.Fresh && opts.SessionID != "" {
		if err := ResetSession(ctx, opts.Config, opts.SessionID); err != nil {
			return err
		}
	}

	_, err = RunSession(ctx, opts)
	return err
}
