package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/quiztree"
	"github.com/aretw0/quiztree/internal/presentation/tui"
	"github.com/aretw0/quiztree/pkg/domain"
	"github.com/aretw0/quiztree/pkg/runner"
)

// RunSession executes a single questionnaire run on stdin/stdout.
func RunSession(ctx context.Context, opts RunOptions) (*domain.Resolution, error) {
	logger := CreateLogger(opts.LogLevel, opts.Debug)
	quiet := opts.JSON || !runner.IsTerminal(stdout)

	engine, err := CreateEngine(opts.File, logger, opts.Debug)
	if err != nil {
		return nil, err
	}

	if !quiet {
		tui.PrintBanner(stdout, quiztree.Version, engine.Questionnaire().Title)
	}

	p, err := SetupPersistence(ctx, runStoreConfig(opts.Config, opts.SessionID), logger)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	logSessionStatus(stdout, logger, opts.SessionID, quiet)

	r := runner.NewRunner(
		runner.WithLogger(logger),
		runner.WithStore(p.Store),
		runner.WithSessionID(opts.SessionID),
		runner.WithInputHandler(newIOHandler(opts, stdin, stdout)),
	)

	res, err := r.Run(ctx, engine)
	if err := handleExecutionError(err); err != nil {
		return nil, fmt.Errorf("run failed: %w", err)
	}
	if res == nil && !quiet {
		if opts.SessionID != "" {
			printSystemMessage(stdout, "Run paused. Resume with --session %s.", opts.SessionID)
		} else {
			printSystemMessage(stdout, "Run abandoned.")
		}
	}
	return res, nil
}
