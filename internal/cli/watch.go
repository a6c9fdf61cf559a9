package cli

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/quiztree"
	"github.com/aretw0/quiztree/internal/presentation/tui"
	"github.com/aretw0/quiztree/pkg/domain"
	"github.com/aretw0/quiztree/pkg/runner"
)

// RunWatch runs the questionnaire in development mode, restarting the run
// whenever the document changes. The run is persisted, so a restart resumes
// where the respondent was.
func RunWatch(ctx context.Context, opts RunOptions) error {
	logger := CreateLogger(opts.LogLevel, opts.Debug)

	// Default session for watch mode to enable Stateful Hot Reload by default
	// We scope it by path hash to prevent collisions between projects.
	if opts.SessionID == "" {
		hash := md5.Sum([]byte(opts.File))
		opts.SessionID = fmt.Sprintf("watch-%x", hash[:4])
	}
	if opts.Fresh {
		if err := ResetSession(ctx, opts.Config, opts.SessionID); err != nil {
			return err
		}
	}

	engine, err := CreateEngine(opts.File, logger, opts.Debug)
	if err != nil {
		return err
	}
	tui.PrintBanner(stdout, quiztree.Version, engine.Questionnaire().Title)

	p, err := SetupPersistence(ctx, runStoreConfig(opts.Config, opts.SessionID), logger)
	if err != nil {
		return err
	}
	defer p.Close()

	changes, err := engine.Watch(ctx)
	if err != nil {
		return err
	}

	logger.Info("starting watcher", "path", opts.File, "session_id", opts.SessionID)
	printSystemMessage(stdout, "Watching '%s' (session '%s').", opts.File, opts.SessionID)

	// Reuse the same IO handler to avoid multiple Stdin Pumps (ghost readers)
	handler := newIOHandler(opts, stdin, stdout)

	for {
		reload, err := runWatchIteration(ctx, engine, p, opts, handler, changes, logger)
		if err != nil {
			return err
		}
		if !reload {
			return nil
		}
		if err := engine.Reload(ctx); err != nil {
			logger.Error("reload failed, keeping previous questionnaire", "err", err)
			printSystemMessage(stdout, "Reload failed: %v", err)
			continue
		}
		if err := guardSession(ctx, engine, p, opts.SessionID); err != nil {
			return err
		}
		logger.Info("watcher restarting")
	}
}

// runWatchIteration runs until the document changes (reload is true), the
// context ends or the respondent leaves.
func runWatchIteration(ctx context.Context, engine *quiztree.Engine, p *Persistence, opts RunOptions, handler runner.IOHandler, changes <-chan struct{}, logger *slog.Logger) (bool, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	r := runner.NewRunner(
		runner.WithLogger(logger),
		runner.WithStore(p.Store),
		runner.WithSessionID(opts.SessionID),
		runner.WithInputHandler(handler),
	)

	type outcome struct {
		res *domain.Resolution
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := r.Run(runCtx, engine)
		done <- outcome{res, err}
	}()

	select {
	case <-ctx.Done():
		cancel()
		<-done
		return false, nil
	case _, ok := <-changes:
		cancel()
		<-done
		if ok {
			fmt.Fprintln(stdout)
			printSystemMessage(stdout, "Change detected in '%s'.", opts.File)
		}
		return ok, nil
	case out := <-done:
		if out.err != nil && !errors.Is(out.err, context.Canceled) {
			logger.Error("runtime error", "err", out.err)
		}
		if out.res == nil {
			return false, nil
		}
		printSystemMessage(stdout, "Finished. Waiting for changes...")
		select {
		case <-ctx.Done():
			return false, nil
		case _, ok := <-changes:
			if ok {
				// Start over so the edited questionnaire can be tried again.
				_ = p.Store.Delete(ctx, opts.SessionID)
			}
			return ok, nil
		}
	}
}

// guardSession drops a persisted run whose current question no longer
// exists after a reload.
func guardSession(ctx context.Context, engine *quiztree.Engine, p *Persistence, sessionID string) error {
	state, err := p.Store.Load(ctx, sessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := engine.Current(state); err == nil || state.Finished {
		return nil
	}
	printSystemMessage(stdout, "Question '%s' no longer exists, starting over.", state.CurrentQuestionID)
	return p.Store.Delete(ctx, sessionID)
}
