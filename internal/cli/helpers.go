package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/quiztree/internal/logging"
	"github.com/aretw0/quiztree/internal/presentation/tui"
	"github.com/aretw0/quiztree/pkg/domain"
	"github.com/aretw0/quiztree/pkg/runner"
)

// CreateLogger configures the application logger.
// In debug mode, it writes to Stderr (to separate from Stdout flow UI).
// Without a level the logger is silent.
func CreateLogger(level string, debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	if level == "" {
		return logging.NewNop()
	}
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	return logging.New(lvl)
}

func nopLogger() *slog.Logger {
	return logging.NewNop()
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func logSessionStatus(w io.Writer, logger *slog.Logger, sessionID string, quiet bool) {
	if sessionID == "" {
		return
	}
	logger.Info("session active", "session_id", sessionID)
	if !quiet {
		printSystemMessage(w, "Session '%s' active.", sessionID)
	}
}

// newIOHandler picks the presenter for a run.
func newIOHandler(opts RunOptions, in io.Reader, out io.Writer) runner.IOHandler {
	switch {
	case opts.JSON:
		return runner.NewJSONHandler(in, out)
	case opts.TUI:
		return tui.NewPickerHandler(in, out).WithRenderer(tui.NewRenderer())
	}

	var textOpts []runner.TextHandlerOption
	if runner.IsTerminal(out) {
		textOpts = append(textOpts,
			runner.WithTextHandlerRenderer(tui.NewRenderer()),
			runner.WithTextHandlerFormatter(tui.NewResultFormatter(out)),
		)
	}
	return runner.NewTextHandler(in, out, textOpts...)
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnQuestionEnter: func(ctx context.Context, e *domain.QuestionEvent) {
			logger.Debug("Enter Question", "question_id", e.QuestionID)
		},
		OnAnswer: func(ctx context.Context, e *domain.AnswerEvent) {
			logger.Debug("Answer", "question_id", e.QuestionID, "option", e.OptionKey, "value", e.Value)
		},
		OnFinish: func(ctx context.Context, e *domain.AnswerEvent) {
			logger.Debug("Finish", "question_id", e.QuestionID)
		},
		OnResolve: func(ctx context.Context, e *domain.ResolveEvent) {
			logger.Debug("Resolve", "key", e.Key, "tier", e.Tier)
		},
	}
}

func isInterrupted(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, io.EOF)
}

func handleExecutionError(err error) error {
	if err == nil {
		return nil
	}
	if isInterrupted(err) {
		return nil // Exit 0 for interruptions
	}
	return err
}

var stdout io.Writer = os.Stdout
var stdin io.Reader = os.Stdin
