package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/aretw0/quiztree"
	"github.com/aretw0/quiztree/internal/logging"
	"github.com/aretw0/quiztree/pkg/domain"
	"github.com/aretw0/quiztree/pkg/ports"
	"github.com/google/uuid"
)

// Commands understood by the runner in addition to option selections.
// An option whose key is exactly a command word shadows that command on
// its question.
const (
	CommandBack = "back"
	CommandExit = "exit"
	CommandQuit = "quit"
)

// Runner drives a questionnaire run through an IOHandler until it finishes.
type Runner struct {
	// Handler is the strategy for IO. Defaults to a TextHandler on Stdin/Stdout.
	Handler IOHandler

	// Logger is used for internal debug logging.
	Logger *slog.Logger

	// Store persists the run after every answer so it can be resumed.
	// If nil, runs are ephemeral.
	Store ports.StateStore

	// SessionID identifies the run in Store. A random one is used if empty.
	SessionID string
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run asks questions until the run finishes and returns the resolved result.
// It returns a nil resolution and a nil error when the respondent leaves early
// (end of input, "exit" or "quit"); a persisted run can then be resumed.
func (r *Runner) Run(ctx context.Context, engine *quiztree.Engine) (*domain.Resolution, error) {
	handler := r.resolveHandler()

	state, err := r.resolveInitialState(ctx, engine)
	if err != nil {
		return nil, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if state.Finished {
			res := engine.Resolve(ctx, state)
			if err := handler.Result(ctx, res); err != nil {
				return nil, fmt.Errorf("output error: %w", err)
			}
			return &res, nil
		}

		q, err := engine.Current(state)
		if err != nil {
			return nil, err
		}
		if err := handler.Question(ctx, q, len(state.Trail)+1); err != nil {
			return nil, fmt.Errorf("output error: %w", err)
		}

		input, err := handler.Input(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				r.Logger.Debug("input closed, leaving run", "session_id", state.SessionID)
				return nil, nil
			}
			return nil, fmt.Errorf("input error: %w", err)
		}

		switch command(q, input) {
		case CommandExit, CommandQuit:
			return nil, nil
		case CommandBack:
			prev, err := engine.Back(ctx, state)
			if errors.Is(err, domain.ErrInvalidState) {
				_ = handler.SystemOutput(ctx, "Already at the first question.")
				continue
			}
			if err != nil {
				return nil, err
			}
			state = prev
			if err := r.saveState(ctx, state); err != nil {
				return nil, err
			}
			continue
		}

		key, ok := SelectOption(q, input)
		if !ok {
			_ = handler.SystemOutput(ctx, fmt.Sprintf("Unknown option %q. Choose one of: %s.",
				input, strings.Join(q.OptionKeys(), ", ")))
			continue
		}

		next, _, err := engine.Advance(ctx, state, key)
		if err != nil {
			return nil, fmt.Errorf("navigation error: %w", err)
		}
		state = next

		if err := r.saveState(ctx, state); err != nil {
			return nil, fmt.Errorf("critical persistence error: %w", err)
		}
	}
}

// command returns the navigation command named by input, or "" when input
// is not a command or is shadowed by an option key of q.
func command(q domain.Question, input string) string {
	if _, ok := q.Option(input); ok {
		return ""
	}
	switch cmd := strings.ToLower(input); cmd {
	case CommandBack, CommandExit, CommandQuit:
		return cmd
	}
	return ""
}

// SelectOption maps respondent input to an option key. An exact key wins over
// a 1-based option number, which wins over a case-insensitive key or label.
func SelectOption(q domain.Question, input string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false
	}
	if opt, ok := q.Option(input); ok {
		return opt.Key, true
	}
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(q.Options) {
		return q.Options[n-1].Key, true
	}
	for _, opt := range q.Options {
		if strings.EqualFold(opt.Key, input) || strings.EqualFold(opt.Label, input) {
			return opt.Key, true
		}
	}
	return "", false
}

func (r *Runner) saveState(ctx context.Context, state *domain.State) error {
	if r.Store == nil || r.SessionID == "" {
		return nil
	}
	if err := r.Store.Save(ctx, r.SessionID, state); err != nil {
		return err
	}
	r.Logger.Debug("state saved", "session_id", r.SessionID, "question_id", state.CurrentQuestionID)
	return nil
}

// resolveHandler ensures a valid IOHandler is set.
func (r *Runner) resolveHandler() IOHandler {
	if r.Handler == nil {
		r.Handler = NewTextHandler(os.Stdin, os.Stdout)
	}
	return r.Handler
}

// resolveInitialState resumes the stored run for SessionID or starts a new one.
func (r *Runner) resolveInitialState(ctx context.Context, engine *quiztree.Engine) (*domain.State, error) {
	if r.Logger == nil {
		r.Logger = logging.NewNop()
	}
	sessionID := r.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	if r.Store != nil && r.SessionID != "" {
		state, err := r.Store.Load(ctx, r.SessionID)
		if err == nil {
			r.Logger.Debug("session resumed", "session_id", r.SessionID, "question_id", state.CurrentQuestionID)
			return state, nil
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return nil, fmt.Errorf("failed to load session %s: %w", r.SessionID, err)
		}
	}

	state := engine.Start(ctx, sessionID)
	if err := r.saveState(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to initialize session %s: %w", sessionID, err)
	}
	return state, nil
}
