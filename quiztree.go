package quiztree

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/quiztree/internal/logging"
	"github.com/aretw0/quiztree/internal/runtime"
	"github.com/aretw0/quiztree/pkg/adapters/file"
	"github.com/aretw0/quiztree/pkg/adapters/loam"
	"github.com/aretw0/quiztree/pkg/domain"
	"github.com/aretw0/quiztree/pkg/ports"
	"go.uber.org/atomic"
)

// ErrNotWatchable is returned by Watch when the loader cannot report changes.
var ErrNotWatchable = errors.New("current loader does not support watching")

// Engine is the high-level entry point for the quiztree library.
//
// It is stateless with respect to runs: every call takes the run's State and
// returns a new one, so a single Engine can serve any number of sessions.
// The questionnaire itself can be swapped at runtime with Reload.
type Engine struct {
	loader        ports.QuestionnaireLoader
	questionnaire *atomic.Pointer[domain.Questionnaire]
	hooks         domain.LifecycleHooks
	logger        *slog.Logger
	Name          string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLoader injects a custom QuestionnaireLoader, bypassing the file loader.
func WithLoader(l ports.QuestionnaireLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New loads the questionnaire document at path (YAML or JSON).
// If WithLoader is provided, path is only used as a descriptive name.
func New(path string, opts ...Option) (*Engine, error) {
	eng := &Engine{
		questionnaire: atomic.NewPointer[domain.Questionnaire](nil),
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	if eng.loader == nil {
		loader, err := defaultLoader(path, eng.logger)
		if err != nil {
			return nil, err
		}
		eng.loader = loader
	}
	if path != "" {
		eng.Name = filepath.Base(path)
		eng.logger = eng.logger.With("questionnaire", eng.Name)
	}

	if err := eng.Reload(context.Background()); err != nil {
		return nil, err
	}
	return eng, nil
}

// defaultLoader reads a directory of question documents through loam and
// anything else as a single questionnaire file.
func defaultLoader(path string, logger *slog.Logger) (ports.QuestionnaireLoader, error) {
	if path == "" {
		return nil, fmt.Errorf("path is required when no custom loader is provided")
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return loam.Open(path)
	}
	return file.NewLoader(path, file.WithLogger(logger)), nil
}

// Questionnaire returns the questionnaire currently in use.
func (e *Engine) Questionnaire() *domain.Questionnaire {
	return e.questionnaire.Load()
}

// Reload asks the loader for a fresh questionnaire and swaps it in.
// On error the previous questionnaire stays active.
func (e *Engine) Reload(ctx context.Context) error {
	q, err := e.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load questionnaire: %w", err)
	}
	if q == nil || q.Graph == nil {
		return fmt.Errorf("failed to load questionnaire: loader returned no graph")
	}
	e.questionnaire.Store(q)
	e.logger.Debug("questionnaire loaded", "questions", q.Graph.Len(), "patterns", q.Patterns.Len())
	return nil
}

// Watch returns a channel that signals when the underlying document changes.
func (e *Engine) Watch(ctx context.Context) (<-chan struct{}, error) {
	if w, ok := e.loader.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, ErrNotWatchable
}

// AutoReload reloads the questionnaire on every change until ctx is done.
// Reload failures are logged and the previous questionnaire is kept.
func (e *Engine) AutoReload(ctx context.Context) error {
	changes, err := e.Watch(ctx)
	if err != nil {
		return err
	}
	for range changes {
		if err := e.Reload(ctx); err != nil {
			e.logger.Warn("hot reload failed, keeping previous questionnaire", "err", err)
			continue
		}
		e.logger.Info("questionnaire reloaded")
	}
	return nil
}

// Loader returns the underlying loader.
func (e *Engine) Loader() ports.QuestionnaireLoader {
	return e.loader
}

func (e *Engine) runtimeOptions(q *domain.Questionnaire, state *domain.State) []runtime.EngineOption {
	return []runtime.EngineOption{
		runtime.WithPatterns(q.Patterns),
		runtime.WithLifecycleHooks(e.hooks),
		runtime.WithLogger(e.logger),
		runtime.WithState(state),
	}
}

// Start creates the state of a new run positioned at the start question.
func (e *Engine) Start(ctx context.Context, sessionID string) *domain.State {
	q := e.Questionnaire()
	rt := runtime.NewEngine(q.Graph, sessionID, e.runtimeOptions(q, nil)...)
	return rt.State()
}

// Current returns the question awaiting an answer in state.
func (e *Engine) Current(state *domain.State) (domain.Question, error) {
	return runtime.Current(e.Questionnaire().Graph, state)
}

// Advance records optionKey on the current question of state and returns the
// next state. The input state is never modified.
func (e *Engine) Advance(ctx context.Context, state *domain.State, optionKey string) (*domain.State, domain.AdvanceResult, error) {
	q := e.Questionnaire()
	rt := runtime.NewEngine(q.Graph, state.SessionID, e.runtimeOptions(q, state)...)
	res, err := rt.Advance(ctx, optionKey)
	if err != nil {
		return nil, domain.AdvanceResult{}, err
	}
	return rt.State(), res, nil
}

// Resolve resolves the trail of state against the pattern table. It only
// reads: the OnResolve hook fires once, from the Advance that finishes a run.
func (e *Engine) Resolve(ctx context.Context, state *domain.State) domain.Resolution {
	return runtime.Match(state.Trail, e.Questionnaire().Patterns)
}

// Snapshot captures the current question of state as a history entry.
func (e *Engine) Snapshot(state *domain.State) (domain.HistoryEntry, error) {
	q := e.Questionnaire()
	rt := runtime.NewEngine(q.Graph, state.SessionID, e.runtimeOptions(q, state)...)
	return rt.Snapshot()
}

// Restore builds the state described by entry for sessionID, replacing
// whatever the session held before.
func (e *Engine) Restore(ctx context.Context, sessionID string, entry domain.HistoryEntry) (*domain.State, error) {
	q := e.Questionnaire()
	rt := runtime.NewEngine(q.Graph, sessionID, e.runtimeOptions(q, domain.NewState(sessionID, entry.QuestionID))...)
	if err := rt.Restore(ctx, entry); err != nil {
		return nil, err
	}
	return rt.State(), nil
}

// History rebuilds the browsable history of state: one entry per visited
// question, each carrying the trail as it was on arrival. Entries are aligned
// from the current question backwards, so questions visited before a restore
// whose trail is unknown are left out.
func (e *Engine) History(state *domain.State) []domain.HistoryEntry {
	graph := e.Questionnaire().Graph

	// Trail length on arrival at state.History[0].
	offset := len(state.Trail) - (len(state.History) - 1)
	if state.Finished {
		offset--
	}

	entries := make([]domain.HistoryEntry, 0, len(state.History))
	for i, id := range state.History {
		n := offset + i
		if n < 0 {
			continue
		}
		q, ok := graph.Question(id)
		if !ok {
			continue
		}
		entries = append(entries, domain.HistoryEntry{
			QuestionID: id,
			Question:   q,
			Trail:      state.Trail[:n].Clone(),
		})
	}
	return entries
}

// Back restores the question before the current one. It returns
// domain.ErrInvalidState when there is nothing to go back to.
// A finished run steps back to its last question.
func (e *Engine) Back(ctx context.Context, state *domain.State) (*domain.State, error) {
	history := e.History(state)
	target := len(history) - 2
	if state.Finished {
		target = len(history) - 1
	}
	if target < 0 {
		return nil, &domain.NavigationError{Kind: domain.ErrInvalidState, QuestionID: state.CurrentQuestionID}
	}

	next, err := e.Restore(ctx, state.SessionID, history[target])
	if err != nil {
		return nil, err
	}
	next.History = next.History[:0]
	for _, entry := range history[:target+1] {
		next.History = append(next.History, entry.QuestionID)
	}
	return next, nil
}

// Inspect returns all questions in authoring order.
func (e *Engine) Inspect() []domain.Question {
	return e.Questionnaire().Graph.Questions()
}

// NewRun starts a stateful run bound to the current questionnaire.
func (e *Engine) NewRun(sessionID string) *Run {
	q := e.Questionnaire()
	return &Run{
		engine:   runtime.NewEngine(q.Graph, sessionID, e.runtimeOptions(q, nil)...),
		patterns: q.Patterns,
	}
}
