package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/quiztree/internal/logging"
	"github.com/aretw0/quiztree/pkg/domain"
)

// Engine is the navigation state machine of a single questionnaire run.
// It owns its State exclusively and is not safe for concurrent use;
// independent runs use independent engines.
type Engine struct {
	graph    *domain.QuestionGraph
	patterns *domain.PatternTable
	state    *domain.State
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithPatterns sets the table the run is resolved against when it finishes.
// Without it a finished run resolves to the fallback.
func WithPatterns(patterns *domain.PatternTable) EngineOption {
	return func(e *Engine) {
		e.patterns = patterns
	}
}

// WithState resumes a previously saved run instead of starting fresh.
func WithState(state *domain.State) EngineOption {
	return func(e *Engine) {
		if state != nil {
			e.state = state.Snapshot()
		}
	}
}

// NewEngine creates an engine positioned at the start question.
func NewEngine(graph *domain.QuestionGraph, sessionID string, opts ...EngineOption) *Engine {
	e := &Engine{
		graph:  graph,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.state == nil {
		e.state = domain.NewState(sessionID, graph.Start())
		e.emitQuestionEnter(context.Background(), e.state.CurrentQuestionID)
	}
	return e
}

// CurrentQuestionID returns the id of the question awaiting an answer.
func (e *Engine) CurrentQuestionID() (string, error) {
	if e.state.Finished {
		return "", &domain.NavigationError{
			Kind:       domain.ErrInvalidState,
			QuestionID: e.state.CurrentQuestionID,
		}
	}
	return e.state.CurrentQuestionID, nil
}

// CurrentQuestion returns the question awaiting an answer.
func (e *Engine) CurrentQuestion() (domain.Question, error) {
	return Current(e.graph, e.state)
}

// Advance records the answer of the option named optionKey on the current question.
// On error the state is unchanged.
func (e *Engine) Advance(ctx context.Context, optionKey string) (domain.AdvanceResult, error) {
	from := e.state.CurrentQuestionID

	next, res, err := Navigate(e.graph, e.state, optionKey)
	if err != nil {
		e.logger.Debug("advance rejected", "question_id", from, "option", optionKey, "err", err)
		return domain.AdvanceResult{}, err
	}
	e.state = next

	value := next.Trail[len(next.Trail)-1]
	e.logger.Debug("answer recorded",
		"question_id", from,
		"option", optionKey,
		"value", value,
		"finished", res.Finished,
	)

	evt := &domain.AnswerEvent{
		EventBase:  e.eventBase(domain.EventAnswer),
		QuestionID: from,
		OptionKey:  optionKey,
		Value:      value,
		Finished:   res.Finished,
	}
	if e.hooks.OnAnswer != nil {
		e.hooks.OnAnswer(ctx, evt)
	}

	if res.Finished {
		if e.hooks.OnFinish != nil {
			finish := *evt
			finish.Type = domain.EventFinish
			e.hooks.OnFinish(ctx, &finish)
		}
		e.emitResolve(ctx)
		return res, nil
	}

	e.emitQuestionEnter(ctx, res.NextQuestionID)
	return res, nil
}

// Finished reports whether the run has reached its end.
func (e *Engine) Finished() bool {
	return e.state.Finished
}

// Trail returns a copy of the recorded answer-values.
func (e *Engine) Trail() domain.Trail {
	return e.state.Trail.Clone()
}

// State returns a copy of the run state.
func (e *Engine) State() *domain.State {
	return e.state.Snapshot()
}

// Snapshot captures the current question and trail as a history entry.
func (e *Engine) Snapshot() (domain.HistoryEntry, error) {
	q, err := e.CurrentQuestion()
	if err != nil {
		return domain.HistoryEntry{}, err
	}
	return domain.HistoryEntry{
		QuestionID: q.ID,
		Question:   q,
		Trail:      e.state.Trail.Clone(),
	}, nil
}

// Restore replaces the whole run state with the one described by entry.
// A restored run is never finished, even if the replaced one was.
func (e *Engine) Restore(ctx context.Context, entry domain.HistoryEntry) error {
	state, err := Restore(e.graph, e.state.SessionID, entry)
	if err != nil {
		return err
	}
	e.logger.Debug("state restored", "question_id", entry.QuestionID, "trail_len", len(entry.Trail))
	e.state = state
	e.emitQuestionEnter(ctx, state.CurrentQuestionID)
	return nil
}

// Resolve resolves the recorded trail against patterns.
// Resolving an unfinished run is allowed; the trail so far is used.
// It has no side effects: OnResolve fires once, when Advance finishes the run.
func (e *Engine) Resolve(patterns *domain.PatternTable) domain.Resolution {
	return Match(e.state.Trail, patterns)
}

func (e *Engine) emitResolve(ctx context.Context) {
	res := Match(e.state.Trail, e.patterns)
	e.logger.Debug("trail resolved", "key", e.state.Trail.Key(), "tier", res.Tier)
	if e.hooks.OnResolve == nil {
		return
	}
	e.hooks.OnResolve(ctx, &domain.ResolveEvent{
		EventBase: e.eventBase(domain.EventResolve),
		Key:       e.state.Trail.Key(),
		Tier:      res.Tier,
		Result:    res.Result,
	})
}

func (e *Engine) emitQuestionEnter(ctx context.Context, questionID string) {
	if e.hooks.OnQuestionEnter == nil {
		return
	}
	e.hooks.OnQuestionEnter(ctx, &domain.QuestionEvent{
		EventBase:  e.eventBase(domain.EventQuestionEnter),
		QuestionID: questionID,
	})
}

func (e *Engine) eventBase(t domain.EventType) domain.EventBase {
	return domain.EventBase{
		Timestamp: time.Now(),
		Type:      t,
		SessionID: e.state.SessionID,
	}
}
