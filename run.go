package quiztree

import (
	"context"

	"github.com/aretw0/quiztree/internal/runtime"
	"github.com/aretw0/quiztree/pkg/domain"
)

// Run is a single stateful questionnaire run, for hosts that drive one
// respondent at a time. It is not safe for concurrent use.
type Run struct {
	engine   *runtime.Engine
	patterns *domain.PatternTable
}

// CurrentQuestionID returns the id of the question awaiting an answer.
func (r *Run) CurrentQuestionID() (string, error) {
	return r.engine.CurrentQuestionID()
}

// CurrentQuestion returns the question awaiting an answer.
func (r *Run) CurrentQuestion() (domain.Question, error) {
	return r.engine.CurrentQuestion()
}

// Advance records the answer of the option named optionKey.
func (r *Run) Advance(ctx context.Context, optionKey string) (domain.AdvanceResult, error) {
	return r.engine.Advance(ctx, optionKey)
}

// Finished reports whether the run has reached its end.
func (r *Run) Finished() bool {
	return r.engine.Finished()
}

// Trail returns a copy of the recorded answer-values.
func (r *Run) Trail() domain.Trail {
	return r.engine.Trail()
}

// State returns a copy of the run state, e.g. for persistence.
func (r *Run) State() *domain.State {
	return r.engine.State()
}

// Snapshot captures the current question and trail as a history entry.
func (r *Run) Snapshot() (domain.HistoryEntry, error) {
	return r.engine.Snapshot()
}

// Restore replaces the run state with the one described by entry.
func (r *Run) Restore(ctx context.Context, entry domain.HistoryEntry) error {
	return r.engine.Restore(ctx, entry)
}

// Result resolves the trail recorded so far.
func (r *Run) Result(ctx context.Context) domain.Resolution {
	return r.engine.Resolve(r.patterns)
}
