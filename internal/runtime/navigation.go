package runtime

import (
	"github.com/aretw0/quiztree/pkg/domain"
)

// Navigate applies optionKey to state and returns the next state.
// The input state is never modified; on error it is left as it was and the
// returned state is nil.
func Navigate(graph *domain.QuestionGraph, state *domain.State, optionKey string) (*domain.State, domain.AdvanceResult, error) {
	if state.Finished {
		return nil, domain.AdvanceResult{}, &domain.NavigationError{
			Kind:       domain.ErrInvalidState,
			QuestionID: state.CurrentQuestionID,
			OptionKey:  optionKey,
		}
	}

	question, ok := graph.Question(state.CurrentQuestionID)
	if !ok {
		return nil, domain.AdvanceResult{}, &domain.NavigationError{
			Kind:       domain.ErrBrokenGraph,
			QuestionID: state.CurrentQuestionID,
		}
	}

	option, ok := question.Option(optionKey)
	if !ok {
		return nil, domain.AdvanceResult{}, &domain.NavigationError{
			Kind:       domain.ErrUnknownOption,
			QuestionID: question.ID,
			OptionKey:  optionKey,
		}
	}

	if !option.Ends() && !graph.Has(option.Next) {
		return nil, domain.AdvanceResult{}, &domain.NavigationError{
			Kind:       domain.ErrBrokenGraph,
			QuestionID: question.ID,
			OptionKey:  optionKey,
			Target:     option.Next,
		}
	}

	next := state.Snapshot()
	next.Trail = append(next.Trail, option.Value)

	if option.Ends() {
		next.Finished = true
		return next, domain.AdvanceResult{Finished: true}, nil
	}

	next.CurrentQuestionID = option.Next
	next.History = append(next.History, option.Next)
	return next, domain.AdvanceResult{NextQuestionID: option.Next}, nil
}

// Current returns the question a state is waiting on.
func Current(graph *domain.QuestionGraph, state *domain.State) (domain.Question, error) {
	if state.Finished {
		return domain.Question{}, &domain.NavigationError{
			Kind:       domain.ErrInvalidState,
			QuestionID: state.CurrentQuestionID,
		}
	}
	q, ok := graph.Question(state.CurrentQuestionID)
	if !ok {
		return domain.Question{}, &domain.NavigationError{
			Kind:       domain.ErrBrokenGraph,
			QuestionID: state.CurrentQuestionID,
		}
	}
	return q, nil
}

// Restore builds the state described by a history entry.
// The returned state replaces whatever the caller held; it is never merged.
func Restore(graph *domain.QuestionGraph, sessionID string, entry domain.HistoryEntry) (*domain.State, error) {
	if !graph.Has(entry.QuestionID) {
		return nil, &domain.NavigationError{
			Kind:       domain.ErrBrokenGraph,
			QuestionID: entry.QuestionID,
		}
	}
	state := domain.NewState(sessionID, entry.QuestionID)
	state.Trail = append(state.Trail, entry.Trail...)
	return state, nil
}
