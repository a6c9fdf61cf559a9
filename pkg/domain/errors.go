package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownOption is returned when the current question has no option with the given key.
	ErrUnknownOption = errors.New("unknown option")

	// ErrInvalidState is returned when a finished run is asked to continue.
	ErrInvalidState = errors.New("invalid state")

	// ErrBrokenGraph is returned when traversal reaches a question id that does not exist.
	ErrBrokenGraph = errors.New("broken graph")

	// ErrSessionNotFound is returned when a session ID cannot be found in the store.
	ErrSessionNotFound = errors.New("session not found")
)

// NavigationError carries the context of a failed navigation step.
// Kind is one of ErrUnknownOption, ErrInvalidState or ErrBrokenGraph.
type NavigationError struct {
	Kind       error
	QuestionID string
	OptionKey  string
	Target     string
}

func (e *NavigationError) Error() string {
	switch {
	case errors.Is(e.Kind, ErrUnknownOption):
		return fmt.Sprintf("%v: question %q has no option %q", e.Kind, e.QuestionID, e.OptionKey)
	case errors.Is(e.Kind, ErrBrokenGraph) && e.Target != "":
		return fmt.Sprintf("%v: option %q of question %q points to missing question %q", e.Kind, e.OptionKey, e.QuestionID, e.Target)
	case errors.Is(e.Kind, ErrBrokenGraph):
		return fmt.Sprintf("%v: question %q does not exist", e.Kind, e.QuestionID)
	default:
		return fmt.Sprintf("%v: questionnaire already finished at %q", e.Kind, e.QuestionID)
	}
}

func (e *NavigationError) Unwrap() error {
	return e.Kind
}
