package runner

import (
	"context"

	"github.com/aretw0/quiztree/pkg/domain"
)

// IOHandler defines the strategy for interacting with the respondent.
// This allows switching between Text (CLI) and JSON (structured) modes.
type IOHandler interface {
	// Question presents a question. step is 1 for the first question of a run.
	Question(ctx context.Context, q domain.Question, step int) error

	// Input reads one response. io.EOF ends the run without a result.
	Input(ctx context.Context) (string, error)

	// Result presents the resolved outcome of a finished run.
	Result(ctx context.Context, res domain.Resolution) error

	// SystemOutput presents a meta-message (e.g. "unknown option").
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer transforms prompt text before it is printed, e.g. markdown to ANSI.
type ContentRenderer func(string) (string, error)

// ResultFormatter turns a result into the line shown to the respondent.
type ResultFormatter func(domain.Result) string
