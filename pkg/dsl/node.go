package dsl

import (
	"fmt"

	"github.com/aretw0/quiztree/pkg/domain"
)

// QuestionBuilder provides a fluent API for configuring a question.
// Label, Go and Classes apply to the most recently added option.
type QuestionBuilder struct {
	question domain.Question
	builder  *Builder
	err      error
}

// Option adds an answer choice. The label defaults to the key.
func (q *QuestionBuilder) Option(key, value string) *QuestionBuilder {
	if _, exists := q.question.Option(key); exists {
		q.err = fmt.Errorf("duplicate option %q", key)
		return q
	}
	q.question.Options = append(q.question.Options, domain.Option{
		Key:   key,
		Label: key,
		Value: value,
	})
	return q
}

// Label sets the display text of the last option.
func (q *QuestionBuilder) Label(label string) *QuestionBuilder {
	if opt := q.last(); opt != nil {
		opt.Label = label
	}
	return q
}

// Go routes the last option to the target question.
func (q *QuestionBuilder) Go(target string) *QuestionBuilder {
	if opt := q.last(); opt != nil {
		opt.Next = target
	}
	return q
}

// Classes sets presentation hints on the last option.
func (q *QuestionBuilder) Classes(classes string) *QuestionBuilder {
	if opt := q.last(); opt != nil {
		opt.Classes = classes
	}
	return q
}

// Question continues with another question on the same builder.
func (q *QuestionBuilder) Question(id, prompt string) *QuestionBuilder {
	return q.builder.Question(id, prompt)
}

// Build returns the underlying domain.Question.
func (q *QuestionBuilder) Build() domain.Question {
	return q.question
}

func (q *QuestionBuilder) last() *domain.Option {
	if len(q.question.Options) == 0 {
		q.err = fmt.Errorf("no option to configure")
		return nil
	}
	return &q.question.Options[len(q.question.Options)-1]
}
