package dsl

import (
	"fmt"

	"github.com/aretw0/quiztree/pkg/adapters/memory"
	"github.com/aretw0/quiztree/pkg/domain"
)

// Builder manages questionnaire construction.
type Builder struct {
	title     string
	start     string
	order     []string
	questions map[string]*QuestionBuilder
	patterns  map[string]domain.PatternEntry
}

// New creates a new questionnaire builder.
func New(title string) *Builder {
	return &Builder{
		title:     title,
		questions: make(map[string]*QuestionBuilder),
		patterns:  make(map[string]domain.PatternEntry),
	}
}

// Start sets the start question. Defaults to the first question added.
func (b *Builder) Start(id string) *Builder {
	b.start = id
	return b
}

// Question creates a question in the graph.
// If the question already exists, it returns the existing builder.
func (b *Builder) Question(id, prompt string) *QuestionBuilder {
	if qb, ok := b.questions[id]; ok {
		if prompt != "" {
			qb.question.Prompt = prompt
		}
		return qb
	}
	qb := &QuestionBuilder{
		question: domain.Question{ID: id, Prompt: prompt},
		builder:  b,
	}
	b.questions[id] = qb
	b.order = append(b.order, id)
	return qb
}

// Pattern maps an encoded trail (e.g. "public|new|") or a single answer-value
// to a result.
func (b *Builder) Pattern(key, content, position string) *Builder {
	b.patterns[key] = domain.PatternEntry{Content: content, Position: position}
	return b
}

// PatternEntry is Pattern with full control over the entry.
func (b *Builder) PatternEntry(key string, entry domain.PatternEntry) *Builder {
	b.patterns[key] = entry
	return b
}

// Build compiles the questionnaire.
func (b *Builder) Build() (*domain.Questionnaire, error) {
	questions := make([]domain.Question, 0, len(b.order))
	for _, id := range b.order {
		qb := b.questions[id]
		if qb.err != nil {
			return nil, fmt.Errorf("question %q: %w", id, qb.err)
		}
		questions = append(questions, qb.question)
	}

	graph, err := domain.NewQuestionGraph(b.start, questions...)
	if err != nil {
		return nil, fmt.Errorf("failed to build questionnaire: %w", err)
	}

	return &domain.Questionnaire{
		Title:    b.title,
		Graph:    graph,
		Patterns: domain.NewPatternTable(b.patterns),
	}, nil
}

// Loader compiles the questionnaire into a memory loader.
func (b *Builder) Loader() (*memory.Loader, error) {
	q, err := b.Build()
	if err != nil {
		return nil, err
	}
	return memory.NewLoader(q), nil
}
