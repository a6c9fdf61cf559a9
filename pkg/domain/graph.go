package domain

import "fmt"

// QuestionGraph is a read-only view over the question definitions of a questionnaire.
//
// Construction only rejects structural problems (empty or duplicate ids).
// Whether every Option.Next names an existing question is not checked here;
// a dangling reference surfaces as ErrBrokenGraph when traversal reaches it.
type QuestionGraph struct {
	start     string
	order     []string
	questions map[string]Question
}

// NewQuestionGraph builds a graph starting at start. If start is empty the
// first question is used.
func NewQuestionGraph(start string, questions ...Question) (*QuestionGraph, error) {
	g := &QuestionGraph{
		start:     start,
		order:     make([]string, 0, len(questions)),
		questions: make(map[string]Question, len(questions)),
	}

	for _, q := range questions {
		if q.ID == "" {
			return nil, fmt.Errorf("question missing ID")
		}
		if _, exists := g.questions[q.ID]; exists {
			return nil, fmt.Errorf("duplicate question ID: %s", q.ID)
		}
		g.questions[q.ID] = q.clone()
		g.order = append(g.order, q.ID)
	}

	if g.start == "" && len(g.order) > 0 {
		g.start = g.order[0]
	}
	if g.start == "" {
		return nil, fmt.Errorf("questionnaire has no questions")
	}

	return g, nil
}

// Start returns the id of the first question of every run.
func (g *QuestionGraph) Start() string {
	return g.start
}

// Question returns the question with the given id.
func (g *QuestionGraph) Question(id string) (Question, bool) {
	q, ok := g.questions[id]
	if !ok {
		return Question{}, false
	}
	return q.clone(), true
}

// Has reports whether id names a question of the graph.
func (g *QuestionGraph) Has(id string) bool {
	_, ok := g.questions[id]
	return ok
}

// IDs returns question ids in authoring order.
func (g *QuestionGraph) IDs() []string {
	return append([]string(nil), g.order...)
}

// Questions returns all questions in authoring order.
func (g *QuestionGraph) Questions() []Question {
	out := make([]Question, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.questions[id].clone())
	}
	return out
}

// Len returns the number of questions.
func (g *QuestionGraph) Len() int {
	return len(g.order)
}
