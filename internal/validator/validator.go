package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/quiztree/pkg/domain"
)

// Severity tells whether an issue breaks traversal or is only suspicious.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single finding about a questionnaire.
type Issue struct {
	Severity   Severity
	QuestionID string
	Message    string
}

func (i Issue) String() string {
	if i.QuestionID == "" {
		return fmt.Sprintf("%s: %s", i.Severity, i.Message)
	}
	return fmt.Sprintf("%s: question '%s': %s", i.Severity, i.QuestionID, i.Message)
}

// Inspect walks the graph from its start question and reports dangling next
// references, questions without options, cycles and unreachable questions.
// Pattern keys that no trail can ever produce are reported as warnings.
func Inspect(q *domain.Questionnaire) []Issue {
	if q == nil || q.Graph == nil {
		return []Issue{{Severity: SeverityError, Message: "questionnaire has no questions"}}
	}
	g := q.Graph

	var issues []Issue
	errorf := func(id, format string, args ...any) {
		issues = append(issues, Issue{Severity: SeverityError, QuestionID: id, Message: fmt.Sprintf(format, args...)})
	}

	const (
		unvisited = iota
		inProgress
		done
	)
	marks := make(map[string]int, g.Len())
	reportedCycle := make(map[string]bool)

	var visit func(id string, path []string)
	visit = func(id string, path []string) {
		marks[id] = inProgress
		path = append(path, id)

		question, _ := g.Question(id)
		if len(question.Options) == 0 {
			errorf(id, "has no options")
		}
		for _, opt := range question.Options {
			if opt.Ends() {
				continue
			}
			if !g.Has(opt.Next) {
				errorf(id, "option '%s' points to missing question '%s'", opt.Key, opt.Next)
				continue
			}
			switch marks[opt.Next] {
			case unvisited:
				visit(opt.Next, path)
			case inProgress:
				if !reportedCycle[opt.Next] {
					reportedCycle[opt.Next] = true
					errorf(id, "cycle detected: %s -> %s", strings.Join(path, " -> "), opt.Next)
				}
			}
		}
		marks[id] = done
	}
	if g.Has(g.Start()) {
		visit(g.Start(), nil)
	} else {
		errorf("", "start question '%s' does not exist", g.Start())
	}

	for _, id := range g.IDs() {
		if marks[id] == unvisited {
			issues = append(issues, Issue{Severity: SeverityWarning, QuestionID: id, Message: "unreachable from the start question"})
		}
	}

	issues = append(issues, inspectPatterns(q)...)
	return issues
}

func inspectPatterns(q *domain.Questionnaire) []Issue {
	if q.Patterns == nil {
		return nil
	}

	values := make(map[string]bool)
	for _, question := range q.Graph.Questions() {
		for _, opt := range question.Options {
			values[opt.Value] = true
		}
	}

	var issues []Issue
	for _, key := range q.Patterns.Keys() {
		parts := []string{key}
		if strings.HasSuffix(key, domain.TrailSeparator) {
			parts = strings.Split(strings.TrimSuffix(key, domain.TrailSeparator), domain.TrailSeparator)
		}
		for _, part := range parts {
			if !values[part] {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Message:  fmt.Sprintf("pattern '%s' uses value '%s' that no option records", key, part),
				})
				break
			}
		}
	}
	return issues
}

// ValidateGraph returns an error listing every error-level issue, or nil.
func ValidateGraph(q *domain.Questionnaire) error {
	var errors []string
	for _, issue := range Inspect(q) {
		if issue.Severity == SeverityError {
			errors = append(errors, issue.String())
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}

	return nil
}
