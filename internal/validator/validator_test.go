package validator

import (
	"strings"
	"testing"

	"github.com/aretw0/quiztree/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func questionnaire(t *testing.T, start string, patterns map[string]domain.PatternEntry, questions ...domain.Question) *domain.Questionnaire {
	t.Helper()
	g, err := domain.NewQuestionGraph(start, questions...)
	require.NoError(t, err)
	return &domain.Questionnaire{Graph: g, Patterns: domain.NewPatternTable(patterns)}
}

func TestValidateGraph_Valid(t *testing.T) {
	q := questionnaire(t, "1",
		map[string]domain.PatternEntry{"a|c|": {Content: "x"}, "b": {Content: "y"}},
		domain.Question{ID: "1", Options: []domain.Option{{Key: "a", Value: "a", Next: "2"}, {Key: "b", Value: "b"}}},
		domain.Question{ID: "2", Options: []domain.Option{{Key: "c", Value: "c"}}},
	)

	assert.NoError(t, ValidateGraph(q))
	assert.Empty(t, Inspect(q))
}

func TestValidateGraph_Errors(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		questions []domain.Question
		contains  string
	}{
		{
			name:      "Dangling Next",
			questions: []domain.Question{{ID: "1", Options: []domain.Option{{Key: "a", Next: "ghost"}}}},
			contains:  "points to missing question 'ghost'",
		},
		{
			name: "No Options",
			questions: []domain.Question{
				{ID: "1", Options: []domain.Option{{Key: "a", Next: "2"}}},
				{ID: "2"},
			},
			contains: "question '2': has no options",
		},
		{
			name: "Cycle",
			questions: []domain.Question{
				{ID: "1", Options: []domain.Option{{Key: "a", Next: "2"}}},
				{ID: "2", Options: []domain.Option{{Key: "b", Next: "1"}, {Key: "c"}}},
			},
			contains: "cycle detected: 1 -> 2 -> 1",
		},
		{
			name:      "Missing Start",
			start:     "zero",
			questions: []domain.Question{{ID: "1", Options: []domain.Option{{Key: "a"}}}},
			contains:  "start question 'zero' does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGraph(questionnaire(t, tt.start, nil, tt.questions...))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestInspect_Warnings(t *testing.T) {
	q := questionnaire(t, "1",
		map[string]domain.PatternEntry{"a|zzz|": {Content: "x"}, "nope": {Content: "y"}, "a": {Content: "z"}},
		domain.Question{ID: "1", Options: []domain.Option{{Key: "a", Value: "a"}}},
		domain.Question{ID: "orphan", Options: []domain.Option{{Key: "b", Value: "b"}}},
	)

	assert.NoError(t, ValidateGraph(q), "warnings do not fail validation")

	var messages []string
	for _, issue := range Inspect(q) {
		assert.Equal(t, SeverityWarning, issue.Severity)
		messages = append(messages, issue.String())
	}
	joined := strings.Join(messages, "\n")
	assert.Contains(t, joined, "question 'orphan': unreachable")
	assert.Contains(t, joined, "pattern 'a|zzz|' uses value 'zzz'")
	assert.Contains(t, joined, "pattern 'nope' uses value 'nope'")
	assert.Len(t, messages, 3)
}

func TestInspect_Nil(t *testing.T) {
	issues := Inspect(nil)
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityError, issues[0].Severity)
}
