package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/aretw0/quiztree/internal/logging"
	"github.com/aretw0/quiztree/internal/runtime"
	"github.com/aretw0/quiztree/pkg/domain"
	"github.com/aretw0/quiztree/pkg/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGraph(t *testing.T) *domain.QuestionGraph {
	t.Helper()
	g, err := domain.NewQuestionGraph("1",
		domain.Question{ID: "1", Prompt: "A?", Options: []domain.Option{
			{Key: "yes", Value: "y", Next: "2"},
			{Key: "no", Value: "n"},
		}},
		domain.Question{ID: "2", Prompt: "B?", Options: []domain.Option{
			{Key: "ok", Value: "k"},
		}},
	)
	require.NoError(t, err)
	return g
}

func walk(t *testing.T, hooks domain.LifecycleHooks) {
	t.Helper()
	ctx := context.Background()
	patterns := domain.NewPatternTable(map[string]domain.PatternEntry{"k": {Content: "Done"}})
	engine := runtime.NewEngine(newGraph(t), "s1",
		runtime.WithLifecycleHooks(hooks),
		runtime.WithPatterns(patterns),
	)
	_, err := engine.Advance(ctx, "yes")
	require.NoError(t, err)
	_, err = engine.Advance(ctx, "ok")
	require.NoError(t, err)
	engine.Resolve(patterns)
}

func TestMetrics_Hooks(t *testing.T) {
	m := observability.NewMetrics()
	walk(t, m.Hooks())

	assert.Equal(t, 2, testutil.CollectAndCount(m.Registry(), "quiztree_question_visits_total"))
	assert.Equal(t, 2, testutil.CollectAndCount(m.Registry(), "quiztree_answers_total"))

	expected := `
# HELP quiztree_runs_finished_total Total number of questionnaire runs that reached an end
# TYPE quiztree_runs_finished_total counter
quiztree_runs_finished_total 1
# HELP quiztree_resolutions_total Total number of resolved results by match tier
# TYPE quiztree_resolutions_total counter
quiztree_resolutions_total{tier="last_answer"} 1
`
	err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected),
		"quiztree_runs_finished_total", "quiztree_resolutions_total")
	assert.NoError(t, err)
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, slog.LevelInfo)
	walk(t, observability.LoggingHooks(logger))

	out := buf.String()
	for _, msg := range []string{"question_enter", "answer", "finish", "resolve"} {
		assert.Contains(t, out, msg)
	}
	assert.Contains(t, out, "last_answer")
}

func TestMerge(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{
		OnAnswer: func(context.Context, *domain.AnswerEvent) { calls = append(calls, "a") },
	}
	b := domain.LifecycleHooks{
		OnAnswer: func(context.Context, *domain.AnswerEvent) { calls = append(calls, "b") },
		OnFinish: func(context.Context, *domain.AnswerEvent) { calls = append(calls, "finish") },
	}

	merged := observability.Merge(a, domain.LifecycleHooks{}, b)
	require.NotNil(t, merged.OnAnswer)
	assert.Nil(t, merged.OnQuestionEnter)

	merged.OnAnswer(context.Background(), &domain.AnswerEvent{})
	merged.OnFinish(context.Background(), &domain.AnswerEvent{})
	assert.Equal(t, []string{"a", "b", "finish"}, calls)
}
