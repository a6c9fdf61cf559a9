package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/quiztree/internal/presentation/graph"
	"github.com/aretw0/quiztree/pkg/domain"
)

func reviewGraph(t *testing.T) *domain.QuestionGraph {
	t.Helper()
	g, err := domain.NewQuestionGraph("1",
		domain.Question{ID: "1", Prompt: "Is it \"public\"?\nMore text.", Options: []domain.Option{
			{Key: "yes", Label: "Yes", Value: "public", Next: "my-q"},
			{Key: "no", Label: "No", Value: "internal"},
		}},
		domain.Question{ID: "my-q", Prompt: "New domain?", Options: []domain.Option{
			{Key: "a", Label: "Yes", Value: "new"},
		}},
	)
	if err != nil {
		t.Fatalf("NewQuestionGraph failed: %v", err)
	}
	return g
}

func TestGenerateMermaid(t *testing.T) {
	out := graph.GenerateMermaid(reviewGraph(t), nil)

	contains := []string{
		"graph TD",
		`q1(["1: Is it 'public'?"])`,
		`my_q[/"my-q: New domain?"/]`,
		`q1 -- "Yes" --> my_q`,
		`q1 -- "No" --> __finish`,
		`my_q -- "Yes" --> __finish`,
		`__finish(("finish"))`,
	}
	for _, c := range contains {
		if !strings.Contains(out, c) {
			t.Errorf("expected output to contain %q\nGot:\n%s", c, out)
		}
	}
	if strings.Contains(out, "More text") {
		t.Errorf("node label should only use the first prompt line:\n%s", out)
	}
	if strings.Contains(out, "classDef") {
		t.Errorf("no overlay expected:\n%s", out)
	}
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	g := reviewGraph(t)

	t.Run("In Progress", func(t *testing.T) {
		state := &domain.State{CurrentQuestionID: "my-q", Trail: domain.Trail{"public"}, History: []string{"1", "my-q", "ghost"}}
		out := graph.GenerateMermaid(g, graph.OverlayFromState(state))

		for _, c := range []string{"class q1 visited;", "class my_q visited;", "class my_q current;"} {
			if !strings.Contains(out, c) {
				t.Errorf("expected output to contain %q\nGot:\n%s", c, out)
			}
		}
		if strings.Contains(out, "class ghost") {
			t.Errorf("unknown history ids must not be styled:\n%s", out)
		}
	})

	t.Run("Finished", func(t *testing.T) {
		state := &domain.State{CurrentQuestionID: "1", Trail: domain.Trail{"internal"}, Finished: true, History: []string{"1"}}
		out := graph.GenerateMermaid(g, graph.OverlayFromState(state))
		if !strings.Contains(out, "class __finish current;") {
			t.Errorf("finished run should highlight the finish node:\n%s", out)
		}
	})

	t.Run("Nil State", func(t *testing.T) {
		if graph.OverlayFromState(nil) != nil {
			t.Error("expected nil overlay")
		}
	})
}
