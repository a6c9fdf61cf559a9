package runtime_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/quiztree/internal/runtime"
	"github.com/aretw0/quiztree/pkg/domain"
)

// newReviewGraph builds:
//
//	1 --public--> 2 --yes--> (end, "y")
//	  \--internal--> (end, "i")   \--no--> 3 --ok--> (end, "k")
func newReviewGraph(t *testing.T) *domain.QuestionGraph {
	t.Helper()
	g, err := domain.NewQuestionGraph("1",
		domain.Question{ID: "1", Prompt: "Is the site public?", Options: []domain.Option{
			{Key: "public", Label: "Public", Value: "p", Next: "2"},
			{Key: "internal", Label: "Internal", Value: "i"},
		}},
		domain.Question{ID: "2", Prompt: "New domain?", Options: []domain.Option{
			{Key: "yes", Label: "Yes", Value: "y"},
			{Key: "no", Label: "No", Value: "n", Next: "3"},
		}},
		domain.Question{ID: "3", Prompt: "Acknowledge", Options: []domain.Option{
			{Key: "ok", Label: "OK", Value: "k"},
		}},
	)
	if err != nil {
		t.Fatalf("NewQuestionGraph failed: %v", err)
	}
	return g
}

func TestEngine_Walk(t *testing.T) {
	ctx := context.Background()
	engine := runtime.NewEngine(newReviewGraph(t), "s1")

	id, err := engine.CurrentQuestionID()
	if err != nil || id != "1" {
		t.Fatalf("CurrentQuestionID() = %q, %v; want \"1\"", id, err)
	}

	res, err := engine.Advance(ctx, "public")
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if res.Finished || res.NextQuestionID != "2" {
		t.Fatalf("Advance = %+v, want next question 2", res)
	}

	res, err = engine.Advance(ctx, "no")
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if res.NextQuestionID != "3" {
		t.Fatalf("Advance = %+v, want next question 3", res)
	}

	res, err = engine.Advance(ctx, "ok")
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if !res.Finished || res.NextQuestionID != "" {
		t.Fatalf("Advance = %+v, want finished", res)
	}

	if !engine.Finished() {
		t.Error("engine should be finished")
	}
	if got := engine.Trail().Key(); got != "p|n|k|" {
		t.Errorf("trail key = %q, want %q", got, "p|n|k|")
	}
	if got := engine.State().History; len(got) != 3 {
		t.Errorf("history = %v, want 3 visited questions", got)
	}
}

func TestEngine_TerminalOptionFinishesImmediately(t *testing.T) {
	engine := runtime.NewEngine(newReviewGraph(t), "s1")

	res, err := engine.Advance(context.Background(), "internal")
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if !res.Finished {
		t.Fatalf("choosing an option without next question must finish the run")
	}
	if got := engine.Trail(); len(got) != 1 || got[0] != "i" {
		t.Errorf("trail = %v, want [i]", got)
	}
}

func TestEngine_UnknownOptionLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	engine := runtime.NewEngine(newReviewGraph(t), "s1")
	if _, err := engine.Advance(ctx, "public"); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	before := engine.State()

	_, err := engine.Advance(ctx, "maybe")
	if !errors.Is(err, domain.ErrUnknownOption) {
		t.Fatalf("expected ErrUnknownOption, got %v", err)
	}

	var navErr *domain.NavigationError
	if !errors.As(err, &navErr) || navErr.QuestionID != "2" || navErr.OptionKey != "maybe" {
		t.Errorf("unexpected error detail: %+v", navErr)
	}

	after := engine.State()
	if after.CurrentQuestionID != before.CurrentQuestionID ||
		len(after.Trail) != len(before.Trail) ||
		after.Finished != before.Finished {
		t.Errorf("state changed after failed advance: before=%+v after=%+v", before, after)
	}
}

func TestEngine_InvalidStateAfterFinish(t *testing.T) {
	ctx := context.Background()
	engine := runtime.NewEngine(newReviewGraph(t), "s1")
	if _, err := engine.Advance(ctx, "internal"); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	before := engine.State()

	// Even a key that exists on the last question must be rejected.
	_, err := engine.Advance(ctx, "internal")
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}

	if _, err := engine.CurrentQuestionID(); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("CurrentQuestionID after finish: expected ErrInvalidState, got %v", err)
	}
	if _, err := engine.CurrentQuestion(); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("CurrentQuestion after finish: expected ErrInvalidState, got %v", err)
	}

	after := engine.State()
	if len(after.Trail) != len(before.Trail) || !after.Finished {
		t.Errorf("state changed after rejected advance: %+v", after)
	}
}

func TestEngine_BrokenGraph(t *testing.T) {
	g, err := domain.NewQuestionGraph("",
		domain.Question{ID: "1", Options: []domain.Option{
			{Key: "go", Value: "g", Next: "missing"},
		}},
	)
	if err != nil {
		t.Fatalf("NewQuestionGraph failed: %v", err)
	}
	engine := runtime.NewEngine(g, "s1")

	_, err = engine.Advance(context.Background(), "go")
	if !errors.Is(err, domain.ErrBrokenGraph) {
		t.Fatalf("expected ErrBrokenGraph, got %v", err)
	}

	var navErr *domain.NavigationError
	if !errors.As(err, &navErr) || navErr.Target != "missing" {
		t.Errorf("expected target 'missing' in error, got %+v", navErr)
	}

	// The broken branch is surfaced, not turned into a silent dead end.
	if engine.Finished() {
		t.Error("a dangling reference must not finish the run")
	}
	if len(engine.Trail()) != 0 {
		t.Error("a dangling reference must not record an answer")
	}
}

func TestEngine_BrokenStart(t *testing.T) {
	g, err := domain.NewQuestionGraph("nowhere", domain.Question{ID: "1"})
	if err != nil {
		t.Fatalf("NewQuestionGraph failed: %v", err)
	}
	engine := runtime.NewEngine(g, "s1")

	if _, err := engine.CurrentQuestion(); !errors.Is(err, domain.ErrBrokenGraph) {
		t.Errorf("expected ErrBrokenGraph, got %v", err)
	}
	if _, err := engine.Advance(context.Background(), "x"); !errors.Is(err, domain.ErrBrokenGraph) {
		t.Errorf("expected ErrBrokenGraph, got %v", err)
	}
}

func TestEngine_IndependentRuns(t *testing.T) {
	ctx := context.Background()
	g := newReviewGraph(t)
	a := runtime.NewEngine(g, "a")
	b := runtime.NewEngine(g, "b")

	if _, err := a.Advance(ctx, "internal"); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if b.Finished() || len(b.Trail()) != 0 {
		t.Error("runs sharing a graph must not share state")
	}
}

func TestEngine_Hooks(t *testing.T) {
	ctx := context.Background()
	var entered []string
	var answers []string
	var finished, resolveCalls int
	var resolved domain.MatchTier

	hooks := domain.LifecycleHooks{
		OnQuestionEnter: func(_ context.Context, e *domain.QuestionEvent) {
			entered = append(entered, e.QuestionID)
		},
		OnAnswer: func(_ context.Context, e *domain.AnswerEvent) {
			answers = append(answers, e.QuestionID+"="+e.Value)
		},
		OnFinish: func(_ context.Context, e *domain.AnswerEvent) {
			if e.Type != domain.EventFinish {
				t.Errorf("finish event has type %q", e.Type)
			}
			finished++
		},
		OnResolve: func(_ context.Context, e *domain.ResolveEvent) {
			resolved = e.Tier
			resolveCalls++
		},
	}

	patterns := domain.NewPatternTable(map[string]domain.PatternEntry{
		"y": {Content: "Needs review"},
	})
	engine := runtime.NewEngine(newReviewGraph(t), "s1",
		runtime.WithLifecycleHooks(hooks),
		runtime.WithPatterns(patterns),
	)
	for _, key := range []string{"public", "yes"} {
		if _, err := engine.Advance(ctx, key); err != nil {
			t.Fatalf("Advance(%q) failed: %v", key, err)
		}
	}
	// Reads never fire OnResolve.
	engine.Resolve(patterns)
	engine.Resolve(patterns)

	if len(entered) != 2 || entered[0] != "1" || entered[1] != "2" {
		t.Errorf("entered = %v, want [1 2]", entered)
	}
	if len(answers) != 2 || answers[1] != "2=y" {
		t.Errorf("answers = %v", answers)
	}
	if finished != 1 {
		t.Errorf("finished = %d, want 1", finished)
	}
	if resolved != domain.TierLastAnswer {
		t.Errorf("resolved tier = %q, want %q", resolved, domain.TierLastAnswer)
	}
	if resolveCalls != 1 {
		t.Errorf("OnResolve fired %d times, want 1", resolveCalls)
	}
}

func TestEngine_SnapshotAndRestore(t *testing.T) {
	ctx := context.Background()
	engine := runtime.NewEngine(newReviewGraph(t), "s1")

	if _, err := engine.Advance(ctx, "public"); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	entry, err := engine.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if entry.QuestionID != "2" || entry.Question.Prompt != "New domain?" || entry.Trail.Key() != "p|" {
		t.Fatalf("unexpected snapshot: %+v", entry)
	}

	// Finish the run on another branch, then go back.
	if _, err := engine.Advance(ctx, "yes"); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if err := engine.Restore(ctx, entry); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if engine.Finished() {
		t.Error("restored run must not be finished")
	}
	id, _ := engine.CurrentQuestionID()
	if id != "2" {
		t.Errorf("current question = %q, want 2", id)
	}
	if got := engine.Trail().Key(); got != "p|" {
		t.Errorf("restored trail = %q, want the snapshot trail only", got)
	}
	if got := engine.State().SessionID; got != "s1" {
		t.Errorf("session id = %q, want s1", got)
	}

	// The snapshot must be independent from the live trail.
	if _, err := engine.Advance(ctx, "no"); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if entry.Trail.Key() != "p|" {
		t.Error("advancing after restore mutated the history entry")
	}
}

func TestEngine_RestoreWithoutTrail(t *testing.T) {
	engine := runtime.NewEngine(newReviewGraph(t), "s1")
	if err := engine.Restore(context.Background(), domain.HistoryEntry{QuestionID: "3"}); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	// Only the question is restorable; the answers before it are not invented.
	if len(engine.Trail()) != 0 {
		t.Errorf("trail = %v, want empty", engine.Trail())
	}
}

func TestEngine_RestoreUnknownQuestion(t *testing.T) {
	engine := runtime.NewEngine(newReviewGraph(t), "s1")
	err := engine.Restore(context.Background(), domain.HistoryEntry{QuestionID: "99"})
	if !errors.Is(err, domain.ErrBrokenGraph) {
		t.Fatalf("expected ErrBrokenGraph, got %v", err)
	}
	id, _ := engine.CurrentQuestionID()
	if id != "1" {
		t.Errorf("failed restore changed the cursor to %q", id)
	}
}

func TestEngine_WithState(t *testing.T) {
	saved := domain.NewState("s1", "2")
	saved.Trail = domain.Trail{"p"}

	engine := runtime.NewEngine(newReviewGraph(t), "ignored", runtime.WithState(saved))
	res, err := engine.Advance(context.Background(), "yes")
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if !res.Finished || engine.Trail().Key() != "p|y|" {
		t.Errorf("resumed run: res=%+v trail=%q", res, engine.Trail().Key())
	}
	if saved.Finished || len(saved.Trail) != 1 {
		t.Error("engine mutated the state it was resumed from")
	}
}
