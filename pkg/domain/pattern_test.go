package domain

import (
	"errors"
	"testing"
)

func TestPatternEntry_Result(t *testing.T) {
	tests := []struct {
		name  string
		entry PatternEntry
		want  Result
	}{
		{
			name:  "All Fields",
			entry: PatternEntry{Content: "A", Position: "P1", Classes: "hl"},
			want:  Result{Content: "A", Position: "P1", Classes: "hl"},
		},
		{
			name:  "Position Defaults To Unknown",
			entry: PatternEntry{Content: "B"},
			want:  Result{Content: "B", Position: UnknownPosition},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.Result(); got != tt.want {
				t.Errorf("Result() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPatternTable(t *testing.T) {
	src := map[string]PatternEntry{
		"x|y|": {Content: "A"},
		"y":    {Content: "B"},
	}
	table := NewPatternTable(src)

	// The table owns a copy.
	src["z"] = PatternEntry{Content: "C"}
	if _, ok := table.Pattern("z"); ok {
		t.Error("table must not observe caller mutations")
	}

	if e, ok := table.Pattern("y"); !ok || e.Content != "B" {
		t.Errorf("Pattern(y) = %+v, %v", e, ok)
	}
	if table.Len() != 2 {
		t.Errorf("Len() = %d, want 2", table.Len())
	}
	if keys := table.Keys(); len(keys) != 2 || keys[0] != "x|y|" || keys[1] != "y" {
		t.Errorf("Keys() = %v", keys)
	}
}

func TestPatternTable_Nil(t *testing.T) {
	var table *PatternTable
	if _, ok := table.Pattern("x"); ok {
		t.Error("nil table must not match")
	}
	if table.Len() != 0 || table.Keys() != nil {
		t.Error("nil table must be empty")
	}
}

func TestFallbackResult(t *testing.T) {
	r := FallbackResult()
	if r.Content != FallbackContent || r.Position != UnknownPosition || r.Classes != "" {
		t.Errorf("FallbackResult() = %+v", r)
	}
}

func TestNavigationError_Is(t *testing.T) {
	var err error = &NavigationError{Kind: ErrInvalidState, QuestionID: "1"}
	if !errors.Is(err, ErrInvalidState) {
		t.Error("errors.Is should match the error kind")
	}
	if errors.Is(err, ErrUnknownOption) {
		t.Error("errors.Is should not match other kinds")
	}
}
