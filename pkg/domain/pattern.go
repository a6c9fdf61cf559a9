package domain

import "sort"

const (
	// UnknownPosition is reported when a pattern has no position, and by the fallback result.
	UnknownPosition = "unknown"

	// FallbackContent is the content of the result returned when no pattern matches.
	FallbackContent = "You are too unique - we have no data that matches your answers."
)

// PatternEntry describes the result bound to a trail key (or to a bare last answer).
type PatternEntry struct {
	Content  string `json:"content" yaml:"content" mapstructure:"content"`
	Position string `json:"position,omitempty" yaml:"position,omitempty" mapstructure:"position"`
	Classes  string `json:"classes,omitempty" yaml:"classes,omitempty" mapstructure:"classes"`
}

// Result is the resolved outcome of a finished run.
type Result struct {
	Content  string `json:"content"`
	Position string `json:"position"`
	Classes  string `json:"classes"`
}

// Result converts the entry applying the documented defaults.
func (p PatternEntry) Result() Result {
	position := p.Position
	if position == "" {
		position = UnknownPosition
	}
	return Result{
		Content:  p.Content,
		Position: position,
		Classes:  p.Classes,
	}
}

// FallbackResult is returned when a trail matches no pattern.
func FallbackResult() Result {
	return Result{
		Content:  FallbackContent,
		Position: UnknownPosition,
	}
}

// PatternTable is a read-only mapping from trail keys to results.
type PatternTable struct {
	entries map[string]PatternEntry
}

// NewPatternTable copies entries into a new table.
func NewPatternTable(entries map[string]PatternEntry) *PatternTable {
	t := &PatternTable{entries: make(map[string]PatternEntry, len(entries))}
	for k, v := range entries {
		t.entries[k] = v
	}
	return t
}

// Pattern looks up an entry by key. A nil table holds no entries.
func (t *PatternTable) Pattern(key string) (PatternEntry, bool) {
	if t == nil {
		return PatternEntry{}, false
	}
	e, ok := t.entries[key]
	return e, ok
}

// Keys returns every key, sorted.
func (t *PatternTable) Keys() []string {
	if t == nil {
		return nil
	}
	keys := make([]string, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of entries.
func (t *PatternTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Questionnaire bundles the data a run needs.
type Questionnaire struct {
	Title    string
	Graph    *QuestionGraph
	Patterns *PatternTable
}
