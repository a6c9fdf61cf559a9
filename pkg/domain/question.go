package domain

// Option is a single selectable answer of a Question.
type Option struct {
	// Key identifies the option within its question. It is what a Presenter
	// passes to Advance.
	Key string `json:"key" yaml:"key"`

	// Label is the display text.
	Label string `json:"label" yaml:"label"`

	// Value is the answer-value recorded into the trail when the option is chosen.
	Value string `json:"value" yaml:"value"`

	// Next names the question that follows. Empty means choosing this option
	// finishes the questionnaire.
	Next string `json:"next,omitempty" yaml:"next,omitempty"`

	// Classes is presentation metadata carried through untouched.
	Classes string `json:"classes,omitempty" yaml:"classes,omitempty"`
}

// Ends reports whether choosing the option finishes the run.
func (o Option) Ends() bool {
	return o.Next == ""
}

// Question is a node of the questionnaire graph.
type Question struct {
	ID     string `json:"id" yaml:"id"`
	Prompt string `json:"prompt" yaml:"prompt"`

	// Options are kept in authoring order.
	Options []Option `json:"options" yaml:"options"`
}

// Option looks up an option by key.
func (q Question) Option(key string) (Option, bool) {
	for _, opt := range q.Options {
		if opt.Key == key {
			return opt, true
		}
	}
	return Option{}, false
}

// OptionKeys returns the option keys in authoring order.
func (q Question) OptionKeys() []string {
	keys := make([]string, len(q.Options))
	for i, opt := range q.Options {
		keys[i] = opt.Key
	}
	return keys
}

// IsTerminal reports whether no option of the question leads anywhere.
func (q Question) IsTerminal() bool {
	for _, opt := range q.Options {
		if !opt.Ends() {
			return false
		}
	}
	return true
}

func (q Question) clone() Question {
	out := q
	out.Options = append([]Option(nil), q.Options...)
	return out
}
