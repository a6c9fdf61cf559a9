package domain

// State is the snapshot of a single questionnaire run.
type State struct {
	SessionID string `json:"session_id,omitempty"`

	// CurrentQuestionID is the question awaiting an answer. After the run is
	// finished it keeps pointing at the last answered question.
	CurrentQuestionID string `json:"current_question_id"`

	// Trail holds one answer-value per answered question, in order.
	Trail Trail `json:"trail"`

	// Finished is set once an option without a next question was chosen.
	Finished bool `json:"finished"`

	// History lists the visited question ids, start first.
	History []string `json:"history,omitempty"`
}

// NewState creates a clean state positioned at the start question.
func NewState(sessionID, startQuestionID string) *State {
	return &State{
		SessionID:         sessionID,
		CurrentQuestionID: startQuestionID,
		Trail:             Trail{},
		History:           []string{startQuestionID},
	}
}

// Snapshot returns a deep copy.
func (s *State) Snapshot() *State {
	if s == nil {
		return nil
	}
	next := *s
	next.Trail = append(Trail{}, s.Trail...)
	next.History = append([]string(nil), s.History...)
	return &next
}

// AdvanceResult reports the outcome of a successful advance.
type AdvanceResult struct {
	Finished       bool   `json:"finished"`
	NextQuestionID string `json:"next_question_id,omitempty"`
}

// HistoryEntry is a browsable snapshot taken after each successful advance.
//
// Trail is optional. An entry without it restores only the question, not the
// answers given before it.
type HistoryEntry struct {
	QuestionID string   `json:"question_id"`
	Question   Question `json:"question"`
	Trail      Trail    `json:"trail,omitempty"`
}
