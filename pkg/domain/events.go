package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventQuestionEnter EventType = "question_enter"
	EventAnswer        EventType = "answer"
	EventFinish        EventType = "finish"
	EventResolve       EventType = "resolve"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
}

// QuestionEvent is emitted when a run arrives at a question.
type QuestionEvent struct {
	EventBase
	QuestionID string `json:"question_id"`
}

// AnswerEvent is emitted for every recorded answer.
type AnswerEvent struct {
	EventBase
	QuestionID string `json:"question_id"`
	OptionKey  string `json:"option_key"`
	Value      string `json:"value"`
	Finished   bool   `json:"finished"`
}

// ResolveEvent is emitted when a finished trail is resolved.
type ResolveEvent struct {
	EventBase
	Key    string    `json:"key"`
	Tier   MatchTier `json:"tier"`
	Result Result    `json:"result"`
}

// LifecycleHooks defines callbacks for engine observability.
// Any of them may be nil.
type LifecycleHooks struct {
	OnQuestionEnter func(context.Context, *QuestionEvent)
	OnAnswer        func(context.Context, *AnswerEvent)
	OnFinish        func(context.Context, *AnswerEvent)
	OnResolve       func(context.Context, *ResolveEvent)
}

// MatchTier tells which lookup produced a result.
type MatchTier string

const (
	TierExact      MatchTier = "exact"
	TierLastAnswer MatchTier = "last_answer"
	TierFallback   MatchTier = "fallback"
)

// Resolution is a Result together with how it was found.
type Resolution struct {
	Result Result    `json:"result"`
	Tier   MatchTier `json:"tier"`

	// Key is the pattern key that matched; empty for the fallback.
	Key string `json:"key,omitempty"`
}
