package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/quiztree/pkg/domain"
)

// LoggingHooks logs every lifecycle event at Info level.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnQuestionEnter: func(ctx context.Context, e *domain.QuestionEvent) {
			logger.InfoContext(ctx, "question_enter",
				"session_id", e.SessionID,
				"question_id", e.QuestionID,
			)
		},
		OnAnswer: func(ctx context.Context, e *domain.AnswerEvent) {
			logger.InfoContext(ctx, "answer",
				"session_id", e.SessionID,
				"question_id", e.QuestionID,
				"option", e.OptionKey,
				"value", e.Value,
			)
		},
		OnFinish: func(ctx context.Context, e *domain.AnswerEvent) {
			logger.InfoContext(ctx, "finish", "session_id", e.SessionID, "question_id", e.QuestionID)
		},
		OnResolve: func(ctx context.Context, e *domain.ResolveEvent) {
			logger.InfoContext(ctx, "resolve",
				"session_id", e.SessionID,
				"key", e.Key,
				"tier", e.Tier,
				"position", e.Result.Position,
			)
		},
	}
}

// Merge combines hooks so that each event reaches every non-nil callback, in
// argument order.
func Merge(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range hooks {
		out.OnQuestionEnter = chain(out.OnQuestionEnter, h.OnQuestionEnter)
		out.OnAnswer = chain(out.OnAnswer, h.OnAnswer)
		out.OnFinish = chain(out.OnFinish, h.OnFinish)
		out.OnResolve = chain(out.OnResolve, h.OnResolve)
	}
	return out
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
