package ports

import (
	"context"

	"github.com/aretw0/quiztree/pkg/domain"
)

// QuestionnaireLoader defines how the engine retrieves its questionnaire.
// This allows the source (file, memory, embedded) to be decoupled.
type QuestionnaireLoader interface {
	// Load returns a fully compiled questionnaire.
	Load(ctx context.Context) (*domain.Questionnaire, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
// This is typically used for hot-reload or dev-mode functionality.
type Watchable interface {
	// Watch returns a channel that is signaled when the underlying document changes.
	// It abstracts away the specific event details, signaling only that a reload is required.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
