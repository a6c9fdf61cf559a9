package memory

import (
	"context"
	"fmt"

	"github.com/aretw0/quiztree/internal/compiler"
	"github.com/aretw0/quiztree/pkg/domain"
)

// Loader implements ports.QuestionnaireLoader over an already built questionnaire.
type Loader struct {
	questionnaire *domain.Questionnaire
}

// NewLoader wraps q. It is returned as-is on every Load.
func NewLoader(q *domain.Questionnaire) *Loader {
	return &Loader{questionnaire: q}
}

// NewFromBytes compiles a YAML or JSON document held in memory.
// Useful for embedded questionnaires and tests.
func NewFromBytes(data []byte) (*Loader, error) {
	q, err := compiler.NewParser().Parse(data)
	if err != nil {
		return nil, err
	}
	return &Loader{questionnaire: q}, nil
}

// Load returns the wrapped questionnaire.
func (l *Loader) Load(ctx context.Context) (*domain.Questionnaire, error) {
	if l.questionnaire == nil || l.questionnaire.Graph == nil {
		return nil, fmt.Errorf("memory loader: no questionnaire")
	}
	return l.questionnaire, nil
}
