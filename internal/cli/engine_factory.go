package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/quiztree"
	"github.com/aretw0/quiztree/pkg/domain"
	"github.com/aretw0/quiztree/pkg/observability"
)

// candidateNames are looked up, in order, when a directory is given instead of
// a questionnaire file.
var candidateNames = []string{
	"questionnaire.yaml",
	"questionnaire.yml",
	"questionnaire.json",
	"questions.json",
}

// ResolveQuestionnairePath returns path itself when it names a file. For a
// directory it returns the first conventional questionnaire file inside it,
// or the directory itself when it holds markdown question documents.
func ResolveQuestionnairePath(path string) (string, error) {
	if path == "" {
		path = "."
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("questionnaire not found: %w", err)
	}
	if !info.IsDir() {
		return path, nil
	}
	for _, name := range candidateNames {
		candidate := filepath.Join(path, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	if docs, _ := filepath.Glob(filepath.Join(path, "*.md")); len(docs) > 0 {
		return path, nil
	}
	return "", fmt.Errorf("no questionnaire found in %s (looked for %v or *.md questions)", path, candidateNames)
}

// CreateEngine initializes a quiztree engine with standard CLI conventions.
func CreateEngine(path string, logger *slog.Logger, debug bool, hooks ...domain.LifecycleHooks) (*quiztree.Engine, error) {
	if debug {
		hooks = append(hooks, createDebugHooks(logger))
	}

	engine, err := quiztree.New(path,
		quiztree.WithLogger(logger),
		quiztree.WithLifecycleHooks(observability.Merge(hooks...)),
	)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}
