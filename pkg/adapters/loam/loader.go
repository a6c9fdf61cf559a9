// Package loam loads a questionnaire from a directory holding one markdown
// document per question, read through the loam document store.
//
// A question document carries its options in frontmatter and its prompt as
// the body:
//
//	---
//	options:
//	  - {key: yes, label: "Yes", val: public, nextQ: 2}
//	  - {key: no, label: "No", val: internal}
//	---
//	Is your project public facing?
//
// The question id is the file name without extension unless frontmatter sets
// id. An optional questionnaire.md sets title, start and patterns.
package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/quiztree/internal/compiler"
	"github.com/aretw0/quiztree/pkg/domain"
)

// Loader adapts a loam repository to ports.QuestionnaireLoader and
// ports.Watchable.
type Loader struct {
	Repo *loam.TypedRepository[QuestionMetadata]
}

// New creates a Loader over an initialized repository.
func New(repo *loam.TypedRepository[QuestionMetadata]) *Loader {
	return &Loader{Repo: repo}
}

// Open initializes a strict, read-only loam repository at dir.
// Strict mode decodes numbers as json.Number so "2" and 2 read alike.
func Open(dir string, opts ...loam.Option) (*Loader, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	opts = append([]loam.Option{loam.WithStrict(true), loam.WithReadOnly(true)}, opts...)
	repo, err := loam.Init(absPath, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[QuestionMetadata](repo)), nil
}

// Load lists every document and compiles them into a questionnaire.
// Documents are listed for their ids and then read one by one, as listing
// does not promise bodies.
func (l *Loader) Load(ctx context.Context) (*domain.Questionnaire, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	var (
		manifest  QuestionMetadata
		questions []domain.Question
		seen      = make(map[string]string, len(docs))
	)
	for _, listed := range docs {
		doc, err := l.Repo.Get(ctx, listed.ID)
		if err != nil {
			return nil, fmt.Errorf("loam get failed for %s: %w", listed.ID, err)
		}

		rawID := doc.Data.ID
		if rawID == "" {
			rawID = doc.ID
		}
		id := trimExtension(rawID)

		if existing, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", id, existing, doc.ID)
		}
		seen[id] = doc.ID

		if id == ManifestID {
			manifest = doc.Data
			continue
		}
		q, err := buildQuestion(id, doc.Data, doc.Content)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", doc.ID, err)
		}
		questions = append(questions, q)
	}

	sort.Slice(questions, func(i, j int) bool {
		return lessID(questions[i].ID, questions[j].ID)
	})

	start := manifest.Start
	if start == "" {
		if _, ok := seen[compiler.DefaultStartID]; ok {
			start = compiler.DefaultStartID
		}
	}
	graph, err := domain.NewQuestionGraph(start, questions...)
	if err != nil {
		return nil, err
	}

	patterns := make(map[string]domain.PatternEntry, len(manifest.Patterns))
	for key, raw := range manifest.Patterns {
		entry, err := compiler.PatternFromMap(raw)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", key, err)
		}
		patterns[key] = entry
	}

	return &domain.Questionnaire{
		Title:    manifest.Title,
		Graph:    graph,
		Patterns: domain.NewPatternTable(patterns),
	}, nil
}

func buildQuestion(id string, meta QuestionMetadata, content string) (domain.Question, error) {
	q := domain.Question{ID: id, Prompt: strings.TrimSpace(content)}
	if q.Prompt == "" {
		q.Prompt = meta.Question
	}
	for i, raw := range meta.Options {
		opt, err := compiler.OptionFromMap("", raw)
		if err != nil {
			return domain.Question{}, fmt.Errorf("question %q option %d: %w", id, i+1, err)
		}
		q.Options = append(q.Options, opt)
	}
	if err := compiler.UniqueOptions(id, q.Options); err != nil {
		return domain.Question{}, err
	}
	return q, nil
}

// lessID orders numeric ids numerically and everything else lexically,
// numbers first.
func lessID(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	return a < b
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

// Watch implements ports.Watchable. Any markdown, JSON or YAML document
// change in the repository signals a reload.
func (l *Loader) Watch(ctx context.Context) (<-chan struct{}, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- struct{}{}:
				default:
				}
			}
		}
	}()
	return ch, nil
}
