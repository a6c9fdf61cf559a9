package compiler

import (
	"fmt"

	"github.com/aretw0/quiztree/pkg/domain"
	"gopkg.in/yaml.v3"
)

// DefaultStartID is used as the start question when a document does not name
// one and a question with this id exists.
const DefaultStartID = "1"

// Parser converts a questionnaire document (YAML or JSON) into domain types.
//
// Documents look like:
//
//	title: Does your project need review?
//	start: "1"
//	questions:
//	  1:
//	    question: Is the site public?
//	    options:
//	      yes: {label: "Yes", val: "public", nextQ: 2}
//	      no:  {label: "No", val: "internal"}
//	answers:
//	  patterns:
//	    "public|yes|": {content: "...", position: "High"}
//	    internal: {content: "..."}
//
// Options may also be written as a sequence of mappings carrying "key".
// Mapping order is preserved, so both forms yield options in document order.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes data into a Questionnaire.
func (p *Parser) Parse(data []byte) (*domain.Questionnaire, error) {
	if isJSON(data) {
		normalized, err := normalizeJSON(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse questionnaire: %w", err)
		}
		data = normalized
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse questionnaire: %w", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, fmt.Errorf("empty questionnaire document")
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: questionnaire must be a mapping", doc.Line)
	}

	var (
		title     string
		start     string
		questions []domain.Question
		patterns  = map[string]domain.PatternEntry{}
		err       error
	)

	for _, kv := range pairs(doc) {
		key, val := kv[0], kv[1]
		switch key.Value {
		case "title":
			title = val.Value
		case "start":
			start = val.Value
		case "questions":
			questions, err = parseQuestions(val)
		case "answers":
			err = parseAnswers(val, patterns)
		case "patterns":
			err = parsePatterns(val, patterns)
		}
		if err != nil {
			return nil, err
		}
	}

	if start == "" {
		for _, q := range questions {
			if q.ID == DefaultStartID {
				start = DefaultStartID
				break
			}
		}
	}

	graph, err := domain.NewQuestionGraph(start, questions...)
	if err != nil {
		return nil, err
	}

	return &domain.Questionnaire{
		Title:    title,
		Graph:    graph,
		Patterns: domain.NewPatternTable(patterns),
	}, nil
}

func parseQuestions(n *yaml.Node) ([]domain.Question, error) {
	var out []domain.Question

	switch n.Kind {
	case yaml.MappingNode:
		for _, kv := range pairs(n) {
			q, err := parseQuestion(kv[0].Value, kv[1])
			if err != nil {
				return nil, err
			}
			out = append(out, q)
		}
	case yaml.SequenceNode:
		for _, item := range n.Content {
			q, err := parseQuestion(scalarField(item, "id"), item)
			if err != nil {
				return nil, err
			}
			out = append(out, q)
		}
	default:
		return nil, fmt.Errorf("line %d: questions must be a mapping or a sequence", n.Line)
	}

	return out, nil
}

func parseQuestion(id string, n *yaml.Node) (domain.Question, error) {
	if id == "" {
		return domain.Question{}, fmt.Errorf("line %d: question missing id", n.Line)
	}
	if n.Kind != yaml.MappingNode {
		return domain.Question{}, fmt.Errorf("line %d: question %q must be a mapping", n.Line, id)
	}

	q := domain.Question{ID: id}
	for _, kv := range pairs(n) {
		key, val := kv[0], kv[1]
		switch key.Value {
		case "question", "prompt":
			q.Prompt = val.Value
		case "options":
			opts, err := parseOptions(id, val)
			if err != nil {
				return domain.Question{}, err
			}
			q.Options = opts
		}
	}
	return q, nil
}

func parseOptions(questionID string, n *yaml.Node) ([]domain.Option, error) {
	var out []domain.Option

	switch n.Kind {
	case yaml.MappingNode:
		for _, kv := range pairs(n) {
			opt, err := parseOption(kv[0].Value, kv[1])
			if err != nil {
				return nil, fmt.Errorf("question %q: %w", questionID, err)
			}
			out = append(out, opt)
		}
	case yaml.SequenceNode:
		for _, item := range n.Content {
			opt, err := parseOption("", item)
			if err != nil {
				return nil, fmt.Errorf("question %q: %w", questionID, err)
			}
			out = append(out, opt)
		}
	default:
		return nil, fmt.Errorf("line %d: options of question %q must be a mapping or a sequence", n.Line, questionID)
	}

	if err := UniqueOptions(questionID, out); err != nil {
		return nil, err
	}
	return out, nil
}

func parseOption(key string, n *yaml.Node) (domain.Option, error) {
	raw, err := scalarMap(n)
	if err != nil {
		return domain.Option{}, fmt.Errorf("line %d: invalid option: %w", n.Line, err)
	}
	opt, err := OptionFromMap(key, raw)
	if err != nil {
		return domain.Option{}, fmt.Errorf("line %d: %w", n.Line, err)
	}
	return opt, nil
}

func parseAnswers(n *yaml.Node, into map[string]domain.PatternEntry) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: answers must be a mapping", n.Line)
	}
	for _, kv := range pairs(n) {
		if kv[0].Value == "patterns" {
			if err := parsePatterns(kv[1], into); err != nil {
				return err
			}
		}
	}
	return nil
}

func parsePatterns(n *yaml.Node, into map[string]domain.PatternEntry) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: patterns must be a mapping", n.Line)
	}
	for _, kv := range pairs(n) {
		raw, err := scalarMap(kv[1])
		if err != nil {
			return fmt.Errorf("line %d: invalid pattern %q: %w", kv[1].Line, kv[0].Value, err)
		}
		entry, err := PatternFromMap(raw)
		if err != nil {
			return fmt.Errorf("line %d: invalid pattern %q: %w", kv[1].Line, kv[0].Value, err)
		}
		into[kv[0].Value] = entry
	}
	return nil
}

// scalarMap collects the scalar fields of a mapping node using their literal
// text, so "true" and "1.50" reach the trail exactly as written.
func scalarMap(n *yaml.Node) (map[string]any, error) {
	if n.Kind == yaml.ScalarNode && n.Tag == "!!null" {
		return map[string]any{}, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected a mapping")
	}
	out := make(map[string]any, len(n.Content)/2)
	for _, kv := range pairs(n) {
		val := kv[1]
		if val.Kind == yaml.AliasNode {
			val = val.Alias
		}
		if val.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("field %q must be a scalar", kv[0].Value)
		}
		if val.Tag == "!!null" {
			continue
		}
		out[kv[0].Value] = val.Value
	}
	return out, nil
}

// pairs returns the key/value nodes of a mapping in document order.
func pairs(n *yaml.Node) [][2]*yaml.Node {
	out := make([][2]*yaml.Node, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		out = append(out, [2]*yaml.Node{n.Content[i], n.Content[i+1]})
	}
	return out
}

func scalarField(n *yaml.Node, name string) string {
	if n.Kind != yaml.MappingNode {
		return ""
	}
	for _, kv := range pairs(n) {
		if kv[0].Value == name {
			return kv[1].Value
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
