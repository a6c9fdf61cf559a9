package compiler

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"

	"github.com/aretw0/quiztree/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// optionDoc accepts the field names of both the legacy and the current format.
type optionDoc struct {
	Key     string `mapstructure:"key"`
	Label   string `mapstructure:"label"`
	Val     string `mapstructure:"val"`
	Value   string `mapstructure:"value"`
	NextQ   string `mapstructure:"nextQ"`
	Next    string `mapstructure:"next"`
	Classes string `mapstructure:"classes"`
}

// OptionFromMap builds an option from a loosely typed mapping such as YAML
// frontmatter. key wins over a "key" field; the label defaults to the key.
func OptionFromMap(key string, raw map[string]any) (domain.Option, error) {
	var doc optionDoc
	if err := Decode(raw, &doc); err != nil {
		return domain.Option{}, err
	}
	if key == "" {
		key = doc.Key
	}
	if key == "" {
		return domain.Option{}, fmt.Errorf("option missing key")
	}

	opt := domain.Option{
		Key:     key,
		Label:   doc.Label,
		Value:   firstNonEmpty(doc.Val, doc.Value),
		Next:    firstNonEmpty(doc.NextQ, doc.Next),
		Classes: doc.Classes,
	}
	if opt.Label == "" {
		opt.Label = key
	}
	return opt, nil
}

// UniqueOptions rejects a question whose options repeat a key.
func UniqueOptions(questionID string, opts []domain.Option) error {
	seen := make(map[string]bool, len(opts))
	for _, opt := range opts {
		if seen[opt.Key] {
			return fmt.Errorf("question %q: duplicate option %q", questionID, opt.Key)
		}
		seen[opt.Key] = true
	}
	return nil
}

// PatternFromMap builds a pattern entry from a loosely typed mapping.
func PatternFromMap(raw map[string]any) (domain.PatternEntry, error) {
	var entry domain.PatternEntry
	if err := Decode(raw, &entry); err != nil {
		return domain.PatternEntry{}, err
	}
	return entry, nil
}

// Decode copies input into the struct out. Scalars bound for string fields
// are written as authored: true becomes "true" and 2 becomes "2".
func Decode(input any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: scalarToString,
		Result:     out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

func scalarToString(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.String || data == nil {
		return data, nil
	}
	if s, ok := ScalarString(data); ok {
		return s, nil
	}
	return nil, fmt.Errorf("expected a scalar, got %T", data)
}

// ScalarString formats a decoded scalar the way it reads in the document.
func ScalarString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	case bool:
		return strconv.FormatBool(x), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case uint64:
		return strconv.FormatUint(x, 10), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case nil:
		return "", true
	}
	return "", false
}
