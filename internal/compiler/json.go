package compiler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// isJSON reports whether data looks like a JSON object document.
func isJSON(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// normalizeJSON re-emits a JSON document token by token so that the YAML
// decoder can read it. Key order is preserved. Strings are re-escaped, which
// drops escapes YAML does not know ("\/") and joins surrogate pairs.
// Numbers keep their literal text.
func normalizeJSON(data []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	type frame struct {
		object bool
		n      int
	}
	var (
		out   bytes.Buffer
		stack []frame
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}

		closing := tok == json.Delim('}') || tok == json.Delim(']')
		if len(stack) > 0 && !closing {
			top := &stack[len(stack)-1]
			switch {
			case top.object && top.n%2 == 1:
				out.WriteByte(':')
			case top.n > 0:
				out.WriteByte(',')
			}
			top.n++
		}

		switch v := tok.(type) {
		case json.Delim:
			out.WriteRune(rune(v))
			if closing {
				stack = stack[:len(stack)-1]
			} else {
				stack = append(stack, frame{object: v == '{'})
			}
		case string:
			if err := writeString(&out, v); err != nil {
				return nil, err
			}
		case json.Number:
			out.WriteString(v.String())
		case bool:
			fmt.Fprintf(&out, "%t", v)
		case nil:
			out.WriteString("null")
		}
	}
	return out.Bytes(), nil
}

func writeString(out *bytes.Buffer, s string) error {
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode terminates every value with a newline.
	out.Truncate(out.Len() - 1)
	return nil
}
