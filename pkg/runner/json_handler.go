package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/aretw0/quiztree/pkg/domain"
)

// JSONHandler implements IOHandler over JSON Lines, for driving a run from
// another program.
//
// Every output is one object with a "type" of "question", "result" or
// "system". Input lines may be a bare option, a JSON string, or an object
// {"option": "..."}.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder
}

// JSONEvent is the envelope written by JSONHandler.
type JSONEvent struct {
	Type     string             `json:"type"`
	Step     int                `json:"step,omitempty"`
	Question *domain.Question   `json:"question,omitempty"`
	Result   *domain.Resolution `json:"result,omitempty"`
	Message  string             `json:"message,omitempty"`
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) Question(ctx context.Context, q domain.Question, step int) error {
	return h.Encoder.Encode(JSONEvent{Type: "question", Step: step, Question: &q})
}

func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || strings.TrimSpace(text) == "") {
		return "", err
	}
	text = strings.TrimSpace(text)

	var str string
	if err := json.Unmarshal([]byte(text), &str); err == nil {
		text = str
	} else {
		var obj struct {
			Option string `json:"option"`
		}
		if err := json.Unmarshal([]byte(text), &obj); err == nil && obj.Option != "" {
			text = obj.Option
		}
	}
	return CleanAnswer(text)
}

func (h *JSONHandler) Result(ctx context.Context, res domain.Resolution) error {
	return h.Encoder.Encode(JSONEvent{Type: "result", Result: &res})
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(JSONEvent{Type: "system", Message: msg})
}
