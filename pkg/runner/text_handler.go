package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/quiztree/pkg/domain"
	"golang.org/x/term"
)

// TextHandler implements the standard line-based terminal interface.
type TextHandler struct {
	Reader    *bufio.Reader
	Writer    io.Writer
	Renderer  ContentRenderer
	Formatter ResultFormatter

	interactive bool
	inputChan   chan inputResult
	startOnce   sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the prompt renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithTextHandlerFormatter configures how the final result line is printed.
func WithTextHandlerFormatter(formatter ResultFormatter) TextHandlerOption {
	return func(h *TextHandler) {
		h.Formatter = formatter
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader:      bufio.NewReader(r),
		Writer:      w,
		Formatter:   FormatResult,
		interactive: IsTerminal(r),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// IsTerminal reports whether v is a file attached to a terminal.
func IsTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// Interactive reports whether input comes from a terminal.
func (h *TextHandler) Interactive() bool {
	return h.interactive
}

// FormatResult renders a result as "position: content".
func FormatResult(res domain.Result) string {
	return fmt.Sprintf("%s: %s", res.Position, res.Content)
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

// pump reads lines in the background so Input can honour ctx cancellation.
func (h *TextHandler) pump() {
	defer close(h.inputChan)
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err != io.EOF {
				h.inputChan <- inputResult{err: err}
			}
			return
		}
	}
}

// Question prints the prompt followed by the numbered options.
func (h *TextHandler) Question(ctx context.Context, q domain.Question, step int) error {
	prompt := q.Prompt
	if h.Renderer != nil {
		if rendered, err := h.Renderer(prompt); err == nil {
			prompt = rendered
		}
	}
	if _, err := fmt.Fprintf(h.Writer, "\n%s\n", strings.TrimSpace(prompt)); err != nil {
		return err
	}
	for i, opt := range q.Options {
		if _, err := fmt.Fprintf(h.Writer, "  %d) %s\n", i+1, opt.Label); err != nil {
			return err
		}
	}
	return nil
}

// Input prompts with "> " and returns the next sanitized line.
// Lines rejected by CleanAnswer are reported and read again.
func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			fmt.Fprint(h.Writer, "> ")
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}

			clean, err := CleanAnswer(strings.TrimRight(res.text, "\r\n"))
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return clean, nil
		}
	}
}

// Result prints the formatted result line.
func (h *TextHandler) Result(ctx context.Context, res domain.Resolution) error {
	format := h.Formatter
	if format == nil {
		format = FormatResult
	}
	_, err := fmt.Fprintf(h.Writer, "\n%s\n", format(res.Result))
	return err
}

// SystemOutput prints a meta-message.
func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintf(h.Writer, "[System] %s\n", msg)
	return err
}
