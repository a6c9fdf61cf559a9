package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/quiztree/pkg/domain"
	"github.com/aretw0/quiztree/pkg/runner"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Back   key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Select: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "choose")),
	Back:   key.NewBinding(key.WithKeys("b", "backspace"), key.WithHelp("b", "back")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

var (
	promptStyle   = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#c084fc")).Bold(true)
	helpStyle     = lipgloss.NewStyle().Faint(true).MarginTop(1)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#c084fc"))
)

// PickerModel is a bubbletea model for choosing one option of a question.
type PickerModel struct {
	question domain.Question
	step     int
	prompt   string
	cursor   int

	// Choice is the picked option key, runner.CommandBack, or empty when the
	// respondent quit.
	Choice string
}

// NewPickerModel creates a picker for q. prompt is the already rendered prompt text.
func NewPickerModel(q domain.Question, step int, prompt string) PickerModel {
	if prompt == "" {
		prompt = q.Prompt
	}
	return PickerModel{question: q, step: step, prompt: prompt}
}

func (m PickerModel) Init() tea.Cmd {
	return nil
}

func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	n := len(m.question.Options)
	switch {
	case key.Matches(km, keys.Quit):
		m.Choice = ""
		return m, tea.Quit
	case key.Matches(km, keys.Up):
		if n > 0 {
			m.cursor = (m.cursor - 1 + n) % n
		}
	case key.Matches(km, keys.Down):
		if n > 0 {
			m.cursor = (m.cursor + 1) % n
		}
	case key.Matches(km, keys.Select):
		if n > 0 {
			m.Choice = m.question.Options[m.cursor].Key
			return m, tea.Quit
		}
	case key.Matches(km, keys.Back):
		m.Choice = runner.CommandBack
		return m, tea.Quit
	default:
		// Digits jump straight to an option.
		if s := km.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			if idx := int(s[0] - '1'); idx < n {
				m.Choice = m.question.Options[idx].Key
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m PickerModel) View() string {
	var b strings.Builder
	b.WriteString(promptStyle.Render(fmt.Sprintf("%d. %s", m.step, m.prompt)))
	b.WriteString("\n")
	for i, opt := range m.question.Options {
		line := fmt.Sprintf("  %d) %s", i+1, opt.Label)
		if i == m.cursor {
			line = cursorStyle.Render(">") + selectedStyle.Render(fmt.Sprintf(" %d) %s", i+1, opt.Label))
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(helpStyle.Render(strings.Join([]string{
		keys.Up.Help().Key + " " + keys.Up.Help().Desc,
		keys.Down.Help().Key + " " + keys.Down.Help().Desc,
		keys.Select.Help().Key + " " + keys.Select.Help().Desc,
		keys.Back.Help().Key + " " + keys.Back.Help().Desc,
		keys.Quit.Help().Key + " " + keys.Quit.Help().Desc,
	}, " • ")))
	b.WriteString("\n")
	return b.String()
}

// PickerHandler implements runner.IOHandler with an arrow-key picker per
// question.
type PickerHandler struct {
	in        io.Reader
	out       io.Writer
	renderer  func(string) (string, error)
	formatter func(domain.Result) string

	pending PickerModel
}

// NewPickerHandler creates a picker-based handler reading keys from in.
func NewPickerHandler(in io.Reader, out io.Writer) *PickerHandler {
	return &PickerHandler{
		in:        in,
		out:       out,
		formatter: NewResultFormatter(out),
	}
}

// WithRenderer sets the prompt renderer.
func (h *PickerHandler) WithRenderer(r func(string) (string, error)) *PickerHandler {
	h.renderer = r
	return h
}

func (h *PickerHandler) Question(ctx context.Context, q domain.Question, step int) error {
	prompt := q.Prompt
	if h.renderer != nil {
		if rendered, err := h.renderer(prompt); err == nil {
			prompt = rendered
		}
	}
	h.pending = NewPickerModel(q, step, prompt)
	return nil
}

func (h *PickerHandler) Input(ctx context.Context) (string, error) {
	p := tea.NewProgram(h.pending,
		tea.WithContext(ctx),
		tea.WithInput(h.in),
		tea.WithOutput(h.out),
	)
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	m, ok := final.(PickerModel)
	if !ok || m.Choice == "" {
		return "", io.EOF
	}
	return m.Choice, nil
}

func (h *PickerHandler) Result(ctx context.Context, res domain.Resolution) error {
	_, err := fmt.Fprintf(h.out, "\n%s\n", h.formatter(res.Result))
	return err
}

func (h *PickerHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintln(h.out, lipgloss.NewStyle().Faint(true).Render(msg))
	return err
}

var _ runner.IOHandler = (*PickerHandler)(nil)
