package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/quiztree/pkg/domain"
	"github.com/muesli/termenv"
)

// classColors maps well-known option/pattern classes to colours.
var classColors = map[string]string{
	"alert":   "#f87171",
	"danger":  "#f87171",
	"warning": "#fbbf24",
	"warn":    "#fbbf24",
	"success": "#34d399",
	"info":    "#60a5fa",
	"muted":   "#9ca3af",
}

// NewResultFormatter returns a formatter printing "position: content" with the
// position highlighted for the colour profile of w. The fallback result is
// shown in a warning colour.
func NewResultFormatter(w io.Writer) func(domain.Result) string {
	out := termenv.NewOutput(w)
	return func(res domain.Result) string {
		color := resultColor(res)
		position := out.String(res.Position).Bold().Foreground(out.Color(color))
		return fmt.Sprintf("%s: %s", position, res.Content)
	}
}

func resultColor(res domain.Result) string {
	if res.Content == domain.FallbackContent {
		return classColors["warning"]
	}
	for _, class := range strings.Fields(res.Classes) {
		if c, ok := classColors[strings.ToLower(class)]; ok {
			return c
		}
	}
	return "#818cf8"
}
