package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{`   ___        _     _                 `, "#818cf8"},
	{`  / _ \ _   _(_)___| |_ _ __ ___  ___ `, "#a78bfa"},
	{` | | | | | | | |_  / __| '__/ _ \/ _ \`, "#c084fc"},
	{` | |_| | |_| | |/ /| |_| | |  __/  __/`, "#e879f9"},
	{`  \__\_\\__,_|_/___|\__|_|  \___|\___|`, "#f472b6"},
}

// PrintBanner writes the quiztree banner followed by the questionnaire title.
func PrintBanner(w io.Writer, version, title string) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for _, line := range bannerLines {
		fmt.Fprintln(w, out.String(line.text).Foreground(out.Color(line.color)))
	}
	fmt.Fprintln(w, out.String("  v"+strings.TrimSpace(version)).Faint())
	if title != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, out.String("  "+title).Bold())
	}
}
