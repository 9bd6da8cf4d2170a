package main

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// buildSummary is what "stylc build" reports after the diagnostics.
type buildSummary struct {
	Files    int
	Cached   int
	Written  int
	Out      string
	Errors   int
	Warnings int
	Elapsed  time.Duration
	Failed   bool
}

type summaryStyles struct {
	ok     lipgloss.Style
	fail   lipgloss.Style
	label  lipgloss.Style
	detail lipgloss.Style
}

func newSummaryStyles(w io.Writer, color bool) summaryStyles {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.ANSI)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return summaryStyles{
		ok:     r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		fail:   r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		label:  r.NewStyle().Bold(true),
		detail: r.NewStyle().Foreground(lipgloss.Color("8")).PaddingLeft(2),
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// render formats the summary block; it always ends with a newline.
func (s buildSummary) render(w io.Writer, color bool) string {
	st := newSummaryStyles(w, color)
	head := st.ok.Render("ok")
	if s.Failed {
		head = st.fail.Render("failed")
	}
	title := fmt.Sprintf("%s %s", head, st.label.Render("built "+plural(s.Files, "stylesheet")))
	if s.Cached > 0 {
		title += fmt.Sprintf(" (%d cached)", s.Cached)
	}
	title += fmt.Sprintf(" in %.1f ms", float64(s.Elapsed)/float64(time.Millisecond))

	lines := []string{title}
	if s.Written > 0 {
		lines = append(lines, st.detail.Render(fmt.Sprintf("%s written to %s", plural(s.Written, "file"), s.Out)))
	}
	lines = append(lines, st.detail.Render(plural(s.Errors, "error")+", "+plural(s.Warnings, "warning")))
	return lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}
