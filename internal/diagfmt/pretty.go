package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"stylc/internal/diag"
	"stylc/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info, code, gutter, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		writeHeader(w, p, d, fs, opts)
		if f := fileOf(fs, d.Primary); f != nil {
			writeSnippet(w, p, f, fs, d.Primary, opts)
		}
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			if f := fileOf(fs, n.Span); f != nil {
				start, _ := fs.Resolve(n.Span)
				fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", p.note.Sprint("note:"),
					formatPath(f, opts.PathMode, fs.BaseDir()), start.Line, start.Col, n.Msg)
				continue
			}
			fmt.Fprintf(w, "  %s %s\n", p.note.Sprint("note:"), n.Msg)
		}
	}
}

func fileOf(fs *source.FileSet, sp source.Span) *source.File {
	if fs == nil || !sp.IsValid() {
		return nil
	}
	return fs.Get(sp.File)
}

func writeHeader(w io.Writer, p palette, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	if f := fileOf(fs, d.Primary); f != nil {
		start, _ := fs.Resolve(d.Primary)
		fmt.Fprintf(w, "%s:%d:%d: ", formatPath(f, opts.PathMode, fs.BaseDir()), start.Line, start.Col)
	}
	fmt.Fprintf(w, "%s %s: %s\n",
		p.severity(d.Severity).Sprint(d.Severity.String()),
		p.code.Sprint(d.Code.ID()),
		d.Message,
	)
}

// writeSnippet prints the context lines, the primary line and a caret line
// under the span. Spans over several lines are underlined to the end of
// their first line.
func writeSnippet(w io.Writer, p palette, f *source.File, fs *source.FileSet, sp source.Span, opts PrettyOpts) {
	start, end := fs.Resolve(sp)
	first := start.Line
	if opts.Context > 0 {
		first = max(1, start.Line-uint32(opts.Context))
	}
	gutter := len(strconv.FormatUint(uint64(start.Line), 10))

	for line := first; line <= start.Line; line++ {
		text := expandTabs(f.GetLine(line))
		if opts.Width > 0 {
			text = truncate(text, int(opts.Width))
		}
		fmt.Fprintf(w, " %s %s\n", p.gutter.Sprintf("%*d |", gutter, line), text)
	}

	raw := f.GetLine(start.Line)
	startCol := int(start.Col) - 1
	endCol := len(raw)
	if end.Line == start.Line {
		endCol = int(end.Col) - 1
	}
	startCol = min(startCol, len(raw))
	endCol   = min(max(endCol, startCol), len(raw))

	pad := runewidth.StringWidth(expandTabs(raw[:startCol]))
	width := max(1, runewidth.StringWidth(expandTabs(raw[startCol:endCol])))
	if opts.Width > 0 && pad >= int(opts.Width) {
		return
	}
	marker := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, " %s %s%s\n", p.gutter.Sprintf("%*s |", gutter, ""), strings.Repeat(" ", pad), p.caret.Sprint(marker))
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

func truncate(value string, width int) string {
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
