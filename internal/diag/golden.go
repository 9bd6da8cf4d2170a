package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"stylc/internal/source"
)

// lineEntry is one rendered line: a diagnostic or one of its notes.
type lineEntry struct {
	label   string
	code    string
	path    string
	line    uint32
	col     uint32
	message string
}

func (e lineEntry) String() string {
	return fmt.Sprintf("%s %s %s:%d:%d %s", e.label, e.code, e.path, e.line, e.col, e.message)
}

func compareEntries(a, b lineEntry) int {
	return cmp.Or(
		cmp.Compare(a.path, b.path),
		cmp.Compare(a.line, b.line),
		cmp.Compare(a.col, b.col),
		cmp.Compare(a.label, b.label),
		cmp.Compare(a.code, b.code),
		cmp.Compare(a.message, b.message),
	)
}

// FormatGoldenDiagnostics renders one line per diagnostic for golden files:
// "<label> <CODE> <path>:<line>:<col> <message>". Entries inside installed
// packages (node_modules) are dropped so fixtures do not depend on them.
func FormatGoldenDiagnostics(diags []*Diagnostic, fs *source.FileSet, includeNotes bool) string {
	return formatLines(diags, fs, includeNotes, true)
}

// FormatShortDiagnostics is FormatGoldenDiagnostics for CLI output; package
// paths are kept.
func FormatShortDiagnostics(diags []*Diagnostic, fs *source.FileSet, includeNotes bool) string {
	return formatLines(diags, fs, includeNotes, false)
}

func formatLines(diags []*Diagnostic, fs *source.FileSet, includeNotes, skipPackages bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}
	var entries []lineEntry
	add := func(label, code string, sp source.Span, msg string) {
		path, pos, ok := locate(fs, sp)
		if !ok || skipPackages && inPackage(path) {
			return
		}
		entries = append(entries, lineEntry{
			label:   label,
			code:    code,
			path:    path,
			line:    pos.Line,
			col:     pos.Col,
			message: oneLine(msg),
		})
	}
	for _, d := range diags {
		add(d.Severity.Label(), d.Code.ID(), d.Primary, d.Message)
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			add("note", d.Code.ID(), n.Span, n.Msg)
		}
	}
	slices.SortStableFunc(entries, compareEntries)

	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.String()
	}
	return strings.Join(lines, "\n")
}

// locate resolves the start of sp relative to the FileSet base directory.
func locate(fs *source.FileSet, sp source.Span) (string, source.LineCol, bool) {
	f := fs.Get(sp.File)
	if f == nil || int(sp.Start) > len(f.Content) {
		return "", source.LineCol{}, false
	}
	start, _ := fs.Resolve(sp)
	p := filepath.ToSlash(f.RelPath(fs.BaseDir()))
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return p, start, true
}

func inPackage(path string) bool {
	p := strings.TrimLeft(path, "/")
	return strings.HasPrefix(p, "node_modules/") || strings.Contains(p, "/node_modules/")
}

func oneLine(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	return strings.TrimSpace(strings.ReplaceAll(msg, "\n", " "))
}
