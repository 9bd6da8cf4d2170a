package diagfmt

import (
	"encoding/json"
	"io"

	"stylc/internal/diag"
	"stylc/internal/source"
)

// LocationJSON is a span rendered for machine consumers. Line and column
// fields are filled only with JSONOpts.IncludePositions.
type LocationJSON struct {
	File      string `json:"file,omitempty"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Title    string       `json:"title"`
	Message  string       `json:"message"`
	Word     string       `json:"word,omitempty"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// DiagnosticsOutput — корневой документ JSON-вывода.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

// jsonView переводит диагностики одного FileSet в JSON-структуры.
type jsonView struct {
	fs   *source.FileSet
	opts JSONOpts
}

func (v jsonView) location(span source.Span) LocationJSON {
	f := fileOf(v.fs, span)
	if f == nil {
		return LocationJSON{}
	}
	loc := LocationJSON{
		File:      formatPath(f, v.opts.PathMode, v.fs.BaseDir()),
		StartByte: span.Start,
		EndByte:   span.End,
	}
	if v.opts.IncludePositions {
		start, end := v.fs.Resolve(span)
		loc.StartLine, loc.StartCol = start.Line, start.Col
		loc.EndLine, loc.EndCol = end.Line, end.Col
	}
	return loc
}

func (v jsonView) diagnostic(d *diag.Diagnostic) DiagnosticJSON {
	out := DiagnosticJSON{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Title:    d.Code.Title(),
		Message:  d.Message,
		Word:     d.Word,
		Location: v.location(d.Primary),
	}
	// тайминги живут в заметке, без неё диагностика бесполезна
	if !v.opts.IncludeNotes && d.Code != diag.GenTimings {
		return out
	}
	for _, n := range d.Notes {
		out.Notes = append(out.Notes, NoteJSON{Message: n.Msg, Location: v.location(n.Span)})
	}
	return out
}

// appendBag добавляет в dst не больше limit диагностик (limit <= 0 — все).
func (v jsonView) appendBag(dst []DiagnosticJSON, bag *diag.Bag, limit int) []DiagnosticJSON {
	items := bag.Items()
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	for i := range items {
		dst = append(dst, v.diagnostic(&items[i]))
	}
	return dst
}

// BuildDiagnosticsOutput builds the JSON document without encoding it.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	list := jsonView{fs: fs, opts: opts}.appendBag(make([]DiagnosticJSON, 0, bag.Len()), bag, opts.Max)
	return DiagnosticsOutput{Diagnostics: list, Count: len(list)}
}

// JSONBatch writes several units as one document. opts.Max caps the total.
func JSONBatch(w io.Writer, units []Unit, opts JSONOpts) error {
	list := make([]DiagnosticJSON, 0)
	for _, u := range units {
		if u.Bag == nil {
			continue
		}
		limit := 0
		if opts.Max > 0 {
			if limit = opts.Max - len(list); limit <= 0 {
				break
			}
		}
		list = jsonView{fs: u.Files, opts: opts}.appendBag(list, u.Bag, limit)
	}
	return encodeJSON(w, DiagnosticsOutput{Diagnostics: list, Count: len(list)})
}

// JSON writes bag as an indented JSON document.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	return encodeJSON(w, BuildDiagnosticsOutput(bag, fs, opts))
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
