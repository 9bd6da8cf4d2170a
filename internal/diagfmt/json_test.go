package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"stylc/internal/diag"
	"stylc/internal/source"
)

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte(".a {\n    -st-mixin: Missing;\n}\n")
	fileID := fs.AddVirtual("/src/app.st.css", content)

	bag := diag.NewBag(10)
	d := diag.New(
		diag.SevWarning,
		diag.MixUnknown,
		source.Span{File: fileID, Start: 20, End: 27},
		`unknown mixin: "Missing"`,
	)
	d.Word = "Missing"
	bag.Add(d)

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
	}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	// Парсим JSON чтобы убедиться что он валидный
	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	if output.Count != 1 || len(output.Diagnostics) != 1 {
		t.Fatalf("Expected 1 diagnostic, got %d", output.Count)
	}

	got := output.Diagnostics[0]
	if got.Severity != "WARNING" {
		t.Errorf("Expected severity=WARNING, got %s", got.Severity)
	}
	if got.Code != "MIX8002" {
		t.Errorf("Expected code=MIX8002, got %s", got.Code)
	}
	if got.Word != "Missing" {
		t.Errorf("Expected word=Missing, got %q", got.Word)
	}
	if got.Location.File != "app.st.css" {
		t.Errorf("Expected file=app.st.css, got %s", got.Location.File)
	}
	if got.Location.StartLine != 2 || got.Location.StartCol != 16 {
		t.Errorf("Expected 2:16, got %d:%d", got.Location.StartLine, got.Location.StartCol)
	}
}

// TestJSONNotes проверяет что заметки выводятся только по запросу,
// кроме диагностик с таймингами
func TestJSONNotes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.st.css", []byte(".a {}\n"))

	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.SevError, diag.SelCircularExtends, source.Span{File: fileID, Start: 0, End: 2}, "circular extends").
		WithNote(source.Span{File: fileID, Start: 0, End: 2}, "extended here"))
	bag.Add(diag.New(diag.SevInfo, diag.GenTimings, source.Span{}, "timings (file): total 1.00 ms").
		WithNote(source.Span{}, `{"kind":"file"}`))

	output := BuildDiagnosticsOutput(bag, fs, JSONOpts{})
	if len(output.Diagnostics[0].Notes) != 0 {
		t.Errorf("notes must be omitted without IncludeNotes")
	}
	if len(output.Diagnostics[1].Notes) != 1 {
		t.Fatalf("timing notes must always be present")
	}
	if output.Diagnostics[1].Location.File != "" {
		t.Errorf("synthetic spans have no file, got %q", output.Diagnostics[1].Location.File)
	}

	output = BuildDiagnosticsOutput(bag, fs, JSONOpts{IncludeNotes: true})
	if n := output.Diagnostics[0].Notes; len(n) != 1 || n[0].Message != "extended here" {
		t.Errorf("unexpected notes: %+v", n)
	}
}

// TestJSONWithoutPositions проверяет вывод без line/col
func TestJSONWithoutPositions(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.st.css", []byte(".a {}\n"))
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.SelParse, source.Span{File: fileID, Start: 1, End: 2}, "bad"))

	output := BuildDiagnosticsOutput(bag, fs, JSONOpts{PathMode: PathModeAbsolute})
	loc := output.Diagnostics[0].Location
	if loc.StartLine != 0 || loc.StartCol != 0 {
		t.Errorf("positions must be omitted, got %d:%d", loc.StartLine, loc.StartCol)
	}
	if loc.StartByte != 1 || loc.EndByte != 2 {
		t.Errorf("unexpected byte range %d-%d", loc.StartByte, loc.EndByte)
	}
}

// TestJSONMaxLimit проверяет обрезку вывода
func TestJSONMaxLimit(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.st.css", []byte(".a {}\n"))
	bag := diag.NewBag(0)
	for i := range 5 {
		bag.Add(diag.NewWarning(diag.SymRedeclare, source.Span{File: fileID, Start: uint32(i), End: uint32(i + 1)}, "redeclare"))
	}

	output := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 3})
	if output.Count != 3 {
		t.Errorf("Expected count=3, got %d", output.Count)
	}
	if bag.Len() != 5 {
		t.Errorf("bag must not be truncated")
	}
}

// TestJSONBatch объединяет диагностики из разных FileSet
func TestJSONBatch(t *testing.T) {
	units := make([]Unit, 0, 2)
	for _, name := range []string{"/src/a.st.css", "/src/b.st.css"} {
		fs := source.NewFileSet()
		id := fs.AddVirtual(name, []byte(".x {}\n"))
		bag := diag.NewBag(10)
		bag.Add(diag.New(diag.SevError, diag.ImpUnknownFile, source.Span{File: id, Start: 0, End: 2}, "cannot resolve"))
		units = append(units, Unit{Bag: bag, Files: fs})
	}

	var buf bytes.Buffer
	if err := JSONBatch(&buf, units, JSONOpts{PathMode: PathModeBasename}); err != nil {
		t.Fatalf("JSONBatch() error: %v", err)
	}
	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}
	if output.Count != 2 {
		t.Fatalf("Expected 2 diagnostics, got %d", output.Count)
	}
	if output.Diagnostics[0].Location.File != "a.st.css" || output.Diagnostics[1].Location.File != "b.st.css" {
		t.Errorf("unexpected files: %+v", output.Diagnostics)
	}

	buf.Reset()
	if err := JSONBatch(&buf, units, JSONOpts{Max: 1}); err != nil {
		t.Fatalf("JSONBatch() error: %v", err)
	}
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}
	if output.Count != 1 {
		t.Errorf("Expected max 1 diagnostic, got %d", output.Count)
	}
}
