package diag

import (
	"testing"

	"stylc/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	userFile := fs.Add("/workspace/src/button.st.css", []byte(".a{}\n.b{}\n"), 0)
	pkgFile := fs.Add("/workspace/node_modules/lib/index.st.css", []byte(".x{}\n"), 0)

	diags := []*Diagnostic{
		{
			Severity: SevError,
			Code:     ImpUnknownFile,
			Message:  "cannot resolve imported file:\n\"./missing.st.css\"",
			Primary:  source.Span{File: userFile, Start: 0, End: 2},
			Notes: []Note{
				{Span: source.Span{File: pkgFile, Start: 0, End: 0}, Msg: "skip me"},
				{Span: source.Span{File: userFile, Start: 5, End: 7}, Msg: "imported here"},
			},
		},
		{
			Severity: SevWarning,
			Code:     SymRedeclare,
			Message:  "redeclare symbol \"b\"",
			Primary:  source.Span{File: userFile, Start: 5, End: 7},
		},
	}

	expected := "error IMP3016 src/button.st.css:1:1 cannot resolve imported file: \"./missing.st.css\"\n" +
		"note IMP3016 src/button.st.css:2:1 imported here\n" +
		"warning SYM2001 src/button.st.css:2:1 redeclare symbol \"b\""

	if got := FormatGoldenDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}
