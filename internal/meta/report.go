package meta

import (
	"fmt"
	"strings"

	"stylc/internal/cssast"
	"stylc/internal/diag"
	"stylc/internal/source"
)

// Error reports an error on node, narrowed to word when word is found in
// the node's source text.
func (m *Meta) Error(code diag.Code, node cssast.NodeID, word, format string, args ...any) {
	m.report(diag.SevError, code, node, word, format, args...)
}

func (m *Meta) Warn(code diag.Code, node cssast.NodeID, word, format string, args ...any) {
	m.report(diag.SevWarning, code, node, word, format, args...)
}

func (m *Meta) Info(code diag.Code, node cssast.NodeID, word, format string, args ...any) {
	m.report(diag.SevInfo, code, node, word, format, args...)
}

// Report implements diag.Reporter so the CSS parser can write into the Meta.
func (m *Meta) Report(d diag.Diagnostic) {
	m.Diagnostics.Add(d)
}

func (m *Meta) report(sev diag.Severity, code diag.Code, node cssast.NodeID, word, format string, args ...any) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	d := diag.New(sev, code, m.span(node, word), msg).At(uint32(node), word)
	m.Diagnostics.Add(d)
}

func (m *Meta) span(node cssast.NodeID, word string) source.Span {
	n := m.AST.Node(node)
	if n == nil {
		return source.Span{File: m.File}
	}
	sp := n.Span
	if word == "" || m.Files == nil {
		return sp
	}
	if i := strings.Index(m.Files.Text(sp), word); i >= 0 {
		return sp.Sub(uint32(i), uint32(len(word)))
	}
	return sp
}
