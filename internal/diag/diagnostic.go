package diag

import (
	"stylc/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is one finding attached to a stylesheet node.
// Node is the cssast handle of the triggering node (0 when synthetic);
// Word narrows the primary span to a sub-string of that node when set.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Node     uint32
	Word     string
	Notes    []Note
}
