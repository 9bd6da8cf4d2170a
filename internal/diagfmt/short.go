package diagfmt

import (
	"io"

	"stylc/internal/diag"
	"stylc/internal/source"
)

// Short writes one line per diagnostic: "<SEV> <CODE> <path>:<line>:<col> <message>".
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, includeNotes bool) error {
	out := diag.FormatShortDiagnostics(bag.Pointers(), fs, includeNotes)
	if out == "" {
		return nil
	}
	_, err := io.WriteString(w, out+"\n")
	return err
}
