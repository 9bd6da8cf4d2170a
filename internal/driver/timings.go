package driver

import (
	"encoding/json"
	"fmt"

	"stylc/internal/diag"
	"stylc/internal/observ"
	"stylc/internal/source"
)

// fileTimings is the note payload of a GEN9002 diagnostic.
type fileTimings struct {
	Kind string `json:"kind"`
	Path string `json:"path"`
	observ.Report
}

// reportTimings attaches the per-file phase breakdown to bag as an info
// diagnostic. The breakdown itself travels in the note as JSON.
func reportTimings(bag *diag.Bag, path string, rep observ.Report) {
	if bag == nil {
		return
	}
	note, err := json.Marshal(fileTimings{Kind: "file", Path: path, Report: rep})
	if err != nil {
		return
	}
	msg := fmt.Sprintf("timings (file): total %.2f ms: %s", rep.TotalMS, path)
	diag.ReportInfo(diag.BagReporter{Bag: bag}, diag.GenTimings, source.Span{}, msg).
		WithNote(source.Span{}, string(note)).
		Emit()
}
