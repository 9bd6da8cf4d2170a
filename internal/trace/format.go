package trace

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Format represents the output format for trace events.
type Format uint8

const (
	FormatAuto   Format = iota // by output path
	FormatText                 // human-readable text
	FormatNDJSON               // newline-delimited JSON
)

// FormatEvent formats an event according to the specified format.
func FormatEvent(ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		return formatNDJSON(ev)
	}
	return formatText(ev)
}

func formatNDJSON(ev *Event) []byte {
	type jsonEvent struct {
		Time      string  `json:"time"`
		Seq       uint64  `json:"seq"`
		Kind      string  `json:"kind"`
		Scope     string  `json:"scope"`
		Name      string  `json:"name"`
		Path      string  `json:"path,omitempty"`
		ElapsedMS float64 `json:"elapsed_ms,omitempty"`
		Detail    string  `json:"detail,omitempty"`
	}

	data, _ := json.Marshal(jsonEvent{
		Time:      ev.Time.Format("2006-01-02T15:04:05.000000Z07:00"),
		Seq:       ev.Seq,
		Kind:      ev.Kind.String(),
		Scope:     ev.Scope.String(),
		Name:      ev.Name,
		Path:      ev.Path,
		ElapsedMS: float64(ev.Elapsed) / float64(time.Millisecond),
		Detail:    ev.Detail,
	})
	return append(data, '\n')
}

// formatText: "#seq [indent]→/← scope:name path (elapsed) detail"
func formatText(ev *Event) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "#%-5d ", ev.Seq)
	sb.WriteString(strings.Repeat("  ", int(ev.Scope)-1))

	switch ev.Kind {
	case KindSpanBegin:
		sb.WriteString("→ ")
	case KindSpanEnd:
		sb.WriteString("← ")
	default:
		sb.WriteString("• ")
	}
	sb.WriteString(ev.Scope.String())
	sb.WriteByte(':')
	sb.WriteString(ev.Name)
	if ev.Path != "" {
		sb.WriteByte(' ')
		sb.WriteString(ev.Path)
	}
	if ev.Kind == KindSpanEnd {
		fmt.Fprintf(&sb, " (%.3fms)", float64(ev.Elapsed)/float64(time.Millisecond))
	}
	if ev.Detail != "" {
		sb.WriteByte(' ')
		sb.WriteString(ev.Detail)
	}
	sb.WriteByte('\n')
	return []byte(sb.String())
}
