package source

import (
	"fmt"
)

// Span is a half-open byte range inside one stylesheet.
type Span struct {
	File  FileID
	Start uint32 // inclusive
	End   uint32 // exclusive
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

// IsValid reports whether the span belongs to a loaded file.
func (s Span) IsValid() bool {
	return s.File != NoFileID
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover returns the smallest span enclosing both s and other.
// Spans from different files are not merged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Sub narrows the span to [off, off+n) relative to its start, clamped to the span.
func (s Span) Sub(off, n uint32) Span {
	start := s.Start + off
	if start > s.End {
		start = s.End
	}
	end := start + n
	if end > s.End {
		end = s.End
	}
	return Span{File: s.File, Start: start, End: end}
}
