package source

import "fmt"

// FileID uniquely identifies a source file within a FileSet.
type FileID uint32

// NoFileID marks the absence of a file reference.
const NoFileID FileID = ^FileID(0)

// Span is a half-open byte range [Start, End) inside a single file.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover extends the span to include other. Spans from different files are
// left untouched.
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

// LineCol is a human-readable position, both components 1-based.
type LineCol struct {
	Line uint32
	Col  uint32
}

func (lc LineCol) String() string {
	return fmt.Sprintf("%d:%d", lc.Line, lc.Col)
}
