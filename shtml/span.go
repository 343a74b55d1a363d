package shtml

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// Span represents a location of a recognized unit in the document.
type Span struct {
	Offset int // Byte offset in the document
	Line   int // 1-based line number
	Column int // 1-based column number (in runes, not bytes)
	Length int // Length in bytes
}

// Source represents a span with optional file information.
type Source struct {
	File string // File name (can be empty)
	Span Span   // Location within the file
}

// IsZero returns true if the span is uninitialized.
func (s Span) IsZero() bool {
	return s.Offset == 0 && s.Line == 0 && s.Column == 0 && s.Length == 0
}

// End returns the end offset of the span.
func (s Span) End() int {
	return s.Offset + s.Length
}

func (s Source) String() string {
	if s.File == "" {
		return fmt.Sprintf("%d:%d", s.Span.Line, s.Span.Column)
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Span.Line, s.Span.Column)
}

// document is the immutable backing store shared by every input view of one parse.
type document struct {
	file  string
	src   string
	lines []int // byte offsets of line starts
}

func newDocument(file, src string) *document {
	lines := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			lines = append(lines, i+1)
		}
	}
	return &document{file: file, src: src, lines: lines}
}

// source returns the location of src[start:end].
func (d *document) source(start, end int) Source {
	line := sort.Search(len(d.lines), func(i int) bool { return d.lines[i] > start }) - 1
	col := utf8.RuneCountInString(d.src[d.lines[line]:start]) + 1
	return Source{
		File: d.file,
		Span: Span{
			Offset: start,
			Line:   line + 1,
			Column: col,
			Length: end - start,
		},
	}
}
