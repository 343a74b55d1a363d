package shtml

import (
	"strings"
)

// input is an immutable view of the unconsumed part of a document. Recognizers never modify
// an input, they return a new one.
type input struct {
	doc *document
	pos int
}

func (in input) rest() string {
	return in.doc.src[in.pos:]
}

func (in input) empty() bool {
	return in.pos >= len(in.doc.src)
}

func (in input) advance(n int) input {
	return input{doc: in.doc, pos: in.pos + n}
}

// source returns the location of the text between in and end.
func (in input) source(end input) Source {
	return in.doc.source(in.pos, end.pos)
}

// parser recognizes a T at the start of an input. On success it returns the remaining input.
// On failure it returns errNoMatch (or a terminal error) and the returned input is meaningless.
type parser[T any] func(in input) (T, input, error)

// alt tries each parser in order and returns the first success. A failure other than
// errNoMatch stops the alternation.
func alt[T any](ps ...parser[T]) parser[T] {
	return func(in input) (T, input, error) {
		for _, p := range ps {
			v, next, err := p(in)
			if err != errNoMatch {
				return v, next, err
			}
		}
		var zero T
		return zero, in, errNoMatch
	}
}

// preceded runs first, discards its result and then runs p.
func preceded[A, T any](first parser[A], p parser[T]) parser[T] {
	return func(in input) (T, input, error) {
		_, next, err := first(in)
		if err != nil {
			var zero T
			return zero, in, err
		}
		return p(next)
	}
}

// many0 applies p until it fails with errNoMatch and collects the results.
func many0[T any](p parser[T]) parser[[]T] {
	return func(in input) ([]T, input, error) {
		var vs []T
		for {
			v, next, err := p(in)
			if err == errNoMatch {
				return vs, in, nil
			}
			if err != nil {
				return nil, in, err
			}
			if next.pos <= in.pos {
				panic("shtml: recognizer succeeded without consuming input")
			}
			vs = append(vs, v)
			in = next
		}
	}
}

// takeWhile recognizes between lo and hi bytes accepted by fn. hi < 0 means unlimited.
func takeWhile(lo, hi int, fn func(byte) bool) parser[string] {
	return func(in input) (string, input, error) {
		s := in.rest()
		n := 0
		for n < len(s) && (hi < 0 || n < hi) && fn(s[n]) {
			n++
		}
		if n < lo {
			return "", in, errNoMatch
		}
		return s[:n], in.advance(n), nil
	}
}

// literal recognizes exactly lit.
func literal(lit string) parser[string] {
	return func(in input) (string, input, error) {
		if !strings.HasPrefix(in.rest(), lit) {
			return "", in, errNoMatch
		}
		return lit, in.advance(len(lit)), nil
	}
}

// delimiter recognizes lit after any amount of whitespace.
func delimiter(lit string) parser[string] {
	return preceded(whitespace0, literal(lit))
}

var (
	whitespace0 = takeWhile(0, -1, isWhitespace)
	whitespace1 = takeWhile(1, -1, isWhitespace)
	alnum1      = takeWhile(1, -1, isAlnum)

	tagOpen       = delimiter("<")
	tagClose      = delimiter(">")
	endTagOpen    = delimiter("</")
	selfCloseEnd  = delimiter("/>")
	bangOpen      = delimiter("<!")
	commentMarker = takeWhile(2, 100, func(c byte) bool { return c == '-' })
	commentText   = takeWhile(1, -1, func(c byte) bool { return c != '-' })
	doctypeWord   = literal("DOCTYPE")
	equalSign     = delimiter("=")
	quote         = alt(literal(`"`), literal(`'`))
)

// equals recognizes "=" with optional whitespace on both sides.
func equals(in input) (string, input, error) {
	_, next, err := equalSign(in)
	if err != nil {
		return "", in, err
	}
	_, next, _ = whitespace0(next)
	return "=", next, nil
}

// textRun recognizes everything up to the next "<" or the end of input. It matches an empty
// run too, callers decide whether that is acceptable.
func textRun(in input) (string, input, error) {
	s := in.rest()
	n := strings.IndexByte(s, '<')
	if n < 0 {
		n = len(s)
	}
	return s[:n], in.advance(n), nil
}

// Whitespace is defined to be U+0009 TAB, U+000A LF, U+000C FF, U+000D CR, or U+0020 SPACE
func isWhitespace(c byte) bool {
	return c == '\t' || c == '\n' || c == '\f' || c == '\r' || c == ' '
}

func isAlnum(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}
