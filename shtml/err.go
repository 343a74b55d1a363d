package shtml

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html"
)

var (
	// ErrMalformedAttribute is reported as a warning when an attribute has a name and an
	// equals sign but no valid value. The attribute is dropped.
	ErrMalformedAttribute = errors.New("malformed attribute")

	// ErrUnrecognizedUnit is reported as a warning when no node recognizer matches the input.
	// The unit is skipped.
	ErrUnrecognizedUnit = errors.New("unrecognized unit")

	// ErrUnclosedElement aborts the parse when an element body reaches the end of the input
	// or a closing tag with another name.
	ErrUnclosedElement = errors.New("unclosed element")

	// ErrTooDeep aborts the parse when elements nest deeper than Options.MaxDepth.
	ErrTooDeep = errors.New("elements nested too deeply")

	// errNoMatch signals that a recognizer did not match. It never leaves the package.
	errNoMatch = errors.New("no match")
)

// ParseError is the terminal failure returned by Parse.
type ParseError struct {
	Err    error    // ErrUnclosedElement or ErrTooDeep
	Source Source   // location of the offending element
	Tag    string   // name of the element that failed
	Found  string   // name of the mismatched closing tag, empty at the end of input
	Path   []string // names of the open elements, from the outermost to Tag
}

func (e *ParseError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Source.String())
	sb.WriteString(": ")
	sb.WriteString(e.Err.Error())
	if e.Tag != "" {
		fmt.Fprintf(&sb, " <%s>", e.Tag)
	}
	if e.Found != "" {
		fmt.Fprintf(&sb, ": found </%s>", e.Found)
	}
	return sb.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// HTMLContext renders the innermost open elements around the failure, e.g.
// "<body><p>...</p></body>".
func (e *ParseError) HTMLContext() string {
	return renderErrorContext(buildErrorContext(e.Path))
}

// contextDepth is the number of enclosing elements kept in the error context.
const contextDepth = 3

// buildErrorContext rebuilds the chain of open elements as an XML tree with the body of the
// innermost one elided.
func buildErrorContext(path []string) *etree.Element {
	doc := &etree.Element{}
	if len(path) == 0 {
		return doc
	}
	if len(path) > contextDepth {
		path = path[len(path)-contextDepth:]
	}

	parent := doc
	for _, tag := range path {
		parent = parent.CreateElement(tag)
	}
	parent.SetText("...")
	return doc
}

func renderErrorContext(doc *etree.Element) string {
	dst := &html.Node{Type: html.DocumentNode}

	var render func(*html.Node, *etree.Element)
	render = func(dst *html.Node, src *etree.Element) {
		for _, c := range src.Child {
			switch t := c.(type) {
			case *etree.Element:
				n := &html.Node{Type: html.ElementNode, Data: t.FullTag()}
				for _, a := range t.Attr {
					n.Attr = append(n.Attr, html.Attribute{Key: a.Key, Val: a.Value})
				}
				dst.AppendChild(n)
				render(n, t)
			case *etree.CharData:
				dst.AppendChild(&html.Node{Type: html.TextNode, Data: t.Data})
			}
		}
	}

	render(dst, doc)

	var buf strings.Builder
	_ = html.Render(&buf, dst)

	return buf.String()
}

// SourceLine is one numbered line of a SourceContext.
type SourceLine struct {
	Number int
	Text   string
}

// SourceContext is the excerpt of a document around an error location.
type SourceContext struct {
	Lines       []SourceLine
	ErrorLine   int
	ErrorColumn int
	ErrorLength int
}

// SourceContext returns up to radius lines before and after the failing line of src, which
// must be the document that produced the error.
func (e *ParseError) SourceContext(src string, radius int) *SourceContext {
	span := e.Source.Span
	if span.Line == 0 {
		return nil
	}
	lines := strings.Split(src, "\n")
	if span.Line > len(lines) {
		return nil
	}

	from := max(span.Line-radius, 1)
	to := min(span.Line+radius, len(lines))

	ctx := &SourceContext{
		ErrorLine:   span.Line,
		ErrorColumn: span.Column,
		ErrorLength: span.Length,
	}
	for i := from; i <= to; i++ {
		ctx.Lines = append(ctx.Lines, SourceLine{Number: i, Text: strings.TrimSuffix(lines[i-1], "\r")})
	}
	return ctx
}
