package shtml

import (
	"fmt"
	"io"
	"unicode/utf8"
)

// Options configures a parse run. A nil *Options is equivalent to the zero value.
type Options struct {
	// File is the name reported in source locations.
	File string

	// Diagnostics receives warnings about dropped attributes and skipped input.
	// If nil, warnings are discarded.
	Diagnostics Diagnostics

	// MaxDepth limits how deeply elements may nest. If zero or negative, DefaultMaxDepth is used.
	MaxDepth int
}

// DefaultMaxDepth is the nesting limit used when Options.MaxDepth is not set.
const DefaultMaxDepth = 512

// A builder drives the node recognizers over a document and assembles the tree.
type builder struct {
	maxDepth int
	// open is the stack of elements whose closing tag has not been seen yet.
	open []tagHead
	// diags holds the warnings of the units recognized so far. Warnings raised by an
	// alternative that does not match are discarded.
	diags []Diagnostic
	// alternatives are the node recognizers in the order they are tried.
	alternatives []parser[Node]
}

func newBuilder(opts *Options) *builder {
	b := &builder{maxDepth: opts.MaxDepth}
	if b.maxDepth <= 0 {
		b.maxDepth = DefaultMaxDepth
	}
	b.alternatives = []parser[Node]{b.doctype, b.comment, b.selfClosing, b.text, b.element}
	return b
}

func (b *builder) warn(diags ...Diagnostic) {
	b.diags = append(b.diags, diags...)
}

// node tries each node recognizer in turn and returns the first match.
func (b *builder) node(in input) (Node, input, error) {
	for _, p := range b.alternatives {
		mark := len(b.diags)
		n, next, err := p(in)
		if err == errNoMatch {
			b.diags = b.diags[:mark]
			continue
		}
		if err == nil && next.pos <= in.pos {
			panic("shtml: node recognizer succeeded without consuming input")
		}
		return n, next, err
	}
	return nil, in, errNoMatch
}

// nodes recognizes a sequence of nodes. With a nil parent it runs to the end of the input,
// otherwise it stops after the closing tag of parent, which is consumed but not returned.
func (b *builder) nodes(in input, parent *tagHead) ([]Node, input, error) {
	var children []Node
	for {
		if parent != nil {
			if name, next, err := closeTag(in); err == nil {
				if name == parent.name {
					return children, next, nil
				}
				return nil, in, b.failure(ErrUnclosedElement, *parent, name)
			}
		}

		if _, next, _ := whitespace0(in); next.empty() {
			if parent != nil {
				return nil, in, b.failure(ErrUnclosedElement, *parent, "")
			}
			return children, next, nil
		}

		n, next, err := b.node(in)
		switch {
		case err == errNoMatch:
			next = b.skip(in)
		case err != nil:
			return nil, in, err
		default:
			children = append(children, n)
		}
		in = next
	}
}

// skip consumes an unrecognized unit and records a warning. A stray closing tag is skipped as
// a whole, anything else one character at a time. in must not be blank.
func (b *builder) skip(in input) input {
	_, start, _ := whitespace0(in)
	next := start
	if _, n, err := closeTag(start); err == nil {
		next = n
	} else {
		_, size := utf8.DecodeRuneInString(start.rest())
		next = start.advance(size)
	}
	b.warn(Diagnostic{
		Err:    fmt.Errorf("%w %q", ErrUnrecognizedUnit, start.doc.src[start.pos:next.pos]),
		Source: start.source(next),
	})
	return next
}

// failure builds the terminal error for head, which must be the innermost open element.
func (b *builder) failure(err error, head tagHead, found string) *ParseError {
	path := make([]string, 0, len(b.open))
	for _, h := range b.open {
		path = append(path, h.name)
	}
	return &ParseError{
		Err:    err,
		Source: head.src,
		Tag:    head.name,
		Found:  found,
		Path:   path,
	}
}

// Parse builds the tree of src. Recoverable problems are reported to opts.Diagnostics and
// parsing continues. If an element is not closed, Parse returns a *ParseError and no tree.
func Parse(src string, opts *Options) (*Root, error) {
	if opts == nil {
		opts = &Options{}
	}
	diags := opts.Diagnostics
	if diags == nil {
		diags = discardDiagnostics{}
	}

	doc := newDocument(opts.File, src)
	in := input{doc: doc}

	b := newBuilder(opts)
	children, end, err := b.nodes(in, nil)

	for _, d := range b.diags {
		diags.Warn(d)
	}

	if err != nil {
		return nil, err
	}
	return &Root{Children: children, Src: in.source(end)}, nil
}

// ParseReader reads r to the end and parses its content with Parse. The input is assumed to
// be UTF-8 encoded.
func ParseReader(r io.Reader, opts *Options) (*Root, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return Parse(string(src), opts)
}
