package shtml

import (
	"errors"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// queryEnv is the set of variables visible to a query expression.
type queryEnv struct {
	Kind     string            `expr:"kind"`     // "root", "text", "comment", "element" or "document"
	Tag      string            `expr:"tag"`      // element tag name
	Attrs    map[string]string `expr:"attrs"`    // element attributes
	Content  string            `expr:"content"`  // text or comment content
	Text     string            `expr:"text"`     // joined text of all descendants
	Doctype  string            `expr:"doctype"`  // doctype of a document node
	Children int               `expr:"children"` // number of children
	Depth    int               `expr:"depth"`    // distance from the node the search started at
	Line     int               `expr:"line"`     // line where the node starts
}

// Query is a compiled boolean predicate over nodes, for example
//
//	kind == "element" && tag == "a" && "href" in attrs
type Query struct {
	src  string
	prog *vm.Program
}

// CompileQuery compiles the predicate q. It fails if q does not evaluate to a boolean.
func CompileQuery(q string) (*Query, error) {
	prog, err := expr.Compile(q, expr.Env(queryEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile query: %w", err)
	}
	return &Query{src: q, prog: prog}, nil
}

func (q *Query) String() string {
	return q.src
}

// Match reports whether n satisfies the query.
func (q *Query) Match(n Node) (bool, error) {
	return q.match(n, 0)
}

func (q *Query) match(n Node, depth int) (bool, error) {
	env := queryEnv{
		Kind:     Kind(n),
		Text:     TextContent(n),
		Children: len(n.ChildNodes()),
		Depth:    depth,
		Line:     n.Source().Span.Line,
	}
	switch n := n.(type) {
	case *Element:
		env.Tag = n.Tag
		env.Attrs = n.Attr
	case *Text:
		env.Content = n.Content
	case *Comment:
		env.Content = n.Content
	case *Document:
		env.Doctype = n.Doctype
	}

	var m vm.VM
	out, err := m.Run(q.prog, env)
	if err != nil {
		return false, fmt.Errorf("run query %q: %w", q.src, err)
	}
	return out.(bool), nil
}

// FindAll returns every node of the tree rooted at n that satisfies the query, in document
// order. The root itself is tested too.
func (q *Query) FindAll(n Node) ([]Node, error) {
	var found []Node
	err := Walk(n, func(n Node, depth int) error {
		ok, err := q.match(n, depth)
		if err != nil {
			return err
		}
		if ok {
			found = append(found, n)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// errFound stops the walk in Find.
var errFound = errors.New("found")

// Find returns the first node in document order that satisfies the query, or nil.
func (q *Query) Find(n Node) (Node, error) {
	var found Node
	err := Walk(n, func(n Node, depth int) error {
		ok, err := q.match(n, depth)
		if err != nil {
			return err
		}
		if ok {
			found = n
			return errFound
		}
		return nil
	})
	if err != nil && err != errFound {
		return nil, err
	}
	return found, nil
}
