package shtml

import "strings"

// Node is one unit of the parsed document. The set of implementations is closed: *Root is only
// ever found at the top of a tree, Text, Comment, Element and Document anywhere below it.
type Node interface {
	// ChildNodes returns the children in document order. Leaf nodes return nil.
	ChildNodes() []Node

	// Source returns the location of the node in the parsed document.
	Source() Source

	node()
}

// Root is the synthetic container returned by Parse.
type Root struct {
	Children []Node
	Src      Source
}

// Text is a run of non-markup characters with the surrounding whitespace trimmed.
// Character references are not decoded.
type Text struct {
	Content string
	Src     Source
}

// Comment holds the trimmed text between comment delimiters.
type Comment struct {
	Content string
	Src     Source
}

// Element is a tag with its attributes. Tag preserves the case used in the document.
// Children is empty for self-closing elements.
type Element struct {
	Tag      string
	Attr     AttributeMap
	Children []Node
	Src      Source
}

// Document represents a leading <!DOCTYPE ...> declaration.
type Document struct {
	Doctype string
	Src     Source
}

func (n *Root) ChildNodes() []Node    { return n.Children }
func (n *Text) ChildNodes() []Node    { return nil }
func (n *Comment) ChildNodes() []Node { return nil }
func (n *Element) ChildNodes() []Node { return n.Children }
func (n *Document) ChildNodes() []Node { return nil }

func (n *Root) Source() Source     { return n.Src }
func (n *Text) Source() Source     { return n.Src }
func (n *Comment) Source() Source  { return n.Src }
func (n *Element) Source() Source  { return n.Src }
func (n *Document) Source() Source { return n.Src }

func (*Root) node()     {}
func (*Text) node()     {}
func (*Comment) node()  {}
func (*Element) node()  {}
func (*Document) node() {}

// Kind returns a short lowercase name of the node variant: "root", "text", "comment",
// "element" or "document".
func Kind(n Node) string {
	switch n.(type) {
	case *Root:
		return "root"
	case *Text:
		return "text"
	case *Comment:
		return "comment"
	case *Element:
		return "element"
	case *Document:
		return "document"
	default:
		panic("unreachable")
	}
}

// Equal reports whether a and b are structurally equal: same variant, same payload and
// pairwise equal children in the same order. Source locations are ignored.
func Equal(a, b Node) bool {
	switch x := a.(type) {
	case *Root:
		y, ok := b.(*Root)
		return ok && equalChildren(x.Children, y.Children)
	case *Text:
		y, ok := b.(*Text)
		return ok && x.Content == y.Content
	case *Comment:
		y, ok := b.(*Comment)
		return ok && x.Content == y.Content
	case *Element:
		y, ok := b.(*Element)
		return ok && x.Tag == y.Tag && x.Attr.Equal(y.Attr) && equalChildren(x.Children, y.Children)
	case *Document:
		y, ok := b.(*Document)
		return ok && x.Doctype == y.Doctype
	case nil:
		return b == nil
	default:
		panic("unreachable")
	}
}

func equalChildren(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// SkipChildren is returned by a WalkFunc to skip the children of the visited node.
var SkipChildren = skipChildren{}

type skipChildren struct{}

func (skipChildren) Error() string { return "skip children" }

// WalkFunc is called by Walk for every visited node.
type WalkFunc func(n Node, depth int) error

// Walk traverses the tree rooted at n in depth-first order, calling fn for each node.
// If fn returns SkipChildren, the children of that node are not visited. Any other error stops
// the traversal and is returned by Walk.
func Walk(n Node, fn WalkFunc) error {
	return walk(n, 0, fn)
}

func walk(n Node, depth int, fn WalkFunc) error {
	if err := fn(n, depth); err != nil {
		if err == SkipChildren {
			return nil
		}
		return err
	}
	for _, c := range n.ChildNodes() {
		if err := walk(c, depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}

// TextContent returns the contents of all descendant text nodes joined by a single space.
func TextContent(n Node) string {
	var parts []string
	_ = Walk(n, func(n Node, _ int) error {
		if t, ok := n.(*Text); ok && t.Content != "" {
			parts = append(parts, t.Content)
		}
		return nil
	})
	return strings.Join(parts, " ")
}
