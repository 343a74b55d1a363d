package dump

import (
	"fmt"
	"io"

	"github.com/dpotapov/go-htmldom/shtml"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTML serializes n as HTML markup. Text content is escaped, so text that was written with
// character references in the document comes out double-escaped.
func HTML(w io.Writer, n shtml.Node) error {
	hn := HTMLNode(n)
	if err := html.Render(w, hn); err != nil {
		return fmt.Errorf("render HTML: %w", err)
	}
	return nil
}

// voidElements cannot hold children in HTML output. Matches the list used by html.Render.
var voidElements = map[atom.Atom]bool{
	atom.Area:   true,
	atom.Base:   true,
	atom.Br:     true,
	atom.Col:    true,
	atom.Embed:  true,
	atom.Hr:     true,
	atom.Img:    true,
	atom.Input:  true,
	atom.Keygen: true,
	atom.Param:  true,
	atom.Source: true,
	atom.Track:  true,
	atom.Wbr:    true,
}

// HTMLNode converts n into a golang.org/x/net/html tree. A *shtml.Root becomes a document node.
//
// Children of a void element such as <br> are moved after it, since HTML has no markup for
// them. A void element with children converts into a document node holding the element and
// its former children.
func HTMLNode(n shtml.Node) *html.Node {
	nodes := htmlNodes(n)
	if len(nodes) == 1 {
		return nodes[0]
	}
	doc := &html.Node{Type: html.DocumentNode}
	for _, c := range nodes {
		doc.AppendChild(c)
	}
	return doc
}

func htmlNodes(n shtml.Node) []*html.Node {
	var hn *html.Node
	switch n := n.(type) {
	case *shtml.Root:
		hn = &html.Node{Type: html.DocumentNode}
	case *shtml.Text:
		return []*html.Node{{Type: html.TextNode, Data: n.Content}}
	case *shtml.Comment:
		return []*html.Node{{Type: html.CommentNode, Data: " " + n.Content + " "}}
	case *shtml.Document:
		return []*html.Node{{Type: html.DoctypeNode, Data: n.Doctype}}
	case *shtml.Element:
		hn = &html.Node{
			Type:     html.ElementNode,
			Data:     n.Tag,
			DataAtom: atom.Lookup([]byte(n.Tag)),
		}
		for _, k := range n.Attr.Keys() {
			hn.Attr = append(hn.Attr, html.Attribute{Key: k, Val: n.Attr[k]})
		}
		if voidElements[hn.DataAtom] {
			nodes := []*html.Node{hn}
			for _, c := range n.Children {
				nodes = append(nodes, htmlNodes(c)...)
			}
			return nodes
		}
	}

	for _, c := range n.ChildNodes() {
		for _, hc := range htmlNodes(c) {
			hn.AppendChild(hc)
		}
	}
	return []*html.Node{hn}
}
