package dump

import (
	"fmt"
	"io"

	"github.com/beevik/etree"
	"github.com/dpotapov/go-htmldom/shtml"
)

// xmlIndent is the number of spaces per nesting level in XML output.
const xmlIndent = 2

// XML writes n as an indented XML document. A doctype becomes a <!DOCTYPE> directive, flag
// attributes keep their "yes" value. Tag and attribute names starting with a digit, which XML
// does not allow, are prefixed with an underscore.
func XML(w io.Writer, n shtml.Node) error {
	doc := XMLDocument(n)
	return writeXML(w, doc)
}

// XMLDocument converts n into an etree document.
func XMLDocument(n shtml.Node) *etree.Document {
	doc := etree.NewDocument()
	addXML(&doc.Element, n)
	return doc
}

func xmlAll(w io.Writer, nodes []shtml.Node) error {
	doc := etree.NewDocument()
	result := doc.CreateElement("result")
	for _, n := range nodes {
		addXML(result, n)
	}
	return writeXML(w, doc)
}

func writeXML(w io.Writer, doc *etree.Document) error {
	doc.Indent(xmlIndent)
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("write XML: %w", err)
	}
	return nil
}

func addXML(parent *etree.Element, n shtml.Node) {
	switch n := n.(type) {
	case *shtml.Root:
		for _, c := range n.Children {
			addXML(parent, c)
		}
	case *shtml.Text:
		parent.CreateText(n.Content)
	case *shtml.Comment:
		parent.CreateComment(" " + n.Content + " ")
	case *shtml.Document:
		parent.CreateDirective("DOCTYPE " + n.Doctype)
	case *shtml.Element:
		el := parent.CreateElement(xmlName(n.Tag))
		for _, k := range n.Attr.Keys() {
			el.CreateAttr(xmlName(k), n.Attr[k])
		}
		for _, c := range n.Children {
			addXML(el, c)
		}
	}
}

// xmlName turns an alphanumeric name into a valid XML name.
func xmlName(name string) string {
	if name != "" && name[0] >= '0' && name[0] <= '9' {
		return "_" + name
	}
	return name
}
