package dump

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dpotapov/go-htmldom/shtml"
)

// JSONNode is the JSON representation of a node. Type holds the node kind as returned by
// shtml.Kind and selects which of the other fields are set.
type JSONNode struct {
	Type     string            `json:"type"`
	Tag      string            `json:"tag,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Content  string            `json:"content,omitempty"`
	Doctype  string            `json:"doctype,omitempty"`
	Children []*JSONNode       `json:"children,omitempty"`
	Line     int               `json:"line,omitempty"`
	Column   int               `json:"column,omitempty"`
}

// NewJSONNode converts n and its descendants.
func NewJSONNode(n shtml.Node) *JSONNode {
	span := n.Source().Span
	jn := &JSONNode{Type: shtml.Kind(n), Line: span.Line, Column: span.Column}
	switch n := n.(type) {
	case *shtml.Text:
		jn.Content = n.Content
	case *shtml.Comment:
		jn.Content = n.Content
	case *shtml.Document:
		jn.Doctype = n.Doctype
	case *shtml.Element:
		jn.Tag = n.Tag
		if len(n.Attr) > 0 {
			jn.Attrs = n.Attr
		}
	}
	for _, c := range n.ChildNodes() {
		jn.Children = append(jn.Children, NewJSONNode(c))
	}
	return jn
}

// JSON writes n as an indented JSON object.
func JSON(w io.Writer, n shtml.Node) error {
	return writeJSON(w, NewJSONNode(n))
}

func jsonAll(w io.Writer, nodes []shtml.Node) error {
	out := make([]*JSONNode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, NewJSONNode(n))
	}
	return writeJSON(w, out)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	return nil
}
