package dump

import (
	"bufio"
	"fmt"
	"io"

	"github.com/dpotapov/go-htmldom/shtml"
)

// Tree writes one line per node, children indented below their parent:
//
//	Root
//	├─ Document html
//	└─ Element <p id="x">
//	   └─ Text "hello"
func Tree(w io.Writer, n shtml.Node) error {
	bw := bufio.NewWriter(w)
	treeNode(bw, n, "", "")
	return bw.Flush()
}

func treeNode(w *bufio.Writer, n shtml.Node, prefix, connector string) {
	w.WriteString(prefix)
	w.WriteString(connector)
	w.WriteString(label(n))
	w.WriteByte('\n')

	switch connector {
	case "├─ ":
		prefix += "│  "
	case "└─ ":
		prefix += "   "
	}

	children := n.ChildNodes()
	for i, c := range children {
		if i == len(children)-1 {
			treeNode(w, c, prefix, "└─ ")
		} else {
			treeNode(w, c, prefix, "├─ ")
		}
	}
}

func label(n shtml.Node) string {
	switch n := n.(type) {
	case *shtml.Root:
		return "Root"
	case *shtml.Text:
		return fmt.Sprintf("Text %q", n.Content)
	case *shtml.Comment:
		return fmt.Sprintf("Comment %q", n.Content)
	case *shtml.Element:
		return fmt.Sprintf("Element <%s%s>", n.Tag, n.Attr)
	case *shtml.Document:
		return "Document " + n.Doctype
	default:
		return shtml.Kind(n)
	}
}
