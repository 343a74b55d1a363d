// Package dump renders parsed trees for people and for other tools.
package dump

import (
	"fmt"
	"io"

	"github.com/dpotapov/go-htmldom/shtml"
)

// Format selects a renderer.
type Format string

const (
	FormatTree Format = "tree"
	FormatHTML Format = "html"
	FormatXML  Format = "xml"
	FormatJSON Format = "json"
)

// Formats lists the supported formats, the default first.
var Formats = []Format{FormatTree, FormatHTML, FormatXML, FormatJSON}

// ParseFormat returns the format named s. An empty string selects FormatTree.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatTree, nil
	}
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// ContentType is the MIME type of the rendered output.
func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatXML:
		return "application/xml; charset=utf-8"
	case FormatJSON:
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Write renders n to w in format f.
func Write(w io.Writer, f Format, n shtml.Node) error {
	switch f {
	case FormatTree, "":
		return Tree(w, n)
	case FormatHTML:
		return HTML(w, n)
	case FormatXML:
		return XML(w, n)
	case FormatJSON:
		return JSON(w, n)
	default:
		return fmt.Errorf("unknown format %q", f)
	}
}

// WriteAll renders a sequence of nodes, for example the result of a query. Tree, HTML and
// JSON output keeps one node per line or block, XML output wraps them in a <result> element.
func WriteAll(w io.Writer, f Format, nodes []shtml.Node) error {
	switch f {
	case FormatXML:
		return xmlAll(w, nodes)
	case FormatJSON:
		return jsonAll(w, nodes)
	}
	for _, n := range nodes {
		if err := Write(w, f, n); err != nil {
			return err
		}
		if f == FormatHTML {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}
