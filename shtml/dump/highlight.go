package dump

import (
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// lexerNames maps formats to chroma lexers. Tree output is highlighted as plain text.
var lexerNames = map[Format]string{
	FormatHTML: "html",
	FormatXML:  "xml",
	FormatJSON: "json",
}

// Highlight writes output, a dump rendered in format f, with syntax highlighting by formatter.
// Unknown styles fall back to the chroma default.
func Highlight(w io.Writer, f Format, output string, formatter chroma.Formatter, style string) error {
	l := lexers.Fallback
	if name, ok := lexerNames[f]; ok {
		if fl := lexers.Get(name); fl != nil {
			l = fl
		}
	}
	l = chroma.Coalesce(l)

	it, err := l.Tokenise(nil, output)
	if err != nil {
		return fmt.Errorf("tokenise %s output: %w", f, err)
	}
	if err := formatter.Format(w, styles.Get(style), it); err != nil {
		return fmt.Errorf("highlight %s output: %w", f, err)
	}
	return nil
}
