package shtml_test

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dpotapov/go-htmldom/shtml"
)

func ExampleParse() {
	src := `<!DOCTYPE html>
<div class="box" hidden>
  <!-- greeting -->
  Hello <b>world</b>
  <br/>
</div>`

	tree, err := shtml.Parse(src, nil)
	if err != nil {
		panic(err)
	}

	_ = shtml.Walk(tree, func(n shtml.Node, depth int) error {
		indent := strings.Repeat("  ", depth)
		switch n := n.(type) {
		case *shtml.Element:
			fmt.Printf("%s<%s%s>\n", indent, n.Tag, n.Attr)
		case *shtml.Text:
			fmt.Printf("%s%q\n", indent, n.Content)
		case *shtml.Comment:
			fmt.Printf("%s<!-- %s -->\n", indent, n.Content)
		case *shtml.Document:
			fmt.Printf("%s<!DOCTYPE %s>\n", indent, n.Doctype)
		default:
			fmt.Printf("%s%s\n", indent, shtml.Kind(n))
		}
		return nil
	})

	// Output:
	// root
	//   <!DOCTYPE html>
	//   <div class="box" hidden="yes">
	//     <!-- greeting -->
	//     "Hello"
	//     <b>
	//       "world"
	//     <br>
}

func ExampleParse_warnings() {
	var diags shtml.Collector
	_, err := shtml.Parse(`<p title=>a < b</p>`, &shtml.Options{File: "page.html", Diagnostics: &diags})
	if err != nil {
		panic(err)
	}
	for _, d := range diags.Diagnostics() {
		fmt.Println(d)
	}

	// Output:
	// page.html:1:4: malformed attribute "title="
	// page.html:1:13: unrecognized unit "<"
}

func ExampleParseError() {
	_, err := shtml.Parse("<body>\n  <p>unfinished\n</body>", nil)

	var pe *shtml.ParseError
	if errors.As(err, &pe) {
		fmt.Println(pe)
		fmt.Println(pe.HTMLContext())
	}

	// Output:
	// 2:3: unclosed element <p>: found </body>
	// <body><p>...</p></body>
}

func ExampleQuery() {
	tree, err := shtml.Parse(`<ul><li><a href="/a">A</a></li><li><a>B</a></li></ul>`, nil)
	if err != nil {
		panic(err)
	}

	q, err := shtml.CompileQuery(`tag == "a" && "href" in attrs`)
	if err != nil {
		panic(err)
	}
	links, err := q.FindAll(tree)
	if err != nil {
		panic(err)
	}
	for _, n := range links {
		fmt.Println(n.(*shtml.Element).Attr.Get("href"), shtml.TextContent(n))
	}

	// Output:
	// /a A
}
