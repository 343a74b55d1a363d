package shtml

import "strings"

// whitespace is the set of characters trimmed from text and comment content.
const whitespace = " \t\n\f\r"

// defaultDoctype is used when a doctype declaration does not name another one.
const defaultDoctype = "html"

// tagHead is a recognized opening or self-closing tag.
type tagHead struct {
	name  string
	attrs []attribute
	src   Source
}

// openTag recognizes <name attr...>.
func openTag(in input) (tagHead, input, error) {
	return tag(in, tagClose)
}

// selfClosingTag recognizes <name attr.../>.
func selfClosingTag(in input) (tagHead, input, error) {
	return tag(in, selfCloseEnd)
}

func tag(in input, end parser[string]) (tagHead, input, error) {
	_, start, _ := whitespace0(in)
	_, next, err := tagOpen(start)
	if err != nil {
		return tagHead{}, in, err
	}
	name, next, err := alnum1(next)
	if err != nil {
		return tagHead{}, in, err
	}
	attrs, next, err := attributeList(next)
	if err != nil {
		return tagHead{}, in, err
	}
	if _, next, err = end(next); err != nil {
		return tagHead{}, in, err
	}
	return tagHead{name: name, attrs: attrs, src: start.source(next)}, next, nil
}

// closeTag recognizes </name> and returns the name.
func closeTag(in input) (string, input, error) {
	_, next, err := endTagOpen(in)
	if err != nil {
		return "", in, err
	}
	name, next, err := alnum1(next)
	if err != nil {
		return "", in, err
	}
	if _, next, err = tagClose(next); err != nil {
		return "", in, err
	}
	return name, next, nil
}

// comment recognizes <!-- content -->.
func (b *builder) comment(in input) (Node, input, error) {
	_, start, _ := whitespace0(in)
	_, next, err := preceded(bangOpen, commentMarker)(start)
	if err != nil {
		return nil, in, err
	}
	content, next, err := commentText(next)
	if err != nil {
		return nil, in, err
	}
	if _, next, err = commentMarker(next); err != nil {
		return nil, in, err
	}
	if _, next, err = tagClose(next); err != nil {
		return nil, in, err
	}
	return &Comment{Content: strings.Trim(content, whitespace), Src: start.source(next)}, next, nil
}

// doctype recognizes <!DOCTYPE attr...>. The doctype defaults to "html". An attribute with an
// explicit value overrides it with its name; the last such attribute wins.
func (b *builder) doctype(in input) (Node, input, error) {
	_, start, _ := whitespace0(in)
	_, next, err := preceded(bangOpen, doctypeWord)(start)
	if err != nil {
		return nil, in, err
	}
	attrs, next, err := attributeList(next)
	if err != nil {
		return nil, in, err
	}
	if _, next, err = tagClose(next); err != nil {
		return nil, in, err
	}
	b.warn(attributeDiagnostics(attrs)...)

	doctype := defaultDoctype
	for _, a := range attrs {
		if a.diag == nil && a.Val != FlagValue {
			doctype = a.Key
		}
	}
	return &Document{Doctype: doctype, Src: start.source(next)}, next, nil
}

// selfClosing recognizes <name attr.../> as an element without children.
func (b *builder) selfClosing(in input) (Node, input, error) {
	head, next, err := selfClosingTag(in)
	if err != nil {
		return nil, in, err
	}
	b.warn(attributeDiagnostics(head.attrs)...)
	return &Element{Tag: head.name, Attr: attributeMap(head.attrs), Src: head.src}, next, nil
}

// text recognizes the run of characters up to the next "<". A run holding nothing but
// whitespace does not match: that whitespace is consumed by the following delimiter or at the
// end of the input.
func (b *builder) text(in input) (Node, input, error) {
	run, next, _ := textRun(in)
	content := strings.TrimLeft(run, whitespace)
	lead := len(run) - len(content)
	content = strings.TrimRight(content, whitespace)
	if content == "" {
		return nil, in, errNoMatch
	}
	start := in.advance(lead)
	return &Text{Content: content, Src: start.source(start.advance(len(content)))}, next, nil
}

// element recognizes <name attr...> followed by child nodes up to the matching </name>.
func (b *builder) element(in input) (Node, input, error) {
	head, next, err := openTag(in)
	if err != nil {
		return nil, in, err
	}
	b.warn(attributeDiagnostics(head.attrs)...)

	b.open = append(b.open, head)
	defer func() { b.open = b.open[:len(b.open)-1] }()

	if len(b.open) > b.maxDepth {
		return nil, in, b.failure(ErrTooDeep, head, "")
	}

	children, next, err := b.nodes(next, &head)
	if err != nil {
		return nil, in, err
	}

	_, start, _ := whitespace0(in)
	return &Element{
		Tag:      head.name,
		Attr:     attributeMap(head.attrs),
		Children: children,
		Src:      start.source(next),
	}, next, nil
}
