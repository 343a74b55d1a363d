package shtml

import (
	"fmt"
	"strings"
)

// attribute is one recognized name/value pair. Malformed units are skipped and reported
// through diag instead of failing the enclosing tag.
type attribute struct {
	Key  string
	Val  string
	diag *Diagnostic
}

// attributeList recognizes all attributes of a tag.
var attributeList = many0[attribute](attributeP)

// attributeP recognizes one attribute preceded by at least one whitespace character, trying
// the quoted form before the bare one so that name="a=b" is not split on the inner "=".
func attributeP(in input) (attribute, input, error) {
	_, start, err := whitespace1(in)
	if err != nil || atTagEnd(start) {
		return attribute{}, in, errNoMatch
	}

	a, next, err := alt[attribute](quotedAttribute, bareAttribute, flagAttribute)(start)
	if err == nil && atAttrBoundary(next) {
		return a, next, nil
	}

	unit, next := skipAttribute(start)
	d := Diagnostic{
		Err:    fmt.Errorf("%w %q", ErrMalformedAttribute, unit),
		Source: start.source(next),
	}
	return attribute{diag: &d}, next, nil
}

// quotedAttribute recognizes name="value" and name='value'.
func quotedAttribute(in input) (attribute, input, error) {
	name, next, err := alnum1(in)
	if err != nil {
		return attribute{}, in, err
	}
	if _, next, err = equals(next); err != nil {
		return attribute{}, in, err
	}
	q, next, err := quote(next)
	if err != nil {
		return attribute{}, in, err
	}
	val, next, _ := takeWhile(0, -1, func(c byte) bool { return c != q[0] })(next)
	if _, next, err = literal(q)(next); err != nil {
		return attribute{}, in, err
	}
	return attribute{Key: name, Val: val}, next, nil
}

// bareAttribute recognizes name=word.
func bareAttribute(in input) (attribute, input, error) {
	name, next, err := alnum1(in)
	if err != nil {
		return attribute{}, in, err
	}
	if _, next, err = equals(next); err != nil {
		return attribute{}, in, err
	}
	val, next, err := alnum1(next)
	if err != nil {
		return attribute{}, in, err
	}
	return attribute{Key: name, Val: val}, next, nil
}

// flagAttribute recognizes a name without a value.
func flagAttribute(in input) (attribute, input, error) {
	name, next, err := alnum1(in)
	if err != nil {
		return attribute{}, in, err
	}
	if _, _, err := equals(next); err == nil {
		return attribute{}, in, errNoMatch
	}
	return attribute{Key: name, Val: FlagValue}, next, nil
}

// atTagEnd reports whether in is positioned where no attribute can start.
func atTagEnd(in input) bool {
	s := in.rest()
	return s == "" || s[0] == '>' || s[0] == '<' || strings.HasPrefix(s, "/>")
}

// atAttrBoundary reports whether an attribute may end at in.
func atAttrBoundary(in input) bool {
	s := in.rest()
	return s == "" || isWhitespace(s[0]) || s[0] == '>' || s[0] == '/'
}

// skipAttribute consumes an attribute-shaped unit that did not match any valid form: an
// optional name, an optional "=" and whatever follows up to the next whitespace or the end of
// the tag. A dangling quote is skipped up to the next ">".
func skipAttribute(in input) (string, input) {
	next := in
	if _, n, err := alnum1(next); err == nil {
		next = n
	}
	if _, n, err := equals(next); err == nil {
		next = n
	}

	s := next.rest()
	i := 0
	for i < len(s) {
		c := s[i]
		if isWhitespace(c) || c == '>' || c == '<' || strings.HasPrefix(s[i:], "/>") {
			break
		}
		if c == '"' || c == '\'' {
			j := strings.IndexByte(s[i+1:], c)
			if j < 0 {
				if k := strings.IndexByte(s[i:], '>'); k >= 0 {
					i += k
				} else {
					i = len(s)
				}
				break
			}
			i += j + 2
			continue
		}
		i++
	}
	next = next.advance(i)

	if next.pos == in.pos {
		next = in.advance(1)
	}
	return in.doc.src[in.pos:next.pos], next
}

// attributeMap folds attributes into a map. Later duplicates overwrite earlier ones.
func attributeMap(attrs []attribute) AttributeMap {
	m := make(AttributeMap, len(attrs))
	for _, a := range attrs {
		if a.diag == nil {
			m[a.Key] = a.Val
		}
	}
	return m
}

// attributeDiagnostics returns the warnings of the malformed attributes.
func attributeDiagnostics(attrs []attribute) []Diagnostic {
	var diags []Diagnostic
	for _, a := range attrs {
		if a.diag != nil {
			diags = append(diags, *a.diag)
		}
	}
	return diags
}
