package shtml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newInput(s string) input {
	return input{doc: newDocument("", s)}
}

func TestTokenRecognizers(t *testing.T) {
	tests := []struct {
		name     string
		p        parser[string]
		in       string
		want     string
		wantRest string
		wantErr  bool
	}{
		{"tagOpen", tagOpen, "<div>", "<", "div>", false},
		{"tagOpenSpaces", tagOpen, " \t\n<div>", "<", "div>", false},
		{"tagOpenNoMatch", tagOpen, "div>", "", "div>", true},
		{"tagClose", tagClose, "  >rest", ">", "rest", false},
		{"endTagOpen", endTagOpen, " </p>", "</", "p>", false},
		{"selfCloseEnd", selfCloseEnd, " />", "/>", "", false},
		{"selfCloseEndNoMatch", selfCloseEnd, "/ >", "", "/ >", true},
		{"bangOpen", bangOpen, " \t <!ok", "<!", "ok", false},
		{"commentMarker", commentMarker, "-- x", "--", " x", false},
		{"commentMarkerTooShort", commentMarker, "- x", "", "- x", true},
		{"commentMarkerLong", commentMarker, strings.Repeat("-", 101) + "x", strings.Repeat("-", 100), "-x", false},
		{"quoteDouble", quote, `"x"`, `"`, `x"`, false},
		{"quoteSingle", quote, "'dd", "'", "dd", false},
		{"quoteNoMatch", quote, "dd", "", "dd", true},
		{"equals", equals, "=", "=", "", false},
		{"equalsSpaces", equals, " = 'x'", "=", "'x'", false},
		{"alnum", alnum1, "abc123-x", "abc123", "-x", false},
		{"alnumNoMatch", alnum1, "-x", "", "-x", true},
		{"whitespace1", whitespace1, " \t\r\n\fx", " \t\r\n\f", "x", false},
		{"whitespace1NoMatch", whitespace1, "x", "", "x", true},
		{"whitespace0Empty", whitespace0, "x", "", "x", false},
		{"doctype", doctypeWord, "DOCTYPE html", "DOCTYPE", " html", false},
		{"doctypeLowercase", doctypeWord, "doctype html", "", "doctype html", true},
		{"textRun", textRun, " some text <b>", " some text ", "<b>", false},
		{"textRunToEnd", textRun, "tail", "tail", "", false},
		{"textRunEmpty", textRun, "<b>", "", "<b>", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := newInput(tt.in)
			got, rest, err := tt.p(in)
			if tt.wantErr {
				require.ErrorIs(t, err, errNoMatch)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.wantRest, rest.rest())
		})
	}
}

func TestAlt(t *testing.T) {
	p := alt(literal("ab"), literal("a"))

	got, rest, err := p(newInput("abc"))
	require.NoError(t, err)
	require.Equal(t, "ab", got)
	require.Equal(t, "c", rest.rest())

	got, rest, err = p(newInput("ac"))
	require.NoError(t, err)
	require.Equal(t, "a", got)
	require.Equal(t, "c", rest.rest())

	_, rest, err = p(newInput("bc"))
	require.ErrorIs(t, err, errNoMatch)
	require.Equal(t, "bc", rest.rest())
}

func TestMany0(t *testing.T) {
	p := many0(preceded(whitespace1, alnum1))

	got, rest, err := p(newInput(" a bb ccc>"))
	require.NoError(t, err)
	require.Equal(t, []string{"a", "bb", "ccc"}, got)
	require.Equal(t, ">", rest.rest())

	got, rest, err = p(newInput(">"))
	require.NoError(t, err)
	require.Empty(t, got)
	require.Equal(t, ">", rest.rest())
}

func TestMany0PanicsWithoutProgress(t *testing.T) {
	require.Panics(t, func() {
		_, _, _ = many0(whitespace0)(newInput("x"))
	})
}
