package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		markup string
		want   string
	}{
		{"Jane Doe", "Jane Doe"},
		{"Jane <b>Doe</b>", "Jane Doe"},
		{"Design &amp; Code", "Design & Code"},
		{"<div>line one</div><div>line two</div>", "line oneline two"},
		{"a &lt;tag&gt;", "a <tag>"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PlainText(tt.markup), "markup %q", tt.markup)
	}
}

func TestEscapeText_RoundTrip(t *testing.T) {
	for _, s := range []string{"Design & Code", "<script>x</script>", `"quoted"`, "plain"} {
		assert.Equal(t, s, PlainText(EscapeText(s)))
	}
}

func TestPlainText_LineEndingsMatchOnBothPaths(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a b\r\nc", "a b\nc"},
		{"a & b\r\nc", "a & b\nc"},
		{"a b\rc", "a b\nc"},
		{"a <b\rc", "a <b\nc"},
		{"a\x00b", "ab"},
		{"a &\x00b", "a &b"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PlainText(EscapeText(tt.in)), "input %q", tt.in)
	}
}
