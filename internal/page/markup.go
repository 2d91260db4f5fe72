package page

import (
	"strings"

	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// lineEndings folds CR and CRLF to LF and drops NUL, as the HTML
// tokenizer does, so both PlainText paths agree.
var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n", "\x00", "")

// PlainText returns the text content of an HTML fragment: the
// concatenation of its text nodes, with entities decoded. Tags typed
// during an edit session are dropped. Line endings come back as LF and
// NUL characters are removed.
func PlainText(markup string) string {
	markup = lineEndings.Replace(markup)
	if !strings.ContainsAny(markup, "<&") {
		return markup
	}

	parent := &xhtml.Node{Type: xhtml.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := xhtml.ParseFragment(strings.NewReader(markup), parent)
	if err != nil {
		// The tokenizer accepts any input; this only happens on reader errors.
		return xhtml.UnescapeString(markup)
	}

	var sb strings.Builder
	var walk func(*xhtml.Node)
	walk = func(n *xhtml.Node) {
		if n.Type == xhtml.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return sb.String()
}

// EscapeText renders plain text as markup.
func EscapeText(text string) string {
	return xhtml.EscapeString(text)
}
