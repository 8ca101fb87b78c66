package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docparse/internal/doctree"
	"golang.org/x/net/html"
)

// HTMLParser handles markup (HTML and XML-ish documents) tolerantly: it
// tokenizes with x/net/html and builds the tree itself so that no
// html/head/body scaffolding is invented. Unknown tags become generic
// elements, an end tag closes the nearest matching open element along
// with everything opened after it, unmatched end tags are dropped, and
// anything still open at end of input is auto-closed.
type HTMLParser struct{}

// Elements that never take content and therefore never open scope.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

func (p *HTMLParser) Parse(src string) (*doctree.Node, *doctree.Metadata, error) {
	root := &doctree.Node{Kind: "document"}

	type frame struct {
		node *doctree.Node
		tag  string
	}
	stack := []frame{{node: root}}
	top := func() *doctree.Node { return stack[len(stack)-1].node }

	z := html.NewTokenizer(strings.NewReader(src))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return root, nil, nil
			}
			return nil, nil, Malformed(doctree.Markup, 0, fmt.Errorf("tokenize markup: %w", z.Err()))

		case html.TextToken:
			if text := strings.TrimSpace(string(z.Text())); text != "" {
				top().Append(&doctree.Node{Kind: "text", Value: text})
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			el := &doctree.Node{Kind: tok.Data}
			for _, a := range tok.Attr {
				el.SetAttr(a.Key, a.Val)
			}
			top().Append(el)
			if tok.Type == html.StartTagToken && !voidElements[tok.Data] {
				stack = append(stack, frame{node: el, tag: tok.Data})
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			// Close the nearest matching open element; elements opened
			// after it are auto-closed with it. A stray end tag with no
			// matching open element is ignored.
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].tag == tag {
					stack = stack[:i]
					break
				}
			}

		case html.CommentToken, html.DoctypeToken:
			// Not part of the content tree.
		}
	}
}
