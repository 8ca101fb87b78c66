package parser

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/dgallion1/docparse/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles lightweight markup using goldmark. The result
// is a flat sequence of typed blocks under a "document" root: "heading"
// (with a level attribute), "list_item" and "paragraph" nodes, each
// holding its content as a "text" leaf. Blocks goldmark recognizes but
// this model does not (code fences, block quotes, ...) fall back to
// paragraphs.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(src string) (*doctree.Node, *doctree.Metadata, error) {
	source := []byte(src)
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(source))

	root := &doctree.Node{Kind: "document"}
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			h := &doctree.Node{Kind: "heading"}
			h.SetAttr("level", strconv.Itoa(node.Level))
			appendText(h, blockText(node, source))
			root.Append(h)
		case *ast.List:
			appendListItems(root, node, source)
		default:
			if t := blockText(n, source); t != "" {
				para := &doctree.Node{Kind: "paragraph"}
				appendText(para, t)
				root.Append(para)
			}
		}
	}
	return root, nil, nil
}

// appendListItems flattens a list (and any nested lists) into
// consecutive "list_item" nodes.
func appendListItems(root *doctree.Node, list *ast.List, src []byte) {
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		li := &doctree.Node{Kind: "list_item"}
		var buf bytes.Buffer
		var nested []*ast.List
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			if sub, ok := c.(*ast.List); ok {
				nested = append(nested, sub)
				continue
			}
			if t := blockText(c, src); t != "" {
				if buf.Len() > 0 {
					buf.WriteByte('\n')
				}
				buf.WriteString(t)
			}
		}
		appendText(li, strings.TrimSpace(buf.String()))
		root.Append(li)
		for _, sub := range nested {
			appendListItems(root, sub, src)
		}
	}
}

func appendText(n *doctree.Node, t string) {
	if t != "" {
		n.Append(&doctree.Node{Kind: "text", Value: t})
	}
}

// blockText collects the plain text of a goldmark node: inline text
// runs where the node has children, raw block lines where it does not
// (code blocks keep their content, not their fences).
func blockText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		if t, ok := n.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte('\n')
			}
			return
		}
		if n.ChildCount() == 0 && n.Type() == ast.TypeBlock {
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				buf.Write(seg.Value(src))
			}
			return
		}
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(buf.String())
}
