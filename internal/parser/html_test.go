package parser

import (
	"testing"
)

func TestHTMLParserBasicTree(t *testing.T) {
	p := &HTMLParser{}
	root, _, err := p.Parse(`<div class="x" id="y"><p>hello</p></div>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root.Kind != "document" || len(root.Children) != 1 {
		t.Fatalf("root = %q with %d children", root.Kind, len(root.Children))
	}
	div := root.Children[0]
	if div.Kind != "div" {
		t.Errorf("element kind = %q, want div", div.Kind)
	}
	if div.Attr("class") != "x" || div.Attr("id") != "y" {
		t.Errorf("attributes = %v", div.Attrs)
	}
	para := div.Children[0]
	if para.Kind != "p" || len(para.Children) != 1 {
		t.Fatalf("p = %q with %d children", para.Kind, len(para.Children))
	}
	text := para.Children[0]
	if text.Kind != "text" || text.Value != "hello" {
		t.Errorf("text node = %q/%v", text.Kind, text.Value)
	}
}

func TestHTMLParserAutoClosesUnclosedTags(t *testing.T) {
	// </b> is missing: b must be auto-closed when </a> arrives, and the
	// text stays inside b.
	p := &HTMLParser{}
	root, _, err := p.Parse(`<a><b>text</a>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(root.Children) != 1 {
		t.Fatalf("expected 1 top-level element, got %d", len(root.Children))
	}
	a := root.Children[0]
	if a.Kind != "a" || len(a.Children) != 1 {
		t.Fatalf("a = %q with %d children", a.Kind, len(a.Children))
	}
	b := a.Children[0]
	if b.Kind != "b" {
		t.Fatalf("nested element = %q, want b", b.Kind)
	}
	if len(b.Children) != 1 || b.Children[0].Value != "text" {
		t.Errorf("b children = %v", b.Children)
	}
}

func TestHTMLParserAutoClosesAtEOF(t *testing.T) {
	p := &HTMLParser{}
	root, _, err := p.Parse(`<ul><li>one`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ul := root.Children[0]
	if ul.Kind != "ul" || len(ul.Children) != 1 {
		t.Fatalf("ul = %q with %d children", ul.Kind, len(ul.Children))
	}
	li := ul.Children[0]
	if li.Kind != "li" || len(li.Children) != 1 {
		t.Fatalf("li = %q with %d children", li.Kind, len(li.Children))
	}
}

func TestHTMLParserIgnoresStrayEndTag(t *testing.T) {
	p := &HTMLParser{}
	root, _, err := p.Parse(`<p>one</div>two</p>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	para := root.Children[0]
	if para.Kind != "p" || len(para.Children) != 2 {
		t.Fatalf("p = %q with %d children", para.Kind, len(para.Children))
	}
}

func TestHTMLParserVoidElements(t *testing.T) {
	p := &HTMLParser{}
	root, _, err := p.Parse(`<p>line<br>break</p><hr>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(root.Children) != 2 {
		t.Fatalf("expected p and hr at top level, got %d children", len(root.Children))
	}
	para := root.Children[0]
	// br must sit inside p without capturing "break".
	if len(para.Children) != 3 {
		t.Fatalf("p has %d children, want text+br+text", len(para.Children))
	}
	if para.Children[1].Kind != "br" || len(para.Children[1].Children) != 0 {
		t.Errorf("middle child = %q with %d children", para.Children[1].Kind, len(para.Children[1].Children))
	}
}

func TestHTMLParserSelfClosingTag(t *testing.T) {
	p := &HTMLParser{}
	root, _, err := p.Parse(`<root><item id="1"/><item id="2"/></root>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	el := root.Children[0]
	if len(el.Children) != 2 {
		t.Fatalf("expected 2 items, got %d", len(el.Children))
	}
	if el.Children[0].Attr("id") != "1" || el.Children[1].Attr("id") != "2" {
		t.Errorf("item attributes = %v, %v", el.Children[0].Attrs, el.Children[1].Attrs)
	}
}

func TestHTMLParserToleratesMalformedAttributes(t *testing.T) {
	p := &HTMLParser{}
	root, _, err := p.Parse(`<a href= ==garbage>text</a>`)
	if err != nil {
		t.Fatalf("tolerant parse must not fail: %v", err)
	}
	a := root.Children[0]
	if a.Kind != "a" {
		t.Fatalf("element kind = %q, want a", a.Kind)
	}
	if len(a.Children) != 1 || a.Children[0].Value != "text" {
		t.Errorf("a children = %v", a.Children)
	}
}

func TestHTMLParserSkipsCommentsAndDoctype(t *testing.T) {
	p := &HTMLParser{}
	root, _, err := p.Parse("<!DOCTYPE html><!-- note --><p>hi</p>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(root.Children) != 1 || root.Children[0].Kind != "p" {
		t.Fatalf("root children = %v", root.Children)
	}
}

func TestHTMLParserWhitespaceOnlyTextDropped(t *testing.T) {
	p := &HTMLParser{}
	root, _, err := p.Parse("<div>\n  <span>x</span>\n</div>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	div := root.Children[0]
	if len(div.Children) != 1 {
		t.Fatalf("div has %d children, want 1", len(div.Children))
	}
	if div.Children[0].Kind != "span" {
		t.Errorf("child kind = %q, want span", div.Children[0].Kind)
	}
}

func TestHTMLParserEmptyInput(t *testing.T) {
	p := &HTMLParser{}
	root, _, err := p.Parse("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if root.Kind != "document" || len(root.Children) != 0 {
		t.Errorf("root = %v", root)
	}
}
