package parser

import (
	"strings"

	"github.com/dgallion1/docparse/internal/doctree"
)

// TextParser handles plain text. The root is a "document" node with one
// "line" child per newline-delimited segment; it never fails.
type TextParser struct{}

func (p *TextParser) Parse(src string) (*doctree.Node, *doctree.Metadata, error) {
	root := &doctree.Node{Kind: "document"}
	if src == "" {
		return root, nil, nil
	}

	lines := strings.Split(src, "\n")
	// A trailing newline produces an empty final segment, not an extra
	// line.
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for _, line := range lines {
		root.Append(&doctree.Node{
			Kind:  "line",
			Value: strings.TrimSuffix(line, "\r"),
		})
	}
	return root, nil, nil
}
