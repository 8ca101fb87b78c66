// Package extract computes document metadata: universal statistics for
// every format, structural statistics per format, and the rolling parse
// latency aggregate served by the API.
package extract

import (
	"strings"

	"github.com/dgallion1/docparse/internal/doctree"
)

// Metadata derives statistics from a parsed tree. It is a pure function
// of its inputs: no I/O, and root is never mutated. Universal keys come
// first (byte_size, line_count, word_count, detected_encoding), then
// format-specific keys. encoding names the encoding rawText was decoded
// with.
func Metadata(format doctree.Format, root *doctree.Node, rawText, encoding string) *doctree.Metadata {
	meta := doctree.NewMetadata()
	meta.Set("byte_size", len(rawText))
	meta.Set("line_count", lineCount(rawText))
	meta.Set("word_count", wordCount(root))
	meta.Set("detected_encoding", encoding)

	switch format {
	case doctree.Tabular:
		tabularKeys(meta, root)
	case doctree.StructuredObject:
		structuredKeys(meta, root)
	case doctree.Markup:
		markupKeys(meta, root)
	case doctree.LightweightMarkup:
		lightweightKeys(meta, root)
	}
	return meta
}

// lineCount counts newline-delimited segments; trailing content without
// a final newline still counts as one line.
func lineCount(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}

// wordCount counts whitespace-delimited tokens in leaf values only;
// structural markers and attributes are excluded. Number and boolean
// leaves count as one token each.
func wordCount(root *doctree.Node) int {
	count := 0
	root.Walk(func(n *doctree.Node) bool {
		switch v := n.Value.(type) {
		case string:
			count += len(strings.Fields(v))
		case int64, float64, bool:
			count++
		}
		return true
	})
	return count
}

func tabularKeys(meta *doctree.Metadata, root *doctree.Node) {
	rows := 0
	widths := make(map[int]int)
	for _, child := range root.Children {
		switch child.Kind {
		case "row":
			rows++
			widths[len(child.Children)]++
		case "header":
			widths[len(child.Children)]++
		}
	}
	meta.Set("row_count", rows)
	meta.Set("column_count", modeOf(widths))
}

func structuredKeys(meta *doctree.Metadata, root *doctree.Node) {
	keys := make(map[string]bool)
	root.Walk(func(n *doctree.Node) bool {
		if k := n.Attr("key"); k != "" {
			keys[k] = true
		}
		return true
	})
	meta.Set("max_nesting_depth", containerDepth(root))
	meta.Set("key_count", len(keys))
}

// containerDepth is the deepest object/array nesting level; a bare
// scalar document has depth 0.
func containerDepth(n *doctree.Node) int {
	if n.Kind != "object" && n.Kind != "array" {
		return 0
	}
	deepest := 0
	for _, c := range n.Children {
		if d := containerDepth(c); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

func markupKeys(meta *doctree.Metadata, root *doctree.Node) {
	elements, attrs := 0, 0
	root.Walk(func(n *doctree.Node) bool {
		if n != root && n.Kind != "text" {
			elements++
			attrs += len(n.Attrs)
		}
		return true
	})
	meta.Set("element_count", elements)
	meta.Set("max_nesting_depth", elementDepth(root, 0))
	meta.Set("attribute_count", attrs)
}

func elementDepth(n *doctree.Node, depth int) int {
	deepest := depth
	for _, c := range n.Children {
		if c.Kind == "text" {
			continue
		}
		if d := elementDepth(c, depth+1); d > deepest {
			deepest = d
		}
	}
	return deepest
}

func lightweightKeys(meta *doctree.Metadata, root *doctree.Node) {
	headings, items, paragraphs := 0, 0, 0
	for _, c := range root.Children {
		switch c.Kind {
		case "heading":
			headings++
		case "list_item":
			items++
		case "paragraph":
			paragraphs++
		}
	}
	meta.Set("heading_count", headings)
	meta.Set("list_item_count", items)
	meta.Set("paragraph_count", paragraphs)
}

// modeOf returns the most frequent key; ties go to the larger key.
func modeOf(freq map[int]int) int {
	best, bestFreq := 0, 0
	for k, f := range freq {
		if f > bestFreq || (f == bestFreq && k > best) {
			best, bestFreq = k, f
		}
	}
	return best
}
