// Package doctree holds the unified document model shared by every
// format parser: the format enumeration, the structured node tree, the
// ordered metadata mapping and the Document result.
package doctree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Format identifies a document format kind.
type Format int

const (
	Unknown Format = iota
	PlainText
	Tabular
	StructuredObject
	Markup
	LightweightMarkup
)

var formatStrings = map[Format]string{
	Unknown:           "unknown",
	PlainText:         "plain_text",
	Tabular:           "tabular",
	StructuredObject:  "structured_object",
	Markup:            "markup",
	LightweightMarkup: "lightweight_markup",
}

var formatNames = map[Format]string{
	Unknown:           "Unknown",
	PlainText:         "Plain Text",
	Tabular:           "CSV",
	StructuredObject:  "JSON",
	Markup:            "XML/HTML",
	LightweightMarkup: "Markdown",
}

func (f Format) String() string {
	if s, ok := formatStrings[f]; ok {
		return s
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// Name returns the human-readable format name, e.g. "Plain Text".
func (f Format) Name() string {
	if n, ok := formatNames[f]; ok {
		return n
	}
	return "Unknown"
}

// ParseFormat maps a format string (or a common alias such as "csv",
// "json", "html", "md") to its Format. The second result is false when
// the string names no known format.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "plain_text", "text", "txt":
		return PlainText, true
	case "tabular", "csv", "tsv":
		return Tabular, true
	case "structured_object", "json":
		return StructuredObject, true
	case "markup", "html", "htm", "xml":
		return Markup, true
	case "lightweight_markup", "markdown", "md":
		return LightweightMarkup, true
	case "unknown":
		return Unknown, true
	}
	return Unknown, false
}

func (f Format) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

func (f *Format) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, ok := ParseFormat(s)
	if !ok {
		return fmt.Errorf("unknown format %q", s)
	}
	*f = parsed
	return nil
}

// Node is a recursive element of parsed document content. Kind is a
// format-specific tag ("line", "row", "heading", "object", ...; markup
// elements use the tag name itself). Value carries the leaf payload and
// is a string, int64, float64, bool or nil. Only markup trees mix a
// value-bearing node with children (text interleaved with elements).
type Node struct {
	Kind     string            `json:"kind"`
	Value    any               `json:"value,omitempty"`
	Attrs    map[string]string `json:"attributes,omitempty"`
	Children []*Node           `json:"children,omitempty"`
}

// Attr returns the named attribute, or "" when absent.
func (n *Node) Attr(name string) string {
	if n.Attrs == nil {
		return ""
	}
	return n.Attrs[name]
}

// SetAttr sets an attribute, allocating the map on first use.
func (n *Node) SetAttr(name, value string) {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[name] = value
}

// Append adds children to the node in order.
func (n *Node) Append(children ...*Node) {
	n.Children = append(n.Children, children...)
}

// Walk visits n and every descendant in depth-first order. The visit
// function returns false to stop the walk.
func (n *Node) Walk(visit func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !visit(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(visit) {
			return false
		}
	}
	return true
}

// Metadata is an insertion-ordered mapping from metadata key to a
// string, int or float64 value.
type Metadata struct {
	keys   []string
	values map[string]any
}

func NewMetadata() *Metadata {
	return &Metadata{values: make(map[string]any)}
}

// Set inserts or updates a key. A new key keeps its insertion position.
func (m *Metadata) Set(key string, value any) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value for key.
func (m *Metadata) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Int returns the value for key as an int, or 0 when absent or not an
// integer value.
func (m *Metadata) Int(key string) int {
	switch v := m.values[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}

// String returns the value for key as a string, or "" when absent.
func (m *Metadata) String(key string) string {
	if s, ok := m.values[key].(string); ok {
		return s
	}
	return ""
}

// Keys returns the keys in insertion order.
func (m *Metadata) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

func (m *Metadata) Len() int {
	return len(m.keys)
}

// Merge copies entries from other that are not already present. Existing
// keys keep their current value, so universal keys can never be
// overwritten by parser-supplied metadata.
func (m *Metadata) Merge(other *Metadata) {
	if other == nil {
		return
	}
	for _, k := range other.keys {
		if _, ok := m.values[k]; !ok {
			m.Set(k, other.values[k])
		}
	}
}

// MarshalJSON emits the mapping as a JSON object in insertion order.
func (m *Metadata) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Document is the unified parse result. The caller owns it outright;
// the engine keeps no reference after returning it.
type Document struct {
	Format   Format    `json:"format"`
	Root     *Node     `json:"root"`
	Metadata *Metadata `json:"metadata"`
	RawText  string    `json:"raw_text,omitempty"`
}
