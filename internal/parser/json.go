package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docparse/internal/doctree"
)

// JSONParser handles structured object notation. It walks the token
// stream directly so that object member order is preserved and syntax
// errors carry a byte offset. There is no forgiving recovery: this
// format either parses precisely or is rejected.
type JSONParser struct{}

func (p *JSONParser) Parse(src string) (*doctree.Node, *doctree.Metadata, error) {
	dec := json.NewDecoder(strings.NewReader(src))
	dec.UseNumber()

	root, err := parseValue(dec)
	if err != nil {
		return nil, nil, jsonMalformed(err, dec)
	}

	// Anything after the document is a violation.
	if tok, err := dec.Token(); err != io.EOF {
		if err != nil {
			return nil, nil, jsonMalformed(err, dec)
		}
		return nil, nil, Malformed(doctree.StructuredObject, dec.InputOffset(),
			fmt.Errorf("unexpected trailing token %v", tok))
	}
	return root, nil, nil
}

func parseValue(dec *json.Decoder) (*doctree.Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		}
		return nil, fmt.Errorf("unexpected delimiter %q", t.String())
	case string:
		return &doctree.Node{Kind: "scalar", Value: t}, nil
	case json.Number:
		return &doctree.Node{Kind: "scalar", Value: numberValue(t)}, nil
	case bool:
		return &doctree.Node{Kind: "scalar", Value: t}, nil
	case nil:
		return &doctree.Node{Kind: "scalar", Value: nil}, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func parseObject(dec *json.Decoder) (*doctree.Node, error) {
	node := &doctree.Node{Kind: "object"}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is not a string: %v", keyTok)
		}
		child, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		child.SetAttr("key", key)
		node.Append(child)
	}
	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return node, nil
}

func parseArray(dec *json.Decoder) (*doctree.Node, error) {
	node := &doctree.Node{Kind: "array"}
	for dec.More() {
		child, err := parseValue(dec)
		if err != nil {
			return nil, err
		}
		node.Append(child)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return node, nil
}

// numberValue keeps integral numbers as int64 and everything else as
// float64, falling back to the literal text for out-of-range values.
func numberValue(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

func jsonMalformed(err error, dec *json.Decoder) *ParseError {
	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		return Malformed(doctree.StructuredObject, syn.Offset, err)
	}
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return Malformed(doctree.StructuredObject, dec.InputOffset(),
			fmt.Errorf("unexpected end of input"))
	}
	return Malformed(doctree.StructuredObject, dec.InputOffset(), err)
}

// Serialize regenerates JSON text from a structured-object tree. It is
// the inverse of Parse up to whitespace and number formatting.
func Serialize(n *doctree.Node) (string, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func writeJSON(buf *bytes.Buffer, n *doctree.Node) error {
	switch n.Kind {
	case "object":
		buf.WriteByte('{')
		for i, c := range n.Children {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(c.Attr("key"))
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeJSON(buf, c); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case "array":
		buf.WriteByte('[')
		for i, c := range n.Children {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, c); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case "scalar":
		b, err := json.Marshal(n.Value)
		if err != nil {
			return err
		}
		buf.Write(b)
	default:
		return fmt.Errorf("cannot serialize node kind %q", n.Kind)
	}
	return nil
}
