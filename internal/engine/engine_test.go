package engine

import (
	"errors"
	"reflect"
	"testing"

	"github.com/dgallion1/docparse/internal/doctree"
	"github.com/dgallion1/docparse/internal/parser"
)

// recordingParser notes whether it was ever invoked.
type recordingParser struct {
	called bool
}

func (p *recordingParser) Parse(src string) (*doctree.Node, *doctree.Metadata, error) {
	p.called = true
	return &doctree.Node{Kind: "document"}, nil, nil
}

func parseErr(t *testing.T, err error) *parser.ParseError {
	t.Helper()
	var perr *parser.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error type %T, want *parser.ParseError: %v", err, err)
	}
	return perr
}

func TestParseTabularScenario(t *testing.T) {
	e := New(nil)
	doc, err := e.Parse(RawInput{Data: []byte("a,b,c\n1,2,3\n4,5\n"), Filename: "x.csv"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Format != doctree.Tabular {
		t.Errorf("format = %v, want tabular", doc.Format)
	}

	rows := 0
	for _, c := range doc.Root.Children {
		if c.Kind == "row" {
			rows++
		}
	}
	if rows != 2 {
		t.Errorf("row children = %d, want 2", rows)
	}
	lastRow := doc.Root.Children[len(doc.Root.Children)-1]
	if len(lastRow.Children) != 3 {
		t.Errorf("padded row has %d cells, want 3", len(lastRow.Children))
	}

	if doc.Metadata.Int("ragged_row_count") != 1 {
		t.Errorf("ragged_row_count = %d, want 1", doc.Metadata.Int("ragged_row_count"))
	}
	if doc.Metadata.Int("column_count") != 3 {
		t.Errorf("column_count = %d, want 3", doc.Metadata.Int("column_count"))
	}
	if doc.Metadata.Int("row_count") != rows {
		t.Errorf("row_count = %d, want %d", doc.Metadata.Int("row_count"), rows)
	}
}

func TestParseMarkdownScenario(t *testing.T) {
	e := New(nil)
	doc, err := e.Parse(RawInput{Data: []byte("# Title\n\nSome text.\n")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Format != doctree.LightweightMarkup {
		t.Fatalf("format = %v, want lightweight_markup", doc.Format)
	}
	blocks := doc.Root.Children
	if len(blocks) != 2 || blocks[0].Kind != "heading" || blocks[1].Kind != "paragraph" {
		t.Fatalf("blocks = %v", blocks)
	}
	if blocks[0].Attr("level") != "1" {
		t.Errorf("heading level = %q, want 1", blocks[0].Attr("level"))
	}
	if doc.Metadata.Int("heading_count") != 1 || doc.Metadata.Int("paragraph_count") != 1 {
		t.Errorf("counts = %d headings, %d paragraphs",
			doc.Metadata.Int("heading_count"), doc.Metadata.Int("paragraph_count"))
	}
}

func TestParseMarkupScenario(t *testing.T) {
	e := New(nil)
	doc, err := e.Parse(RawInput{Data: []byte("<a><b>text</a>"), Filename: "frag.html"})
	if err != nil {
		t.Fatalf("tolerant markup parse failed: %v", err)
	}
	if doc.Format != doctree.Markup {
		t.Fatalf("format = %v, want markup", doc.Format)
	}
	if doc.Metadata.Int("element_count") != 2 {
		t.Errorf("element_count = %d, want 2", doc.Metadata.Int("element_count"))
	}
}

func TestParseMalformedJSONScenario(t *testing.T) {
	e := New(nil)
	doc, err := e.Parse(RawInput{Data: []byte("not json"), Format: doctree.StructuredObject})
	if doc != nil {
		t.Fatal("partial document returned alongside error")
	}
	if perr := parseErr(t, err); perr.Code != parser.ErrMalformedInput {
		t.Errorf("code = %q, want malformed_input", perr.Code)
	}
}

func TestParseEmptyPlainTextScenario(t *testing.T) {
	e := New(nil)
	doc, err := e.Parse(RawInput{Data: nil, Filename: "empty.txt"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Format != doctree.PlainText {
		t.Errorf("format = %v, want plain_text", doc.Format)
	}
	if len(doc.Root.Children) != 0 {
		t.Errorf("line children = %d, want 0", len(doc.Root.Children))
	}
	for key, want := range map[string]int{"line_count": 0, "word_count": 0, "byte_size": 0} {
		if got := doc.Metadata.Int(key); got != want {
			t.Errorf("%s = %d, want %d", key, got, want)
		}
	}
}

func TestOverrideBeatsFilenameAndContent(t *testing.T) {
	e := New(nil)
	doc, err := e.Parse(RawInput{
		Data:     []byte(`{"a": 1}`),
		Filename: "data.csv",
		Format:   doctree.PlainText,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Format != doctree.PlainText {
		t.Errorf("format = %v, want plain_text (the override)", doc.Format)
	}
}

func TestUnsupportedFormatNeverInvokesParser(t *testing.T) {
	e := New(nil)
	rec := &recordingParser{}
	e.RegisterParser(doctree.PlainText, rec)

	// NUL bytes detect as Unknown, which has no parser.
	doc, err := e.Parse(RawInput{Data: []byte{0x00, 0x01, 0x02}})
	if doc != nil {
		t.Fatal("expected no document")
	}
	if perr := parseErr(t, err); perr.Code != parser.ErrUnsupportedFormat {
		t.Errorf("code = %q, want unsupported_format", perr.Code)
	}
	if rec.called {
		t.Error("a parser was invoked for an unsupported format")
	}
}

func TestEncodingErrorSurfacesAttemptedEncoding(t *testing.T) {
	e := New(nil)
	doc, err := e.Parse(RawInput{Data: []byte{'a', 0xFF, 'b'}, Filename: "x.txt"})
	if doc != nil {
		t.Fatal("expected no document")
	}
	perr := parseErr(t, err)
	if perr.Code != parser.ErrEncodingError {
		t.Fatalf("code = %q, want encoding_error", perr.Code)
	}
}

func TestUTF16InputDecodes(t *testing.T) {
	data := []byte{0xFF, 0xFE}
	for _, r := range "hello world" {
		data = append(data, byte(r), 0)
	}
	e := New(nil)
	doc, err := e.Parse(RawInput{Data: data, Filename: "x.txt"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Metadata.String("detected_encoding") != "utf-16le" {
		t.Errorf("detected_encoding = %q, want utf-16le", doc.Metadata.String("detected_encoding"))
	}
	if doc.RawText != "hello world" {
		t.Errorf("raw text = %q", doc.RawText)
	}
}

func TestMetadataSupplements(t *testing.T) {
	e := New(nil)
	doc, err := e.Parse(RawInput{Data: []byte("hi"), Filename: "note.txt"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Metadata.String("format_name") != "Plain Text" {
		t.Errorf("format_name = %q, want Plain Text", doc.Metadata.String("format_name"))
	}
	if doc.Metadata.String("filename") != "note.txt" {
		t.Errorf("filename = %q, want note.txt", doc.Metadata.String("filename"))
	}

	doc, err = e.Parse(RawInput{Data: []byte("hi")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := doc.Metadata.Get("filename"); ok {
		t.Error("filename key present without a filename")
	}
}

func TestRegisteredParserObservedBySubsequentCalls(t *testing.T) {
	e := New(nil)
	rec := &recordingParser{}
	e.RegisterParser(doctree.PlainText, rec)

	if _, err := e.Parse(RawInput{Data: []byte("hi"), Filename: "x.txt"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rec.called {
		t.Error("replacement parser was not used")
	}
}

func TestSupportedFormats(t *testing.T) {
	e := New(nil)
	want := []doctree.Format{
		doctree.PlainText,
		doctree.Tabular,
		doctree.StructuredObject,
		doctree.Markup,
		doctree.LightweightMarkup,
	}
	if got := e.SupportedFormats(); !reflect.DeepEqual(got, want) {
		t.Errorf("formats = %v, want %v", got, want)
	}
}

func TestRepeatedParseIsDeterministic(t *testing.T) {
	e := New(nil)
	in := RawInput{Data: []byte(`{"a": [1, 2], "b": "x"}`), Filename: "d.json"}
	first, err := e.Parse(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := e.Parse(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated parses of identical input differ")
	}
}
