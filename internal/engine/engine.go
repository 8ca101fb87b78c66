// Package engine is the single entry point of the parsing pipeline:
// detect the format, resolve a parser, decode the bytes, parse, then
// attach metadata. Each call is independent and reentrant; the only
// shared state is the parser registry.
package engine

import (
	"io"
	"log/slog"

	"github.com/dgallion1/docparse/internal/detect"
	"github.com/dgallion1/docparse/internal/doctree"
	"github.com/dgallion1/docparse/internal/extract"
	"github.com/dgallion1/docparse/internal/parser"
	"github.com/dgallion1/docparse/internal/textenc"
)

// RawInput is one document to parse. Format, when not Unknown, is an
// explicit override that wins over both filename and content. The
// engine does not retain the input after Parse returns.
type RawInput struct {
	Data     []byte
	Filename string
	Format   doctree.Format
}

// Engine drives the pipeline against a parser registry.
type Engine struct {
	registry *parser.Registry
	log      *slog.Logger
}

// New returns an engine with the built-in parsers registered. A nil
// logger disables logging.
func New(log *slog.Logger) *Engine {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		registry: parser.NewDefaultRegistry(),
		log:      log,
	}
}

// Parse runs the full pipeline. On failure no partial Document is ever
// returned; the error is always a *parser.ParseError.
func (e *Engine) Parse(in RawInput) (*doctree.Document, error) {
	format := detect.Detect(in.Data, in.Filename, in.Format)

	// Resolve before decoding so an unsupported format never reaches a
	// parser, whatever the bytes contain.
	p, err := e.registry.Resolve(format)
	if err != nil {
		return nil, err
	}

	text, encoding, err := textenc.Decode(in.Data)
	if err != nil {
		return nil, parser.EncodingFailure(encoding, err)
	}

	root, partial, err := p.Parse(text)
	if err != nil {
		return nil, err
	}

	meta := extract.Metadata(format, root, text, encoding)
	meta.Set("format_name", format.Name())
	if in.Filename != "" {
		meta.Set("filename", in.Filename)
	}
	meta.Merge(partial)

	e.log.Debug("parsed document",
		"format", format.String(),
		"filename", in.Filename,
		"byte_size", len(text),
	)

	return &doctree.Document{
		Format:   format,
		Root:     root,
		Metadata: meta,
		RawText:  text,
	}, nil
}

// RegisterParser installs or replaces the parser for a format kind.
// Parses already completed are unaffected.
func (e *Engine) RegisterParser(kind doctree.Format, p parser.Parser) {
	e.registry.Register(kind, p)
}

// SupportedFormats lists the format kinds with a registered parser.
func (e *Engine) SupportedFormats() []doctree.Format {
	return e.registry.Formats()
}
