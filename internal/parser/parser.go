// Package parser contains the per-format parsers, the parser registry
// and the typed parse error. Each parser converts decoded document text
// into a doctree node tree plus optional format-specific metadata.
package parser

import (
	"github.com/dgallion1/docparse/internal/doctree"
)

// Parser converts decoded document text into a structured node tree.
// The second result carries format-specific partial metadata (may be
// nil); the metadata extractor merges it additively, never letting it
// overwrite universal keys.
type Parser interface {
	Parse(src string) (*doctree.Node, *doctree.Metadata, error)
}
