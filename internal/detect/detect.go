// Package detect classifies raw input into a document format using an
// explicit override, the filename extension, or content sniffing, in
// that order of precedence.
package detect

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docparse/internal/doctree"
	"github.com/dgallion1/docparse/internal/textenc"
)

// SniffLimit bounds how much of the input content sniffing examines.
const SniffLimit = 4096

// byExtension maps file extensions to formats. Filename hints beat
// content sniffing, so this table is consulted first.
var byExtension = map[string]doctree.Format{
	".txt":      doctree.PlainText,
	".text":     doctree.PlainText,
	".csv":      doctree.Tabular,
	".tsv":      doctree.Tabular,
	".json":     doctree.StructuredObject,
	".xml":      doctree.Markup,
	".html":     doctree.Markup,
	".htm":      doctree.Markup,
	".md":       doctree.LightweightMarkup,
	".markdown": doctree.LightweightMarkup,
}

// Detect classifies the input. It never fails: input that cannot be
// classified detects as PlainText, except binary-looking content, which
// detects as Unknown.
func Detect(data []byte, filename string, override doctree.Format) doctree.Format {
	if override != doctree.Unknown {
		return override
	}
	if filename != "" {
		ext := strings.ToLower(filepath.Ext(filename))
		if f, ok := byExtension[ext]; ok {
			return f
		}
	}
	return sniff(data)
}

// sniff inspects at most the first SniffLimit bytes of content.
func sniff(data []byte) doctree.Format {
	if len(data) > SniffLimit {
		data = data[:SniffLimit]
	}
	if bytes.IndexByte(data, 0x00) >= 0 && !hasUTF16BOM(data) {
		return doctree.Unknown
	}

	text := textenc.Window(data, SniffLimit)
	trimmed := strings.TrimLeft(text, " \t\r\n")
	if trimmed == "" {
		return doctree.PlainText
	}

	switch trimmed[0] {
	case '{', '[':
		return doctree.StructuredObject
	case '<':
		if looksLikeTag(trimmed) {
			return doctree.Markup
		}
	}

	lines := nonEmptyLines(text)
	if delimiterConsistent(lines) {
		return doctree.Tabular
	}
	if looksLikeBlockMarker(trimmed) {
		return doctree.LightweightMarkup
	}
	return doctree.PlainText
}

func hasUTF16BOM(data []byte) bool {
	return bytes.HasPrefix(data, []byte{0xFF, 0xFE}) || bytes.HasPrefix(data, []byte{0xFE, 0xFF})
}

// looksLikeTag reports whether text starts with "<" followed by a
// tag-like token: a letter, "/", "!" or "?".
func looksLikeTag(text string) bool {
	if len(text) < 2 {
		return false
	}
	c := text[1]
	return c == '/' || c == '!' || c == '?' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func nonEmptyLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

// delimiterConsistent reports whether the first line carries a repeated
// field separator (comma, tab or semicolon) whose count holds steady on
// the following lines.
func delimiterConsistent(lines []string) bool {
	if len(lines) == 0 {
		return false
	}
	for _, sep := range []string{",", "\t", ";"} {
		first := strings.Count(lines[0], sep)
		if first < 2 {
			continue
		}
		consistent := true
		for _, line := range lines[1:] {
			if strings.Count(line, sep) != first {
				consistent = false
				break
			}
		}
		if consistent {
			return true
		}
	}
	return false
}

// looksLikeBlockMarker reports whether text opens with a heading marker
// ("#" run then space or end of line) or a list marker ("- ", "* ",
// "+ ", or "1. " style ordinals).
func looksLikeBlockMarker(text string) bool {
	if text[0] == '#' {
		i := 0
		for i < len(text) && text[i] == '#' {
			i++
		}
		return i == len(text) || text[i] == ' ' || text[i] == '\n'
	}
	if len(text) >= 2 && (text[0] == '-' || text[0] == '*' || text[0] == '+') && text[1] == ' ' {
		return true
	}
	i := 0
	for i < len(text) && text[i] >= '0' && text[i] <= '9' {
		i++
	}
	return i > 0 && i+1 < len(text) && text[i] == '.' && text[i+1] == ' '
}
