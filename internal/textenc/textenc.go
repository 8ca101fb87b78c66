// Package textenc decodes raw document bytes into text. UTF-8 is the
// default; a byte-order mark switches decoding to UTF-16 in the
// indicated endianness.
package textenc

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Decode converts data to a string and reports the encoding it used
// ("utf-8", "utf-16le" or "utf-16be"). The returned error wraps the
// decode failure; the encoding name is valid either way.
func Decode(data []byte) (string, string, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return decodeUTF8(data[len(bomUTF8):])
	case bytes.HasPrefix(data, bomUTF16LE):
		return decodeUTF16(data[len(bomUTF16LE):], unicode.LittleEndian, "utf-16le")
	case bytes.HasPrefix(data, bomUTF16BE):
		return decodeUTF16(data[len(bomUTF16BE):], unicode.BigEndian, "utf-16be")
	}
	return decodeUTF8(data)
}

func decodeUTF8(data []byte) (string, string, error) {
	if !utf8.Valid(data) {
		return "", "utf-8", fmt.Errorf("invalid utf-8 byte sequence")
	}
	return string(data), "utf-8", nil
}

func decodeUTF16(data []byte, endian unicode.Endianness, name string) (string, string, error) {
	if len(data)%2 != 0 {
		return "", name, fmt.Errorf("odd-length %s byte sequence", name)
	}
	dec := unicode.UTF16(endian, unicode.IgnoreBOM).NewDecoder()
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", name, fmt.Errorf("decode %s: %w", name, err)
	}
	return string(out), name, nil
}

// Window returns up to limit bytes of data decoded on a best-effort
// basis for content sniffing. Decode failures yield an empty string; a
// partial trailing rune in the window is dropped rather than reported.
func Window(data []byte, limit int) string {
	if len(data) > limit {
		data = data[:limit]
	}
	text, _, err := Decode(data)
	if err == nil {
		return text
	}
	// The cut may have split a UTF-8 rune or UTF-16 pair; retry with a
	// trimmed tail before giving up.
	for cut := 1; cut <= 3 && cut < len(data); cut++ {
		if text, _, err := Decode(data[:len(data)-cut]); err == nil {
			return text
		}
	}
	return ""
}
