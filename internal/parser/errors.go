package parser

import (
	"fmt"

	"github.com/dgallion1/docparse/internal/doctree"
)

// ErrorCode names a class of parse failure.
type ErrorCode string

const (
	// ErrUnsupportedFormat: detection yielded Unknown, or no parser is
	// registered for the resolved format.
	ErrUnsupportedFormat ErrorCode = "unsupported_format"
	// ErrMalformedInput: content violates the format's minimal grammar.
	ErrMalformedInput ErrorCode = "malformed_input"
	// ErrEncodingError: the bytes could not be decoded as text.
	ErrEncodingError ErrorCode = "encoding_error"
)

// ParseError is the typed failure every pipeline stage reports. Line is
// 1-based and Offset is a byte offset into the source; both are zero
// when not determinable.
type ParseError struct {
	Code    ErrorCode
	Format  doctree.Format
	Message string
	Line    int
	Offset  int64
	Err     error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Line > 0 {
		msg += fmt.Sprintf(" (line %d)", e.Line)
	} else if e.Offset > 0 {
		msg += fmt.Sprintf(" (offset %d)", e.Offset)
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Unsupported builds an unsupported_format error for the given kind.
func Unsupported(format doctree.Format) *ParseError {
	return &ParseError{
		Code:    ErrUnsupportedFormat,
		Format:  format,
		Message: fmt.Sprintf("no parser for format %q", format),
	}
}

// Malformed builds a malformed_input error at a byte offset (0 when
// unknown).
func Malformed(format doctree.Format, offset int64, err error) *ParseError {
	return &ParseError{
		Code:    ErrMalformedInput,
		Format:  format,
		Message: err.Error(),
		Offset:  offset,
		Err:     err,
	}
}

// MalformedLine builds a malformed_input error at a 1-based line.
func MalformedLine(format doctree.Format, line int, err error) *ParseError {
	return &ParseError{
		Code:    ErrMalformedInput,
		Format:  format,
		Message: err.Error(),
		Line:    line,
		Err:     err,
	}
}

// EncodingFailure builds an encoding_error naming the attempted
// encoding.
func EncodingFailure(encoding string, err error) *ParseError {
	return &ParseError{
		Code:    ErrEncodingError,
		Message: fmt.Sprintf("decode as %s: %v", encoding, err),
		Err:     err,
	}
}
