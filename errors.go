package iniedit

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySectionName indicates a section header without a name ("[]").
	ErrEmptySectionName = errors.New("empty section name")
	// ErrInvalidLine indicates a line that is neither blank, a comment, a section header nor a property.
	ErrInvalidLine = errors.New("invalid line")
	// ErrInvalidPattern indicates a selector that is not a valid glob pattern.
	ErrInvalidPattern = errors.New("invalid pattern")
	// ErrInvalidKey indicates a section or key that can not be written, e.g. a wildcard.
	ErrInvalidKey = errors.New("invalid key")
	// ErrCreateDir indicates a parent directory could not be created.
	ErrCreateDir = errors.New("failed to create directory")
	// ErrWriteFile indicates a document could not be written.
	ErrWriteFile = errors.New("failed to write file")
)

// ParseError reports the line a parse failed on.
//
// Err is always one of ErrEmptySectionName or ErrInvalidLine, so callers can
// use errors.Is to tell them apart and errors.As to get the offending text:
//
//	var pe *iniedit.ParseError
//	if errors.As(err, &pe) {
//		fmt.Printf("bad line %d: %q\n", pe.LineNo, pe.Line)
//	}
type ParseError struct {
	LineNo int // 1-based, 0 if unknown (e.g. when calling Tokenize directly)
	Line   string
	Err    error
}

func (e *ParseError) Error() string {
	msg := e.Err.Error()
	if errors.Is(e.Err, ErrInvalidLine) {
		msg = fmt.Sprintf("%s: %q", msg, e.Line)
	}
	if e.LineNo > 0 {
		return fmt.Sprintf("line %d: %s", e.LineNo, msg)
	}

	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
