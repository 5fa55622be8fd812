package iniedit

import (
	"strings"
)

// TokenKind classifies a single line.
type TokenKind uint8

const (
	// TokenEmpty is a blank line.
	TokenEmpty TokenKind = iota
	// TokenComment is a line starting with ';' or '#'.
	TokenComment
	// TokenSection is a "[name]" header.
	TokenSection
	// TokenProperty is a "key=value" line.
	TokenProperty
)

func (k TokenKind) String() string {
	switch k {
	case TokenEmpty:
		return "empty"
	case TokenComment:
		return "comment"
	case TokenSection:
		return "section"
	case TokenProperty:
		return "property"
	default:
		return "unknown"
	}
}

// Token is the result of classifying one line.
//
// Text holds the trimmed comment line for TokenComment and the name between
// the brackets for TokenSection. Key and Value are only set for
// TokenProperty.
type Token struct {
	Kind  TokenKind
	Text  string
	Key   string
	Value string
}

// Tokenize classifies a single line without its line terminator.
//
// The line is trimmed of spaces and tabs first. Then, in this order:
//   - "[]" fails with ErrEmptySectionName
//   - a leading ';' or '#' makes a comment (kept verbatim)
//   - "[...]" makes a section header
//   - an empty line makes an empty token
//   - anything else must contain '='; key and value are the trimmed text
//     before and after the first '='. A line without '=' fails with
//     ErrInvalidLine.
//
// Errors are of type *ParseError with LineNo 0. Tokenize keeps no state, so
// lines can be tokenized in any order.
func Tokenize(line string) (Token, error) {
	trimmed := trimLine(line)

	switch {
	case trimmed == "[]":
		return Token{}, &ParseError{Line: line, Err: ErrEmptySectionName}
	case strings.HasPrefix(trimmed, ";"), strings.HasPrefix(trimmed, "#"):
		return Token{Kind: TokenComment, Text: trimmed}, nil
	case strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"):
		return Token{Kind: TokenSection, Text: trimmed[1 : len(trimmed)-1]}, nil
	case trimmed == "":
		return Token{Kind: TokenEmpty}, nil
	}

	key, value, found := strings.Cut(trimmed, "=")
	if !found {
		return Token{}, &ParseError{Line: line, Err: ErrInvalidLine}
	}

	return Token{
		Kind:  TokenProperty,
		Key:   trimLine(key),
		Value: trimLine(value),
	}, nil
}
