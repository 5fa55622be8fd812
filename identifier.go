package iniedit

import (
	"fmt"
	"strings"

	"github.com/gopasspw/gopass/pkg/debug"
)

// Options controls how identifiers are compared.
type Options struct {
	// IgnoreCase makes section and key comparisons case-insensitive.
	// Values are never case-folded.
	IgnoreCase bool
}

type identKind uint8

const (
	identLiteral identKind = iota
	identWildcard
	identGlob
)

// Identifier is a section or key name. It is either literal text, the
// wildcard which matches any other identifier, or a glob pattern (see
// ParsePattern).
//
// The zero value is the literal empty string, i.e. the name of the top-level
// section. Identifiers are immutable and comparable.
type Identifier struct {
	text string
	kind identKind
}

// Wildcard matches every identifier.
var Wildcard = Identifier{text: "*", kind: identWildcard}

// ParseIdentifier returns a literal identifier. A "*" read from a document
// stays a literal "*".
func ParseIdentifier(s string) Identifier {
	return Identifier{text: s}
}

// ParseSelector parses a user supplied selector. It returns Wildcard iff s is
// exactly "*" and a literal identifier otherwise.
func ParseSelector(s string) Identifier {
	if s == "*" {
		return Wildcard
	}

	return ParseIdentifier(s)
}

// ParsePattern parses a user supplied selector that may contain glob
// metacharacters. Plain text yields a literal, "*" yields Wildcard and
// anything else containing one of `*?[{` becomes a glob identifier.
//
// Example:
//
//	id, err := ParsePattern("remote.*")
//	if err != nil { ... }
//	Same(Options{}, id, ParseIdentifier("remote.origin")) // true
func ParsePattern(s string) (Identifier, error) {
	if s == "*" {
		return Wildcard, nil
	}
	if !strings.ContainsAny(s, globMetaChars) {
		return ParseIdentifier(s), nil
	}

	if _, err := globMatch(s, ""); err != nil {
		return Identifier{}, fmt.Errorf("%w %q: %w", ErrInvalidPattern, s, err)
	}

	return Identifier{text: s, kind: identGlob}, nil
}

// IsWildcard reports whether id matches everything.
func (id Identifier) IsWildcard() bool {
	return id.kind == identWildcard
}

// IsPattern reports whether id is a glob pattern.
func (id Identifier) IsPattern() bool {
	return id.kind == identGlob
}

// IsLiteral reports whether id names exactly one section or key.
func (id Identifier) IsLiteral() bool {
	return id.kind == identLiteral
}

// String returns the text of the identifier as it is rendered.
func (id Identifier) String() string {
	return id.text
}

// Normalize returns id case-folded if opts.IgnoreCase is set. The wildcard is
// returned unchanged.
func Normalize(opts Options, id Identifier) Identifier {
	if !opts.IgnoreCase || id.kind == identWildcard {
		return id
	}

	return Identifier{text: strings.ToLower(id.text), kind: id.kind}
}

// Same reports whether a and b name the same thing under opts.
//
// The wildcard is the same as anything, including another wildcard. Two
// literals are the same if their normalized text is equal. A glob pattern is
// the same as a literal it matches; two patterns are the same if their
// normalized text is equal.
//
// Same is symmetric and reflexive but not transitive: "*" is the same as "a"
// and as "b" while "a" and "b" differ.
func Same(opts Options, a, b Identifier) bool {
	if a.kind == identWildcard || b.kind == identWildcard {
		return true
	}

	a = Normalize(opts, a)
	b = Normalize(opts, b)

	if a.kind == b.kind {
		return a.text == b.text
	}

	pattern, name := a, b
	if b.kind == identGlob {
		pattern, name = b, a
	}

	ok, err := globMatch(pattern.text, name.text)
	if err != nil {
		debug.V(1).Log("invalid pattern %q: %s", pattern.text, err)

		return pattern.text == name.text
	}

	return ok
}
