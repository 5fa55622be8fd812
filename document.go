package iniedit

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/gopasspw/gopass/pkg/debug"
)

// Item is one line inside a section: a Property, a Comment or an Empty line.
// The set of item kinds is closed; the unexported method keeps other packages
// from adding new ones.
type Item interface {
	isItem()
}

// Property is a "key=value" line.
type Property struct {
	Key   Identifier
	Value string
}

// Comment is a comment line. Text includes the leading ';' or '#'.
type Comment struct {
	Text string
}

// Empty is a blank line.
type Empty struct{}

func (Property) isItem() {}
func (Comment) isItem()  {}
func (Empty) isItem()    {}

// Section is a named group of items. The section with the empty name holds
// everything before the first header.
type Section struct {
	Name  Identifier
	Items []Item
}

// Document is an ordered list of sections as they appear in the source.
//
// At most one top-level (empty name) section exists and it is always the
// first one. Sections with the same name may repeat.
//
// Documents are plain values. None of the functions in this package modify a
// Document they are given, so a Document can be shared between goroutines.
type Document []Section

// Parse tokenizes the lines (without line terminators) and builds a document.
// It stops at the first malformed line and returns a *ParseError.
func Parse(lines []string) (Document, error) {
	tokens := make([]Token, 0, len(lines))
	for i, line := range lines {
		tok, err := Tokenize(line)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.LineNo = i + 1
			}
			debug.V(1).Log("failed to parse line %d %q: %s", i+1, line, err)

			return nil, err
		}
		tokens = append(tokens, tok)
	}

	return Build(tokens), nil
}

// ParseReader reads r line by line and parses the result. Both "\n" and
// "\r\n" line endings are accepted.
func ParseReader(r io.Reader) (Document, error) {
	s := bufio.NewScanner(r)

	lines := make([]string, 0, 128)
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	return Parse(lines)
}

// ParseString is a shortcut for ParseReader(strings.NewReader(s)).
func ParseString(s string) (Document, error) {
	return ParseReader(strings.NewReader(s))
}

// Build groups tokens into sections. Tokens before the first section header
// go into a top-level section that is only created if there are any.
func Build(tokens []Token) Document {
	var doc Document

	for _, tok := range tokens {
		if tok.Kind == TokenSection {
			doc = append(doc, Section{Name: ParseIdentifier(tok.Text)})

			continue
		}

		if len(doc) == 0 {
			doc = append(doc, Section{})
		}

		cur := &doc[len(doc)-1]
		cur.Items = append(cur.Items, tokenItem(tok))
	}

	debug.V(3).Log("built document with %d sections from %d tokens", len(doc), len(tokens))

	return doc
}

func tokenItem(tok Token) Item {
	switch tok.Kind {
	case TokenProperty:
		return Property{Key: ParseIdentifier(tok.Key), Value: tok.Value}
	case TokenComment:
		return Comment{Text: tok.Text}
	case TokenEmpty:
		return Empty{}
	default:
		panic(fmt.Sprintf("unexpected token kind %s", tok.Kind))
	}
}

// String renders the document as INI text. Every section is its header (if
// named) followed by its items, one per line, and sections are joined by a
// newline. The result ends with a newline unless nothing was rendered.
//
// A top-level section without items has no lines and is skipped. A
// document holding a single blank line renders as "\n" so that it survives
// a round trip through ParseString.
func (d Document) String() string {
	sections := make([]string, 0, len(d))
	for _, s := range d {
		if s.IsTopLevel() && len(s.Items) == 0 {
			continue
		}
		sections = append(sections, s.String())
	}

	if len(sections) == 0 {
		return ""
	}

	return strings.Join(sections, "\n") + "\n"
}

// Lines renders the document and splits it into lines without terminators.
func (d Document) Lines() []string {
	out := d.String()
	if out == "" {
		return nil
	}

	return strings.Split(strings.TrimSuffix(out, "\n"), "\n")
}

// String renders the section without a trailing newline.
func (s Section) String() string {
	lines := make([]string, 0, len(s.Items)+1)
	if s.Name.String() != "" {
		lines = append(lines, "["+s.Name.String()+"]")
	}
	for _, item := range s.Items {
		lines = append(lines, renderItem(item))
	}

	return strings.Join(lines, "\n")
}

func renderItem(item Item) string {
	switch it := item.(type) {
	case Property:
		return it.Key.String() + "=" + it.Value
	case Comment:
		return it.Text
	case Empty:
		return ""
	default:
		panic(fmt.Sprintf("unexpected item type %T", item))
	}
}

// IsTopLevel reports whether s is the section holding items before the
// first header.
func (s Section) IsTopLevel() bool {
	return s.Name.IsLiteral() && s.Name.String() == ""
}

// clone returns a copy of s that shares no memory with it.
func (s Section) clone() Section {
	return Section{Name: s.Name, Items: slices.Clone(s.Items)}
}
