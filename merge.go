package iniedit

import (
	"fmt"
	"slices"

	"github.com/gopasspw/gopass/pkg/debug"
)

// MergeSection returns to updated with the values from from.
//
// Behavior:
//   - a property in to takes the value of the first property in from with the
//     same key, but keeps its own key spelling (relevant with IgnoreCase)
//   - properties of from that have no counterpart in to are added after the
//     last item of to that is not a blank line, so trailing blank lines stay
//     at the end of the section
//   - comments and blank lines of from are not copied
//
// The name of the result is the name of to.
func MergeSection(opts Options, from, to Section) Section {
	items := make([]Item, 0, len(to.Items)+len(from.Items))
	for _, item := range to.Items {
		prop, ok := item.(Property)
		if !ok {
			items = append(items, item)

			continue
		}
		if v, found := firstValue(opts, from.Items, prop.Key); found {
			prop.Value = v
		}
		items = append(items, prop)
	}

	var added []Item
	for _, item := range from.Items {
		prop, ok := item.(Property)
		if !ok {
			continue
		}
		if _, found := firstValue(opts, items, prop.Key); found {
			continue
		}
		added = append(added, prop)
	}

	if len(added) > 0 {
		at := len(items) - trailingEmpty(items)
		items = slices.Insert(items, at, added...)
		debug.V(3).Log("inserted %d new properties into [%s] at %d", len(added), to.Name, at)
	}

	if len(items) == 0 {
		items = nil
	}

	return Section{Name: to.Name, Items: items}
}

// firstValue returns the value of the first property in items whose key is the
// same as key.
func firstValue(opts Options, items []Item, key Identifier) (string, bool) {
	for _, item := range items {
		if prop, ok := item.(Property); ok && Same(opts, prop.Key, key) {
			return prop.Value, true
		}
	}

	return "", false
}

// trailingEmpty counts the blank lines at the end of items.
func trailingEmpty(items []Item) int {
	var n int
	for i := len(items) - 1; i >= 0; i-- {
		if _, ok := items[i].(Empty); !ok {
			break
		}
		n++
	}

	return n
}

// Merge returns to updated with the sections and values from from.
//
// Behavior:
//   - every section in to is merged (see MergeSection) with the first section
//     of from that has the same name; sections without counterpart are kept
//   - sections only present in from are appended in their original order
//   - a top-level section only present in from goes first. If anything
//     follows it, a blank line is added to separate it from the next header.
//
// Neither from nor to are modified.
//
// Example:
//
//	base, _ := ParseString("[core]\neditor=vi\n")
//	override, _ := ParseString("[core]\neditor=vim\npager=less\n")
//	fmt.Print(Merge(Options{}, override, base))
//	// [core]
//	// editor=vim
//	// pager=less
func Merge(opts Options, from, to Document) Document {
	updated := make(Document, 0, len(to)+len(from))
	for _, ts := range to {
		fs, found := findSection(opts, from, ts.Name)
		if !found {
			updated = append(updated, ts.clone())

			continue
		}
		updated = append(updated, MergeSection(opts, fs, ts))
	}

	var top *Section
	var added Document
	for _, fs := range from {
		if _, found := findSection(opts, to, fs.Name); found {
			continue
		}
		if fs.IsTopLevel() && top == nil {
			s := fs.clone()
			top = &s

			continue
		}
		added = append(added, fs.clone())
	}

	debug.V(2).Log("merged %d sections, %d new sections", len(to), len(added))

	if top == nil {
		out := append(updated, added...)
		if len(out) == 0 {
			return nil
		}

		return out
	}

	if len(updated) > 0 || len(added) > 0 {
		top.Items = append(top.Items, Empty{})
	}

	out := make(Document, 0, 1+len(updated)+len(added))
	out = append(out, *top)
	out = append(out, updated...)

	return append(out, added...)
}

// findSection returns the first section in doc with the same name as name.
func findSection(opts Options, doc Document, name Identifier) (Section, bool) {
	for _, s := range doc {
		if Same(opts, s.Name, name) {
			return s, true
		}
	}

	return Section{}, false
}

// Set sets key in section to value. An existing property keeps its position
// and key spelling; a missing one is added the way Merge adds new
// properties, creating the section if necessary.
//
// Section and key must be literal identifiers and key must not be empty,
// otherwise ErrInvalidKey is returned.
func Set(opts Options, doc Document, section, key Identifier, value string) (Document, error) {
	if !section.IsLiteral() || !key.IsLiteral() || key.String() == "" {
		return nil, fmt.Errorf("%w: [%s] %s", ErrInvalidKey, section, key)
	}

	debug.V(3).Log("set [%s] %s to %q", section, key, value)

	from := Document{{
		Name:  section,
		Items: []Item{Property{Key: key, Value: value}},
	}}

	return Merge(opts, from, doc), nil
}
