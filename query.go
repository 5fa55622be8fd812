package iniedit

import (
	"fmt"

	"github.com/gopasspw/gopass/pkg/debug"
)

// Operation describes a query or edit. The variants are Noop,
// SelectSection, SelectProperty, RemoveSection, RemoveProperty and
// UpdateProperty. Operations hold no reference to any document.
type Operation interface {
	isOperation()
}

// Noop keeps everything.
type Noop struct{}

// SelectSection keeps the sections named Section.
type SelectSection struct {
	Section Identifier
}

// SelectProperty keeps the properties named Key in sections named Section.
type SelectProperty struct {
	Section Identifier
	Key     Identifier
}

// RemoveSection drops the sections named Section.
type RemoveSection struct {
	Section Identifier
}

// RemoveProperty drops the properties named Key in sections named Section.
type RemoveProperty struct {
	Section Identifier
	Key     Identifier
}

// UpdateProperty sets the properties named Key in sections named Section to
// Value. Select only picks the candidates; Apply writes the value.
type UpdateProperty struct {
	Section Identifier
	Key     Identifier
	Value   string
}

func (Noop) isOperation()           {}
func (SelectSection) isOperation()  {}
func (SelectProperty) isOperation() {}
func (RemoveSection) isOperation()  {}
func (RemoveProperty) isOperation() {}
func (UpdateProperty) isOperation() {}

// Matches reports whether item, found in section, is kept under op.
//
//	operation       comment / empty            property
//	Noop            keep                       keep
//	SelectSection   section matches            section matches
//	SelectProperty  drop                       section and key match
//	RemoveSection   section does not match     section does not match
//	RemoveProperty  keep                       not (section and key match)
//	UpdateProperty  drop                       section and key match
func Matches(opts Options, op Operation, section Section, item Item) bool {
	var prop Property
	var isProp bool
	switch it := item.(type) {
	case Property:
		prop, isProp = it, true
	case Comment, Empty:
	default:
		panic(fmt.Sprintf("unexpected item type %T", item))
	}

	switch o := op.(type) {
	case Noop:
		return true
	case SelectSection:
		return Same(opts, o.Section, section.Name)
	case SelectProperty:
		return isProp && Same(opts, o.Section, section.Name) && Same(opts, o.Key, prop.Key)
	case RemoveSection:
		return !Same(opts, o.Section, section.Name)
	case RemoveProperty:
		return !isProp || !(Same(opts, o.Section, section.Name) && Same(opts, o.Key, prop.Key))
	case UpdateProperty:
		return isProp && Same(opts, o.Section, section.Name) && Same(opts, o.Key, prop.Key)
	default:
		panic(fmt.Sprintf("unexpected operation type %T", op))
	}
}

// keepSection is the section level filter Select applies before looking at
// any items.
func keepSection(opts Options, op Operation, section Section) bool {
	switch o := op.(type) {
	case SelectSection:
		return Same(opts, o.Section, section.Name)
	case SelectProperty:
		return Same(opts, o.Section, section.Name)
	case RemoveSection:
		return !Same(opts, o.Section, section.Name)
	case Noop, RemoveProperty, UpdateProperty:
		return true
	default:
		panic(fmt.Sprintf("unexpected operation type %T", op))
	}
}

// Select returns a new document with the sections and items op keeps.
//
// SelectSection, SelectProperty and RemoveSection first filter whole
// sections by name; all operations then filter the items of the remaining
// sections with Matches. Sections may end up without items; use
// RemoveEmptySections to drop them.
//
// Example:
//
//	out := Select(Options{}, SelectProperty{
//		Section: ParseSelector("core"),
//		Key:     ParseSelector("editor"),
//	}, doc)
func Select(opts Options, op Operation, doc Document) Document {
	var out Document
	for _, s := range doc {
		if !keepSection(opts, op, s) {
			continue
		}

		ns := Section{Name: s.Name}
		for _, item := range s.Items {
			if Matches(opts, op, s, item) {
				ns.Items = append(ns.Items, item)
			}
		}
		out = append(out, ns)
	}

	debug.V(3).Log("select %T: %d of %d sections kept", op, len(out), len(doc))

	return out
}

// SectionExists reports whether doc has a section matching name.
func SectionExists(opts Options, name Identifier, doc Document) bool {
	return len(Select(opts, SelectSection{Section: name}, doc)) > 0
}

// PropertyExists reports whether doc has a property matching key in a
// section matching section.
func PropertyExists(opts Options, section, key Identifier, doc Document) bool {
	for _, s := range Select(opts, SelectProperty{Section: section, Key: key}, doc) {
		if len(s.Items) == 0 {
			continue
		}
		if _, ok := s.Items[0].(Property); ok {
			return true
		}
	}

	return false
}

// RemoveEmptySections returns doc without the sections that have no items.
func RemoveEmptySections(doc Document) Document {
	var out Document
	for _, s := range doc {
		if len(s.Items) == 0 {
			debug.V(3).Log("dropping empty section %q", s.Name)

			continue
		}
		out = append(out, s.clone())
	}

	return out
}

// Apply runs op against doc and returns the edited document.
//
// Behavior:
// - Noop, SelectSection and SelectProperty return Select(opts, op, doc)
// - RemoveSection and RemoveProperty also drop sections left without items,
//   so removing the last property of a section removes its header, too
// - UpdateProperty returns doc with the value of every property matched by
//   op replaced by op.Value. Nothing else changes: comments, blank lines,
//   other properties and the spelling of the matched keys stay as they are.
func Apply(opts Options, op Operation, doc Document) Document {
	switch o := op.(type) {
	case Noop, SelectSection, SelectProperty:
		return Select(opts, op, doc)
	case RemoveSection, RemoveProperty:
		return RemoveEmptySections(Select(opts, op, doc))
	case UpdateProperty:
		return update(opts, o, doc)
	default:
		panic(fmt.Sprintf("unexpected operation type %T", op))
	}
}

func update(opts Options, op UpdateProperty, doc Document) Document {
	var updated int

	var out Document
	for _, s := range doc {
		ns := s.clone()
		for i, item := range ns.Items {
			prop, ok := item.(Property)
			if !ok || !Matches(opts, op, s, item) {
				continue
			}
			prop.Value = op.Value
			ns.Items[i] = prop
			updated++
		}
		out = append(out, ns)
	}

	debug.V(2).Log("updated %d properties matching [%s] %s", updated, op.Section, op.Key)

	return out
}

// Get returns the value of the first property matching key in a section
// matching section.
func Get(opts Options, doc Document, section, key Identifier) (string, bool) {
	vs := GetAll(opts, doc, section, key)
	if len(vs) < 1 {
		return "", false
	}

	return vs[0], true
}

// GetAll returns the values of all properties matching key in sections
// matching section, in document order.
func GetAll(opts Options, doc Document, section, key Identifier) []string {
	var vs []string
	for _, s := range Select(opts, SelectProperty{Section: section, Key: key}, doc) {
		for _, item := range s.Items {
			if prop, ok := item.(Property); ok {
				vs = append(vs, prop.Value)
			}
		}
	}

	return vs
}
