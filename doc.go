// Package iniedit implements a layout preserving editor for INI files. It
// parses INI text into an ordered document model, selects, removes and
// updates sections and properties by name, merges documents and renders the
// result back to text. Comments, blank lines and the order of sections and
// properties survive every operation.
//
// The format is deliberately simple: every line is either blank, a comment
// (starting with ';' or '#'), a section header ("[name]") or a property
// ("key=value", split at the first '='). Values are opaque strings. There are
// no multi-line values, no nested sections, no includes and no typed values.
//
// # Usage
//
// Parse a document, run an operation and render the result:
//
//	doc, err := iniedit.ParseString("[core]\neditor = vim\n")
//	if err != nil { ... }
//	doc = iniedit.Apply(iniedit.Options{}, iniedit.UpdateProperty{
//		Section: iniedit.ParseSelector("core"),
//		Key:     iniedit.ParseSelector("editor"),
//		Value:   "nano",
//	}, doc)
//	fmt.Print(doc) // [core]\neditor=nano\n
//
// ## Selectors
//
// Section and key names given by a user are parsed with ParseSelector. The
// selector "*" matches any name. ParsePattern additionally accepts glob
// patterns like "remote.*". Names read from a document are always literal.
//
// With Options.IgnoreCase names are compared case-insensitively. The
// spelling found in the document is kept when values are replaced.
//
// ## Merging
//
// Merge(opts, from, to) updates to with the values from from. Existing
// properties keep their position, new properties are added at the end of
// their section (before any trailing blank lines) and new sections are
// appended.
//
//	base, _ := iniedit.LoadFile("app.ini")
//	override, _ := iniedit.LoadFile("local.ini")
//	merged := iniedit.Merge(iniedit.Options{}, override, base)
//	err := iniedit.WriteFile("app.ini", merged)
//
// ## Error Handling
//
// Parsing fails on the first malformed line with a *ParseError. Use
// errors.Is to tell the failure categories apart:
//
//	if _, err := iniedit.ParseString("[]"); err != nil {
//		if errors.Is(err, iniedit.ErrEmptySectionName) {
//			// handle "[]"
//		}
//	}
//
// All other functions in this package never fail on parsed documents.
//
// # Concurrency
//
// Documents are values and no function modifies its inputs, so documents can
// be read and transformed from multiple goroutines at once.
//
// # Settings
//
// The iniedit command reads its defaults (case folding, glob selectors,
// colors) from INI files in the system, user and working directory scopes.
// See Settings.
package iniedit
