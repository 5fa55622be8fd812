package iniedit

import (
	"strings"

	"github.com/gobwas/glob"
)

// globMetaChars are the characters that turn a selector into a glob pattern.
const globMetaChars = "*?[{"

// globMatch reports whether s matches the glob pattern. Patterns are compiled
// without separators, so "*" also matches dots in names like "core.editor".
func globMatch(pattern, s string) (bool, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return false, err
	}

	return g.Match(s), nil
}

// trimLine removes the blanks an INI line may be indented or padded with.
// Unlike strings.TrimSpace it leaves other whitespace (e.g. \v, \r) alone.
func trimLine(s string) string {
	return strings.Trim(s, " \t")
}

// splitKey splits a "section.key" string at the last dot. Section names
// may contain dots themselves, keys may not. A key without any dot belongs
// to the top-level section.
//
// Valid examples:
// - core.color
// - remote.origin.url -> section: remote.origin, key: url.
func splitKey(key string) (section, name string) { //nolint:nonamedreturns
	n := strings.LastIndex(key, ".")
	if n < 0 {
		return "", key
	}

	return key[:n], key[n+1:]
}

// joinKey is the inverse of splitKey.
func joinKey(section, name string) string {
	if section == "" {
		return name
	}

	return section + "." + name
}
