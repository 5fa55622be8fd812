package iniedit

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gopasspw/gopass/pkg/debug"
)

// LoadFile reads and parses the INI file at fn.
func LoadFile(fn string) (Document, error) {
	fh, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer fh.Close() //nolint:errcheck

	doc, err := ParseReader(fh)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", fn, err)
	}

	debug.V(2).Log("loaded %s with %d sections", fn, len(doc))

	return doc, nil
}

// WriteFile renders doc and writes it to fn, creating missing parent
// directories. An existing file keeps its permissions, new files are created
// with 0o600.
func WriteFile(fn string, doc Document) error {
	if err := os.MkdirAll(filepath.Dir(fn), 0o700); err != nil {
		return fmt.Errorf("%w %q for %q: %w", ErrCreateDir, filepath.Dir(fn), fn, err)
	}

	var mode fs.FileMode = 0o600
	if fi, err := os.Stat(fn); err == nil {
		mode = fi.Mode().Perm()
	}

	out := doc.String()
	debug.V(3).Log("writing %s: \n--------------\n%s\n--------------", fn, out)

	if err := os.WriteFile(fn, []byte(out), mode); err != nil {
		return fmt.Errorf("%w %s: %w", ErrWriteFile, fn, err)
	}

	debug.V(1).Log("wrote %s", fn)

	return nil
}
