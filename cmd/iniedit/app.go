package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/gopasspw/gopass/pkg/debug"
	"github.com/gopasspw/iniedit"
	"github.com/urfave/cli/v2"
)

const stdinFile = "-"

// runner holds the state shared by all commands of one invocation.
type runner struct {
	settings *iniedit.Settings
	added    *color.Color
	removed  *color.Color
}

func newApp(in io.Reader, out, errOut io.Writer) *cli.App {
	r := &runner{
		settings: iniedit.NewSettings(),
		added:    color.New(color.FgGreen),
		removed:  color.New(color.FgRed),
	}

	return &cli.App{
		Name:            "iniedit",
		Usage:           "Select, edit and merge INI files while keeping their layout",
		Reader:          in,
		Writer:          out,
		ErrWriter:       errOut,
		HideHelpCommand: true,
		// exit codes are mapped in main so tests can run the app in-process.
		ExitErrHandler: func(*cli.Context, error) {},
		Before:         r.before,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Value:   stdinFile,
				Usage:   "INI file to read (- for stdin)",
			},
			&cli.BoolFlag{
				Name:    "ignore-case",
				Aliases: []string{"i"},
				Usage:   "Compare section and key names case-insensitively",
			},
			&cli.BoolFlag{
				Name:    "glob",
				Aliases: []string{"g"},
				Usage:   "Treat section and key arguments as glob patterns",
			},
			&cli.BoolFlag{
				Name:    "in-place",
				Aliases: []string{"w"},
				Usage:   "Write the result back to --file instead of printing it",
			},
			&cli.BoolFlag{
				Name:    "diff",
				Aliases: []string{"d"},
				Usage:   "Print a diff of the changes instead of the result",
			},
			&cli.StringFlag{
				Name:  "color",
				Usage: "Colorize output: auto, always or never",
			},
			&cli.BoolFlag{
				Name:  "no-settings",
				Usage: "Do not read settings files",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "fmt",
				Usage:  "Print the normalized file",
				Action: r.format,
			},
			{
				Name:      "get",
				Usage:     "Print a section or a property",
				ArgsUsage: "SECTION [KEY]",
				Action:    r.get,
			},
			{
				Name:      "exists",
				Usage:     "Exit with 0 if the section or property exists, 1 otherwise",
				ArgsUsage: "SECTION [KEY]",
				Action:    r.exists,
			},
			{
				Name:      "rm",
				Aliases:   []string{"remove"},
				Usage:     "Remove a section or a property",
				ArgsUsage: "SECTION [KEY]",
				Action:    r.remove,
			},
			{
				Name:      "set",
				Usage:     "Set a property, adding it if it does not exist",
				ArgsUsage: "SECTION KEY VALUE",
				Action:    r.set,
			},
			{
				Name:      "update",
				Usage:     "Replace the value of all matching properties",
				ArgsUsage: "SECTION KEY VALUE",
				Action:    r.update,
			},
			{
				Name:      "merge",
				Usage:     "Merge the values of FROM into the file",
				ArgsUsage: "FROM",
				Action:    r.merge,
			},
			{
				Name:   "settings",
				Usage:  "Print the effective settings",
				Action: r.printSettings,
			},
		},
	}
}

func (r *runner) before(c *cli.Context) error {
	if !c.Bool("no-settings") {
		wd, err := os.Getwd()
		if err != nil {
			debug.V(1).Log("failed to get working directory: %s", err)
		}
		r.settings.LoadAll(wd)
	}

	mode := r.settings.Color()
	if c.IsSet("color") {
		mode = c.String("color")
	}

	switch mode {
	case "always":
		r.added.EnableColor()
		r.removed.EnableColor()
	case "never":
		r.added.DisableColor()
		r.removed.DisableColor()
	case "auto":
		if isTerminal(c.App.Writer) {
			r.added.EnableColor()
			r.removed.EnableColor()
		} else {
			r.added.DisableColor()
			r.removed.DisableColor()
		}
	default:
		return cli.Exit(fmt.Sprintf("invalid color mode %q", mode), exitError)
	}

	return nil
}

func (r *runner) options(c *cli.Context) iniedit.Options {
	opts := r.settings.Options()
	if c.IsSet("ignore-case") {
		opts.IgnoreCase = c.Bool("ignore-case")
	}

	return opts
}

// selector parses a section or key argument.
func (r *runner) selector(c *cli.Context, s string) (iniedit.Identifier, error) {
	glob := r.settings.Glob()
	if c.IsSet("glob") {
		glob = c.Bool("glob")
	}
	if !glob {
		return iniedit.ParseSelector(s), nil
	}

	return iniedit.ParsePattern(s)
}

// selectors parses the SECTION [KEY] arguments. key is nil if no KEY was
// given.
func (r *runner) selectors(c *cli.Context) (section iniedit.Identifier, key *iniedit.Identifier, err error) { //nolint:nonamedreturns
	if c.NArg() < 1 || c.NArg() > 2 {
		return section, nil, usageError(c)
	}

	section, err = r.selector(c, c.Args().Get(0))
	if err != nil {
		return section, nil, err
	}
	if c.NArg() == 1 {
		return section, nil, nil
	}

	k, err := r.selector(c, c.Args().Get(1))
	if err != nil {
		return section, nil, err
	}

	return section, &k, nil
}

func usageError(c *cli.Context) error {
	return cli.Exit(fmt.Sprintf("usage: %s %s %s", c.App.Name, c.Command.Name, c.Command.ArgsUsage), exitError)
}

// load reads the input document and returns it along with the raw text.
func (r *runner) load(c *cli.Context) (string, iniedit.Document, error) {
	var raw []byte
	var err error

	fn := c.String("file")
	if fn == stdinFile {
		raw, err = io.ReadAll(c.App.Reader)
	} else {
		raw, err = os.ReadFile(fn)
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to read %s: %w", fn, err)
	}

	doc, err := iniedit.ParseString(string(raw))
	if err != nil {
		return "", nil, fmt.Errorf("failed to parse %s: %w", fn, err)
	}

	return string(raw), doc, nil
}

// emit prints, diffs or writes back the edited document.
func (r *runner) emit(c *cli.Context, before string, doc iniedit.Document) error {
	after := doc.String()

	if c.Bool("diff") {
		_, err := io.WriteString(c.App.Writer, lineDiff(before, after, r.added, r.removed))

		return err
	}

	if fn := c.String("file"); c.Bool("in-place") && fn != stdinFile {
		return iniedit.WriteFile(fn, doc)
	}

	_, err := io.WriteString(c.App.Writer, after)

	return err
}

func (r *runner) format(c *cli.Context) error {
	raw, doc, err := r.load(c)
	if err != nil {
		return err
	}

	return r.emit(c, raw, doc)
}

func (r *runner) get(c *cli.Context) error {
	section, key, err := r.selectors(c)
	if err != nil {
		return err
	}
	_, doc, err := r.load(c)
	if err != nil {
		return err
	}

	var op iniedit.Operation = iniedit.SelectSection{Section: section}
	if key != nil {
		op = iniedit.SelectProperty{Section: section, Key: *key}
	}

	_, err = io.WriteString(c.App.Writer, iniedit.Apply(r.options(c), op, doc).String())

	return err
}

func (r *runner) exists(c *cli.Context) error {
	section, key, err := r.selectors(c)
	if err != nil {
		return err
	}
	_, doc, err := r.load(c)
	if err != nil {
		return err
	}

	found := iniedit.SectionExists(r.options(c), section, doc)
	if key != nil {
		found = iniedit.PropertyExists(r.options(c), section, *key, doc)
	}
	if !found {
		return cli.Exit("", exitFalse)
	}

	return nil
}

func (r *runner) remove(c *cli.Context) error {
	section, key, err := r.selectors(c)
	if err != nil {
		return err
	}
	raw, doc, err := r.load(c)
	if err != nil {
		return err
	}

	var op iniedit.Operation = iniedit.RemoveSection{Section: section}
	if key != nil {
		op = iniedit.RemoveProperty{Section: section, Key: *key}
	}

	return r.emit(c, raw, iniedit.Apply(r.options(c), op, doc))
}

func (r *runner) set(c *cli.Context) error {
	if c.NArg() != 3 {
		return usageError(c)
	}
	raw, doc, err := r.load(c)
	if err != nil {
		return err
	}

	section, err := r.selector(c, c.Args().Get(0))
	if err != nil {
		return err
	}
	key, err := r.selector(c, c.Args().Get(1))
	if err != nil {
		return err
	}

	doc, err = iniedit.Set(r.options(c), doc, section, key, c.Args().Get(2))
	if err != nil {
		return err
	}

	return r.emit(c, raw, doc)
}

func (r *runner) update(c *cli.Context) error {
	if c.NArg() != 3 {
		return usageError(c)
	}
	raw, doc, err := r.load(c)
	if err != nil {
		return err
	}

	section, err := r.selector(c, c.Args().Get(0))
	if err != nil {
		return err
	}
	key, err := r.selector(c, c.Args().Get(1))
	if err != nil {
		return err
	}

	op := iniedit.UpdateProperty{Section: section, Key: key, Value: c.Args().Get(2)}

	return r.emit(c, raw, iniedit.Apply(r.options(c), op, doc))
}

func (r *runner) merge(c *cli.Context) error {
	if c.NArg() != 1 {
		return usageError(c)
	}
	raw, doc, err := r.load(c)
	if err != nil {
		return err
	}

	from, err := iniedit.LoadFile(c.Args().Get(0))
	if err != nil {
		return err
	}

	return r.emit(c, raw, iniedit.Merge(r.options(c), from, doc))
}

func (r *runner) printSettings(c *cli.Context) error {
	for _, kv := range r.settings.KVList(" = ") {
		if _, err := fmt.Fprintln(c.App.Writer, kv); err != nil {
			return err
		}
	}

	return nil
}
