// Command iniedit selects, edits and merges INI files while keeping their
// layout.
//
// Usage:
//
//	iniedit [-f FILE] [-i] [-g] [-w] [-d] COMMAND [ARGS...]
//
// Examples:
//
//	iniedit -f app.ini get server port
//	iniedit -f app.ini -w set server port 8080
//	iniedit -f app.ini -d merge local.ini
//	iniedit -f app.ini exists server || echo "no server section"
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

const (
	exitFalse = 1
	exitError = 2
)

func main() {
	app := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		os.Exit(handleError(os.Stderr, err))
	}
}

// handleError prints err (unless it is a silent exit) and returns the exit
// code for it.
func handleError(w io.Writer, err error) int {
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(w, msg) //nolint:errcheck
		}

		return ec.ExitCode()
	}

	red := color.New(color.FgRed)
	if !isTerminal(w) {
		red.DisableColor()
	}
	fmt.Fprintln(w, red.Sprint("Error: ")+err.Error()) //nolint:errcheck

	return exitError
}
