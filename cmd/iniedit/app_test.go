package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const testInput = `; app
name=demo

[server]
host = localhost
port=8080

[Log]
level=debug
`

// run runs the app in-process without reading any settings and returns
// stdout, stderr and the exit code.
func run(t *testing.T, stdin string, args ...string) (string, string, int) {
	t.Helper()

	var out, errOut bytes.Buffer
	app := newApp(strings.NewReader(stdin), &out, &errOut)

	code := 0
	if err := app.Run(append([]string{"iniedit", "--no-settings"}, args...)); err != nil {
		code = handleError(&errOut, err)
	}

	return out.String(), errOut.String(), code
}

func TestCommands(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "fmt",
			args: []string{"fmt"},
			want: "; app\nname=demo\n\n[server]\nhost=localhost\nport=8080\n\n[Log]\nlevel=debug\n",
		},
		{
			name: "get section",
			args: []string{"get", "server"},
			want: "[server]\nhost=localhost\nport=8080\n\n",
		},
		{
			name: "get property",
			args: []string{"get", "server", "port"},
			want: "[server]\nport=8080\n",
		},
		{
			name: "get is case sensitive",
			args: []string{"get", "log"},
		},
		{
			name: "get ignore case",
			args: []string{"-i", "get", "log"},
			want: "[Log]\nlevel=debug\n",
		},
		{
			name: "get wildcard section",
			args: []string{"get", "*", "port"},
			want: "[server]\nport=8080\n[Log]\n",
		},
		{
			name: "get glob",
			args: []string{"-g", "get", "s*", "port"},
			want: "[server]\nport=8080\n",
		},
		{
			name: "get top level",
			args: []string{"get", "", "name"},
			want: "name=demo\n",
		},
		{
			name: "rm property",
			args: []string{"rm", "server", "port"},
			want: "; app\nname=demo\n\n[server]\nhost=localhost\n\n[Log]\nlevel=debug\n",
		},
		{
			name: "remove section",
			args: []string{"remove", "Log"},
			want: "; app\nname=demo\n\n[server]\nhost=localhost\nport=8080\n\n",
		},
		{
			name: "set existing",
			args: []string{"set", "server", "port", "9090"},
			want: "; app\nname=demo\n\n[server]\nhost=localhost\nport=9090\n\n[Log]\nlevel=debug\n",
		},
		{
			name: "set new section",
			args: []string{"set", "cache", "size", "10"},
			want: "; app\nname=demo\n\n[server]\nhost=localhost\nport=8080\n\n[Log]\nlevel=debug\n[cache]\nsize=10\n",
		},
		{
			name: "update",
			args: []string{"-i", "update", "*", "LEVEL", "info"},
			want: "; app\nname=demo\n\n[server]\nhost=localhost\nport=8080\n\n[Log]\nlevel=info\n",
		},
		{
			name: "update without match",
			args: []string{"update", "server", "missing", "x"},
			want: "; app\nname=demo\n\n[server]\nhost=localhost\nport=8080\n\n[Log]\nlevel=debug\n",
		},
		{
			name: "settings without settings",
			args: []string{"settings"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			out, errOut, code := run(t, testInput, tc.args...)
			assert.Equal(t, 0, code, errOut)
			assert.Empty(t, errOut)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestExists(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		args []string
		want int
	}{
		{args: []string{"exists", "server"}, want: 0},
		{args: []string{"exists", "server", "port"}, want: 0},
		{args: []string{"exists", "*", "level"}, want: 0},
		{args: []string{"exists", ""}, want: 0},
		{args: []string{"exists", "missing"}, want: exitFalse},
		{args: []string{"exists", "server", "missing"}, want: exitFalse},
		{args: []string{"exists", "log"}, want: exitFalse},
		{args: []string{"-i", "exists", "log"}, want: 0},
	}

	for _, tc := range testCases {
		t.Run(strings.Join(tc.args, " "), func(t *testing.T) {
			t.Parallel()

			out, errOut, code := run(t, testInput, tc.args...)
			assert.Equal(t, tc.want, code)
			assert.Empty(t, out)
			assert.Empty(t, errOut)
		})
	}
}

func TestErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		input string
		args  []string
		want  string
	}{
		{
			name:  "missing arguments",
			input: testInput,
			args:  []string{"get"},
			want:  "usage: iniedit get SECTION [KEY]",
		},
		{
			name:  "too many arguments",
			input: testInput,
			args:  []string{"exists", "a", "b", "c"},
			want:  "usage: iniedit exists SECTION [KEY]",
		},
		{
			name:  "set needs a value",
			input: testInput,
			args:  []string{"set", "server", "port"},
			want:  "usage: iniedit set SECTION KEY VALUE",
		},
		{
			name:  "set wildcard",
			input: testInput,
			args:  []string{"set", "*", "port", "1"},
			want:  "Error: invalid key: [*] port",
		},
		{
			name:  "invalid input",
			input: "[ok]\n[]\n",
			args:  []string{"fmt"},
			want:  "Error: failed to parse -: line 2: empty section name",
		},
		{
			name:  "invalid line",
			input: "[ok]\nbroken\n",
			args:  []string{"get", "ok"},
			want:  `Error: failed to parse -: line 2: invalid line: "broken"`,
		},
		{
			name:  "invalid pattern",
			input: testInput,
			args:  []string{"-g", "get", "[server"},
			want:  "Error: invalid pattern",
		},
		{
			name:  "invalid color",
			input: testInput,
			args:  []string{"--color=purple", "fmt"},
			want:  `invalid color mode "purple"`,
		},
		{
			name:  "missing file",
			input: testInput,
			args:  []string{"--file", filepath.Join(os.TempDir(), "iniedit-does-not-exist.ini"), "fmt"},
			want:  "Error: failed to read",
		},
		{
			name:  "missing merge source",
			input: testInput,
			args:  []string{"merge", filepath.Join(os.TempDir(), "iniedit-does-not-exist.ini")},
			want:  "Error: open",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			out, errOut, code := run(t, tc.input, tc.args...)
			assert.Equal(t, exitError, code)
			assert.Empty(t, out)
			assert.Contains(t, errOut, tc.want)
		})
	}
}

func TestInPlace(t *testing.T) {
	t.Parallel()

	fn := filepath.Join(t.TempDir(), "app.ini")
	require.NoError(t, os.WriteFile(fn, []byte(testInput), 0o644))

	out, errOut, code := run(t, "", "-f", fn, "-w", "set", "server", "port", "9090")
	require.Equal(t, 0, code, errOut)
	assert.Empty(t, out)

	buf, err := os.ReadFile(fn)
	require.NoError(t, err)
	assert.Equal(t, "; app\nname=demo\n\n[server]\nhost=localhost\nport=9090\n\n[Log]\nlevel=debug\n", string(buf))

	fi, err := os.Stat(fn)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), fi.Mode().Perm())

	// without a file the result is printed
	out, _, code = run(t, "[a]\nk=v\n", "-w", "rm", "a", "k")
	require.Equal(t, 0, code)
	assert.Empty(t, out)

	out, _, code = run(t, "[a]\nk=v\nx=y\n", "-w", "rm", "a", "k")
	require.Equal(t, 0, code)
	assert.Equal(t, "[a]\nx=y\n", out)
}

func TestMergeCommand(t *testing.T) {
	t.Parallel()

	from := filepath.Join(t.TempDir(), "local.ini")
	require.NoError(t, os.WriteFile(from, []byte("[server]\nport=9999\ntimeout=5\n[cache]\nsize=10\n"), 0o600))

	out, errOut, code := run(t, testInput, "merge", from)
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "; app\nname=demo\n\n[server]\nhost=localhost\nport=9999\ntimeout=5\n\n[Log]\nlevel=debug\n[cache]\nsize=10\n", out)
}

func TestDiff(t *testing.T) {
	t.Parallel()

	in := "[server]\nhost=localhost\nport=8080\n"

	out, errOut, code := run(t, in, "-d", "--color=never", "set", "server", "port", "9090")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "  [server]\n  host=localhost\n- port=8080\n+ port=9090\n", out)

	out, _, code = run(t, in, "-d", "fmt")
	require.Equal(t, 0, code)
	assert.Empty(t, out, "no changes, no diff")

	out, _, code = run(t, in, "-d", "--color=always", "update", "server", "port", "1")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "port=1")
}

func TestLineDiff(t *testing.T) {
	t.Parallel()

	plain := color.New()
	plain.DisableColor()

	assert.Empty(t, lineDiff("a\n", "a\n", plain, plain))
	assert.Equal(t, "+ a\n", lineDiff("", "a\n", plain, plain))
	assert.Equal(t, "- a\n", lineDiff("a\n", "", plain, plain))
	assert.Equal(t, "  a\n- b\n  c\n+ d\n", lineDiff("a\nb\nc\n", "a\nc\nd\n", plain, plain))
}

func TestHandleError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.Equal(t, exitFalse, handleError(&buf, cli.Exit("", exitFalse)))
	assert.Empty(t, buf.String())

	buf.Reset()
	assert.Equal(t, exitError, handleError(&buf, cli.Exit("usage", exitError)))
	assert.Equal(t, "usage\n", buf.String())

	buf.Reset()
	assert.Equal(t, exitError, handleError(&buf, errors.New("boom")))
	assert.Equal(t, "Error: boom\n", buf.String())
}
