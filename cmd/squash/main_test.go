package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the command tree with args and stdin, returning stdout,
// stderr and the command error.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"minify", "watch"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
}

func TestMinifyStdin(t *testing.T) {
	stdout, _, err := run(t, "if (a) { b(); }", "minify")
	require.NoError(t, err)
	assert.Equal(t, "a&&b();", stdout)
}

func TestMinifyFlags(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		input string
		want  string
	}{
		{"booleans by default", nil, "x = true;", "x=!0;"},
		{"no booleans", []string{"--no-booleans"}, "x = true;", "x=true;"},
		{"drop console", []string{"--drop-console"}, "console.log(1); f();", "f();"},
		{"keep debugger", []string{"--drop-debugger=false"}, "debugger;", "debugger;"},
		{"dead code only", []string{"--dce"}, "if (a) b();", "if(a)b();"},
		{"es5 keeps functions", []string{"--target", "es5"}, "g(function () { return 1; });", "g(function(){return 1});"},
		{"esnext arrows", nil, "g(function () { return 1; });", "g(()=>1);"},
		{"newline", []string{"--newline"}, "x = 1;", "x=1;\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := run(t, tt.input, append([]string{"minify"}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stdout)
		})
	}
}

func TestMinifyConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "squash.yaml", "compress:\n  booleans: false\n  drop_console: true\n")

	stdout, _, err := run(t, "console.log(1); x = true;", "minify", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "x=true;", stdout)

	stdout, _, err = run(t, "x = true;", "minify", "--config", cfg, "--no-booleans=false")
	require.NoError(t, err)
	assert.Equal(t, "x=!0;", stdout, "flags override the file")
}

func TestMinifyFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.js", "x = 1 + 2;")
	b := writeFile(t, dir, "b.js", "var a = 1; var b = 2;")
	out := filepath.Join(dir, "dist")

	_, _, err := run(t, "", "minify", "--out-dir", out, a, b)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(out, "a.min.js"))
	require.NoError(t, err)
	assert.Equal(t, "x=3;", string(data))
	data, err = os.ReadFile(filepath.Join(out, "b.min.js"))
	require.NoError(t, err)
	assert.Equal(t, "var a=1,b=2;", string(data))

	stdout, _, err := run(t, "", "minify", a, b)
	require.NoError(t, err)
	assert.Equal(t, "x=3;\nvar a=1,b=2;\n", stdout)

	single := filepath.Join(dir, "single.js")
	_, _, err = run(t, "", "minify", "-o", single, a)
	require.NoError(t, err)
	data, err = os.ReadFile(single)
	require.NoError(t, err)
	assert.Equal(t, "x=3;", string(data))
}

func TestExitCodes(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.js", "x = 1;")
	bad := writeFile(t, dir, "bad.js", "var = ;")

	tests := []struct {
		name  string
		stdin string
		args  []string
		code  int
	}{
		{"success", "", []string{"minify", good}, ExitSuccess},
		{"syntax error in file", "", []string{"minify", good, bad}, ExitFailure},
		{"syntax error on stdin", "if (", []string{"minify"}, ExitFailure},
		{"missing file", "", []string{"minify", filepath.Join(dir, "nope.js")}, ExitFailure},
		{"unknown flag", "", []string{"minify", "--frobnicate"}, ExitCommandError},
		{"bad target", "", []string{"minify", "--target", "es3", good}, ExitCommandError},
		{"missing config", "", []string{"minify", "--config", filepath.Join(dir, "none.yaml"), good}, ExitCommandError},
		{"-o with several inputs", "", []string{"minify", "-o", "out.js", good, good}, ExitCommandError},
		{"watch without output", "", []string{"watch", good}, ExitCommandError},
		{"watch without input", "", []string{"watch"}, ExitCommandError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.stdin, tt.args...)
			assert.Equal(t, tt.code, GetExitCode(err), "err: %v", err)
		})
	}
}

func TestSyntaxErrorsAreDisplayed(t *testing.T) {
	_, stderr, err := run(t, "x = ;", "minify")
	require.Error(t, err)
	assert.Contains(t, stderr, "Syntax")
	assert.Contains(t, err.Error(), "1 syntax error(s)")
}

func TestExitError(t *testing.T) {
	cause := errors.New("boom")
	err := WrapExitError(ExitCommandError, "cannot load config", cause)
	assert.Equal(t, "cannot load config: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "plain", NewExitError(ExitFailure, "plain").Error())
	assert.Equal(t, ExitFailure, GetExitCode(cause))
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
}

func TestWatchLoop(t *testing.T) {
	events := make(chan fsnotify.Event)
	errs := make(chan error)
	rebuilt := make(chan struct{}, 4)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- watchLoop(ctx, events, errs, "src/app.js", func() { rebuilt <- struct{}{} }, slog.New(slog.DiscardHandler))
	}()

	events <- fsnotify.Event{Name: "src/other.js", Op: fsnotify.Write}
	events <- fsnotify.Event{Name: "src/app.js", Op: fsnotify.Chmod}
	errs <- errors.New("overflow")
	events <- fsnotify.Event{Name: "src/app.js", Op: fsnotify.Write}
	events <- fsnotify.Event{Name: "src/./app.js", Op: fsnotify.Create}
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch loop did not stop after cancel")
	}
	assert.Len(t, rebuilt, 2)
}

func TestWatchLoopStopsWhenWatcherCloses(t *testing.T) {
	events := make(chan fsnotify.Event)
	close(events)
	err := watchLoop(context.Background(), events, make(chan error), "a.js", func() {}, slog.New(slog.DiscardHandler))
	assert.NoError(t, err)
}
