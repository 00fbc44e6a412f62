package driver

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nooga/squash/pkg/source"
)

func testOptions() Options {
	opts := DefaultOptions()
	opts.Logger = slog.New(slog.DiscardHandler)
	return opts
}

func TestMinifyGolden(t *testing.T) {
	fixtures, err := filepath.Glob("testdata/fixtures/*.js")
	require.NoError(t, err)
	require.NotEmpty(t, fixtures)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	for _, path := range fixtures {
		name := strings.TrimSuffix(filepath.Base(path), ".js")
		t.Run(name, func(t *testing.T) {
			src, err := source.ReadFile(path)
			require.NoError(t, err)
			out, errs, err := Minify(src, testOptions())
			require.NoError(t, err)
			require.Empty(t, errs)
			g.Assert(t, name, []byte(out))
		})
	}
}

func TestMinifyString(t *testing.T) {
	out, errs, err := MinifyString("if (a) { b(); }", testOptions())
	require.NoError(t, err)
	require.Empty(t, errs)
	assert.Equal(t, "a&&b();", out)

	opts := testOptions()
	opts.TrailingNewline = true
	out, _, err = MinifyString("x = 1;", opts)
	require.NoError(t, err)
	assert.Equal(t, "x=1;\n", out)
}

func TestMinifySyntaxError(t *testing.T) {
	out, errs, err := MinifyString("var = 1;", testOptions())
	require.NoError(t, err)
	require.NotEmpty(t, errs)
	assert.Empty(t, out)
	assert.Equal(t, "Syntax", errs[0].Kind())
	assert.Equal(t, 1, errs[0].Pos().Line)
}

func TestMinifyFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}
	paths := []string{
		write("a.js", "x = 1 + 2;"),
		write("b.js", "if (false) { f(); }\ng();"),
		write("broken.js", "function ("),
		filepath.Join(dir, "missing.js"),
		write("c.js", `y = "ab".length;`),
	}

	opts := testOptions()
	opts.Jobs = 2
	results, err := MinifyFiles(context.Background(), paths, opts)
	require.NoError(t, err)
	require.Len(t, results, len(paths))

	for i, res := range results {
		assert.Equal(t, paths[i], res.Path, "results keep input order")
	}
	assert.Equal(t, "x=3;", results[0].Output)
	assert.Equal(t, "g();", results[1].Output)
	assert.True(t, results[2].Failed())
	assert.NotEmpty(t, results[2].Errors)
	assert.True(t, results[3].Failed())
	assert.ErrorIs(t, results[3].Err, os.ErrNotExist)
	assert.Equal(t, "y=2;", results[4].Output)
}

func TestMinifyFilesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := MinifyFiles(ctx, []string{"a.js", "b.js"}, testOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMinifyFilesEmpty(t *testing.T) {
	results, err := MinifyFiles(context.Background(), nil, testOptions())
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("dist", "app.min.js"), OutputPath("src/app.js", "dist", ".min"))
	assert.Equal(t, filepath.Join("out", "lib.js"), OutputPath("lib.js", "out", ""))
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.js")
	out := filepath.Join(dir, "out.js")
	require.NoError(t, os.WriteFile(in, []byte("var a = 1; var b = 2;"), 0o644))

	errs, err := WriteFile(in, out, testOptions())
	require.NoError(t, err)
	require.Empty(t, errs)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "var a=1,b=2;", string(data))

	bad := filepath.Join(dir, "bad.js")
	require.NoError(t, os.WriteFile(bad, []byte("if ("), 0o644))
	errs, err = WriteFile(bad, filepath.Join(dir, "bad.min.js"), testOptions())
	require.NoError(t, err)
	assert.NotEmpty(t, errs)
	assert.NoFileExists(t, filepath.Join(dir, "bad.min.js"))
}
