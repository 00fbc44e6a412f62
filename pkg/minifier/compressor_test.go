package minifier

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nooga/squash/pkg/codegen"
	"github.com/nooga/squash/pkg/traverse"
)

func compress(t *testing.T, opts CompressOptions, src string) string {
	t.Helper()
	program := parse(t, src)
	c := NewCompressor(opts, WithLogger(quietLogger()))
	require.NoError(t, c.Build(program, traverse.NewReusableCtx()))
	return codegen.Print(program)
}

func TestCompressorPipeline(t *testing.T) {
	defaults := DefaultCompressOptions()
	noBooleans := DefaultCompressOptions()
	noBooleans.Booleans = false

	tests := []struct {
		name  string
		opts  CompressOptions
		input string
		want  string
	}{
		{"dead branch", defaults, "if (true) { x = 1; } else { x = 2; }", "x=1;"},
		{"final booleans", defaults, "x = true;", "x=!0;"},
		{"booleans disabled", noBooleans, "x = true;", "x=true;"},
		{"final typeof", defaults, `x = typeof y == "undefined";`, `x=typeof y>"u";`},
		{"debugger dropped", defaults, "f(); debugger;", "f();"},
		{"console kept by default", defaults, "console.log(1);", "console.log(1);"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, compress(t, tt.opts, tt.input))
		})
	}
}

func TestCompressorNormalizesWhile(t *testing.T) {
	out := compress(t, DefaultCompressOptions(), "while (x) f();")
	assert.Equal(t, "for(;x;)f();", out)
}

func TestCompressorDropSyntax(t *testing.T) {
	opts := DefaultCompressOptions()
	opts.DropConsole = true
	opts.DeadCodeOnly = true

	assert.Equal(t, "f();", compress(t, opts, "console.log(1); f(); debugger;"))
	assert.Equal(t,
		"function g(console){console.log(1)}",
		compress(t, opts, "function g(console) { console.log(1); }"))

	opts.DropDebugger = false
	assert.Equal(t, "debugger;", compress(t, opts, "debugger;"))
}

func TestCompressorDeadCodeOnly(t *testing.T) {
	opts := DefaultCompressOptions()
	opts.DeadCodeOnly = true

	assert.Equal(t, "x=3;", compress(t, opts, "x = 1 + 2; if (false) y();"))
	assert.Equal(t, "while(x)f();", compress(t, opts, "while (x) f();"))
	assert.Equal(t, "a&&b();", compress(t, DefaultCompressOptions(), "if (a) b();"))
	assert.Equal(t, "if(a)b();", compress(t, opts, "if (a) b();"))
}

func TestCompressorConvergence(t *testing.T) {
	t.Run("lenient", func(t *testing.T) {
		var buf bytes.Buffer
		c := NewCompressor(DefaultCompressOptions(), WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
		c.loop = &PeepholeOptimizations{pm: toggleManager()}

		program := parse(t, "a;")
		require.NoError(t, c.Build(program, traverse.NewReusableCtx()))
		assert.Equal(t, "a;", codegen.Print(program))
		assert.Contains(t, buf.String(), "did not converge")
		assert.Contains(t, buf.String(), "iterations=10")
	})

	t.Run("strict", func(t *testing.T) {
		opts := DefaultCompressOptions()
		opts.StrictConvergence = true
		c := NewCompressor(opts, WithLogger(quietLogger()))
		c.loop = &PeepholeOptimizations{pm: toggleManager()}

		err := c.Build(parse(t, "a;"), traverse.NewReusableCtx())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrConvergenceExceeded))
		assert.Contains(t, err.Error(), "compress: ")
	})
}

func TestRemoveUnusedCode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"unused let", "function f() { let a = 1; return 2; }", "function f(){return 2}"},
		{"impure initializer kept", "function f() { const b = g(); return 2; }", "function f(){const b=g();return 2}"},
		{"partial declaration", "function f() { let a = 1, b = g(); }", "function f(){let b=g()}"},
		{"inner function", "function f() { function h() {} return 1; }", "function f(){return 1}"},
		{"chain of unused", "function f() { let a = 1; let b = a; }", "function f(){}"},
		{"used binding kept", "function f() { let a = 1; return a; }", "function f(){let a=1;return a}"},
		{"closure reference kept", "function f() { let a = 1; return () => a; }", "function f(){let a=1;return()=>a}"},
		{"recursive function kept", "function f() { function h() { h(); } }", "function f(){function h(){h()}}"},
		{"var kept", "function f() { var a = 1; }", "function f(){var a=1}"},
		{"program bindings kept", "let a = 1; function h() {}", "let a=1;function h(){}"},
		{"eval disables removal", "function f() { let a = 1; eval(s); }", "function f(){let a=1;eval(s)}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program := parse(t, tt.input)
			traverse.Walk(program, &removeUnusedCode{}, traverse.NewReusableCtx())
			assert.Equal(t, tt.want, codegen.Print(program))
		})
	}
}

func TestCompressorRemovesUnused(t *testing.T) {
	const src = "function f() { const unused = 1; return 2; }"
	assert.Equal(t, "function f(){return 2}", compress(t, DefaultCompressOptions(), src))

	opts := DefaultCompressOptions()
	opts.Unused = false
	assert.Equal(t, "function f(){const unused=1;return 2}", compress(t, opts, src))
}
