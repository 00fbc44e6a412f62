// Package driver wires the lexer, parser, compressor and printer into a
// source-to-source minifier.
package driver

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/nooga/squash/pkg/ast"
	"github.com/nooga/squash/pkg/codegen"
	"github.com/nooga/squash/pkg/errors"
	"github.com/nooga/squash/pkg/minifier"
	"github.com/nooga/squash/pkg/parser"
	"github.com/nooga/squash/pkg/source"
	"github.com/nooga/squash/pkg/traverse"
)

// Options configures a minification run.
type Options struct {
	Compress minifier.CompressOptions
	// Logger receives debug records per file and convergence warnings.
	Logger *slog.Logger
	// Jobs bounds MinifyFiles' parallelism; 0 uses GOMAXPROCS.
	Jobs int
	// TrailingNewline appends "\n" to the printed output.
	TrailingNewline bool
}

// DefaultOptions returns Options with the default compression settings.
func DefaultOptions() Options {
	return Options{Compress: minifier.DefaultCompressOptions()}
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// session owns the per-goroutine state of the pipeline. It is reused across
// inputs but never shared between goroutines.
type session struct {
	opts       Options
	logger     *slog.Logger
	arena      *ast.Arena
	rctx       *traverse.ReusableCtx
	compressor *minifier.Compressor
}

func newSession(opts Options) *session {
	logger := opts.logger()
	return &session{
		opts:       opts,
		logger:     logger,
		arena:      ast.NewArena(),
		rctx:       traverse.NewReusableCtx(),
		compressor: minifier.NewCompressor(opts.Compress, minifier.WithLogger(logger)),
	}
}

// minify runs the pipeline over src. Syntax errors are returned as the
// second result; the error result is reserved for compression failures.
func (s *session) minify(src *source.SourceFile) (string, []errors.SquashError, error) {
	s.arena.Reset()
	program, errs := parser.Parse(src, s.arena)
	if len(errs) > 0 {
		return "", errs, nil
	}
	if err := s.compressor.Build(program, s.rctx); err != nil {
		return "", nil, fmt.Errorf("%s: %w", src.DisplayPath(), err)
	}
	out := codegen.Print(program)
	if s.opts.TrailingNewline {
		out += "\n"
	}
	s.logger.Debug("minified", "source", src.DisplayPath(), "in", len(src.Content), "out", len(out))
	return out, nil, nil
}

// Minify minifies a single source.
func Minify(src *source.SourceFile, opts Options) (string, []errors.SquashError, error) {
	return newSession(opts).minify(src)
}

// MinifyString minifies inline code.
func MinifyString(code string, opts Options) (string, []errors.SquashError, error) {
	return Minify(source.NewInlineSource(code), opts)
}

// Result is the outcome of minifying one file in a batch.
type Result struct {
	Path   string
	Output string
	Errors []errors.SquashError // syntax errors
	Err    error                // read or compression failure
	Source *source.SourceFile
}

// Failed reports whether the file produced no output.
func (r Result) Failed() bool {
	return r.Err != nil || len(r.Errors) > 0
}

func (s *session) minifyFile(path string) Result {
	res := Result{Path: path}
	src, err := source.ReadFile(path)
	if err != nil {
		res.Err = err
		return res
	}
	res.Source = src
	res.Output, res.Errors, res.Err = s.minify(src)
	return res
}

// MinifyFiles minifies paths in parallel, at most opts.Jobs at a time. The
// results keep the order of paths; per-file failures are reported in each
// Result, and the returned error is only set when ctx is cancelled.
func MinifyFiles(ctx context.Context, paths []string, opts Options) ([]Result, error) {
	workers := opts.Jobs
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, len(paths))

	results := make([]Result, len(paths))
	jobs := make(chan int)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(jobs)
		for i := range paths {
			if err := ctx.Err(); err != nil {
				return err
			}
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
	for range workers {
		g.Go(func() error {
			s := newSession(opts)
			for i := range jobs {
				results[i] = s.minifyFile(paths[i])
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// OutputPath returns where the minified form of path goes inside dir:
// `a/b.js` with suffix ".min" becomes `dir/b.min.js`.
func OutputPath(path, dir, suffix string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return filepath.Join(dir, strings.TrimSuffix(base, ext)+suffix+ext)
}

// WriteFile minifies inputPath into outputPath. Syntax errors are returned
// without writing anything.
func WriteFile(inputPath, outputPath string, opts Options) ([]errors.SquashError, error) {
	res := newSession(opts).minifyFile(inputPath)
	if res.Failed() {
		return res.Errors, res.Err
	}
	if err := os.WriteFile(outputPath, []byte(res.Output), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write output file: %w", err)
	}
	return nil, nil
}
