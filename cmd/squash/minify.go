package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nooga/squash/pkg/config"
	"github.com/nooga/squash/pkg/driver"
	"github.com/nooga/squash/pkg/errors"
	"github.com/nooga/squash/pkg/minifier"
	"github.com/nooga/squash/pkg/source"
)

// MinifyOptions holds flags shared by minify and watch. Flags override the
// configuration file only when given explicitly.
type MinifyOptions struct {
	*RootOptions
	Output          string
	OutDir          string
	Target          string
	DeadCodeOnly    bool
	Strict          bool
	NoBooleans      bool
	NoTypeofs       bool
	NoUnused        bool
	DropConsole     bool
	DropDebugger    bool
	Jobs            int
	TrailingNewline bool
}

// NewMinifyCommand creates the minify command.
func NewMinifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MinifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "minify [files...]",
		Short: "Minify JavaScript files, or stdin when none are given",
		Long: `Minify JavaScript files, or stdin when none are given.

With a single input the result goes to stdout or the -o file. Several
inputs are minified in parallel; use --out-dir to write one file each.`,
		Args: argsOrUsage(cobra.ArbitraryArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMinify(cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (single input only)")
	cmd.Flags().StringVar(&opts.OutDir, "out-dir", "", "directory receiving one minified file per input")
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", 0, "files minified at once (0 = GOMAXPROCS)")
	addCompressFlags(cmd, opts)

	return cmd
}

func addCompressFlags(cmd *cobra.Command, opts *MinifyOptions) {
	flags := cmd.Flags()
	flags.StringVar(&opts.Target, "target", string(minifier.ESNext), "oldest ECMAScript edition to emit (es5|es2015|es2019|esnext)")
	flags.BoolVar(&opts.DeadCodeOnly, "dce", false, "only fold constants and remove dead code")
	flags.BoolVar(&opts.Strict, "strict", false, "fail when the peephole loop does not converge")
	flags.BoolVar(&opts.NoBooleans, "no-booleans", false, "keep true and false instead of !0 and !1")
	flags.BoolVar(&opts.NoTypeofs, "no-typeofs", false, `keep typeof x=="undefined" comparisons`)
	flags.BoolVar(&opts.NoUnused, "no-unused", false, "keep unreferenced declarations inside functions")
	flags.BoolVar(&opts.DropConsole, "drop-console", false, "remove console.* calls")
	flags.BoolVar(&opts.DropDebugger, "drop-debugger", true, "remove debugger statements")
	flags.BoolVar(&opts.TrailingNewline, "newline", false, "end every output with a newline")
}

// resolve merges the configuration file with explicitly set flags.
func (o *MinifyOptions) resolve(cmd *cobra.Command) (*config.Config, driver.Options, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, driver.Options{}, err
	}
	flags := cmd.Flags()
	c := &cfg.Compress
	if flags.Changed("target") {
		target, err := minifier.ParseTarget(o.Target)
		if err != nil {
			return nil, driver.Options{}, WrapExitError(ExitCommandError, "invalid --target", err)
		}
		c.Target = target
	}
	if flags.Changed("dce") {
		c.DeadCodeOnly = o.DeadCodeOnly
	}
	if flags.Changed("strict") {
		c.StrictConvergence = o.Strict
	}
	if flags.Changed("no-booleans") {
		c.Booleans = !o.NoBooleans
	}
	if flags.Changed("no-typeofs") {
		c.Typeofs = !o.NoTypeofs
	}
	if flags.Changed("no-unused") {
		c.Unused = !o.NoUnused
	}
	if flags.Changed("drop-console") {
		c.DropConsole = o.DropConsole
	}
	if flags.Changed("drop-debugger") {
		c.DropDebugger = o.DropDebugger
	}
	if flags.Changed("newline") {
		cfg.Output.TrailingNewline = o.TrailingNewline
	}
	if flags.Changed("jobs") {
		cfg.Jobs = o.Jobs
	}
	if flags.Changed("out-dir") {
		cfg.Output.Dir = o.OutDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, driver.Options{}, WrapExitError(ExitCommandError, "invalid options", err)
	}

	return cfg, driver.Options{
		Compress:        cfg.Compress,
		Logger:          o.logger,
		Jobs:            cfg.Jobs,
		TrailingNewline: cfg.Output.TrailingNewline,
	}, nil
}

func runMinify(cmd *cobra.Command, opts *MinifyOptions, args []string) error {
	cfg, dopts, err := opts.resolve(cmd)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return WrapExitError(ExitCommandError, "cannot read stdin", err)
		}
		src := source.NewStdinSource(string(data))
		out, errs, err := driver.Minify(src, dopts)
		if err != nil {
			return WrapExitError(ExitFailure, "minification failed", err)
		}
		if len(errs) > 0 {
			errors.DisplayErrors(cmd.ErrOrStderr(), errs)
			return NewExitError(ExitFailure, fmt.Sprintf("%d syntax error(s)", len(errs)))
		}
		return writeOutput(cmd.OutOrStdout(), opts.Output, out)
	}

	if opts.Output != "" && len(args) > 1 {
		return NewExitError(ExitCommandError, "-o takes a single input; use --out-dir for several")
	}

	results, err := driver.MinifyFiles(cmd.Context(), args, dopts)
	if err != nil {
		return WrapExitError(ExitFailure, "minification interrupted", err)
	}

	failed := 0
	for _, res := range results {
		if res.Failed() {
			failed++
			report(cmd.ErrOrStderr(), res)
			continue
		}
		path := opts.Output
		if cfg.Output.Dir != "" {
			if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
				return WrapExitError(ExitCommandError, "cannot create output directory", err)
			}
			path = driver.OutputPath(res.Path, cfg.Output.Dir, cfg.Output.Suffix)
		}
		out := res.Output
		if path == "" && len(results) > 1 && !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		if err := writeOutput(cmd.OutOrStdout(), path, out); err != nil {
			return err
		}
		opts.logger.Debug("wrote output", "input", res.Path, "output", path)
	}
	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d file(s) failed", failed, len(results)))
	}
	return nil
}

// writeOutput writes out to path, or to stdout when path is empty.
func writeOutput(stdout io.Writer, path, out string) error {
	if path == "" {
		_, err := io.WriteString(stdout, out)
		return err
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return WrapExitError(ExitFailure, "cannot write "+filepath.Base(path), err)
	}
	return nil
}

func report(w io.Writer, res driver.Result) {
	if res.Err != nil {
		fmt.Fprintf(w, "%s: %v\n", res.Path, res.Err)
	}
	if len(res.Errors) > 0 {
		errors.DisplayErrors(w, res.Errors)
	}
}
