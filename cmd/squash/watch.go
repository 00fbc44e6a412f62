package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/nooga/squash/pkg/driver"
	"github.com/nooga/squash/pkg/errors"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MinifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "watch <file> -o <output>",
		Short: "Minify a file again every time it is written",
		Args:  argsOrUsage(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file")
	addCompressFlags(cmd, opts)

	return cmd
}

func runWatch(cmd *cobra.Command, opts *MinifyOptions, path string) error {
	if opts.Output == "" {
		return NewExitError(ExitCommandError, "watch needs an output file (-o)")
	}
	_, dopts, err := opts.resolve(cmd)
	if err != nil {
		return err
	}

	rebuild := func() {
		errs, err := driver.WriteFile(path, opts.Output, dopts)
		switch {
		case err != nil:
			opts.logger.Error("minification failed", "input", path, "err", err)
		case len(errs) > 0:
			errors.DisplayErrors(cmd.ErrOrStderr(), errs)
		default:
			opts.logger.Info("minified", "input", path, "output", opts.Output)
		}
	}
	rebuild()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return WrapExitError(ExitFailure, "cannot start watcher", err)
	}
	defer w.Close()
	// Editors often replace files instead of writing them, so watch the
	// directory and filter by name.
	if err := w.Add(filepath.Dir(path)); err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("cannot watch %s", path), err)
	}
	return watchLoop(cmd.Context(), w.Events, w.Errors, path, rebuild, opts.logger)
}

// watchLoop calls rebuild whenever path is written or recreated, until ctx
// is done or the watcher closes.
func watchLoop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, path string, rebuild func(), logger *slog.Logger) error {
	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			logger.Debug("change detected", "path", ev.Name, "op", ev.Op.String())
			rebuild()
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "err", err)
		}
	}
}
