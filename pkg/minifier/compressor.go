package minifier

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/nooga/squash/pkg/ast"
	"github.com/nooga/squash/pkg/traverse"
)

// Compressor runs the whole compression pipeline over a program.
type Compressor struct {
	opts   CompressOptions
	logger *slog.Logger

	loop  *PeepholeOptimizations
	final *PeepholeOptimizations
	dce   *DeadCodeElimination
}

// NewCompressor builds the pass managers for opts. A Compressor may be
// reused for many programs but not concurrently.
func NewCompressor(opts CompressOptions, options ...Option) *Compressor {
	s := newSettings(options)
	c := &Compressor{opts: opts, logger: s.logger}
	if opts.DeadCodeOnly {
		c.dce = NewDeadCodeElimination(opts, options...)
	} else {
		c.loop = NewPeepholeOptimizations(true, opts, options...)
		c.final = NewPeepholeOptimizations(false, opts, options...)
	}
	return c
}

// Build compresses program in place. It only fails when the peephole loop
// does not converge and StrictConvergence is set; otherwise the tree the
// loop stopped at is still finished and the failure is logged.
func (c *Compressor) Build(program *ast.Program, rctx *traverse.ReusableCtx) error {
	rs := &removeSyntax{opts: c.opts}
	traverse.Walk(program, rs, rctx)
	c.logger.Debug("compress phase", "phase", "remove-syntax", "removed", rs.removed)

	if c.dce != nil {
		c.dce.Build(program, rctx)
		c.logger.Debug("compress phase", "phase", "dead-code", "changed", c.dce.Changed())
		return nil
	}

	if c.opts.Unused {
		ru := &removeUnusedCode{}
		traverse.Walk(program, ru, rctx)
		c.logger.Debug("compress phase", "phase", "remove-unused", "removed", ru.removed)
	}

	norm := &normalize{}
	traverse.Walk(program, norm, rctx)
	c.logger.Debug("compress phase", "phase", "normalize", "rewritten", norm.rewritten)

	if err := c.loop.RunInLoop(program, rctx); err != nil {
		var convErr *ConvergenceError
		if c.opts.StrictConvergence || !errors.As(err, &convErr) {
			return fmt.Errorf("compress: %w", err)
		}
		c.logger.Warn("peephole optimizations did not converge",
			"iterations", convErr.Iterations, "rules", convErr.Rules)
	}

	c.final.Build(program, rctx)
	c.logger.Debug("compress phase", "phase", "final", "changed", c.final.Changed())
	return nil
}
