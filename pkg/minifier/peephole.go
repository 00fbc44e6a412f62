package minifier

import (
	"log/slog"

	"github.com/nooga/squash/pkg/ast"
	"github.com/nooga/squash/pkg/traverse"
)

// newRule constructs one rule instance reporting through changed.
func newRule(id RuleID, inFixedLoop bool, opts CompressOptions, changed func()) traverse.Traverser {
	switch id {
	case StatementFusion:
		return &statementFusion{changed: changed}
	case MinimizeExitPoints:
		return &minimizeExitPoints{changed: changed}
	case ExploitAssigns:
		return &exploitAssigns{changed: changed}
	case CollapseVariableDeclarations:
		return &collapseVariableDeclarations{changed: changed}
	case RemoveDeadCode:
		return &removeDeadCode{changed: changed}
	case MinimizeConditions:
		return &minimizeConditions{changed: changed}
	case SubstituteAlternateSyntax:
		return &substituteAlternateSyntax{changed: changed, inFixedLoop: inFixedLoop, opts: opts}
	case ReplaceKnownMethods:
		return &replaceKnownMethods{changed: changed}
	case FoldConstants:
		return &foldConstants{changed: changed}
	case ConvertToDottedProperties:
		return &convertToDottedProperties{changed: changed, inFixedLoop: inFixedLoop}
	}
	panic("minifier: unknown rule " + id.String())
}

// buildPassManager instantiates every rule table dispatches to and wires
// them in.
func buildPassManager(name string, table hookTable, inFixedLoop bool, opts CompressOptions, logger *slog.Logger) *passManager {
	pm := newPassManager(name, logger)
	rules := make(map[RuleID]traverse.Traverser)
	for _, id := range table.rulesOf() {
		rules[id] = newRule(id, inFixedLoop, opts, pm.log.register(id.String()))
	}
	pm.wire(table, rules)
	return pm
}

// PeepholeOptimizations runs every peephole rule in a single traversal,
// optionally repeated until the tree stops changing.
type PeepholeOptimizations struct {
	pm *passManager
}

// NewPeepholeOptimizations builds the full pipeline. Pass inFixedLoop when
// the result will be driven by RunInLoop; rewrites that other rules would
// revert are then held back.
func NewPeepholeOptimizations(inFixedLoop bool, opts CompressOptions, options ...Option) *PeepholeOptimizations {
	s := newSettings(options)
	name := "peephole"
	if inFixedLoop {
		name = "peephole-loop"
	}
	return &PeepholeOptimizations{pm: buildPassManager(name, peepholeHooks, inFixedLoop, opts, s.logger)}
}

// Build runs exactly one traversal over program.
func (p *PeepholeOptimizations) Build(program *ast.Program, rctx *traverse.ReusableCtx) {
	p.pm.log.reset()
	p.pm.Build(program, rctx)
}

// RunInLoop repeats Build until a traversal reports no change, up to
// MaxTraversals traversals. On overflow it returns a *ConvergenceError and
// leaves the tree as the last traversal produced it.
func (p *PeepholeOptimizations) RunInLoop(program *ast.Program, rctx *traverse.ReusableCtx) error {
	return p.pm.RunInLoop(program, rctx)
}

// Changed reports whether the most recent traversal changed the tree.
func (p *PeepholeOptimizations) Changed() bool {
	return p.pm.Changed()
}

// DeadCodeElimination folds constants and removes dead code in one
// traversal, without looping.
type DeadCodeElimination struct {
	pm *passManager
}

// NewDeadCodeElimination builds the reduced pipeline.
func NewDeadCodeElimination(opts CompressOptions, options ...Option) *DeadCodeElimination {
	s := newSettings(options)
	return &DeadCodeElimination{pm: buildPassManager("dead-code", deadCodeHooks, false, opts, s.logger)}
}

// Build runs exactly one traversal over program.
func (d *DeadCodeElimination) Build(program *ast.Program, rctx *traverse.ReusableCtx) {
	d.pm.log.reset()
	d.pm.Build(program, rctx)
}

// Changed reports whether the traversal changed the tree.
func (d *DeadCodeElimination) Changed() bool {
	return d.pm.Changed()
}
