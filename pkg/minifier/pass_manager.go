package minifier

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nooga/squash/pkg/ast"
	"github.com/nooga/squash/pkg/traverse"
)

// MaxTraversals caps the number of traversals RunInLoop performs.
const MaxTraversals = 10

// ErrConvergenceExceeded is wrapped by every *ConvergenceError.
var ErrConvergenceExceeded = errors.New("peephole optimizations did not converge")

// ConvergenceError is returned by RunInLoop when the last allowed traversal
// still changed the tree.
type ConvergenceError struct {
	Iterations int      // traversals performed
	Rules      []string // rules that changed something in the last traversal
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%v after %d traversals (still changing: %s)",
		ErrConvergenceExceeded, e.Iterations, strings.Join(e.Rules, ", "))
}

func (e *ConvergenceError) Unwrap() error {
	return ErrConvergenceExceeded
}

// changeLog counts the changes each rule reported since the last reset.
type changeLog struct {
	names  []string
	counts []int
}

// register adds a rule and returns the callback it reports changes through.
func (l *changeLog) register(name string) func() {
	i := len(l.names)
	l.names = append(l.names, name)
	l.counts = append(l.counts, 0)
	return func() { l.counts[i]++ }
}

func (l *changeLog) reset() {
	clear(l.counts)
}

func (l *changeLog) changed() bool {
	for _, n := range l.counts {
		if n > 0 {
			return true
		}
	}
	return false
}

// changedRules lists the rules with at least one change, in registration
// order.
func (l *changeLog) changedRules() []string {
	var names []string
	for i, n := range l.counts {
		if n > 0 {
			names = append(names, l.names[i])
		}
	}
	return names
}

// passManager fans every hook of a single walk out to the rules subscribed
// to it, in table order.
type passManager struct {
	name   string
	hooks  [traverse.NumHooks][]traverse.Traverser
	log    *changeLog
	logger *slog.Logger
}

func newPassManager(name string, logger *slog.Logger) *passManager {
	return &passManager{name: name, log: &changeLog{}, logger: logger}
}

// wire resolves table against the rule instances.
func (pm *passManager) wire(table hookTable, rules map[RuleID]traverse.Traverser) {
	for hook, ids := range table {
		for _, id := range ids {
			rule, ok := rules[id]
			if !ok {
				panic(fmt.Sprintf("minifier: %s has no instance of %s", pm.name, id))
			}
			pm.hooks[hook] = append(pm.hooks[hook], rule)
		}
	}
}

// Build runs exactly one traversal.
func (pm *passManager) Build(program *ast.Program, rctx *traverse.ReusableCtx) {
	traverse.Walk(program, pm, rctx)
}

// RunInLoop repeats Build until a traversal changes nothing. It gives up
// after MaxTraversals traversals and returns a *ConvergenceError; the tree
// is left as the last traversal produced it.
func (pm *passManager) RunInLoop(program *ast.Program, rctx *traverse.ReusableCtx) error {
	for i := 1; ; i++ {
		pm.log.reset()
		pm.Build(program, rctx)
		if !pm.log.changed() {
			pm.logger.Debug("converged", "passes", pm.name, "traversals", i)
			return nil
		}
		rules := pm.log.changedRules()
		pm.logger.Debug("traversal changed tree", "passes", pm.name, "traversal", i, "rules", rules)
		if i >= MaxTraversals {
			return &ConvergenceError{Iterations: i, Rules: rules}
		}
	}
}

// Changed reports whether the last traversal changed anything.
func (pm *passManager) Changed() bool {
	return pm.log.changed()
}

func (pm *passManager) ExitProgram(n *ast.Program, ctx *traverse.Ctx) {
	for _, r := range pm.hooks[traverse.ExitProgram] {
		r.ExitProgram(n, ctx)
	}
}

func (pm *passManager) ExitFunctionBody(n *ast.FunctionBody, ctx *traverse.Ctx) {
	for _, r := range pm.hooks[traverse.ExitFunctionBody] {
		r.ExitFunctionBody(n, ctx)
	}
}

func (pm *passManager) ExitStatements(n *[]ast.Statement, ctx *traverse.Ctx) {
	for _, r := range pm.hooks[traverse.ExitStatements] {
		r.ExitStatements(n, ctx)
	}
}

func (pm *passManager) ExitStatement(n *ast.Statement, ctx *traverse.Ctx) {
	for _, r := range pm.hooks[traverse.ExitStatement] {
		r.ExitStatement(n, ctx)
	}
}

func (pm *passManager) ExitBlockStatement(n *ast.BlockStatement, ctx *traverse.Ctx) {
	for _, r := range pm.hooks[traverse.ExitBlockStatement] {
		r.ExitBlockStatement(n, ctx)
	}
}

func (pm *passManager) ExitReturnStatement(n *ast.ReturnStatement, ctx *traverse.Ctx) {
	for _, r := range pm.hooks[traverse.ExitReturnStatement] {
		r.ExitReturnStatement(n, ctx)
	}
}

func (pm *passManager) ExitVariableDeclaration(n *ast.VariableDeclaration, ctx *traverse.Ctx) {
	for _, r := range pm.hooks[traverse.ExitVariableDeclaration] {
		r.ExitVariableDeclaration(n, ctx)
	}
}

func (pm *passManager) ExitExpression(n *ast.Expression, ctx *traverse.Ctx) {
	for _, r := range pm.hooks[traverse.ExitExpression] {
		r.ExitExpression(n, ctx)
	}
}

func (pm *passManager) EnterCallExpression(n *ast.CallExpression, ctx *traverse.Ctx) {
	for _, r := range pm.hooks[traverse.EnterCallExpression] {
		r.EnterCallExpression(n, ctx)
	}
}

func (pm *passManager) ExitCallExpression(n *ast.CallExpression, ctx *traverse.Ctx) {
	for _, r := range pm.hooks[traverse.ExitCallExpression] {
		r.ExitCallExpression(n, ctx)
	}
}

func (pm *passManager) ExitPropertyKey(n *ast.PropertyKey, ctx *traverse.Ctx) {
	for _, r := range pm.hooks[traverse.ExitPropertyKey] {
		r.ExitPropertyKey(n, ctx)
	}
}

func (pm *passManager) ExitMemberExpression(n *ast.MemberExpression, ctx *traverse.Ctx) {
	for _, r := range pm.hooks[traverse.ExitMemberExpression] {
		r.ExitMemberExpression(n, ctx)
	}
}

func (pm *passManager) ExitCatchClause(n *ast.CatchClause, ctx *traverse.Ctx) {
	for _, r := range pm.hooks[traverse.ExitCatchClause] {
		r.ExitCatchClause(n, ctx)
	}
}
