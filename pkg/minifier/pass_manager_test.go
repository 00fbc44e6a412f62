package minifier

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nooga/squash/pkg/ast"
	"github.com/nooga/squash/pkg/codegen"
	"github.com/nooga/squash/pkg/parser"
	"github.com/nooga/squash/pkg/source"
	"github.com/nooga/squash/pkg/traverse"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	program, errs := parser.Parse(source.NewInlineSource(src), nil)
	require.Empty(t, errs, "parse errors for %q", src)
	return program
}

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// toggle rewrites the expression statement `a;` to `a+0;` and back, so a
// pair of them never lets the tree settle.
type toggle struct {
	traverse.Base
	changed func()
	forward bool
}

func (r *toggle) ExitStatement(slot *ast.Statement, _ *traverse.Ctx) {
	es, ok := (*slot).(*ast.ExpressionStatement)
	if !ok {
		return
	}
	switch e := es.Expression.(type) {
	case *ast.Identifier:
		if r.forward {
			es.Expression = &ast.BinaryExpression{Operator: "+", Left: e, Right: &ast.NumberLiteral{Value: 0}}
			r.changed()
		}
	case *ast.BinaryExpression:
		if !r.forward {
			es.Expression = e.Left
			r.changed()
		}
	}
}

// countdown decrements every positive number literal by one per traversal.
type countdown struct {
	traverse.Base
	changed    func()
	traversals int
}

func (r *countdown) ExitProgram(*ast.Program, *traverse.Ctx) {
	r.traversals++
}

func (r *countdown) ExitExpression(slot *ast.Expression, _ *traverse.Ctx) {
	if n, ok := (*slot).(*ast.NumberLiteral); ok && n.Value > 0 {
		*slot = &ast.NumberLiteral{Value: n.Value - 1}
		r.changed()
	}
}

func countdownManager() (*passManager, *countdown) {
	pm := newPassManager("countdown", quietLogger())
	rule := &countdown{}
	rule.changed = pm.log.register("countdown")
	pm.hooks[traverse.ExitProgram] = append(pm.hooks[traverse.ExitProgram], rule)
	pm.hooks[traverse.ExitExpression] = append(pm.hooks[traverse.ExitExpression], rule)
	return pm, rule
}

func toggleManager() *passManager {
	pm := newPassManager("toggle", quietLogger())
	on := &toggle{forward: true}
	on.changed = pm.log.register("toggleOn")
	off := &toggle{}
	off.changed = pm.log.register("toggleOff")
	pm.hooks[traverse.ExitStatement] = []traverse.Traverser{on, off}
	return pm
}

func TestRunInLoopDetectsToggle(t *testing.T) {
	pm := toggleManager()
	program := parse(t, "a;")
	err := pm.RunInLoop(program, traverse.NewReusableCtx())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConvergenceExceeded))
	var convErr *ConvergenceError
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, MaxTraversals, convErr.Iterations)
	assert.Equal(t, []string{"toggleOn", "toggleOff"}, convErr.Rules)
	assert.Equal(t, "a;", codegen.Print(program))
}

func TestRunInLoopIterationBound(t *testing.T) {
	t.Run("converges on the last allowed traversal", func(t *testing.T) {
		pm, rule := countdownManager()
		program := parse(t, "x = 9;")
		require.NoError(t, pm.RunInLoop(program, traverse.NewReusableCtx()))
		assert.Equal(t, MaxTraversals, rule.traversals)
		assert.Equal(t, "x=0;", codegen.Print(program))
	})

	t.Run("still changing on the last allowed traversal", func(t *testing.T) {
		pm, rule := countdownManager()
		program := parse(t, "x = 10;")
		err := pm.RunInLoop(program, traverse.NewReusableCtx())
		var convErr *ConvergenceError
		require.ErrorAs(t, err, &convErr)
		assert.Equal(t, MaxTraversals, convErr.Iterations)
		assert.Equal(t, []string{"countdown"}, convErr.Rules)
		assert.Equal(t, MaxTraversals, rule.traversals)
		assert.Equal(t, "x=0;", codegen.Print(program))
	})

	t.Run("a clean tree takes one traversal", func(t *testing.T) {
		pm, rule := countdownManager()
		program := parse(t, "x = 0;")
		require.NoError(t, pm.RunInLoop(program, traverse.NewReusableCtx()))
		assert.Equal(t, 1, rule.traversals)
		assert.False(t, pm.Changed())
	})
}

func TestChangeLog(t *testing.T) {
	var log changeLog
	a := log.register("a")
	b := log.register("b")
	assert.False(t, log.changed())

	b()
	b()
	assert.True(t, log.changed())
	assert.Equal(t, []string{"b"}, log.changedRules())

	a()
	assert.Equal(t, []string{"a", "b"}, log.changedRules())

	log.reset()
	assert.False(t, log.changed())
	assert.Empty(t, log.changedRules())
}

func TestConvergenceErrorMessage(t *testing.T) {
	err := &ConvergenceError{Iterations: 10, Rules: []string{"FoldConstants"}}
	assert.Equal(t,
		"peephole optimizations did not converge after 10 traversals (still changing: FoldConstants)",
		err.Error())
}

func TestWirePanicsOnMissingRule(t *testing.T) {
	pm := newPassManager("broken", quietLogger())
	assert.Panics(t, func() {
		pm.wire(hookTable{traverse.ExitProgram: {FoldConstants}}, map[RuleID]traverse.Traverser{})
	})
}

func TestHookTables(t *testing.T) {
	assert.Equal(t, []RuleID{
		StatementFusion, MinimizeExitPoints, ExploitAssigns, CollapseVariableDeclarations,
		RemoveDeadCode, MinimizeConditions, SubstituteAlternateSyntax, ReplaceKnownMethods,
		FoldConstants, ConvertToDottedProperties,
	}, peepholeHooks.rulesOf())
	assert.Equal(t, []RuleID{RemoveDeadCode, FoldConstants}, deadCodeHooks.rulesOf())
	assert.Equal(t, []RuleID{FoldConstants, RemoveDeadCode}, deadCodeHooks[traverse.ExitExpression])
	assert.Equal(t, []RuleID{StatementFusion, RemoveDeadCode}, peepholeHooks[traverse.ExitFunctionBody])
	assert.Equal(t, []RuleID{RemoveDeadCode}, deadCodeHooks[traverse.ExitFunctionBody])
	assert.Len(t, peepholeHooks, int(traverse.NumHooks))
}

func TestRuleIDString(t *testing.T) {
	assert.Equal(t, "StatementFusion", StatementFusion.String())
	assert.Equal(t, "ConvertToDottedProperties", ConvertToDottedProperties.String())
	assert.Equal(t, "RuleID(?)", RuleID(99).String())
}
