package traverse

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nooga/squash/pkg/ast"
	"github.com/nooga/squash/pkg/codegen"
	"github.com/nooga/squash/pkg/parser"
	"github.com/nooga/squash/pkg/source"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	program, errs := parser.Parse(source.NewInlineSource(src), nil)
	require.Empty(t, errs)
	return program
}

// recorder logs every hook it receives as "Hook Kind".
type recorder struct {
	events []string
}

func (r *recorder) log(h Hook, n ast.Node) {
	r.events = append(r.events, fmt.Sprintf("%s %s", h, n.Kind()))
}

func (r *recorder) ExitProgram(p *ast.Program, _ *Ctx)           { r.log(ExitProgram, p) }
func (r *recorder) ExitFunctionBody(b *ast.FunctionBody, _ *Ctx) { r.log(ExitFunctionBody, b) }
func (r *recorder) ExitStatements(list *[]ast.Statement, ctx *Ctx) {
	r.log(ExitStatements, ctx.Parent())
}
func (r *recorder) ExitStatement(s *ast.Statement, _ *Ctx)             { r.log(ExitStatement, *s) }
func (r *recorder) ExitBlockStatement(b *ast.BlockStatement, _ *Ctx)   { r.log(ExitBlockStatement, b) }
func (r *recorder) ExitReturnStatement(s *ast.ReturnStatement, _ *Ctx) { r.log(ExitReturnStatement, s) }
func (r *recorder) ExitVariableDeclaration(d *ast.VariableDeclaration, _ *Ctx) {
	r.log(ExitVariableDeclaration, d)
}
func (r *recorder) ExitExpression(e *ast.Expression, _ *Ctx)             { r.log(ExitExpression, *e) }
func (r *recorder) EnterCallExpression(c *ast.CallExpression, _ *Ctx)    { r.log(EnterCallExpression, c) }
func (r *recorder) ExitCallExpression(c *ast.CallExpression, _ *Ctx)     { r.log(ExitCallExpression, c) }
func (r *recorder) ExitPropertyKey(k *ast.PropertyKey, _ *Ctx)           { r.log(ExitPropertyKey, k) }
func (r *recorder) ExitMemberExpression(m *ast.MemberExpression, _ *Ctx) { r.log(ExitMemberExpression, m) }
func (r *recorder) ExitCatchClause(c *ast.CatchClause, _ *Ctx)           { r.log(ExitCatchClause, c) }

func TestHookOrder(t *testing.T) {
	rec := &recorder{}
	Walk(parse(t, "f(a);"), rec, NewReusableCtx())

	assert.Equal(t, []string{
		"EnterCallExpression CallExpression",
		"ExitExpression Identifier",
		"ExitExpression Identifier",
		"ExitCallExpression CallExpression",
		"ExitExpression CallExpression",
		"ExitStatement ExpressionStatement",
		"ExitStatements Program",
		"ExitProgram Program",
	}, rec.events)
}

func TestBlockAndFunctionHooks(t *testing.T) {
	rec := &recorder{}
	Walk(parse(t, "function f() { { return 1; } }"), rec, NewReusableCtx())

	assert.Equal(t, []string{
		"ExitExpression NumberLiteral",
		"ExitReturnStatement ReturnStatement",
		"ExitStatement ReturnStatement",
		"ExitStatements BlockStatement",
		"ExitBlockStatement BlockStatement",
		"ExitStatement BlockStatement",
		"ExitStatements FunctionBody",
		"ExitFunctionBody FunctionBody",
		"ExitStatement FunctionDeclaration",
		"ExitStatements Program",
		"ExitProgram Program",
	}, rec.events)
}

func TestAssignmentTargetsSkipExitExpression(t *testing.T) {
	rec := &recorder{}
	Walk(parse(t, "a.b = c; x++;"), rec, NewReusableCtx())

	assert.Equal(t, []string{
		"ExitExpression Identifier", // a
		"ExitMemberExpression MemberExpression",
		"ExitExpression Identifier", // c
		"ExitExpression AssignmentExpression",
		"ExitStatement ExpressionStatement",
		"ExitExpression UpdateExpression",
		"ExitStatement ExpressionStatement",
		"ExitStatements Program",
		"ExitProgram Program",
	}, rec.events)
}

func TestPropertyKeyHooks(t *testing.T) {
	rec := &recorder{}
	Walk(parse(t, `x = {["k"]: 1};`), rec, NewReusableCtx())

	assert.Equal(t, []string{
		"ExitExpression StringLiteral",
		"ExitPropertyKey PropertyKey",
		"ExitExpression NumberLiteral",
		"ExitExpression ObjectExpression",
		"ExitExpression AssignmentExpression",
		"ExitStatement ExpressionStatement",
		"ExitStatements Program",
		"ExitProgram Program",
	}, rec.events)
}

func TestCatchClauseHook(t *testing.T) {
	rec := &recorder{}
	Walk(parse(t, "try {} catch (e) {}"), rec, NewReusableCtx())

	assert.Equal(t, []string{
		"ExitStatements BlockStatement",
		"ExitBlockStatement BlockStatement",
		"ExitStatements BlockStatement",
		"ExitBlockStatement BlockStatement",
		"ExitCatchClause CatchClause",
		"ExitStatement TryStatement",
		"ExitStatements Program",
		"ExitProgram Program",
	}, rec.events)
}

// scopeProbe records IsGlobalReference for every identifier expression.
type scopeProbe struct {
	Base
	global map[string]bool
}

func (s *scopeProbe) ExitExpression(e *ast.Expression, ctx *Ctx) {
	if id, ok := (*e).(*ast.Identifier); ok {
		s.global[id.Name] = ctx.IsGlobalReference(id.Name)
	}
}

func TestScopes(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		global map[string]bool
	}{
		{
			name:   "program and function bindings",
			input:  "var g; function f(p) { let q; return [g, p, q, h, f]; }",
			global: map[string]bool{"g": false, "p": false, "q": false, "h": true, "f": false},
		},
		{
			name:   "hoisted var inside nested block",
			input:  "function f() { v; if (x) { var v; } }",
			global: map[string]bool{"v": false, "x": true},
		},
		{
			name:   "block scoped let",
			input:  "{ let b; b; } b;",
			global: map[string]bool{"b": true},
		},
		{
			name:   "catch parameter",
			input:  "try {} catch (e) { [e, z]; }",
			global: map[string]bool{"e": false, "z": true},
		},
		{
			name:   "function expression name",
			input:  "x = function g() { return g; };",
			global: map[string]bool{"g": false},
		},
		{
			name:   "arrow params",
			input:  "x = (a) => [a, undefined];",
			global: map[string]bool{"a": false, "undefined": true},
		},
		{
			name:   "shadowed undefined",
			input:  "function f(undefined) { return undefined; }",
			global: map[string]bool{"undefined": false},
		},
		{
			name:   "for let",
			input:  "for (let i = 0; i < 1; ) i;",
			global: map[string]bool{"i": false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			probe := &scopeProbe{global: map[string]bool{}}
			Walk(parse(t, tt.input), probe, NewReusableCtx())
			assert.Equal(t, tt.global, probe.global)
		})
	}
}

type parentProbe struct {
	Base
	parents []string
}

func (p *parentProbe) ExitStatements(_ *[]ast.Statement, ctx *Ctx) {
	p.parents = append(p.parents, ctx.Parent().Kind())
}

func TestStatementsParent(t *testing.T) {
	probe := &parentProbe{}
	Walk(parse(t, "function f() { if (a) { b; } }"), probe, NewReusableCtx())
	assert.Equal(t, []string{"BlockStatement", "FunctionBody", "Program"}, probe.parents)
}

// statementScopes records, for each statement exit, whether i resolves to
// a global.
type statementScopes struct {
	Base
	global []string
}

func (s *statementScopes) ExitStatement(stmt *ast.Statement, ctx *Ctx) {
	s.global = append(s.global, fmt.Sprintf("%s %t", (*stmt).Kind(), ctx.IsGlobalReference("i")))
}

func TestScopeOpenDuringExitStatement(t *testing.T) {
	rec := &statementScopes{}
	Walk(parse(t, "for (let i = 0; i < 1; ) f(); { let i; } g();"), rec, NewReusableCtx())
	assert.Equal(t, []string{
		"ExpressionStatement false",
		"ForStatement false",
		"VariableDeclaration false",
		"BlockStatement false",
		"ExpressionStatement true",
	}, rec.global)
}

// renamer replaces every identifier x with y.
type renamer struct{ Base }

func (renamer) ExitExpression(e *ast.Expression, _ *Ctx) {
	if id, ok := (*e).(*ast.Identifier); ok && id.Name == "x" {
		*e = &ast.Identifier{Name: "y"}
	}
}

func TestSlotReplacement(t *testing.T) {
	program := parse(t, "f(x, [x], {k: x}, x ? x : 1); x = x;")
	Walk(program, renamer{}, NewReusableCtx())
	assert.Equal(t, "f(y,[y],{k:y},y?y:1);x=y;", codegen.Print(program))
}

func TestReusableCtxIsReset(t *testing.T) {
	rctx := NewReusableCtx()
	Walk(parse(t, "function f(a) { { let b; } }"), Base{}, rctx)
	assert.Zero(t, rctx.ctx.Depth())
	assert.Empty(t, rctx.ctx.scopes)

	probe := &scopeProbe{global: map[string]bool{}}
	Walk(parse(t, "a; b;"), probe, rctx)
	assert.Equal(t, map[string]bool{"a": true, "b": true}, probe.global)
}

func TestHookNames(t *testing.T) {
	assert.Equal(t, "ExitProgram", ExitProgram.String())
	assert.Equal(t, "ExitCatchClause", ExitCatchClause.String())
	assert.Equal(t, "Hook(?)", NumHooks.String())
}
