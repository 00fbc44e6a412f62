// Package traverse walks a program tree once, firing enter hooks before a
// node's children and exit hooks after them. Exit hooks that receive a slot
// pointer may replace the node in that slot.
package traverse

import "github.com/nooga/squash/pkg/ast"

// Hook identifies one of the callbacks a Traverser can subscribe to.
type Hook int

const (
	ExitProgram Hook = iota
	ExitFunctionBody
	ExitStatements
	ExitStatement
	ExitBlockStatement
	ExitReturnStatement
	ExitVariableDeclaration
	ExitExpression
	EnterCallExpression
	ExitCallExpression
	ExitPropertyKey
	ExitMemberExpression
	ExitCatchClause

	NumHooks
)

var hookNames = [NumHooks]string{
	"ExitProgram",
	"ExitFunctionBody",
	"ExitStatements",
	"ExitStatement",
	"ExitBlockStatement",
	"ExitReturnStatement",
	"ExitVariableDeclaration",
	"ExitExpression",
	"EnterCallExpression",
	"ExitCallExpression",
	"ExitPropertyKey",
	"ExitMemberExpression",
	"ExitCatchClause",
}

func (h Hook) String() string {
	if h < 0 || h >= NumHooks {
		return "Hook(?)"
	}
	return hookNames[h]
}

// Traverser receives every hook of a walk. Embed Base to implement only
// the hooks you need.
type Traverser interface {
	ExitProgram(program *ast.Program, ctx *Ctx)
	ExitFunctionBody(body *ast.FunctionBody, ctx *Ctx)
	// ExitStatements may grow, shrink or reorder the list.
	ExitStatements(stmts *[]ast.Statement, ctx *Ctx)
	ExitStatement(stmt *ast.Statement, ctx *Ctx)
	ExitBlockStatement(block *ast.BlockStatement, ctx *Ctx)
	ExitReturnStatement(ret *ast.ReturnStatement, ctx *Ctx)
	ExitVariableDeclaration(decl *ast.VariableDeclaration, ctx *Ctx)
	ExitExpression(expr *ast.Expression, ctx *Ctx)
	EnterCallExpression(call *ast.CallExpression, ctx *Ctx)
	ExitCallExpression(call *ast.CallExpression, ctx *Ctx)
	ExitPropertyKey(key *ast.PropertyKey, ctx *Ctx)
	ExitMemberExpression(member *ast.MemberExpression, ctx *Ctx)
	ExitCatchClause(clause *ast.CatchClause, ctx *Ctx)
}

// Base implements every hook as a no-op.
type Base struct{}

func (Base) ExitProgram(*ast.Program, *Ctx)                         {}
func (Base) ExitFunctionBody(*ast.FunctionBody, *Ctx)               {}
func (Base) ExitStatements(*[]ast.Statement, *Ctx)                  {}
func (Base) ExitStatement(*ast.Statement, *Ctx)                     {}
func (Base) ExitBlockStatement(*ast.BlockStatement, *Ctx)           {}
func (Base) ExitReturnStatement(*ast.ReturnStatement, *Ctx)         {}
func (Base) ExitVariableDeclaration(*ast.VariableDeclaration, *Ctx) {}
func (Base) ExitExpression(*ast.Expression, *Ctx)                   {}
func (Base) EnterCallExpression(*ast.CallExpression, *Ctx)          {}
func (Base) ExitCallExpression(*ast.CallExpression, *Ctx)           {}
func (Base) ExitPropertyKey(*ast.PropertyKey, *Ctx)                 {}
func (Base) ExitMemberExpression(*ast.MemberExpression, *Ctx)       {}
func (Base) ExitCatchClause(*ast.CatchClause, *Ctx)                 {}
