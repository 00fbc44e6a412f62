package minifier

import (
	"github.com/nooga/squash/pkg/ast"
	"github.com/nooga/squash/pkg/traverse"
)

// removeSyntax drops debugger statements and console calls as configured.
// Removed statements become empty statements, which dead code removal
// cleans up.
type removeSyntax struct {
	traverse.Base
	opts    CompressOptions
	removed int
}

func (r *removeSyntax) ExitStatement(slot *ast.Statement, ctx *traverse.Ctx) {
	switch s := (*slot).(type) {
	case *ast.DebuggerStatement:
		if !r.opts.DropDebugger {
			return
		}
	case *ast.ExpressionStatement:
		if !r.opts.DropConsole || !isConsoleCall(s.Expression, ctx) {
			return
		}
	default:
		return
	}
	*slot = &ast.EmptyStatement{}
	r.removed++
}

// isConsoleCall matches `console.method(...)` on the global console.
func isConsoleCall(e ast.Expression, ctx *traverse.Ctx) bool {
	call, ok := e.(*ast.CallExpression)
	if !ok {
		return false
	}
	m, ok := call.Callee.(*ast.MemberExpression)
	if !ok {
		return false
	}
	obj, ok := m.Object.(*ast.Identifier)
	return ok && obj.Name == "console" && ctx.IsGlobalReference("console")
}
