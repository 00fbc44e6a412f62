package minifier

import (
	"github.com/nooga/squash/pkg/ast"
	"github.com/nooga/squash/pkg/traverse"
)

// minimizeExitPoints removes returns that only restate falling off the end
// of a function body.
type minimizeExitPoints struct {
	traverse.Base
	changed func()
}

func (r *minimizeExitPoints) ExitStatements(list *[]ast.Statement, ctx *traverse.Ctx) {
	if _, ok := ctx.Parent().(*ast.FunctionBody); !ok {
		return
	}
	stmts := *list
	if len(stmts) == 0 {
		return
	}
	switch last := stmts[len(stmts)-1].(type) {
	case *ast.ReturnStatement:
		if last.Argument == nil {
			stmts[len(stmts)-1] = nil
			*list = stmts[:len(stmts)-1]
			r.changed()
		}
	case *ast.IfStatement:
		if trimBareReturn(&last.Consequent) {
			r.changed()
		}
		if last.Alternate != nil && trimBareReturn(&last.Alternate) {
			r.changed()
		}
	}
}

// trimBareReturn drops a bare return that ends the branch in slot.
func trimBareReturn(slot *ast.Statement) bool {
	switch s := (*slot).(type) {
	case *ast.ReturnStatement:
		if s.Argument == nil {
			*slot = &ast.EmptyStatement{}
			return true
		}
	case *ast.BlockStatement:
		n := len(s.Statements)
		if n == 0 {
			return false
		}
		if ret, ok := s.Statements[n-1].(*ast.ReturnStatement); ok && ret.Argument == nil {
			s.Statements = s.Statements[:n-1]
			return true
		}
	}
	return false
}
