package minifier

import (
	"github.com/nooga/squash/pkg/ast"
	"github.com/nooga/squash/pkg/traverse"
)

// exploitAssigns chains an assignment into the next statement when that
// statement copies the assigned variable: `a = e; b = a;` becomes
// `b = a = e;`.
type exploitAssigns struct {
	traverse.Base
	changed func()
}

func (r *exploitAssigns) ExitStatements(list *[]ast.Statement, _ *traverse.Ctx) {
	stmts := *list
	out := stmts[:0]
	for i := 0; i < len(stmts); i++ {
		if i+1 < len(stmts) && chainAssign(stmts[i], stmts[i+1]) {
			r.changed()
			continue
		}
		out = append(out, stmts[i])
	}
	clear(stmts[len(out):])
	*list = out
}

// chainAssign folds first into second when second is `T = a` for the `a`
// first assigns.
func chainAssign(first, second ast.Statement) bool {
	src := plainAssign(first)
	if src == nil {
		return false
	}
	name, ok := src.Target.(*ast.Identifier)
	if !ok {
		return false
	}
	dst := plainAssign(second)
	if dst == nil {
		return false
	}
	if _, ok := dst.Target.(*ast.Identifier); !ok {
		return false
	}
	ref, ok := dst.Value.(*ast.Identifier)
	if !ok || ref.Name != name.Name {
		return false
	}
	dst.Value = src
	return true
}

func plainAssign(s ast.Statement) *ast.AssignmentExpression {
	es, ok := s.(*ast.ExpressionStatement)
	if !ok {
		return nil
	}
	a, ok := es.Expression.(*ast.AssignmentExpression)
	if !ok || a.Operator != "=" {
		return nil
	}
	return a
}
