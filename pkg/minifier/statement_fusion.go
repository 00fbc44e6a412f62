package minifier

import (
	"github.com/nooga/squash/pkg/ast"
	"github.com/nooga/squash/pkg/traverse"
)

// statementFusion merges runs of expression statements into a single
// sequence, folding it into the statement that follows when that statement
// starts with an expression.
type statementFusion struct {
	traverse.Base
	changed func()
}

func (r *statementFusion) ExitProgram(p *ast.Program, _ *traverse.Ctx) {
	r.fuse(&p.Statements)
}

func (r *statementFusion) ExitFunctionBody(b *ast.FunctionBody, _ *traverse.Ctx) {
	r.fuse(&b.Statements)
}

func (r *statementFusion) ExitBlockStatement(b *ast.BlockStatement, _ *traverse.Ctx) {
	r.fuse(&b.Statements)
}

func (r *statementFusion) fuse(list *[]ast.Statement) {
	stmts := *list
	out := make([]ast.Statement, 0, len(stmts))
	var run []ast.Expression
	fused := false

	flush := func() {
		switch len(run) {
		case 0:
		case 1:
			out = append(out, &ast.ExpressionStatement{Expression: run[0]})
		default:
			out = append(out, &ast.ExpressionStatement{Expression: sequence(run...)})
			fused = true
		}
		run = nil
	}

	for _, s := range stmts {
		if es, ok := s.(*ast.ExpressionStatement); ok {
			run = append(run, es.Expression)
			continue
		}
		if len(run) > 0 && fuseInto(s, run) {
			run = nil
			fused = true
		} else {
			flush()
		}
		out = append(out, s)
	}
	flush()

	if fused {
		*list = out
		r.changed()
	}
}

// fuseInto prepends run to the leading expression of s, reporting whether
// s has one.
func fuseInto(s ast.Statement, run []ast.Expression) bool {
	with := func(e ast.Expression) ast.Expression {
		return sequence(append(run[:len(run):len(run)], e)...)
	}
	switch n := s.(type) {
	case *ast.IfStatement:
		n.Test = with(n.Test)
	case *ast.ReturnStatement:
		if n.Argument == nil {
			return false
		}
		n.Argument = with(n.Argument)
	case *ast.ThrowStatement:
		n.Argument = with(n.Argument)
	case *ast.ForStatement:
		switch init := n.Init.(type) {
		case nil:
			n.Init = sequence(run...)
		case ast.Expression:
			n.Init = with(init)
		default:
			return false
		}
	default:
		return false
	}
	return true
}
