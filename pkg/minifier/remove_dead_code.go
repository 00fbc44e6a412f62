package minifier

import (
	"github.com/nooga/squash/pkg/ast"
	"github.com/nooga/squash/pkg/ecmascript"
	"github.com/nooga/squash/pkg/traverse"
)

// removeDeadCode drops statements and expressions that can never run or
// whose result is never observed.
type removeDeadCode struct {
	traverse.Base
	changed func()
}

func (r *removeDeadCode) ExitProgram(p *ast.Program, _ *traverse.Ctx) {
	p.Directives = r.dedupeDirectives(p.Directives)
}

func (r *removeDeadCode) ExitFunctionBody(body *ast.FunctionBody, _ *traverse.Ctx) {
	body.Directives = r.dedupeDirectives(body.Directives)
}

func (r *removeDeadCode) dedupeDirectives(list []*ast.Directive) []*ast.Directive {
	seen := make(map[string]bool, len(list))
	kept := list[:0]
	for _, d := range list {
		if seen[d.Value] {
			r.changed()
			continue
		}
		seen[d.Value] = true
		kept = append(kept, d)
	}
	return kept
}

func (r *removeDeadCode) ExitStatement(slot *ast.Statement, ctx *traverse.Ctx) {
	switch s := (*slot).(type) {
	case *ast.IfStatement:
		r.foldIf(slot, s, ctx)
	case *ast.ForStatement:
		r.foldFor(slot, s, ctx)
	case *ast.WhileStatement:
		if isFalse(s.Test, ctx) {
			replaceStatement(slot, ast.HoistedVars(s.Body))
			r.changed()
		}
	case *ast.ExpressionStatement:
		r.dropUnused(slot, s, ctx)
	}
}

func (r *removeDeadCode) foldIf(slot *ast.Statement, s *ast.IfStatement, ctx *traverse.Ctx) {
	if b, ok := ecmascript.ToBooleanOf(s.Test, ctx.IsGlobalReference); ok && isPure(s.Test, ctx) {
		kept, dropped := s.Consequent, s.Alternate
		if !b {
			kept, dropped = dropped, kept
		}
		replaceStatement(slot, withHoistedVars(kept, dropped))
		r.changed()
		return
	}
	if s.Alternate != nil && ast.IsEmpty(s.Alternate) {
		s.Alternate = nil
		r.changed()
	}
	if s.Alternate == nil && ast.IsEmpty(s.Consequent) {
		*slot = &ast.ExpressionStatement{Expression: s.Test}
		r.changed()
	}
}

// foldFor removes a loop whose test is false on entry, keeping its init.
func (r *removeDeadCode) foldFor(slot *ast.Statement, s *ast.ForStatement, ctx *traverse.Ctx) {
	if s.Test == nil || !isFalse(s.Test, ctx) {
		return
	}
	var init ast.Statement
	switch n := s.Init.(type) {
	case *ast.VariableDeclaration:
		init = n
		if n.DeclKind != ast.Var {
			init = &ast.BlockStatement{Statements: []ast.Statement{n}}
		}
	case ast.Expression:
		init = &ast.ExpressionStatement{Expression: n}
	}
	replaceStatement(slot, withHoistedVars(init, s.Body))
	r.changed()
}

// isFalse reports whether test is falsy and evaluating it has no effect.
func isFalse(test ast.Expression, ctx *traverse.Ctx) bool {
	b, ok := ecmascript.ToBooleanOf(test, ctx.IsGlobalReference)
	return ok && !b && isPure(test, ctx)
}

func (r *removeDeadCode) dropUnused(slot *ast.Statement, s *ast.ExpressionStatement, ctx *traverse.Ctx) {
	if isPure(s.Expression, ctx) {
		*slot = &ast.EmptyStatement{}
		r.changed()
		return
	}
	seq, ok := s.Expression.(*ast.SequenceExpression)
	if !ok {
		return
	}
	var kept []ast.Expression
	for _, e := range seq.Expressions {
		if !isPure(e, ctx) {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(seq.Expressions) {
		return
	}
	s.Expression = sequence(kept...)
	r.changed()
}

func (r *removeDeadCode) ExitStatements(list *[]ast.Statement, _ *traverse.Ctx) {
	stmts := *list
	if n := dropEmpty(stmts); n < len(stmts) {
		stmts = stmts[:n]
		r.changed()
	}
	if tail, ok := truncateUnreachable(stmts); ok {
		stmts = tail
		r.changed()
	}
	if flat, ok := flattenBlocks(stmts); ok {
		stmts = flat
		r.changed()
	}
	*list = stmts
}

// dropEmpty compacts stmts in place and returns the number kept.
func dropEmpty(stmts []ast.Statement) int {
	n := 0
	for _, s := range stmts {
		if !ast.IsEmpty(s) {
			stmts[n] = s
			n++
		}
	}
	clear(stmts[n:])
	return n
}

// truncateUnreachable removes what follows the first return, throw, break
// or continue. Function declarations survive, as do the names of vars, so
// that hoisting still sees them.
func truncateUnreachable(stmts []ast.Statement) ([]ast.Statement, bool) {
	end := -1
	for i, s := range stmts {
		if ast.IsTerminator(s) {
			end = i + 1
			break
		}
	}
	if end < 0 || end == len(stmts) || onlyDeclarations(stmts[end:]) {
		return stmts, false
	}
	out := stmts[:end:end]
	for _, s := range stmts[end:] {
		switch d := s.(type) {
		case *ast.FunctionDeclaration:
			out = append(out, d)
		case *ast.VariableDeclaration:
			if d.DeclKind != ast.Var {
				out = append(out, bareLet(d))
				continue
			}
			out = append(out, ast.HoistedVars(d))
		default:
			if vars := ast.HoistedVars(s); vars != nil {
				out = append(out, vars)
			}
		}
	}
	return out, true
}

// onlyDeclarations reports whether stmts hold nothing but function
// declarations and declarations without initializers.
func onlyDeclarations(stmts []ast.Statement) bool {
	for _, s := range stmts {
		switch d := s.(type) {
		case *ast.FunctionDeclaration:
		case *ast.VariableDeclaration:
			if d.DeclKind == ast.Const {
				return false
			}
			for _, decl := range d.Declarations {
				if decl.Init != nil {
					return false
				}
			}
		default:
			return false
		}
	}
	return true
}

// bareLet keeps the bindings of an unreachable let or const.
func bareLet(d *ast.VariableDeclaration) *ast.VariableDeclaration {
	out := &ast.VariableDeclaration{DeclKind: ast.Let}
	for _, decl := range d.Declarations {
		out.Declarations = append(out.Declarations, &ast.VariableDeclarator{Name: decl.Name})
	}
	return out
}

// flattenBlocks splices nested blocks into the list when that does not
// change the scope of anything they declare.
func flattenBlocks(stmts []ast.Statement) ([]ast.Statement, bool) {
	flattenable := func(s ast.Statement) bool {
		b, ok := s.(*ast.BlockStatement)
		if !ok {
			return false
		}
		for _, inner := range b.Statements {
			if ast.IsLexicalDeclaration(inner) {
				return false
			}
		}
		return true
	}

	found := false
	for _, s := range stmts {
		if flattenable(s) {
			found = true
			break
		}
	}
	if !found {
		return stmts, false
	}
	out := make([]ast.Statement, 0, len(stmts))
	for _, s := range stmts {
		if flattenable(s) {
			out = append(out, s.(*ast.BlockStatement).Statements...)
			continue
		}
		out = append(out, s)
	}
	return out, true
}

func (r *removeDeadCode) ExitExpression(slot *ast.Expression, ctx *traverse.Ctx) {
	var repl ast.Expression
	switch e := (*slot).(type) {
	case *ast.ConditionalExpression:
		b, ok := ecmascript.ToBooleanOf(e.Test, ctx.IsGlobalReference)
		if !ok || !isPure(e.Test, ctx) {
			return
		}
		repl = e.Alternate
		if b {
			repl = e.Consequent
		}
	case *ast.SequenceExpression:
		last := len(e.Expressions) - 1
		kept := make([]ast.Expression, 0, len(e.Expressions))
		for i, x := range e.Expressions {
			if i == last || !isPure(x, ctx) {
				kept = append(kept, x)
			}
		}
		if len(kept) == len(e.Expressions) {
			return
		}
		repl = sequence(kept...)
	default:
		return
	}
	if loosesReceiver(slot, repl, ctx) {
		return
	}
	*slot = repl
	r.changed()
}
