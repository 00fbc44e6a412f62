package minifier

import (
	"github.com/nooga/squash/pkg/ast"
	"github.com/nooga/squash/pkg/traverse"
)

// minimizeConditions rewrites if statements into shorter expression forms
// and simplifies negations. No other rule undoes these rewrites, so it
// behaves the same inside and outside the fixed-point loop.
type minimizeConditions struct {
	traverse.Base
	changed func()
}

var negatedEquality = map[string]string{
	"==":  "!=",
	"!=":  "==",
	"===": "!==",
	"!==": "===",
}

func (r *minimizeConditions) ExitStatement(slot *ast.Statement, _ *traverse.Ctx) {
	s, ok := (*slot).(*ast.IfStatement)
	if !ok {
		return
	}
	if unwrapped, ok := unwrapBlock(s.Consequent); ok {
		s.Consequent = unwrapped
		r.changed()
	}
	if s.Alternate != nil {
		if unwrapped, ok := unwrapBlock(s.Alternate); ok {
			s.Alternate = unwrapped
			r.changed()
		}
	}

	if s.Alternate != nil && ast.IsEmpty(s.Consequent) && !ast.IsEmpty(s.Alternate) {
		s.Test, s.Consequent, s.Alternate = negate(s.Test), s.Alternate, nil
		r.changed()
	}
	if not, ok := s.Test.(*ast.UnaryExpression); ok && not.Operator == "!" && s.Alternate != nil {
		s.Test, s.Consequent, s.Alternate = not.Argument, s.Alternate, s.Consequent
		r.changed()
	}

	if repl := r.ifToExpression(s); repl != nil {
		*slot = repl
		r.changed()
	}
}

// unwrapBlock returns the only statement of a block, unless it declares
// something the block scopes.
func unwrapBlock(s ast.Statement) (ast.Statement, bool) {
	b, ok := s.(*ast.BlockStatement)
	if !ok || len(b.Statements) != 1 || ast.IsLexicalDeclaration(b.Statements[0]) {
		return nil, false
	}
	return b.Statements[0], true
}

func (r *minimizeConditions) ifToExpression(s *ast.IfStatement) ast.Statement {
	cons, consIsExpr := s.Consequent.(*ast.ExpressionStatement)
	if s.Alternate == nil {
		if !consIsExpr {
			return nil
		}
		op, test := "&&", s.Test
		if not, ok := test.(*ast.UnaryExpression); ok && not.Operator == "!" {
			op, test = "||", not.Argument
		}
		return &ast.ExpressionStatement{Expression: &ast.LogicalExpression{
			Operator: op, Left: test, Right: cons.Expression,
		}}
	}

	switch alt := s.Alternate.(type) {
	case *ast.ExpressionStatement:
		if !consIsExpr {
			return nil
		}
		return &ast.ExpressionStatement{Expression: &ast.ConditionalExpression{
			Test: s.Test, Consequent: cons.Expression, Alternate: alt.Expression,
		}}
	case *ast.ReturnStatement:
		ret, ok := s.Consequent.(*ast.ReturnStatement)
		if !ok || ret.Argument == nil || alt.Argument == nil {
			return nil
		}
		return &ast.ReturnStatement{Argument: &ast.ConditionalExpression{
			Test: s.Test, Consequent: ret.Argument, Alternate: alt.Argument,
		}}
	}
	return nil
}

// ExitStatements folds `if (a) return b; return c;` into one return.
func (r *minimizeConditions) ExitStatements(list *[]ast.Statement, _ *traverse.Ctx) {
	stmts := *list
	out := stmts[:0]
	for i := 0; i < len(stmts); i++ {
		if i+1 < len(stmts) {
			if ret := returnEither(stmts[i], stmts[i+1]); ret != nil {
				out = append(out, ret)
				i++
				r.changed()
				continue
			}
		}
		out = append(out, stmts[i])
	}
	clear(stmts[len(out):])
	*list = out
}

func returnEither(first, second ast.Statement) ast.Statement {
	s, ok := first.(*ast.IfStatement)
	if !ok || s.Alternate != nil {
		return nil
	}
	cons, ok := s.Consequent.(*ast.ReturnStatement)
	if !ok || cons.Argument == nil {
		return nil
	}
	alt, ok := second.(*ast.ReturnStatement)
	if !ok || alt.Argument == nil {
		return nil
	}
	return &ast.ReturnStatement{Argument: &ast.ConditionalExpression{
		Test: s.Test, Consequent: cons.Argument, Alternate: alt.Argument,
	}}
}

func (r *minimizeConditions) ExitExpression(slot *ast.Expression, _ *traverse.Ctx) {
	var repl ast.Expression
	switch e := (*slot).(type) {
	case *ast.UnaryExpression:
		if e.Operator != "!" {
			return
		}
		switch arg := e.Argument.(type) {
		case *ast.UnaryExpression:
			if arg.Operator == "!" && isBooleanValued(arg.Argument) {
				repl = arg.Argument
			}
		case *ast.BinaryExpression:
			if op, ok := negatedEquality[arg.Operator]; ok {
				repl = &ast.BinaryExpression{Operator: op, Left: arg.Left, Right: arg.Right}
			}
		}
	case *ast.ConditionalExpression:
		if not, ok := e.Test.(*ast.UnaryExpression); ok && not.Operator == "!" {
			e.Test, e.Consequent, e.Alternate = not.Argument, e.Alternate, e.Consequent
			r.changed()
		}
		cons, ok1 := booleanConstant(e.Consequent)
		alt, ok2 := booleanConstant(e.Alternate)
		if !ok1 || !ok2 || cons == alt {
			return
		}
		if cons {
			repl = ast.NewNot(negate(e.Test))
			if isBooleanValued(e.Test) {
				repl = e.Test
			}
		} else {
			repl = negate(e.Test)
		}
	}
	if repl == nil {
		return
	}
	*slot = repl
	r.changed()
}

// booleanConstant matches true, false and their short forms !0 and !1.
func booleanConstant(e ast.Expression) (bool, bool) {
	switch n := e.(type) {
	case *ast.BooleanLiteral:
		return n.Value, true
	case *ast.UnaryExpression:
		if num, ok := n.Argument.(*ast.NumberLiteral); ok && n.Operator == "!" && (num.Value == 0 || num.Value == 1) {
			return num.Value == 0, true
		}
	}
	return false, false
}
