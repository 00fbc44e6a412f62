package minifier

import (
	"math"

	"github.com/nooga/squash/pkg/ast"
	"github.com/nooga/squash/pkg/ecmascript"
	"github.com/nooga/squash/pkg/traverse"
)

func isPure(e ast.Expression, ctx *traverse.Ctx) bool {
	return !ecmascript.MayHaveSideEffects(e, ctx.IsGlobalReference)
}

// loosesReceiver reports whether putting repl into slot would change a call's
// this value or turn an indirect eval into a direct one: `(0, a.b)()` must
// not become `a.b()`.
func loosesReceiver(slot *ast.Expression, repl ast.Expression, ctx *traverse.Ctx) bool {
	switch repl.(type) {
	case *ast.MemberExpression, *ast.Identifier:
	default:
		return false
	}
	switch p := ctx.Parent().(type) {
	case *ast.CallExpression:
		return p.Callee == *slot
	case *ast.UnaryExpression:
		return p.Operator == "delete"
	}
	return false
}

// negate returns an expression with the opposite truthiness of e.
func negate(e ast.Expression) ast.Expression {
	if u, ok := e.(*ast.UnaryExpression); ok && u.Operator == "!" {
		if isBooleanValued(u.Argument) {
			return u.Argument
		}
	}
	return ast.NewNot(e)
}

// isBooleanValued reports whether e always evaluates to a boolean.
func isBooleanValued(e ast.Expression) bool {
	switch n := e.(type) {
	case *ast.BooleanLiteral:
		return true
	case *ast.UnaryExpression:
		return n.Operator == "!" || n.Operator == "delete"
	case *ast.BinaryExpression:
		switch n.Operator {
		case "==", "!=", "===", "!==", "<", ">", "<=", ">=", "in", "instanceof":
			return true
		}
	case *ast.LogicalExpression:
		return n.Operator != "??" && isBooleanValued(n.Left) && isBooleanValued(n.Right)
	}
	return false
}

// sequence joins expressions, flattening nested sequences. A single
// expression is returned as is.
func sequence(exprs ...ast.Expression) ast.Expression {
	var flat []ast.Expression
	for _, e := range exprs {
		if seq, ok := e.(*ast.SequenceExpression); ok {
			flat = append(flat, seq.Expressions...)
		} else {
			flat = append(flat, e)
		}
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return &ast.SequenceExpression{Expressions: flat}
}

// numberFits reports whether a folded number prints no longer than the
// source it replaces, so folding 1/3 into 0.333... is avoided.
func numberFits(v float64, budget int) bool {
	if v == math.Trunc(v) {
		return true
	}
	return len(ecmascript.NumberToString(math.Abs(v))) <= budget
}

// sourceLength estimates the printed length of a constant operand.
func sourceLength(e ast.Expression) int {
	switch n := e.(type) {
	case *ast.NumberLiteral:
		if n.Raw != "" {
			return len(n.Raw)
		}
		return len(ecmascript.NumberToString(n.Value))
	case *ast.UnaryExpression:
		return 1 + sourceLength(n.Argument)
	case *ast.StringLiteral:
		return len(n.Value) + 2
	}
	return 4
}

// replaceStatement stores repl in slot, using an empty statement for nil.
func replaceStatement(slot *ast.Statement, repl ast.Statement) {
	if repl == nil {
		repl = &ast.EmptyStatement{}
	}
	*slot = repl
}

// withHoistedVars keeps the var bindings of dropped alive next to kept.
func withHoistedVars(kept ast.Statement, dropped ast.Statement) ast.Statement {
	vars := ast.HoistedVars(dropped)
	if vars == nil {
		return kept
	}
	if kept == nil || ast.IsEmpty(kept) {
		return vars
	}
	return &ast.BlockStatement{Statements: []ast.Statement{kept, vars}}
}

// usesThisOrArguments reports whether a function body refers to its own
// this or arguments. Nested non-arrow functions have their own and are
// skipped.
func usesThisOrArguments(fn *ast.Function) bool {
	found := false
	ast.Inspect(fn.Body, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.ThisExpression:
			found = true
		case *ast.Identifier:
			if n.Name == "arguments" {
				found = true
			}
		case *ast.FunctionExpression, *ast.FunctionDeclaration:
			return false
		}
		return !found
	})
	return found
}

// referencesName reports whether name occurs as an identifier anywhere in node.
func referencesName(node ast.Node, name string) bool {
	found := false
	ast.Inspect(node, func(n ast.Node) bool {
		if id, ok := n.(*ast.Identifier); ok && id.Name == name {
			found = true
		}
		return !found
	})
	return found
}
