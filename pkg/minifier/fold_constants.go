package minifier

import (
	"math"

	"github.com/nooga/squash/pkg/ast"
	"github.com/nooga/squash/pkg/ecmascript"
	"github.com/nooga/squash/pkg/traverse"
)

// foldConstants evaluates operators whose operands are known at compile time.
type foldConstants struct {
	traverse.Base
	changed func()
}

func (r *foldConstants) ExitExpression(slot *ast.Expression, ctx *traverse.Ctx) {
	var repl ast.Expression
	switch e := (*slot).(type) {
	case *ast.UnaryExpression:
		repl = r.foldUnary(e, ctx)
	case *ast.BinaryExpression:
		repl = r.foldBinary(e, ctx)
	case *ast.LogicalExpression:
		repl = r.foldLogical(e, ctx)
	}
	if repl == nil || loosesReceiver(slot, repl, ctx) {
		return
	}
	*slot = repl
	r.changed()
}

func (r *foldConstants) foldUnary(e *ast.UnaryExpression, ctx *traverse.Ctx) ast.Expression {
	isGlobal := ctx.IsGlobalReference
	switch e.Operator {
	case "!":
		// !0 and !1 are the short spelling of the booleans; keep them.
		if _, ok := e.Argument.(*ast.NumberLiteral); ok {
			return nil
		}
		if b, ok := ecmascript.ToBooleanOf(e.Argument, isGlobal); ok && isPure(e.Argument, ctx) {
			return &ast.BooleanLiteral{Value: !b}
		}
	case "void":
		if ast.IsVoidZero(e) || !isPure(e.Argument, ctx) {
			return nil
		}
		return ast.NewUndefined()
	case "typeof":
		if !isPure(e.Argument, ctx) {
			return nil
		}
		if t, ok := ecmascript.TypeOf(e.Argument, isGlobal); ok {
			return &ast.StringLiteral{Value: t}
		}
	case "-", "+", "~":
		// -1 is already as short as it gets.
		if _, ok := e.Argument.(*ast.NumberLiteral); ok && e.Operator == "-" {
			return nil
		}
		v, ok := ecmascript.Constant(e.Argument, isGlobal)
		if !ok {
			return nil
		}
		n := v.ToNumber()
		switch e.Operator {
		case "-":
			n = -n
		case "~":
			n = float64(^ecmascript.ToInt32(n))
		}
		if out, ok := ecmascript.NumberValue(n).ToExpression(); ok && numberFits(n, sourceLength(e)) {
			return out
		}
	}
	return nil
}

func (r *foldConstants) foldBinary(e *ast.BinaryExpression, ctx *traverse.Ctx) ast.Expression {
	isGlobal := ctx.IsGlobalReference
	left, lok := ecmascript.Constant(e.Left, isGlobal)
	right, rok := ecmascript.Constant(e.Right, isGlobal)
	if !lok || !rok {
		if e.Operator == "+" {
			return foldConcatTail(e, isGlobal)
		}
		return nil
	}

	var result ecmascript.Value
	switch e.Operator {
	case "+":
		if left.IsString() || right.IsString() {
			result = ecmascript.StringValue(left.ToJSString() + right.ToJSString())
		} else {
			result = ecmascript.NumberValue(left.ToNumber() + right.ToNumber())
		}
	case "-", "*", "/", "%", "**":
		result = ecmascript.NumberValue(arithmetic(e.Operator, left.ToNumber(), right.ToNumber()))
	case "<<", ">>", ">>>", "&", "|", "^":
		result = ecmascript.NumberValue(bitwise(e.Operator, left.ToNumber(), right.ToNumber()))
	case "<", ">", "<=", ">=":
		b, ok := compare(e.Operator, left, right)
		if !ok {
			return nil
		}
		result = ecmascript.BoolValue(b)
	case "==":
		result = ecmascript.BoolValue(ecmascript.LooseEquals(left, right))
	case "!=":
		result = ecmascript.BoolValue(!ecmascript.LooseEquals(left, right))
	case "===":
		result = ecmascript.BoolValue(ecmascript.StrictEquals(left, right))
	case "!==":
		result = ecmascript.BoolValue(!ecmascript.StrictEquals(left, right))
	default:
		return nil
	}

	if result.IsNumber() && !numberFits(result.Num, sourceLength(e.Left)+sourceLength(e.Right)+1) {
		return nil
	}
	out, ok := result.ToExpression()
	if !ok {
		return nil
	}
	return out
}

// foldConcatTail folds `x + "a" + "b"` into `x + "ab"`. The inner addition
// already has a string operand, so it is a concatenation whatever x is.
func foldConcatTail(e *ast.BinaryExpression, isGlobal ecmascript.GlobalReference) ast.Expression {
	inner, ok := e.Left.(*ast.BinaryExpression)
	if !ok || inner.Operator != "+" {
		return nil
	}
	mid, ok := inner.Right.(*ast.StringLiteral)
	if !ok {
		return nil
	}
	right, ok := ecmascript.Constant(e.Right, isGlobal)
	if !ok {
		return nil
	}
	return &ast.BinaryExpression{
		Operator: "+",
		Left:     inner.Left,
		Right:    &ast.StringLiteral{Value: mid.Value + right.ToJSString()},
	}
}

func (r *foldConstants) foldLogical(e *ast.LogicalExpression, ctx *traverse.Ctx) ast.Expression {
	if !isPure(e.Left, ctx) {
		return nil
	}
	if e.Operator == "??" {
		v, ok := ecmascript.Constant(e.Left, ctx.IsGlobalReference)
		if !ok {
			return nil
		}
		if v.IsNullish() {
			return e.Right
		}
		return e.Left
	}
	b, ok := ecmascript.ToBooleanOf(e.Left, ctx.IsGlobalReference)
	if !ok {
		return nil
	}
	if (e.Operator == "&&") == b {
		return e.Right
	}
	return e.Left
}

func arithmetic(op string, a, b float64) float64 {
	switch op {
	case "-":
		return a - b
	case "*":
		return a * b
	case "/":
		return a / b
	case "%":
		if math.IsInf(b, 0) && !math.IsInf(a, 0) {
			return a
		}
		return math.Mod(a, b)
	}
	return jsPow(a, b)
}

// jsPow differs from math.Pow where ECMAScript says NaN: 1**Infinity and
// (-1)**Infinity.
func jsPow(a, b float64) float64 {
	if math.IsNaN(b) || math.IsInf(b, 0) && math.Abs(a) == 1 {
		return math.NaN()
	}
	return math.Pow(a, b)
}

func bitwise(op string, a, b float64) float64 {
	x, y := ecmascript.ToInt32(a), ecmascript.ToInt32(b)
	shift := ecmascript.ToUint32(b) & 31
	switch op {
	case "<<":
		return float64(x << shift)
	case ">>":
		return float64(x >> shift)
	case ">>>":
		return float64(ecmascript.ToUint32(a) >> shift)
	case "&":
		return float64(x & y)
	case "|":
		return float64(x | y)
	}
	return float64(x ^ y)
}

func compare(op string, left, right ecmascript.Value) (bool, bool) {
	switch op {
	case "<":
		return ecmascript.Compare(left, right)
	case ">":
		return ecmascript.Compare(right, left)
	case "<=":
		less, defined := ecmascript.Compare(right, left)
		return defined && !less, defined
	}
	less, defined := ecmascript.Compare(left, right)
	return defined && !less, defined
}
