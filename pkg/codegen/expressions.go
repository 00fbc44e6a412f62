package codegen

import (
	"fmt"
	"math"
	"strings"

	"github.com/nooga/squash/pkg/ast"
)

// Binding power of each expression form, loosest first.
const (
	_ int = iota
	precLowest
	precComma
	precAssign // also arrows and spread
	precTernary
	precCoalesce
	precLogicalOr
	precLogicalAnd
	precBitwiseOr
	precBitwiseXor
	precBitwiseAnd
	precEquality
	precRelational
	precShift
	precSum
	precProduct
	precExponent
	precPrefix
	precPostfix
	precCall
	precPrimary
)

var binaryPrecedence = map[string]int{
	"??": precCoalesce,
	"||": precLogicalOr,
	"&&": precLogicalAnd,
	"|":  precBitwiseOr,
	"^":  precBitwiseXor,
	"&":  precBitwiseAnd,
	"==": precEquality, "!=": precEquality, "===": precEquality, "!==": precEquality,
	"<": precRelational, ">": precRelational, "<=": precRelational, ">=": precRelational,
	"in": precRelational, "instanceof": precRelational,
	"<<": precShift, ">>": precShift, ">>>": precShift,
	"+": precSum, "-": precSum,
	"*": precProduct, "/": precProduct, "%": precProduct,
	"**": precExponent,
}

func precedenceOf(e ast.Expression) int {
	switch n := e.(type) {
	case *ast.SequenceExpression:
		return precComma
	case *ast.AssignmentExpression, *ast.ArrowFunctionExpression, *ast.SpreadElement:
		return precAssign
	case *ast.ConditionalExpression:
		return precTernary
	case *ast.LogicalExpression:
		return binaryPrecedence[n.Operator]
	case *ast.BinaryExpression:
		return binaryPrecedence[n.Operator]
	case *ast.UnaryExpression:
		return precPrefix
	case *ast.UpdateExpression:
		if n.Prefix {
			return precPrefix
		}
		return precPostfix
	case *ast.CallExpression, *ast.MemberExpression, *ast.NewExpression:
		return precCall
	case *ast.NumberLiteral:
		switch {
		case math.IsInf(n.Value, 0) || math.IsNaN(n.Value):
			return precProduct // printed as 1/0 or 0/0
		case n.Value < 0 || n.Value == 0 && math.Signbit(n.Value):
			return precPrefix
		}
	}
	return precPrimary
}

// leftmost returns the expression whose first token starts e.
func leftmost(e ast.Expression) ast.Expression {
	for {
		switch n := e.(type) {
		case *ast.BinaryExpression:
			e = n.Left
		case *ast.LogicalExpression:
			e = n.Left
		case *ast.ConditionalExpression:
			e = n.Test
		case *ast.AssignmentExpression:
			e = n.Target
		case *ast.SequenceExpression:
			e = n.Expressions[0]
		case *ast.CallExpression:
			e = n.Callee
		case *ast.MemberExpression:
			e = n.Object
		case *ast.UpdateExpression:
			if n.Prefix {
				return e
			}
			e = n.Argument
		default:
			return e
		}
	}
}

// printExpr prints e, wrapping it in parentheses when it binds looser than
// minPrec.
func (p *Printer) printExpr(e ast.Expression, minPrec int) {
	prec := precedenceOf(e)
	if bin, ok := e.(*ast.BinaryExpression); ok && bin.Operator == "in" && p.noIn {
		prec = 0
	}
	if prec < minPrec {
		p.print("(")
		p.withIn(func() { p.emitExpression(e, precLowest) })
		p.print(")")
		return
	}
	p.emitExpression(e, minPrec)
}

func (p *Printer) emitExpression(e ast.Expression, minPrec int) {
	switch n := e.(type) {
	case *ast.Identifier:
		p.print(n.Name)
	case *ast.NumberLiteral:
		p.print(formatNumber(n.Value))
	case *ast.StringLiteral:
		p.print(quote(n.Value))
	case *ast.BooleanLiteral:
		if n.Value {
			p.print("true")
		} else {
			p.print("false")
		}
	case *ast.NullLiteral:
		p.print("null")
	case *ast.ThisExpression:
		p.print("this")
	case *ast.RegExpLiteral:
		p.print("/" + n.Pattern + "/" + n.Flags)
		p.flagless = n.Flags == ""
	case *ast.ArrayExpression:
		p.emitArray(n)
	case *ast.ObjectExpression:
		p.emitObject(n)
	case *ast.FunctionExpression:
		p.emitFunction("function", n.Func)
	case *ast.ArrowFunctionExpression:
		p.emitArrow(n)
	case *ast.UnaryExpression:
		p.print(n.Operator)
		p.printExpr(n.Argument, precPrefix)
	case *ast.UpdateExpression:
		if n.Prefix {
			p.print(n.Operator)
			p.printExpr(n.Argument, precPrefix)
		} else {
			p.printExpr(n.Argument, precPostfix)
			p.print(n.Operator)
		}
	case *ast.BinaryExpression:
		p.emitBinary(n.Operator, n.Left, n.Right)
	case *ast.LogicalExpression:
		p.emitBinary(n.Operator, n.Left, n.Right)
	case *ast.ConditionalExpression:
		p.printExpr(n.Test, precCoalesce)
		p.print("?")
		p.withIn(func() { p.printExpr(n.Consequent, precAssign) })
		p.print(":")
		p.printExpr(n.Alternate, precAssign)
	case *ast.AssignmentExpression:
		p.printExpr(n.Target, precCall)
		p.print(n.Operator)
		p.printExpr(n.Value, precAssign)
	case *ast.SequenceExpression:
		for i, x := range n.Expressions {
			if i > 0 {
				p.print(",")
			}
			p.printExpr(x, precAssign)
		}
	case *ast.CallExpression:
		p.printExpr(n.Callee, precCall)
		p.emitArguments(n.Arguments)
	case *ast.NewExpression:
		p.emitNew(n, minPrec)
	case *ast.MemberExpression:
		p.emitMember(n)
	case *ast.SpreadElement:
		p.print("...")
		p.printExpr(n.Argument, precAssign)
	default:
		panic(fmt.Sprintf("codegen: unsupported expression %T", e))
	}
}

func (p *Printer) emitBinary(op string, left, right ast.Expression) {
	prec := binaryPrecedence[op]
	leftPrec, rightPrec := prec, prec+1
	if op == "**" {
		// Right-associative, and a unary operand on the left is a syntax error.
		leftPrec, rightPrec = precPostfix, prec
	}
	p.printOperand(op, left, leftPrec)
	p.print(op)
	p.printOperand(op, right, rightPrec)
}

// printOperand prints an operand of op. ?? cannot be mixed with || or &&
// without parentheses.
func (p *Printer) printOperand(op string, e ast.Expression, minPrec int) {
	if l, ok := e.(*ast.LogicalExpression); ok && op == "??" && l.Operator != "??" {
		minPrec = precPrimary
	}
	p.printExpr(e, minPrec)
}

func (p *Printer) emitArguments(args []ast.Expression) {
	p.print("(")
	p.withIn(func() {
		for i, arg := range args {
			if i > 0 {
				p.print(",")
			}
			p.printExpr(arg, precAssign)
		}
	})
	p.print(")")
}

func (p *Printer) emitNew(n *ast.NewExpression, minPrec int) {
	p.print("new")
	if hasCall(n.Callee) {
		p.print("(")
		p.withIn(func() { p.printExpr(n.Callee, precLowest) })
		p.print(")")
	} else {
		p.printExpr(n.Callee, precCall)
	}
	if len(n.Arguments) == 0 && minPrec < precCall {
		return
	}
	p.emitArguments(n.Arguments)
}

// hasCall reports whether a call sits on the member chain of e, which would
// end a `new` callee early.
func hasCall(e ast.Expression) bool {
	for {
		switch n := e.(type) {
		case *ast.CallExpression:
			return true
		case *ast.MemberExpression:
			e = n.Object
		default:
			return false
		}
	}
}

func (p *Printer) emitMember(n *ast.MemberExpression) {
	p.printExpr(n.Object, precCall)
	if n.Computed {
		p.print("[")
		p.withIn(func() { p.printExpr(n.Property, precLowest) })
		p.print("]")
		return
	}
	if lit, ok := n.Object.(*ast.NumberLiteral); ok && precedenceOf(lit) == precPrimary {
		// 1.toString would lex as a malformed number.
		if s := formatNumber(lit.Value); !strings.ContainsAny(s, ".eExX") {
			p.buf.WriteByte('.')
		}
	}
	p.print(".")
	p.print(n.Property.(*ast.Identifier).Name)
}

func (p *Printer) emitArray(n *ast.ArrayExpression) {
	p.print("[")
	p.withIn(func() {
		for i, el := range n.Elements {
			if i > 0 {
				p.print(",")
			}
			if el != nil {
				p.printExpr(el, precAssign)
			}
		}
		if len(n.Elements) > 0 && n.Elements[len(n.Elements)-1] == nil {
			p.print(",")
		}
	})
	p.print("]")
}

func (p *Printer) emitObject(n *ast.ObjectExpression) {
	p.print("{")
	p.withIn(func() {
		for i, prop := range n.Properties {
			if i > 0 {
				p.print(",")
			}
			p.emitProperty(prop)
		}
	})
	p.print("}")
}

func (p *Printer) emitProperty(prop *ast.Property) {
	if prop.Shorthand && !prop.Key.Computed {
		key, kok := prop.Key.Expr.(*ast.Identifier)
		val, vok := prop.Value.(*ast.Identifier)
		if kok && vok && key.Name == val.Name {
			p.print(key.Name)
			return
		}
	}
	p.emitPropertyKey(prop.Key)
	p.print(":")
	p.printExpr(prop.Value, precAssign)
}

func (p *Printer) emitPropertyKey(key *ast.PropertyKey) {
	if key.Computed {
		p.print("[")
		p.printExpr(key.Expr, precAssign)
		p.print("]")
		return
	}
	switch k := key.Expr.(type) {
	case *ast.Identifier:
		p.print(k.Name)
	case *ast.StringLiteral:
		p.print(quote(k.Value))
	case *ast.NumberLiteral:
		p.print(formatNumber(k.Value))
	default:
		panic(fmt.Sprintf("codegen: unsupported property key %T", key.Expr))
	}
}

func (p *Printer) emitArrow(n *ast.ArrowFunctionExpression) {
	if len(n.Params) == 1 {
		p.print(n.Params[0].Name)
	} else {
		p.emitParams(n.Params)
	}
	p.print("=>")
	if n.Body != nil {
		p.emitFunctionBody(n.Body)
		return
	}
	if _, ok := leftmost(n.Expr).(*ast.ObjectExpression); ok {
		p.print("(")
		p.withIn(func() { p.printExpr(n.Expr, precLowest) })
		p.print(")")
		return
	}
	p.printExpr(n.Expr, precAssign)
}
