package ecmascript

import "github.com/nooga/squash/pkg/ast"

// knownGlobals are global bindings whose read never throws.
var knownGlobals = map[string]bool{
	"undefined": true, "NaN": true, "Infinity": true,
	"Array": true, "Boolean": true, "Date": true, "Error": true, "Function": true,
	"JSON": true, "Math": true, "Number": true, "Object": true, "Promise": true,
	"RegExp": true, "String": true, "Symbol": true, "isNaN": true, "isFinite": true,
	"parseInt": true, "parseFloat": true, "encodeURIComponent": true,
	"decodeURIComponent": true, "encodeURI": true, "decodeURI": true,
}

// MayHaveSideEffects conservatively reports whether evaluating e could be
// observable. Reads of unknown globals count as side effects since they may
// throw a ReferenceError.
func MayHaveSideEffects(e ast.Expression, isGlobal GlobalReference) bool {
	switch n := e.(type) {
	case nil:
		return false
	case *ast.NumberLiteral, *ast.StringLiteral, *ast.BooleanLiteral, *ast.NullLiteral,
		*ast.RegExpLiteral, *ast.ThisExpression, *ast.FunctionExpression, *ast.ArrowFunctionExpression:
		return false
	case *ast.Identifier:
		return isGlobal != nil && isGlobal(n.Name) && !knownGlobals[n.Name]
	case *ast.ArrayExpression:
		for _, el := range n.Elements {
			if MayHaveSideEffects(el, isGlobal) {
				return true
			}
		}
		return false
	case *ast.ObjectExpression:
		for _, prop := range n.Properties {
			if prop.Key.Computed && !isPrimitiveLiteral(prop.Key.Expr) {
				return true
			}
			if MayHaveSideEffects(prop.Value, isGlobal) {
				return true
			}
		}
		return false
	case *ast.UnaryExpression:
		switch n.Operator {
		case "!", "void":
			return MayHaveSideEffects(n.Argument, isGlobal)
		case "typeof":
			if _, ok := n.Argument.(*ast.Identifier); ok {
				return false
			}
			return MayHaveSideEffects(n.Argument, isGlobal)
		case "-", "+", "~":
			if _, ok := Constant(n.Argument, isGlobal); ok {
				return false
			}
		}
		return true
	case *ast.BinaryExpression:
		switch n.Operator {
		case "===", "!==":
			return MayHaveSideEffects(n.Left, isGlobal) || MayHaveSideEffects(n.Right, isGlobal)
		case "in", "instanceof":
			return true
		}
		// Other operators may call valueOf/toString on objects.
		_, lok := Constant(n.Left, isGlobal)
		_, rok := Constant(n.Right, isGlobal)
		return !lok || !rok
	case *ast.LogicalExpression:
		return MayHaveSideEffects(n.Left, isGlobal) || MayHaveSideEffects(n.Right, isGlobal)
	case *ast.ConditionalExpression:
		return MayHaveSideEffects(n.Test, isGlobal) ||
			MayHaveSideEffects(n.Consequent, isGlobal) ||
			MayHaveSideEffects(n.Alternate, isGlobal)
	case *ast.SequenceExpression:
		for _, x := range n.Expressions {
			if MayHaveSideEffects(x, isGlobal) {
				return true
			}
		}
		return false
	}
	return true
}

func isPrimitiveLiteral(e ast.Expression) bool {
	switch e.(type) {
	case *ast.NumberLiteral, *ast.StringLiteral, *ast.BooleanLiteral, *ast.NullLiteral:
		return true
	}
	return false
}

// ToBooleanOf evaluates the truthiness of e when it is known statically,
// including object-like literals which are always truthy.
func ToBooleanOf(e ast.Expression, isGlobal GlobalReference) (bool, bool) {
	switch e.(type) {
	case *ast.ArrayExpression, *ast.ObjectExpression, *ast.FunctionExpression,
		*ast.ArrowFunctionExpression, *ast.RegExpLiteral:
		return true, true
	}
	if v, ok := Constant(e, isGlobal); ok {
		return v.ToBoolean(), true
	}
	return false, false
}

// TypeOf returns the static result of `typeof e`, if known.
func TypeOf(e ast.Expression, isGlobal GlobalReference) (string, bool) {
	switch n := e.(type) {
	case *ast.FunctionExpression, *ast.ArrowFunctionExpression:
		return "function", true
	case *ast.ArrayExpression, *ast.ObjectExpression, *ast.RegExpLiteral:
		return "object", true
	case *ast.UnaryExpression:
		switch n.Operator {
		case "!", "delete":
			return "boolean", true
		case "typeof":
			return "string", true
		case "void":
			return "undefined", true
		}
	}
	if v, ok := Constant(e, isGlobal); ok {
		return v.TypeOf(), true
	}
	return "", false
}
