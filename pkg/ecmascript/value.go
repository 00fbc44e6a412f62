package ecmascript

import (
	"math"
	"unicode/utf16"

	"github.com/nooga/squash/pkg/ast"
)

// Kind is the type tag of a constant Value.
type Kind uint8

const (
	Undefined Kind = iota
	Null
	Boolean
	Number
	String
)

// Value is a primitive JavaScript value known at compile time.
type Value struct {
	Kind Kind
	Bool bool
	Num  float64
	Str  string
}

// UndefinedValue returns undefined.
func UndefinedValue() Value { return Value{Kind: Undefined} }

// NullValue returns null.
func NullValue() Value { return Value{Kind: Null} }

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{Kind: Boolean, Bool: b} }

// NumberValue wraps a number.
func NumberValue(f float64) Value { return Value{Kind: Number, Num: f} }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{Kind: String, Str: s} }

// IsNumber reports whether v is a number.
func (v Value) IsNumber() bool { return v.Kind == Number }

// IsString reports whether v is a string.
func (v Value) IsString() bool { return v.Kind == String }

// IsNullish reports whether v is undefined or null.
func (v Value) IsNullish() bool { return v.Kind == Undefined || v.Kind == Null }

// GlobalReference reports whether an identifier resolves to the global
// object rather than to a local binding.
type GlobalReference func(name string) bool

// Constant evaluates e when it is a primitive literal: number, string,
// boolean, null, `void 0`, a negated number, `!0`/`!1`, or one of the global
// `undefined`, `NaN` and `Infinity`.
func Constant(e ast.Expression, isGlobal GlobalReference) (Value, bool) {
	switch n := e.(type) {
	case *ast.NumberLiteral:
		return NumberValue(n.Value), true
	case *ast.StringLiteral:
		return StringValue(n.Value), true
	case *ast.BooleanLiteral:
		return BoolValue(n.Value), true
	case *ast.NullLiteral:
		return NullValue(), true
	case *ast.Identifier:
		if isGlobal == nil || !isGlobal(n.Name) {
			return Value{}, false
		}
		switch n.Name {
		case "undefined":
			return UndefinedValue(), true
		case "NaN":
			return NumberValue(math.NaN()), true
		case "Infinity":
			return NumberValue(math.Inf(1)), true
		}
	case *ast.UnaryExpression:
		switch n.Operator {
		case "void":
			if !MayHaveSideEffects(n.Argument, isGlobal) {
				return UndefinedValue(), true
			}
		case "-":
			if num, ok := n.Argument.(*ast.NumberLiteral); ok {
				return NumberValue(-num.Value), true
			}
			if id, ok := n.Argument.(*ast.Identifier); ok && id.Name == "Infinity" && isGlobal != nil && isGlobal("Infinity") {
				return NumberValue(math.Inf(-1)), true
			}
		case "!":
			if num, ok := n.Argument.(*ast.NumberLiteral); ok && (num.Value == 0 || num.Value == 1) {
				return BoolValue(num.Value == 0), true
			}
		}
	}
	return Value{}, false
}

// ToExpression converts v back into the smallest equivalent literal node.
// Non-finite numbers have no literal form and report false.
func (v Value) ToExpression() (ast.Expression, bool) {
	switch v.Kind {
	case Undefined:
		return ast.NewUndefined(), true
	case Null:
		return &ast.NullLiteral{}, true
	case Boolean:
		return &ast.BooleanLiteral{Value: v.Bool}, true
	case String:
		return &ast.StringLiteral{Value: v.Str}, true
	case Number:
		if math.IsNaN(v.Num) || math.IsInf(v.Num, 0) {
			return nil, false
		}
		if v.Num < 0 || (v.Num == 0 && math.Signbit(v.Num)) {
			return &ast.UnaryExpression{Operator: "-", Argument: &ast.NumberLiteral{Value: -v.Num}}, true
		}
		return &ast.NumberLiteral{Value: v.Num}, true
	}
	return nil, false
}

// ToBoolean implements the ToBoolean abstract operation.
func (v Value) ToBoolean() bool {
	switch v.Kind {
	case Boolean:
		return v.Bool
	case Number:
		return v.Num != 0 && !math.IsNaN(v.Num)
	case String:
		return v.Str != ""
	}
	return false
}

// ToNumber implements the ToNumber abstract operation.
func (v Value) ToNumber() float64 {
	switch v.Kind {
	case Null:
		return 0
	case Boolean:
		if v.Bool {
			return 1
		}
		return 0
	case Number:
		return v.Num
	case String:
		return StringToNumber(v.Str)
	}
	return math.NaN()
}

// ToJSString implements the ToString abstract operation.
func (v Value) ToJSString() string {
	switch v.Kind {
	case Undefined:
		return "undefined"
	case Null:
		return "null"
	case Boolean:
		if v.Bool {
			return "true"
		}
		return "false"
	case Number:
		return NumberToString(v.Num)
	}
	return v.Str
}

// TypeOf returns the result of the typeof operator.
func (v Value) TypeOf() string {
	switch v.Kind {
	case Undefined:
		return "undefined"
	case Null:
		return "object"
	case Boolean:
		return "boolean"
	case Number:
		return "number"
	}
	return "string"
}

// UTF16 returns the code units of s.
func UTF16(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

// FromUTF16 decodes units, reporting false when they contain a lone
// surrogate that a Go string cannot carry.
func FromUTF16(units []uint16) (string, bool) {
	for i := 0; i < len(units); i++ {
		u := rune(units[i])
		if !utf16.IsSurrogate(u) {
			continue
		}
		if u >= 0xDC00 || i+1 >= len(units) || rune(units[i+1]) < 0xDC00 || rune(units[i+1]) > 0xDFFF {
			return "", false
		}
		i++
	}
	return string(utf16.Decode(units)), true
}

// IsLiteralValue reports whether e evaluates to a constant primitive.
func IsLiteralValue(e ast.Expression, isGlobal GlobalReference) bool {
	_, ok := Constant(e, isGlobal)
	return ok
}
