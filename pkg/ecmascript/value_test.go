package ecmascript

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nooga/squash/pkg/ast"
)

func allGlobal(string) bool { return true }

func num(f float64) *ast.NumberLiteral { return &ast.NumberLiteral{Value: f} }

func TestConstant(t *testing.T) {
	tests := []struct {
		name string
		expr ast.Expression
		want Value
	}{
		{"number", num(2), NumberValue(2)},
		{"string", &ast.StringLiteral{Value: "a"}, StringValue("a")},
		{"null", &ast.NullLiteral{}, NullValue()},
		{"void zero", ast.NewUndefined(), UndefinedValue()},
		{"negative", &ast.UnaryExpression{Operator: "-", Argument: num(3)}, NumberValue(-3)},
		{"short true", ast.NewNot(num(0)), BoolValue(true)},
		{"short false", ast.NewNot(num(1)), BoolValue(false)},
		{"undefined", &ast.Identifier{Name: "undefined"}, UndefinedValue()},
		{"negative infinity", &ast.UnaryExpression{Operator: "-", Argument: &ast.Identifier{Name: "Infinity"}}, NumberValue(math.Inf(-1))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := Constant(tt.expr, allGlobal)
			require.True(t, ok)
			assert.Equal(t, tt.want, v)
			assert.True(t, IsLiteralValue(tt.expr, allGlobal))
		})
	}

	_, ok := Constant(&ast.Identifier{Name: "undefined"}, func(string) bool { return false })
	assert.False(t, ok, "a shadowed undefined is not a constant")
	_, ok = Constant(&ast.UnaryExpression{Operator: "void", Argument: &ast.CallExpression{Callee: &ast.Identifier{Name: "f"}}}, allGlobal)
	assert.False(t, ok)
	_, ok = Constant(ast.NewNot(num(2)), allGlobal)
	assert.False(t, ok)
}

func TestToExpression(t *testing.T) {
	e, ok := NumberValue(-2).ToExpression()
	require.True(t, ok)
	u, isUnary := e.(*ast.UnaryExpression)
	require.True(t, isUnary)
	assert.Equal(t, "-", u.Operator)
	assert.Equal(t, 2.0, u.Argument.(*ast.NumberLiteral).Value)

	e, ok = NumberValue(math.Copysign(0, -1)).ToExpression()
	require.True(t, ok)
	assert.IsType(t, &ast.UnaryExpression{}, e)

	_, ok = NumberValue(math.NaN()).ToExpression()
	assert.False(t, ok)
	_, ok = NumberValue(math.Inf(1)).ToExpression()
	assert.False(t, ok)

	e, ok = UndefinedValue().ToExpression()
	require.True(t, ok)
	assert.True(t, ast.IsVoidZero(e))
}

func TestConversions(t *testing.T) {
	assert.False(t, StringValue("").ToBoolean())
	assert.True(t, StringValue("0").ToBoolean())
	assert.False(t, NumberValue(math.NaN()).ToBoolean())
	assert.False(t, NullValue().ToBoolean())

	assert.Equal(t, 0.0, NullValue().ToNumber())
	assert.True(t, math.IsNaN(UndefinedValue().ToNumber()))
	assert.Equal(t, 1.0, BoolValue(true).ToNumber())
	assert.Equal(t, 12.0, StringValue(" 12 ").ToNumber())

	assert.Equal(t, "undefined", UndefinedValue().ToJSString())
	assert.Equal(t, "false", BoolValue(false).ToJSString())
	assert.Equal(t, "1e+21", NumberValue(1e21).ToJSString())

	assert.Equal(t, "object", NullValue().TypeOf())
	assert.Equal(t, "number", NumberValue(1).TypeOf())
}

func TestEquality(t *testing.T) {
	assert.True(t, LooseEquals(NullValue(), UndefinedValue()))
	assert.False(t, StrictEquals(NullValue(), UndefinedValue()))
	assert.True(t, LooseEquals(StringValue("1"), NumberValue(1)))
	assert.True(t, LooseEquals(BoolValue(true), StringValue("1")))
	assert.False(t, LooseEquals(NullValue(), NumberValue(0)))
	assert.False(t, StrictEquals(NumberValue(math.NaN()), NumberValue(math.NaN())))
	assert.True(t, StrictEquals(NumberValue(0), NumberValue(math.Copysign(0, -1))))
}

func TestCompare(t *testing.T) {
	less, ok := Compare(StringValue("a"), StringValue("b"))
	assert.True(t, ok)
	assert.True(t, less)

	less, ok = Compare(StringValue("10"), StringValue("9"))
	assert.True(t, ok)
	assert.True(t, less, "strings compare by code unit")

	less, ok = Compare(StringValue("10"), NumberValue(9))
	assert.True(t, ok)
	assert.False(t, less)

	// U+FF61 sorts after the surrogate pair of U+1F600 by code unit.
	less, ok = Compare(StringValue("\U0001F600"), StringValue("｡"))
	assert.True(t, ok)
	assert.True(t, less)

	_, ok = Compare(NumberValue(math.NaN()), NumberValue(1))
	assert.False(t, ok)
}

func TestUTF16(t *testing.T) {
	assert.Len(t, UTF16("\U0001F600"), 2)

	s, ok := FromUTF16([]uint16{0xD83D, 0xDE00})
	require.True(t, ok)
	assert.Equal(t, "\U0001F600", s)

	_, ok = FromUTF16([]uint16{0xD83D})
	assert.False(t, ok)
	_, ok = FromUTF16([]uint16{0xDE00, 0x61})
	assert.False(t, ok)
}

func TestMayHaveSideEffects(t *testing.T) {
	local := func(string) bool { return false }
	call := &ast.CallExpression{Callee: &ast.Identifier{Name: "f"}}

	assert.False(t, MayHaveSideEffects(num(1), allGlobal))
	assert.False(t, MayHaveSideEffects(&ast.Identifier{Name: "Math"}, allGlobal))
	assert.True(t, MayHaveSideEffects(&ast.Identifier{Name: "foo"}, allGlobal), "an unknown global may throw")
	assert.False(t, MayHaveSideEffects(&ast.Identifier{Name: "foo"}, local))
	assert.True(t, MayHaveSideEffects(call, allGlobal))
	assert.False(t, MayHaveSideEffects(&ast.UnaryExpression{Operator: "typeof", Argument: &ast.Identifier{Name: "foo"}}, allGlobal))
	assert.True(t, MayHaveSideEffects(&ast.BinaryExpression{Operator: "+", Left: &ast.Identifier{Name: "x"}, Right: num(1)}, local),
		"+ on a non-constant may call valueOf")
	assert.False(t, MayHaveSideEffects(&ast.BinaryExpression{Operator: "===", Left: &ast.Identifier{Name: "x"}, Right: num(1)}, local))
	assert.True(t, MayHaveSideEffects(&ast.ArrayExpression{Elements: []ast.Expression{num(1), call}}, allGlobal))
}

func TestToBooleanOfAndTypeOf(t *testing.T) {
	b, ok := ToBooleanOf(&ast.ArrayExpression{}, allGlobal)
	assert.True(t, ok)
	assert.True(t, b)

	_, ok = ToBooleanOf(&ast.Identifier{Name: "x"}, allGlobal)
	assert.False(t, ok)

	typ, ok := TypeOf(&ast.ObjectExpression{}, allGlobal)
	assert.True(t, ok)
	assert.Equal(t, "object", typ)

	typ, ok = TypeOf(ast.NewNot(&ast.Identifier{Name: "x"}), allGlobal)
	assert.True(t, ok)
	assert.Equal(t, "boolean", typ)

	_, ok = TypeOf(&ast.Identifier{Name: "x"}, allGlobal)
	assert.False(t, ok)
}

func TestArrayJoin(t *testing.T) {
	arr := &ast.ArrayExpression{Elements: []ast.Expression{
		num(1), nil, &ast.NullLiteral{},
		&ast.ArrayExpression{Elements: []ast.Expression{num(2), num(3)}},
		&ast.ObjectExpression{},
	}}
	s, ok := ArrayJoin(arr, "|", allGlobal)
	require.True(t, ok)
	assert.Equal(t, "1|||2,3|[object Object]", s)

	_, ok = ArrayJoin(&ast.ArrayExpression{Elements: []ast.Expression{&ast.Identifier{Name: "x"}}}, ",", allGlobal)
	assert.False(t, ok)
}
