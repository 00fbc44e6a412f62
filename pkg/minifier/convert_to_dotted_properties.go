package minifier

import (
	"github.com/nooga/squash/pkg/ast"
	"github.com/nooga/squash/pkg/ecmascript"
	"github.com/nooga/squash/pkg/traverse"
)

// convertToDottedProperties shortens property accesses and object keys
// that name a property with a string: `a["b"]` becomes `a.b` and
// `{"b": 1}` becomes `{b: 1}`.
type convertToDottedProperties struct {
	traverse.Base
	changed     func()
	inFixedLoop bool
}

func (r *convertToDottedProperties) ExitMemberExpression(m *ast.MemberExpression, _ *traverse.Ctx) {
	if !m.Computed {
		return
	}
	s, ok := m.Property.(*ast.StringLiteral)
	if !ok {
		return
	}
	switch {
	case ecmascript.IsIdentifierName(s.Value):
		m.Property = &ast.Identifier{Name: s.Value}
		m.Computed = false
	case !r.inFixedLoop && ecmascript.IsIndexString(s.Value):
		m.Property = &ast.NumberLiteral{Value: ecmascript.StringToNumber(s.Value)}
	default:
		return
	}
	r.changed()
}

func (r *convertToDottedProperties) ExitPropertyKey(k *ast.PropertyKey, _ *traverse.Ctx) {
	if k.Computed {
		switch k.Expr.(type) {
		case *ast.StringLiteral, *ast.NumberLiteral:
		default:
			return
		}
		// {["__proto__"]: x} defines an own property; {__proto__: x} sets
		// the prototype.
		if s, ok := k.Expr.(*ast.StringLiteral); ok && s.Value == "__proto__" {
			return
		}
		k.Computed = false
		r.changed()
	}

	s, ok := k.Expr.(*ast.StringLiteral)
	if !ok {
		return
	}
	switch {
	case ecmascript.IsIdentifierName(s.Value):
		k.Expr = &ast.Identifier{Name: s.Value}
	case !r.inFixedLoop && ecmascript.IsIndexString(s.Value):
		k.Expr = &ast.NumberLiteral{Value: ecmascript.StringToNumber(s.Value)}
	default:
		return
	}
	r.changed()
}
