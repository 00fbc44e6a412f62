package ecmascript

import (
	"strings"

	"github.com/nooga/squash/pkg/ast"
)

// ArrayJoin evaluates `[...].join(sep)` for an array literal whose elements
// are all constants, nested constant arrays or object literals. Holes, null
// and undefined join as empty strings.
func ArrayJoin(arr *ast.ArrayExpression, sep string, isGlobal GlobalReference) (string, bool) {
	parts := make([]string, len(arr.Elements))
	for i, el := range arr.Elements {
		if el == nil {
			continue
		}
		switch n := el.(type) {
		case *ast.ArrayExpression:
			s, ok := ArrayJoin(n, ",", isGlobal)
			if !ok {
				return "", false
			}
			parts[i] = s
			continue
		case *ast.ObjectExpression:
			if MayHaveSideEffects(n, isGlobal) {
				return "", false
			}
			parts[i] = "[object Object]"
			continue
		}
		v, ok := Constant(el, isGlobal)
		if !ok {
			return "", false
		}
		if !v.IsNullish() {
			parts[i] = v.ToJSString()
		}
	}
	return strings.Join(parts, sep), true
}
