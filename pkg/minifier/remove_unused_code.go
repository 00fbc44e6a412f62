package minifier

import (
	"github.com/nooga/squash/pkg/ast"
	"github.com/nooga/squash/pkg/traverse"
)

// removeUnusedCode drops let, const and function declarations at the top of
// a function body that nothing in the body names. Declarators with impure
// initializers stay. Program-level bindings are visible to other scripts
// and are never touched.
type removeUnusedCode struct {
	traverse.Base
	removed int
}

func (r *removeUnusedCode) ExitFunctionBody(body *ast.FunctionBody, ctx *traverse.Ctx) {
	for {
		refs := countNames(body)
		if refs["eval"] > 0 {
			return
		}
		n := r.sweep(body, refs, ctx)
		if n == 0 {
			return
		}
		r.removed += n
	}
}

// sweep removes one round of unused declarations and reports how many
// bindings went away.
func (r *removeUnusedCode) sweep(body *ast.FunctionBody, refs map[string]int, ctx *traverse.Ctx) int {
	unused := func(name string) bool { return refs[name] == 1 }
	removed := 0
	kept := body.Statements[:0]
	for _, stmt := range body.Statements {
		switch s := stmt.(type) {
		case *ast.FunctionDeclaration:
			if unused(s.Func.Name.Name) {
				removed++
				continue
			}
		case *ast.VariableDeclaration:
			if s.DeclKind == ast.Var {
				break
			}
			decls := s.Declarations[:0]
			for _, d := range s.Declarations {
				if unused(d.Name.Name) && isPure(d.Init, ctx) {
					removed++
					continue
				}
				decls = append(decls, d)
			}
			s.Declarations = decls
			if len(decls) == 0 {
				continue
			}
		}
		kept = append(kept, stmt)
	}
	clear(body.Statements[len(kept):])
	body.Statements = kept
	return removed
}

// countNames counts every identifier in node by name, bindings included.
func countNames(node ast.Node) map[string]int {
	refs := make(map[string]int)
	ast.Inspect(node, func(n ast.Node) bool {
		if id, ok := n.(*ast.Identifier); ok {
			refs[id.Name]++
		}
		return true
	})
	return refs
}
