package minifier

import (
	"github.com/nooga/squash/pkg/ast"
	"github.com/nooga/squash/pkg/traverse"
)

// collapseVariableDeclarations merges adjacent declarations of the same
// kind: `var a; var b = 1;` becomes `var a, b = 1;`.
type collapseVariableDeclarations struct {
	traverse.Base
	changed func()
}

func (r *collapseVariableDeclarations) ExitStatements(list *[]ast.Statement, _ *traverse.Ctx) {
	stmts := *list
	out := stmts[:0]
	var prev *ast.VariableDeclaration
	for _, s := range stmts {
		d, ok := s.(*ast.VariableDeclaration)
		if ok && prev != nil && prev.DeclKind == d.DeclKind {
			prev.Declarations = append(prev.Declarations, d.Declarations...)
			r.changed()
			continue
		}
		if ok {
			prev = d
		} else {
			prev = nil
		}
		out = append(out, s)
	}
	clear(stmts[len(out):])
	*list = out
}
