package minifier

import (
	"github.com/nooga/squash/pkg/ast"
	"github.com/nooga/squash/pkg/traverse"
)

// normalize rewrites loops into the single form the peephole rules handle:
// `while (x) s` becomes `for (; x;) s`.
type normalize struct {
	traverse.Base
	rewritten int
}

func (n *normalize) ExitStatement(slot *ast.Statement, _ *traverse.Ctx) {
	w, ok := (*slot).(*ast.WhileStatement)
	if !ok {
		return
	}
	*slot = &ast.ForStatement{Test: w.Test, Body: w.Body}
	n.rewritten++
}
