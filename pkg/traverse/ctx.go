package traverse

import "github.com/nooga/squash/pkg/ast"

// ScopeKind tells what introduced a scope.
type ScopeKind uint8

const (
	ProgramScope ScopeKind = iota
	FunctionScope
	BlockScope
	CatchScope
)

// Scope holds the names bound directly in one lexical scope.
type Scope struct {
	Kind  ScopeKind
	names map[string]struct{}
}

func (s *Scope) declare(name string) {
	s.names[name] = struct{}{}
}

// Has reports whether name is bound in s itself.
func (s *Scope) Has(name string) bool {
	_, ok := s.names[name]
	return ok
}

// Ctx is the state a walk exposes to hooks: the ancestors of the current
// node and the scopes enclosing it.
type Ctx struct {
	ancestors []ast.Node
	scopes    []*Scope
}

// Parent returns the nearest ancestor of the node a hook is handling. For
// ExitStatements it is the node owning the list.
func (c *Ctx) Parent() ast.Node {
	return c.Ancestor(0)
}

// Ancestor returns the n-th ancestor, 0 being the parent, or nil.
func (c *Ctx) Ancestor(n int) ast.Node {
	i := len(c.ancestors) - 1 - n
	if i < 0 {
		return nil
	}
	return c.ancestors[i]
}

// Depth returns the number of ancestors on the stack.
func (c *Ctx) Depth() int {
	return len(c.ancestors)
}

// InFunction reports whether the current node sits inside a function or
// arrow body.
func (c *Ctx) InFunction() bool {
	for _, s := range c.scopes {
		if s.Kind == FunctionScope {
			return true
		}
	}
	return false
}

// IsGlobalReference reports whether name resolves to no enclosing binding.
func (c *Ctx) IsGlobalReference(name string) bool {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if c.scopes[i].Has(name) {
			return false
		}
	}
	return true
}

func (c *Ctx) push(n ast.Node) {
	c.ancestors = append(c.ancestors, n)
}

func (c *Ctx) pop() {
	c.ancestors = c.ancestors[:len(c.ancestors)-1]
}

// enterScope pushes a scope, reusing one left over from an earlier walk when
// the stack has room for it.
func (c *Ctx) enterScope(kind ScopeKind) *Scope {
	n := len(c.scopes)
	if n < cap(c.scopes) {
		c.scopes = c.scopes[:n+1]
		if s := c.scopes[n]; s != nil {
			s.Kind = kind
			clear(s.names)
			return s
		}
	} else {
		c.scopes = append(c.scopes, nil)
	}
	s := &Scope{Kind: kind, names: make(map[string]struct{})}
	c.scopes[n] = s
	return s
}

func (c *Ctx) exitScope() {
	c.scopes = c.scopes[:len(c.scopes)-1]
}

// declareLexical binds the let, const and function declarations found
// directly in stmts.
func declareLexical(s *Scope, stmts []ast.Statement) {
	for _, stmt := range stmts {
		switch d := stmt.(type) {
		case *ast.VariableDeclaration:
			if d.DeclKind != ast.Var {
				declareDeclarators(s, d)
			}
		case *ast.FunctionDeclaration:
			s.declare(d.Func.Name.Name)
		}
	}
}

// declareVars binds every var hoisted out of stmts.
func declareVars(s *Scope, stmts []ast.Statement) {
	for _, stmt := range stmts {
		for _, name := range ast.VarNames(stmt) {
			s.declare(name)
		}
	}
}

func declareDeclarators(s *Scope, d *ast.VariableDeclaration) {
	for _, decl := range d.Declarations {
		s.declare(decl.Name.Name)
	}
}

// ReusableCtx keeps a Ctx's stacks allocated across walks. It must not be
// shared between goroutines.
type ReusableCtx struct {
	ctx Ctx
}

// NewReusableCtx creates an empty context.
func NewReusableCtx() *ReusableCtx {
	return &ReusableCtx{}
}

func (r *ReusableCtx) reset() *Ctx {
	clear(r.ctx.ancestors[:cap(r.ctx.ancestors)])
	r.ctx.ancestors = r.ctx.ancestors[:0]
	r.ctx.scopes = r.ctx.scopes[:0]
	return &r.ctx
}
