package ast

const slabChunk = 128

// slab hands out pointers into fixed-capacity chunks. A chunk is never
// regrown, so pointers stay valid for the life of the tree.
type slab[T any] struct {
	chunk []T
}

func (s *slab[T]) alloc() *T {
	if len(s.chunk) == cap(s.chunk) {
		s.chunk = make([]T, 0, slabChunk)
	}
	var zero T
	s.chunk = append(s.chunk, zero)
	return &s.chunk[len(s.chunk)-1]
}

func (s *slab[T]) reset() {
	s.chunk = s.chunk[:0]
}

// Arena provides arena-style allocation for the most frequent AST nodes.
// Call Reset() between parses to reuse the current chunks; trees built before
// the reset must no longer be used.
type Arena struct {
	identifiers   slab[Identifier]
	numbers       slab[NumberLiteral]
	strings       slab[StringLiteral]
	binaries      slab[BinaryExpression]
	calls         slab[CallExpression]
	members       slab[MemberExpression]
	assignments   slab[AssignmentExpression]
	exprStmts     slab[ExpressionStatement]
	blocks        slab[BlockStatement]
	ifs           slab[IfStatement]
	returns       slab[ReturnStatement]
	declarations  slab[VariableDeclaration]
	declarators   slab[VariableDeclarator]
	properties    slab[Property]
	propertyKeys  slab[PropertyKey]
	functions     slab[Function]
	functionBodys slab[FunctionBody]
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Reset clears the arena for reuse.
func (a *Arena) Reset() {
	a.identifiers.reset()
	a.numbers.reset()
	a.strings.reset()
	a.binaries.reset()
	a.calls.reset()
	a.members.reset()
	a.assignments.reset()
	a.exprStmts.reset()
	a.blocks.reset()
	a.ifs.reset()
	a.returns.reset()
	a.declarations.reset()
	a.declarators.reset()
	a.properties.reset()
	a.propertyKeys.reset()
	a.functions.reset()
	a.functionBodys.reset()
}

// Allocation methods - each returns a pointer to a node in the arena

func (a *Arena) NewIdentifier(name string) *Identifier {
	n := a.identifiers.alloc()
	n.Name = name
	return n
}

func (a *Arena) NewNumberLiteral(value float64, raw string) *NumberLiteral {
	n := a.numbers.alloc()
	n.Value, n.Raw = value, raw
	return n
}

func (a *Arena) NewStringLiteral(value string) *StringLiteral {
	n := a.strings.alloc()
	n.Value = value
	return n
}

func (a *Arena) NewBinaryExpression(op string, left, right Expression) *BinaryExpression {
	n := a.binaries.alloc()
	n.Operator, n.Left, n.Right = op, left, right
	return n
}

func (a *Arena) NewCallExpression(callee Expression, args []Expression) *CallExpression {
	n := a.calls.alloc()
	n.Callee, n.Arguments = callee, args
	return n
}

func (a *Arena) NewMemberExpression(object, property Expression, computed bool) *MemberExpression {
	n := a.members.alloc()
	n.Object, n.Property, n.Computed = object, property, computed
	return n
}

func (a *Arena) NewAssignmentExpression(op string, target, value Expression) *AssignmentExpression {
	n := a.assignments.alloc()
	n.Operator, n.Target, n.Value = op, target, value
	return n
}

func (a *Arena) NewExpressionStatement(expr Expression) *ExpressionStatement {
	n := a.exprStmts.alloc()
	n.Expression = expr
	return n
}

func (a *Arena) NewBlockStatement(stmts []Statement) *BlockStatement {
	n := a.blocks.alloc()
	n.Statements = stmts
	return n
}

func (a *Arena) NewIfStatement(test Expression, cons, alt Statement) *IfStatement {
	n := a.ifs.alloc()
	n.Test, n.Consequent, n.Alternate = test, cons, alt
	return n
}

func (a *Arena) NewReturnStatement(arg Expression) *ReturnStatement {
	n := a.returns.alloc()
	n.Argument = arg
	return n
}

func (a *Arena) NewVariableDeclaration(kind DeclarationKind, decls []*VariableDeclarator) *VariableDeclaration {
	n := a.declarations.alloc()
	n.DeclKind, n.Declarations = kind, decls
	return n
}

func (a *Arena) NewVariableDeclarator(name *Identifier, init Expression) *VariableDeclarator {
	n := a.declarators.alloc()
	n.Name, n.Init = name, init
	return n
}

func (a *Arena) NewProperty(key *PropertyKey, value Expression, shorthand bool) *Property {
	n := a.properties.alloc()
	n.Key, n.Value, n.Shorthand = key, value, shorthand
	return n
}

func (a *Arena) NewPropertyKey(expr Expression, computed bool) *PropertyKey {
	n := a.propertyKeys.alloc()
	n.Expr, n.Computed = expr, computed
	return n
}

func (a *Arena) NewFunction(name *Identifier, params []*Identifier, body *FunctionBody) *Function {
	n := a.functions.alloc()
	n.Name, n.Params, n.Body = name, params, body
	return n
}

func (a *Arena) NewFunctionBody(directives []*Directive, stmts []Statement) *FunctionBody {
	n := a.functionBodys.alloc()
	n.Directives, n.Statements = directives, stmts
	return n
}
