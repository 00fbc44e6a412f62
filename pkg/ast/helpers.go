package ast

// NewUndefined returns `void 0`.
func NewUndefined() Expression {
	return &UnaryExpression{Operator: "void", Argument: &NumberLiteral{Value: 0}}
}

// IsVoidZero reports whether e is `void 0`.
func IsVoidZero(e Expression) bool {
	u, ok := e.(*UnaryExpression)
	if !ok || u.Operator != "void" {
		return false
	}
	n, ok := u.Argument.(*NumberLiteral)
	return ok && n.Value == 0
}

// NewNot returns `!e`.
func NewNot(e Expression) Expression {
	return &UnaryExpression{Operator: "!", Argument: e}
}

// IsTerminator reports whether control never falls through stmt.
func IsTerminator(stmt Statement) bool {
	switch stmt.(type) {
	case *ReturnStatement, *ThrowStatement, *BreakStatement, *ContinueStatement:
		return true
	}
	return false
}

// IsLexicalDeclaration reports whether stmt declares a block-scoped binding.
func IsLexicalDeclaration(stmt Statement) bool {
	switch s := stmt.(type) {
	case *VariableDeclaration:
		return s.DeclKind != Var
	case *FunctionDeclaration:
		return true
	}
	return false
}

// IsEmpty reports whether stmt is `;` or `{}`.
func IsEmpty(stmt Statement) bool {
	switch s := stmt.(type) {
	case nil, *EmptyStatement:
		return true
	case *BlockStatement:
		return len(s.Statements) == 0
	}
	return false
}

// VarNames collects the names declared with `var` anywhere in stmt, not
// descending into nested functions.
func VarNames(stmt Statement) []string {
	var names []string
	var visit func(Statement)
	visitInit := func(n Node) {
		if d, ok := n.(*VariableDeclaration); ok {
			visit(d)
		}
	}
	visit = func(s Statement) {
		switch s := s.(type) {
		case *VariableDeclaration:
			if s.DeclKind == Var {
				for _, d := range s.Declarations {
					names = append(names, d.Name.Name)
				}
			}
		case *BlockStatement:
			for _, c := range s.Statements {
				visit(c)
			}
		case *IfStatement:
			visit(s.Consequent)
			if s.Alternate != nil {
				visit(s.Alternate)
			}
		case *WhileStatement:
			visit(s.Body)
		case *DoWhileStatement:
			visit(s.Body)
		case *ForStatement:
			visitInit(s.Init)
			visit(s.Body)
		case *ForInStatement:
			visitInit(s.Left)
			visit(s.Body)
		case *TryStatement:
			visit(s.Block)
			if s.Handler != nil {
				visit(s.Handler.Body)
			}
			if s.Finalizer != nil {
				visit(s.Finalizer)
			}
		}
	}
	visit(stmt)
	return names
}

// HoistedVars returns `var a, b;` for the var names declared in stmt, or nil
// when it declares none.
func HoistedVars(stmt Statement) Statement {
	names := VarNames(stmt)
	if len(names) == 0 {
		return nil
	}
	decl := &VariableDeclaration{DeclKind: Var}
	for _, name := range names {
		decl.Declarations = append(decl.Declarations, &VariableDeclarator{Name: &Identifier{Name: name}})
	}
	return decl
}

// SameReference reports whether a and b denote the same simple reference:
// identical identifiers, `this`, or member chains over them with static
// property names.
func SameReference(a, b Expression) bool {
	switch x := a.(type) {
	case *Identifier:
		y, ok := b.(*Identifier)
		return ok && x.Name == y.Name
	case *ThisExpression:
		_, ok := b.(*ThisExpression)
		return ok
	case *MemberExpression:
		y, ok := b.(*MemberExpression)
		if !ok || x.Computed != y.Computed || !SameReference(x.Object, y.Object) {
			return false
		}
		if !x.Computed {
			return x.Property.(*Identifier).Name == y.Property.(*Identifier).Name
		}
		switch p := x.Property.(type) {
		case *StringLiteral:
			q, ok := y.Property.(*StringLiteral)
			return ok && p.Value == q.Value
		case *NumberLiteral:
			q, ok := y.Property.(*NumberLiteral)
			return ok && p.Value == q.Value
		}
	}
	return false
}
