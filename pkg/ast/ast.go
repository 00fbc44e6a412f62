package ast

// --- Interfaces ---

// Node is the base interface for all AST nodes.
type Node interface {
	Kind() string // Node type name, e.g. "IfStatement"
}

// Statement represents a statement node in the AST.
type Statement interface {
	Node
	statementNode() // Dummy method for distinguishing statement types
}

// Expression represents an expression node in the AST.
type Expression interface {
	Node
	expressionNode() // Dummy method for distinguishing expression types
}

// --- Program Node ---

// Directive is a string literal statement in a directive prologue ("use strict").
type Directive struct {
	Value string // Raw content between the quotes
	Quote byte
}

func (d *Directive) Kind() string { return "Directive" }

// Program is the root node of the AST.
type Program struct {
	Directives []*Directive
	Statements []Statement
}

func (p *Program) Kind() string { return "Program" }

// FunctionBody holds the directive prologue and statements of a function.
type FunctionBody struct {
	Directives []*Directive
	Statements []Statement
}

func (b *FunctionBody) Kind() string { return "FunctionBody" }

// Function is shared by declarations and expressions.
type Function struct {
	Name   *Identifier // nil for anonymous function expressions
	Params []*Identifier
	Body   *FunctionBody
}

func (f *Function) Kind() string { return "Function" }

// --- Statement Nodes ---

// ExpressionStatement wraps an expression used as a statement.
type ExpressionStatement struct {
	Expression Expression
}

func (es *ExpressionStatement) statementNode() {}
func (es *ExpressionStatement) Kind() string   { return "ExpressionStatement" }

// BlockStatement represents `{ ... }`.
type BlockStatement struct {
	Statements []Statement
}

func (bs *BlockStatement) statementNode() {}
func (bs *BlockStatement) Kind() string   { return "BlockStatement" }

// EmptyStatement represents a lone `;`.
type EmptyStatement struct{}

func (es *EmptyStatement) statementNode() {}
func (es *EmptyStatement) Kind() string   { return "EmptyStatement" }

// DeclarationKind is one of var, let or const.
type DeclarationKind string

const (
	Var   DeclarationKind = "var"
	Let   DeclarationKind = "let"
	Const DeclarationKind = "const"
)

// VariableDeclarator is a single `name = init` binding.
type VariableDeclarator struct {
	Name *Identifier
	Init Expression // nil when absent
}

func (vd *VariableDeclarator) Kind() string { return "VariableDeclarator" }

// VariableDeclaration represents `var a = 1, b;` and friends.
type VariableDeclaration struct {
	DeclKind     DeclarationKind
	Declarations []*VariableDeclarator
}

func (vd *VariableDeclaration) statementNode() {}
func (vd *VariableDeclaration) Kind() string   { return "VariableDeclaration" }

// FunctionDeclaration represents `function name(params) { body }`.
type FunctionDeclaration struct {
	Func *Function
}

func (fd *FunctionDeclaration) statementNode() {}
func (fd *FunctionDeclaration) Kind() string   { return "FunctionDeclaration" }

// ReturnStatement represents `return <Argument>;`.
type ReturnStatement struct {
	Argument Expression // nil for a bare return
}

func (rs *ReturnStatement) statementNode() {}
func (rs *ReturnStatement) Kind() string   { return "ReturnStatement" }

// IfStatement represents `if (Test) Consequent else Alternate`.
type IfStatement struct {
	Test       Expression
	Consequent Statement
	Alternate  Statement // nil when there is no else branch
}

func (is *IfStatement) statementNode() {}
func (is *IfStatement) Kind() string   { return "IfStatement" }

// WhileStatement represents `while (Test) Body`.
type WhileStatement struct {
	Test Expression
	Body Statement
}

func (ws *WhileStatement) statementNode() {}
func (ws *WhileStatement) Kind() string   { return "WhileStatement" }

// DoWhileStatement represents `do Body while (Test)`.
type DoWhileStatement struct {
	Body Statement
	Test Expression
}

func (ds *DoWhileStatement) statementNode() {}
func (ds *DoWhileStatement) Kind() string   { return "DoWhileStatement" }

// ForStatement represents `for (Init; Test; Update) Body`.
type ForStatement struct {
	Init   Node // *VariableDeclaration, Expression or nil
	Test   Expression
	Update Expression
	Body   Statement
}

func (fs *ForStatement) statementNode() {}
func (fs *ForStatement) Kind() string   { return "ForStatement" }

// ForInStatement represents `for (Left in Right)` and, with Of set, `for (Left of Right)`.
type ForInStatement struct {
	Left  Node // *VariableDeclaration or assignment target Expression
	Right Expression
	Body  Statement
	Of    bool
}

func (fs *ForInStatement) statementNode() {}
func (fs *ForInStatement) Kind() string {
	if fs.Of {
		return "ForOfStatement"
	}
	return "ForInStatement"
}

// BreakStatement represents `break;`.
type BreakStatement struct{}

func (bs *BreakStatement) statementNode() {}
func (bs *BreakStatement) Kind() string   { return "BreakStatement" }

// ContinueStatement represents `continue;`.
type ContinueStatement struct{}

func (cs *ContinueStatement) statementNode() {}
func (cs *ContinueStatement) Kind() string   { return "ContinueStatement" }

// ThrowStatement represents `throw <Argument>;`.
type ThrowStatement struct {
	Argument Expression
}

func (ts *ThrowStatement) statementNode() {}
func (ts *ThrowStatement) Kind() string   { return "ThrowStatement" }

// CatchClause is the `catch (Param) { Body }` part of a try statement.
type CatchClause struct {
	Param *Identifier // nil for an optional catch binding
	Body  *BlockStatement
}

func (cc *CatchClause) Kind() string { return "CatchClause" }

// TryStatement represents try/catch/finally.
type TryStatement struct {
	Block     *BlockStatement
	Handler   *CatchClause    // nil when absent
	Finalizer *BlockStatement // nil when absent
}

func (ts *TryStatement) statementNode() {}
func (ts *TryStatement) Kind() string   { return "TryStatement" }

// DebuggerStatement represents `debugger;`.
type DebuggerStatement struct{}

func (ds *DebuggerStatement) statementNode() {}
func (ds *DebuggerStatement) Kind() string   { return "DebuggerStatement" }

// --- Expression Nodes ---

// Identifier represents a binding or reference name.
type Identifier struct {
	Name string
}

func (i *Identifier) expressionNode() {}
func (i *Identifier) Kind() string    { return "Identifier" }

// NumberLiteral represents a numeric literal. Raw is the source text, empty for
// literals created by rewrites.
type NumberLiteral struct {
	Value float64
	Raw   string
}

func (n *NumberLiteral) expressionNode() {}
func (n *NumberLiteral) Kind() string    { return "NumberLiteral" }

// StringLiteral holds the decoded string value.
type StringLiteral struct {
	Value string
}

func (s *StringLiteral) expressionNode() {}
func (s *StringLiteral) Kind() string    { return "StringLiteral" }

// BooleanLiteral represents true or false.
type BooleanLiteral struct {
	Value bool
}

func (b *BooleanLiteral) expressionNode() {}
func (b *BooleanLiteral) Kind() string    { return "BooleanLiteral" }

// NullLiteral represents null.
type NullLiteral struct{}

func (n *NullLiteral) expressionNode() {}
func (n *NullLiteral) Kind() string    { return "NullLiteral" }

// RegExpLiteral represents `/Pattern/Flags`.
type RegExpLiteral struct {
	Pattern string
	Flags   string
}

func (r *RegExpLiteral) expressionNode() {}
func (r *RegExpLiteral) Kind() string    { return "RegExpLiteral" }

// ThisExpression represents `this`.
type ThisExpression struct{}

func (t *ThisExpression) expressionNode() {}
func (t *ThisExpression) Kind() string    { return "ThisExpression" }

// ArrayExpression represents `[a, , ...b]`. Holes are nil elements.
type ArrayExpression struct {
	Elements []Expression
}

func (a *ArrayExpression) expressionNode() {}
func (a *ArrayExpression) Kind() string    { return "ArrayExpression" }

// PropertyKey is the key of an object property. Non-computed keys hold an
// *Identifier, *StringLiteral or *NumberLiteral.
type PropertyKey struct {
	Expr     Expression
	Computed bool
}

func (k *PropertyKey) Kind() string { return "PropertyKey" }

// StaticName returns the key as a property name when it is known statically.
func (k *PropertyKey) StaticName() (string, bool) {
	if k.Computed {
		return "", false
	}
	switch e := k.Expr.(type) {
	case *Identifier:
		return e.Name, true
	case *StringLiteral:
		return e.Value, true
	}
	return "", false
}

// Property is a `key: value` entry of an object literal.
type Property struct {
	Key       *PropertyKey
	Value     Expression
	Shorthand bool
}

func (p *Property) Kind() string { return "Property" }

// ObjectExpression represents `{ ... }` in expression position.
type ObjectExpression struct {
	Properties []*Property
}

func (o *ObjectExpression) expressionNode() {}
func (o *ObjectExpression) Kind() string    { return "ObjectExpression" }

// FunctionExpression represents `function name?(params) { body }`.
type FunctionExpression struct {
	Func *Function
}

func (f *FunctionExpression) expressionNode() {}
func (f *FunctionExpression) Kind() string    { return "FunctionExpression" }

// ArrowFunctionExpression represents `(params) => body`. Exactly one of Body
// and Expr is set.
type ArrowFunctionExpression struct {
	Params []*Identifier
	Body   *FunctionBody
	Expr   Expression
}

func (a *ArrowFunctionExpression) expressionNode() {}
func (a *ArrowFunctionExpression) Kind() string    { return "ArrowFunctionExpression" }

// UnaryExpression represents `Operator Argument` for ! - + ~ typeof void delete.
type UnaryExpression struct {
	Operator string
	Argument Expression
}

func (u *UnaryExpression) expressionNode() {}
func (u *UnaryExpression) Kind() string    { return "UnaryExpression" }

// UpdateExpression represents ++x, x++, --x and x--.
type UpdateExpression struct {
	Operator string // "++" or "--"
	Prefix   bool
	Argument Expression
}

func (u *UpdateExpression) expressionNode() {}
func (u *UpdateExpression) Kind() string    { return "UpdateExpression" }

// BinaryExpression represents arithmetic, bitwise, relational and equality operators.
type BinaryExpression struct {
	Operator string
	Left     Expression
	Right    Expression
}

func (b *BinaryExpression) expressionNode() {}
func (b *BinaryExpression) Kind() string    { return "BinaryExpression" }

// LogicalExpression represents &&, || and ??.
type LogicalExpression struct {
	Operator string
	Left     Expression
	Right    Expression
}

func (l *LogicalExpression) expressionNode() {}
func (l *LogicalExpression) Kind() string    { return "LogicalExpression" }

// ConditionalExpression represents `Test ? Consequent : Alternate`.
type ConditionalExpression struct {
	Test       Expression
	Consequent Expression
	Alternate  Expression
}

func (c *ConditionalExpression) expressionNode() {}
func (c *ConditionalExpression) Kind() string    { return "ConditionalExpression" }

// AssignmentExpression represents `Target Operator Value`, e.g. `a += 1`.
type AssignmentExpression struct {
	Operator string
	Target   Expression // *Identifier or *MemberExpression
	Value    Expression
}

func (a *AssignmentExpression) expressionNode() {}
func (a *AssignmentExpression) Kind() string    { return "AssignmentExpression" }

// SequenceExpression represents `a, b, c`.
type SequenceExpression struct {
	Expressions []Expression
}

func (s *SequenceExpression) expressionNode() {}
func (s *SequenceExpression) Kind() string    { return "SequenceExpression" }

// CallExpression represents `Callee(Arguments)`.
type CallExpression struct {
	Callee    Expression
	Arguments []Expression
}

func (c *CallExpression) expressionNode() {}
func (c *CallExpression) Kind() string    { return "CallExpression" }

// NewExpression represents `new Callee(Arguments)`.
type NewExpression struct {
	Callee    Expression
	Arguments []Expression
}

func (n *NewExpression) expressionNode() {}
func (n *NewExpression) Kind() string    { return "NewExpression" }

// MemberExpression represents `Object.Property` or, when Computed, `Object[Property]`.
// A non-computed Property is always an *Identifier.
type MemberExpression struct {
	Object   Expression
	Property Expression
	Computed bool
}

func (m *MemberExpression) expressionNode() {}
func (m *MemberExpression) Kind() string    { return "MemberExpression" }

// StaticProperty returns the property name of `a.b` or `a["b"]`.
func (m *MemberExpression) StaticProperty() (string, bool) {
	switch p := m.Property.(type) {
	case *Identifier:
		if !m.Computed {
			return p.Name, true
		}
	case *StringLiteral:
		if m.Computed {
			return p.Value, true
		}
	}
	return "", false
}

// SpreadElement represents `...Argument` in arrays and argument lists.
type SpreadElement struct {
	Argument Expression
}

func (s *SpreadElement) expressionNode() {}
func (s *SpreadElement) Kind() string    { return "SpreadElement" }
