package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/nooga/squash/pkg/ast"
	"github.com/nooga/squash/pkg/source"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	program, errs := Parse(source.NewInlineSource(input), nil)
	if len(errs) > 0 {
		for _, err := range errs {
			t.Errorf("parser error: %s", err)
		}
		t.FailNow()
	}
	return program
}

func TestDirectives(t *testing.T) {
	tests := []struct {
		input      string
		directives []string
		statements int
	}{
		{`"use strict"; x;`, []string{"use strict"}, 1},
		{`'a'; "b"; f();`, []string{"a", "b"}, 1},
		{`"a" + b;`, nil, 1},
		{"x; \"not a directive\";", nil, 2},
	}
	for _, tt := range tests {
		program := parseProgram(t, tt.input)
		if len(program.Directives) != len(tt.directives) {
			t.Fatalf("%q: got %d directives, want %d", tt.input, len(program.Directives), len(tt.directives))
		}
		for i, d := range program.Directives {
			if d.Value != tt.directives[i] {
				t.Errorf("%q: directive %d = %q, want %q", tt.input, i, d.Value, tt.directives[i])
			}
		}
		if len(program.Statements) != tt.statements {
			t.Errorf("%q: got %d statements, want %d", tt.input, len(program.Statements), tt.statements)
		}
	}
}

func TestOperatorPrecedence(t *testing.T) {
	program := parseProgram(t, "a + b * c;")
	stmt, ok := program.Statements[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("statement is %T, want *ast.ExpressionStatement", program.Statements[0])
	}
	add, ok := stmt.Expression.(*ast.BinaryExpression)
	if !ok || add.Operator != "+" {
		t.Fatalf("root is %T, want + binary", stmt.Expression)
	}
	mul, ok := add.Right.(*ast.BinaryExpression)
	if !ok || mul.Operator != "*" {
		t.Fatalf("right operand is %T, want * binary", add.Right)
	}
}

func TestStatementKinds(t *testing.T) {
	tests := []struct {
		input string
		want  ast.Statement
	}{
		{"var x = 1;", &ast.VariableDeclaration{}},
		{"let x;", &ast.VariableDeclaration{}},
		{"function f() {}", &ast.FunctionDeclaration{}},
		{"if (a) b;", &ast.IfStatement{}},
		{"for (;;) {}", &ast.ForStatement{}},
		{"for (k in o) {}", &ast.ForInStatement{}},
		{"while (a) {}", &ast.WhileStatement{}},
		{"do {} while (a);", &ast.DoWhileStatement{}},
		{"try {} catch (e) {}", &ast.TryStatement{}},
		{"throw e;", &ast.ThrowStatement{}},
		{"debugger;", &ast.DebuggerStatement{}},
		{";", &ast.EmptyStatement{}},
		{"{}", &ast.BlockStatement{}},
	}
	for _, tt := range tests {
		program := parseProgram(t, tt.input)
		if len(program.Statements) != 1 {
			t.Fatalf("%q: got %d statements, want 1", tt.input, len(program.Statements))
		}
		got, want := typeName(program.Statements[0]), typeName(tt.want)
		if got != want {
			t.Errorf("%q: parsed as %s, want %s", tt.input, got, want)
		}
	}
}

func typeName(n ast.Node) string {
	return fmt.Sprintf("%T", n)
}

func TestDeclarationKinds(t *testing.T) {
	tests := []struct {
		input string
		kind  ast.DeclarationKind
	}{
		{"var a;", ast.Var},
		{"let a;", ast.Let},
		{"const a = 1;", ast.Const},
	}
	for _, tt := range tests {
		decl, ok := parseProgram(t, tt.input).Statements[0].(*ast.VariableDeclaration)
		if !ok {
			t.Fatalf("%q: not a variable declaration", tt.input)
		}
		if decl.DeclKind != tt.kind {
			t.Errorf("%q: kind = %v, want %v", tt.input, decl.DeclKind, tt.kind)
		}
	}
}

func TestComputedMember(t *testing.T) {
	program := parseProgram(t, `a["b"]; a.c;`)
	first := program.Statements[0].(*ast.ExpressionStatement).Expression.(*ast.MemberExpression)
	if !first.Computed {
		t.Errorf("a[\"b\"] should be computed")
	}
	if s, ok := first.Property.(*ast.StringLiteral); !ok || s.Value != "b" {
		t.Errorf("property = %#v, want string b", first.Property)
	}
	second := program.Statements[1].(*ast.ExpressionStatement).Expression.(*ast.MemberExpression)
	if second.Computed {
		t.Errorf("a.c should not be computed")
	}
}

func TestArenaAllocation(t *testing.T) {
	arena := ast.NewArena()
	program, errs := Parse(source.NewInlineSource("x = f(1, y);"), arena)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(program.Statements) != 1 {
		t.Fatalf("got %d statements", len(program.Statements))
	}
	arena.Reset()
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"x = ;", "unexpected token"},
		{"if (a { b; }", "expected next token"},
		{"function (", "requires a name"},
		{"{ a;", "unexpected end of input"},
	}
	for _, tt := range tests {
		_, errs := Parse(source.NewInlineSource(tt.input), nil)
		if len(errs) == 0 {
			t.Errorf("%q: expected a syntax error", tt.input)
			continue
		}
		if !strings.Contains(errs[0].Message(), tt.want) {
			t.Errorf("%q: first error %q does not mention %q", tt.input, errs[0].Message(), tt.want)
		}
		if errs[0].Kind() != "Syntax" {
			t.Errorf("%q: kind = %q", tt.input, errs[0].Kind())
		}
		if errs[0].Pos().Line != 1 {
			t.Errorf("%q: line = %d, want 1", tt.input, errs[0].Pos().Line)
		}
	}
}
