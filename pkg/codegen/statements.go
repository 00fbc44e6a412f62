package codegen

import (
	"fmt"

	"github.com/nooga/squash/pkg/ast"
)

func (p *Printer) printDirectives(dirs []*ast.Directive) {
	for _, d := range dirs {
		p.flushSemi()
		q := string(d.Quote)
		p.print(q + d.Value + q)
		p.needSemi = true
	}
}

func (p *Printer) printStatements(stmts []ast.Statement) {
	for _, stmt := range stmts {
		if _, ok := stmt.(*ast.EmptyStatement); ok {
			continue
		}
		p.emitStatement(stmt)
	}
}

// emitStatement prints stmt in a position where a statement list is not
// expected, e.g. the body of an if or a loop.
func (p *Printer) emitStatement(stmt ast.Statement) {
	p.flushSemi()
	switch s := stmt.(type) {
	case *ast.EmptyStatement:
		p.print(";")
	case *ast.ExpressionStatement:
		p.emitExpressionStatement(s)
	case *ast.BlockStatement:
		p.emitBlockStatement(s)
	case *ast.VariableDeclaration:
		p.emitVariableDeclaration(s)
		p.needSemi = true
	case *ast.FunctionDeclaration:
		p.emitFunction("function", s.Func)
	case *ast.ReturnStatement:
		p.print("return")
		if s.Argument != nil {
			p.printExpr(s.Argument, precLowest)
		}
		p.needSemi = true
	case *ast.IfStatement:
		p.emitIfStatement(s)
	case *ast.WhileStatement:
		p.print("while(")
		p.printExpr(s.Test, precLowest)
		p.print(")")
		p.emitStatement(s.Body)
	case *ast.DoWhileStatement:
		p.print("do")
		p.emitStatement(s.Body)
		p.flushSemi()
		p.print("while(")
		p.printExpr(s.Test, precLowest)
		p.print(")")
		p.needSemi = true
	case *ast.ForStatement:
		p.emitForStatement(s)
	case *ast.ForInStatement:
		p.emitForInStatement(s)
	case *ast.BreakStatement:
		p.print("break")
		p.needSemi = true
	case *ast.ContinueStatement:
		p.print("continue")
		p.needSemi = true
	case *ast.ThrowStatement:
		p.print("throw")
		p.printExpr(s.Argument, precLowest)
		p.needSemi = true
	case *ast.TryStatement:
		p.emitTryStatement(s)
	case *ast.DebuggerStatement:
		p.print("debugger")
		p.needSemi = true
	default:
		panic(fmt.Sprintf("codegen: unsupported statement %T", stmt))
	}
}

func (p *Printer) emitExpressionStatement(s *ast.ExpressionStatement) {
	// `{` and `function` at statement start would begin a block or a declaration.
	// A regexp right after `)` or `}` would lex as a division.
	wrap := false
	switch leftmost(s.Expression).(type) {
	case *ast.ObjectExpression, *ast.FunctionExpression:
		wrap = true
	case *ast.RegExpLiteral:
		wrap = p.lastByte() == ')' || p.lastByte() == '}'
	}
	if wrap {
		p.print("(")
		p.printExpr(s.Expression, precLowest)
		p.print(")")
	} else {
		p.printExpr(s.Expression, precLowest)
	}
	p.needSemi = true
}

func (p *Printer) emitBlockStatement(s *ast.BlockStatement) {
	p.print("{")
	p.printStatements(s.Statements)
	p.closeBrace()
}

func (p *Printer) emitVariableDeclaration(s *ast.VariableDeclaration) {
	p.print(string(s.DeclKind))
	for i, d := range s.Declarations {
		if i > 0 {
			p.print(",")
		}
		p.print(d.Name.Name)
		if d.Init != nil {
			p.print("=")
			p.printExpr(d.Init, precAssign)
		}
	}
}

func (p *Printer) emitIfStatement(s *ast.IfStatement) {
	p.print("if(")
	p.printExpr(s.Test, precLowest)
	p.print(")")
	if s.Alternate == nil {
		p.emitStatement(s.Consequent)
		return
	}
	if danglingIf(s.Consequent) {
		p.print("{")
		p.emitStatement(s.Consequent)
		p.closeBrace()
	} else {
		p.emitStatement(s.Consequent)
	}
	p.flushSemi()
	p.print("else")
	p.emitStatement(s.Alternate)
}

// danglingIf reports whether stmt ends in an else-less if that would steal a
// following else.
func danglingIf(stmt ast.Statement) bool {
	switch s := stmt.(type) {
	case *ast.IfStatement:
		if s.Alternate == nil {
			return true
		}
		return danglingIf(s.Alternate)
	case *ast.WhileStatement:
		return danglingIf(s.Body)
	case *ast.ForStatement:
		return danglingIf(s.Body)
	case *ast.ForInStatement:
		return danglingIf(s.Body)
	}
	return false
}

func (p *Printer) emitForStatement(s *ast.ForStatement) {
	p.print("for(")
	if s.Init != nil {
		p.noIn = true
		switch init := s.Init.(type) {
		case *ast.VariableDeclaration:
			p.emitVariableDeclaration(init)
		case ast.Expression:
			p.printExpr(init, precLowest)
		}
		p.noIn = false
	}
	p.print(";")
	if s.Test != nil {
		p.printExpr(s.Test, precLowest)
	}
	p.print(";")
	if s.Update != nil {
		p.printExpr(s.Update, precLowest)
	}
	p.print(")")
	p.emitStatement(s.Body)
}

func (p *Printer) emitForInStatement(s *ast.ForInStatement) {
	p.print("for(")
	switch left := s.Left.(type) {
	case *ast.VariableDeclaration:
		p.noIn = true
		p.emitVariableDeclaration(left)
		p.noIn = false
	case ast.Expression:
		p.printExpr(left, precCall)
	}
	if s.Of {
		p.print("of")
		p.printExpr(s.Right, precAssign)
	} else {
		p.print("in")
		p.printExpr(s.Right, precLowest)
	}
	p.print(")")
	p.emitStatement(s.Body)
}

func (p *Printer) emitTryStatement(s *ast.TryStatement) {
	p.print("try")
	p.emitBlockStatement(s.Block)
	if s.Handler != nil {
		p.print("catch")
		if s.Handler.Param != nil {
			p.print("(" + s.Handler.Param.Name + ")")
		}
		p.emitBlockStatement(s.Handler.Body)
	}
	if s.Finalizer != nil {
		p.print("finally")
		p.emitBlockStatement(s.Finalizer)
	}
}

func (p *Printer) emitFunction(keyword string, fn *ast.Function) {
	p.print(keyword)
	if fn.Name != nil {
		p.print(fn.Name.Name)
	}
	p.emitParams(fn.Params)
	p.emitFunctionBody(fn.Body)
}

func (p *Printer) emitParams(params []*ast.Identifier) {
	p.print("(")
	for i, param := range params {
		if i > 0 {
			p.print(",")
		}
		p.print(param.Name)
	}
	p.print(")")
}

func (p *Printer) emitFunctionBody(body *ast.FunctionBody) {
	saved := p.noIn
	p.noIn = false
	p.print("{")
	p.printDirectives(body.Directives)
	p.printStatements(body.Statements)
	p.closeBrace()
	p.noIn = saved
}
