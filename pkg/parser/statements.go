package parser

import (
	"github.com/nooga/squash/pkg/ast"
	"github.com/nooga/squash/pkg/lexer"
)

// --- Statement Parsing ---
//
// Every parse function starts with curToken on the first token of its
// construct and returns with curToken on the last one.

func (p *Parser) parseStatement() ast.Statement {
	debugPrint("parseStatement: cur='%s' (%s), peek='%s' (%s)", p.curToken.Literal, p.curToken.Type, p.peekToken.Literal, p.peekToken.Type)
	switch p.curToken.Type {
	case lexer.VAR, lexer.CONST:
		return p.parseVariableStatement()
	case lexer.LET:
		if p.peekTokenIs(lexer.IDENT) {
			return p.parseVariableStatement()
		}
		p.addError(p.curToken, "'let' cannot be used as an identifier")
		return nil
	case lexer.FUNCTION:
		return p.parseFunctionDeclaration()
	case lexer.RETURN:
		return p.parseReturnStatement()
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.WHILE:
		return p.parseWhileStatement()
	case lexer.DO:
		return p.parseDoWhileStatement()
	case lexer.FOR:
		return p.parseForStatement()
	case lexer.BREAK, lexer.CONTINUE:
		return p.parseJumpStatement()
	case lexer.THROW:
		return p.parseThrowStatement()
	case lexer.TRY:
		return p.parseTryStatement()
	case lexer.LBRACE:
		if block := p.parseBlockStatement(); block != nil {
			return block
		}
		return nil
	case lexer.SEMICOLON:
		return &ast.EmptyStatement{}
	case lexer.DEBUGGER:
		if !p.expectSemicolon() {
			return nil
		}
		return &ast.DebuggerStatement{}
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseVariableStatement() ast.Statement {
	decl := p.parseVariableDeclaration(false)
	if decl == nil || !p.expectSemicolon() {
		return nil
	}
	return decl
}

// parseVariableDeclaration parses `var a = 1, b` without the terminating
// semicolon. inForHead relaxes the const initializer requirement.
func (p *Parser) parseVariableDeclaration(inForHead bool) *ast.VariableDeclaration {
	kind := ast.Var
	switch p.curToken.Type {
	case lexer.LET:
		kind = ast.Let
	case lexer.CONST:
		kind = ast.Const
	}
	decl := p.arena.NewVariableDeclaration(kind, nil)

	for {
		if !p.expectPeek(lexer.IDENT) {
			return nil
		}
		declarator := p.arena.NewVariableDeclarator(p.arena.NewIdentifier(p.curToken.Literal), nil)
		if p.peekTokenIs(lexer.ASSIGN) {
			p.nextToken() // '='
			p.nextToken()
			declarator.Init = p.parseExpression(COMMA)
			if declarator.Init == nil {
				return nil
			}
		} else if kind == ast.Const && !(inForHead && (p.peekTokenIs(lexer.IN) || p.peekIsWord("of"))) {
			p.addError(p.peekToken, "missing initializer in const declaration")
			return nil
		}
		decl.Declarations = append(decl.Declarations, declarator)

		if !p.peekTokenIs(lexer.COMMA) {
			return decl
		}
		p.nextToken()
	}
}

func (p *Parser) parseFunctionDeclaration() ast.Statement {
	if !p.peekTokenIs(lexer.IDENT) {
		p.addError(p.peekToken, "function declaration requires a name")
		return nil
	}
	fn := p.parseFunction()
	if fn == nil {
		return nil
	}
	return &ast.FunctionDeclaration{Func: fn}
}

// parseReturnStatement handles the restricted production: a line break after
// `return` ends the statement.
func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := p.arena.NewReturnStatement(nil)
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
		return stmt
	}
	if p.peekTokenIs(lexer.RBRACE) || p.peekTokenIs(lexer.EOF) || p.peekToken.NewlineBefore {
		return stmt
	}
	p.nextToken()
	stmt.Argument = p.parseExpression(LOWEST)
	if stmt.Argument == nil || !p.expectSemicolon() {
		return nil
	}
	return stmt
}

func (p *Parser) parseIfStatement() ast.Statement {
	test := p.parseParenthesizedCondition()
	if test == nil {
		return nil
	}
	p.nextToken()
	cons := p.parseStatement()
	if cons == nil {
		return nil
	}
	stmt := p.arena.NewIfStatement(test, cons, nil)
	if p.peekTokenIs(lexer.ELSE) {
		p.nextToken() // 'else'
		p.nextToken()
		stmt.Alternate = p.parseStatement()
		if stmt.Alternate == nil {
			return nil
		}
	}
	return stmt
}

// parseParenthesizedCondition parses `(expr)` following the current keyword.
func (p *Parser) parseParenthesizedCondition() ast.Expression {
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	p.nextToken()
	saved := p.noIn
	p.noIn = false
	test := p.parseExpression(LOWEST)
	p.noIn = saved
	if test == nil || !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	return test
}

func (p *Parser) parseWhileStatement() ast.Statement {
	test := p.parseParenthesizedCondition()
	if test == nil {
		return nil
	}
	p.nextToken()
	body := p.parseStatement()
	if body == nil {
		return nil
	}
	return &ast.WhileStatement{Test: test, Body: body}
}

func (p *Parser) parseDoWhileStatement() ast.Statement {
	p.nextToken()
	body := p.parseStatement()
	if body == nil || !p.expectPeek(lexer.WHILE) {
		return nil
	}
	test := p.parseParenthesizedCondition()
	if test == nil {
		return nil
	}
	// The semicolon after do-while is always optional.
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	return &ast.DoWhileStatement{Body: body, Test: test}
}

func (p *Parser) parseForStatement() ast.Statement {
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	p.nextToken()

	var init ast.Node
	switch p.curToken.Type {
	case lexer.SEMICOLON:
		// no init
	case lexer.VAR, lexer.LET, lexer.CONST:
		p.noIn = true
		decl := p.parseVariableDeclaration(true)
		p.noIn = false
		if decl == nil {
			return nil
		}
		if p.peekTokenIs(lexer.IN) || p.peekIsWord("of") {
			if len(decl.Declarations) != 1 || decl.Declarations[0].Init != nil {
				p.addError(p.peekToken, "invalid left-hand side in for-%s loop", p.peekToken.Literal)
				return nil
			}
			return p.parseForInRest(decl)
		}
		init = decl
	default:
		p.noIn = true
		expr := p.parseExpression(LOWEST)
		p.noIn = false
		if expr == nil {
			return nil
		}
		if p.peekTokenIs(lexer.IN) || p.peekIsWord("of") {
			if !isAssignmentTarget(expr) {
				p.addError(p.curToken, "invalid left-hand side in for-%s loop", p.peekToken.Literal)
				return nil
			}
			return p.parseForInRest(expr)
		}
		init = expr
	}

	stmt := &ast.ForStatement{Init: init}
	if init != nil && !p.expectPeek(lexer.SEMICOLON) {
		return nil
	}
	if !p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
		if stmt.Test = p.parseExpression(LOWEST); stmt.Test == nil {
			return nil
		}
	}
	if !p.expectPeek(lexer.SEMICOLON) {
		return nil
	}
	if !p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		if stmt.Update = p.parseExpression(LOWEST); stmt.Update == nil {
			return nil
		}
	}
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	p.nextToken()
	if stmt.Body = p.parseStatement(); stmt.Body == nil {
		return nil
	}
	return stmt
}

// parseForInRest continues after the left side of `for (left in/of right)`.
func (p *Parser) parseForInRest(left ast.Node) ast.Statement {
	p.nextToken() // 'in' or 'of'
	stmt := &ast.ForInStatement{Left: left, Of: p.curTokenIs(lexer.IDENT)}
	p.nextToken()
	prec := LOWEST
	if stmt.Of {
		prec = COMMA
	}
	if stmt.Right = p.parseExpression(prec); stmt.Right == nil {
		return nil
	}
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	p.nextToken()
	if stmt.Body = p.parseStatement(); stmt.Body == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseJumpStatement() ast.Statement {
	isBreak := p.curTokenIs(lexer.BREAK)
	if p.peekTokenIs(lexer.IDENT) && !p.peekToken.NewlineBefore {
		p.addError(p.peekToken, "labeled statements are not supported")
		return nil
	}
	if !p.expectSemicolon() {
		return nil
	}
	if isBreak {
		return &ast.BreakStatement{}
	}
	return &ast.ContinueStatement{}
}

func (p *Parser) parseThrowStatement() ast.Statement {
	if p.peekToken.NewlineBefore {
		p.addError(p.peekToken, "illegal newline after throw")
		return nil
	}
	p.nextToken()
	arg := p.parseExpression(LOWEST)
	if arg == nil || !p.expectSemicolon() {
		return nil
	}
	return &ast.ThrowStatement{Argument: arg}
}

func (p *Parser) parseTryStatement() ast.Statement {
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	stmt := &ast.TryStatement{Block: p.parseBlockStatement()}
	if stmt.Block == nil {
		return nil
	}
	if p.peekTokenIs(lexer.CATCH) {
		p.nextToken()
		handler := &ast.CatchClause{}
		if p.peekTokenIs(lexer.LPAREN) {
			p.nextToken()
			if !p.expectPeek(lexer.IDENT) {
				return nil
			}
			handler.Param = p.arena.NewIdentifier(p.curToken.Literal)
			if !p.expectPeek(lexer.RPAREN) {
				return nil
			}
		}
		if !p.expectPeek(lexer.LBRACE) {
			return nil
		}
		if handler.Body = p.parseBlockStatement(); handler.Body == nil {
			return nil
		}
		stmt.Handler = handler
	}
	if p.peekTokenIs(lexer.FINALLY) {
		p.nextToken()
		if !p.expectPeek(lexer.LBRACE) {
			return nil
		}
		if stmt.Finalizer = p.parseBlockStatement(); stmt.Finalizer == nil {
			return nil
		}
	}
	if stmt.Handler == nil && stmt.Finalizer == nil {
		p.addError(p.peekToken, "missing catch or finally after try")
		return nil
	}
	return stmt
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	p.nextToken() // '{'
	saved := p.noIn
	p.noIn = false
	stmts := p.parseStatementList(lexer.RBRACE)
	p.noIn = saved
	if !p.curTokenIs(lexer.RBRACE) {
		return nil
	}
	return p.arena.NewBlockStatement(stmts)
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	expr := p.parseExpression(LOWEST)
	if expr == nil || !p.expectSemicolon() {
		return nil
	}
	return p.arena.NewExpressionStatement(expr)
}
