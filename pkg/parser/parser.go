package parser

import (
	"fmt"

	"github.com/nooga/squash/pkg/ast"
	"github.com/nooga/squash/pkg/errors"
	"github.com/nooga/squash/pkg/lexer"
	"github.com/nooga/squash/pkg/source"
)

// --- Debug Flag ---
const debugParser = false

func debugPrint(format string, args ...interface{}) {
	if debugParser {
		fmt.Printf("[Parser Debug] "+format+"\n", args...)
	}
}

// --- End Debug Flag ---

// Parser takes the token stream of a source file and builds an AST.
type Parser struct {
	tokens []lexer.Token
	pos    int
	source *source.SourceFile
	arena  *ast.Arena
	errors []errors.SquashError

	curToken  lexer.Token
	peekToken lexer.Token

	// Pratt parser for VALUE expressions
	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn

	// noIn disables `in` as a binary operator inside a for-statement head.
	noIn bool
}

// Parsing functions types for Pratt parser
type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression // Arg is the left side expression
)

// Precedence levels for VALUE operators
const (
	_ int = iota
	LOWEST
	COMMA       // ,
	ASSIGNMENT  // =, +=, -=, *=, /=, %=, **=, &=, |=, ^=, <<=, >>=, >>>=, &&=, ||=, ??=
	TERNARY     // ?:
	COALESCE    // ??
	LOGICAL_OR  // ||
	LOGICAL_AND // &&
	BITWISE_OR  // |
	BITWISE_XOR // ^
	BITWISE_AND // &
	EQUALS      // ==, !=, ===, !==
	LESSGREATER // >, <, >=, <=, in, instanceof
	SHIFT       // <<, >>, >>>
	SUM         // + or -
	PRODUCT     // * or / or %
	POWER       // ** (Right-associative handled in parseInfix)
	PREFIX      // -X or !X or ++X or --X or ~X
	POSTFIX     // X++ or X--
	CALL        // myFunction(X)
	MEMBER      // object.property, array[index]
)

// Precedences map for VALUE operator tokens
var precedences = map[lexer.TokenType]int{
	lexer.COMMA: COMMA,

	lexer.ASSIGN:                      ASSIGNMENT,
	lexer.PLUS_ASSIGN:                 ASSIGNMENT,
	lexer.MINUS_ASSIGN:                ASSIGNMENT,
	lexer.ASTERISK_ASSIGN:             ASSIGNMENT,
	lexer.SLASH_ASSIGN:                ASSIGNMENT,
	lexer.REMAINDER_ASSIGN:            ASSIGNMENT,
	lexer.EXPONENT_ASSIGN:             ASSIGNMENT,
	lexer.BITWISE_AND_ASSIGN:          ASSIGNMENT,
	lexer.BITWISE_OR_ASSIGN:           ASSIGNMENT,
	lexer.BITWISE_XOR_ASSIGN:          ASSIGNMENT,
	lexer.LEFT_SHIFT_ASSIGN:           ASSIGNMENT,
	lexer.RIGHT_SHIFT_ASSIGN:          ASSIGNMENT,
	lexer.UNSIGNED_RIGHT_SHIFT_ASSIGN: ASSIGNMENT,
	lexer.LOGICAL_AND_ASSIGN:          ASSIGNMENT,
	lexer.LOGICAL_OR_ASSIGN:           ASSIGNMENT,
	lexer.COALESCE_ASSIGN:             ASSIGNMENT,

	lexer.QUESTION:    TERNARY,
	lexer.COALESCE:    COALESCE,
	lexer.LOGICAL_OR:  LOGICAL_OR,
	lexer.LOGICAL_AND: LOGICAL_AND,

	lexer.BITWISE_OR:  BITWISE_OR,
	lexer.BITWISE_XOR: BITWISE_XOR,
	lexer.BITWISE_AND: BITWISE_AND,

	lexer.EQ:            EQUALS,
	lexer.NOT_EQ:        EQUALS,
	lexer.STRICT_EQ:     EQUALS,
	lexer.STRICT_NOT_EQ: EQUALS,

	lexer.LT:         LESSGREATER,
	lexer.GT:         LESSGREATER,
	lexer.LE:         LESSGREATER,
	lexer.GE:         LESSGREATER,
	lexer.IN:         LESSGREATER,
	lexer.INSTANCEOF: LESSGREATER,

	lexer.LEFT_SHIFT:           SHIFT,
	lexer.RIGHT_SHIFT:          SHIFT,
	lexer.UNSIGNED_RIGHT_SHIFT: SHIFT,

	lexer.PLUS:      SUM,
	lexer.MINUS:     SUM,
	lexer.ASTERISK:  PRODUCT,
	lexer.SLASH:     PRODUCT,
	lexer.REMAINDER: PRODUCT,
	lexer.EXPONENT:  POWER,

	lexer.INC: POSTFIX,
	lexer.DEC: POSTFIX,

	lexer.LPAREN:   CALL,
	lexer.DOT:      MEMBER,
	lexer.LBRACKET: MEMBER,
}

// NewParser lexes src and prepares a parser over its tokens. Nodes are
// allocated from arena; a nil arena gets a fresh one.
func NewParser(src *source.SourceFile, arena *ast.Arena) *Parser {
	if arena == nil {
		arena = ast.NewArena()
	}
	p := &Parser{
		tokens: lexer.NewLexer(src.Content).Tokenize(),
		pos:    -1,
		source: src,
		arena:  arena,
	}

	p.prefixParseFns = make(map[lexer.TokenType]prefixParseFn)
	p.registerPrefix(lexer.IDENT, p.parseIdentifier)
	p.registerPrefix(lexer.NUMBER, p.parseNumberLiteral)
	p.registerPrefix(lexer.STRING, p.parseStringLiteral)
	p.registerPrefix(lexer.REGEX, p.parseRegexLiteral)
	p.registerPrefix(lexer.TRUE, p.parseBooleanLiteral)
	p.registerPrefix(lexer.FALSE, p.parseBooleanLiteral)
	p.registerPrefix(lexer.NULL, p.parseNullLiteral)
	p.registerPrefix(lexer.THIS, p.parseThisExpression)
	p.registerPrefix(lexer.FUNCTION, p.parseFunctionExpression)
	p.registerPrefix(lexer.NEW, p.parseNewExpression)
	p.registerPrefix(lexer.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(lexer.LBRACKET, p.parseArrayLiteral)
	p.registerPrefix(lexer.LBRACE, p.parseObjectLiteral)
	for _, t := range []lexer.TokenType{lexer.BANG, lexer.MINUS, lexer.PLUS, lexer.BITWISE_NOT, lexer.TYPEOF, lexer.VOID, lexer.DELETE} {
		p.registerPrefix(t, p.parseUnaryExpression)
	}
	p.registerPrefix(lexer.INC, p.parsePrefixUpdate)
	p.registerPrefix(lexer.DEC, p.parsePrefixUpdate)

	p.infixParseFns = make(map[lexer.TokenType]infixParseFn)
	for t, prec := range precedences {
		switch prec {
		case ASSIGNMENT:
			p.registerInfix(t, p.parseAssignmentExpression)
		case COALESCE, LOGICAL_OR, LOGICAL_AND:
			p.registerInfix(t, p.parseLogicalExpression)
		case BITWISE_OR, BITWISE_XOR, BITWISE_AND, EQUALS, LESSGREATER, SHIFT, SUM, PRODUCT, POWER:
			p.registerInfix(t, p.parseInfixExpression)
		}
	}
	p.registerInfix(lexer.COMMA, p.parseSequenceExpression)
	p.registerInfix(lexer.QUESTION, p.parseConditionalExpression)
	p.registerInfix(lexer.INC, p.parsePostfixUpdate)
	p.registerInfix(lexer.DEC, p.parsePostfixUpdate)
	p.registerInfix(lexer.LPAREN, p.parseCallExpression)
	p.registerInfix(lexer.DOT, p.parseMemberExpression)
	p.registerInfix(lexer.LBRACKET, p.parseIndexExpression)

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	return p
}

// Parse is a convenience wrapper around NewParser and ParseProgram.
func Parse(src *source.SourceFile, arena *ast.Arena) (*ast.Program, []errors.SquashError) {
	return NewParser(src, arena).ParseProgram()
}

// Errors returns the list of parsing errors.
func (p *Parser) Errors() []errors.SquashError {
	return p.errors
}

func (p *Parser) tokenAt(i int) lexer.Token {
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

// nextToken advances the current and peek tokens. It never moves past EOF.
func (p *Parser) nextToken() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	p.curToken = p.tokenAt(p.pos)
	p.peekToken = p.tokenAt(p.pos + 1)
	debugPrint("nextToken(): cur='%s' (%s), peek='%s' (%s)", p.curToken.Literal, p.curToken.Type, p.peekToken.Literal, p.peekToken.Type)
}

// ParseProgram parses the entire input and returns the root Program node and any errors.
func (p *Parser) ParseProgram() (*ast.Program, []errors.SquashError) {
	program := &ast.Program{}
	program.Directives = p.parseDirectives()
	program.Statements = p.parseStatementList(lexer.EOF)
	return program, p.errors
}

// parseDirectives consumes a directive prologue starting at curToken and
// leaves curToken on the first statement after it.
func (p *Parser) parseDirectives() []*ast.Directive {
	var directives []*ast.Directive
	for p.curTokenIs(lexer.STRING) && p.endsDirective(p.peekToken) {
		raw := p.source.Content[p.curToken.StartPos:p.curToken.EndPos]
		directives = append(directives, &ast.Directive{Value: raw[1 : len(raw)-1], Quote: raw[0]})
		p.nextToken()
		if p.curTokenIs(lexer.SEMICOLON) {
			p.nextToken()
		}
	}
	return directives
}

func (p *Parser) endsDirective(next lexer.Token) bool {
	switch next.Type {
	case lexer.SEMICOLON, lexer.RBRACE, lexer.EOF:
		return true
	}
	return next.NewlineBefore && p.infixParseFns[next.Type] == nil
}

// parseStatementList parses statements until curToken is end, where it stops.
func (p *Parser) parseStatementList(end lexer.TokenType) []ast.Statement {
	stmts := []ast.Statement{}
	for !p.curTokenIs(end) {
		if p.curTokenIs(lexer.EOF) {
			p.addError(p.curToken, "unexpected end of input, expected %s", end)
			return stmts
		}
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		} else {
			p.synchronize()
		}
		p.nextToken()
	}
	return stmts
}

// synchronize skips to the end of the broken statement.
func (p *Parser) synchronize() {
	for !p.curTokenIs(lexer.SEMICOLON) && !p.peekTokenIs(lexer.RBRACE) && !p.peekTokenIs(lexer.EOF) {
		p.nextToken()
	}
}

// --- Helpers ---

func (p *Parser) registerPrefix(tokenType lexer.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType lexer.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t lexer.TokenType) bool {
	return p.peekToken.Type == t
}

// peekIsWord reports whether the next token is the contextual keyword word.
func (p *Parser) peekIsWord(word string) bool {
	return p.peekToken.Type == lexer.IDENT && p.peekToken.Literal == word
}

// expectPeek checks the type of the next token and advances if it matches.
// If it doesn't match, it adds an error.
func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

// expectSemicolon ends a statement, applying automatic semicolon insertion.
func (p *Parser) expectSemicolon() bool {
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
		return true
	}
	if p.peekTokenIs(lexer.RBRACE) || p.peekTokenIs(lexer.EOF) || p.peekToken.NewlineBefore {
		return true
	}
	p.peekError(lexer.SEMICOLON)
	return false
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

// --- Error Handling ---

func (p *Parser) addError(tok lexer.Token, format string, args ...any) {
	pos := errors.Position{
		Line:     tok.Line,
		Column:   tok.Column,
		StartPos: tok.StartPos,
		EndPos:   tok.EndPos,
		Source:   p.source,
	}
	p.errors = append(p.errors, errors.NewSyntaxError(pos, format, args...))
}

func (p *Parser) peekError(t lexer.TokenType) {
	p.addError(p.peekToken, "expected next token to be %s, got %s instead", t, describe(p.peekToken))
}

func (p *Parser) noPrefixParseFnError(tok lexer.Token) {
	if tok.Type == lexer.ILLEGAL {
		p.addError(tok, "%s", tok.Literal)
		return
	}
	p.addError(tok, "unexpected token %s", describe(tok))
}

func describe(tok lexer.Token) string {
	switch tok.Type {
	case lexer.EOF:
		return "end of input"
	case lexer.IDENT, lexer.NUMBER, lexer.STRING, lexer.REGEX, lexer.ILLEGAL:
		return fmt.Sprintf("%s %q", tok.Type, tok.Literal)
	}
	return fmt.Sprintf("%q", tok.Literal)
}
