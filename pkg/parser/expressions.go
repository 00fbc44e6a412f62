package parser

import (
	stderrors "errors"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/nooga/squash/pkg/ast"
	"github.com/nooga/squash/pkg/lexer"
)

// --- Expression Parsing (Pratt Parser) ---

func (p *Parser) parseExpression(precedence int) ast.Expression {
	debugPrint("parseExpression(prec=%d): cur='%s' (%s)", precedence, p.curToken.Literal, p.curToken.Type)
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()
	if leftExp == nil {
		return nil
	}

	for precedence < p.peekPrecedence() {
		if p.noIn && p.peekTokenIs(lexer.IN) {
			break
		}
		// Postfix ++/-- is a restricted production.
		if (p.peekTokenIs(lexer.INC) || p.peekTokenIs(lexer.DEC)) && p.peekToken.NewlineBefore {
			break
		}
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
		if leftExp == nil {
			return nil
		}
	}
	return leftExp
}

// withIn parses fn with `in` allowed again, as inside brackets.
func (p *Parser) withIn(fn func() bool) bool {
	saved := p.noIn
	p.noIn = false
	ok := fn()
	p.noIn = saved
	return ok
}

// -- Prefix Parse Functions --

func (p *Parser) parseIdentifier() ast.Expression {
	ident := p.arena.NewIdentifier(p.curToken.Literal)
	if p.peekTokenIs(lexer.ARROW) && !p.peekToken.NewlineBefore {
		p.nextToken() // '=>'
		return p.parseArrowFunctionBody([]*ast.Identifier{ident})
	}
	return ident
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	value, err := parseNumber(p.curToken.Literal)
	if err != nil {
		p.addError(p.curToken, "could not parse %q as number", p.curToken.Literal)
		return nil
	}
	return p.arena.NewNumberLiteral(value, p.curToken.Literal)
}

// parseNumber converts the raw text of a numeric literal to its value.
func parseNumber(raw string) (float64, error) {
	s := strings.ReplaceAll(raw, "_", "")
	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			return parseRadixDigits(s[2:], base)
		}
	}
	// Legacy octal: 0777
	if len(s) > 1 && s[0] == '0' && strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '7' }) < 0 {
		return parseRadixDigits(s[1:], 8)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && stderrors.Is(err, strconv.ErrRange) {
		return v, nil
	}
	return v, err
}

func parseRadixDigits(digits string, base int) (float64, error) {
	if digits == "" {
		return 0, strconv.ErrSyntax
	}
	if v, err := strconv.ParseUint(digits, base, 64); err == nil {
		return float64(v), nil
	}
	v := 0.0
	for _, c := range strings.ToLower(digits) {
		d := strings.IndexRune("0123456789abcdef", c)
		if d < 0 || d >= base {
			return 0, strconv.ErrSyntax
		}
		v = v*float64(base) + float64(d)
	}
	return v, nil
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return p.arena.NewStringLiteral(p.curToken.Literal)
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	return &ast.BooleanLiteral{Value: p.curTokenIs(lexer.TRUE)}
}

func (p *Parser) parseNullLiteral() ast.Expression {
	return &ast.NullLiteral{}
}

func (p *Parser) parseThisExpression() ast.Expression {
	return &ast.ThisExpression{}
}

// parseRegexLiteral splits /pattern/flags and validates the pattern with
// regexp2 in ECMAScript mode.
func (p *Parser) parseRegexLiteral() ast.Expression {
	literal := p.curToken.Literal
	lastSlash := strings.LastIndexByte(literal, '/')
	if len(literal) < 3 || literal[0] != '/' || lastSlash <= 1 {
		p.addError(p.curToken, "invalid regular expression literal %s", literal)
		return nil
	}
	pattern := literal[1:lastSlash]
	flags := literal[lastSlash+1:]

	opts, err := RegexpOptions(flags)
	if err != nil {
		p.addError(p.curToken, "invalid regular expression flags %q", flags)
		return nil
	}
	if !strings.ContainsRune(flags, 'v') {
		if _, err := regexp2.Compile(pattern, opts); err != nil {
			p.addError(p.curToken, "invalid regular expression /%s/: %v", pattern, err)
			return nil
		}
	}
	return &ast.RegExpLiteral{Pattern: pattern, Flags: flags}
}

// RegexpOptions maps JavaScript regex flags onto regexp2 options.
func RegexpOptions(flags string) (regexp2.RegexOptions, error) {
	opts := regexp2.RegexOptions(regexp2.ECMAScript)
	seen := make(map[rune]bool, len(flags))
	for _, f := range flags {
		if seen[f] {
			return 0, strconv.ErrSyntax
		}
		seen[f] = true
		switch f {
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 's':
			opts |= regexp2.Singleline
		case 'u':
			opts |= regexp2.Unicode
		case 'g', 'y', 'v', 'd':
		default:
			return 0, strconv.ErrSyntax
		}
	}
	return opts, nil
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	op := p.curToken.Literal
	p.nextToken()
	arg := p.parseExpression(PREFIX)
	if arg == nil {
		return nil
	}
	return &ast.UnaryExpression{Operator: op, Argument: arg}
}

func (p *Parser) parsePrefixUpdate() ast.Expression {
	tok := p.curToken
	p.nextToken()
	arg := p.parseExpression(PREFIX)
	if arg == nil {
		return nil
	}
	if !isAssignmentTarget(arg) {
		p.addError(tok, "invalid left-hand side expression in prefix operation")
		return nil
	}
	return &ast.UpdateExpression{Operator: tok.Literal, Prefix: true, Argument: arg}
}

func (p *Parser) parseFunctionExpression() ast.Expression {
	fn := p.parseFunction()
	if fn == nil {
		return nil
	}
	return &ast.FunctionExpression{Func: fn}
}

// parseFunction parses `function name?(params) { body }` starting at the
// function keyword.
func (p *Parser) parseFunction() *ast.Function {
	var name *ast.Identifier
	if p.peekTokenIs(lexer.IDENT) {
		p.nextToken()
		name = p.arena.NewIdentifier(p.curToken.Literal)
	}
	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	params, ok := p.parseParameters()
	if !ok || !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	body := p.parseFunctionBody()
	if body == nil {
		return nil
	}
	return p.arena.NewFunction(name, params, body)
}

// parseParameters parses identifier parameters from `(` to `)`.
func (p *Parser) parseParameters() ([]*ast.Identifier, bool) {
	params := []*ast.Identifier{}
	if p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		return params, true
	}
	for {
		if !p.peekTokenIs(lexer.IDENT) {
			p.addError(p.peekToken, "only identifier parameters are supported, got %s", describe(p.peekToken))
			return nil, false
		}
		p.nextToken()
		params = append(params, p.arena.NewIdentifier(p.curToken.Literal))
		if !p.peekTokenIs(lexer.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(lexer.RPAREN) {
		return nil, false
	}
	return params, true
}

// parseFunctionBody parses `{ directives statements }` starting at `{`.
func (p *Parser) parseFunctionBody() *ast.FunctionBody {
	var body *ast.FunctionBody
	p.withIn(func() bool {
		p.nextToken()
		directives := p.parseDirectives()
		stmts := p.parseStatementList(lexer.RBRACE)
		if p.curTokenIs(lexer.RBRACE) {
			body = p.arena.NewFunctionBody(directives, stmts)
		}
		return body != nil
	})
	return body
}

// parseArrowFunctionBody parses what follows `=>`.
func (p *Parser) parseArrowFunctionBody(params []*ast.Identifier) ast.Expression {
	arrow := &ast.ArrowFunctionExpression{Params: params}
	if p.peekTokenIs(lexer.LBRACE) {
		p.nextToken()
		if arrow.Body = p.parseFunctionBody(); arrow.Body == nil {
			return nil
		}
		return arrow
	}
	p.nextToken()
	if arrow.Expr = p.parseExpression(COMMA); arrow.Expr == nil {
		return nil
	}
	return arrow
}

func (p *Parser) parseNewExpression() ast.Expression {
	p.nextToken()
	callee := p.parseExpression(CALL)
	if callee == nil {
		return nil
	}
	newExpr := &ast.NewExpression{Callee: callee}
	if p.peekTokenIs(lexer.LPAREN) {
		p.nextToken()
		args, ok := p.parseExpressionList(lexer.RPAREN)
		if !ok {
			return nil
		}
		newExpr.Arguments = args
	}
	return newExpr
}

// parseGroupedExpression handles `(expr)` and arrow parameter lists.
func (p *Parser) parseGroupedExpression() ast.Expression {
	if p.isArrowParameterList() {
		params, ok := p.parseParameters()
		if !ok || !p.expectPeek(lexer.ARROW) {
			return nil
		}
		return p.parseArrowFunctionBody(params)
	}

	var expr ast.Expression
	p.withIn(func() bool {
		p.nextToken()
		expr = p.parseExpression(LOWEST)
		if expr == nil || !p.expectPeek(lexer.RPAREN) {
			expr = nil
		}
		return expr != nil
	})
	return expr
}

// isArrowParameterList looks past the parenthesis matching curToken for `=>`.
func (p *Parser) isArrowParameterList() bool {
	depth := 0
	for i := p.pos; i < len(p.tokens); i++ {
		switch p.tokens[i].Type {
		case lexer.LPAREN, lexer.LBRACKET, lexer.LBRACE:
			depth++
		case lexer.RPAREN, lexer.RBRACKET, lexer.RBRACE:
			depth--
			if depth == 0 {
				next := p.tokenAt(i + 1)
				return next.Type == lexer.ARROW && !next.NewlineBefore
			}
		case lexer.EOF:
			return false
		}
	}
	return false
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	arr := &ast.ArrayExpression{Elements: []ast.Expression{}}
	ok := p.withIn(func() bool {
		p.nextToken()
		for !p.curTokenIs(lexer.RBRACKET) {
			if p.curTokenIs(lexer.COMMA) {
				arr.Elements = append(arr.Elements, nil)
				p.nextToken()
				continue
			}
			el := p.parseElement()
			if el == nil {
				return false
			}
			arr.Elements = append(arr.Elements, el)
			if p.peekTokenIs(lexer.COMMA) {
				p.nextToken()
				p.nextToken()
			} else if !p.expectPeek(lexer.RBRACKET) {
				return false
			}
		}
		return true
	})
	if !ok {
		return nil
	}
	return arr
}

// parseElement parses an array element or call argument, including spread.
func (p *Parser) parseElement() ast.Expression {
	if p.curTokenIs(lexer.SPREAD) {
		p.nextToken()
		arg := p.parseExpression(COMMA)
		if arg == nil {
			return nil
		}
		return &ast.SpreadElement{Argument: arg}
	}
	return p.parseExpression(COMMA)
}

func (p *Parser) parseObjectLiteral() ast.Expression {
	obj := &ast.ObjectExpression{Properties: []*ast.Property{}}
	ok := p.withIn(func() bool {
		for !p.peekTokenIs(lexer.RBRACE) {
			p.nextToken()
			prop := p.parseProperty()
			if prop == nil {
				return false
			}
			obj.Properties = append(obj.Properties, prop)
			if !p.peekTokenIs(lexer.COMMA) {
				break
			}
			p.nextToken()
		}
		return p.expectPeek(lexer.RBRACE)
	})
	if !ok {
		return nil
	}
	return obj
}

func (p *Parser) parseProperty() *ast.Property {
	var key *ast.PropertyKey
	switch {
	case p.curTokenIs(lexer.LBRACKET):
		p.nextToken()
		expr := p.parseExpression(COMMA)
		if expr == nil || !p.expectPeek(lexer.RBRACKET) {
			return nil
		}
		key = p.arena.NewPropertyKey(expr, true)
	case p.curTokenIs(lexer.STRING):
		key = p.arena.NewPropertyKey(p.arena.NewStringLiteral(p.curToken.Literal), false)
	case p.curTokenIs(lexer.NUMBER):
		num, ok := p.parseNumberLiteral().(*ast.NumberLiteral)
		if !ok {
			return nil
		}
		key = p.arena.NewPropertyKey(num, false)
	case isIdentifierName(p.curToken):
		key = p.arena.NewPropertyKey(p.arena.NewIdentifier(p.curToken.Literal), false)
		if p.curTokenIs(lexer.IDENT) && (p.peekTokenIs(lexer.COMMA) || p.peekTokenIs(lexer.RBRACE)) {
			return p.arena.NewProperty(key, p.arena.NewIdentifier(p.curToken.Literal), true)
		}
	default:
		p.addError(p.curToken, "unexpected token %s in object literal", describe(p.curToken))
		return nil
	}

	if !p.expectPeek(lexer.COLON) {
		return nil
	}
	p.nextToken()
	value := p.parseExpression(COMMA)
	if value == nil {
		return nil
	}
	return p.arena.NewProperty(key, value, false)
}

// isIdentifierName reports whether tok can be used as a property name.
func isIdentifierName(tok lexer.Token) bool {
	return tok.Type == lexer.IDENT || lexer.IsKeyword(tok.Literal)
}

// -- Infix Parse Functions --

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	op := p.curToken.Literal
	precedence := p.curPrecedence()
	if op == "**" {
		precedence-- // right-associative
	}
	p.nextToken()
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	return p.arena.NewBinaryExpression(op, left, right)
}

func (p *Parser) parseLogicalExpression(left ast.Expression) ast.Expression {
	op := p.curToken.Literal
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	return &ast.LogicalExpression{Operator: op, Left: left, Right: right}
}

func (p *Parser) parseAssignmentExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	if !isAssignmentTarget(left) {
		p.addError(tok, "invalid left-hand side in assignment")
		return nil
	}
	p.nextToken()
	value := p.parseExpression(COMMA)
	if value == nil {
		return nil
	}
	return p.arena.NewAssignmentExpression(tok.Literal, left, value)
}

func isAssignmentTarget(e ast.Expression) bool {
	switch e.(type) {
	case *ast.Identifier, *ast.MemberExpression:
		return true
	}
	return false
}

func (p *Parser) parseSequenceExpression(left ast.Expression) ast.Expression {
	seq := &ast.SequenceExpression{Expressions: []ast.Expression{left}}
	for {
		p.nextToken()
		next := p.parseExpression(COMMA)
		if next == nil {
			return nil
		}
		seq.Expressions = append(seq.Expressions, next)
		if !p.peekTokenIs(lexer.COMMA) {
			return seq
		}
		p.nextToken()
	}
}

func (p *Parser) parseConditionalExpression(test ast.Expression) ast.Expression {
	cond := &ast.ConditionalExpression{Test: test}
	ok := p.withIn(func() bool {
		p.nextToken()
		cond.Consequent = p.parseExpression(COMMA)
		return cond.Consequent != nil
	})
	if !ok || !p.expectPeek(lexer.COLON) {
		return nil
	}
	p.nextToken()
	if cond.Alternate = p.parseExpression(COMMA); cond.Alternate == nil {
		return nil
	}
	return cond
}

func (p *Parser) parsePostfixUpdate(left ast.Expression) ast.Expression {
	if !isAssignmentTarget(left) {
		p.addError(p.curToken, "invalid left-hand side expression in postfix operation")
		return nil
	}
	return &ast.UpdateExpression{Operator: p.curToken.Literal, Argument: left}
}

func (p *Parser) parseCallExpression(callee ast.Expression) ast.Expression {
	args, ok := p.parseExpressionList(lexer.RPAREN)
	if !ok {
		return nil
	}
	return p.arena.NewCallExpression(callee, args)
}

// parseExpressionList parses elements up to end, starting at the opening
// token and accepting a trailing comma.
func (p *Parser) parseExpressionList(end lexer.TokenType) ([]ast.Expression, bool) {
	list := []ast.Expression{}
	ok := p.withIn(func() bool {
		if p.peekTokenIs(end) {
			p.nextToken()
			return true
		}
		for {
			p.nextToken()
			el := p.parseElement()
			if el == nil {
				return false
			}
			list = append(list, el)
			if !p.peekTokenIs(lexer.COMMA) {
				break
			}
			p.nextToken()
			if p.peekTokenIs(end) {
				break
			}
		}
		return p.expectPeek(end)
	})
	if !ok {
		return nil, false
	}
	return list, true
}

func (p *Parser) parseMemberExpression(object ast.Expression) ast.Expression {
	p.nextToken()
	if !isIdentifierName(p.curToken) {
		p.addError(p.curToken, "unexpected token %s after '.'", describe(p.curToken))
		return nil
	}
	return p.arena.NewMemberExpression(object, p.arena.NewIdentifier(p.curToken.Literal), false)
}

func (p *Parser) parseIndexExpression(object ast.Expression) ast.Expression {
	var index ast.Expression
	ok := p.withIn(func() bool {
		p.nextToken()
		index = p.parseExpression(LOWEST)
		return index != nil && p.expectPeek(lexer.RBRACKET)
	})
	if !ok {
		return nil
	}
	return p.arena.NewMemberExpression(object, index, true)
}
