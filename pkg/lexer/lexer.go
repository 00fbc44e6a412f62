package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

// TokenType represents the type of a token.
type TokenType string

// Token represents a lexical token.
type Token struct {
	Type     TokenType
	Literal  string // Raw lexeme; for STRING the decoded value
	Line     int    // 1-based line number where the token starts
	Column   int    // 1-based column number where the token starts
	StartPos int    // 0-based byte offset where the token starts
	EndPos   int    // 0-based byte offset after the token ends
	// NewlineBefore reports a line terminator between the previous token and this one.
	NewlineBefore bool
}

// --- Token Types ---
const (
	// Special
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Identifiers + Literals
	IDENT  TokenType = "IDENT"
	NUMBER TokenType = "NUMBER"
	STRING TokenType = "STRING"
	REGEX  TokenType = "REGEX"

	// Operators
	ASSIGN               TokenType = "="
	PLUS                 TokenType = "+"
	MINUS                TokenType = "-"
	BANG                 TokenType = "!"
	ASTERISK             TokenType = "*"
	SLASH                TokenType = "/"
	REMAINDER            TokenType = "%"
	EXPONENT             TokenType = "**"
	LT                   TokenType = "<"
	GT                   TokenType = ">"
	LE                   TokenType = "<="
	GE                   TokenType = ">="
	EQ                   TokenType = "=="
	NOT_EQ               TokenType = "!="
	STRICT_EQ            TokenType = "==="
	STRICT_NOT_EQ        TokenType = "!=="
	BITWISE_AND          TokenType = "&"
	BITWISE_OR           TokenType = "|"
	BITWISE_XOR          TokenType = "^"
	BITWISE_NOT          TokenType = "~"
	LEFT_SHIFT           TokenType = "<<"
	RIGHT_SHIFT          TokenType = ">>"
	UNSIGNED_RIGHT_SHIFT TokenType = ">>>"
	LOGICAL_AND          TokenType = "&&"
	LOGICAL_OR           TokenType = "||"
	COALESCE             TokenType = "??"
	INC                  TokenType = "++"
	DEC                  TokenType = "--"
	DOT                  TokenType = "."
	SPREAD               TokenType = "..."
	QUESTION             TokenType = "?"
	ARROW                TokenType = "=>"

	// Compound Assignment
	PLUS_ASSIGN                 TokenType = "+="
	MINUS_ASSIGN                TokenType = "-="
	ASTERISK_ASSIGN             TokenType = "*="
	SLASH_ASSIGN                TokenType = "/="
	REMAINDER_ASSIGN            TokenType = "%="
	EXPONENT_ASSIGN             TokenType = "**="
	BITWISE_AND_ASSIGN          TokenType = "&="
	BITWISE_OR_ASSIGN           TokenType = "|="
	BITWISE_XOR_ASSIGN          TokenType = "^="
	LEFT_SHIFT_ASSIGN           TokenType = "<<="
	RIGHT_SHIFT_ASSIGN          TokenType = ">>="
	UNSIGNED_RIGHT_SHIFT_ASSIGN TokenType = ">>>="
	LOGICAL_AND_ASSIGN          TokenType = "&&="
	LOGICAL_OR_ASSIGN           TokenType = "||="
	COALESCE_ASSIGN             TokenType = "??="

	// Delimiters
	COMMA     TokenType = ","
	SEMICOLON TokenType = ";"
	COLON     TokenType = ":"
	LPAREN    TokenType = "("
	RPAREN    TokenType = ")"
	LBRACE    TokenType = "{"
	RBRACE    TokenType = "}"
	LBRACKET  TokenType = "["
	RBRACKET  TokenType = "]"

	// Keywords
	VAR        TokenType = "VAR"
	LET        TokenType = "LET"
	CONST      TokenType = "CONST"
	FUNCTION   TokenType = "FUNCTION"
	RETURN     TokenType = "RETURN"
	IF         TokenType = "IF"
	ELSE       TokenType = "ELSE"
	WHILE      TokenType = "WHILE"
	DO         TokenType = "DO"
	FOR        TokenType = "FOR"
	IN         TokenType = "IN"
	BREAK      TokenType = "BREAK"
	CONTINUE   TokenType = "CONTINUE"
	THROW      TokenType = "THROW"
	TRY        TokenType = "TRY"
	CATCH      TokenType = "CATCH"
	FINALLY    TokenType = "FINALLY"
	NEW        TokenType = "NEW"
	TYPEOF     TokenType = "TYPEOF"
	VOID       TokenType = "VOID"
	DELETE     TokenType = "DELETE"
	INSTANCEOF TokenType = "INSTANCEOF"
	TRUE       TokenType = "TRUE"
	FALSE      TokenType = "FALSE"
	NULL       TokenType = "NULL"
	THIS       TokenType = "THIS"
	DEBUGGER   TokenType = "DEBUGGER"
)

var keywords = map[string]TokenType{
	"var":        VAR,
	"let":        LET,
	"const":      CONST,
	"function":   FUNCTION,
	"return":     RETURN,
	"if":         IF,
	"else":       ELSE,
	"while":      WHILE,
	"do":         DO,
	"for":        FOR,
	"in":         IN,
	"break":      BREAK,
	"continue":   CONTINUE,
	"throw":      THROW,
	"try":        TRY,
	"catch":      CATCH,
	"finally":    FINALLY,
	"new":        NEW,
	"typeof":     TYPEOF,
	"void":       VOID,
	"delete":     DELETE,
	"instanceof": INSTANCEOF,
	"true":       TRUE,
	"false":      FALSE,
	"null":       NULL,
	"this":       THIS,
	"debugger":   DEBUGGER,
}

// LookupIdent checks the keywords table for an identifier.
func LookupIdent(ident string) TokenType {
	if tokType, ok := keywords[ident]; ok {
		return tokType
	}
	return IDENT
}

// IsKeyword reports whether word is reserved by the lexer.
func IsKeyword(word string) bool {
	_, ok := keywords[word]
	return ok
}

// punctuators is ordered longest first so the scan is a longest match.
var punctuators = []TokenType{
	UNSIGNED_RIGHT_SHIFT_ASSIGN,
	STRICT_EQ, STRICT_NOT_EQ, UNSIGNED_RIGHT_SHIFT, EXPONENT_ASSIGN, LEFT_SHIFT_ASSIGN,
	RIGHT_SHIFT_ASSIGN, LOGICAL_AND_ASSIGN, LOGICAL_OR_ASSIGN, COALESCE_ASSIGN, SPREAD,
	EQ, NOT_EQ, LE, GE, EXPONENT, LEFT_SHIFT, RIGHT_SHIFT, LOGICAL_AND, LOGICAL_OR, COALESCE,
	INC, DEC, ARROW, PLUS_ASSIGN, MINUS_ASSIGN, ASTERISK_ASSIGN, SLASH_ASSIGN,
	REMAINDER_ASSIGN, BITWISE_AND_ASSIGN, BITWISE_OR_ASSIGN, BITWISE_XOR_ASSIGN,
	ASSIGN, PLUS, MINUS, BANG, ASTERISK, SLASH, REMAINDER, LT, GT, BITWISE_AND, BITWISE_OR,
	BITWISE_XOR, BITWISE_NOT, DOT, QUESTION, COMMA, SEMICOLON, COLON, LPAREN, RPAREN,
	LBRACE, RBRACE, LBRACKET, RBRACKET,
}

// Lexer holds the state of the scanner.
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char's byte offset)
	readPosition int  // current reading position in input (byte offset after current char)
	ch           byte // current char under examination
	line         int  // current 1-based line number
	column       int  // current 1-based column number

	prev        TokenType // last significant token, drives regex detection
	sawNewline  bool
	illegalNote string
}

// NewLexer creates a new Lexer.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

// readChar gives us the next character and advances our position in the input string.
// It also updates the line and column count.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

// peekChar looks ahead in the input without consuming the character.
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

// skipTrivia consumes whitespace and comments, remembering line terminators.
func (l *Lexer) skipTrivia() {
	for !l.atEOF() {
		switch {
		case l.ch == '\n':
			l.sawNewline = true
			l.readChar()
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\v' || l.ch == '\f':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			l.skipComment()
		case l.ch == '/' && l.peekChar() == '*':
			if !l.skipMultilineComment() {
				return
			}
		case l.ch >= utf8.RuneSelf:
			r, size := utf8.DecodeRuneInString(l.input[l.position:])
			if r == '\u2028' || r == '\u2029' {
				l.sawNewline = true
			} else if !unicode.IsSpace(r) && r != '\ufeff' {
				return
			}
			for i := 0; i < size; i++ {
				l.readChar()
			}
		default:
			return
		}
	}
}

func (l *Lexer) skipComment() {
	for l.ch != '\n' && !l.atEOF() {
		l.readChar()
	}
}

// skipMultilineComment returns false when the comment is unterminated.
func (l *Lexer) skipMultilineComment() bool {
	l.readChar() // '/'
	l.readChar() // '*'
	for !l.atEOF() {
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			return true
		}
		if l.ch == '\n' {
			l.sawNewline = true
		}
		l.readChar()
	}
	l.illegalNote = "Unterminated multiline comment"
	return false
}

// regexAllowed reports whether a '/' at this point starts a regular expression.
func (l *Lexer) regexAllowed() bool {
	switch l.prev {
	case IDENT, NUMBER, STRING, REGEX, RPAREN, RBRACKET, RBRACE, THIS, TRUE, FALSE, NULL, INC, DEC:
		return false
	}
	return true
}

// NextToken scans the input and returns the next token.
func (l *Lexer) NextToken() Token {
	l.sawNewline = false
	l.illegalNote = ""
	l.skipTrivia()

	tok := Token{Line: l.line, Column: l.column, StartPos: l.position, NewlineBefore: l.sawNewline}
	startPos := l.position

	switch {
	case l.illegalNote != "":
		tok.Type = ILLEGAL
		tok.Literal = l.illegalNote
	case l.atEOF():
		tok.Type = EOF
	case isIdentifierStart(l.ch) || l.ch >= utf8.RuneSelf:
		literal, ok := l.readIdentifier()
		if !ok {
			tok.Type = ILLEGAL
			tok.Literal = literal
			break
		}
		tok.Type = LookupIdent(literal)
		tok.Literal = literal
	case isDigit(l.ch) || (l.ch == '.' && isDigit(l.peekChar())):
		tok.Type = NUMBER
		tok.Literal = l.readNumber()
	case l.ch == '"' || l.ch == '\'':
		value, ok := l.readString(l.ch)
		if !ok {
			tok.Type = ILLEGAL
			tok.Literal = "Invalid string literal"
			break
		}
		tok.Type = STRING
		tok.Literal = value
	case l.ch == '/' && l.regexAllowed():
		raw, ok := l.readRegex()
		if !ok {
			tok.Type = ILLEGAL
			tok.Literal = "Unterminated regular expression"
			break
		}
		tok.Type = REGEX
		tok.Literal = raw
	default:
		tok.Type = l.readPunctuator()
		tok.Literal = l.input[startPos:l.position]
	}

	tok.EndPos = l.position
	if tok.Type != ILLEGAL {
		l.prev = tok.Type
	}
	return tok
}

// Tokenize scans the whole input. The slice always ends with an EOF token,
// and lexing stops at the first ILLEGAL token.
func (l *Lexer) Tokenize() []Token {
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == EOF || tok.Type == ILLEGAL {
			if tok.Type == ILLEGAL {
				toks = append(toks, Token{Type: EOF, Line: tok.Line, Column: tok.Column, StartPos: tok.EndPos, EndPos: tok.EndPos})
			}
			return toks
		}
	}
}

func (l *Lexer) readPunctuator() TokenType {
	rest := l.input[l.position:]
	for _, p := range punctuators {
		if strings.HasPrefix(rest, string(p)) {
			for i := 0; i < len(p); i++ {
				l.readChar()
			}
			return p
		}
	}
	l.readChar()
	return ILLEGAL
}

// readIdentifier reads an identifier (letters, digits, _, $ and non-ASCII letters).
func (l *Lexer) readIdentifier() (string, bool) {
	startPos := l.position
	for !l.atEOF() {
		if l.ch < utf8.RuneSelf {
			if !isIdentifierPart(l.ch) {
				break
			}
			l.readChar()
			continue
		}
		r, size := utf8.DecodeRuneInString(l.input[l.position:])
		if !unicode.IsLetter(r) && !(l.position > startPos && (unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r))) {
			break
		}
		for i := 0; i < size; i++ {
			l.readChar()
		}
	}
	if l.position == startPos {
		l.readChar()
		return l.input[startPos:l.position], false
	}
	return l.input[startPos:l.position], true
}

// readNumber reads a number literal (integer or float, various bases) and
// returns the raw text including separators.
func (l *Lexer) readNumber() string {
	startPos := l.position
	if l.ch == '0' {
		switch l.peekChar() {
		case 'x', 'X', 'o', 'O', 'b', 'B':
			l.readChar()
			l.readChar()
			for isHexDigit(l.ch) || l.ch == '_' {
				l.readChar()
			}
			return l.input[startPos:l.position]
		}
	}
	for isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	if l.ch == '.' {
		l.readChar()
		for isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || next == '+' || next == '-' {
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) || l.ch == '_' {
				l.readChar()
			}
		}
	}
	return l.input[startPos:l.position]
}

// readString reads a quoted string, decoding escape sequences.
func (l *Lexer) readString(quote byte) (string, bool) {
	var out strings.Builder
	l.readChar() // opening quote
	for {
		switch {
		case l.atEOF() || l.ch == '\n':
			return "", false
		case l.ch == quote:
			l.readChar()
			return out.String(), true
		case l.ch == '\\':
			l.readChar()
			if !l.readEscape(&out) {
				return "", false
			}
		default:
			out.WriteByte(l.ch)
			l.readChar()
		}
	}
}

// readEscape decodes one escape sequence; the backslash is already consumed.
func (l *Lexer) readEscape(out *strings.Builder) bool {
	switch l.ch {
	case 'n':
		out.WriteByte('\n')
	case 't':
		out.WriteByte('\t')
	case 'r':
		out.WriteByte('\r')
	case 'b':
		out.WriteByte('\b')
	case 'f':
		out.WriteByte('\f')
	case 'v':
		out.WriteByte('\v')
	case '0':
		if isDigit(l.peekChar()) {
			return false
		}
		out.WriteByte(0)
	case '\r':
		if l.peekChar() == '\n' {
			l.readChar()
		}
	case '\n':
		// line continuation
	case 'x':
		l.readChar()
		v, ok := l.readHex(2)
		if !ok {
			return false
		}
		out.WriteRune(rune(v))
		return true
	case 'u':
		l.readChar()
		r, ok := l.readUnicodeEscape()
		if !ok {
			return false
		}
		out.WriteRune(r)
		return true
	case 0:
		return false
	default:
		out.WriteByte(l.ch)
	}
	l.readChar()
	return true
}

// readUnicodeEscape reads \uHHHH, \u{H...} and joins surrogate pairs.
func (l *Lexer) readUnicodeEscape() (rune, bool) {
	if l.ch == '{' {
		l.readChar()
		start := l.position
		for isHexDigit(l.ch) {
			l.readChar()
		}
		if l.ch != '}' || l.position == start {
			return 0, false
		}
		v, err := strconv.ParseUint(l.input[start:l.position], 16, 32)
		l.readChar()
		if err != nil || v > unicode.MaxRune {
			return 0, false
		}
		return rune(v), true
	}
	v, ok := l.readHex(4)
	if !ok {
		return 0, false
	}
	r := rune(v)
	if utf16.IsSurrogate(r) && l.ch == '\\' && l.peekChar() == 'u' {
		save, saveRead, saveCol := l.position, l.readPosition, l.column
		l.readChar()
		l.readChar()
		if lo, ok := l.readHex(4); ok {
			if joined := utf16.DecodeRune(r, rune(lo)); joined != unicode.ReplacementChar {
				return joined, true
			}
		}
		l.position, l.readPosition, l.column = save, saveRead, saveCol
		l.ch = l.input[l.position]
	}
	return r, true
}

func (l *Lexer) readHex(n int) (uint64, bool) {
	start := l.position
	for i := 0; i < n; i++ {
		if !isHexDigit(l.ch) {
			return 0, false
		}
		l.readChar()
	}
	v, err := strconv.ParseUint(l.input[start:l.position], 16, 32)
	return v, err == nil
}

// readRegex reads /body/flags and returns the raw text.
func (l *Lexer) readRegex() (string, bool) {
	startPos := l.position
	l.readChar() // opening '/'
	inClass := false
	for {
		switch {
		case l.atEOF() || l.ch == '\n':
			return "", false
		case l.ch == '\\':
			l.readChar()
			if l.atEOF() || l.ch == '\n' {
				return "", false
			}
		case l.ch == '[':
			inClass = true
		case l.ch == ']':
			inClass = false
		case l.ch == '/' && !inClass:
			l.readChar()
			for isIdentifierPart(l.ch) {
				l.readChar()
			}
			return l.input[startPos:l.position], true
		}
		l.readChar()
	}
}

func isIdentifierStart(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || ch == '$'
}

func isIdentifierPart(ch byte) bool {
	return isIdentifierStart(ch) || isDigit(ch)
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || 'a' <= ch && ch <= 'f' || 'A' <= ch && ch <= 'F'
}
