package lexer

import (
	"testing"
)

func TestNextToken(t *testing.T) {
	input := `var five = 5;
const ten = 10.5;

let add = function(x, y) {
  return x + y;
};

if (five < ten) {
	return true;
} else {
	return false;
}
"foo\tbar"
// This is a comment
x = null;`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
		expectedLine    int
	}{
		{VAR, "var", 1},
		{IDENT, "five", 1},
		{ASSIGN, "=", 1},
		{NUMBER, "5", 1},
		{SEMICOLON, ";", 1},
		{CONST, "const", 2},
		{IDENT, "ten", 2},
		{ASSIGN, "=", 2},
		{NUMBER, "10.5", 2},
		{SEMICOLON, ";", 2},
		{LET, "let", 4},
		{IDENT, "add", 4},
		{ASSIGN, "=", 4},
		{FUNCTION, "function", 4},
		{LPAREN, "(", 4},
		{IDENT, "x", 4},
		{COMMA, ",", 4},
		{IDENT, "y", 4},
		{RPAREN, ")", 4},
		{LBRACE, "{", 4},
		{RETURN, "return", 5},
		{IDENT, "x", 5},
		{PLUS, "+", 5},
		{IDENT, "y", 5},
		{SEMICOLON, ";", 5},
		{RBRACE, "}", 6},
		{SEMICOLON, ";", 6},
		{IF, "if", 8},
		{LPAREN, "(", 8},
		{IDENT, "five", 8},
		{LT, "<", 8},
		{IDENT, "ten", 8},
		{RPAREN, ")", 8},
		{LBRACE, "{", 8},
		{RETURN, "return", 9},
		{TRUE, "true", 9},
		{SEMICOLON, ";", 9},
		{RBRACE, "}", 10},
		{ELSE, "else", 10},
		{LBRACE, "{", 10},
		{RETURN, "return", 11},
		{FALSE, "false", 11},
		{SEMICOLON, ";", 11},
		{RBRACE, "}", 12},
		{STRING, "foo\tbar", 13},
		{IDENT, "x", 15},
		{ASSIGN, "=", 15},
		{NULL, "null", 15},
		{SEMICOLON, ";", 15},
		{EOF, "", 15},
	}

	l := NewLexer(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (literal: %q, line: %d)",
				i, tt.expectedType, tok.Type, tok.Literal, tok.Line)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q (type: %q, line: %d)",
				i, tt.expectedLiteral, tok.Literal, tok.Type, tok.Line)
		}

		if tok.Line != tt.expectedLine {
			t.Errorf("tests[%d] - line wrong. expected=%d, got=%d (type: %q)",
				i, tt.expectedLine, tok.Line, tok.Type)
		}
	}
}

func TestSpecificOperatorLexing(t *testing.T) {
	input := `* *= ** **= > >= >> >>= >>> >>>= & &= | |= || ||= ?? ??= ? <= << <<= === !== => ...`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{ASTERISK, "*"},
		{ASTERISK_ASSIGN, "*="},
		{EXPONENT, "**"},
		{EXPONENT_ASSIGN, "**="},
		{GT, ">"},
		{GE, ">="},
		{RIGHT_SHIFT, ">>"},
		{RIGHT_SHIFT_ASSIGN, ">>="},
		{UNSIGNED_RIGHT_SHIFT, ">>>"},
		{UNSIGNED_RIGHT_SHIFT_ASSIGN, ">>>="},
		{BITWISE_AND, "&"},
		{BITWISE_AND_ASSIGN, "&="},
		{BITWISE_OR, "|"},
		{BITWISE_OR_ASSIGN, "|="},
		{LOGICAL_OR, "||"},
		{LOGICAL_OR_ASSIGN, "||="},
		{COALESCE, "??"},
		{COALESCE_ASSIGN, "??="},
		{QUESTION, "?"},
		{LE, "<="},
		{LEFT_SHIFT, "<<"},
		{LEFT_SHIFT_ASSIGN, "<<="},
		{STRICT_EQ, "==="},
		{STRICT_NOT_EQ, "!=="},
		{ARROW, "=>"},
		{SPREAD, "..."},
		{EOF, ""},
	}

	l := NewLexer(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Errorf("tests[%d] - tokentype wrong. expected=%q (%s), got=%q (%s)",
				i, tt.expectedType, tt.expectedLiteral, tok.Type, tok.Literal)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Errorf("tests[%d] - literal wrong. expected=%q, got=%q (type: %q)",
				i, tt.expectedLiteral, tok.Literal, tok.Type)
		}
	}
}

func TestRegexLiterals(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []TokenType
		literals []string
	}{
		{
			name:     "Simple regex",
			input:    "/hello/",
			expected: []TokenType{REGEX, EOF},
			literals: []string{"/hello/", ""},
		},
		{
			name:     "Regex with flags",
			input:    "/world/gi",
			expected: []TokenType{REGEX, EOF},
			literals: []string{"/world/gi", ""},
		},
		{
			name:     "Slash inside class",
			input:    "/[/]+/",
			expected: []TokenType{REGEX, EOF},
			literals: []string{"/[/]+/", ""},
		},
		{
			name:     "Assignment context",
			input:    "x = /test/i;",
			expected: []TokenType{IDENT, ASSIGN, REGEX, SEMICOLON, EOF},
			literals: []string{"x", "=", "/test/i", ";", ""},
		},
		{
			name:     "Division after number",
			input:    "5 / 2",
			expected: []TokenType{NUMBER, SLASH, NUMBER, EOF},
			literals: []string{"5", "/", "2", ""},
		},
		{
			name:     "Division after paren",
			input:    "(a) / b / c",
			expected: []TokenType{LPAREN, IDENT, RPAREN, SLASH, IDENT, SLASH, IDENT, EOF},
			literals: []string{"(", "a", ")", "/", "b", "/", "c", ""},
		},
		{
			name:     "Regex after paren open",
			input:    "(/pattern/)",
			expected: []TokenType{LPAREN, REGEX, RPAREN, EOF},
			literals: []string{"(", "/pattern/", ")", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := NewLexer(tt.input).Tokenize()
			if len(toks) != len(tt.expected) {
				t.Fatalf("token count wrong. expected=%d, got=%d (%v)", len(tt.expected), len(toks), toks)
			}
			for i, tok := range toks {
				if tok.Type != tt.expected[i] {
					t.Errorf("test[%d] - tokentype wrong. expected=%q, got=%q", i, tt.expected[i], tok.Type)
				}
				if tok.Literal != tt.literals[i] {
					t.Errorf("test[%d] - literal wrong. expected=%q, got=%q", i, tt.literals[i], tok.Literal)
				}
			}
		})
	}
}

func TestStringEscapes(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"a\nb"`, "a\nb"},
		{`'it\'s'`, "it's"},
		{`"\x41"`, "A"},
		{`"\u0041"`, "A"},
		{`"\u{1F600}"`, "\U0001F600"},
		{`"😀"`, "\U0001F600"},
		{`"\0"`, "\x00"},
	}

	for i, tt := range tests {
		tok := NewLexer(tt.input).NextToken()
		if tok.Type != STRING {
			t.Fatalf("tests[%d] - expected STRING, got=%q (%q)", i, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.expected {
			t.Errorf("tests[%d] - value wrong. expected=%q, got=%q", i, tt.expected, tok.Literal)
		}
	}
}

func TestNumberLiterals(t *testing.T) {
	for _, input := range []string{"0", "1.5", ".5", "1e10", "1E-7", "0x1F", "0b101", "0o17", "1_000"} {
		toks := NewLexer(input).Tokenize()
		if len(toks) != 2 || toks[0].Type != NUMBER || toks[0].Literal != input {
			t.Errorf("%q lexed as %v", input, toks)
		}
	}
}

func TestNewlineBefore(t *testing.T) {
	toks := NewLexer("a\nb /* x\n */ c d").Tokenize()
	expected := []bool{false, true, true, false, false}
	for i, tok := range toks {
		if tok.NewlineBefore != expected[i] {
			t.Errorf("tokens[%d] %q - NewlineBefore expected %v, got %v", i, tok.Literal, expected[i], tok.NewlineBefore)
		}
	}
}

func TestIllegalInput(t *testing.T) {
	for _, input := range []string{`"unterminated`, "/* open", "/re\n/", "#"} {
		toks := NewLexer(input).Tokenize()
		if toks[len(toks)-2].Type != ILLEGAL {
			t.Errorf("%q: expected ILLEGAL before EOF, got %v", input, toks)
		}
	}
}
