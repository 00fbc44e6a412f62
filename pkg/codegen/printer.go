package codegen

import (
	"strings"

	"github.com/nooga/squash/pkg/ast"
)

// Printer turns an AST back into compact JavaScript.
type Printer struct {
	buf      strings.Builder
	needSemi bool // a statement ended and still owes its semicolon
	noIn     bool // printing a for-init, where a bare `in` would be misparsed
	flagless bool // last token was a regexp without flags
}

// NewPrinter creates a new printer.
func NewPrinter() *Printer {
	return &Printer{}
}

// Print renders a whole program.
func Print(program *ast.Program) string {
	return NewPrinter().Print(program)
}

// Print renders program. A program that ends with a statement needing a
// terminator keeps its final semicolon.
func (p *Printer) Print(program *ast.Program) string {
	p.buf.Reset()
	p.needSemi = false
	p.noIn = false
	p.flagless = false
	p.printDirectives(program.Directives)
	p.printStatements(program.Statements)
	p.flushSemi()
	return p.buf.String()
}

// PrintExpression renders a single expression.
func PrintExpression(e ast.Expression) string {
	p := NewPrinter()
	p.printExpr(e, precLowest)
	return p.buf.String()
}

// Helper methods

func (p *Printer) lastByte() byte {
	s := p.buf.String()
	if s == "" {
		return 0
	}
	return s[len(s)-1]
}

// print appends s, inserting a space only where the two tokens would merge.
func (p *Printer) print(s string) {
	if s == "" {
		return
	}
	if needsSpace(p.lastByte(), s[0]) || p.flagless && isIdentByte(s[0]) {
		p.buf.WriteByte(' ')
	}
	p.flagless = false
	p.buf.WriteString(s)
}

func needsSpace(prev, next byte) bool {
	switch {
	case isIdentByte(prev) && isIdentByte(next):
		return true
	case prev == '+' && next == '+', prev == '-' && next == '-', prev == '/' && next == '/':
		return true
	}
	return false
}

func isIdentByte(c byte) bool {
	return c == '$' || c == '_' || c == '\\' || c >= 0x80 ||
		'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

// flushSemi writes the semicolon owed by the previous statement.
func (p *Printer) flushSemi() {
	if p.needSemi {
		p.buf.WriteByte(';')
		p.needSemi = false
	}
}

// closeBrace ends a block; the last statement's semicolon is not needed.
func (p *Printer) closeBrace() {
	p.needSemi = false
	p.buf.WriteByte('}')
}

// withIn runs fn with `in` allowed again, as inside brackets.
func (p *Printer) withIn(fn func()) {
	saved := p.noIn
	p.noIn = false
	fn()
	p.noIn = saved
}
