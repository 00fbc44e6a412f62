package minifier

import (
	"github.com/nooga/squash/pkg/ast"
	"github.com/nooga/squash/pkg/traverse"
)

// substituteAlternateSyntax replaces constructs with shorter equivalents.
// Rewrites that other rules would have to undo (`!0` for true, `"u"` for
// "undefined") only run outside the fixed-point loop.
type substituteAlternateSyntax struct {
	traverse.Base
	changed     func()
	inFixedLoop bool
	opts        CompressOptions

	// definePropertyCalls has one entry per enclosing call, true for
	// `Object.defineProperty(exports, ...)`.
	definePropertyCalls []bool
	definePropertyDepth int
}

var compoundOperators = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true, "**": true,
	"<<": true, ">>": true, ">>>": true, "&": true, "|": true, "^": true,
}

func (r *substituteAlternateSyntax) EnterCallExpression(call *ast.CallExpression, ctx *traverse.Ctx) {
	isDefine := isDefinePropertyExports(call, ctx)
	r.definePropertyCalls = append(r.definePropertyCalls, isDefine)
	if isDefine {
		r.definePropertyDepth++
	}
}

func (r *substituteAlternateSyntax) ExitCallExpression(call *ast.CallExpression, _ *traverse.Ctx) {
	n := len(r.definePropertyCalls) - 1
	if r.definePropertyCalls[n] {
		r.definePropertyDepth--
	}
	r.definePropertyCalls = r.definePropertyCalls[:n]

	if args, ok := inlineSpreadArrays(call.Arguments); ok {
		call.Arguments = args
		r.changed()
	}
}

// isDefinePropertyExports matches `Object.defineProperty(exports, ...)`.
// Getters passed to it are kept as functions since bundlers look for them.
func isDefinePropertyExports(call *ast.CallExpression, ctx *traverse.Ctx) bool {
	m, ok := call.Callee.(*ast.MemberExpression)
	if !ok || len(call.Arguments) == 0 {
		return false
	}
	obj, ok := m.Object.(*ast.Identifier)
	if !ok || obj.Name != "Object" || !ctx.IsGlobalReference("Object") {
		return false
	}
	if name, ok := m.StaticProperty(); !ok || name != "defineProperty" {
		return false
	}
	target, ok := call.Arguments[0].(*ast.Identifier)
	return ok && target.Name == "exports"
}

// inlineSpreadArrays turns `f(...[a, b])` into `f(a, b)`. Arrays with holes
// are left alone since a hole spreads as undefined.
func inlineSpreadArrays(args []ast.Expression) ([]ast.Expression, bool) {
	found := false
	for _, a := range args {
		if spreadArray(a) != nil {
			found = true
			break
		}
	}
	if !found {
		return args, false
	}
	out := make([]ast.Expression, 0, len(args))
	for _, a := range args {
		if arr := spreadArray(a); arr != nil {
			out = append(out, arr.Elements...)
			continue
		}
		out = append(out, a)
	}
	return out, true
}

func spreadArray(e ast.Expression) *ast.ArrayExpression {
	s, ok := e.(*ast.SpreadElement)
	if !ok {
		return nil
	}
	arr, ok := s.Argument.(*ast.ArrayExpression)
	if !ok {
		return nil
	}
	for _, el := range arr.Elements {
		if el == nil {
			return nil
		}
	}
	return arr
}

func (r *substituteAlternateSyntax) ExitReturnStatement(ret *ast.ReturnStatement, _ *traverse.Ctx) {
	if ret.Argument != nil && ast.IsVoidZero(ret.Argument) {
		ret.Argument = nil
		r.changed()
	}
}

func (r *substituteAlternateSyntax) ExitVariableDeclaration(d *ast.VariableDeclaration, _ *traverse.Ctx) {
	if d.DeclKind != ast.Let {
		return
	}
	for _, decl := range d.Declarations {
		if decl.Init != nil && ast.IsVoidZero(decl.Init) {
			decl.Init = nil
			r.changed()
		}
	}
}

func (r *substituteAlternateSyntax) ExitCatchClause(c *ast.CatchClause, _ *traverse.Ctx) {
	if c.Param == nil || !r.opts.Target.Supports(ES2019) {
		return
	}
	if !referencesName(c.Body, c.Param.Name) {
		c.Param = nil
		r.changed()
	}
}

func (r *substituteAlternateSyntax) ExitExpression(slot *ast.Expression, ctx *traverse.Ctx) {
	var repl ast.Expression
	switch e := (*slot).(type) {
	case *ast.Identifier:
		if e.Name == "undefined" && ctx.IsGlobalReference("undefined") {
			repl = ast.NewUndefined()
		}
	case *ast.BooleanLiteral:
		if !r.inFixedLoop && r.opts.Booleans {
			repl = shortBoolean(e.Value)
		}
	case *ast.BinaryExpression:
		if !r.inFixedLoop && r.opts.Typeofs {
			repl = compareTypeofUndefined(e)
		}
	case *ast.AssignmentExpression:
		if r.compoundAssign(e) {
			r.changed()
		}
		return
	case *ast.CallExpression:
		if len(e.Arguments) == 0 {
			repl = emptyLiteral(e.Callee, ctx)
		}
	case *ast.NewExpression:
		if len(e.Arguments) == 0 {
			repl = emptyLiteral(e.Callee, ctx)
		}
	case *ast.FunctionExpression:
		if r.canBeArrow(e, ctx) {
			repl = toArrow(e.Func)
		}
	}
	if repl == nil {
		return
	}
	*slot = repl
	r.changed()
}

func shortBoolean(b bool) ast.Expression {
	v := 1.0
	if b {
		v = 0
	}
	return ast.NewNot(&ast.NumberLiteral{Value: v})
}

// compareTypeofUndefined rewrites `typeof x == "undefined"` to
// `typeof x > "u"`; every other typeof result sorts below "u".
func compareTypeofUndefined(e *ast.BinaryExpression) ast.Expression {
	var op string
	switch e.Operator {
	case "==", "===":
		op = ">"
	case "!=", "!==":
		op = "<"
	default:
		return nil
	}
	t, ok := e.Left.(*ast.UnaryExpression)
	if !ok || t.Operator != "typeof" {
		return nil
	}
	s, ok := e.Right.(*ast.StringLiteral)
	if !ok || s.Value != "undefined" {
		return nil
	}
	return &ast.BinaryExpression{Operator: op, Left: t, Right: &ast.StringLiteral{Value: "u"}}
}

// compoundAssign turns `a = a op b` into `a op= b`.
func (r *substituteAlternateSyntax) compoundAssign(a *ast.AssignmentExpression) bool {
	if a.Operator != "=" {
		return false
	}
	bin, ok := a.Value.(*ast.BinaryExpression)
	if !ok || !compoundOperators[bin.Operator] || !ast.SameReference(a.Target, bin.Left) {
		return false
	}
	a.Operator = bin.Operator + "="
	a.Value = bin.Right
	return true
}

// emptyLiteral maps the global Array and Object constructors called without
// arguments to a literal.
func emptyLiteral(callee ast.Expression, ctx *traverse.Ctx) ast.Expression {
	id, ok := callee.(*ast.Identifier)
	if !ok || !ctx.IsGlobalReference(id.Name) {
		return nil
	}
	switch id.Name {
	case "Array":
		return &ast.ArrayExpression{}
	case "Object":
		return &ast.ObjectExpression{}
	}
	return nil
}

// canBeArrow reports whether e may become an arrow function. Arrows cannot
// be constructed and have no prototype, so only functions that are called
// right away or handed to a call as a callback are converted.
func (r *substituteAlternateSyntax) canBeArrow(e *ast.FunctionExpression, ctx *traverse.Ctx) bool {
	fn := e.Func
	if fn.Name != nil || !r.opts.Target.Supports(ES2015) || r.definePropertyDepth > 0 {
		return false
	}
	call, ok := ctx.Parent().(*ast.CallExpression)
	if !ok || !calledOrPassed(call, e) || inspectsFunctions(call, ctx) {
		return false
	}
	seen := make(map[string]bool, len(fn.Params))
	for _, p := range fn.Params {
		if seen[p.Name] {
			return false
		}
		seen[p.Name] = true
	}
	return !usesThisOrArguments(fn)
}

func calledOrPassed(call *ast.CallExpression, e *ast.FunctionExpression) bool {
	if call.Callee == ast.Expression(e) {
		return true
	}
	for _, arg := range call.Arguments {
		if arg == ast.Expression(e) {
			return true
		}
	}
	return false
}

// functionInspectors construct their function arguments or reach their
// prototype.
var functionInspectors = map[string]map[string]bool{
	"Object":  {"defineProperty": true, "defineProperties": true, "setPrototypeOf": true, "create": true},
	"Reflect": {"construct": true, "defineProperty": true, "setPrototypeOf": true},
}

func inspectsFunctions(call *ast.CallExpression, ctx *traverse.Ctx) bool {
	m, ok := call.Callee.(*ast.MemberExpression)
	if !ok {
		return false
	}
	obj, ok := m.Object.(*ast.Identifier)
	if !ok || !ctx.IsGlobalReference(obj.Name) {
		return false
	}
	name, ok := m.StaticProperty()
	return ok && functionInspectors[obj.Name][name]
}

func toArrow(fn *ast.Function) *ast.ArrowFunctionExpression {
	body := fn.Body
	if len(body.Directives) == 0 && len(body.Statements) == 1 {
		if ret, ok := body.Statements[0].(*ast.ReturnStatement); ok && ret.Argument != nil {
			return &ast.ArrowFunctionExpression{Params: fn.Params, Expr: ret.Argument}
		}
	}
	return &ast.ArrowFunctionExpression{Params: fn.Params, Body: body}
}
