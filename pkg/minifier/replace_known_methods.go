package minifier

import (
	"math"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/nooga/squash/pkg/ast"
	"github.com/nooga/squash/pkg/ecmascript"
	"github.com/nooga/squash/pkg/parser"
	"github.com/nooga/squash/pkg/traverse"
)

// regexpTestTimeout bounds evaluating `/re/.test("...")` at compile time.
const regexpTestTimeout = 50 * time.Millisecond

// replaceKnownMethods evaluates calls to built-in methods whose receiver
// and arguments are constants.
type replaceKnownMethods struct {
	traverse.Base
	changed func()
}

func (r *replaceKnownMethods) ExitExpression(slot *ast.Expression, ctx *traverse.Ctx) {
	var repl ast.Expression
	switch e := (*slot).(type) {
	case *ast.MemberExpression:
		repl = stringLength(e)
	case *ast.CallExpression:
		repl = r.evalCall(e, ctx)
	}
	if repl == nil {
		return
	}
	*slot = repl
	r.changed()
}

func stringLength(m *ast.MemberExpression) ast.Expression {
	s, ok := m.Object.(*ast.StringLiteral)
	if !ok {
		return nil
	}
	if name, ok := m.StaticProperty(); !ok || name != "length" {
		return nil
	}
	return &ast.NumberLiteral{Value: float64(len(ecmascript.UTF16(s.Value)))}
}

func (r *replaceKnownMethods) evalCall(call *ast.CallExpression, ctx *traverse.Ctx) ast.Expression {
	args, ok := constantArgs(call.Arguments, ctx)
	if !ok {
		return nil
	}
	switch callee := call.Callee.(type) {
	case *ast.Identifier:
		if !ctx.IsGlobalReference(callee.Name) {
			return nil
		}
		return globalFunction(callee.Name, args, call.Arguments)
	case *ast.MemberExpression:
		name, ok := callee.StaticProperty()
		if !ok {
			return nil
		}
		switch obj := callee.Object.(type) {
		case *ast.StringLiteral:
			return stringMethod(obj.Value, name, args)
		case *ast.ArrayExpression:
			if name == "join" {
				return arrayJoin(obj, args, ctx)
			}
		case *ast.RegExpLiteral:
			if name == "test" && len(args) == 1 && args[0].IsString() {
				return regexpTest(obj, args[0].Str)
			}
		case *ast.Identifier:
			if !ctx.IsGlobalReference(obj.Name) {
				return nil
			}
			switch obj.Name {
			case "Math":
				return mathFunction(name, args, call.Arguments)
			case "String":
				if name == "fromCharCode" {
					return fromCharCode(args)
				}
			}
		}
	}
	return nil
}

func constantArgs(exprs []ast.Expression, ctx *traverse.Ctx) ([]ecmascript.Value, bool) {
	args := make([]ecmascript.Value, len(exprs))
	for i, e := range exprs {
		v, ok := ecmascript.Constant(e, ctx.IsGlobalReference)
		if !ok {
			return nil, false
		}
		args[i] = v
	}
	return args, true
}

// arg returns the i-th argument, undefined when absent.
func arg(args []ecmascript.Value, i int) ecmascript.Value {
	if i < len(args) {
		return args[i]
	}
	return ecmascript.UndefinedValue()
}

// toIntegerOrInfinity implements the abstract operation of the same name.
func toIntegerOrInfinity(v ecmascript.Value) float64 {
	n := v.ToNumber()
	if math.IsNaN(n) {
		return 0
	}
	return math.Trunc(n)
}

func clampIndex(n float64, length int) int {
	return int(math.Max(0, math.Min(n, float64(length))))
}

// relativeIndex resolves a possibly negative index the way slice does.
func relativeIndex(v ecmascript.Value, length int) int {
	n := toIntegerOrInfinity(v)
	if n < 0 {
		n += float64(length)
	}
	return clampIndex(n, length)
}

func stringExpr(units []uint16) ast.Expression {
	s, ok := ecmascript.FromUTF16(units)
	if !ok {
		return nil
	}
	return &ast.StringLiteral{Value: s}
}

func numberExpr(n float64) ast.Expression {
	e, ok := ecmascript.NumberValue(n).ToExpression()
	if !ok {
		return nil
	}
	return e
}

func stringMethod(s, name string, args []ecmascript.Value) ast.Expression {
	units := ecmascript.UTF16(s)
	switch name {
	case "charAt":
		i := toIntegerOrInfinity(arg(args, 0))
		if i < 0 || i >= float64(len(units)) {
			return &ast.StringLiteral{}
		}
		return stringExpr(units[int(i) : int(i)+1])
	case "charCodeAt":
		i := toIntegerOrInfinity(arg(args, 0))
		if i < 0 || i >= float64(len(units)) {
			return nil
		}
		return numberExpr(float64(units[int(i)]))
	case "indexOf":
		search := ecmascript.UTF16(arg(args, 0).ToJSString())
		from := clampIndex(toIntegerOrInfinity(arg(args, 1)), len(units))
		return numberExpr(float64(indexUnits(units, search, from)))
	case "lastIndexOf":
		search := ecmascript.UTF16(arg(args, 0).ToJSString())
		from := math.Inf(1)
		if n := arg(args, 1).ToNumber(); !math.IsNaN(n) {
			from = math.Trunc(n)
		}
		return numberExpr(float64(lastIndexUnits(units, search, clampIndex(from, len(units)))))
	case "substring":
		start := clampIndex(toIntegerOrInfinity(arg(args, 0)), len(units))
		end := len(units)
		if len(args) > 1 && args[1].Kind != ecmascript.Undefined {
			end = clampIndex(toIntegerOrInfinity(args[1]), len(units))
		}
		if start > end {
			start, end = end, start
		}
		return stringExpr(units[start:end])
	case "slice":
		start := relativeIndex(arg(args, 0), len(units))
		end := len(units)
		if len(args) > 1 && args[1].Kind != ecmascript.Undefined {
			end = relativeIndex(args[1], len(units))
		}
		if start >= end {
			return &ast.StringLiteral{}
		}
		return stringExpr(units[start:end])
	case "concat":
		var b strings.Builder
		b.WriteString(s)
		for _, a := range args {
			b.WriteString(a.ToJSString())
		}
		return &ast.StringLiteral{Value: b.String()}
	case "replace", "replaceAll":
		return replaceString(s, name == "replaceAll", args)
	case "trim":
		return &ast.StringLiteral{Value: strings.TrimFunc(s, ecmascript.IsWhitespace)}
	case "trimStart":
		return &ast.StringLiteral{Value: strings.TrimLeftFunc(s, ecmascript.IsWhitespace)}
	case "trimEnd":
		return &ast.StringLiteral{Value: strings.TrimRightFunc(s, ecmascript.IsWhitespace)}
	case "toUpperCase":
		if len(args) == 0 {
			return &ast.StringLiteral{Value: cases.Upper(language.Und).String(s)}
		}
	case "toLowerCase":
		if len(args) == 0 {
			return &ast.StringLiteral{Value: cases.Lower(language.Und).String(s)}
		}
	case "normalize":
		return normalizeString(s, args)
	}
	return nil
}

// replaceString handles string patterns with a replacement free of `$`
// substitutions.
func replaceString(s string, all bool, args []ecmascript.Value) ast.Expression {
	if len(args) != 2 || !args[0].IsString() || !args[1].IsString() {
		return nil
	}
	pattern, with := args[0].Str, args[1].Str
	if strings.Contains(with, "$") {
		return nil
	}
	if !all {
		return &ast.StringLiteral{Value: strings.Replace(s, pattern, with, 1)}
	}
	// An empty pattern matches between code units, not runes.
	if pattern == "" {
		return nil
	}
	return &ast.StringLiteral{Value: strings.ReplaceAll(s, pattern, with)}
}

func normalizeString(s string, args []ecmascript.Value) ast.Expression {
	form := "NFC"
	if a := arg(args, 0); a.Kind != ecmascript.Undefined {
		form = a.ToJSString()
	}
	var f norm.Form
	switch form {
	case "NFC":
		f = norm.NFC
	case "NFD":
		f = norm.NFD
	case "NFKC":
		f = norm.NFKC
	case "NFKD":
		f = norm.NFKD
	default:
		return nil
	}
	return &ast.StringLiteral{Value: f.String(s)}
}

func indexUnits(units, search []uint16, from int) int {
	for i := from; i+len(search) <= len(units); i++ {
		if unitsEqual(units[i:i+len(search)], search) {
			return i
		}
	}
	return -1
}

func lastIndexUnits(units, search []uint16, from int) int {
	for i := min(from, len(units)-len(search)); i >= 0; i-- {
		if unitsEqual(units[i:i+len(search)], search) {
			return i
		}
	}
	return -1
}

func unitsEqual(a, b []uint16) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func arrayJoin(arr *ast.ArrayExpression, args []ecmascript.Value, ctx *traverse.Ctx) ast.Expression {
	sep := ","
	if a := arg(args, 0); a.Kind != ecmascript.Undefined {
		sep = a.ToJSString()
	}
	s, ok := ecmascript.ArrayJoin(arr, sep, ctx.IsGlobalReference)
	if !ok {
		return nil
	}
	return &ast.StringLiteral{Value: s}
}

// regexpTest runs a literal regexp against a literal string. Inputs with
// line terminators are refused since regexp2 does not treat all of them
// the way JavaScript does.
func regexpTest(re *ast.RegExpLiteral, input string) ast.Expression {
	if strings.ContainsAny(re.Flags, "guyv") || strings.ContainsAny(input, "\n\r\u2028\u2029") {
		return nil
	}
	opts, err := parser.RegexpOptions(re.Flags)
	if err != nil {
		return nil
	}
	compiled, err := regexp2.Compile(re.Pattern, opts)
	if err != nil {
		return nil
	}
	compiled.MatchTimeout = regexpTestTimeout
	matched, err := compiled.MatchString(input)
	if err != nil {
		return nil
	}
	return &ast.BooleanLiteral{Value: matched}
}

func fromCharCode(args []ecmascript.Value) ast.Expression {
	units := make([]uint16, len(args))
	for i, a := range args {
		units[i] = uint16(ecmascript.ToUint32(a.ToNumber()))
	}
	return stringExpr(units)
}

func globalFunction(name string, args []ecmascript.Value, exprs []ast.Expression) ast.Expression {
	var n float64
	switch name {
	case "parseInt":
		radix := int(ecmascript.ToInt32(arg(args, 1).ToNumber()))
		n = ecmascript.ParseInt(arg(args, 0).ToJSString(), radix)
	case "parseFloat":
		n = ecmascript.ParseFloat(arg(args, 0).ToJSString())
	default:
		return nil
	}
	if !numberFits(n, callLength(name, exprs)) {
		return nil
	}
	return numberExpr(n)
}

func mathFunction(name string, args []ecmascript.Value, exprs []ast.Expression) ast.Expression {
	x := arg(args, 0).ToNumber()
	var n float64
	switch name {
	case "abs":
		n = math.Abs(x)
	case "ceil":
		n = math.Ceil(x)
	case "floor":
		n = math.Floor(x)
	case "round":
		n = jsRound(x)
	case "sign":
		n = x
		if x > 0 {
			n = 1
		} else if x < 0 {
			n = -1
		}
	case "trunc":
		n = math.Trunc(x)
	case "sqrt":
		n = math.Sqrt(x)
	case "cbrt":
		n = math.Cbrt(x)
	case "pow":
		n = jsPow(x, arg(args, 1).ToNumber())
	case "min", "max":
		n = minMax(name == "max", args)
	default:
		return nil
	}
	if !numberFits(n, callLength("Math."+name, exprs)) {
		return nil
	}
	return numberExpr(n)
}

// jsRound rounds half up, keeping the sign of negative results that round
// to zero.
func jsRound(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	r := math.Floor(x)
	if x-r >= 0.5 {
		r++
	}
	if r == 0 && (x < 0 || math.Signbit(x)) {
		return math.Copysign(0, -1)
	}
	return r
}

func minMax(isMax bool, args []ecmascript.Value) float64 {
	result := math.Inf(1)
	if isMax {
		result = math.Inf(-1)
	}
	for _, a := range args {
		v := a.ToNumber()
		switch {
		case math.IsNaN(v):
			return v
		case isMax && (v > result || v == 0 && result == 0 && !math.Signbit(v)):
			result = v
		case !isMax && (v < result || v == 0 && result == 0 && math.Signbit(v)):
			result = v
		}
	}
	return result
}

// callLength estimates the printed length of `callee(args)`.
func callLength(callee string, args []ast.Expression) int {
	n := len(callee) + 2
	for i, a := range args {
		if i > 0 {
			n++
		}
		n += sourceLength(a)
	}
	return n
}
